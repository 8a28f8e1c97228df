package config

// Default configuration values.
const (
	DefaultSimilarityThreshold = 0.4
	DefaultTreeDepth           = 4
	DefaultMaxChildren         = 100

	DefaultSnapshotIntervalSeconds = 30
	DefaultProfileReportSeconds    = 60

	DefaultStorageBackend = "file"
	DefaultSnapshotPath   = "/var/lib/loghive/snapshot"
	DefaultBadgerDir      = "/var/lib/loghive/badger"
	DefaultRedisAddr      = "127.0.0.1:6379"
	DefaultKafkaTopic     = "loghive-state"

	DefaultHTTPAddr  = "127.0.0.1:5090"
	DefaultRateLimit = 0 // disabled
	DefaultRateBurst = 20

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Mining: MiningSection{
			SimilarityThreshold:      DefaultSimilarityThreshold,
			TreeDepth:                DefaultTreeDepth,
			MaxChildren:              DefaultMaxChildren,
			ParametrizeNumericTokens: true,
		},
		Snapshot: SnapshotSection{
			IntervalSeconds: DefaultSnapshotIntervalSeconds,
			Compress:        true,
		},
		Profiling: ProfilingSection{
			ReportIntervalSeconds: DefaultProfileReportSeconds,
		},
		Storage: StorageSection{
			Backend: DefaultStorageBackend,
			File: FileStorage{
				Path: DefaultSnapshotPath,
			},
			Badger: BadgerStorage{
				Dir: DefaultBadgerDir,
			},
			Redis: RedisStorage{
				Addr: DefaultRedisAddr,
			},
			Kafka: KafkaStorage{
				Topic: DefaultKafkaTopic,
			},
		},
		Server: ServerSection{
			HTTP: HTTPConfig{
				Addr:      DefaultHTTPAddr,
				RateLimit: DefaultRateLimit,
				RateBurst: DefaultRateBurst,
			},
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
