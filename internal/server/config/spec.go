package config

// ServerConfig is the root configuration for loghive-server.
type ServerConfig struct {
	Mining    MiningSection    `koanf:"mining"`
	Masking   MaskingSection   `koanf:"masking"`
	Snapshot  SnapshotSection  `koanf:"snapshot"`
	Profiling ProfilingSection `koanf:"profiling"`
	Storage   StorageSection   `koanf:"storage"`
	Server    ServerSection    `koanf:"server"`
	Log       LogSection       `koanf:"log"`
}

// MiningSection configures the clustering engine.
type MiningSection struct {
	// SimilarityThreshold is the minimum token-match ratio for a line to
	// join an existing cluster. Range (0, 1].
	SimilarityThreshold float64 `koanf:"similarity_threshold"`

	// TreeDepth is the total prefix-tree depth including root and leaf.
	TreeDepth int `koanf:"tree_depth"`

	// MaxChildren caps children per branch node.
	MaxChildren int `koanf:"max_children"`

	// MaxClusters bounds live clusters; zero means unbounded.
	MaxClusters int `koanf:"max_clusters"`

	// ExtraDelimiters are extra token separators besides whitespace.
	ExtraDelimiters []string `koanf:"extra_delimiters"`

	// ParametrizeNumericTokens routes digit-bearing tokens to the
	// parameter branch.
	ParametrizeNumericTokens bool `koanf:"parametrize_numeric_tokens"`
}

// MaskingSection configures the pre-clustering masker.
type MaskingSection struct {
	// Prefix and Suffix wrap each mask name in the rewritten line.
	Prefix string `koanf:"prefix"`
	Suffix string `koanf:"suffix"`

	// Instructions apply in order; each rewrites regex matches to the
	// wrapped mask name.
	Instructions []MaskInstruction `koanf:"instructions"`
}

// MaskInstruction is one pattern-to-name masking rule.
type MaskInstruction struct {
	Pattern  string `koanf:"pattern"`
	MaskWith string `koanf:"mask_with"`
}

// SnapshotSection configures snapshot persistence.
type SnapshotSection struct {
	// IntervalSeconds is the debounce for periodic snapshots. Structural
	// changes always persist immediately.
	IntervalSeconds int `koanf:"interval_seconds"`

	// Compress enables zlib+base64 encoding of snapshot blobs.
	Compress bool `koanf:"compress"`

	// EncryptionKey, when set, is a 64-char hex key for sealing
	// snapshots with XChaCha20-Poly1305.
	EncryptionKey string `koanf:"encryption_key"`
}

// ProfilingSection configures the pipeline profiler.
type ProfilingSection struct {
	Enabled               bool `koanf:"enabled"`
	ReportIntervalSeconds int  `koanf:"report_interval_seconds"`
}

// StorageSection selects and configures the snapshot store.
type StorageSection struct {
	// Backend is one of: file, memory, badger, redis, kafka.
	Backend string `koanf:"backend"`

	File   FileStorage   `koanf:"file"`
	Badger BadgerStorage `koanf:"badger"`
	Redis  RedisStorage  `koanf:"redis"`
	Kafka  KafkaStorage  `koanf:"kafka"`
}

// FileStorage configures the single-file store.
type FileStorage struct {
	Path string `koanf:"path"`
}

// BadgerStorage configures the badger-backed store.
type BadgerStorage struct {
	Dir        string `koanf:"dir"`
	SyncWrites bool   `koanf:"sync_writes"`
}

// RedisStorage configures the redis-backed store.
type RedisStorage struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
	Key      string `koanf:"key"`
}

// KafkaStorage configures the kafka-backed store.
type KafkaStorage struct {
	Brokers  []string `koanf:"brokers"`
	Topic    string   `koanf:"topic"`
	ClientID string   `koanf:"client_id"`
}

// ServerSection configures the network surface.
type ServerSection struct {
	HTTP HTTPConfig `koanf:"http"`
}

// HTTPConfig configures the HTTP API server.
type HTTPConfig struct {
	Addr string `koanf:"addr"`

	// RateLimit is the per-client request rate (requests/second);
	// zero disables limiting. RateBurst is the allowed burst.
	RateLimit float64 `koanf:"rate_limit"`
	RateBurst int     `koanf:"rate_burst"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
