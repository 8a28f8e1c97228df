package config

import (
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Mining.SimilarityThreshold != DefaultSimilarityThreshold {
		t.Errorf("SimilarityThreshold = %v, want %v",
			cfg.Mining.SimilarityThreshold, DefaultSimilarityThreshold)
	}
	if cfg.Mining.TreeDepth != DefaultTreeDepth {
		t.Errorf("TreeDepth = %d, want %d", cfg.Mining.TreeDepth, DefaultTreeDepth)
	}
	if !cfg.Mining.ParametrizeNumericTokens {
		t.Error("ParametrizeNumericTokens should default to true")
	}
	if cfg.Snapshot.IntervalSeconds != DefaultSnapshotIntervalSeconds {
		t.Errorf("IntervalSeconds = %d, want %d",
			cfg.Snapshot.IntervalSeconds, DefaultSnapshotIntervalSeconds)
	}
	if !cfg.Snapshot.Compress {
		t.Error("Compress should default to true")
	}
	if cfg.Storage.Backend != "file" {
		t.Errorf("Backend = %q, want file", cfg.Storage.Backend)
	}
	if cfg.Server.HTTP.Addr != DefaultHTTPAddr {
		t.Errorf("HTTP.Addr = %q, want %q", cfg.Server.HTTP.Addr, DefaultHTTPAddr)
	}
	if cfg.Log.Level != DefaultLogLevel || cfg.Log.Format != DefaultLogFormat {
		t.Errorf("Log = %q/%q, want %q/%q",
			cfg.Log.Level, cfg.Log.Format, DefaultLogLevel, DefaultLogFormat)
	}

	if err := Verify(cfg); err != nil {
		t.Fatalf("Verify(Default()) = %v, want nil", err)
	}
}

func TestVerify_Mining(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ServerConfig)
	}{
		{"similarity zero", func(c *ServerConfig) { c.Mining.SimilarityThreshold = 0 }},
		{"similarity above one", func(c *ServerConfig) { c.Mining.SimilarityThreshold = 1.5 }},
		{"depth too small", func(c *ServerConfig) { c.Mining.TreeDepth = 2 }},
		{"max children zero", func(c *ServerConfig) { c.Mining.MaxChildren = 0 }},
		{"negative max clusters", func(c *ServerConfig) { c.Mining.MaxClusters = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := Verify(cfg); err == nil {
				t.Fatal("Verify: want error, got nil")
			}
		})
	}
}

func TestVerify_Storage(t *testing.T) {
	cfg := Default()
	cfg.Storage.Backend = "s3"
	if err := Verify(cfg); err == nil {
		t.Fatal("unknown backend: want error, got nil")
	}

	cfg = Default()
	cfg.Storage.Backend = "kafka"
	if err := Verify(cfg); err == nil {
		t.Fatal("kafka without brokers: want error, got nil")
	}
	cfg.Storage.Kafka.Brokers = []string{"localhost:9092"}
	if err := Verify(cfg); err != nil {
		t.Fatalf("kafka with brokers: %v", err)
	}

	cfg = Default()
	cfg.Storage.Backend = "file"
	cfg.Storage.File.Path = ""
	if err := Verify(cfg); err == nil {
		t.Fatal("file without path: want error, got nil")
	}
}

func TestVerify_EncryptionKey(t *testing.T) {
	cfg := Default()
	cfg.Snapshot.EncryptionKey = "not-hex"
	if err := Verify(cfg); err == nil {
		t.Fatal("non-hex key: want error, got nil")
	}

	cfg.Snapshot.EncryptionKey = "abcd" // hex, wrong length
	if err := Verify(cfg); err == nil {
		t.Fatal("short key: want error, got nil")
	}

	cfg.Snapshot.EncryptionKey = strings.Repeat("ab", 32)
	if err := Verify(cfg); err != nil {
		t.Fatalf("valid 32-byte key: %v", err)
	}
}

func TestVerify_Masking(t *testing.T) {
	cfg := Default()
	cfg.Masking.Instructions = []MaskInstruction{{Pattern: "([", MaskWith: "x"}}
	if err := Verify(cfg); err == nil {
		t.Fatal("invalid regex: want error, got nil")
	}

	cfg.Masking.Instructions = []MaskInstruction{{Pattern: `\d+`, MaskWith: ""}}
	if err := Verify(cfg); err == nil {
		t.Fatal("empty mask_with: want error, got nil")
	}
}

func TestSanitize(t *testing.T) {
	cfg := Default()
	cfg.Snapshot.EncryptionKey = strings.Repeat("ab", 32)
	cfg.Storage.Redis.Password = "hunter2hunter2"

	sanitized := Sanitize(cfg)

	if sanitized.Snapshot.EncryptionKey == cfg.Snapshot.EncryptionKey {
		t.Error("encryption key not masked")
	}
	if sanitized.Storage.Redis.Password == cfg.Storage.Redis.Password {
		t.Error("redis password not masked")
	}
	if cfg.Snapshot.EncryptionKey != strings.Repeat("ab", 32) {
		t.Error("original config was modified")
	}
}

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"a", "****"},
		{"abcd", "****"},
		{"abcde", "ab*de"},
		{"1234567890", "12******90"},
	}
	for _, tt := range tests {
		if got := maskSecret(tt.input); got != tt.want {
			t.Errorf("maskSecret(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestMinerConfig(t *testing.T) {
	cfg := Default()
	cfg.Snapshot.IntervalSeconds = 5
	cfg.Profiling.ReportIntervalSeconds = 42

	mc := cfg.MinerConfig()
	if mc.SnapshotInterval != 5*time.Second {
		t.Fatalf("SnapshotInterval = %v, want 5s", mc.SnapshotInterval)
	}
	if mc.ProfileReportInterval != 42*time.Second {
		t.Fatalf("ProfileReportInterval = %v, want 42s", mc.ProfileReportInterval)
	}
	if mc.Engine.SimilarityThreshold != cfg.Mining.SimilarityThreshold {
		t.Fatalf("Engine.SimilarityThreshold = %v, want %v",
			mc.Engine.SimilarityThreshold, cfg.Mining.SimilarityThreshold)
	}
}

func TestBuildMasker(t *testing.T) {
	cfg := Default()

	m, err := cfg.BuildMasker()
	if err != nil {
		t.Fatalf("BuildMasker: %v", err)
	}
	if m != nil {
		t.Fatal("BuildMasker with no instructions: want nil masker")
	}

	cfg.Masking.Instructions = []MaskInstruction{
		{Pattern: `\d+\.\d+\.\d+\.\d+`, MaskWith: "ip"},
	}
	m, err = cfg.BuildMasker()
	if err != nil {
		t.Fatalf("BuildMasker: %v", err)
	}
	if got := m.Mask("from 10.0.0.1"); got != "from <ip>" {
		t.Fatalf("Mask = %q, want %q", got, "from <ip>")
	}
}

func TestBuildCodec(t *testing.T) {
	cfg := Default()
	codec, err := cfg.BuildCodec()
	if err != nil {
		t.Fatalf("BuildCodec: %v", err)
	}
	if !codec.Compress || codec.Sealer != nil {
		t.Fatalf("codec = %+v, want compress on, no sealer", codec)
	}

	cfg.Snapshot.EncryptionKey = strings.Repeat("cd", 32)
	codec, err = cfg.BuildCodec()
	if err != nil {
		t.Fatalf("BuildCodec with key: %v", err)
	}
	if codec.Sealer == nil {
		t.Fatal("codec.Sealer = nil, want sealer")
	}
}
