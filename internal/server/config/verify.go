package config

import (
	"encoding/hex"
	"fmt"
	"regexp"

	"github.com/ohrn/loghive-go/internal/storage"
)

var validBackends = map[string]bool{
	"file":   true,
	"memory": true,
	"badger": true,
	"redis":  true,
	"kafka":  true,
}

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyMining(&cfg.Mining); err != nil {
		return err
	}
	if err := verifyMasking(&cfg.Masking); err != nil {
		return err
	}
	if err := verifySnapshot(&cfg.Snapshot); err != nil {
		return err
	}
	if err := verifyStorage(&cfg.Storage); err != nil {
		return err
	}
	if cfg.Server.HTTP.RateLimit < 0 {
		return fmt.Errorf("config: server.http.rate_limit must not be negative")
	}
	return nil
}

func verifyMining(cfg *MiningSection) error {
	if cfg.SimilarityThreshold <= 0 || cfg.SimilarityThreshold > 1 {
		return fmt.Errorf("config: mining.similarity_threshold %v out of range (0, 1]", cfg.SimilarityThreshold)
	}
	if cfg.TreeDepth < 3 {
		return fmt.Errorf("config: mining.tree_depth %d too small, need at least 3", cfg.TreeDepth)
	}
	if cfg.MaxChildren < 1 {
		return fmt.Errorf("config: mining.max_children %d too small", cfg.MaxChildren)
	}
	if cfg.MaxClusters < 0 {
		return fmt.Errorf("config: mining.max_clusters must not be negative")
	}
	return nil
}

func verifyMasking(cfg *MaskingSection) error {
	for _, inst := range cfg.Instructions {
		if inst.MaskWith == "" {
			return fmt.Errorf("config: masking instruction %q has no mask_with", inst.Pattern)
		}
		if _, err := regexp.Compile(inst.Pattern); err != nil {
			return fmt.Errorf("config: masking pattern %q: %w", inst.Pattern, err)
		}
	}
	return nil
}

func verifySnapshot(cfg *SnapshotSection) error {
	if cfg.IntervalSeconds < 0 {
		return fmt.Errorf("config: snapshot.interval_seconds must not be negative")
	}
	if cfg.EncryptionKey != "" {
		key, err := hex.DecodeString(cfg.EncryptionKey)
		if err != nil {
			return fmt.Errorf("config: snapshot.encryption_key is not hex: %w", err)
		}
		if len(key) != storage.SealKeySize {
			return fmt.Errorf("config: snapshot.encryption_key must decode to %d bytes, got %d",
				storage.SealKeySize, len(key))
		}
	}
	return nil
}

func verifyStorage(cfg *StorageSection) error {
	if !validBackends[cfg.Backend] {
		return fmt.Errorf("config: unknown storage.backend %q", cfg.Backend)
	}
	switch cfg.Backend {
	case "file":
		if cfg.File.Path == "" {
			return fmt.Errorf("config: storage.file.path is required")
		}
	case "badger":
		if cfg.Badger.Dir == "" {
			return fmt.Errorf("config: storage.badger.dir is required")
		}
	case "redis":
		if cfg.Redis.Addr == "" {
			return fmt.Errorf("config: storage.redis.addr is required")
		}
	case "kafka":
		if len(cfg.Kafka.Brokers) == 0 {
			return fmt.Errorf("config: storage.kafka.brokers is required")
		}
		if cfg.Kafka.Topic == "" {
			return fmt.Errorf("config: storage.kafka.topic is required")
		}
	}
	return nil
}
