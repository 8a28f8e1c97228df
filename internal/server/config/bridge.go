package config

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/ohrn/loghive-go/internal/core/drain"
	"github.com/ohrn/loghive-go/internal/core/masking"
	"github.com/ohrn/loghive-go/internal/core/miner"
	"github.com/ohrn/loghive-go/internal/storage"
)

// MinerConfig translates the configuration into miner parameters.
func (c *ServerConfig) MinerConfig() miner.Config {
	return miner.Config{
		Engine: drain.Config{
			SimilarityThreshold:      c.Mining.SimilarityThreshold,
			Depth:                    c.Mining.TreeDepth,
			MaxChildren:              c.Mining.MaxChildren,
			MaxClusters:              c.Mining.MaxClusters,
			ExtraDelimiters:          c.Mining.ExtraDelimiters,
			ParametrizeNumericTokens: c.Mining.ParametrizeNumericTokens,
		},
		SnapshotInterval:      time.Duration(c.Snapshot.IntervalSeconds) * time.Second,
		ProfileReportInterval: time.Duration(c.Profiling.ReportIntervalSeconds) * time.Second,
	}
}

// BuildMasker compiles the masking instructions. Returns nil when no
// instructions are configured.
func (c *ServerConfig) BuildMasker() (*masking.Masker, error) {
	if len(c.Masking.Instructions) == 0 {
		return nil, nil
	}

	instructions := make([]*masking.Instruction, 0, len(c.Masking.Instructions))
	for _, mi := range c.Masking.Instructions {
		inst, err := masking.NewInstruction(mi.Pattern, mi.MaskWith)
		if err != nil {
			return nil, fmt.Errorf("config: masking instruction %q: %w", mi.Pattern, err)
		}
		instructions = append(instructions, inst)
	}

	var opts []masking.Option
	if c.Masking.Prefix != "" {
		opts = append(opts, masking.WithPrefix(c.Masking.Prefix))
	}
	if c.Masking.Suffix != "" {
		opts = append(opts, masking.WithSuffix(c.Masking.Suffix))
	}
	return masking.New(instructions, opts...), nil
}

// BuildCodec assembles the snapshot codec from the compression flag and
// the optional encryption key.
func (c *ServerConfig) BuildCodec() (storage.Codec, error) {
	codec := storage.Codec{Compress: c.Snapshot.Compress}
	if c.Snapshot.EncryptionKey == "" {
		return codec, nil
	}

	key, err := hex.DecodeString(c.Snapshot.EncryptionKey)
	if err != nil {
		return storage.Codec{}, fmt.Errorf("config: snapshot.encryption_key: %w", err)
	}
	sealer, err := storage.NewSealer(key)
	if err != nil {
		return storage.Codec{}, err
	}
	codec.Sealer = sealer
	return codec, nil
}
