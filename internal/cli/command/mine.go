package command

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/ohrn/loghive-go/internal/core/miner"
	"github.com/ohrn/loghive-go/internal/infra/confloader"
	"github.com/ohrn/loghive-go/internal/server/config"
	"github.com/ohrn/loghive-go/internal/storage/filestore"
	"github.com/ohrn/loghive-go/internal/telemetry/logger"
)

// maxLineSize caps a single input line at 1 MiB.
const maxLineSize = 1 << 20

// MineCommand returns the mine command.
func MineCommand() *cli.Command {
	return &cli.Command{
		Name:      "mine",
		Usage:     "Mine templates from a log file or stdin",
		ArgsUsage: "[FILE]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
			},
			&cli.StringFlag{
				Name:  "snapshot",
				Usage: "Snapshot file to restore from and save to",
			},
			&cli.BoolFlag{
				Name:  "changes",
				Usage: "Print each cluster change as it happens",
			},
		},
		Action: mineRun,
	}
}

func mineRun(c *cli.Context) error {
	cfg, err := loadMiningConfig(c.String("config"))
	if err != nil {
		return err
	}

	in := io.Reader(os.Stdin)
	if file := c.Args().First(); file != "" {
		f, err := os.Open(file)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		in = f
	}

	m, err := buildMiner(c, cfg)
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}

		result, err := m.Process(c.Context, line)
		if err != nil {
			return fmt.Errorf("process line: %w", err)
		}

		if c.Bool("changes") && result.ChangeType.Structural() {
			fmt.Fprintf(c.App.Writer, "%s: cluster %d: %s\n",
				result.ChangeType, result.ClusterID, result.TemplateMined)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	if c.String("snapshot") != "" {
		if err := m.Snapshot(c.Context, "shutdown"); err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
	}

	return renderClusters(c, clusterRows(m.Clusters()))
}

// buildMiner assembles an in-process miner from the configuration and
// the optional snapshot file.
func buildMiner(c *cli.Context, cfg *config.ServerConfig) (*miner.Miner, error) {
	// The engine's own log output would interleave with command output.
	quiet, err := logger.New(logger.Config{
		Level:  "error",
		Format: "json",
		Output: io.Discard,
	})
	if err != nil {
		return nil, err
	}

	masker, err := cfg.BuildMasker()
	if err != nil {
		return nil, err
	}

	var opts []miner.Option
	if masker != nil {
		opts = append(opts, miner.WithMasker(masker))
	}

	if path := c.String("snapshot"); path != "" {
		store, err := filestore.New(path)
		if err != nil {
			return nil, err
		}
		codec, err := cfg.BuildCodec()
		if err != nil {
			return nil, err
		}
		opts = append(opts, miner.WithStore(store, codec))
	}

	return miner.New(c.Context, cfg.MinerConfig(), quiet, opts...)
}

// loadMiningConfig layers defaults, the optional config file and
// LOGHIVE_ environment variables.
func loadMiningConfig(configFile string) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	loader := confloader.NewLoader(opts...)
	if err := loader.Load(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
