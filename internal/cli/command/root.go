package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/ohrn/loghive-go/internal/cli/connection"
	"github.com/ohrn/loghive-go/internal/cli/output"
	"github.com/ohrn/loghive-go/internal/core/domain"
	"github.com/ohrn/loghive-go/internal/infra/buildinfo"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "loghive-cli",
		Usage:   "loghive log template mining tool",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			MineCommand(),
			SnapshotCommand(),
			ClustersCommand(),
			StatusCommand(),
			VersionCommand(),
		},
	}
}

// VersionCommand returns the version command.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show version information",
		Action: func(c *cli.Context) error {
			_, err := fmt.Fprintf(c.App.Writer, "loghive-cli %s\n", buildinfo.String())
			return err
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "loghive server address (e.g. localhost:5090)",
			EnvVars: []string{"LOGHIVE_SERVER"},
			Value:   "localhost:5090",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   "table",
		},
	}
}

// formatter builds the output formatter selected by the global flag.
func formatter(c *cli.Context) output.Formatter {
	return output.NewFormatter(output.Format(c.String("output")))
}

// serverClient builds an HTTP client for the configured server.
func serverClient(c *cli.Context) *connection.Client {
	return connection.NewClient(c.String("server"))
}

// clusterRow is the cluster listing shared by local and remote commands.
type clusterRow struct {
	ID       int64  `json:"id" yaml:"id"`
	Size     int64  `json:"size" yaml:"size"`
	Template string `json:"template" yaml:"template"`
}

// renderClusters writes a cluster listing in the selected format.
func renderClusters(c *cli.Context, rows []clusterRow) error {
	f := formatter(c)

	if _, ok := f.(*output.TableFormatter); ok {
		table := &output.Table{}
		table.SetHeaders("ID", "SIZE", "TEMPLATE")
		for _, row := range rows {
			table.AddRow(
				fmt.Sprintf("%d", row.ID),
				fmt.Sprintf("%d", row.Size),
				row.Template,
			)
		}
		return f.Format(c.App.Writer, table)
	}

	return f.Format(c.App.Writer, rows)
}

// clusterRows converts engine clusters into listing rows.
func clusterRows(clusters []*domain.LogCluster) []clusterRow {
	rows := make([]clusterRow, 0, len(clusters))
	for _, cl := range clusters {
		rows = append(rows, clusterRow{
			ID:       cl.ID,
			Size:     cl.Size,
			Template: cl.Template(),
		})
	}
	return rows
}
