package command

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ohrn/loghive-go/internal/cli/connection"
	"github.com/ohrn/loghive-go/internal/cli/output"
)

// StatusCommand returns the status command.
func StatusCommand() *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Show the health of a running server",
		Action: statusShow,
	}
}

// statusView mirrors the server's health response.
type statusView struct {
	Status   string `json:"status" yaml:"status"`
	RunID    string `json:"run_id" yaml:"run_id"`
	Clusters int    `json:"clusters" yaml:"clusters"`
	Version  string `json:"version" yaml:"version"`
}

func statusShow(c *cli.Context) error {
	client := serverClient(c)

	ctx, cancel := context.WithTimeout(c.Context, 30*time.Second)
	defer cancel()

	resp, err := client.Get(ctx, "/healthz")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var view statusView
	if err := connection.ParseResponse(resp, &view); err != nil {
		return err
	}

	f := formatter(c)
	if _, ok := f.(*output.TableFormatter); ok {
		table := &output.Table{}
		table.SetHeaders("FIELD", "VALUE")
		table.AddRow("status", view.Status)
		table.AddRow("run_id", view.RunID)
		table.AddRow("clusters", fmt.Sprintf("%d", view.Clusters))
		table.AddRow("version", view.Version)
		return f.Format(c.App.Writer, table)
	}
	return f.Format(c.App.Writer, view)
}
