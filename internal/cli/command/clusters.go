package command

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ohrn/loghive-go/internal/cli/connection"
)

// ClustersCommand returns the clusters command.
func ClustersCommand() *cli.Command {
	return &cli.Command{
		Name:   "clusters",
		Usage:  "List clusters mined by a running server",
		Action: clustersList,
	}
}

func clustersList(c *cli.Context) error {
	client := serverClient(c)

	ctx, cancel := context.WithTimeout(c.Context, 30*time.Second)
	defer cancel()

	resp, err := client.Get(ctx, "/api/v1/clusters")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result struct {
		Clusters []clusterRow `json:"clusters"`
		Total    int          `json:"total"`
	}
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	return renderClusters(c, result.Clusters)
}
