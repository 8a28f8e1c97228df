package domain

import "strings"

// ParamToken is the placeholder inserted at variable positions of a
// template.
const ParamToken = "<*>"

// ChangeType classifies the clustering outcome for a single log line.
type ChangeType string

const (
	// ChangeNone means the line matched an existing cluster without
	// altering its template.
	ChangeNone ChangeType = "none"

	// ChangeClusterCreated means the line did not match any cluster and a
	// new one was created.
	ChangeClusterCreated ChangeType = "cluster_created"

	// ChangeTemplateChanged means the line matched an existing cluster and
	// generalized its template further.
	ChangeTemplateChanged ChangeType = "cluster_template_changed"
)

// Structural reports whether the change altered the cluster set or a
// template, as opposed to a plain match.
func (c ChangeType) Structural() bool {
	return c != ChangeNone
}

// LogCluster is a group of log lines sharing one mined template.
type LogCluster struct {
	// ID is the engine-assigned cluster identifier, assigned sequentially
	// starting at 1.
	ID int64 `json:"id"`

	// Size is the number of lines matched into this cluster so far.
	Size int64 `json:"size"`

	// TemplateTokens is the current template, one token per position, with
	// variable positions holding ParamToken.
	TemplateTokens []string `json:"template_tokens"`
}

// NewLogCluster creates a cluster seeded from its first line's tokens.
// Size starts at 1: the seeding line is the first member.
func NewLogCluster(id int64, tokens []string) *LogCluster {
	tmpl := make([]string, len(tokens))
	copy(tmpl, tokens)
	return &LogCluster{
		ID:             id,
		Size:           1,
		TemplateTokens: tmpl,
	}
}

// Template returns the template as a single space-joined string.
func (c *LogCluster) Template() string {
	return strings.Join(c.TemplateTokens, " ")
}

// Clone returns a deep copy of the cluster.
func (c *LogCluster) Clone() *LogCluster {
	tmpl := make([]string, len(c.TemplateTokens))
	copy(tmpl, c.TemplateTokens)
	return &LogCluster{
		ID:             c.ID,
		Size:           c.Size,
		TemplateTokens: tmpl,
	}
}

// MineResult is the per-line result record assembled by the miner.
// It is ephemeral: returned to the caller, never persisted.
type MineResult struct {
	ChangeType    ChangeType `json:"change_type"`
	ClusterID     int64      `json:"cluster_id"`
	ClusterSize   int64      `json:"cluster_size"`
	TemplateMined string     `json:"template_mined"`
	ClusterCount  int        `json:"cluster_count"`
}
