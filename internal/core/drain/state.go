package drain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/ohrn/loghive-go/internal/core/domain"
	"github.com/ohrn/loghive-go/internal/core/profiler"
)

// StateVersion is the current persisted-state schema version.
//
// Version 2 encodes the integer-keyed branch index and id-to-cluster
// mapping as explicit entry lists, so a restore is typed end-to-end.
// Version 1 blobs (generic object maps whose integer keys were
// stringified by the serializer) are still accepted; see decodeLegacyState.
const StateVersion = 2

// State is the serialized form of the full engine state. The profiler is
// deliberately absent: it is process-local and re-attached after restore.
type State struct {
	Version         int            `json:"version"`
	ClustersCounter int64          `json:"clusters_counter"`
	Clusters        []ClusterState `json:"clusters"`
	Root            []CountChild   `json:"root"`
}

// ClusterState is one persisted cluster.
type ClusterState struct {
	ID       int64    `json:"id"`
	Size     int64    `json:"size"`
	Template []string `json:"template"`
}

// CountChild is one first-layer branch, keyed by token count.
type CountChild struct {
	Count int64     `json:"count"`
	Node  NodeState `json:"node"`
}

// TokenChild is one inner branch, keyed by token.
type TokenChild struct {
	Token string    `json:"token"`
	Node  NodeState `json:"node"`
}

// NodeState is one persisted tree node.
type NodeState struct {
	ClusterIDs []int64      `json:"cluster_ids,omitempty"`
	Children   []TokenChild `json:"children,omitempty"`
}

// ExportState captures the engine state as a State value.
//
// Clusters are listed least recently matched first so a restore rebuilds
// the same eviction order; branch entries are sorted for a deterministic
// encoding.
func (d *Drain) ExportState() *State {
	st := &State{
		Version:         StateVersion,
		ClustersCounter: d.clustersCounter,
	}

	for _, c := range d.clusters.values() {
		st.Clusters = append(st.Clusters, ClusterState{
			ID:       c.ID,
			Size:     c.Size,
			Template: append([]string(nil), c.TemplateTokens...),
		})
	}

	counts := make([]int64, 0, len(d.root))
	for count := range d.root {
		counts = append(counts, count)
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i] < counts[j] })
	for _, count := range counts {
		st.Root = append(st.Root, CountChild{
			Count: count,
			Node:  exportNode(d.root[count]),
		})
	}
	return st
}

// Serialize encodes the full engine state.
func (d *Drain) Serialize() ([]byte, error) {
	data, err := json.Marshal(d.ExportState())
	if err != nil {
		return nil, domain.ErrStateEncode.WithCause(err)
	}
	return data, nil
}

// Restore builds an engine from serialized state. The given profiler is
// attached to the restored engine; anything profiler-like in the blob is
// ignored by construction since State carries no such field.
func Restore(data []byte, cfg Config, prof profiler.Profiler) (*Drain, error) {
	st, err := DecodeState(data)
	if err != nil {
		return nil, err
	}
	return FromState(st, cfg, prof)
}

// FromState builds an engine from a decoded State.
func FromState(st *State, cfg Config, prof profiler.Profiler) (*Drain, error) {
	d, err := New(cfg, prof)
	if err != nil {
		return nil, err
	}
	d.clustersCounter = st.ClustersCounter

	// Insert in listed order: oldest first, so a bounded index ends up
	// with the same eviction order the snapshot was taken with.
	for _, cs := range st.Clusters {
		c := &domain.LogCluster{
			ID:             cs.ID,
			Size:           cs.Size,
			TemplateTokens: append([]string(nil), cs.Template...),
		}
		d.clusters.add(c.ID, c)
	}

	for _, cc := range st.Root {
		d.root[cc.Count] = importNode(cc.Node)
	}
	return d, nil
}

// DecodeState decodes serialized engine state, accepting both the current
// typed schema and legacy object-keyed blobs.
func DecodeState(data []byte) (*State, error) {
	var probe struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, domain.ErrSnapshotCorrupt.WithCause(err)
	}

	switch probe.Version {
	case StateVersion:
		var st State
		if err := json.Unmarshal(data, &st); err != nil {
			return nil, domain.ErrSnapshotCorrupt.WithCause(err)
		}
		return &st, nil
	case 0, 1:
		return decodeLegacyState(data)
	default:
		return nil, domain.ErrSnapshotCorrupt.WithDetails(
			fmt.Sprintf("unsupported state version %d", probe.Version))
	}
}

type legacyNode struct {
	ClusterIDs []int64                `json:"cluster_ids"`
	Children   map[string]*legacyNode `json:"children"`
}

// decodeLegacyState decodes version 1 blobs, where generic whole-object
// serialization stringified the integer keys of the branch index and the
// id-to-cluster mapping. Every key is parsed back to its integer form;
// a non-numeric key means the blob is corrupt, not merely old.
func decodeLegacyState(data []byte) (*State, error) {
	var raw struct {
		ClustersCounter int64                   `json:"clusters_counter"`
		Clusters        map[string]ClusterState `json:"clusters"`
		Root            map[string]*legacyNode  `json:"root"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, domain.ErrSnapshotCorrupt.WithCause(err)
	}
	if raw.Clusters == nil && raw.Root == nil {
		return nil, domain.ErrSnapshotCorrupt.WithDetails("unrecognized state blob")
	}

	st := &State{
		Version:         StateVersion,
		ClustersCounter: raw.ClustersCounter,
	}

	for key, cs := range raw.Clusters {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, domain.ErrSnapshotCorrupt.WithDetails(
				fmt.Sprintf("non-integer cluster key %q", key))
		}
		cs.ID = id
		st.Clusters = append(st.Clusters, cs)
	}
	sort.Slice(st.Clusters, func(i, j int) bool { return st.Clusters[i].ID < st.Clusters[j].ID })

	for key, n := range raw.Root {
		count, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, domain.ErrSnapshotCorrupt.WithDetails(
				fmt.Sprintf("non-integer token-count key %q", key))
		}
		st.Root = append(st.Root, CountChild{Count: count, Node: importLegacyNode(n)})
	}
	sort.Slice(st.Root, func(i, j int) bool { return st.Root[i].Count < st.Root[j].Count })

	return st, nil
}

func importLegacyNode(n *legacyNode) NodeState {
	if n == nil {
		return NodeState{}
	}
	out := NodeState{ClusterIDs: n.ClusterIDs}
	tokens := make([]string, 0, len(n.Children))
	for token := range n.Children {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	for _, token := range tokens {
		out.Children = append(out.Children, TokenChild{
			Token: token,
			Node:  importLegacyNode(n.Children[token]),
		})
	}
	return out
}

func exportNode(n *node) NodeState {
	out := NodeState{}
	if len(n.clusterIDs) > 0 {
		out.ClusterIDs = append([]int64(nil), n.clusterIDs...)
	}
	tokens := make([]string, 0, len(n.children))
	for token := range n.children {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	for _, token := range tokens {
		out.Children = append(out.Children, TokenChild{
			Token: token,
			Node:  exportNode(n.children[token]),
		})
	}
	return out
}

func importNode(ns NodeState) *node {
	n := newNode()
	if len(ns.ClusterIDs) > 0 {
		n.clusterIDs = append([]int64(nil), ns.ClusterIDs...)
	}
	for _, tc := range ns.Children {
		n.children[tc.Token] = importNode(tc.Node)
	}
	return n
}
