package drain

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ohrn/loghive-go/internal/core/domain"
	"github.com/ohrn/loghive-go/internal/core/profiler"
)

// Defaults applied by New for zero-valued config fields.
const (
	DefaultSimilarityThreshold = 0.4
	DefaultDepth               = 4
	DefaultMaxChildren         = 100
)

// Config holds the engine parameters.
type Config struct {
	// SimilarityThreshold is the minimum token-match ratio for a line to
	// join an existing cluster. Range (0, 1].
	SimilarityThreshold float64

	// Depth is the total tree depth including the root and leaf layers.
	// Must be at least 3; at most Depth-2 token positions are indexed.
	Depth int

	// MaxChildren caps the number of children per branch node. Once a
	// branch is full, unseen tokens route to the parameter child.
	MaxChildren int

	// MaxClusters, when positive, bounds the number of live clusters;
	// the least recently matched cluster is evicted on overflow.
	// Zero means unbounded.
	MaxClusters int

	// ExtraDelimiters are treated as token separators in addition to
	// whitespace.
	ExtraDelimiters []string

	// ParametrizeNumericTokens routes tokens containing digits to the
	// parameter branch instead of creating a child per literal value.
	ParametrizeNumericTokens bool
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		SimilarityThreshold:      DefaultSimilarityThreshold,
		Depth:                    DefaultDepth,
		MaxChildren:              DefaultMaxChildren,
		ParametrizeNumericTokens: true,
	}
}

type node struct {
	children   map[string]*node
	clusterIDs []int64
}

func newNode() *node {
	return &node{children: make(map[string]*node)}
}

// clusterIndex is the id-to-cluster mapping, integer-keyed, optionally
// bounded by an LRU.
type clusterIndex struct {
	cache *lru.Cache[int64, *domain.LogCluster] // bounded mode
	m     map[int64]*domain.LogCluster          // unbounded mode
}

func newClusterIndex(maxClusters int) (*clusterIndex, error) {
	if maxClusters > 0 {
		cache, err := lru.New[int64, *domain.LogCluster](maxClusters)
		if err != nil {
			return nil, fmt.Errorf("drain: cluster cache: %w", err)
		}
		return &clusterIndex{cache: cache}, nil
	}
	return &clusterIndex{m: make(map[int64]*domain.LogCluster)}, nil
}

// peek looks up a cluster without updating recency.
func (x *clusterIndex) peek(id int64) (*domain.LogCluster, bool) {
	if x.cache != nil {
		return x.cache.Peek(id)
	}
	c, ok := x.m[id]
	return c, ok
}

// touch marks a cluster as recently matched.
func (x *clusterIndex) touch(id int64) {
	if x.cache != nil {
		x.cache.Get(id)
	}
}

func (x *clusterIndex) add(id int64, c *domain.LogCluster) {
	if x.cache != nil {
		x.cache.Add(id, c)
		return
	}
	x.m[id] = c
}

func (x *clusterIndex) contains(id int64) bool {
	if x.cache != nil {
		return x.cache.Contains(id)
	}
	_, ok := x.m[id]
	return ok
}

func (x *clusterIndex) len() int {
	if x.cache != nil {
		return x.cache.Len()
	}
	return len(x.m)
}

// values returns live clusters, least recently matched first in bounded
// mode, ascending by ID otherwise.
func (x *clusterIndex) values() []*domain.LogCluster {
	if x.cache != nil {
		return x.cache.Values()
	}
	out := make([]*domain.LogCluster, 0, len(x.m))
	for _, c := range x.m {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Drain is the clustering engine. The branch index (root) is keyed by
// token count; the cluster index is keyed by cluster ID. Both keys are
// integers, an invariant the snapshot codec must preserve.
type Drain struct {
	cfg          Config
	maxNodeDepth int

	root     map[int64]*node
	clusters *clusterIndex

	clustersCounter int64

	profiler profiler.Profiler
}

// New creates an engine. Zero-valued config fields take defaults; a nil
// profiler falls back to the no-op profiler.
func New(cfg Config, prof profiler.Profiler) (*Drain, error) {
	if cfg.SimilarityThreshold == 0 {
		cfg.SimilarityThreshold = DefaultSimilarityThreshold
	}
	if cfg.Depth == 0 {
		cfg.Depth = DefaultDepth
	}
	if cfg.MaxChildren == 0 {
		cfg.MaxChildren = DefaultMaxChildren
	}

	if cfg.SimilarityThreshold < 0 || cfg.SimilarityThreshold > 1 {
		return nil, fmt.Errorf("drain: similarity threshold %v out of range (0, 1]", cfg.SimilarityThreshold)
	}
	if cfg.Depth < 3 {
		return nil, fmt.Errorf("drain: depth %d too small, need at least 3", cfg.Depth)
	}
	if cfg.MaxChildren < 1 {
		return nil, fmt.Errorf("drain: max children %d too small", cfg.MaxChildren)
	}
	if cfg.MaxClusters < 0 {
		return nil, fmt.Errorf("drain: negative max clusters %d", cfg.MaxClusters)
	}

	clusters, err := newClusterIndex(cfg.MaxClusters)
	if err != nil {
		return nil, err
	}
	if prof == nil {
		prof = profiler.Nop()
	}

	return &Drain{
		cfg:          cfg,
		maxNodeDepth: cfg.Depth - 2,
		root:         make(map[int64]*node),
		clusters:     clusters,
		profiler:     prof,
	}, nil
}

// SetProfiler attaches a profiler. Used after a snapshot restore: the
// profiler is process-local and never part of persisted state.
func (d *Drain) SetProfiler(prof profiler.Profiler) {
	if prof == nil {
		prof = profiler.Nop()
	}
	d.profiler = prof
}

// AddLogMessage routes one masked line through the tree and returns the
// matched or created cluster along with the change classification.
func (d *Drain) AddLogMessage(content string) (*domain.LogCluster, domain.ChangeType) {
	tokens := d.tokenize(content)

	d.profiler.StartSection("tree_search")
	match := d.treeSearch(tokens, d.cfg.SimilarityThreshold, false)
	d.profiler.EndSection("tree_search")

	if match == nil {
		d.profiler.StartSection("create_cluster")
		d.clustersCounter++
		match = domain.NewLogCluster(d.clustersCounter, tokens)
		d.clusters.add(match.ID, match)
		d.addSeqToPrefixTree(match)
		d.profiler.EndSection("create_cluster")
		return match, domain.ChangeClusterCreated
	}

	d.profiler.StartSection("cluster_exist")
	newTemplate, changed := createTemplate(tokens, match.TemplateTokens)
	change := domain.ChangeNone
	if changed {
		match.TemplateTokens = newTemplate
		change = domain.ChangeTemplateChanged
	}
	match.Size++
	d.clusters.touch(match.ID)
	d.profiler.EndSection("cluster_exist")
	return match, change
}

// Match finds the best cluster for a line without mutating the engine.
// Parameter positions count as matches. Returns nil when no cluster
// passes the threshold.
func (d *Drain) Match(content string) *domain.LogCluster {
	tokens := d.tokenize(content)
	return d.treeSearch(tokens, d.cfg.SimilarityThreshold, true)
}

// ClusterCount returns the number of live clusters.
func (d *Drain) ClusterCount() int {
	return d.clusters.len()
}

// Clusters returns the live clusters sorted by ID.
func (d *Drain) Clusters() []*domain.LogCluster {
	out := d.clusters.values()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// TotalClusterSize returns the total number of lines matched across all
// live clusters.
func (d *Drain) TotalClusterSize() int64 {
	var total int64
	for _, c := range d.clusters.values() {
		total += c.Size
	}
	return total
}

func (d *Drain) tokenize(content string) []string {
	content = strings.TrimSpace(content)
	for _, delim := range d.cfg.ExtraDelimiters {
		content = strings.ReplaceAll(content, delim, " ")
	}
	return strings.Fields(content)
}

func (d *Drain) treeSearch(tokens []string, simTh float64, includeParams bool) *domain.LogCluster {
	first, ok := d.root[int64(len(tokens))]
	if !ok {
		return nil
	}

	// Empty lines all share the single cluster under the zero-count node.
	if len(tokens) == 0 {
		if len(first.clusterIDs) == 0 {
			return nil
		}
		c, _ := d.clusters.peek(first.clusterIDs[0])
		return c
	}

	cur := first
	depth := 1
	for _, token := range tokens {
		if depth >= d.maxNodeDepth || depth == len(tokens) {
			break
		}
		child, ok := cur.children[token]
		if !ok {
			child, ok = cur.children[domain.ParamToken]
		}
		if !ok {
			return nil
		}
		cur = child
		depth++
	}

	return d.fastMatch(cur.clusterIDs, tokens, simTh, includeParams)
}

// fastMatch scores leaf candidates and returns the most similar cluster
// at or above simTh, ties broken by parameter count. Evicted IDs are
// skipped.
func (d *Drain) fastMatch(ids []int64, tokens []string, simTh float64, includeParams bool) *domain.LogCluster {
	var best *domain.LogCluster
	maxSim := -1.0
	maxParams := -1

	for _, id := range ids {
		c, ok := d.clusters.peek(id)
		if !ok {
			continue
		}
		sim, params := seqDistance(c.TemplateTokens, tokens, includeParams)
		if sim > maxSim || (sim == maxSim && params > maxParams) {
			maxSim = sim
			maxParams = params
			best = c
		}
	}

	if best == nil || maxSim < simTh {
		return nil
	}
	return best
}

// seqDistance returns the similarity of tokens to a template of equal
// length, and the template's parameter count. Parameter positions are
// skipped unless includeParams is set.
func seqDistance(template, tokens []string, includeParams bool) (float64, int) {
	if len(template) == 0 {
		return 1, 0
	}

	simTokens := 0
	params := 0
	for i, t := range template {
		if t == domain.ParamToken {
			params++
			continue
		}
		if t == tokens[i] {
			simTokens++
		}
	}
	if includeParams {
		simTokens += params
	}
	return float64(simTokens) / float64(len(template)), params
}

// createTemplate merges a line into a template position-wise. A position
// generalizes to the parameter token when the values differ; changed is
// true only when a concrete token was generalized.
func createTemplate(tokens, template []string) ([]string, bool) {
	out := make([]string, len(template))
	changed := false
	for i, t := range template {
		if tokens[i] == t {
			out[i] = t
			continue
		}
		if t != domain.ParamToken {
			changed = true
		}
		out[i] = domain.ParamToken
	}
	return out, changed
}

func (d *Drain) addSeqToPrefixTree(c *domain.LogCluster) {
	tokenCount := len(c.TemplateTokens)
	first, ok := d.root[int64(tokenCount)]
	if !ok {
		first = newNode()
		d.root[int64(tokenCount)] = first
	}

	if tokenCount == 0 {
		first.clusterIDs = []int64{c.ID}
		return
	}

	cur := first
	depth := 1
	for _, token := range c.TemplateTokens {
		if depth >= d.maxNodeDepth || depth >= tokenCount {
			// Leaf layer: drop IDs of evicted clusters, then append.
			ids := make([]int64, 0, len(cur.clusterIDs)+1)
			for _, id := range cur.clusterIDs {
				if d.clusters.contains(id) {
					ids = append(ids, id)
				}
			}
			cur.clusterIDs = append(ids, c.ID)
			break
		}

		if child, ok := cur.children[token]; ok {
			cur = child
			depth++
			continue
		}

		switch {
		case d.cfg.ParametrizeNumericTokens && hasNumbers(token):
			cur = d.childOrParam(cur, domain.ParamToken)
		case hasChild(cur, domain.ParamToken):
			if len(cur.children) < d.cfg.MaxChildren {
				cur = addChild(cur, token)
			} else {
				cur = cur.children[domain.ParamToken]
			}
		default:
			switch {
			case len(cur.children)+1 < d.cfg.MaxChildren:
				cur = addChild(cur, token)
			case len(cur.children)+1 == d.cfg.MaxChildren:
				// Reserve the last slot for the parameter branch.
				cur = addChild(cur, domain.ParamToken)
			default:
				cur = cur.children[domain.ParamToken]
			}
		}
		depth++
	}
}

func (d *Drain) childOrParam(n *node, key string) *node {
	if child, ok := n.children[key]; ok {
		return child
	}
	return addChild(n, key)
}

func hasChild(n *node, key string) bool {
	_, ok := n.children[key]
	return ok
}

func addChild(n *node, key string) *node {
	child := newNode()
	n.children[key] = child
	return child
}

func hasNumbers(s string) bool {
	return strings.ContainsFunc(s, unicode.IsDigit)
}
