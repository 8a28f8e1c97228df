package drain

import (
	"fmt"
	"testing"

	"github.com/ohrn/loghive-go/internal/core/domain"
)

func newTestDrain(t *testing.T, cfg Config) *Drain {
	t.Helper()
	d, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d
}

func TestAddLogMessage_NewCluster(t *testing.T) {
	d := newTestDrain(t, DefaultConfig())

	c, change := d.AddLogMessage("connected from host-a")
	if change != domain.ChangeClusterCreated {
		t.Fatalf("change = %q, want %q", change, domain.ChangeClusterCreated)
	}
	if c.ID != 1 {
		t.Fatalf("ID = %d, want 1", c.ID)
	}
	if c.Size != 1 {
		t.Fatalf("Size = %d, want 1", c.Size)
	}
	if got := c.Template(); got != "connected from host-a" {
		t.Fatalf("Template() = %q", got)
	}
	if d.ClusterCount() != 1 {
		t.Fatalf("ClusterCount() = %d, want 1", d.ClusterCount())
	}
}

func TestAddLogMessage_ExactRepeat(t *testing.T) {
	d := newTestDrain(t, DefaultConfig())

	d.AddLogMessage("cache flushed")
	c, change := d.AddLogMessage("cache flushed")

	if change != domain.ChangeNone {
		t.Fatalf("change = %q, want %q", change, domain.ChangeNone)
	}
	if c.Size != 2 {
		t.Fatalf("Size = %d, want 2", c.Size)
	}
	if d.ClusterCount() != 1 {
		t.Fatalf("ClusterCount() = %d, want 1", d.ClusterCount())
	}
}

func TestAddLogMessage_TemplateGeneralization(t *testing.T) {
	d := newTestDrain(t, DefaultConfig())

	d.AddLogMessage("session opened for alice")
	c, change := d.AddLogMessage("session opened for bob")

	if change != domain.ChangeTemplateChanged {
		t.Fatalf("change = %q, want %q", change, domain.ChangeTemplateChanged)
	}
	if got := c.Template(); got != "session opened for <*>" {
		t.Fatalf("Template() = %q, want %q", got, "session opened for <*>")
	}

	// A third line matching at the parameter position changes nothing.
	c, change = d.AddLogMessage("session opened for carol")
	if change != domain.ChangeNone {
		t.Fatalf("change = %q, want %q", change, domain.ChangeNone)
	}
	if c.Size != 3 {
		t.Fatalf("Size = %d, want 3", c.Size)
	}
}

func TestAddLogMessage_NumericTokensParametrized(t *testing.T) {
	d := newTestDrain(t, DefaultConfig())

	d.AddLogMessage("user 123 login")
	c, change := d.AddLogMessage("user 456 login")

	if change != domain.ChangeTemplateChanged {
		t.Fatalf("change = %q, want %q", change, domain.ChangeTemplateChanged)
	}
	if got := c.Template(); got != "user <*> login" {
		t.Fatalf("Template() = %q, want %q", got, "user <*> login")
	}
	if d.ClusterCount() != 1 {
		t.Fatalf("ClusterCount() = %d, want 1", d.ClusterCount())
	}
}

func TestAddLogMessage_DissimilarSameLength(t *testing.T) {
	d := newTestDrain(t, DefaultConfig())

	d.AddLogMessage("disk almost full")
	_, change := d.AddLogMessage("network link down")

	if change != domain.ChangeClusterCreated {
		t.Fatalf("change = %q, want %q", change, domain.ChangeClusterCreated)
	}
	if d.ClusterCount() != 2 {
		t.Fatalf("ClusterCount() = %d, want 2", d.ClusterCount())
	}
}

func TestAddLogMessage_MaxChildrenParamFallback(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxChildren = 2
	d := newTestDrain(t, cfg)

	d.AddLogMessage("alpha done") // fills the only literal slot
	d.AddLogMessage("beta done")  // takes the reserved param slot
	c, change := d.AddLogMessage("gamma done")

	if change != domain.ChangeTemplateChanged {
		t.Fatalf("change = %q, want %q", change, domain.ChangeTemplateChanged)
	}
	if got := c.Template(); got != "<*> done" {
		t.Fatalf("Template() = %q, want %q", got, "<*> done")
	}
	if d.ClusterCount() != 2 {
		t.Fatalf("ClusterCount() = %d, want 2", d.ClusterCount())
	}
}

func TestAddLogMessage_EmptyLine(t *testing.T) {
	d := newTestDrain(t, DefaultConfig())

	c, change := d.AddLogMessage("   ")
	if change != domain.ChangeClusterCreated {
		t.Fatalf("change = %q, want %q", change, domain.ChangeClusterCreated)
	}
	if len(c.TemplateTokens) != 0 {
		t.Fatalf("TemplateTokens = %v, want empty", c.TemplateTokens)
	}

	c, change = d.AddLogMessage("")
	if change != domain.ChangeNone {
		t.Fatalf("change = %q, want %q", change, domain.ChangeNone)
	}
	if c.Size != 2 {
		t.Fatalf("Size = %d, want 2", c.Size)
	}
}

func TestAddLogMessage_ExtraDelimiters(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ExtraDelimiters = []string{"_"}
	d := newTestDrain(t, cfg)

	c, _ := d.AddLogMessage("job_finished ok")
	if got := c.Template(); got != "job finished ok" {
		t.Fatalf("Template() = %q, want %q", got, "job finished ok")
	}
}

func TestMaxClusters_EvictsLeastRecentlyMatched(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxClusters = 2
	d := newTestDrain(t, cfg)

	// Distinct token counts keep the lines in separate tree branches.
	d.AddLogMessage("one")
	d.AddLogMessage("two tokens")
	d.AddLogMessage("three tokens here") // evicts cluster 1

	if d.ClusterCount() != 2 {
		t.Fatalf("ClusterCount() = %d, want 2", d.ClusterCount())
	}

	// The evicted line no longer matches: a fresh cluster is created with
	// a fresh ID, never a recycled one.
	c, change := d.AddLogMessage("one")
	if change != domain.ChangeClusterCreated {
		t.Fatalf("change = %q, want %q", change, domain.ChangeClusterCreated)
	}
	if c.ID != 4 {
		t.Fatalf("ID = %d, want 4", c.ID)
	}
}

func TestMatch_DoesNotMutate(t *testing.T) {
	d := newTestDrain(t, DefaultConfig())

	d.AddLogMessage("request took 15 ms")
	before := d.TotalClusterSize()

	c := d.Match("request took 20 ms")
	if c == nil {
		t.Fatal("Match should find the cluster")
	}
	if d.TotalClusterSize() != before {
		t.Fatal("Match must not grow cluster sizes")
	}

	if got := d.Match("completely unrelated"); got != nil {
		t.Fatalf("Match on unrelated line = %+v, want nil", got)
	}
}

func TestTotalClusterSize(t *testing.T) {
	d := newTestDrain(t, DefaultConfig())

	d.AddLogMessage("a b")
	d.AddLogMessage("a b")
	d.AddLogMessage("x y z")

	if got := d.TotalClusterSize(); got != 3 {
		t.Fatalf("TotalClusterSize() = %d, want 3", got)
	}
}

func TestClusters_SortedByID(t *testing.T) {
	d := newTestDrain(t, DefaultConfig())

	d.AddLogMessage("one")
	d.AddLogMessage("two tokens")
	d.AddLogMessage("one") // touches cluster 1 last

	clusters := d.Clusters()
	if len(clusters) != 2 {
		t.Fatalf("len(Clusters()) = %d, want 2", len(clusters))
	}
	if clusters[0].ID != 1 || clusters[1].ID != 2 {
		t.Fatalf("cluster order = [%d %d], want [1 2]", clusters[0].ID, clusters[1].ID)
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"similarity above one", Config{SimilarityThreshold: 1.5}},
		{"negative similarity", Config{SimilarityThreshold: -0.1}},
		{"depth too small", Config{Depth: 2}},
		{"negative max children", Config{MaxChildren: -1}},
		{"negative max clusters", Config{MaxClusters: -5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg, nil); err == nil {
				t.Fatalf("New(%+v) should fail", tt.cfg)
			}
		})
	}
}

func BenchmarkAddLogMessage(b *testing.B) {
	d, err := New(DefaultConfig(), nil)
	if err != nil {
		b.Fatalf("New: %v", err)
	}
	lines := make([]string, 50)
	for i := range lines {
		lines[i] = fmt.Sprintf("worker %d finished batch %d in %d ms", i%7, i, i*13)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d.AddLogMessage(lines[i%len(lines)])
	}
}
