// Package miner drives the log-template mining pipeline: mask, cluster,
// result assembly, snapshot policy, persistence. One Miner owns one
// clustering engine and is the single writer of its state; callers must
// serialize access to Process.
package miner

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/ohrn/loghive-go/internal/core/domain"
	"github.com/ohrn/loghive-go/internal/core/drain"
	"github.com/ohrn/loghive-go/internal/core/masking"
	"github.com/ohrn/loghive-go/internal/core/profiler"
	"github.com/ohrn/loghive-go/internal/storage"
	"github.com/ohrn/loghive-go/internal/telemetry/logger"
	"github.com/ohrn/loghive-go/internal/telemetry/metric"
)

// Config holds the miner parameters. The engine section is passed through
// to the clustering engine unchanged.
type Config struct {
	// Engine configures the clustering engine.
	Engine drain.Config

	// SnapshotInterval is the debounce for periodic snapshots. Structural
	// changes persist immediately regardless of this value.
	SnapshotInterval time.Duration

	// ProfileReportInterval is how often the profiler emits its report.
	// Zero disables reporting.
	ProfileReportInterval time.Duration
}

// Miner is the session controller for one mining pipeline.
type Miner struct {
	runID  string
	cfg    Config
	engine *drain.Drain
	masker *masking.Masker
	store  storage.Handler
	codec  storage.Codec
	prof   profiler.Profiler
	log    logger.Logger
	mets   *metric.Registry

	lastSave time.Time
	clock    func() time.Time
}

// Option configures a Miner.
type Option func(*Miner)

// WithMasker sets the masking engine applied before clustering. Without
// one, lines are clustered as-is.
func WithMasker(m *masking.Masker) Option {
	return func(mn *Miner) {
		mn.masker = m
	}
}

// WithStore enables persistence through h, with codec applied to every
// blob in both directions. A nil handler leaves persistence disabled.
func WithStore(h storage.Handler, codec storage.Codec) Option {
	return func(mn *Miner) {
		mn.store = h
		mn.codec = codec
	}
}

// WithProfiler sets the instrumentation hook. Defaults to the no-op.
func WithProfiler(p profiler.Profiler) Option {
	return func(mn *Miner) {
		mn.prof = p
	}
}

// WithMetrics attaches a metrics registry.
func WithMetrics(r *metric.Registry) Option {
	return func(mn *Miner) {
		mn.mets = r
	}
}

// WithClock overrides the time source. Used by tests.
func WithClock(clock func() time.Time) Option {
	return func(mn *Miner) {
		mn.clock = clock
	}
}

// New constructs a miner and, when a store is configured, runs the
// recovery protocol: an absent snapshot starts a fresh engine, a corrupt
// one fails construction. There is no partial-state fallback; an engine
// restored from half a snapshot would assign conflicting cluster IDs.
func New(ctx context.Context, cfg Config, log logger.Logger, opts ...Option) (*Miner, error) {
	if log == nil {
		log = logger.Default()
	}
	if cfg.SnapshotInterval < 0 {
		return nil, domain.ErrConfigInvalid.WithDetails(
			fmt.Sprintf("negative snapshot interval %v", cfg.SnapshotInterval))
	}

	m := &Miner{
		runID: ulid.Make().String(),
		cfg:   cfg,
		prof:  profiler.Nop(),
		log:   log,
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.With("run_id", m.runID)

	engine, err := drain.New(cfg.Engine, m.prof)
	if err != nil {
		return nil, domain.ErrConfigInvalid.WithCause(err)
	}
	m.engine = engine

	if m.store != nil {
		if err := m.loadState(ctx); err != nil {
			return nil, err
		}
	}
	m.lastSave = m.clock()
	return m, nil
}

// RunID returns the identifier assigned to this miner instance.
func (m *Miner) RunID() string {
	return m.runID
}

// Process runs one raw line through the pipeline and returns the result
// record. When the snapshot policy fires, the save happens inline before
// Process returns; a save failure propagates and the line's clustering
// effect is already applied. Not safe for concurrent use.
func (m *Miner) Process(ctx context.Context, raw string) (*domain.MineResult, error) {
	m.prof.StartSection("total")
	start := m.clock()

	m.prof.StartSection("mask")
	masked := raw
	if m.masker != nil {
		masked = m.masker.Mask(raw)
	}
	m.prof.EndSection("mask")

	m.prof.StartSection("cluster")
	cluster, change := m.engine.AddLogMessage(masked)
	m.prof.EndSection("cluster")

	result := &domain.MineResult{
		ChangeType:    change,
		ClusterID:     cluster.ID,
		ClusterSize:   cluster.Size,
		TemplateMined: cluster.Template(),
		ClusterCount:  m.engine.ClusterCount(),
	}

	var saveErr error
	if m.store != nil {
		m.prof.StartSection("persist")
		saveErr = m.maybeSnapshot(ctx, change, cluster.ID)
		m.prof.EndSection("persist")
	}
	m.prof.EndSection("total")

	if m.mets != nil {
		m.mets.LinesProcessed.Inc()
		m.mets.ChangesTotal.WithLabelValues(string(change)).Inc()
		m.mets.ClustersActive.Set(float64(result.ClusterCount))
		m.mets.ProcessDuration.Observe(m.clock().Sub(start).Seconds())
	}
	m.prof.Report(m.cfg.ProfileReportInterval)

	if saveErr != nil {
		return nil, saveErr
	}
	return result, nil
}

// Match finds the best cluster for a line without mutating the engine.
// Returns nil when nothing matches.
func (m *Miner) Match(raw string) *domain.LogCluster {
	masked := raw
	if m.masker != nil {
		masked = m.masker.Mask(raw)
	}
	return m.engine.Match(masked)
}

// Clusters returns the live clusters sorted by ID.
func (m *Miner) Clusters() []*domain.LogCluster {
	return m.engine.Clusters()
}

// ClusterCount returns the number of live clusters.
func (m *Miner) ClusterCount() int {
	return m.engine.ClusterCount()
}

// Snapshot persists the current engine state with the given reason,
// regardless of the snapshot policy. Used on graceful shutdown. A miner
// without a store returns nil.
func (m *Miner) Snapshot(ctx context.Context, reason string) error {
	if m.store == nil {
		return nil
	}
	if err := m.saveState(ctx, reason); err != nil {
		return err
	}
	m.lastSave = m.clock()
	return nil
}

func (m *Miner) maybeSnapshot(ctx context.Context, change domain.ChangeType, clusterID int64) error {
	now := m.clock()
	reason := SnapshotReason(change, clusterID, now, m.lastSave, m.cfg.SnapshotInterval)
	if reason == "" {
		return nil
	}
	if err := m.saveState(ctx, reason); err != nil {
		return err
	}
	m.lastSave = now
	return nil
}

func (m *Miner) saveState(ctx context.Context, reason string) error {
	state, err := m.engine.Serialize()
	if err != nil {
		return err
	}
	blob, err := m.codec.Encode(state)
	if err != nil {
		return err
	}
	if err := m.store.Save(ctx, blob); err != nil {
		return domain.ErrStoreIO.WithCause(fmt.Errorf("miner: save snapshot: %w", err))
	}

	if m.mets != nil {
		m.mets.SnapshotsTotal.WithLabelValues(metric.SnapshotTrigger(reason)).Inc()
		m.mets.SnapshotBytes.Set(float64(len(blob)))
	}
	m.log.Info("snapshot saved",
		"clusters", m.engine.ClusterCount(),
		"messages", m.engine.TotalClusterSize(),
		"bytes", len(blob),
		"reason", reason,
	)
	return nil
}

// loadState runs once at construction. The restored engine replaces the
// fresh one wholesale, with the live profiler re-attached: the profiler
// is process-local and never part of persisted state.
func (m *Miner) loadState(ctx context.Context) error {
	blob, err := m.store.Load(ctx)
	if err != nil {
		return domain.ErrStoreIO.WithCause(fmt.Errorf("miner: load snapshot: %w", err))
	}
	if blob == nil {
		m.log.Info("no snapshot found, starting fresh")
		return nil
	}

	state, err := m.codec.Decode(blob)
	if err != nil {
		return err
	}
	engine, err := drain.Restore(state, m.cfg.Engine, m.prof)
	if err != nil {
		return err
	}
	m.engine = engine
	m.log.Info("snapshot restored",
		"clusters", engine.ClusterCount(),
		"messages", engine.TotalClusterSize(),
	)
	return nil
}
