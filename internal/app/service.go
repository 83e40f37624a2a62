// Package service wires the scouting engine together: dataset provider,
// snapshot store, refresh pipeline, and the query surface consumed by the
// HTTP and MCP adapters.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/scout/internal/adapters/provider"
	"github.com/okian/scout/internal/adapters/refresh"
	"github.com/okian/scout/internal/adapters/repository"
	"github.com/okian/scout/internal/domain/compare"
	"github.com/okian/scout/internal/domain/dedupe"
	"github.com/okian/scout/internal/domain/filter"
	"github.com/okian/scout/internal/domain/metric"
	"github.com/okian/scout/internal/domain/model"
	"github.com/okian/scout/internal/domain/rank"
	"github.com/okian/scout/internal/domain/recommend"
	"github.com/okian/scout/pkg/logger"
	"github.com/okian/scout/pkg/metrics"
)

// ErrNoProvider is returned by Start when no dataset provider was
// configured.
var ErrNoProvider = errors.New("no dataset provider configured")

// Query operation labels for metrics.
const (
	opFilter    = "filter"
	opEnrich    = "enrich"
	opPlayer    = "player"
	opRank      = "rank"
	opScatter   = "scatter"
	opCompare   = "compare"
	opRecommend = "recommend"
)

// Defaults applied by New.
const (
	defaultReferenceMinMinutes = 90
	defaultQueueSize           = 16
	defaultFingerprintSize     = 128
	defaultStopTimeout         = 5 * time.Second
)

// Service implements the query and refresh surface of the scouting engine.
// All queries are pure reads over the current dataset snapshot; the only
// write path is the refresh pipeline, which publishes snapshots through an
// atomic swap.
type Service struct {
	mu sync.Mutex

	// Collaborators
	provider provider.Provider
	store    repository.Store
	cache    *repository.Cache

	// Refresh pipeline, built in Start
	queue   refresh.Queue
	worker  *refresh.Worker
	tracker *dedupe.Tracker

	// Configuration
	refMinMinutes   int
	refreshInterval time.Duration
	queueSize       int
	fingerprintSize int
	watchPath       string

	// State
	started   bool
	startedAt time.Time
	cancel    context.CancelFunc
	wg        sync.WaitGroup

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithProvider sets the dataset source. Required for Start.
func WithProvider(p provider.Provider) Option {
	return func(s *Service) {
		if p != nil {
			s.provider = p
		}
	}
}

// WithStore replaces the snapshot store. Tests use this to inject a
// pre-loaded store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithCache enables snapshot persistence: refreshed snapshots are saved to
// the cache and Start falls back to it when the provider is unavailable.
func WithCache(cache *repository.Cache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

// WithReferenceMinMinutes sets the minutes floor for the league-average
// reference population. Zero includes every player.
func WithReferenceMinMinutes(minutes int) Option {
	return func(s *Service) {
		if minutes >= 0 {
			s.refMinMinutes = minutes
		}
	}
}

// WithRefreshInterval schedules background refreshes. Zero disables the
// schedule; manual and watch triggers still work.
func WithRefreshInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval >= 0 {
			s.refreshInterval = interval
		}
	}
}

// WithQueueSize bounds the refresh trigger queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithFingerprintSize bounds the dataset fingerprint dedupe window.
func WithFingerprintSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.fingerprintSize = size
		}
	}
}

// WithDatasetWatch enables a filesystem watcher on path; writes to the
// file enqueue a refresh trigger.
func WithDatasetWatch(path string) Option {
	return func(s *Service) {
		s.watchPath = path
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		store:           repository.NewMemoryStore(),
		refMinMinutes:   defaultReferenceMinMinutes,
		queueSize:       defaultQueueSize,
		fingerprintSize: defaultFingerprintSize,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the initial dataset and starts the refresh pipeline. A failed
// initial load does not fail Start as long as a provider is configured:
// the service comes up without a snapshot and queries report it until a
// refresh succeeds.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("app")
	}
	if s.provider == nil {
		return ErrNoProvider
	}

	s.logger.Info(ctx, "starting scouting service",
		logger.String("provider", s.provider.Name()),
		logger.Int("reference_min_minutes", s.refMinMinutes),
	)

	s.tracker = dedupe.New(dedupe.WithCapacity(s.fingerprintSize))
	s.queue = refresh.NewInMemoryQueue(refresh.WithCapacity(s.queueSize))

	workerOpts := []refresh.WorkerOption{
		refresh.WithTracker(s.tracker),
		refresh.WithLogger(s.logger.Named("refresh")),
	}
	if s.cache != nil {
		workerOpts = append(workerOpts, refresh.WithSaver(s.cache))
	}
	s.worker = refresh.NewWorker(s.queue, s.provider, s.store, workerOpts...)

	if err := s.initialLoad(ctx); err != nil {
		s.logger.Warn(ctx, "initial dataset load failed; queries unavailable until a refresh succeeds",
			logger.Error(err),
		)
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.worker.Run(runCtx)
	}()

	if s.refreshInterval > 0 {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.scheduleRefreshes(runCtx)
		}()
	}

	if s.watchPath != "" {
		watcher := provider.NewWatcher(s.watchPath, func() {
			s.queue.Enqueue(context.Background(), refresh.NewTrigger(refresh.SourceWatch))
		})
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := watcher.Run(runCtx); err != nil {
				s.logger.Warn(runCtx, "dataset watcher stopped", logger.Error(err))
			}
		}()
	}

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "scouting service started",
		logger.Int("players", s.store.Size(ctx)),
		logger.Int("refresh_queue", s.queueSize),
		logger.Duration("refresh_interval", s.refreshInterval),
	)
	return nil
}

// initialLoad publishes the first snapshot: provider first, snapshot cache
// as the fallback when the provider is unavailable.
func (s *Service) initialLoad(ctx context.Context) error {
	players, err := s.provider.Fetch(ctx)
	if err == nil {
		snap, serr := s.store.Swap(ctx, players)
		if serr != nil {
			return fmt.Errorf("publish initial snapshot: %w", serr)
		}
		s.tracker.Seen(snap.Fingerprint())
		if s.cache != nil {
			if cerr := s.cache.Save(ctx, snap); cerr != nil {
				s.logger.Warn(ctx, "snapshot cache save failed", logger.Error(cerr))
			}
		}
		s.logger.Info(ctx, "initial dataset loaded",
			logger.String("snapshot", snap.ID()),
			logger.Int("players", snap.Size()),
		)
		return nil
	}

	if s.cache == nil {
		return fmt.Errorf("fetch from %s: %w", s.provider.Name(), err)
	}

	s.logger.Warn(ctx, "provider unavailable, restoring dataset from cache", logger.Error(err))
	cached, cerr := s.cache.Load(ctx)
	if cerr != nil {
		return fmt.Errorf("cache fallback after provider failure: %w", cerr)
	}
	snap, serr := s.store.Swap(ctx, cached.Players)
	if serr != nil {
		return fmt.Errorf("publish cached snapshot: %w", serr)
	}
	s.tracker.Seen(snap.Fingerprint())
	s.logger.Info(ctx, "dataset restored from cache",
		logger.String("cached_snapshot", cached.SnapshotID),
		logger.Int("players", snap.Size()),
		logger.Duration("age", time.Since(cached.LoadedAt)),
	)
	return nil
}

// scheduleRefreshes enqueues a refresh trigger every refresh interval.
func (s *Service) scheduleRefreshes(ctx context.Context) {
	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.queue.Enqueue(ctx, refresh.NewTrigger(refresh.SourceSchedule))
		}
	}
}

// Stop gracefully shuts down the refresh pipeline. An in-flight refresh
// finishes first; queries keep working against the last snapshot.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping scouting service...")

	_ = s.queue.Close()
	if s.cancel != nil {
		s.cancel()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, defaultStopTimeout)
	defer cancel()
	if err := s.worker.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn(ctx, "refresh worker shutdown timed out", logger.Error(err))
	}
	s.wg.Wait()

	s.started = false
	s.logger.Info(ctx, "scouting service stopped")
}

// TriggerRefresh enqueues a manual refresh. Returns false when the trigger
// was dropped: the queue is full, closed, or the service is not started.
func (s *Service) TriggerRefresh(ctx context.Context) bool {
	s.mu.Lock()
	queue := s.queue
	started := s.started
	s.mu.Unlock()

	if !started || queue == nil {
		return false
	}
	return queue.Enqueue(ctx, refresh.NewTrigger(refresh.SourceManual))
}

// referencePopulation returns the players whose minutes meet the configured
// floor. The same population feeds every derived metric of one request.
func (s *Service) referencePopulation(players []model.Player) []model.Player {
	if s.refMinMinutes <= 0 {
		return players
	}
	out := make([]model.Player, 0, len(players))
	for _, p := range players {
		if p.Minutes >= s.refMinMinutes {
			out = append(out, p)
		}
	}
	return out
}

// Players returns the snapshot records matching criteria, in dataset order.
func (s *Service) Players(ctx context.Context, criteria filter.Criteria) (_ []model.Player, err error) {
	defer s.observe(opFilter, time.Now(), &err)

	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Apply(snap.Players(), criteria)
}

// EnrichedPlayers returns the matching records with derived metrics
// attached. The league baseline is computed over the snapshot-wide
// reference population, not the filtered view, so a filtered ranking is
// still compared against the whole league.
func (s *Service) EnrichedPlayers(ctx context.Context, criteria filter.Criteria) (_ []model.EnrichedPlayer, err error) {
	defer s.observe(opEnrich, time.Now(), &err)

	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	selected, err := filter.Apply(snap.Players(), criteria)
	if err != nil {
		return nil, err
	}
	return metric.Enrich(selected, s.referencePopulation(snap.Players()))
}

// PlayerByID returns one enriched record.
func (s *Service) PlayerByID(ctx context.Context, id string) (_ model.EnrichedPlayer, err error) {
	defer s.observe(opPlayer, time.Now(), &err)

	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return model.EnrichedPlayer{}, err
	}
	p, ok := snap.PlayerByID(id)
	if !ok {
		return model.EnrichedPlayer{}, fmt.Errorf("%w: %s", repository.ErrNotFound, id)
	}
	enriched, err := metric.Enrich([]model.Player{p}, s.referencePopulation(snap.Players()))
	if err != nil {
		return model.EnrichedPlayer{}, err
	}
	return enriched[0], nil
}

// TopN returns up to n enriched records matching criteria, ordered by the
// named key.
func (s *Service) TopN(ctx context.Context, criteria filter.Criteria, key string, n int, descending bool) (_ []model.EnrichedPlayer, err error) {
	defer s.observe(opRank, time.Now(), &err)

	enriched, err := s.EnrichedPlayers(ctx, criteria)
	if err != nil {
		return nil, err
	}
	return rank.TopN(enriched, key, n, descending)
}

// Scatter returns the price-vs-points projection of the records matching
// criteria.
func (s *Service) Scatter(ctx context.Context, criteria filter.Criteria) (_ []rank.ScatterPoint, err error) {
	defer s.observe(opScatter, time.Now(), &err)

	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	selected, err := filter.Apply(snap.Players(), criteria)
	if err != nil {
		return nil, err
	}
	return rank.ScatterPoints(selected), nil
}

// Compare builds the side-by-side view of two players. Radar axes are
// normalized against the whole snapshot.
func (s *Service) Compare(ctx context.Context, aID, bID string) (_ compare.Comparison, err error) {
	defer s.observe(opCompare, time.Now(), &err)

	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return compare.Comparison{}, err
	}
	a, ok := snap.PlayerByID(aID)
	if !ok {
		return compare.Comparison{}, fmt.Errorf("%w: %s", repository.ErrNotFound, aID)
	}
	b, ok := snap.PlayerByID(bID)
	if !ok {
		return compare.Comparison{}, fmt.Errorf("%w: %s", repository.ErrNotFound, bID)
	}

	enriched, err := metric.Enrich([]model.Player{a, b}, s.referencePopulation(snap.Players()))
	if err != nil {
		return compare.Comparison{}, err
	}
	cmp, err := compare.Players(enriched[0], enriched[1], snap.Players())
	if err != nil {
		return compare.Comparison{}, err
	}
	metrics.RecordComparisonServed()
	return cmp, nil
}

// Recommend scores replacement candidates for the given player. The
// candidate pool is the whole snapshot enriched against the same reference
// population as the reference player.
func (s *Service) Recommend(ctx context.Context, playerID string, budget float64, position model.Position, limit int) (_ []recommend.Suggestion, err error) {
	defer s.observe(opRecommend, time.Now(), &err)

	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	ref, ok := snap.PlayerByID(playerID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", repository.ErrNotFound, playerID)
	}

	population := s.referencePopulation(snap.Players())
	enrichedRef, err := metric.Enrich([]model.Player{ref}, population)
	if err != nil {
		return nil, err
	}
	pool, err := metric.Enrich(snap.Players(), population)
	if err != nil {
		return nil, err
	}

	suggestions, err := recommend.Replacements(recommend.Request{
		Reference:  enrichedRef[0],
		Candidates: pool,
		Budget:     budget,
		Position:   position,
		Limit:      limit,
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordRecommendationServed()
	return suggestions, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.Lock()
	started := s.started
	startedAt := s.startedAt
	queue := s.queue
	s.mu.Unlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":               started,
		"reference_min_minutes": s.refMinMinutes,
		"refresh_interval_sec":  int(s.refreshInterval.Seconds()),
	}
	if s.provider != nil {
		stats["provider"] = s.provider.Name()
	}
	if started {
		stats["uptime_sec"] = int(time.Since(startedAt).Seconds())
	}
	if queue != nil {
		stats["refresh_queue_len"] = queue.Len(ctx)
		stats["refresh_queue_capacity"] = s.queueSize
	}

	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		stats["snapshot_loaded"] = false
		return stats
	}
	stats["snapshot_loaded"] = true
	stats["snapshot_id"] = snap.ID()
	stats["snapshot_age_sec"] = int(time.Since(snap.LoadedAt()).Seconds())
	stats["players"] = snap.Size()
	stats["teams"] = len(snap.Teams())
	stats["leagues"] = len(snap.Leagues())
	return stats
}

// observe records query metrics for one operation.
func (s *Service) observe(op string, start time.Time, err *error) {
	metrics.RecordQuery(op)
	if err != nil && *err != nil {
		metrics.RecordQueryError(op, errorKind(*err))
		return
	}
	metrics.RecordQueryLatency(op, float64(time.Since(start).Milliseconds()))
}

// errorKind maps engine failures to low-cardinality metric labels.
func errorKind(err error) string {
	switch {
	case errors.Is(err, model.ErrInvalidParameter):
		return "invalid_parameter"
	case errors.Is(err, model.ErrInsufficientData):
		return "insufficient_data"
	case errors.Is(err, model.ErrEmptyCandidatePool):
		return "empty_candidate_pool"
	case errors.Is(err, repository.ErrNotFound):
		return "not_found"
	case errors.Is(err, repository.ErrNoSnapshot):
		return "no_snapshot"
	default:
		return "internal"
	}
}
