package services

import (
	"context"
	"fmt"
	"time"

	"travel-time-service/internal/config"
	"travel-time-service/internal/departure"
	"travel-time-service/internal/domain"
	"travel-time-service/internal/ports"
	"travel-time-service/internal/table"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProgressFunc is called after each row with the number of rows done.
type ProgressFunc func(done, total int)

// BatchProcessor resolves travel time and distance for every row of a table.
//
// Rows are processed sequentially in table order, one routing call per row,
// with a fixed delay between rows. A failed row is recorded in its own
// api_status cell and never stops the batch.
type BatchProcessor struct {
	factory    ports.RouteProviderFactory
	logger     *zap.Logger
	resolver   *departure.Resolver
	validate   *validator.Validate
	store      ports.BatchStore
	publisher  ports.BatchPublisher
	progress   ProgressFunc
	sleep      func(ctx context.Context, d time.Duration)
	now        func() time.Time
	requireKey bool
}

type ProcessorOption func(*BatchProcessor)

// WithStore persists every completed batch.
func WithStore(s ports.BatchStore) ProcessorOption {
	return func(p *BatchProcessor) { p.store = s }
}

// WithPublisher announces every completed batch.
func WithPublisher(pub ports.BatchPublisher) ProcessorOption {
	return func(p *BatchProcessor) { p.publisher = pub }
}

func WithProgress(fn ProgressFunc) ProcessorOption {
	return func(p *BatchProcessor) { p.progress = fn }
}

// WithClock replaces the wall clock used for departure resolution and timestamps.
func WithClock(now func() time.Time) ProcessorOption {
	return func(p *BatchProcessor) { p.now = now }
}

// WithSleep replaces the inter-row pause.
func WithSleep(fn func(ctx context.Context, d time.Duration)) ProcessorOption {
	return func(p *BatchProcessor) { p.sleep = fn }
}

// WithoutCredential lets batches run with no API key, for providers that need none.
func WithoutCredential() ProcessorOption {
	return func(p *BatchProcessor) { p.requireKey = false }
}

func NewBatchProcessor(factory ports.RouteProviderFactory, logger *zap.Logger, opts ...ProcessorOption) *BatchProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &BatchProcessor{
		factory:    factory,
		logger:     logger,
		validate:   newValidator(),
		sleep:      sleepCtx,
		now:        time.Now,
		requireKey: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.resolver = departure.NewResolver(logger).WithClock(p.now)

	return p
}

type columnIndex struct {
	originLat, originLon, destLat, destLon int
	duration, distance, status             int
}

// Process validates the inputs, then resolves every row of tbl and writes
// driving_time_min, distance_km and api_status into it. Validation,
// configuration and departure parse failures are returned before any row is
// processed; row failures only show up in the table and the returned batch.
func (p *BatchProcessor) Process(
	ctx context.Context,
	tbl *table.Table,
	cols ColumnMap,
	opts BatchOptions,
) (*domain.Batch, error) {
	if tbl == nil {
		return nil, &domain.ValidationError{Msg: "process batch: table is nil"}
	}

	tbl.Normalize()

	cols = cols.withDefaults()
	if missing := tbl.MissingColumns(cols.names()...); len(missing) > 0 {
		return nil, &domain.ValidationError{Msg: "process batch: missing required columns", Columns: missing}
	}

	if err := validateOptions(p.validate, opts); err != nil {
		return nil, err
	}

	apiKey, ok := config.ResolveAPIKey(opts.APIKey)
	if !ok && p.requireKey {
		return nil, &domain.ConfigurationError{Msg: "process batch: no routing API key configured"}
	}

	departureAt, err := p.resolveDeparture(opts)
	if err != nil {
		return nil, err
	}

	provider, err := p.factory(apiKey)
	if err != nil {
		return nil, &domain.ConfigurationError{Msg: fmt.Sprintf("process batch: create routing provider: %v", err)}
	}

	batch := &domain.Batch{
		ID:            uuid.New(),
		Mode:          opts.Mode,
		DepartureTime: departureAt,
		StartedAt:     p.now(),
		Results:       make([]domain.RouteResult, 0, len(tbl.Rows)),
	}
	if departureAt != nil {
		batch.TrafficModel = opts.TrafficModel
	}

	log := p.logger.With(zap.String("batch_id", batch.ID.String()))
	log.Info("batch started",
		zap.Int("rows", len(tbl.Rows)),
		zap.String("mode", string(opts.Mode)),
		zap.Bool("departure_time", departureAt != nil),
	)

	idx := columnIndex{
		originLat: tbl.ColumnIndex(cols.OriginLat),
		originLon: tbl.ColumnIndex(cols.OriginLon),
		destLat:   tbl.ColumnIndex(cols.DestLat),
		destLon:   tbl.ColumnIndex(cols.DestLon),
		duration:  tbl.EnsureColumn(ColumnDuration),
		distance:  tbl.EnsureColumn(ColumnDistance),
		status:    tbl.EnsureColumn(ColumnStatus),
	}

	total := len(tbl.Rows)
	for i := range tbl.Rows {
		var res domain.RouteResult

		req, err := buildRequest(tbl, i, idx, opts.Mode, departureAt, batch.TrafficModel)
		if err != nil {
			res = domain.FailedRoute(err)
		} else {
			res = p.route(ctx, provider, req)
		}

		if !res.OK() {
			log.Debug("row failed", zap.Int("row", i), zap.String("status", res.Status))
		}

		writeResult(tbl, i, idx, res)
		batch.Results = append(batch.Results, res)

		if p.progress != nil {
			p.progress(i+1, total)
		}

		if i < total-1 {
			p.sleep(ctx, opts.Delay)
		}
	}

	batch.FinishedAt = p.now()
	batch.Summary = domain.Summarize(batch.Results)

	log.Info("batch finished",
		zap.Int("ok", batch.Summary.OK),
		zap.Int("failed", batch.Summary.Failed),
		zap.Duration("elapsed", batch.FinishedAt.Sub(batch.StartedAt)),
	)

	p.record(ctx, log, batch)

	return batch, nil
}

// resolveDeparture returns the batch departure instant, or nil when none applies.
func (p *BatchProcessor) resolveDeparture(opts BatchOptions) (*int64, error) {
	spec := opts.Departure
	if spec == nil {
		spec = departure.Unset{}
	}
	if _, unset := spec.(departure.Unset); unset {
		return nil, nil
	}

	if !opts.Mode.AcceptsDeparture() {
		p.logger.Warn("departure time ignored for mode",
			zap.String("mode", string(opts.Mode)),
		)
		return nil, nil
	}

	epoch, ok, err := p.resolver.Resolve(spec)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &epoch, nil
}

func buildRequest(
	tbl *table.Table,
	i int,
	idx columnIndex,
	mode domain.TravelMode,
	departureAt *int64,
	trafficModel domain.TrafficModel,
) (domain.RouteRequest, error) {
	names := [4]string{"origin latitude", "origin longitude", "destination latitude", "destination longitude"}
	cols := [4]int{idx.originLat, idx.originLon, idx.destLat, idx.destLon}

	var v [4]float64
	for k, col := range cols {
		f, err := tbl.Float(i, col)
		if err != nil {
			return domain.RouteRequest{}, fmt.Errorf("invalid %s %q: %w", names[k], table.FormatCell(tbl.Rows[i][col]), err)
		}
		v[k] = f
	}

	req := domain.RouteRequest{
		Origin:      domain.Coordinates{Lat: v[0], Lon: v[1]},
		Destination: domain.Coordinates{Lat: v[2], Lon: v[3]},
		Mode:        mode,
	}
	if departureAt != nil && mode.AcceptsDeparture() {
		dep := *departureAt
		req.DepartureTime = &dep
		req.TrafficModel = trafficModel
	}

	return req, nil
}

// route performs one isolated routing call. Errors and panics become the
// row's status.
func (p *BatchProcessor) route(ctx context.Context, provider ports.RouteProvider, req domain.RouteRequest) (res domain.RouteResult) {
	defer func() {
		if r := recover(); r != nil {
			res = domain.FailedRoute(fmt.Errorf("panic: %v", r))
		}
	}()

	res, err := provider.Route(ctx, req)
	if err != nil {
		return domain.FailedRoute(err)
	}

	switch {
	case res.Status == "":
		return domain.FailedRoute(fmt.Errorf("routing service returned no status"))
	case !res.OK():
		return domain.RouteResult{Status: res.Status}
	case res.DurationMinutes == nil || res.DistanceKm == nil:
		return domain.FailedRoute(fmt.Errorf("routing service returned incomplete result"))
	}
	return res
}

func writeResult(tbl *table.Table, i int, idx columnIndex, res domain.RouteResult) {
	var duration, distance any
	if res.OK() {
		duration = *res.DurationMinutes
		distance = *res.DistanceKm
	}
	tbl.Set(i, idx.duration, duration)
	tbl.Set(i, idx.distance, distance)
	tbl.Set(i, idx.status, res.Status)
}

// record hands the batch to the optional store and publisher. Their failures
// are logged; the batch result stands.
func (p *BatchProcessor) record(ctx context.Context, log *zap.Logger, b *domain.Batch) {
	if p.store != nil {
		if err := p.store.SaveBatch(ctx, b); err != nil {
			log.Error("save batch failed", zap.Error(err))
		}
	}
	if p.publisher != nil {
		if err := p.publisher.PublishBatchCompleted(ctx, b); err != nil {
			log.Error("publish batch failed", zap.Error(err))
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
