package worker

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"esyncify/internal/catalog"
	"esyncify/internal/events"
	"esyncify/internal/models"
	"esyncify/internal/store"
	"esyncify/internal/upsert"

	"github.com/rs/zerolog"
)

// Engine is the reconciliation interface the worker drives. Satisfied by
// *upsert.Engine; tests substitute a stub.
type Engine interface {
	Upsert(ctx context.Context, product *catalog.Product, opts upsert.Options) upsert.Result
}

// EngineFactory builds an engine bound to one shop's credential.
type EngineFactory func(shopDomain, accessToken string) Engine

type Config struct {
	BatchSize    int
	PollInterval time.Duration
	// RecordDelay spaces out remote calls between records as rate-limit
	// courtesy.
	RecordDelay time.Duration
}

// Worker is the long-running poller: it claims the oldest job with pending
// work, processes a bounded batch of its imports strictly sequentially, and
// settles the ledgers. One active worker per deployment is assumed; the
// ledger's atomic counters keep a second one safe regardless.
type Worker struct {
	store     *store.Store
	engines   EngineFactory
	publisher events.Emitter
	logger    zerolog.Logger
	cfg       Config
	quit      chan struct{}
}

func New(st *store.Store, engines EngineFactory, publisher events.Emitter, logger zerolog.Logger, cfg Config) *Worker {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 5
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.RecordDelay < 0 {
		cfg.RecordDelay = 0
	}
	return &Worker{
		store:     st,
		engines:   engines,
		publisher: publisher,
		logger:    logger,
		cfg:       cfg,
		quit:      make(chan struct{}),
	}
}

// Start blocks, polling for claimable jobs until Stop is called. Errors are
// logged and the loop continues; nothing terminates the process.
func (w *Worker) Start() {
	w.logger.Info().Msg("worker started, polling for jobs")

	for {
		select {
		case <-w.quit:
			return
		default:
		}

		job, err := w.store.OldestRunnableJob()
		if err != nil {
			w.logger.Error().Err(err).Msg("failed to poll for jobs")
			w.idle()
			continue
		}
		if job == nil {
			w.idle()
			continue
		}

		w.ProcessJob(context.Background(), job)
	}
}

func (w *Worker) Stop() {
	w.logger.Info().Msg("stopping worker")
	close(w.quit)
}

func (w *Worker) idle() {
	select {
	case <-w.quit:
	case <-time.After(w.cfg.PollInterval):
	}
}

// ProcessJob runs one batch iteration for a job. Exported for the tests
// and for synchronous drains.
func (w *Worker) ProcessJob(ctx context.Context, job *models.Job) {
	logger := w.logger.With().Str("job_id", job.ID).Logger()

	if job.Status == models.JobQueued {
		logger.Info().Msg("starting job processing")
		if err := w.store.ClaimJob(job.ID); err != nil {
			logger.Error().Err(err).Msg("failed to claim job")
			return
		}
	}

	shop, err := w.store.GetShop(job.ShopDomain)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load shop")
		return
	}
	if shop == nil || shop.AccessToken == "" {
		// No record in this batch could possibly succeed, so the job as a
		// whole fails; its imports stay PENDING untouched.
		logger.Error().Str("shop_domain", job.ShopDomain).Msg("missing access token, failing job")
		w.failJob(ctx, job, "Missing access token for shop.")
		return
	}

	opts, err := upsert.ParseOptions(job.Options)
	if err != nil {
		logger.Error().Err(err).Msg("invalid job options, failing job")
		w.failJob(ctx, job, "Invalid job options: "+err.Error())
		return
	}

	items, err := w.store.PendingImports(job.ID, w.cfg.BatchSize)
	if err != nil {
		logger.Error().Err(err).Msg("failed to fetch pending imports")
		return
	}
	if len(items) == 0 {
		logger.Info().Msg("no pending imports, job completed")
		w.completeJob(ctx, job)
		return
	}

	engine := w.engines(shop.Domain, shop.AccessToken)

	for i := range items {
		record := &items[i]

		// A cancel request may land mid-batch. Stop claiming further
		// records; the remaining imports keep their PENDING state.
		current, err := w.store.GetJob(job.ID)
		if err != nil {
			logger.Error().Err(err).Msg("failed to re-check job status")
			return
		}
		if current == nil || current.Status == models.JobCancelled {
			logger.Info().Msg("job cancelled, leaving remaining imports pending")
			return
		}

		w.processRecord(ctx, engine, job, record, opts, logger)

		if w.cfg.RecordDelay > 0 {
			time.Sleep(w.cfg.RecordDelay)
		}
	}

	pending, err := w.store.PendingCount(job.ID)
	if err != nil {
		logger.Error().Err(err).Msg("failed to count pending imports")
		return
	}
	if pending == 0 {
		logger.Info().Msg("all imports processed, job completed")
		w.completeJob(ctx, job)
	}
}

func (w *Worker) processRecord(ctx context.Context, engine Engine, job *models.Job, record *models.Import, opts upsert.Options, logger zerolog.Logger) {
	var product catalog.Product
	if err := json.Unmarshal([]byte(record.ProductData), &product); err != nil {
		logger.Error().Err(err).Str("import_id", record.ID).Msg("invalid stored product data")
		w.settleFailure(ctx, job, record, "Invalid stored product data: "+err.Error())
		return
	}

	result := engine.Upsert(ctx, &product, opts)
	if result.Success {
		productID := strconv.FormatInt(result.Data.ID, 10)
		if _, err := w.store.CompleteImport(record, productID, result.Action); err != nil {
			logger.Error().Err(err).Str("import_id", record.ID).Msg("failed to record import success")
			return
		}
		logger.Info().Str("title", product.Title).Str("action", result.Action).Msg("import succeeded")
		w.publish(ctx, events.Event{
			Type:       events.TypeImportCompleted,
			ShopDomain: job.ShopDomain,
			JobID:      job.ID,
			ImportID:   record.ID,
			Data:       map[string]any{"success": true, "action": result.Action, "sku": result.SKU},
		})
		return
	}

	logger.Warn().Str("import_id", record.ID).Str("error", result.Error).Msg("import failed")
	w.settleFailure(ctx, job, record, result.Error)
}

func (w *Worker) publish(ctx context.Context, event events.Event) {
	if w.publisher == nil {
		return
	}
	w.publisher.Publish(ctx, event)
}

func (w *Worker) settleFailure(ctx context.Context, job *models.Job, record *models.Import, message string) {
	if _, err := w.store.FailImport(record, message); err != nil {
		w.logger.Error().Err(err).Str("import_id", record.ID).Msg("failed to record import failure")
		return
	}
	w.publish(ctx, events.Event{
		Type:       events.TypeImportCompleted,
		ShopDomain: job.ShopDomain,
		JobID:      job.ID,
		ImportID:   record.ID,
		Data:       map[string]any{"success": false, "error": message},
	})
}

func (w *Worker) completeJob(ctx context.Context, job *models.Job) {
	if err := w.store.CompleteJob(job.ID); err != nil {
		w.logger.Error().Err(err).Str("job_id", job.ID).Msg("failed to complete job")
		return
	}
	w.publish(ctx, events.Event{
		Type:       events.TypeJobCompleted,
		ShopDomain: job.ShopDomain,
		JobID:      job.ID,
	})
}

func (w *Worker) failJob(ctx context.Context, job *models.Job, message string) {
	if err := w.store.FailJob(job.ID, message); err != nil {
		w.logger.Error().Err(err).Str("job_id", job.ID).Msg("failed to fail job")
		return
	}
	w.publish(ctx, events.Event{
		Type:       events.TypeJobFailed,
		ShopDomain: job.ShopDomain,
		JobID:      job.ID,
		Data:       map[string]any{"error": message},
	})
}
