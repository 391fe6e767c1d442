// Package scheduler drives periodic and on-demand product rechecks. One
// recheck is fetch + extract + state update + history append + alert
// evaluation for a single product.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"pricetracker/alerts"
	"pricetracker/database"
	"pricetracker/fetcher"
	"pricetracker/metrics"
	"pricetracker/models"
	"pricetracker/scraper"
)

// ErrCheckInFlight is returned when a recheck is requested for a product that
// already has one running. The in-flight attempt counts as the one attempt;
// callers treat this as accepted, not failed.
var ErrCheckInFlight = errors.New("recheck already in flight for this product")

// Clock is injectable for deterministic tests.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Fetcher is the single-attempt page fetch the scheduler drives.
type Fetcher interface {
	Fetch(ctx context.Context, url string, platform scraper.Platform) (*fetcher.Result, error)
}

// PendingSweeper lets the scheduler sweep unprocessed track-by-request
// searches each cycle without importing the requests package.
type PendingSweeper interface {
	ProcessPending(ctx context.Context)
}

type Options struct {
	Interval  time.Duration
	Workers   int
	Retention time.Duration
	Clock     Clock
}

// Scheduler owns the recurring recheck loop. Explicit Start/Stop lifecycle;
// no ambient global timers.
type Scheduler struct {
	fetcher   Fetcher
	engine    *alerts.Engine
	sweeper   PendingSweeper
	logger    *zap.Logger
	clock     Clock
	interval  time.Duration
	retention time.Duration
	sem       chan struct{}

	mu       sync.Mutex
	inflight map[string]bool

	cancel context.CancelFunc
	done   chan struct{}
}

func New(f Fetcher, engine *alerts.Engine, sweeper PendingSweeper, logger *zap.Logger, opts Options) *Scheduler {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Clock == nil {
		opts.Clock = realClock{}
	}
	if opts.Retention <= 0 {
		opts.Retention = 180 * 24 * time.Hour
	}
	return &Scheduler{
		fetcher:   f,
		engine:    engine,
		sweeper:   sweeper,
		logger:    logger,
		clock:     opts.Clock,
		interval:  opts.Interval,
		retention: opts.Retention,
		sem:       make(chan struct{}, opts.Workers),
		inflight:  make(map[string]bool),
	}
}

// Start launches the recurring loop. The first cycle runs immediately.
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)

		s.logger.Info("scheduler started", zap.Duration("interval", s.interval))
		s.RunCycle(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.RunCycle(ctx)
			}
		}
	}()
}

// Stop cancels the loop and waits for it to exit.
func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.logger.Info("scheduler stopped")
}

// RunCycle prunes old history, rechecks every tracked product through the
// bounded worker pool, then sweeps pending track requests.
func (s *Scheduler) RunCycle(ctx context.Context) {
	s.pruneHistory()

	var ids []string
	if err := database.DB.Model(&models.TrackedProduct{}).Pluck("id", &ids).Error; err != nil {
		s.logger.Error("list products failed", zap.Error(err))
		return
	}

	s.logger.Info("check cycle started", zap.Int("products", len(ids)))

	var wg sync.WaitGroup
	for _, id := range ids {
		select {
		case <-ctx.Done():
			wg.Wait()
			return
		case s.sem <- struct{}{}:
		}

		wg.Add(1)
		go func(productID string) {
			defer wg.Done()
			defer func() { <-s.sem }()
			if err := s.CheckProduct(ctx, productID); err != nil && !errors.Is(err, ErrCheckInFlight) {
				s.logger.Warn("recheck failed", zap.String("product_id", productID), zap.Error(err))
			}
		}(id)
	}
	wg.Wait()

	if s.sweeper != nil {
		s.sweeper.ProcessPending(ctx)
	}

	s.logger.Info("check cycle completed", zap.Int("products", len(ids)))
}

// CheckProduct runs one recheck. At most one recheck per product is ever in
// flight; a second request while one runs coalesces into it.
func (s *Scheduler) CheckProduct(ctx context.Context, productID string) error {
	if !s.acquire(productID) {
		return ErrCheckInFlight
	}
	defer s.release(productID)

	var product models.TrackedProduct
	if err := database.DB.First(&product, "id = ?", productID).Error; err != nil {
		return err
	}

	s.checkOne(ctx, &product)
	return nil
}

func (s *Scheduler) acquire(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight[productID] {
		return false
	}
	s.inflight[productID] = true
	return true
}

func (s *Scheduler) release(productID string) {
	s.mu.Lock()
	delete(s.inflight, productID)
	s.mu.Unlock()
}

func (s *Scheduler) checkOne(ctx context.Context, product *models.TrackedProduct) {
	now := s.clock.Now()

	platform, ok := scraper.ParsePlatform(product.Platform)
	if !ok || product.URL == "" {
		s.setError(product, now)
		s.logJob("check_product", product, "error", "missing URL or unsupported platform")
		metrics.RecheckTotal.WithLabelValues(product.Platform, "error").Inc()
		return
	}

	fetchStart := time.Now()
	res, err := s.fetcher.Fetch(ctx, product.URL, platform)
	metrics.FetchDuration.WithLabelValues(string(platform)).Observe(time.Since(fetchStart).Seconds())

	if err != nil {
		var fe *fetcher.Error
		if errors.As(err, &fe) && fe.Kind == fetcher.KindDisallowed {
			s.setBlocked(product, fe.Reason(), now)
			s.logJob("check_product", product, "blocked", fe.Reason())
			metrics.RecheckTotal.WithLabelValues(string(platform), "blocked").Inc()
			return
		}
		reason := err.Error()
		if fe != nil {
			reason = fe.Reason()
		}
		s.setError(product, now)
		s.logJob("check_product", product, "error", reason)
		metrics.RecheckTotal.WithLabelValues(string(platform), "error").Inc()
		return
	}

	data, err := scraper.Extract(platform, res.HTML)
	if err != nil {
		var ee *scraper.ExtractError
		if errors.As(err, &ee) && ee.Reason == scraper.ReasonLikelyBlocked {
			reason := "anti-bot challenge detected (CAPTCHA or interstitial page)"
			s.setBlocked(product, reason, now)
			s.logJob("check_product", product, "blocked", reason)
			metrics.RecheckTotal.WithLabelValues(string(platform), "blocked").Inc()
			return
		}

		// soft miss: page loaded but no price located. Keep the current
		// status, refresh whatever metadata did parse, record no observation.
		updates := map[string]interface{}{"last_checked": now}
		if data.Title != "" {
			updates["title"] = data.Title
		}
		if data.Image != "" {
			updates["image"] = data.Image
		}
		if err := database.DB.Model(product).Updates(updates).Error; err != nil {
			s.logger.Error("update product failed", zap.String("product_id", product.ID), zap.Error(err))
		}
		s.logJob("check_product", product, "no_price", "price not detected")
		metrics.RecheckTotal.WithLabelValues(string(platform), "no_price").Inc()
		return
	}

	s.applySuccess(ctx, product, data, now)
	metrics.RecheckTotal.WithLabelValues(string(platform), "active").Inc()
}

// applySuccess moves the product to active, appends exactly one observation
// and hands the new price to the alert engine.
func (s *Scheduler) applySuccess(ctx context.Context, product *models.TrackedProduct, data scraper.ProductData, now time.Time) {
	previousPrice := product.CurrentPrice

	if data.Title != "" {
		title := data.Title
		product.Title = &title
	}
	if data.Image != "" {
		product.Image = &data.Image
	}
	product.CurrentPrice = data.Price
	product.ReferencePrice = data.ReferencePrice
	product.Currency = data.Currency
	product.Status = models.ProductStatusActive
	product.BlockedReason = nil
	product.LastChecked = &now

	if err := database.DB.Model(product).
		Select("title", "image", "current_price", "reference_price", "currency", "status", "blocked_reason", "last_checked").
		Updates(product).Error; err != nil {
		s.logger.Error("update product failed", zap.String("product_id", product.ID), zap.Error(err))
		return
	}

	obs := models.PriceObservation{
		TrackedProductID: product.ID,
		Timestamp:        now,
		Price:            *data.Price,
		Currency:         data.Currency,
	}
	if err := database.DB.Create(&obs).Error; err != nil {
		s.logger.Error("append observation failed", zap.String("product_id", product.ID), zap.Error(err))
		return
	}

	if s.engine != nil {
		if err := s.engine.Fire(ctx, product, *data.Price, previousPrice); err != nil {
			s.logger.Error("alert evaluation failed", zap.String("product_id", product.ID), zap.Error(err))
		}
	}

	s.logJob("check_product", product, "ok", "")
}

// setBlocked records the blocked state. The last known price stays as-is; a
// blocked product keeps whatever was observed before.
func (s *Scheduler) setBlocked(product *models.TrackedProduct, reason string, now time.Time) {
	err := database.DB.Model(product).Updates(map[string]interface{}{
		"status":         models.ProductStatusBlocked,
		"blocked_reason": reason,
		"last_checked":   now,
	}).Error
	if err != nil {
		s.logger.Error("update product failed", zap.String("product_id", product.ID), zap.Error(err))
	}
}

// setError records a transient failure. blocked_reason is cleared so the
// blocked-iff-reason invariant holds across blocked -> error transitions.
func (s *Scheduler) setError(product *models.TrackedProduct, now time.Time) {
	err := database.DB.Model(product).Updates(map[string]interface{}{
		"status":         models.ProductStatusError,
		"blocked_reason": nil,
		"last_checked":   now,
	}).Error
	if err != nil {
		s.logger.Error("update product failed", zap.String("product_id", product.ID), zap.Error(err))
	}
}

func (s *Scheduler) pruneHistory() {
	cutoff := s.clock.Now().Add(-s.retention)
	res := database.DB.Where("timestamp < ?", cutoff).Delete(&models.PriceObservation{})
	if res.Error != nil {
		s.logger.Error("prune history failed", zap.Error(res.Error))
		return
	}
	if res.RowsAffected > 0 {
		s.logger.Info("pruned old observations", zap.Int64("rows", res.RowsAffected))
	}
}

func (s *Scheduler) logJob(jobType string, product *models.TrackedProduct, status, errMsg string) {
	entry := models.JobLog{
		JobType: jobType,
		Status:  status,
		RanAt:   s.clock.Now(),
	}
	if product != nil {
		entry.Platform = &product.Platform
		entry.TrackedProductID = &product.ID
	}
	if errMsg != "" {
		entry.ErrorMessage = &errMsg
	}
	if err := database.DB.Create(&entry).Error; err != nil {
		s.logger.Error("write job log failed", zap.Error(err))
	}
}
