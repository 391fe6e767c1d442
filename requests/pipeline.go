// Package requests runs the "track by request" search pipeline: a free-text
// query is searched on a platform, parsed into candidates, ranked, and stored
// for the user to pick from.
package requests

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"pricetracker/database"
	"pricetracker/fetcher"
	"pricetracker/metrics"
	"pricetracker/models"
	"pricetracker/scraper"
	"pricetracker/search"
)

var (
	// ErrCandidateNotFound means the selected URL is not among the request's
	// stored candidates.
	ErrCandidateNotFound = errors.New("url is not a candidate of this request")
	// ErrAlreadyTracked means the user already tracks the selected URL.
	ErrAlreadyTracked = errors.New("product is already tracked")
)

// Fetcher is the page fetch the pipeline uses for search result pages.
type Fetcher interface {
	Fetch(ctx context.Context, url string, platform scraper.Platform) (*fetcher.Result, error)
}

// Pipeline processes track requests. A request is processed at most once at a
// time; concurrent triggers for the same request coalesce.
type Pipeline struct {
	fetcher       Fetcher
	logger        *zap.Logger
	maxCandidates int
	now           func() time.Time

	mu       sync.Mutex
	inflight map[string]bool
}

func NewPipeline(f Fetcher, logger *zap.Logger, maxCandidates int) *Pipeline {
	if maxCandidates < 1 {
		maxCandidates = 10
	}
	return &Pipeline{
		fetcher:       f,
		logger:        logger,
		maxCandidates: maxCandidates,
		now:           time.Now,
		inflight:      make(map[string]bool),
	}
}

// ProcessPending sweeps requests still in pending. Submission already kicks
// off processing asynchronously; the sweep catches anything that slipped
// through a crash or restart.
func (p *Pipeline) ProcessPending(ctx context.Context) {
	var ids []string
	err := database.DB.Model(&models.Request{}).
		Where("status = ?", models.RequestStatusPending).
		Pluck("id", &ids).Error
	if err != nil {
		p.logger.Error("list pending requests failed", zap.Error(err))
		return
	}

	for _, id := range ids {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if err := p.Process(ctx, id); err != nil {
			p.logger.Warn("process request failed", zap.String("request_id", id), zap.Error(err))
		}
	}
}

// Process runs one search for the request and replaces its candidate list
// wholesale with the ranked results.
func (p *Pipeline) Process(ctx context.Context, requestID string) error {
	if !p.acquire(requestID) {
		return nil
	}
	defer p.release(requestID)

	var req models.Request
	if err := database.DB.First(&req, "id = ?", requestID).Error; err != nil {
		return err
	}

	if err := database.DB.Model(&req).Update("status", models.RequestStatusRunning).Error; err != nil {
		return err
	}

	platform, ok := scraper.ParsePlatform(req.Platform)
	if !ok {
		return p.finishError(&req, fmt.Sprintf("unsupported platform: %s", req.Platform))
	}
	searcher, ok := search.ForPlatform(platform)
	if !ok {
		return p.finishError(&req, fmt.Sprintf("search is not supported on %s", req.Platform))
	}

	res, err := p.fetcher.Fetch(ctx, searcher.BuildURL(req.Query), platform)
	if err != nil {
		var fe *fetcher.Error
		if errors.As(err, &fe) {
			if fe.Kind == fetcher.KindDisallowed || isBlockingStatus(fe) {
				return p.finishBlocked(&req, fe.Reason())
			}
			return p.finishError(&req, fe.Reason())
		}
		return p.finishError(&req, err.Error())
	}

	parsed := searcher.Parse(res.HTML)
	ranked := search.Rank(parsed, req.Query, req.MaxPrice)
	if len(ranked) > p.maxCandidates {
		ranked = ranked[:p.maxCandidates]
	}

	if err := p.storeCandidates(&req, ranked); err != nil {
		return p.finishError(&req, "failed to store candidates")
	}

	p.logJob(&req, "ok", "")
	metrics.SearchRequestsTotal.WithLabelValues(req.Platform, "done").Inc()
	p.logger.Info("request processed",
		zap.String("request_id", req.ID),
		zap.String("platform", req.Platform),
		zap.Int("candidates", len(ranked)))
	return nil
}

// Select promotes one candidate of a done request into a tracked product. The
// product starts pending with the candidate's listing data as a seed; the
// first recheck fills in the rest.
func (p *Pipeline) Select(requestID, userID, url string) (*models.TrackedProduct, error) {
	db := database.DB

	var req models.Request
	if err := db.First(&req, "id = ? AND user_id = ?", requestID, userID).Error; err != nil {
		return nil, err
	}

	var cand models.Candidate
	if err := db.First(&cand, "request_id = ? AND url = ?", req.ID, url).Error; err != nil {
		return nil, ErrCandidateNotFound
	}

	var existing models.TrackedProduct
	if db.First(&existing, "user_id = ? AND url = ?", userID, cand.URL).Error == nil {
		return nil, ErrAlreadyTracked
	}

	product := models.TrackedProduct{
		UserID:       userID,
		Platform:     req.Platform,
		URL:          cand.URL,
		Title:        cand.Title,
		Image:        cand.Image,
		CurrentPrice: cand.Price,
		Currency:     cand.Currency,
		Status:       models.ProductStatusPending,
	}
	if err := db.Create(&product).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&req).Update("selected_url", cand.URL).Error; err != nil {
		return nil, err
	}

	return &product, nil
}

func (p *Pipeline) acquire(requestID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.inflight[requestID] {
		return false
	}
	p.inflight[requestID] = true
	return true
}

func (p *Pipeline) release(requestID string) {
	p.mu.Lock()
	delete(p.inflight, requestID)
	p.mu.Unlock()
}

// storeCandidates replaces the request's candidates in one transaction and
// marks the request done.
func (p *Pipeline) storeCandidates(req *models.Request, ranked []search.Candidate) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("request_id = ?", req.ID).Delete(&models.Candidate{}).Error; err != nil {
			return err
		}
		for i, c := range ranked {
			row := models.Candidate{
				RequestID: req.ID,
				URL:       c.URL,
				Currency:  c.Currency,
				Price:     c.Price,
				Position:  i,
			}
			if c.Title != "" {
				title := c.Title
				row.Title = &title
			}
			if c.Image != "" {
				image := c.Image
				row.Image = &image
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return tx.Model(req).Updates(map[string]interface{}{
			"status":         models.RequestStatusDone,
			"result_count":   len(ranked),
			"blocked_reason": nil,
			"error_message":  nil,
		}).Error
	})
}

func (p *Pipeline) finishBlocked(req *models.Request, reason string) error {
	err := database.DB.Model(req).Updates(map[string]interface{}{
		"status":         models.RequestStatusBlocked,
		"blocked_reason": reason,
		"error_message":  nil,
	}).Error
	p.logJob(req, "blocked", reason)
	metrics.SearchRequestsTotal.WithLabelValues(req.Platform, "blocked").Inc()
	return err
}

func (p *Pipeline) finishError(req *models.Request, message string) error {
	err := database.DB.Model(req).Updates(map[string]interface{}{
		"status":         models.RequestStatusError,
		"blocked_reason": nil,
		"error_message":  message,
	}).Error
	p.logJob(req, "error", message)
	metrics.SearchRequestsTotal.WithLabelValues(req.Platform, "error").Inc()
	return err
}

// isBlockingStatus treats auth and rate-limit responses on a search page as
// the platform pushing back, not a transient error.
func isBlockingStatus(fe *fetcher.Error) bool {
	if fe.Kind != fetcher.KindHTTPError {
		return false
	}
	switch fe.Status {
	case 401, 403, 429:
		return true
	}
	return false
}

func (p *Pipeline) logJob(req *models.Request, status, errMsg string) {
	entry := models.JobLog{
		JobType:  "process_request",
		Platform: &req.Platform,
		Status:   status,
		RanAt:    p.now(),
	}
	if errMsg != "" {
		entry.ErrorMessage = &errMsg
	}
	if err := database.DB.Create(&entry).Error; err != nil {
		p.logger.Error("write job log failed", zap.Error(err))
	}
}
