// Package audit periodically checks that every stored document still has
// its PDF blob.
package audit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"digisign/portal-backend/internal/documents"
)

const defaultPageSize = 200

// Catalog pages through every stored document.
type Catalog interface {
	ListPage(ctx context.Context, after uuid.UUID, limit int) ([]documents.Document, error)
}

// BlobChecker reports whether a blob key is present.
type BlobChecker interface {
	Exists(ctx context.Context, key string) (bool, error)
}

// Report is the outcome of one audit pass.
type Report struct {
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Checked    int       `json:"checked"`
	Missing    []string  `json:"missing"`
	Errors     int       `json:"errors"`
}

// Auditor runs blob integrity checks on a cron schedule
type Auditor struct {
	catalog  Catalog
	blobs    BlobChecker
	pageSize int
	logger   *zap.Logger

	cron    *cron.Cron
	mu      sync.Mutex
	running bool
	last    *Report
}

func NewAuditor(catalog Catalog, blobs BlobChecker, pageSize int, logger *zap.Logger) *Auditor {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Auditor{
		catalog:  catalog,
		blobs:    blobs,
		pageSize: pageSize,
		logger:   logger,
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
	}
}

// Run performs one full pass. Individual Exists failures are counted and
// logged; only catalog failures abort the pass.
func (a *Auditor) Run(ctx context.Context) (*Report, error) {
	report := &Report{StartedAt: time.Now().UTC(), Missing: []string{}}

	after := uuid.Nil
	for {
		page, err := a.catalog.ListPage(ctx, after, a.pageSize)
		if err != nil {
			return nil, fmt.Errorf("list documents: %w", err)
		}
		for _, doc := range page {
			report.Checked++
			ok, err := a.blobs.Exists(ctx, doc.FilePath)
			switch {
			case err != nil:
				report.Errors++
				a.logger.Warn("Blob check failed",
					zap.String("document_id", doc.ID.String()), zap.Error(err))
			case !ok:
				report.Missing = append(report.Missing, doc.ID.String())
				a.logger.Warn("Document blob missing",
					zap.String("document_id", doc.ID.String()),
					zap.String("key", doc.FilePath))
			}
		}
		if len(page) < a.pageSize {
			break
		}
		after = page[len(page)-1].ID
	}

	report.FinishedAt = time.Now().UTC()
	a.logger.Info("Blob audit finished",
		zap.Int("checked", report.Checked),
		zap.Int("missing", len(report.Missing)),
		zap.Int("errors", report.Errors),
	)

	a.mu.Lock()
	a.last = report
	a.mu.Unlock()
	return report, nil
}

// Start schedules Run with a standard cron spec or descriptor such as
// "@every 6h".
func (a *Auditor) Start(ctx context.Context, schedule string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.running {
		return fmt.Errorf("auditor already running")
	}

	if _, err := a.cron.AddFunc(schedule, func() {
		if _, err := a.Run(ctx); err != nil {
			a.logger.Error("Blob audit failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("invalid audit schedule %q: %w", schedule, err)
	}

	a.logger.Info("Starting blob auditor", zap.String("schedule", schedule))
	a.cron.Start()
	a.running = true
	return nil
}

// Stop waits for a running pass to finish.
func (a *Auditor) Stop() {
	a.mu.Lock()
	if !a.running {
		a.mu.Unlock()
		return
	}
	a.running = false
	a.mu.Unlock()

	a.logger.Info("Stopping blob auditor")
	<-a.cron.Stop().Done()
}

// LastReport returns the most recent report, or nil before the first pass.
func (a *Auditor) LastReport() *Report {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last
}
