// Package job holds background work run on a cron schedule.
package job

import (
	"context"
	"fmt"
	"time"

	"rental/internal/domain/model"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const DefaultCriticalStockSpec = "@every 15m"

type CriticalLister interface {
	ListCritical(ctx context.Context) ([]model.Product, error)
}

// CriticalStockScanner logs one warning per product whose available
// quantity is under its critical threshold.
type CriticalStockScanner struct {
	products CriticalLister
	log      *zap.Logger
	timeout  time.Duration
}

func NewCriticalStockScanner(products CriticalLister, log *zap.Logger) *CriticalStockScanner {
	return &CriticalStockScanner{products: products, log: log, timeout: time.Minute}
}

// Scan returns the number of critical products found.
func (s *CriticalStockScanner) Scan(ctx context.Context) (int, error) {
	products, err := s.products.ListCritical(ctx)
	if err != nil {
		return 0, fmt.Errorf("list critical products: %w", err)
	}
	for _, p := range products {
		s.log.Warn("critical stock",
			zap.Int64("product_id", p.ID),
			zap.String("code", p.Code),
			zap.Int64("available", p.AvailableQuantity),
			zap.Int64("threshold", p.CriticalThreshold))
	}
	return len(products), nil
}

// Run implements cron.Job.
func (s *CriticalStockScanner) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	n, err := s.Scan(ctx)
	if err != nil {
		s.log.Error("critical stock scan failed", zap.Error(err))
		return
	}
	s.log.Debug("critical stock scan done", zap.Int("critical", n))
}

// NewScheduler returns a cron that recovers panics and never overlaps a job
// with its previous run.
func NewScheduler(log *zap.Logger) *cron.Cron {
	cl := cronLogger{log.Sugar()}
	return cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
}

// Schedule registers the scanner; an empty spec means DefaultCriticalStockSpec.
func Schedule(c *cron.Cron, spec string, s *CriticalStockScanner) (cron.EntryID, error) {
	if spec == "" {
		spec = DefaultCriticalStockSpec
	}
	id, err := c.AddJob(spec, s)
	if err != nil {
		return 0, fmt.Errorf("schedule critical stock scan %q: %w", spec, err)
	}
	return id, nil
}

// cron.Logger on top of zap
type cronLogger struct {
	l *zap.SugaredLogger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Errorw(msg, append(keysAndValues, "error", err)...)
}
