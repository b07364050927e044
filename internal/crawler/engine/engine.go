package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"go-shopscraper/internal"
)

// ErrSkipped marks a URL the processor chose not to produce records for, such
// as a page whose content never rendered. Wrap it to keep the reason.
var ErrSkipped = errors.New("skipped")

// Processor defines how to scrape a single URL.
type Processor[T any] interface {
	Process(ctx context.Context, url string) ([]T, error)
}

// Sink defines how to persist the data.
type Sink[T any] interface {
	Save(ctx context.Context, batch []T) error
}

// URLFilter decides whether a URL is handed to the processor at all.
type URLFilter interface {
	Allow(ctx context.Context, url string) bool
}

// Config holds worker settings.
type Config struct {
	Workers       int
	BatchSize     int
	FlushInterval time.Duration
}

// Stats summarises a finished run.
type Stats struct {
	Processed int
	Skipped   int
	Failed    int
	Saved     int
}

// Engine drives a Processor over a fixed URL list and batches its output into a Sink.
type Engine[T any] struct {
	config    Config
	processor Processor[T]
	sink      Sink[T]
	filters   []URLFilter
	logger    *zap.Logger

	visited *internal.SafeSet[string]
}

func NewEngine[T any](cfg Config, proc Processor[T], sink Sink[T], logger *zap.Logger, filters ...URLFilter) *Engine[T] {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 1
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 2 * time.Second
	}
	return &Engine[T]{
		config:    cfg,
		processor: proc,
		sink:      sink,
		filters:   filters,
		logger:    logger.Named("engine"),
		visited:   internal.NewSafeSet[string](),
	}
}

type counters struct {
	processed atomic.Int64
	skipped   atomic.Int64
	failed    atomic.Int64
}

type storageResult struct {
	saved int
	err   error
}

// Run processes every URL once and blocks until all results are flushed.
// Cancelling ctx stops dispatching new URLs; records already produced are
// still saved. The returned error joins sink failures and ctx.Err().
func (engine *Engine[T]) Run(ctx context.Context, urls ...string) (Stats, error) {
	var c counters
	jobs := make(chan string)
	results := make(chan T, engine.config.BatchSize*2)

	// 1. Start Storage Worker
	storageDone := make(chan storageResult, 1)
	go func() {
		saved, err := engine.runStorageWorker(ctx, results)
		storageDone <- storageResult{saved: saved, err: err}
	}()

	// 2. Start Crawl Workers
	var wg sync.WaitGroup
	for i := 0; i < engine.config.Workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			engine.runCrawlWorker(ctx, id, jobs, results, &c)
		}(i)
	}
	engine.logger.Info("Engine started",
		zap.Int("workers", engine.config.Workers),
		zap.Int("urls", len(urls)))

	// 3. Feed the worklist
feed:
	for _, link := range urls {
		if !engine.visited.Add(link) || !engine.allowed(ctx, link) {
			c.skipped.Add(1)
			continue
		}
		select {
		case jobs <- link:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	close(results)
	storage := <-storageDone

	stats := Stats{
		Processed: int(c.processed.Load()),
		Skipped:   int(c.skipped.Load()),
		Failed:    int(c.failed.Load()),
		Saved:     storage.saved,
	}
	engine.logger.Info("Engine finished",
		zap.Int("processed", stats.Processed),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed),
		zap.Int("saved", stats.Saved))

	return stats, errors.Join(storage.err, ctx.Err())
}

func (engine *Engine[T]) allowed(ctx context.Context, link string) bool {
	for _, f := range engine.filters {
		if !f.Allow(ctx, link) {
			engine.logger.Debug("URL filtered", zap.String("url", link))
			return false
		}
	}
	return true
}

func (engine *Engine[T]) runCrawlWorker(ctx context.Context, id int, jobs <-chan string, results chan<- T, c *counters) {
	logger := engine.logger.With(zap.Int("worker", id))

	for link := range jobs {
		if ctx.Err() != nil {
			return
		}
		logger.Info("Processing", zap.String("url", link))

		data, err := engine.processor.Process(ctx, link)
		switch {
		case errors.Is(err, ErrSkipped):
			logger.Warn("Skipped", zap.String("url", link), zap.Error(err))
			c.skipped.Add(1)
			continue
		case err != nil:
			logger.Error("Processing failed", zap.String("url", link), zap.Error(err))
			c.failed.Add(1)
			continue
		}
		c.processed.Add(1)

		// Send results to storage
		for _, item := range data {
			results <- item
		}
	}
}

// runStorageWorker drains results until the channel is closed. Saves use a
// context detached from cancellation so a shutdown still persists the tail.
func (engine *Engine[T]) runStorageWorker(ctx context.Context, results <-chan T) (int, error) {
	saveCtx := context.WithoutCancel(ctx)
	buffer := make([]T, 0, engine.config.BatchSize)
	ticker := time.NewTicker(engine.config.FlushInterval)
	defer ticker.Stop()

	saved := 0
	var errs []error
	flush := func() {
		if len(buffer) == 0 {
			return
		}
		if err := engine.sink.Save(saveCtx, buffer); err != nil {
			engine.logger.Error("Failed to save batch", zap.Int("size", len(buffer)), zap.Error(err))
			errs = append(errs, err)
		} else {
			engine.logger.Info("Saved batch", zap.Int("size", len(buffer)))
			saved += len(buffer)
		}
		buffer = buffer[:0] // Reset buffer
	}

	for {
		select {
		case item, ok := <-results:
			if !ok {
				flush()
				return saved, errors.Join(errs...)
			}
			buffer = append(buffer, item)
			if len(buffer) >= engine.config.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}
