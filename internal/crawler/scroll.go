package crawler

import (
	"context"
	"fmt"
	"time"

	"go-shopscraper/internal/config"
)

// Scroller walks a page down in fixed steps so lazily loaded content renders.
type Scroller struct {
	Step     int64
	Delay    time.Duration
	MaxSteps int

	sleep func(ctx context.Context, d time.Duration) error
}

func NewScroller(cfg config.ScrapeConfig) *Scroller {
	return &Scroller{
		Step:     cfg.ScrollStep,
		Delay:    cfg.ScrollDelay,
		MaxSteps: cfg.MaxScrollSteps,
		sleep:    sleepContext,
	}
}

// ScrollDown scrolls until the next position reaches the height the page had
// before scrolling began, or MaxSteps is hit. It returns the steps taken.
func (s *Scroller) ScrollDown(ctx context.Context, page Page) (int, error) {
	lastHeight, err := page.ScrollHeight(ctx)
	if err != nil {
		return 0, err
	}

	y := s.Step
	steps := 0
	for steps < s.MaxSteps {
		if err := page.ScrollTo(ctx, y); err != nil {
			return steps, err
		}
		steps++
		y += s.Step

		if err := s.sleep(ctx, s.Delay); err != nil {
			return steps, fmt.Errorf("scroll interrupted: %w", err)
		}
		if y >= lastHeight {
			break
		}
	}
	return steps, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
