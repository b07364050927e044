package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-shopscraper/internal/config"
)

// Manager launches isolated browser sessions. The platform is resolved once
// by the caller and fixes the executable for every session.
type Manager struct {
	cfg      config.BrowserConfig
	platform Platform
	execPath string
	logger   *zap.Logger
}

func NewManager(cfg config.BrowserConfig, platform Platform, workDir string, logger *zap.Logger) *Manager {
	m := &Manager{
		cfg:      cfg,
		platform: platform,
		execPath: ExecPath(platform, cfg, workDir),
		logger:   logger.Named("browser"),
	}
	m.logger.Info("Browser manager ready",
		zap.Stringer("platform", platform),
		zap.String("exec_path", m.execPath),
	)
	return m
}

// NewSession starts a fresh browser process. Launch failures are returned as-is
// (wrapped) and are not retried.
func (m *Manager) NewSession(ctx context.Context) (*Session, error) {
	id := uuid.New().String()
	logger := m.logger.With(zap.String("session_id", id))

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, AllocatorOptions(m.cfg, m.execPath)...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(logger.Sugar().Debugf),
		chromedp.WithErrorf(logger.Sugar().Debugf),
	)

	// Running no actions forces the browser to start now.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	logger.Debug("Session started")
	return &Session{
		ctx:    browserCtx,
		cancel: func() { browserCancel(); allocCancel() },
		logger: logger,
	}, nil
}

// Session is one browser tab in its own browser process.
type Session struct {
	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.Logger

	closeOnce sync.Once
	closeErr  error
}

// run executes actions on the session's tab, aborting when ctx is done.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	return nil
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	s.logger.Debug("Navigating", zap.String("url", url))
	if err := s.run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return nil
}

// WaitForClass waits until an element with the class is present in the DOM.
// It reports false when the timeout passes first.
func (s *Session) WaitForClass(ctx context.Context, class string, timeout time.Duration) (bool, error) {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := s.run(waitCtx, chromedp.WaitReady(classSelector(class), chromedp.ByQuery))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
		s.logger.Debug("Timed out waiting for marker", zap.String("class", class), zap.Duration("timeout", timeout))
		return false, nil
	default:
		return false, fmt.Errorf("wait for .%s: %w", class, err)
	}
}

func (s *Session) ScrollHeight(ctx context.Context) (int64, error) {
	var height int64
	if err := s.run(ctx, chromedp.Evaluate(`document.body.scrollHeight`, &height)); err != nil {
		return 0, fmt.Errorf("read scroll height: %w", err)
	}
	return height, nil
}

func (s *Session) ScrollTo(ctx context.Context, y int64) error {
	if err := s.run(ctx, chromedp.Evaluate(fmt.Sprintf(`window.scrollTo(0, %d)`, y), nil)); err != nil {
		return fmt.Errorf("scroll to %d: %w", y, err)
	}
	return nil
}

// HTML returns the current rendered document.
func (s *Session) HTML(ctx context.Context) (string, error) {
	var html string
	if err := s.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("read page source: %w", err)
	}
	return html, nil
}

// QueryAll returns the node IDs of every element with the class, in document
// order. It does not wait for any to appear.
func (s *Session) QueryAll(ctx context.Context, class string) ([]cdp.NodeID, error) {
	var ids []cdp.NodeID
	err := s.run(ctx, chromedp.NodeIDs(classSelector(class), &ids, chromedp.ByQueryAll, chromedp.AtLeast(0)))
	if err != nil {
		return nil, fmt.Errorf("query .%s: %w", class, err)
	}
	return ids, nil
}

// Hover moves the mouse to the centre of a node.
func (s *Session) Hover(ctx context.Context, id cdp.NodeID) error {
	err := s.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		if err := dom.ScrollIntoViewIfNeeded().WithNodeID(id).Do(ctx); err != nil {
			return err
		}
		box, err := dom.GetBoxModel().WithNodeID(id).Do(ctx)
		if err != nil {
			return err
		}
		x, y, ok := quadCenter(box.Content)
		if !ok {
			return fmt.Errorf("node %d has no geometry", id)
		}
		return input.DispatchMouseEvent(input.MouseMoved, x, y).Do(ctx)
	}))
	if err != nil {
		return fmt.Errorf("hover node %d: %w", id, err)
	}
	return nil
}

// Close shuts the browser down. It is safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = chromedp.Cancel(s.ctx)
		s.cancel()
		s.logger.Debug("Session closed")
	})
	return s.closeErr
}

func classSelector(class string) string {
	return "." + class
}

func quadCenter(q dom.Quad) (float64, float64, bool) {
	if len(q) < 8 {
		return 0, 0, false
	}
	var x, y float64
	for i := 0; i < 8; i += 2 {
		x += q[i]
		y += q[i+1]
	}
	return x / 4, y / 4, true
}
