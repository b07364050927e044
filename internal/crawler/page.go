package crawler

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/cdp"
)

// Page is a live browser tab. *browser.Session implements it.
type Page interface {
	Navigate(ctx context.Context, url string) error
	WaitForClass(ctx context.Context, class string, timeout time.Duration) (bool, error)
	ScrollHeight(ctx context.Context) (int64, error)
	ScrollTo(ctx context.Context, y int64) error
	HTML(ctx context.Context) (string, error)
	QueryAll(ctx context.Context, class string) ([]cdp.NodeID, error)
	Hover(ctx context.Context, id cdp.NodeID) error
}

// PageSession is a Page that owns a browser and must be closed.
type PageSession interface {
	Page
	Close() error
}

// OpenFunc starts a new isolated PageSession.
type OpenFunc func(ctx context.Context) (PageSession, error)
