package crawler

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/cdp"
)

// fakePage is a scripted Page. Classes listed in missing never render.
type fakePage struct {
	height    int64
	heightErr error
	missing   map[string]bool
	html      string
	htmlFn    func() string
	thumbs    []cdp.NodeID

	navigated []string
	waited    []string
	scrolls   []int64
	hovered   []cdp.NodeID
	closed    int
}

func (f *fakePage) Navigate(_ context.Context, url string) error {
	f.navigated = append(f.navigated, url)
	return nil
}

func (f *fakePage) WaitForClass(_ context.Context, class string, _ time.Duration) (bool, error) {
	f.waited = append(f.waited, class)
	return !f.missing[class], nil
}

func (f *fakePage) ScrollHeight(context.Context) (int64, error) {
	return f.height, f.heightErr
}

func (f *fakePage) ScrollTo(_ context.Context, y int64) error {
	f.scrolls = append(f.scrolls, y)
	return nil
}

func (f *fakePage) HTML(context.Context) (string, error) {
	if f.htmlFn != nil {
		return f.htmlFn(), nil
	}
	return f.html, nil
}

func (f *fakePage) QueryAll(context.Context, string) ([]cdp.NodeID, error) {
	return append([]cdp.NodeID(nil), f.thumbs...), nil
}

func (f *fakePage) Hover(_ context.Context, id cdp.NodeID) error {
	f.hovered = append(f.hovered, id)
	return nil
}

func (f *fakePage) Close() error {
	f.closed++
	return nil
}
