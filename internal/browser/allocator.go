package browser

import (
	"github.com/chromedp/chromedp"

	"go-shopscraper/internal/config"
)

// AllocatorOptions builds the Chrome flags for one session.
func AllocatorOptions(cfg config.BrowserConfig, execPath string) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.WindowSize(cfg.WindowWidth, cfg.WindowHeight),
	)

	if cfg.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	if cfg.Maximised {
		opts = append(opts, chromedp.Flag("start-maximised", true))
	}
	if cfg.Incognito {
		opts = append(opts, chromedp.Flag("incognito", true))
	}
	if execPath != "" {
		opts = append(opts, chromedp.ExecPath(execPath))
	}
	return opts
}
