package crawler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"go-shopscraper/internal/config"
	"go-shopscraper/pkg/models"
)

// ProductScraper extracts one product record per page, each in a fresh session.
type ProductScraper struct {
	open            OpenFunc
	markers         config.MarkerConfig
	timeout         time.Duration
	includeCategory bool

	scroller *Scroller
	parser   *Parser
	images   *ImageFinder
	logger   *zap.Logger
	now      func() time.Time
}

func NewProductScraper(open OpenFunc, cfg config.ScrapeConfig, markers config.MarkerConfig, logger *zap.Logger) *ProductScraper {
	return &ProductScraper{
		open:            open,
		markers:         markers,
		timeout:         cfg.WaitTimeout,
		includeCategory: cfg.IncludeCategory,
		scroller:        NewScroller(cfg),
		parser:          NewParser(markers),
		images:          NewImageFinder(markers, logger),
		logger:          logger.Named("product"),
		now:             time.Now,
	}
}

// Scrape opens a session, extracts the product at url and closes the session
// before returning. A marker that never renders yields a StatusTimeout result
// and no record.
func (p *ProductScraper) Scrape(ctx context.Context, url string) (Result[models.Product], error) {
	session, err := p.open(ctx)
	if err != nil {
		return Result[models.Product]{}, fmt.Errorf("open session: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			p.logger.Warn("Failed to close session", zap.String("url", url), zap.Error(err))
		}
	}()

	return p.scrapePage(ctx, session, url)
}

func (p *ProductScraper) scrapePage(ctx context.Context, page Page, url string) (Result[models.Product], error) {
	if err := page.Navigate(ctx, url); err != nil {
		return Result[models.Product]{}, fmt.Errorf("navigate %s: %w", url, err)
	}

	if res, err := p.waitFor(ctx, page, url, p.markers.Name); err != nil || !res.OK() {
		return res, err
	}

	if _, err := p.scroller.ScrollDown(ctx, page); err != nil {
		return Result[models.Product]{}, err
	}

	// All three are awaited so a timeout names every missing marker.
	var missing []string
	for _, marker := range []string{p.markers.Category, p.markers.Price, p.markers.Description} {
		res, err := p.waitFor(ctx, page, url, marker)
		if err != nil {
			return res, err
		}
		if !res.OK() {
			missing = append(missing, marker)
		}
	}
	if len(missing) > 0 {
		return TimedOut[models.Product](strings.Join(missing, ",")), nil
	}

	source, err := page.HTML(ctx)
	if err != nil {
		return Result[models.Product]{}, fmt.Errorf("read page source: %w", err)
	}
	product, err := p.parser.ParseProduct(source, p.includeCategory)
	if err != nil {
		return Result[models.Product]{}, fmt.Errorf("parse %s: %w", url, err)
	}

	image, err := p.images.Find(ctx, page)
	if err != nil {
		return Result[models.Product]{}, err
	}
	if !image.OK() {
		p.logger.Info("No preview image", zap.String("url", url))
	}

	product.URL = url
	product.Image = image.Value
	product.CreatedAt = p.now()

	p.logger.Info("Scraped product", zap.String("url", url), zap.String("name", product.Name))
	return Found(product), nil
}

func (p *ProductScraper) waitFor(ctx context.Context, page Page, url, marker string) (Result[models.Product], error) {
	found, err := page.WaitForClass(ctx, marker, p.timeout)
	if err != nil {
		return Result[models.Product]{}, fmt.Errorf("wait for %s: %w", marker, err)
	}
	if !found {
		p.logger.Warn("Product page did not render",
			zap.String("url", url),
			zap.String("marker", marker),
			zap.Duration("timeout", p.timeout))
		return TimedOut[models.Product](marker), nil
	}
	return Found(models.Product{}), nil
}
