package crawler

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"go-shopscraper/internal/config"
)

// ImageFinder hovers a product's thumbnails until the full-size preview shows.
//
// Each round hovers every thumbnail still in the working set, then checks the
// page for the preview. When it is missing the last thumbnail is dropped and
// the round repeats, so the final hover of each round moves one step along
// the gallery.
type ImageFinder struct {
	markers config.MarkerConfig
	parser  *Parser
	logger  *zap.Logger
}

func NewImageFinder(markers config.MarkerConfig, logger *zap.Logger) *ImageFinder {
	return &ImageFinder{
		markers: markers,
		parser:  NewParser(markers),
		logger:  logger.Named("image"),
	}
}

// Find returns the preview image URL, or a StatusNotFound result once every
// thumbnail has been dropped without the preview appearing.
func (f *ImageFinder) Find(ctx context.Context, page Page) (Result[string], error) {
	thumbs, err := page.QueryAll(ctx, f.markers.Thumbnail)
	if err != nil {
		return Result[string]{}, fmt.Errorf("query thumbnails: %w", err)
	}
	if len(thumbs) != 1 {
		slices.Reverse(thumbs)
	}

	for rounds := 1; len(thumbs) > 0; rounds++ {
		for _, id := range thumbs {
			if err := page.Hover(ctx, id); err != nil {
				return Result[string]{}, fmt.Errorf("hover thumbnail: %w", err)
			}
		}

		source, err := page.HTML(ctx)
		if err != nil {
			return Result[string]{}, fmt.Errorf("read page source: %w", err)
		}
		url, found, err := f.parser.PreviewImage(source)
		if err != nil {
			return Result[string]{}, err
		}
		if found {
			f.logger.Debug("Preview image found", zap.Int("rounds", rounds), zap.String("image", url))
			return Found(url), nil
		}
		thumbs = thumbs[:len(thumbs)-1]
	}

	return NotFound[string](f.markers.Preview), nil
}
