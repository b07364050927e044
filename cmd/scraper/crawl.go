package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-shopscraper/internal/crawler"
	"go-shopscraper/internal/crawler/engine"
	"go-shopscraper/internal/storage"
	"go-shopscraper/pkg/models"
)

func newCrawlCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "crawl <category-url>",
		Short: "Scrape every product of a category into the configured sinks.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			m, err := a.sessionManager()
			if err != nil {
				return err
			}
			links, err := a.categoryLinks(ctx, m, args[0])
			if err != nil {
				return err
			}

			sink, closeSinks, err := a.buildSinks(ctx)
			if err != nil {
				return err
			}
			defer closeSinks()

			filters, err := a.buildFilters()
			if err != nil {
				return err
			}

			proc := &crawler.ProductProcessor{
				Scraper: crawler.NewProductScraper(openFunc(m), a.cfg.Scrape, a.cfg.Markers, a.logger),
			}
			eng := engine.NewEngine[models.Product](engine.Config{
				Workers:       a.cfg.Engine.Workers,
				BatchSize:     a.cfg.Engine.BatchSize,
				FlushInterval: a.cfg.Engine.FlushInterval,
			}, proc, sink, a.logger, filters...)

			stats, err := eng.Run(ctx, links...)
			fmt.Fprintf(cmd.OutOrStdout(), "processed=%d skipped=%d failed=%d saved=%d\n",
				stats.Processed, stats.Skipped, stats.Failed, stats.Saved)
			return err
		},
	}
}

func (a *app) buildFilters() ([]engine.URLFilter, error) {
	domain, err := crawler.NewInDomainFilter(a.cfg.Markers.BaseURL)
	if err != nil {
		return nil, err
	}
	filters := []engine.URLFilter{domain}
	if a.cfg.Scrape.RespectRobots {
		filters = append(filters, crawler.NewRobotsGate(a.cfg.Scrape.UserAgent, nil, a.logger))
	}
	return filters, nil
}

// buildSinks always writes JSON files and adds Postgres and AMQP when their
// URLs are configured. The returned func releases their connections.
func (a *app) buildSinks(ctx context.Context) (storage.Sink, func(), error) {
	st := a.cfg.Storage
	sinks := storage.MultiSink{storage.NewJSONSink(st.OutputDir, a.logger)}
	var closers []io.Closer
	closeAll := func() {
		for _, c := range closers {
			if err := c.Close(); err != nil {
				a.logger.Warn("Failed to close sink", zap.Error(err))
			}
		}
	}

	if st.DatabaseURL != "" {
		db, err := storage.Connect(ctx, st.DatabaseURL, 10, 2*time.Second, a.logger)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, db)
		pg := storage.NewPostgresSink(db, a.logger)
		if err := pg.EnsureSchema(ctx); err != nil {
			closeAll()
			return nil, nil, err
		}
		sinks = append(sinks, pg)
	}

	if st.AMQPURL != "" {
		conn, ch, err := storage.DialAMQP(st.AMQPURL, st.AMQPQueue)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		closers = append(closers, ch, conn)
		sinks = append(sinks, storage.NewAMQPSink(ch, st.AMQPQueue, a.logger))
	}

	if len(sinks) == 1 {
		return sinks[0], closeAll, nil
	}
	return sinks, closeAll, nil
}
