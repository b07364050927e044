package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"go-shopscraper/internal/config"
	"go-shopscraper/internal/storage"
)

func TestApplyFlags(t *testing.T) {
	a := &app{}
	root := newRootCmd(a)
	require.NoError(t, root.ParseFlags([]string{"--workers", "4", "--output", "/tmp/out"}))

	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Logger.Level = "warn"
	applyFlags(root, cfg, options{workers: 4, output: "/tmp/out", logLevel: "debug"})

	assert.Equal(t, 4, cfg.Engine.Workers)
	assert.Equal(t, "/tmp/out", cfg.Storage.OutputDir)
	assert.Equal(t, "warn", cfg.Logger.Level, "unset flags leave config alone")
}

func TestArgsValidation(t *testing.T) {
	tests := [][]string{
		{"category"},
		{"category", "a", "b"},
		{"product"},
		{"crawl"},
	}
	for _, args := range tests {
		root := newRootCmd(&app{})
		root.SetArgs(args)
		root.SetOut(&bytes.Buffer{})
		root.SetErr(&bytes.Buffer{})
		assert.Error(t, root.ExecuteContext(context.Background()), "%v", args)
	}
}

func TestBuildSinks_JSONOnly(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Storage.OutputDir = t.TempDir()
	cfg.Storage.DatabaseURL = ""
	cfg.Storage.AMQPURL = ""
	a := &app{cfg: cfg, logger: zaptest.NewLogger(t)}

	sink, closeSinks, err := a.buildSinks(context.Background())
	require.NoError(t, err)
	defer closeSinks()
	assert.IsType(t, &storage.JSONSink{}, sink)
}

func TestBuildFilters(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)
	a := &app{cfg: cfg, logger: zaptest.NewLogger(t)}

	cfg.Scrape.RespectRobots = false
	filters, err := a.buildFilters()
	require.NoError(t, err)
	assert.Len(t, filters, 1)

	cfg.Scrape.RespectRobots = true
	filters, err = a.buildFilters()
	require.NoError(t, err)
	assert.Len(t, filters, 2)
}

func TestPrintLines(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printLines(&buf, []string{"https://shopee.ph/a", "https://shopee.ph/b"}))
	assert.Equal(t, "https://shopee.ph/a\nhttps://shopee.ph/b\n", buf.String())
}
