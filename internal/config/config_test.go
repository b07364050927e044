package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 1920, cfg.Browser.WindowWidth)
	assert.Equal(t, 1080, cfg.Browser.WindowHeight)
	assert.True(t, cfg.Browser.NoSandbox)
	assert.True(t, cfg.Browser.Maximised)
	assert.True(t, cfg.Browser.Incognito)
	assert.Equal(t, "web_drivers", cfg.Browser.DriverDir)

	assert.Equal(t, 10*time.Second, cfg.Scrape.WaitTimeout)
	assert.Equal(t, int64(1000), cfg.Scrape.ScrollStep)
	assert.Equal(t, 3*time.Second, cfg.Scrape.ScrollDelay)
	assert.Equal(t, 60, cfg.Scrape.MaxScrollSteps)
	assert.False(t, cfg.Scrape.IncludeCategory)

	assert.Equal(t, "https://shopee.ph", cfg.Markers.BaseURL)
	assert.Equal(t, "carousel-arrow", cfg.Markers.Carousel)
	assert.Equal(t, "qaNIZv", cfg.Markers.Name)
	assert.Equal(t, "_2JMB9h", cfg.Markers.Preview)

	assert.Equal(t, 1, cfg.Engine.Workers)
	assert.Empty(t, cfg.Storage.DatabaseURL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SCRAPE_WAIT_TIMEOUT", "250ms")
	t.Setenv("SCRAPE_INCLUDE_CATEGORY", "true")
	t.Setenv("MARKER_PRICE", "price-tag")
	t.Setenv("WORKERS", "4")
	t.Setenv("DB_URL", "postgres://localhost/products")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.Scrape.WaitTimeout)
	assert.True(t, cfg.Scrape.IncludeCategory)
	assert.Equal(t, "price-tag", cfg.Markers.Price)
	assert.Equal(t, 4, cfg.Engine.Workers)
	assert.Equal(t, "postgres://localhost/products", cfg.Storage.DatabaseURL)
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("WORKERS", "many")

	_, err := Load()
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	assert.Equal(t, "products", cfg.Storage.AMQPQueue)

	t.Setenv("BATCH_SIZE", "lots")
	_, err = Default()
	assert.Error(t, err)
}
