package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Browser BrowserConfig
	Scrape  ScrapeConfig
	Markers MarkerConfig
	Engine  EngineConfig
	Storage StorageConfig
	Logger  LoggerConfig
}

// BrowserConfig describes how a browser session is launched.
type BrowserConfig struct {
	WindowWidth  int  `envconfig:"BROWSER_WINDOW_WIDTH" default:"1920"`
	WindowHeight int  `envconfig:"BROWSER_WINDOW_HEIGHT" default:"1080"`
	NoSandbox    bool `envconfig:"BROWSER_NO_SANDBOX" default:"true"`
	Maximised    bool `envconfig:"BROWSER_START_MAXIMISED" default:"true"`
	Incognito    bool `envconfig:"BROWSER_INCOGNITO" default:"true"`
	Headless     bool `envconfig:"BROWSER_HEADLESS" default:"true"`

	// DriverDir is relative to the working directory.
	DriverDir  string `envconfig:"BROWSER_DRIVER_DIR" default:"web_drivers"`
	DriverName string `envconfig:"BROWSER_DRIVER_NAME" default:"chrome"`

	// SystemHost is the hostname that uses the system-installed browser.
	SystemHost string `envconfig:"BROWSER_SYSTEM_HOST" default:"raspberrypi"`
}

type ScrapeConfig struct {
	WaitTimeout    time.Duration `envconfig:"SCRAPE_WAIT_TIMEOUT" default:"10s"`
	ScrollStep     int64         `envconfig:"SCRAPE_SCROLL_STEP" default:"1000"`
	ScrollDelay    time.Duration `envconfig:"SCRAPE_SCROLL_DELAY" default:"3s"`
	MaxScrollSteps int           `envconfig:"SCRAPE_MAX_SCROLL_STEPS" default:"60"`

	// IncludeCategory turns on the category field of a product record.
	// The parser skips the category entirely unless it is set.
	IncludeCategory bool `envconfig:"SCRAPE_INCLUDE_CATEGORY" default:"false"`

	RespectRobots bool   `envconfig:"RESPECT_ROBOTS" default:"false"`
	UserAgent     string `envconfig:"USER_AGENT" default:"ShopScraper/1.0"`
}

// MarkerConfig holds the class names and attributes the site renders.
type MarkerConfig struct {
	BaseURL        string `envconfig:"SITE_BASE_URL" default:"https://shopee.ph"`
	CurrencySymbol string `envconfig:"SITE_CURRENCY_SYMBOL" default:"₱"`

	Carousel    string `envconfig:"MARKER_CAROUSEL" default:"carousel-arrow"`
	LinkAttr    string `envconfig:"MARKER_LINK_ATTR" default:"data-sqe"`
	LinkValue   string `envconfig:"MARKER_LINK_VALUE" default:"link"`
	Name        string `envconfig:"MARKER_NAME" default:"qaNIZv"`
	Category    string `envconfig:"MARKER_CATEGORY" default:"JFOy4z"`
	Price       string `envconfig:"MARKER_PRICE" default:"_3n5NQx"`
	Description string `envconfig:"MARKER_DESCRIPTION" default:"_2u0jt9"`
	Thumbnail   string `envconfig:"MARKER_THUMBNAIL" default:"ZPN9uD"`
	Preview     string `envconfig:"MARKER_PREVIEW" default:"_2JMB9h"`
	StockText   string `envconfig:"MARKER_STOCK_TEXT" default:"piece available"`
}

type EngineConfig struct {
	// Workers defaults to 1 so product pages are visited one at a time.
	Workers       int           `envconfig:"WORKERS" default:"1"`
	BatchSize     int           `envconfig:"BATCH_SIZE" default:"20"`
	FlushInterval time.Duration `envconfig:"FLUSH_INTERVAL" default:"2s"`
}

type StorageConfig struct {
	OutputDir string `envconfig:"OUTPUT_DIR" default:"output_data"`

	// DatabaseURL and AMQPURL are optional; empty disables that sink.
	DatabaseURL string `envconfig:"DB_URL"`
	AMQPURL     string `envconfig:"AMQP_SERVER_URL"`
	AMQPQueue   string `envconfig:"AMQP_QUEUE" default:"products"`
}

type LoggerConfig struct {
	ServiceName string `envconfig:"LOG_SERVICE_NAME" default:"shopscraper"`
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Format      string `envconfig:"LOG_FORMAT" default:"console"`
	AddSource   bool   `envconfig:"LOG_ADD_SOURCE" default:"false"`

	LogFile    string `envconfig:"LOG_FILE"`
	MaxSize    int    `envconfig:"LOG_MAX_SIZE" default:"10"`
	MaxBackups int    `envconfig:"LOG_MAX_BACKUPS" default:"3"`
	MaxAge     int    `envconfig:"LOG_MAX_AGE" default:"28"`
	Compress   bool   `envconfig:"LOG_COMPRESS" default:"true"`
}

// Load processes environment variables and populates the Config struct.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil {
		if _, statErr := os.Stat(".env"); statErr == nil {
			log.Printf("Warning: .env file found but could not be loaded: %v", err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration with every default applied. Environment
// variables still take precedence, as in Load, but no .env file is read.
func Default() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
