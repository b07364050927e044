package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"go-shopscraper/pkg/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONSink writes every batch to its own timestamped file under Dir.
type JSONSink struct {
	Dir    string
	logger *zap.Logger
	seq    atomic.Int64
	now    func() time.Time
}

func NewJSONSink(dir string, logger *zap.Logger) *JSONSink {
	return &JSONSink{Dir: dir, logger: logger.Named("json_sink"), now: time.Now}
}

func (s *JSONSink) Save(_ context.Context, batch []models.Product) error {
	if len(batch) == 0 {
		return nil
	}

	// Ensure output directory exists
	if err := os.MkdirAll(s.Dir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", s.Dir, err)
	}

	timestamp := s.now().Format("2006-01-02_15-04-05")
	fileName := fmt.Sprintf("products_%s_%03d.json", timestamp, s.seq.Add(1))
	filePath := filepath.Join(s.Dir, fileName)

	jsonData, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal products: %w", err)
	}

	if err := os.WriteFile(filePath, jsonData, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filePath, err)
	}

	s.logger.Info("Exported products",
		zap.String("file", filePath),
		zap.Int("count", len(batch)))
	return nil
}
