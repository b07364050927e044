package storage

import (
	"context"
	"errors"

	"go-shopscraper/pkg/models"
)

// Sink is satisfied by every sink in this package.
type Sink interface {
	Save(ctx context.Context, batch []models.Product) error
}

// MultiSink hands each batch to every sink in turn and joins their errors.
type MultiSink []Sink

func (m MultiSink) Save(ctx context.Context, batch []models.Product) error {
	var errs []error
	for _, s := range m {
		if err := s.Save(ctx, batch); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
