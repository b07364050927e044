package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v4/stdlib" // Import the driver
	"go.uber.org/zap"

	"go-shopscraper/pkg/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS products (
	url         TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL,
	price       TEXT NOT NULL,
	image       TEXT NOT NULL,
	quantity    TEXT NOT NULL,
	category    TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL
)`

const upsertProduct = `
INSERT INTO products (url, name, description, price, image, quantity, category, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (url) DO UPDATE SET
	name = EXCLUDED.name,
	description = EXCLUDED.description,
	price = EXCLUDED.price,
	image = EXCLUDED.image,
	quantity = EXCLUDED.quantity,
	category = EXCLUDED.category,
	created_at = EXCLUDED.created_at`

// Connect opens the database and pings it until it answers or attempts run out.
func Connect(ctx context.Context, url string, attempts int, delay time.Duration, logger *zap.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	for i := 1; ; i++ {
		if err = db.PingContext(ctx); err == nil {
			logger.Info("Connected to database")
			return db, nil
		}
		if i >= attempts {
			break
		}
		logger.Warn("Waiting for database", zap.Int("attempt", i), zap.Error(err))

		select {
		case <-ctx.Done():
			db.Close()
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	db.Close()
	return nil, fmt.Errorf("could not connect to database after %d attempts: %w", attempts, err)
}

// PostgresSink upserts products keyed by URL.
type PostgresSink struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresSink(db *sql.DB, logger *zap.Logger) *PostgresSink {
	return &PostgresSink{db: db, logger: logger.Named("postgres_sink")}
}

func (s *PostgresSink) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create products table: %w", err)
	}
	return nil
}

func (s *PostgresSink) Save(ctx context.Context, batch []models.Product) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertProduct)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range batch {
		_, err := stmt.ExecContext(ctx,
			p.URL,
			p.Name,
			p.Description,
			p.Price,
			p.Image,
			p.Quantity,
			p.Category,
			p.CreatedAt,
		)
		// A failed statement aborts the whole transaction.
		if err != nil {
			return fmt.Errorf("save product %s: %w", p.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.logger.Debug("Saved products", zap.Int("count", len(batch)))
	return nil
}
