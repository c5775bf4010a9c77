package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"verduleria/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Service wraps the process-wide Postgres connection pool. It is opened
// once at startup and closed on interrupt.
type Service struct {
	db *sql.DB
}

// New opens a connection pool from the configured DATABASE_URL. When
// DATABASE_NAME is set it overrides the database in the URL path.
func New(cfg config.DatabaseConfig) (*Service, error) {
	dsn := cfg.URL
	if cfg.Name != "" {
		u, err := url.Parse(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid DATABASE_URL: %w", err)
		}
		u.Path = "/" + cfg.Name
		dsn = u.String()
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Service{db: db}, nil
}

// DB exposes the underlying pool for repositories and migrations.
func (s *Service) DB() *sql.DB {
	return s.db
}

// Health reports pool statistics for the startup health check.
func (s *Service) Health() map[string]string {
	stats := s.db.Stats()
	return map[string]string{
		"status":           "up",
		"open_connections": strconv.Itoa(stats.OpenConnections),
		"in_use":           strconv.Itoa(stats.InUse),
		"idle":             strconv.Itoa(stats.Idle),
	}
}

func (s *Service) Close() error {
	return s.db.Close()
}
