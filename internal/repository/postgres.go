package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// LogStore persists search and feedback events to PostgreSQL. A nil store is
// valid and drops everything, so the service runs without a database
// configured.
type LogStore struct {
	db *sqlx.DB
}

// NewLogStore creates a new PostgreSQL-backed log store
func NewLogStore(dsn string, maxConn, maxIdleConn int) (*LogStore, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &LogStore{db: db}, nil
}

// Close closes the database connection
func (s *LogStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// LogSearch records one answered query. The statement is stored only for
// queries that passed validation; rejected statements are never persisted.
func (s *LogStore) LogSearch(ctx context.Context, searchID, sessionID, question, statement string, resultCount, responseTimeMs int) error {
	if s == nil || s.db == nil {
		return nil
	}
	query := `
		INSERT INTO search_logs (search_id, session_id, question, statement, result_count, response_time_ms)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query, searchID, sessionID, question, statement, resultCount, responseTimeMs)
	if err != nil {
		return fmt.Errorf("failed to log search: %w", err)
	}
	return nil
}

// LogFailure records a failed query without its generated statement
func (s *LogStore) LogFailure(ctx context.Context, sessionID, question, kind string) error {
	if s == nil || s.db == nil {
		return nil
	}
	query := `
		INSERT INTO search_logs (session_id, question, failure_kind, result_count, response_time_ms)
		VALUES ($1, $2, $3, 0, 0)
	`
	_, err := s.db.ExecContext(ctx, query, sessionID, question, kind)
	if err != nil {
		return fmt.Errorf("failed to log failure: %w", err)
	}
	return nil
}

// LogFeedback records a user action against an answered search
func (s *LogStore) LogFeedback(ctx context.Context, searchID, placeID, action string) error {
	if s == nil || s.db == nil {
		return nil
	}
	query := `
		UPDATE search_logs
		SET clicked_place_id = $2, action = $3
		WHERE search_id = $1
	`
	_, err := s.db.ExecContext(ctx, query, searchID, placeID, action)
	if err != nil {
		return fmt.Errorf("failed to log feedback: %w", err)
	}
	return nil
}
