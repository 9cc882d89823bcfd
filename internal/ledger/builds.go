package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/starford/syllabus/internal/apperr"
)

const buildColumns = `id, started_at, duration_ms, status, hash, subjects, teachers, articles, system_articles, problems, published`

// Record inserts a build row. An empty ID is replaced with a new UUID and a
// zero StartedAt with the current time. The stored row is returned.
func (db *DB) Record(ctx context.Context, b Build) (Build, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.StartedAt.IsZero() {
		b.StartedAt = time.Now()
	}
	b.StartedAt = b.StartedAt.UTC()

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO builds (`+buildColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, b.ID, b.StartedAt, b.DurationMS(), string(b.Status), b.Hash,
		b.Subjects, b.Teachers, b.Articles, b.SystemArticles, b.Problems, b.Published)
	if err != nil {
		return Build{}, fmt.Errorf("ledger: record build: %w", err)
	}
	return b, nil
}

// MarkPublished flags a recorded build as published.
func (db *DB) MarkPublished(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `UPDATE builds SET published = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("ledger: mark published: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ledger: mark published: %w", err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// Get returns one build by ID.
func (db *DB) Get(ctx context.Context, id string) (*Build, error) {
	row := db.conn.QueryRowContext(ctx, `SELECT `+buildColumns+` FROM builds WHERE id = ?`, id)
	b, err := scanBuild(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ledger: get build: %w", err)
	}
	return &b, nil
}

// Recent returns up to limit builds, newest first.
func (db *DB) Recent(ctx context.Context, limit int) ([]Build, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+buildColumns+` FROM builds ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("ledger: recent builds: %w", err)
	}
	defer rows.Close()

	out := []Build{}
	for rows.Next() {
		b, err := scanBuild(rows)
		if err != nil {
			return nil, fmt.Errorf("ledger: scan build: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBuild(s scanner) (Build, error) {
	var (
		b      Build
		status string
		ms     int64
	)
	err := s.Scan(&b.ID, &b.StartedAt, &ms, &status, &b.Hash,
		&b.Subjects, &b.Teachers, &b.Articles, &b.SystemArticles, &b.Problems, &b.Published)
	if err != nil {
		return Build{}, err
	}
	b.Status = Status(status)
	b.Duration = time.Duration(ms) * time.Millisecond
	return b, nil
}
