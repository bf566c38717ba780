package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Fixed-width so that published_at sorts chronologically as text.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

type SQLitePublicationRepository struct {
	db *DB
}

func NewPublicationRepository(db *DB) *SQLitePublicationRepository {
	return &SQLitePublicationRepository{db: db}
}

// FindPublication returns nil, nil when the article version was never
// published to platform.
func (r *SQLitePublicationRepository) FindPublication(articlePath, platform, contentHash string) (*Publication, error) {
	row := r.db.QueryRow(`
		SELECT id, article_path, platform, content_hash, title, url, remote_id, published_at
		FROM publications
		WHERE article_path = ? AND platform = ? AND content_hash = ?
		LIMIT 1
	`, articlePath, platform, contentHash)

	p, err := scanPublication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find publication: %w", err)
	}
	return p, nil
}

// RecordPublication stores p and returns its id. Publishing the same article
// version to the same platform again updates the existing record.
func (r *SQLitePublicationRepository) RecordPublication(p Publication) (string, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.PublishedAt.IsZero() {
		p.PublishedAt = time.Now()
	}

	var id string
	err := r.db.QueryRow(`
		INSERT INTO publications (
			id, article_path, platform, content_hash, title, url, remote_id, published_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (article_path, platform, content_hash) DO UPDATE SET
			title = excluded.title,
			url = excluded.url,
			remote_id = excluded.remote_id,
			published_at = excluded.published_at
		RETURNING id
	`, p.ID, p.ArticlePath, p.Platform, p.ContentHash, p.Title, p.URL, p.RemoteID,
		p.PublishedAt.UTC().Format(timeFormat)).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to record publication: %w", err)
	}

	return id, nil
}

// ListPublications returns the most recent publications first.
func (r *SQLitePublicationRepository) ListPublications(limit int) ([]Publication, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(`
		SELECT id, article_path, platform, content_hash, title, url, remote_id, published_at
		FROM publications
		ORDER BY published_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list publications: %w", err)
	}
	defer rows.Close()

	publications := []Publication{}
	for rows.Next() {
		p, err := scanPublication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan publication: %w", err)
		}
		publications = append(publications, *p)
	}

	return publications, rows.Err()
}

func (r *SQLitePublicationRepository) GetPublicationCount() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM publications`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count publications: %w", err)
	}
	return count, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPublication(s scanner) (*Publication, error) {
	var p Publication
	var publishedAt string
	if err := s.Scan(&p.ID, &p.ArticlePath, &p.Platform, &p.ContentHash, &p.Title,
		&p.URL, &p.RemoteID, &publishedAt); err != nil {
		return nil, err
	}

	t, err := time.Parse(timeFormat, publishedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid published_at %q: %w", publishedAt, err)
	}
	p.PublishedAt = t
	return &p, nil
}
