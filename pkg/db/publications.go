package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Publication is a Notion page created for a URL.
type Publication struct {
	PublicationID int64
	URLID         int64
	URL           string
	PageID        string
	Title         string
	ContentHash   string
	Tags          []string
	BlockCount    int
	PublishedAt   time.Time
}

// RecordPublication stores p for the URL it names, inserting the URL first
// when needed. It returns the publication_id.
func (db *DB) RecordPublication(p Publication) (int64, error) {
	urlID, err := db.InsertURL(p.URL)
	if err != nil {
		return 0, err
	}

	tags, err := json.Marshal(p.Tags)
	if err != nil {
		return 0, fmt.Errorf("failed to encode tags: %w", err)
	}

	result, err := db.Exec(`
		INSERT INTO publications (url_id, page_id, title, content_hash, tags, block_count)
		VALUES (?, ?, ?, ?, ?, ?)
	`, urlID, p.PageID, p.Title, p.ContentHash, string(tags), p.BlockCount)
	if err != nil {
		return 0, fmt.Errorf("failed to insert publication: %w", err)
	}
	return result.LastInsertId()
}

// HasPublished reports whether a page was already created for rawURL.
func (db *DB) HasPublished(rawURL string) (bool, error) {
	var n int
	err := db.QueryRow(`
		SELECT COUNT(*)
		FROM publications p
		JOIN urls u ON u.url_id = p.url_id
		WHERE u.original_url = ?
	`, rawURL).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check publications: %w", err)
	}
	return n > 0, nil
}

// ListPublications returns the newest publications first. limit <= 0 lists all.
func (db *DB) ListPublications(limit int) ([]Publication, error) {
	query := `
		SELECT p.publication_id, p.url_id, u.original_url, p.page_id, p.title, p.content_hash,
		       p.tags, p.block_count, p.published_at
		FROM publications p
		JOIN urls u ON u.url_id = p.url_id
		ORDER BY p.published_at DESC, p.publication_id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list publications: %w", err)
	}
	defer rows.Close()

	var pubs []Publication
	for rows.Next() {
		var p Publication
		var title, tags sql.NullString
		if err := rows.Scan(&p.PublicationID, &p.URLID, &p.URL, &p.PageID, &title, &p.ContentHash,
			&tags, &p.BlockCount, &p.PublishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan publication: %w", err)
		}
		p.Title = title.String
		if tags.Valid && tags.String != "" {
			if err := json.Unmarshal([]byte(tags.String), &p.Tags); err != nil {
				return nil, fmt.Errorf("failed to decode tags: %w", err)
			}
		}
		pubs = append(pubs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read publications: %w", err)
	}
	return pubs, nil
}
