package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"
)

// InsertURL parses and inserts a URL, returning the url_id.
// If the URL already exists, returns the existing url_id.
func (db *DB) InsertURL(rawURL string) (int64, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return 0, fmt.Errorf("failed to parse URL: %w", err)
	}

	existingID, err := db.GetURLID(rawURL)
	if err == nil {
		return existingID, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return 0, err
	}

	// scheme + host + path, no query/fragment
	canonicalURL := fmt.Sprintf("%s://%s%s", parsed.Scheme, parsed.Host, parsed.Path)

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.Exec(`
		INSERT INTO urls (original_url, canonical_url, scheme, domain, path, fragment)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rawURL, canonicalURL, parsed.Scheme, parsed.Host, parsed.Path, parsed.Fragment)
	if err != nil {
		return 0, fmt.Errorf("failed to insert URL: %w", err)
	}

	urlID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get URL ID: %w", err)
	}

	for key, values := range parsed.Query() {
		for _, value := range values {
			if _, err := tx.Exec(`
				INSERT INTO url_query_params (url_id, key, value)
				VALUES (?, ?, ?)
			`, urlID, key, value); err != nil {
				return 0, fmt.Errorf("failed to insert query param: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit URL: %w", err)
	}
	return urlID, nil
}

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("not found")

// GetURLID returns the url_id for a given original URL.
func (db *DB) GetURLID(originalURL string) (int64, error) {
	var urlID int64
	err := db.QueryRow("SELECT url_id FROM urls WHERE original_url = ?", originalURL).Scan(&urlID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("URL %s: %w", originalURL, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get URL ID: %w", err)
	}
	return urlID, nil
}

// SetTopKeywords stores the keyword counts of the last conversion of a URL.
func (db *DB) SetTopKeywords(urlID int64, keywords map[string]int) error {
	data, err := json.Marshal(keywords)
	if err != nil {
		return fmt.Errorf("failed to encode keywords: %w", err)
	}
	if _, err := db.Exec("UPDATE urls SET top_keywords = ? WHERE url_id = ?", string(data), urlID); err != nil {
		return fmt.Errorf("failed to set top keywords: %w", err)
	}
	return nil
}

// GetTopKeywords returns the stored keyword counts, or nil when none are set.
func (db *DB) GetTopKeywords(urlID int64) (map[string]int, error) {
	var raw sql.NullString
	err := db.QueryRow("SELECT top_keywords FROM urls WHERE url_id = ?", urlID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("URL id %d: %w", urlID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get top keywords: %w", err)
	}
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}

	var keywords map[string]int
	if err := json.Unmarshal([]byte(raw.String), &keywords); err != nil {
		return nil, fmt.Errorf("failed to decode keywords: %w", err)
	}
	return keywords, nil
}

// AccessRecord represents a URL access attempt.
type AccessRecord struct {
	AccessID   int64
	AccessedAt time.Time
	StatusCode int
	ErrorType  string
	Success    bool
}

// RecordAccess records a fetch attempt in url_accesses.
func (db *DB) RecordAccess(urlID int64, statusCode int, errorType string, success bool) error {
	_, err := db.Exec(`
		INSERT INTO url_accesses (url_id, status_code, error_type, success)
		VALUES (?, ?, ?, ?)
	`, urlID, statusCode, errorType, success)
	if err != nil {
		return fmt.Errorf("failed to record access: %w", err)
	}
	return nil
}

// GetLastAccess returns the most recent access record for a URL, or nil when
// it was never accessed.
func (db *DB) GetLastAccess(urlID int64) (*AccessRecord, error) {
	var record AccessRecord
	err := db.QueryRow(`
		SELECT access_id, accessed_at, status_code, error_type, success
		FROM url_accesses
		WHERE url_id = ?
		ORDER BY accessed_at DESC, access_id DESC
		LIMIT 1
	`, urlID).Scan(&record.AccessID, &record.AccessedAt, &record.StatusCode, &record.ErrorType, &record.Success)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last access: %w", err)
	}
	return &record, nil
}
