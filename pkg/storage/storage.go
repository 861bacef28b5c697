// Package storage writes pipeline output to disk.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrWrite is returned when the output cannot be serialized or written.
var ErrWrite = errors.New("output write failed")

type Storage struct{}

func (s *Storage) SaveFile(filePath string, content []byte) error {
	if dir := filepath.Dir(filePath); dir != "" {
		if _, err := os.Stat(dir); err != nil {
			return fmt.Errorf("%w: output directory: %w", ErrWrite, err)
		}
	}
	if err := os.WriteFile(filePath, content, 0644); err != nil {
		return fmt.Errorf("%w: error saving file: %w", ErrWrite, err)
	}
	return nil
}

// WriteJSON serializes v with two-space indentation and overwrites filePath.
func (s *Storage) WriteJSON(filePath string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: error encoding JSON: %w", ErrWrite, err)
	}
	return s.SaveFile(filePath, data)
}
