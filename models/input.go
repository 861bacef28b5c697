package models

import (
	"path/filepath"
	"strings"
)

// InputKind tells the loader where a document comes from.
type InputKind int

const (
	InputFile InputKind = iota
	InputURL
)

func (k InputKind) String() string {
	if k == InputURL {
		return "url"
	}
	return "file"
}

// RawInput is the positional input argument after classification.
type RawInput struct {
	Kind  InputKind
	Value string
}

// ClassifyInput routes anything starting with "http" to the network loader.
// The check is a plain case-sensitive prefix match, so a relative path that
// literally begins with "http" is treated as a URL.
func ClassifyInput(s string) RawInput {
	if strings.HasPrefix(s, "http") {
		return RawInput{Kind: InputURL, Value: s}
	}
	return RawInput{Kind: InputFile, Value: s}
}

// DocumentFormat is the markup of a loaded document.
type DocumentFormat string

const (
	FormatHTML     DocumentFormat = "html"
	FormatMarkdown DocumentFormat = "markdown"
)

var markdownExtensions = map[string]struct{}{
	".md": {}, ".markdown": {}, ".mdown": {}, ".mkd": {}, ".mkdn": {},
}

// FormatForPath guesses the document format from a file extension.
func FormatForPath(path string) DocumentFormat {
	if _, ok := markdownExtensions[strings.ToLower(filepath.Ext(path))]; ok {
		return FormatMarkdown
	}
	return FormatHTML
}

// RawDocument is the unprocessed text handed from the loader to the rest of
// the pipeline.
type RawDocument struct {
	Text    string
	Format  DocumentFormat
	Source  string
	BaseURL string // empty for local files
}
