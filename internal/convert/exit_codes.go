package convert

import (
	"errors"
	"os"

	"github.com/dtnitsch/web-to-notion/models"
	"github.com/dtnitsch/web-to-notion/pkg/fetcher"
	"github.com/dtnitsch/web-to-notion/pkg/frontmatter"
	"github.com/dtnitsch/web-to-notion/pkg/loader"
	"github.com/dtnitsch/web-to-notion/pkg/markdown"
	"github.com/dtnitsch/web-to-notion/pkg/notion"
	"github.com/dtnitsch/web-to-notion/pkg/parser"
	"github.com/dtnitsch/web-to-notion/pkg/storage"
)

// Exit codes for the web-to-notion CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess    = 0 // Successful conversion
	ExitGeneral    = 1 // General/unexpected error
	ExitUsage      = 2 // Invalid arguments or flags
	ExitIO         = 3 // Input not readable, output not writable
	ExitFetch      = 4 // Network errors and non-2xx responses
	ExitConversion = 5 // Extraction, Markdown, front matter or block errors
)

// ExitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, models.ErrUsage) {
		return ExitUsage
	}

	if errors.Is(err, fetcher.ErrFetch) {
		return ExitFetch
	}

	if errors.Is(err, loader.ErrFileRead) ||
		errors.Is(err, storage.ErrWrite) ||
		errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) {
		return ExitIO
	}

	if errors.Is(err, parser.ErrExtractionEmpty) ||
		errors.Is(err, markdown.ErrConversion) ||
		errors.Is(err, frontmatter.ErrParse) ||
		errors.Is(err, notion.ErrConversion) {
		return ExitConversion
	}

	return ExitGeneral
}
