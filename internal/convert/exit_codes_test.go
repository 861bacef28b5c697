package convert

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dtnitsch/web-to-notion/models"
	"github.com/dtnitsch/web-to-notion/pkg/fetcher"
	"github.com/dtnitsch/web-to-notion/pkg/frontmatter"
	"github.com/dtnitsch/web-to-notion/pkg/loader"
	"github.com/dtnitsch/web-to-notion/pkg/markdown"
	"github.com/dtnitsch/web-to-notion/pkg/notion"
	"github.com/dtnitsch/web-to-notion/pkg/parser"
	"github.com/dtnitsch/web-to-notion/pkg/storage"
)

func TestExitCodeFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, ExitSuccess},

		{"usage", models.ErrUsage, ExitUsage},
		{"wrapped usage", fmt.Errorf("%w: missing <input>", models.ErrUsage), ExitUsage},

		{"fetch", fetcher.ErrFetch, ExitFetch},
		{"wrapped status", fmt.Errorf("%w: %w", fetcher.ErrFetch, &fetcher.StatusError{StatusCode: 404}), ExitFetch},

		{"file read", loader.ErrFileRead, ExitIO},
		{"write", storage.ErrWrite, ExitIO},
		{"file not exist", os.ErrNotExist, ExitIO},
		{"permission denied", os.ErrPermission, ExitIO},

		{"extraction empty", parser.ErrExtractionEmpty, ExitConversion},
		{"markdown", markdown.ErrConversion, ExitConversion},
		{"front matter", frontmatter.ErrParse, ExitConversion},
		{"blocks", notion.ErrConversion, ExitConversion},
		{"invalid image", notion.ErrInvalidImageURL, ExitConversion},

		{"unknown", errors.New("boom"), ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ExitCodeFor(tt.err))
		})
	}
}

func TestExitCodeConstants(t *testing.T) {
	codes := []int{ExitSuccess, ExitGeneral, ExitUsage, ExitIO, ExitFetch, ExitConversion}
	seen := map[int]bool{}
	for _, c := range codes {
		assert.Less(t, c, 126)
		assert.False(t, seen[c], "duplicate exit code %d", c)
		seen[c] = true
	}
}
