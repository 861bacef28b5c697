package fetcher

import (
	"context"
	"fmt"
	"os"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// RodFetcher loads a page in headless Chrome and returns the DOM after the
// load event, for pages that build their content with scripts.
// The response status is not checked; a page that loads is a page that fetched.
type RodFetcher struct {
	bin string
}

// NewRodFetcher honours ROD_BROWSER_BIN for a pre-installed browser.
func NewRodFetcher() *RodFetcher {
	return &RodFetcher{bin: os.Getenv("ROD_BROWSER_BIN")}
}

func (r *RodFetcher) GetHTMLBytes(ctx context.Context, url string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	l := launcher.New().Headless(true)
	if r.bin != "" {
		l = l.Bin(r.bin).NoSandbox(true)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to launch browser: %v", ErrFetch, err)
	}
	defer l.Kill()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("%w: failed to connect to browser: %v", ErrFetch, err)
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open page: %v", ErrFetch, err)
	}
	defer page.Close()

	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: failed to load page: %v", ErrFetch, err)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read page HTML: %v", ErrFetch, err)
	}
	return []byte(html), nil
}
