// Package frontmatter splits a leading metadata block off a Markdown document.
//
// A document carries front matter when its first line is exactly "---"
// (YAML) or "+++" (TOML). The block runs until the next line consisting of the
// same fence. Anything else leaves the document untouched.
package frontmatter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrParse is returned when a fenced block is not a valid mapping.
var ErrParse = errors.New("front matter parse failed")

// FrontMatter is the decoded metadata. It is never nil after Split.
type FrontMatter map[string]any

type format struct {
	fence     string
	unmarshal func([]byte, any) error
}

var formats = []format{
	{fence: "---", unmarshal: yaml.Unmarshal},
	{fence: "+++", unmarshal: toml.Unmarshal},
}

// Split returns the front matter and the remaining body. Without a complete
// fenced block at position zero the body is the input, byte for byte.
func Split(text string) (FrontMatter, string, error) {
	for _, f := range formats {
		raw, body, ok := cut(text, f.fence)
		if !ok {
			continue
		}
		values := map[string]any{}
		if strings.TrimSpace(raw) != "" {
			if err := f.unmarshal([]byte(raw), &values); err != nil {
				return nil, "", fmt.Errorf("%w: %v", ErrParse, err)
			}
		}
		if values == nil {
			values = map[string]any{}
		}
		for k, v := range values {
			values[k] = stringKeys(v)
		}
		return FrontMatter(values), strings.TrimSpace(body), nil
	}
	return FrontMatter{}, text, nil
}

// stringKeys rewrites nested mappings with non-string keys (YAML allows
// `1: x`) into map[string]any so the front matter stays JSON-encodable.
func stringKeys(v any) any {
	switch v := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[fmt.Sprint(k)] = stringKeys(val)
		}
		return out
	case map[string]any:
		for k, val := range v {
			v[k] = stringKeys(val)
		}
		return v
	case []any:
		for i, val := range v {
			v[i] = stringKeys(val)
		}
		return v
	}
	return v
}

// cut finds a block delimited by fence lines starting at the very first byte.
func cut(text, fence string) (raw, body string, ok bool) {
	first, rest, found := nextLine(text)
	if !found || first != fence {
		return "", "", false
	}

	offset := 0
	for {
		line, remaining, more := nextLine(rest[offset:])
		if line == fence {
			return rest[:offset], remaining, true
		}
		if !more {
			return "", "", false
		}
		offset = len(rest) - len(remaining)
	}
}

// nextLine splits off the first line (without its terminator). more is false
// when s has no line terminator left.
func nextLine(s string) (line, rest string, more bool) {
	i := strings.IndexByte(s, '\n')
	if i < 0 {
		return strings.TrimSuffix(s, "\r"), "", false
	}
	return strings.TrimSuffix(s[:i], "\r"), s[i+1:], true
}
