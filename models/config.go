// Package models defines data structures for configuration and the
// conversion pipeline.
package models

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrUsage marks invalid command-line arguments.
var ErrUsage = errors.New("invalid usage")

// ConvertArgs holds everything the convert command reads from the command
// line. It is built once at entry and validated before any stage runs.
type ConvertArgs struct {
	Input           string
	OutputPath      string
	Mode            OutputMode
	StrictImageURLs bool
	FailOnEmpty     bool
	Render          bool
	Timeout         time.Duration
}

// Validate checks the positional arguments and flag combinations.
func (a ConvertArgs) Validate() error {
	if strings.TrimSpace(a.Input) == "" {
		return fmt.Errorf("%w: missing <input> argument", ErrUsage)
	}
	if strings.TrimSpace(a.OutputPath) == "" {
		return fmt.Errorf("%w: missing <outputPath> argument", ErrUsage)
	}
	if _, ok := ParseOutputMode(string(a.Mode)); !ok {
		return fmt.Errorf("%w: unknown mode %q (want auto, blocks, document, full or article)", ErrUsage, a.Mode)
	}
	if a.Timeout < 0 {
		return fmt.Errorf("%w: timeout must not be negative", ErrUsage)
	}
	if a.Render && ClassifyInput(a.Input).Kind != InputURL {
		return fmt.Errorf("%w: --render needs a URL input", ErrUsage)
	}
	return nil
}

// DefaultCandidateLabels are the tag candidates used when the config file
// does not list any.
var DefaultCandidateLabels = []string{
	"natural language processing",
	"computer vision",
	"reinforcement learning",
	"artificial intelligence",
	"machine learning",
	"sql",
	"python",
	"javascript",
	"shell script",
	"aws",
	"google cloud",
	"docker",
	"kubernetes",
	"django",
	"fastapi",
	"pytorch",
	"tensorflow",
	"api",
	"git",
	"web",
	"lifehack",
	"business",
}

const (
	DefaultConfigFile   = "web-to-notion.yaml"
	DefaultTagThreshold = 0.45
	DefaultCacheTTL     = 24 * time.Hour
)

// PublishConfig configures the publish and history commands.
type PublishConfig struct {
	NotionToken     string   `yaml:"notion_token"`
	DatabaseID      string   `yaml:"database_id"`
	DBPath          string   `yaml:"db_path"`
	CandidateLabels []string `yaml:"candidate_labels"`
	TagThreshold    float64  `yaml:"tag_threshold"`
	StrictImageURLs bool     `yaml:"strict_image_urls"`

	// CacheDir enables the on-disk page cache for publish when set.
	CacheDir string        `yaml:"cache_dir"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// LoadPublishConfig reads the YAML config (optional when path is the default
// and the file does not exist), loads a .env file if present and applies the
// environment overrides.
func LoadPublishConfig(path string) (*PublishConfig, error) {
	cfg := &PublishConfig{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && path == DefaultConfigFile:
		// defaults plus environment
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	// A missing .env is fine.
	_ = godotenv.Load()

	if v := os.Getenv("NOTION_ACCESS_TOKEN"); v != "" {
		cfg.NotionToken = v
	}
	if v := os.Getenv("DATABASE_ID"); v != "" {
		cfg.DatabaseID = v
	}
	if v := os.Getenv("WEB_TO_NOTION_DB"); v != "" {
		cfg.DBPath = v
	}

	if len(cfg.CandidateLabels) == 0 {
		cfg.CandidateLabels = DefaultCandidateLabels
	}
	if cfg.TagThreshold <= 0 {
		cfg.TagThreshold = DefaultTagThreshold
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}

	return cfg, nil
}

// RequireNotion reports the missing credentials for publishing.
func (c *PublishConfig) RequireNotion() error {
	var missing []string
	if c.NotionToken == "" {
		missing = append(missing, "NOTION_ACCESS_TOKEN")
	}
	if c.DatabaseID == "" {
		missing = append(missing, "DATABASE_ID")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s (set in config or environment)", ErrUsage, strings.Join(missing, ", "))
	}
	return nil
}
