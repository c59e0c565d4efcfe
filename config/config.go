// Package config loads blogpipe configuration: the application settings
// (viper-backed YAML with env overrides) and the pillar/cluster content
// map used for breadcrumbs and draft-to-topic matching. Loaded values
// are treated as immutable for the process lifetime and injected into
// component constructors.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the application configuration.
type Config struct {
	SiteURL  string
	CTAURL   string
	CTALabel string

	MinInternalLinks int
	MaxInternalLinks int

	DraftsDir  string
	StatePath  string
	ReviewDir  string
	ContentMap string

	AuthorName string
	OrgName    string

	WordPressURL      string
	WordPressUser     string
	WordPressPassword string
}

// Load reads configuration from the given YAML file, falling back to
// defaults for anything unset. Environment variables prefixed BLOGPIPE_
// override file values (dots become underscores).
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("site.url", "https://example.com")
	v.SetDefault("cta.label", "Talk to the Team")
	v.SetDefault("content.min_internal_links", 3)
	v.SetDefault("content.max_internal_links", 5)
	v.SetDefault("content.drafts_dir", "drafts")
	v.SetDefault("content.map", "data/pillar_cluster_map.yaml")
	v.SetDefault("state.path", "data/published_state.yaml")
	v.SetDefault("review.dir", "output")

	v.SetEnvPrefix("BLOGPIPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := Config{
		SiteURL:           strings.TrimRight(v.GetString("site.url"), "/"),
		CTAURL:            v.GetString("cta.url"),
		CTALabel:          v.GetString("cta.label"),
		MinInternalLinks:  v.GetInt("content.min_internal_links"),
		MaxInternalLinks:  v.GetInt("content.max_internal_links"),
		DraftsDir:         v.GetString("content.drafts_dir"),
		StatePath:         v.GetString("state.path"),
		ReviewDir:         v.GetString("review.dir"),
		ContentMap:        v.GetString("content.map"),
		AuthorName:        v.GetString("author.name"),
		OrgName:           v.GetString("organization.name"),
		WordPressURL:      v.GetString("wordpress.url"),
		WordPressUser:     v.GetString("wordpress.username"),
		WordPressPassword: v.GetString("wordpress.app_password"),
	}
	if cfg.CTAURL == "" {
		cfg.CTAURL = cfg.SiteURL + "/#contact"
	}
	return cfg, nil
}
