// Package state persists the publish ledger: which slugs have been
// published, when, and to which backend post. The ledger is the
// idempotence anchor for batch runs — a slug that appears here is
// skipped on every subsequent run.
package state

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gaurav-prasanna/blogpipe/core"
)

// FileLedger stores publish records in one YAML file.
type FileLedger struct {
	path string
	data ledgerFile
}

type ledgerFile struct {
	LastRun   string         `yaml:"last_run,omitempty"`
	Published []ledgerRecord `yaml:"published"`
}

type ledgerRecord struct {
	Slug        string    `yaml:"slug"`
	Title       string    `yaml:"title,omitempty"`
	PostID      int       `yaml:"post_id,omitempty"`
	Pillar      string    `yaml:"pillar,omitempty"`
	Function    string    `yaml:"function,omitempty"`
	PublishedAt time.Time `yaml:"published_at"`
}

// Load reads the ledger from path. A missing file yields an empty ledger.
func Load(path string) (*FileLedger, error) {
	l := &FileLedger{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return l, nil
		}
		return nil, fmt.Errorf("reading ledger %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &l.data); err != nil {
		return nil, fmt.Errorf("parsing ledger %s: %w", path, err)
	}
	return l, nil
}

// IsPublished reports whether slug already has a ledger entry.
func (l *FileLedger) IsPublished(slug string) bool {
	for _, rec := range l.data.Published {
		if rec.Slug == slug {
			return true
		}
	}
	return false
}

// PublishedSlugs returns every recorded slug, sorted.
func (l *FileLedger) PublishedSlugs() []string {
	slugs := make([]string, 0, len(l.data.Published))
	for _, rec := range l.data.Published {
		slugs = append(slugs, rec.Slug)
	}
	sort.Strings(slugs)
	return slugs
}

// RecordPublish appends a record and saves the ledger immediately, so a
// crash mid-batch never re-publishes completed drafts.
func (l *FileLedger) RecordPublish(rec core.PublishRecord) error {
	l.data.Published = append(l.data.Published, ledgerRecord{
		Slug:        rec.Slug,
		Title:       rec.Title,
		PostID:      rec.PostID,
		Pillar:      rec.Pillar,
		Function:    rec.Function,
		PublishedAt: rec.PublishedAt,
	})
	l.data.LastRun = rec.PublishedAt.Format(time.RFC3339)
	return l.save()
}

// PillarCounts tallies published posts per pillar.
func (l *FileLedger) PillarCounts() map[string]int {
	counts := make(map[string]int)
	for _, rec := range l.data.Published {
		if rec.Pillar != "" {
			counts[rec.Pillar]++
		}
	}
	return counts
}

func (l *FileLedger) save() error {
	out, err := yaml.Marshal(l.data)
	if err != nil {
		return fmt.Errorf("marshaling ledger: %w", err)
	}
	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating ledger dir: %w", err)
		}
	}
	if err := os.WriteFile(l.path, out, 0o644); err != nil {
		return fmt.Errorf("writing ledger %s: %w", l.path, err)
	}
	return nil
}
