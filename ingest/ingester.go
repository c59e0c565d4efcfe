// Package ingest turns a directory of pre-authored drafts into engine
// work items. Drafts may be Markdown (with optional YAML front-matter)
// or HTML, which is converted to Markdown first. Folder names impose the
// publish order: pillar pages, then cluster pages, then weekly batches.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/sirupsen/logrus"

	"github.com/gaurav-prasanna/blogpipe/config"
	"github.com/gaurav-prasanna/blogpipe/core"
	"github.com/gaurav-prasanna/blogpipe/core/extract"
	"github.com/gaurav-prasanna/blogpipe/engine"
)

// Item is one queued draft awaiting publication.
type Item struct {
	Path     string
	Slug     string
	Folder   string
	Priority int
}

// Ingester discovers and loads drafts.
type Ingester struct {
	contentMap config.ContentMap
	log        *logrus.Entry
}

// New creates an Ingester. The content map supplies topic metadata for
// drafts whose front-matter omits it.
func New(contentMap config.ContentMap, log *logrus.Entry) *Ingester {
	return &Ingester{contentMap: contentMap, log: log}
}

var (
	weekFolderRegex = regexp.MustCompile(`(?i)^week-(\d+)`)
	dayPrefixRegex  = regexp.MustCompile(`(?i)^day-\d+-`)
)

// folderPriority orders backlog folders: pillar pages first, cluster
// pages second, then weekly batches in week order, unknown folders last.
func folderPriority(folder string) int {
	switch strings.ToLower(folder) {
	case "pillar-pages":
		return 0
	case "cluster-pages":
		return 1
	}
	if m := weekFolderRegex.FindStringSubmatch(folder); m != nil {
		week := 0
		fmt.Sscanf(m[1], "%d", &week)
		return 1 + week
	}
	return 99
}

// Queue scans draftsDir and returns the unpublished drafts in publish
// order: folder priority first, then filename within a folder.
func (i *Ingester) Queue(draftsDir string, published func(slug string) bool) ([]Item, error) {
	entries, err := os.ReadDir(draftsDir)
	if err != nil {
		return nil, fmt.Errorf("reading drafts dir %s: %w", draftsDir, err)
	}

	var items []Item
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		folder := entry.Name()
		files, err := os.ReadDir(filepath.Join(draftsDir, folder))
		if err != nil {
			return nil, fmt.Errorf("reading drafts folder %s: %w", folder, err)
		}
		for _, f := range files {
			name := f.Name()
			ext := strings.ToLower(filepath.Ext(name))
			if f.IsDir() || (ext != ".md" && ext != ".markdown" && ext != ".html") {
				continue
			}
			slug := slugFromFilename(name)
			if published != nil && published(slug) {
				i.log.WithField("slug", slug).Debug("already published, skipping")
				continue
			}
			items = append(items, Item{
				Path:     filepath.Join(draftsDir, folder, name),
				Slug:     slug,
				Folder:   folder,
				Priority: folderPriority(folder),
			})
		}
	}

	sort.SliceStable(items, func(a, b int) bool {
		if items[a].Priority != items[b].Priority {
			return items[a].Priority < items[b].Priority
		}
		return items[a].Path < items[b].Path
	})
	return items, nil
}

// Load reads one draft file into an engine Source. HTML drafts are
// converted to Markdown; front-matter is parsed off; topic metadata
// missing from front-matter is inferred from the filename via the
// content map. Ingested drafts are trusted.
func (i *Ingester) Load(path string) (engine.Source, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return engine.Source{}, fmt.Errorf("reading draft %s: %w", path, err)
	}
	content := string(raw)

	if strings.EqualFold(filepath.Ext(path), ".html") {
		md, err := htmltomarkdown.ConvertString(content)
		if err != nil {
			return engine.Source{}, fmt.Errorf("converting HTML draft %s: %w", path, err)
		}
		content = md
	}

	fm, body, hasFM := extract.ParseFrontMatter(content)
	topic := i.topicFor(fm, filepath.Base(path))

	src := engine.Source{
		Markdown: body,
		Topic:    topic,
		Trusted:  true,
	}
	if hasFM {
		src.FrontMatter = &fm
	}
	return src, nil
}

// topicFor builds the Topic from front-matter, filling gaps from the
// content map entry matched by the filename slug.
func (i *Ingester) topicFor(fm extract.FrontMatter, filename string) core.Topic {
	topic := core.Topic{
		Title:             fm.Title,
		PrimaryKeyword:    fm.FocusKeyword,
		SecondaryKeywords: fm.SecondaryKeywords,
		Format:            core.Format(fm.ContentFormat),
		Pillar:            strings.ToLower(strings.TrimSpace(fm.Pillar)),
		Function:          fm.Function,
		GrowthStage:       fm.GrowthStage,
	}
	if topic.PrimaryKeyword != "" && topic.Pillar != "" {
		return topic
	}

	if plan, pillar, cluster, ok := i.contentMap.FindPost(slugFromFilename(filename)); ok {
		if topic.Title == "" {
			topic.Title = plan.Title
		}
		if topic.PrimaryKeyword == "" {
			topic.PrimaryKeyword = plan.Keyword
		}
		if topic.Format == "" {
			topic.Format = core.Format(plan.Format)
		}
		if topic.Pillar == "" {
			topic.Pillar = pillar
		}
		if topic.Function == "" {
			topic.Function = cluster
		}
		if topic.GrowthStage == "" {
			topic.GrowthStage = plan.Stage
		}
	}
	return topic
}

// slugFromFilename strips scheduling and type prefixes plus the
// extension, yielding the canonical slug.
func slugFromFilename(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = dayPrefixRegex.ReplaceAllString(base, "")
	base = strings.TrimPrefix(base, "pillar-")
	base = strings.TrimPrefix(base, "cluster-")
	return strings.ToLower(strings.ReplaceAll(base, "_", "-"))
}
