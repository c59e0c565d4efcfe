// Package wordpress implements the publishing backend contract against
// the WordPress REST API. Transient failures (rate limits, 5xx, network
// timeouts) are retried with exponential backoff inside the client;
// authentication and permission errors surface immediately as fatal.
package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gaurav-prasanna/blogpipe/core"
)

// Fatal error sentinels. Retrying these would never succeed.
var (
	ErrAuth      = errors.New("wordpress: authentication failed")
	ErrForbidden = errors.New("wordpress: permission denied")
)

const (
	defaultMaxRetries = 3
	perPage           = 100
)

// Client talks to one WordPress site.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
	log        *logrus.Entry

	maxRetries int
	backoff    time.Duration

	categoryIDs map[string]int
	tagIDs      map[string]int
}

// New creates a Client. baseURL is the site root (no /wp-json suffix).
func New(baseURL, username, password string, log *logrus.Entry) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		username:    username,
		password:    password,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		log:         log,
		maxRetries:  defaultMaxRetries,
		backoff:     time.Second,
		categoryIDs: make(map[string]int),
		tagIDs:      make(map[string]int),
	}
}

type postPayload struct {
	Title   string            `json:"title"`
	Content string            `json:"content"`
	Slug    string            `json:"slug,omitempty"`
	Status  string            `json:"status"`
	Meta    map[string]string `json:"meta,omitempty"`
}

type postResponse struct {
	ID   int    `json:"id"`
	Link string `json:"link"`
}

// CreateDraftPost creates a post with draft status and returns its ID.
func (c *Client) CreateDraftPost(ctx context.Context, title, html, slug string, meta map[string]string) (int, error) {
	payload := postPayload{Title: title, Content: html, Slug: slug, Status: "draft", Meta: meta}
	var resp postResponse
	if err := c.doJSON(ctx, http.MethodPost, "/wp-json/wp/v2/posts", payload, &resp); err != nil {
		return 0, fmt.Errorf("creating draft post %q: %w", slug, err)
	}
	c.log.WithFields(logrus.Fields{"post_id": resp.ID, "slug": slug}).Info("created draft post")
	return resp.ID, nil
}

// UpdatePost replaces title, content, slug, and meta of an existing post.
func (c *Client) UpdatePost(ctx context.Context, id int, title, html, slug string, meta map[string]string) error {
	payload := postPayload{Title: title, Content: html, Slug: slug, Status: "draft", Meta: meta}
	path := fmt.Sprintf("/wp-json/wp/v2/posts/%d", id)
	if err := c.doJSON(ctx, http.MethodPost, path, payload, nil); err != nil {
		return fmt.Errorf("updating post %d: %w", id, err)
	}
	return nil
}

// UploadImage uploads a local file to the media library and returns the
// media ID.
func (c *Client) UploadImage(ctx context.Context, path, altText string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading image %s: %w", path, err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return 0, fmt.Errorf("building upload form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return 0, fmt.Errorf("building upload form: %w", err)
	}
	if altText != "" {
		_ = writer.WriteField("alt_text", altText)
	}
	if err := writer.Close(); err != nil {
		return 0, fmt.Errorf("building upload form: %w", err)
	}

	var resp postResponse
	raw, err := c.do(ctx, http.MethodPost, "/wp-json/wp/v2/media", body.Bytes(), writer.FormDataContentType())
	if err != nil {
		return 0, fmt.Errorf("uploading image %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return 0, fmt.Errorf("decoding media response: %w", err)
	}
	return resp.ID, nil
}

// SetFeaturedImage assigns a media item as the post's featured image.
func (c *Client) SetFeaturedImage(ctx context.Context, postID, mediaID int) error {
	payload := map[string]int{"featured_media": mediaID}
	path := fmt.Sprintf("/wp-json/wp/v2/posts/%d", postID)
	if err := c.doJSON(ctx, http.MethodPost, path, payload, nil); err != nil {
		return fmt.Errorf("setting featured image on post %d: %w", postID, err)
	}
	return nil
}

// AssignTaxonomy resolves category and tag names to term IDs (creating
// missing terms) and assigns them to the post.
func (c *Client) AssignTaxonomy(ctx context.Context, postID int, categories, tags []string) error {
	catIDs, err := c.resolveTerms(ctx, "categories", categories, c.categoryIDs)
	if err != nil {
		return err
	}
	tagIDList, err := c.resolveTerms(ctx, "tags", tags, c.tagIDs)
	if err != nil {
		return err
	}

	payload := map[string][]int{}
	if len(catIDs) > 0 {
		payload["categories"] = catIDs
	}
	if len(tagIDList) > 0 {
		payload["tags"] = tagIDList
	}
	if len(payload) == 0 {
		return nil
	}
	path := fmt.Sprintf("/wp-json/wp/v2/posts/%d", postID)
	if err := c.doJSON(ctx, http.MethodPost, path, payload, nil); err != nil {
		return fmt.Errorf("assigning taxonomy to post %d: %w", postID, err)
	}
	return nil
}

type listedPost struct {
	Link  string `json:"link"`
	Title struct {
		Rendered string `json:"rendered"`
	} `json:"title"`
}

// ListPublished fetches every published post, paginated.
func (c *Client) ListPublished(ctx context.Context) ([]core.PostRef, error) {
	var refs []core.PostRef
	for page := 1; ; page++ {
		path := fmt.Sprintf("/wp-json/wp/v2/posts?status=publish&per_page=%d&page=%d", perPage, page)
		raw, err := c.do(ctx, http.MethodGet, path, nil, "")
		if err != nil {
			// WordPress returns 400 for a page past the end.
			if page > 1 && isInvalidPage(err) {
				break
			}
			return nil, fmt.Errorf("listing published posts: %w", err)
		}
		var posts []listedPost
		if err := json.Unmarshal(raw, &posts); err != nil {
			return nil, fmt.Errorf("decoding post list: %w", err)
		}
		for _, p := range posts {
			refs = append(refs, core.PostRef{Title: p.Title.Rendered, URL: p.Link})
		}
		if len(posts) < perPage {
			break
		}
	}
	return refs, nil
}

type term struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// resolveTerms maps term names to IDs via a per-taxonomy cache, searching
// first and creating on miss.
func (c *Client) resolveTerms(ctx context.Context, taxonomy string, names []string, cache map[string]int) ([]int, error) {
	var ids []int
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if id, ok := cache[key]; ok {
			ids = append(ids, id)
			continue
		}
		id, err := c.findOrCreateTerm(ctx, taxonomy, name)
		if err != nil {
			return nil, fmt.Errorf("resolving %s term %q: %w", taxonomy, name, err)
		}
		cache[key] = id
		ids = append(ids, id)
	}
	return ids, nil
}

func (c *Client) findOrCreateTerm(ctx context.Context, taxonomy, name string) (int, error) {
	path := fmt.Sprintf("/wp-json/wp/v2/%s?search=%s&per_page=%d", taxonomy, url.QueryEscape(name), perPage)
	raw, err := c.do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return 0, err
	}
	var terms []term
	if err := json.Unmarshal(raw, &terms); err != nil {
		return 0, fmt.Errorf("decoding term search: %w", err)
	}
	for _, t := range terms {
		if strings.EqualFold(t.Name, name) {
			return t.ID, nil
		}
	}

	var created term
	if err := c.doJSON(ctx, http.MethodPost, "/wp-json/wp/v2/"+taxonomy, map[string]string{"name": name}, &created); err != nil {
		return 0, err
	}
	return created.ID, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}
	raw, err := c.do(ctx, method, path, body, "application/json")
	if err != nil {
		return err
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// do executes one request with the retry policy: 429 and 5xx back off
// exponentially, network errors likewise; 401 and 403 map to their
// sentinels and return immediately.
func (c *Client) do(ctx context.Context, method, path string, body []byte, contentType string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.backoff << (attempt - 1)
			c.log.WithFields(logrus.Fields{"path": path, "attempt": attempt}).Warn("retrying request")
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("building request: %w", err)
		}
		req.SetBasicAuth(c.username, c.password)
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		data, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		switch {
		case resp.StatusCode == http.StatusUnauthorized:
			return nil, ErrAuth
		case resp.StatusCode == http.StatusForbidden:
			return nil, ErrForbidden
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			lastErr = fmt.Errorf("status %d: %s", resp.StatusCode, truncateBody(data))
			continue
		case resp.StatusCode >= 400:
			return nil, fmt.Errorf("status %d: %s", resp.StatusCode, truncateBody(data))
		}
		return data, nil
	}
	return nil, fmt.Errorf("request failed after %d attempts: %w", c.maxRetries+1, lastErr)
}

func truncateBody(data []byte) string {
	const max = 200
	if len(data) > max {
		return string(data[:max]) + "..."
	}
	return string(data)
}

func isInvalidPage(err error) bool {
	return strings.Contains(err.Error(), "status 400")
}
