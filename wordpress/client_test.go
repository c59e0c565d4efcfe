package wordpress

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(baseURL string) *Client {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	c := New(baseURL, "editor", "app-password", logrus.NewEntry(log))
	c.backoff = time.Millisecond
	return c
}

func TestCreateDraftPost(t *testing.T) {
	var got postPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/wp-json/wp/v2/posts", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "editor", user)
		assert.Equal(t, "app-password", pass)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 42}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	id, err := c.CreateDraftPost(context.Background(), "Title", "<p>body</p>", "a-slug",
		map[string]string{"seo_title": "Title"})

	require.NoError(t, err)
	assert.Equal(t, 42, id)
	assert.Equal(t, "draft", got.Status)
	assert.Equal(t, "a-slug", got.Slug)
	assert.Equal(t, "Title", got.Meta["seo_title"])
}

func TestAuthErrorIsFatal(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.CreateDraftPost(context.Background(), "T", "", "s", nil)

	require.ErrorIs(t, err, ErrAuth)
	assert.Equal(t, 1, calls, "auth failures must not be retried")
}

func TestForbiddenIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	err := c.SetFeaturedImage(context.Background(), 1, 2)

	require.ErrorIs(t, err, ErrForbidden)
}

func TestTransientErrorsAreRetried(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"id": 7}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	id, err := c.CreateDraftPost(context.Background(), "T", "", "s", nil)

	require.NoError(t, err)
	assert.Equal(t, 7, id)
	assert.Equal(t, 3, calls)
}

func TestRetriesExhaust(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.CreateDraftPost(context.Background(), "T", "", "s", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestListPublishedSinglePage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "publish", r.URL.Query().Get("status"))
		w.Write([]byte(`[
			{"link": "https://example.com/a/", "title": {"rendered": "Post A"}},
			{"link": "https://example.com/b/", "title": {"rendered": "Post B"}}
		]`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	refs, err := c.ListPublished(context.Background())

	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "Post A", refs[0].Title)
	assert.Equal(t, "https://example.com/b/", refs[1].URL)
}

func TestAssignTaxonomyResolvesAndCachesTerms(t *testing.T) {
	searches := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/wp-json/wp/v2/categories":
			searches++
			w.Write([]byte(`[{"id": 11, "name": "Sales Performance"}]`))
		case r.Method == http.MethodPost && r.URL.Path == "/wp-json/wp/v2/posts/5":
			var body map[string][]int
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, []int{11}, body["categories"])
			w.Write([]byte(`{"id": 5}`))
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	c := testClient(srv.URL)

	require.NoError(t, c.AssignTaxonomy(context.Background(), 5, []string{"Sales Performance"}, nil))
	require.NoError(t, c.AssignTaxonomy(context.Background(), 5, []string{"Sales Performance"}, nil))
	assert.Equal(t, 1, searches, "term lookups are cached per run")
}

func TestTermCreatedWhenSearchMisses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/wp-json/wp/v2/tags":
			w.Write([]byte(`[]`))
		case r.Method == http.MethodPost && r.URL.Path == "/wp-json/wp/v2/tags":
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id": 23, "name": "pipeline"}`))
		case r.Method == http.MethodPost && r.URL.Path == "/wp-json/wp/v2/posts/5":
			w.Write([]byte(`{"id": 5}`))
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	err := c.AssignTaxonomy(context.Background(), 5, nil, []string{"pipeline"})

	require.NoError(t, err)
}
