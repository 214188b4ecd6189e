package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/devconnector/internal/domain/entity"
)

func newTestIndex(t *testing.T, h http.HandlerFunc) *PostIndex {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewPostIndex(es, "posts")
}

func TestIndexWritesDocument(t *testing.T) {
	var doc map[string]any
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/posts/_doc/p1", r.URL.Path)
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &doc)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})

	err := idx.Index(context.Background(), &entity.Post{ID: "p1", UserID: "u1", Text: "hello", Name: "Ann", CreatedAt: time.Now()})
	require.NoError(t, err)
	assert.Equal(t, "hello", doc["text"])
	assert.Equal(t, "u1", doc["user"])
}

func TestDeleteToleratesMissing(t *testing.T) {
	idx := newTestIndex(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"result":"not_found"}`))
	})
	assert.NoError(t, idx.Delete(context.Background(), "gone"))
}

func TestSearchReturnsSources(t *testing.T) {
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		var q map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&q))
		assert.EqualValues(t, 10, q["size"])
		_, _ = w.Write([]byte(`{"hits":{"hits":[{"_source":{"id":"p1","text":"go rocks"}}]}}`))
	})

	hits, err := idx.Search(context.Background(), "go", 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "p1", hits[0]["id"])
}

func TestSearchMissingIndexIsEmpty(t *testing.T) {
	idx := newTestIndex(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"type":"index_not_found_exception"}}`))
	})
	hits, err := idx.Search(context.Background(), "go", 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearchServerError(t *testing.T) {
	idx := newTestIndex(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{}}`))
	})
	_, err := idx.Search(context.Background(), "go", 5)
	assert.Error(t, err)
}
