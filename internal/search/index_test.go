package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/bag_shop/internal/models"
)

type fakeES struct {
	mu       sync.Mutex
	requests []string
	bodies   []string
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	f.bodies = append(f.bodies, string(body))
	f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.URL.Path == "/":
		_, _ = w.Write([]byte(`{"version":{"number":"9.0.0"},"tagline":"You Know, for Search"}`))
	case strings.HasSuffix(r.URL.Path, "/_search"):
		_, _ = w.Write([]byte(`{"hits":{"total":{"value":2},"hits":[
			{"_source":{"id":"6f1c8a3e-2a64-4d0e-9d53-1b7a1f0c9e11","name":"Classic Leather Tote","price":299.99,"category":"tote"}},
			{"_source":{"id":"0b6a3f1d-5e8c-4b1f-8a3d-2c9e7f6a5b44","name":"Leather Messenger","price":229.99,"category":"messenger"}}
		]}}`))
	case r.Method == http.MethodDelete:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"result":"not_found"}`))
	default:
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	}
}

func newTestIndex(t *testing.T) (*Index, *fakeES) {
	t.Helper()

	fake := &fakeES{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{URL: srv.URL})
	require.NoError(t, err)

	return &Index{ES: client, Name: "bags"}, fake
}

func TestIndex_SearchBags_ParsesHits(t *testing.T) {
	idx, fake := newTestIndex(t)

	total, bags, err := idx.SearchBags(context.Background(), "lether", 0, 10)
	require.NoError(t, err)

	assert.Equal(t, int64(2), total)
	require.Len(t, bags, 2)
	assert.Equal(t, "Classic Leather Tote", bags[0].Name)
	assert.Equal(t, "messenger", bags[1].Category)

	last := fake.bodies[len(fake.bodies)-1]
	var q map[string]any
	require.NoError(t, json.Unmarshal([]byte(last), &q))
	mm := q["query"].(map[string]any)["multi_match"].(map[string]any)
	assert.Equal(t, "lether", mm["query"])
	assert.Equal(t, "AUTO", mm["fuzziness"])
}

func TestIndex_IndexAndRemove(t *testing.T) {
	idx, fake := newTestIndex(t)
	ctx := context.Background()

	bag := &models.Bag{ID: uuid.New(), Name: "Tote X", Category: "tote", Price: 50}
	require.NoError(t, idx.IndexBag(ctx, bag))

	// a missing document is not an error on delete
	require.NoError(t, idx.RemoveBag(ctx, bag.ID.String()))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Contains(t, fake.requests, "PUT /bags/_doc/"+bag.ID.String())
	assert.Contains(t, fake.requests, "DELETE /bags/_doc/"+bag.ID.String())
}

func TestIndex_Reset(t *testing.T) {
	idx, fake := newTestIndex(t)

	// an index that was never created is not an error
	require.NoError(t, idx.Reset(context.Background()))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Contains(t, fake.requests, "DELETE /bags")
}
