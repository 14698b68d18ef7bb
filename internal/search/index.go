package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esapi"

	"github.com/Skotchmaster/bag_shop/internal/models"
)

// Index mirrors bag records into an Elasticsearch index for fuzzy search.
// The database stays the source of truth.
type Index struct {
	ES   *elasticsearch.Client
	Name string
}

func (i *Index) IndexBag(ctx context.Context, bag *models.Bag) error {
	body, err := json.Marshal(bag)
	if err != nil {
		return fmt.Errorf("search: marshal bag: %w", err)
	}

	res, err := i.ES.Index(
		i.Name,
		bytes.NewReader(body),
		i.ES.Index.WithContext(ctx),
		i.ES.Index.WithDocumentID(bag.ID.String()),
	)
	if err != nil {
		return fmt.Errorf("search: index bag: %w", err)
	}
	return responseError(res, "index bag")
}

func (i *Index) RemoveBag(ctx context.Context, id string) error {
	res, err := i.ES.Delete(i.Name, id, i.ES.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("search: delete bag: %w", err)
	}
	if res.StatusCode == http.StatusNotFound {
		res.Body.Close()
		return nil
	}
	return responseError(res, "delete bag")
}

// Reset drops the whole index. The next IndexBag recreates it.
func (i *Index) Reset(ctx context.Context) error {
	res, err := i.ES.Indices.Delete([]string{i.Name}, i.ES.Indices.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("search: delete index: %w", err)
	}
	if res.StatusCode == http.StatusNotFound {
		res.Body.Close()
		return nil
	}
	return responseError(res, "delete index")
}

func (i *Index) SearchBags(ctx context.Context, query string, from, size int) (int64, []models.Bag, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search: encode query: %w", err)
	}

	res, err := i.ES.Search(
		i.ES.Search.WithContext(ctx),
		i.ES.Search.WithIndex(i.Name),
		i.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: query: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return 0, nil, fmt.Errorf("search: query: %s: %s", res.Status(), msg)
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Bag `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("search: decode response: %w", err)
	}

	bags := make([]models.Bag, len(r.Hits.Hits))
	for n, hit := range r.Hits.Hits {
		bags[n] = hit.Source
	}
	return r.Hits.Total.Value, bags, nil
}

func responseError(res *esapi.Response, op string) error {
	defer res.Body.Close()
	if !res.IsError() {
		return nil
	}
	msg, _ := io.ReadAll(res.Body)
	return fmt.Errorf("search: %s: %s: %s", op, res.Status(), msg)
}
