package property

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"estate_leads_backend/internal/platform/elasticsearch"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IndexName is the Elasticsearch index holding property documents.
const IndexName = "properties"

// Indexer keeps the search index in step with the properties table.
type Indexer interface {
	Enabled() bool
	Index(ctx context.Context, p *Property) error
	Remove(ctx context.Context, id uuid.UUID) error
	// Search returns the ids of published properties matching term, best first.
	Search(ctx context.Context, term string, limit int) ([]uuid.UUID, error)
	Bulk(ctx context.Context, rows []Property, refresh bool) (int, error)
}

// NewIndexer returns the Elasticsearch indexer, or a no-op one when client is nil.
func NewIndexer(client *elasticsearch.ESClientWrapper, logger *zap.Logger) (Indexer, error) {
	if client == nil {
		return NopIndexer{}, nil
	}
	if err := elasticsearch.EnsureIndex(context.Background(), client, IndexName, indexMapping(), logger); err != nil {
		return nil, err
	}
	return &esIndexer{client: client, logger: logger.Named("property_indexer")}, nil
}

// NopIndexer is used when Elasticsearch is not configured.
type NopIndexer struct{}

func (NopIndexer) Enabled() bool { return false }

func (NopIndexer) Index(context.Context, *Property) error { return nil }

func (NopIndexer) Remove(context.Context, uuid.UUID) error { return nil }

func (NopIndexer) Search(context.Context, string, int) ([]uuid.UUID, error) { return nil, nil }

func (NopIndexer) Bulk(context.Context, []Property, bool) (int, error) { return 0, nil }

func indexMapping() map[string]interface{} {
	keyword := map[string]interface{}{"type": "keyword"}
	text := map[string]interface{}{"type": "text"}
	return map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"title":           text,
				"description":     text,
				"address":         text,
				"area":            map[string]interface{}{"type": "text", "fields": map[string]interface{}{"keyword": keyword}},
				"city":            keyword,
				"slug":            keyword,
				"listing_status":  keyword,
				"property_status": keyword,
				"category":        keyword,
				"property_type":   keyword,
				"amenities":       keyword,
				"price":           map[string]interface{}{"type": "double"},
				"beds":            map[string]interface{}{"type": "integer"},
				"baths":           map[string]interface{}{"type": "integer"},
				"sqft":            map[string]interface{}{"type": "double"},
				"published":       map[string]interface{}{"type": "boolean"},
				"featured":        map[string]interface{}{"type": "boolean"},
				"created_at":      map[string]interface{}{"type": "date"},
				"updated_at":      map[string]interface{}{"type": "date"},
			},
		},
	}
}

// Document converts a property to its index document.
func Document(p *Property) ([]byte, error) {
	doc := map[string]interface{}{
		"title":           p.Title,
		"description":     p.Description,
		"address":         p.Address,
		"area":            p.Area,
		"city":            p.City,
		"slug":            p.Slug,
		"listing_status":  p.ListingStatus,
		"property_status": p.PropertyStatus,
		"category":        p.Category,
		"property_type":   p.PropertyType,
		"amenities":       []string(p.Amenities),
		"price":           p.Price,
		"beds":            p.Beds,
		"baths":           p.Baths,
		"sqft":            p.Sqft,
		"published":       p.Published,
		"featured":        p.Featured,
		"created_at":      p.CreatedAt,
		"updated_at":      p.UpdatedAt,
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("error marshalling property to JSON for ES: %w", err)
	}
	return b, nil
}

type esIndexer struct {
	client *elasticsearch.ESClientWrapper
	logger *zap.Logger
}

func (i *esIndexer) Enabled() bool { return true }

func (i *esIndexer) Index(ctx context.Context, p *Property) error {
	body, err := Document(p)
	if err != nil {
		return err
	}
	res, err := esapi.IndexRequest{
		Index:      IndexName,
		DocumentID: p.ID.String(),
		Body:       bytes.NewReader(body),
	}.Do(ctx, i.client.Client)
	if err != nil {
		return fmt.Errorf("indexing property %s: %w", p.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("indexing property %s: %s: %s", p.ID, res.Status(), elasticsearch.ResponseBody(res))
	}
	return nil
}

func (i *esIndexer) Remove(ctx context.Context, id uuid.UUID) error {
	res, err := esapi.DeleteRequest{Index: IndexName, DocumentID: id.String()}.Do(ctx, i.client.Client)
	if err != nil {
		return fmt.Errorf("removing property %s from index: %w", id, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("removing property %s from index: %s", id, res.Status())
	}
	return nil
}

func (i *esIndexer) Search(ctx context.Context, term string, limit int) ([]uuid.UUID, error) {
	query := map[string]interface{}{
		"size":    limit,
		"_source": false,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": map[string]interface{}{
					"multi_match": map[string]interface{}{
						"query":     term,
						"fields":    []string{"title^3", "area^2", "address", "description", "property_type"},
						"fuzziness": "AUTO",
					},
				},
				"filter": map[string]interface{}{"term": map[string]interface{}{"published": true}},
			},
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, fmt.Errorf("encoding search query: %w", err)
	}

	res, err := i.client.Search(
		i.client.Search.WithContext(ctx),
		i.client.Search.WithIndex(IndexName),
		i.client.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("property search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("property search: %s: %s", res.Status(), elasticsearch.ResponseBody(res))
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		if id, err := uuid.Parse(hit.ID); err == nil {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Bulk indexes rows with the esutil bulk indexer and returns the number indexed.
func (i *esIndexer) Bulk(ctx context.Context, rows []Property, refresh bool) (int, error) {
	cfg := esutil.BulkIndexerConfig{
		Index:      IndexName,
		Client:     i.client.Client,
		NumWorkers: 2,
	}
	if refresh {
		cfg.Refresh = "true"
	}
	bi, err := esutil.NewBulkIndexer(cfg)
	if err != nil {
		return 0, fmt.Errorf("creating bulk indexer: %w", err)
	}

	var failures []string
	for idx := range rows {
		p := &rows[idx]
		body, err := Document(p)
		if err != nil {
			failures = append(failures, p.ID.String())
			continue
		}
		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: p.ID.String(),
			Body:       bytes.NewReader(body),
			OnFailure: func(_ context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				reason := res.Error.Reason
				if err != nil {
					reason = err.Error()
				}
				i.logger.Warn("Bulk index item failed", zap.String("propertyID", item.DocumentID), zap.String("reason", reason))
			},
		})
		if err != nil {
			return 0, fmt.Errorf("adding property %s to bulk indexer: %w", p.ID, err)
		}
	}
	if err := bi.Close(ctx); err != nil {
		return 0, fmt.Errorf("closing bulk indexer: %w", err)
	}

	stats := bi.Stats()
	if stats.NumFailed > 0 || len(failures) > 0 {
		return int(stats.NumFlushed), fmt.Errorf("%d properties failed to index (%s)", int(stats.NumFailed)+len(failures), strings.Join(failures, ","))
	}
	return int(stats.NumFlushed), nil
}
