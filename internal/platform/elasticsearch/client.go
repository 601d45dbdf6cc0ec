// Package elasticsearch builds the client behind the property search index.
package elasticsearch

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"estate_leads_backend/internal/config"

	"github.com/elastic/elastic-transport-go/v8/elastictransport"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

const slowRoundTrip = time.Second

// ESClientWrapper wraps the elasticsearch.Client so Wire can tell it apart from
// other external types.
type ESClientWrapper struct {
	*elasticsearch.Client
}

// transportLogger routes transport round trips to zap. Failed or slow trips are
// warnings, the rest debug.
type transportLogger struct {
	logger *zap.Logger
}

var _ elastictransport.Logger = (*transportLogger)(nil)

func (l *transportLogger) LogRoundTrip(req *http.Request, res *http.Response, err error, _ time.Time, dur time.Duration) error {
	status := 0
	if res != nil {
		status = res.StatusCode
	}
	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status_code", status),
		zap.Duration("duration", dur),
	}
	switch {
	case err != nil || status >= 500:
		l.logger.Warn("Elasticsearch request failed", append(fields, zap.Error(err))...)
	case dur > slowRoundTrip:
		l.logger.Warn("Slow Elasticsearch request", fields...)
	default:
		l.logger.Debug("Elasticsearch request", fields...)
	}
	return nil
}

func (l *transportLogger) RequestBodyEnabled() bool { return false }

func (l *transportLogger) ResponseBodyEnabled() bool { return false }

// NewClient connects to ELASTICSEARCH_URL. An empty URL returns a nil wrapper and
// property search falls back to the database.
func NewClient(cfg *config.Config, logger *zap.Logger) (*ESClientWrapper, error) {
	if cfg.ElasticsearchURL == "" {
		logger.Info("ELASTICSEARCH_URL is not set; property search uses the database")
		return nil, nil
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:     []string{cfg.ElasticsearchURL},
		Logger:        &transportLogger{logger: logger.Named("elasticsearch")},
		RetryOnStatus: []int{http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout, http.StatusTooManyRequests},
		RetryBackoff:  func(attempt int) time.Duration { return time.Duration(attempt) * 100 * time.Millisecond },
		MaxRetries:    5,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: new client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	res, err := esapi.InfoRequest{}.Do(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: ping %s: %w", cfg.ElasticsearchURL, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch: ping %s: %s: %s", cfg.ElasticsearchURL, res.Status(), ResponseBody(res))
	}

	logger.Info("Connected to Elasticsearch",
		zap.String("url", cfg.ElasticsearchURL),
		zap.String("client_version", elasticsearch.Version),
	)
	return &ESClientWrapper{Client: client}, nil
}
