// Package console is a client for the admin API. Each screen keeps its rows in a
// triage.Store and applies row actions locally before the server confirms them.
package console

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"estate_leads_backend/internal/common"
	"estate_leads_backend/internal/triage"

	"go.uber.org/zap"
)

const defaultTimeout = 15 * time.Second

// Client talks to /api/admin with a bearer token.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient returns a client for baseURL (e.g. "https://api.example.com").
// A nil httpClient gets a 15s timeout.
func NewClient(baseURL, token string, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    httpClient,
		logger:  logger,
	}
}

// errorBody mirrors common.ErrorResponse on the wire.
type errorBody struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details"`
}

// do sends body as JSON and decodes a 2xx reply into out. Non-2xx replies come
// back as *common.APIError; transport failures are returned as is.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("console: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("console: build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("Admin API unreachable", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("console: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("console: decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := common.NewAPIError(resp.StatusCode, "HTTP_"+strconv.Itoa(resp.StatusCode), http.StatusText(resp.StatusCode))
	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Code == "" {
		return apiErr
	}
	apiErr.Code = body.Code
	apiErr.Message = body.Message
	if len(body.Details) > 0 {
		var fields map[string]string
		var text string
		switch {
		case json.Unmarshal(body.Details, &fields) == nil:
			apiErr.Details = fields
		case json.Unmarshal(body.Details, &text) == nil:
			apiErr.Details = text
		default:
			var raw interface{}
			_ = json.Unmarshal(body.Details, &raw)
			apiErr.Details = raw
		}
	}
	return apiErr
}

// encodeQuery renders q the way triage.ParseQuery reads it.
func encodeQuery(q triage.Query) string {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	for key, value := range q.Filters {
		if value != "" {
			v.Set(key, value)
		}
	}
	if len(q.Sort) > 0 {
		keys := make([]string, len(q.Sort))
		for i, k := range q.Sort {
			keys[i] = k.Field
			if k.Desc {
				keys[i] = "-" + k.Field
			}
		}
		v.Set("sort", strings.Join(keys, ","))
	}
	if q.Page > 1 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}
