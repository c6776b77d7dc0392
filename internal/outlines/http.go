package outlines

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/strokeglyph/internal/logger"
)

// DefaultBaseURL serves the hanzi-writer-data package over a CDN.
const DefaultBaseURL = "https://cdn.jsdelivr.net/npm/hanzi-writer-data@2.0"

// maxPayloadBytes bounds a single character payload.
const maxPayloadBytes = 4 << 20

// HTTPSource fetches <BaseURL>/<char>.json.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPSource creates a source with its own client and request timeout.
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &HTTPSource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
	}
}

// Load implements Source.
func (s *HTTPSource) Load(ctx context.Context, char string) (*Character, error) {
	u := s.BaseURL + "/" + url.PathEscape(char) + ".json"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", u, err)
	}
	defer resp.Body.Close()

	log := logger.Named("outlines")
	switch {
	case resp.StatusCode == http.StatusNotFound:
		log.Debug("character missing upstream", zap.String("char", char), zap.String("url", u))
		return nil, &CharacterNotFoundError{Char: char, Source: "http"}
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("fetching %s: unexpected status %s", u, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", u, err)
	}
	c, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", u, err)
	}

	log.Debug("character fetched",
		zap.String("char", char),
		zap.Int("strokes", len(c.Strokes)),
		zap.Duration("took", time.Since(start)))
	return c, nil
}
