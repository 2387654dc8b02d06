// Package portal fetches dataset metadata from a dados.gov.br style open
// data portal and flattens it into the CSV interchange format the
// evaluation pipeline consumes.
package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the Brazilian federal open data portal.
	DefaultBaseURL = "https://dados.gov.br"

	buscarPath = "/api/publico/conjuntos-dados/buscar"
	detailPath = "/api/publico/conjuntos-dados/"

	defaultTimeout   = 30 * time.Second
	defaultPageSize  = 100
	defaultPageDelay = 500 * time.Millisecond
)

// The portal rejects requests without browser-like headers.
var defaultHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
	"Accept":          "application/json",
	"Accept-Language": "pt-BR,pt;q=0.9,en;q=0.8",
}

// ClientConfig tunes the portal client. Zero values select defaults.
type ClientConfig struct {
	BaseURL   string
	Timeout   time.Duration
	PageSize  int
	PageDelay time.Duration
}

// Client is a sequential portal API client.
type Client struct {
	baseURL   string
	http      *http.Client
	logger    *slog.Logger
	pageSize  int
	pageDelay time.Duration
}

// NewClient builds a Client from cfg. logger may be nil.
func NewClient(cfg ClientConfig, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	// zero selects the default; negative disables the delay
	if cfg.PageDelay == 0 {
		cfg.PageDelay = defaultPageDelay
	} else if cfg.PageDelay < 0 {
		cfg.PageDelay = 0
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		http:      &http.Client{Timeout: cfg.Timeout},
		logger:    logger,
		pageSize:  cfg.PageSize,
		pageDelay: cfg.PageDelay,
	}
}

// getJSON performs a GET and decodes the JSON response into out.
func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	for k, v := range defaultHeaders {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("GET %s: unexpected status %d", rawURL, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s: %w", rawURL, err)
	}
	return nil
}

func (c *Client) buscarURL(offset, pageSize int, query string) string {
	params := url.Values{}
	params.Set("offset", fmt.Sprintf("%d", offset))
	params.Set("tamanhoPagina", fmt.Sprintf("%d", pageSize))
	params.Set("dadosAbertos", "true")
	if query != "" {
		params.Set("nomeConjuntoDados", query)
	}
	return c.baseURL + buscarPath + "?" + params.Encode()
}

// sleep waits the configured page delay, returning early on cancellation.
func (c *Client) sleep(ctx context.Context) {
	if c.pageDelay <= 0 {
		return
	}
	select {
	case <-time.After(c.pageDelay):
	case <-ctx.Done():
	}
}
