package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"alliance-tracker/internal/config"
	"alliance-tracker/internal/domain"

	"github.com/valyala/fasthttp"
)

// Client pulls a full alliance export (roster + ordered war list) from the
// configured upstream. The upstream is whatever the officers point IMPORT_URL
// at — typically the old spreadsheet exporter or another tracker instance.
type Client struct {
	baseURL string
	client  *fasthttp.Client
}

// Export is the upstream document shape. Wars arrive in season order.
type Export struct {
	Players []domain.Player `json:"players"`
	Wars    []domain.War    `json:"wars"`
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.ImportURL,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

func (c *Client) Configured() bool {
	return c.baseURL != ""
}

func (c *Client) FetchExport(ctx context.Context) (*Export, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("import URL not configured")
	}
	return doRequest[Export](ctx, c, c.baseURL)
}

func doRequest[T any](ctx context.Context, client *Client, url string) (*T, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	deadline, ok := ctx.Deadline()
	if ok {
		if err := client.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, err
		}
	} else {
		if err := client.client.Do(req, resp); err != nil {
			return nil, err
		}
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("export endpoint error: %d", resp.StatusCode())
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}
