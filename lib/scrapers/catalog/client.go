package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"updatecatalog/lib/restyutil"
	"updatecatalog/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/catalog")

const (
	DefaultBaseUrl = "https://www.catalog.update.microsoft.com"

	searchPath  = "/Search.aspx"
	detailsPath = "/ScopedViewInline.aspx"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
)

// Client talks to the Microsoft Update Catalog. It is safe to share
// between goroutines; each search carries its own session state.
type Client struct {
	http *resty.Client
}

type ClientOptions struct {
	// BaseUrl overrides the catalog endpoint, mainly to point at a
	// mock server in tests. Empty means DefaultBaseUrl.
	BaseUrl string
	// Timeout for a single page fetch. Zero means 30 seconds.
	Timeout time.Duration
	// Dump, when set, records every HTTP exchange for debugging and
	// fixture capture.
	Dump restyutil.Output
}

func NewClient(opts ClientOptions) (*Client, error) {
	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = DefaultBaseUrl
	}
	parsed, err := url.Parse(baseUrl)
	if err != nil {
		return nil, err
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = time.Second * 30
	}

	client := resty.New()
	client.SetBaseURL(baseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", userAgent)
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(parsed.Hostname()))
	client.SetTimeout(timeout)

	telemetry.InstrumentResty(client, "scrapers/catalog/http")
	restyutil.DumpExchanges(client, opts.Dump)

	return &Client{http: client}, nil
}

// Search creates a fresh, independent search session. No request is
// made until the iterator is first advanced.
func (c *Client) Search(query string) *SearchIterator {
	return &SearchIterator{
		client:  c,
		session: newSearchSession(query),
	}
}

// Details fetches and parses a single update's detail page. An id the
// server reports as unknown yields ErrNotFound.
func (c *Client) Details(ctx context.Context, updateID string) (*UpdateDetails, error) {
	ctx, span := tracer.Start(ctx, "client:Details")
	defer span.End()
	span.SetAttributes(attribute.String("update_id", updateID))

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("updateid", updateID).
		Get(detailsPath)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch details page")
		return nil, &TransportError{Err: err}
	}
	if res.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("update %s: %w", updateID, ErrNotFound)
	}
	if res.IsError() {
		return nil, &TransportError{Status: res.StatusCode()}
	}

	details, err := parseUpdateDetails(res.Body())
	if err != nil {
		var catalogErr *CatalogError
		if errors.As(err, &catalogErr) {
			// the catalog reports unknown ids through its hidden
			// error page, not a 404
			return nil, fmt.Errorf("update %s (code %s): %w", updateID, catalogErr.Code, ErrNotFound)
		}
		span.SetStatus(codes.Error, "failed to parse details page")
		return nil, err
	}
	return details, nil
}
