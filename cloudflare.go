package ddns

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/cloudflare/cloudflare-go"
	"github.com/hashicorp/go-cleanhttp"
)

// NewCloudflare constructs a Provider backed by the Cloudflare v4 API.
//
// The token is sent as "Authorization: Bearer <token>" by cloudflare-go and nowhere else.
// Retries are disabled: a failed call is returned to the caller as-is.
func NewCloudflare(token string, options ...CloudflareOption) (*Cloudflare, error) {
	if token == "" {
		return nil, errors.New("ddns.NewCloudflare: token cannot be empty")
	}
	cfg := cloudflareConfig{httpClient: cleanhttp.DefaultClient()}
	for _, opt := range options {
		opt(&cfg)
	}

	apiOptions := []cloudflare.Option{
		cloudflare.HTTPClient(cfg.httpClient),
		cloudflare.UsingRetryPolicy(0, 0, 0),
		cloudflare.UserAgent("cfddns"),
	}
	if cfg.baseURL != "" {
		apiOptions = append(apiOptions, cloudflare.BaseURL(cfg.baseURL))
	}

	api, err := cloudflare.NewWithAPIToken(token, apiOptions...)
	if err != nil {
		return nil, fmt.Errorf("error creating cloudflare api client: %w", err)
	}
	return &Cloudflare{api: api}, nil
}

// CloudflareOption configures NewCloudflare.
type CloudflareOption func(*cloudflareConfig)

type cloudflareConfig struct {
	httpClient *http.Client
	baseURL    string
}

// CloudflareHTTPClient sets the HTTP client used for API calls.
func CloudflareHTTPClient(c *http.Client) CloudflareOption {
	return func(cfg *cloudflareConfig) {
		if c != nil {
			cfg.httpClient = c
		}
	}
}

// CloudflareBaseURL overrides the API base URL, e.g. to point at a test server.
func CloudflareBaseURL(u string) CloudflareOption {
	return func(cfg *cloudflareConfig) { cfg.baseURL = u }
}

// Cloudflare implements ddns.Provider.
//
// It should be constructed using NewCloudflare.
type Cloudflare struct {
	api *cloudflare.API
}

// GetRecord implements ddns.Provider.
func (cf *Cloudflare) GetRecord(ctx context.Context, zoneID, recordID string) (Record, error) {
	r, err := cf.api.GetDNSRecord(ctx, cloudflare.ZoneIdentifier(zoneID), recordID)
	if err != nil {
		return Record{}, fmt.Errorf("%w: getting record %s in zone %s: %w", ErrProvider, recordID, zoneID, err)
	}
	return fromCloudflare(r), nil
}

// UpdateRecord implements ddns.Provider.
// Only name, type and content are sent; the provider keeps every other attribute of the record.
func (cf *Cloudflare) UpdateRecord(ctx context.Context, zoneID, recordID, name, recordType, content string) (Record, error) {
	r, err := cf.api.UpdateDNSRecord(ctx, cloudflare.ZoneIdentifier(zoneID), cloudflare.UpdateDNSRecordParams{
		ID:      recordID,
		Name:    name,
		Type:    recordType,
		Content: content,
	})
	if err != nil {
		return Record{}, fmt.Errorf("%w: updating record %s in zone %s: %w", ErrProvider, recordID, zoneID, err)
	}
	return fromCloudflare(r), nil
}

// ListRecords returns every record of the zone.
// It is meant to help find the identifier of the record to keep in sync.
func (cf *Cloudflare) ListRecords(ctx context.Context, zoneID string) ([]Record, error) {
	records, _, err := cf.api.ListDNSRecords(ctx, cloudflare.ZoneIdentifier(zoneID), cloudflare.ListDNSRecordsParams{})
	if err != nil {
		return nil, fmt.Errorf("%w: listing records in zone %s: %w", ErrProvider, zoneID, err)
	}
	out := make([]Record, 0, len(records))
	for _, r := range records {
		out = append(out, fromCloudflare(r))
	}
	return out, nil
}

// VerifyToken checks that the token is known to Cloudflare and active.
func (cf *Cloudflare) VerifyToken(ctx context.Context) error {
	result, err := cf.api.VerifyAPIToken(ctx)
	if err != nil {
		return fmt.Errorf("%w: verifying api token: %w", ErrProvider, err)
	}
	if result.Status != "active" {
		return fmt.Errorf("expected api token status to be \"active\"; got \"%s\"", result.Status)
	}
	return nil
}

func fromCloudflare(r cloudflare.DNSRecord) Record {
	rec := Record{
		ID:      r.ID,
		Name:    r.Name,
		Type:    r.Type,
		Content: r.Content,
		TTL:     r.TTL,
	}
	if r.Proxied != nil {
		rec.Proxied = *r.Proxied
	}
	return rec
}
