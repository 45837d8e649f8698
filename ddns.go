package ddns

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hashicorp/go-cleanhttp"
)

// New validates creds and constructs a client keeping the record creds.RecordID in sync with the public IP.
//
// Missing credentials are reported all at once as a *ConfigError, before anything touches the network.
// Without options the client uses Cloudflare as the provider, WebResolver(DefaultLookupURL)
// as the resolver, and strict mode.
func New(creds Credentials, options ...clientOption) (*Client, error) {
	if err := creds.Validate(); err != nil {
		return nil, fmt.Errorf("ddns.New: %w", err)
	}
	c := &Client{
		creds:  creds,
		strict: true,
		logger: noopLogger{},
	}
	for i, opt := range options {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("ddns.New: option %d returned an error: %w", i, err)
		}
	}

	if c.httpClient == nil {
		c.httpClient = cleanhttp.DefaultClient()
	}

	if c.resolver == nil {
		r, err := WebResolver(DefaultLookupURL)
		if err != nil {
			return nil, fmt.Errorf("ddns.New: creating default resolver: %w", err)
		}
		c.resolver = r
	}
	type setHTTPClient interface {
		SetHTTPClient(*http.Client)
	}
	if r, ok := c.resolver.(setHTTPClient); ok {
		r.SetHTTPClient(c.httpClient)
	}

	if c.provider == nil {
		p, err := NewCloudflare(creds.APIToken, CloudflareHTTPClient(c.httpClient))
		if err != nil {
			return nil, fmt.Errorf("ddns.New: error creating cloudflare DNS provider: %w", err)
		}
		c.provider = p
	}

	return c, nil
}

type clientOption func(*Client) error

// UsingProvider replaces the default Cloudflare provider.
func UsingProvider(p Provider) clientOption {
	return func(c *Client) error {
		c.provider = p
		return nil
	}
}

// UsingResolver replaces the default web resolver.
func UsingResolver(r Resolver) clientOption {
	return func(c *Client) error {
		c.resolver = r
		return nil
	}
}

// UsingWebResolver uses the lookup service at serviceURL instead of DefaultLookupURL.
func UsingWebResolver(serviceURL string) clientOption {
	return func(c *Client) (err error) {
		c.resolver, err = WebResolver(serviceURL)
		return err
	}
}

// UsingHTTPClient sets the HTTP client shared by the default provider and the web resolver.
func UsingHTTPClient(httpclient *http.Client) clientOption {
	return func(c *Client) error {
		c.httpClient = httpclient
		return nil
	}
}

// WithStrict controls whether HTTP error statuses from the lookup service abort the run.
// It defaults to true.
func WithStrict(strict bool) clientOption {
	return func(c *Client) error {
		c.strict = strict
		return nil
	}
}

func WithLogger(logger Logger) clientOption {
	return func(c *Client) error {
		if logger == nil {
			logger = noopLogger{}
		}
		c.logger = logger
		return nil
	}
}

// Client reconciles one DNS record with the public IP address of the host.
type Client struct {
	creds      Credentials
	provider   Provider
	resolver   Resolver
	httpClient *http.Client
	strict     bool
	logger     Logger
}

// Reconcile runs one check-and-correct cycle.
//
// The record is read first, then the public IP is resolved.
// If the record content equals the IP, Reconcile returns a nil record and a nil error.
// Otherwise the record is updated with the IP, keeping its name and type,
// and the record returned by the provider is returned.
// At most one write is made, and none if any step fails.
func (c *Client) Reconcile(ctx context.Context) (*Record, error) {
	c.logger.Debug(fmt.Sprintf("getting record %s in zone %s", c.creds.RecordID, c.creds.ZoneID))
	record, err := c.provider.GetRecord(ctx, c.creds.ZoneID, c.creds.RecordID)
	if err != nil {
		return nil, fmt.Errorf("error getting DNS record: %w", err)
	}
	c.logger.Debug("got record " + record.String())

	info, err := c.resolver.Resolve(ctx, c.strict)
	if err != nil {
		return nil, fmt.Errorf("error getting public IP: %w", err)
	}
	ip, err := info.IP()
	if err != nil {
		return nil, fmt.Errorf("error getting public IP: %w", err)
	}
	c.logger.Debug("public IP is " + ip)

	if record.Content == ip {
		c.logger.Info(fmt.Sprintf("record %s %s is up to date with %s", record.Type, record.Name, ip))
		return nil, nil
	}

	c.logger.Info(fmt.Sprintf("updating record %s %s from %s to %s",
		record.Type, record.Name, record.Content, ip))
	updated, err := c.provider.UpdateRecord(ctx, c.creds.ZoneID, c.creds.RecordID, record.Name, record.Type, ip)
	if err != nil {
		return nil, fmt.Errorf("error updating %s with new IP %s: %w", record.Name, ip, err)
	}
	return &updated, nil
}
