package ddns

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-cleanhttp"
)

// DefaultLookupURL is the IP lookup service used when none is configured.
const DefaultLookupURL = "https://ifconfig.co/"

// WebResolver constructs a resolver which asks an external web service for the public IP address of the host.
//
// The service must answer a GET request carrying "Accept: application/json"
// with a JSON object holding at least an "ip" key, as https://ifconfig.co/ does.
// The whole decoded object is returned so callers can inspect auxiliary fields such as "country" or "city".
//
// Only one request is made per call. There are no retries and no timeout beyond the one carried by ctx.
func WebResolver(serviceURL string) (Resolver, error) {
	u, err := url.Parse(serviceURL)
	if err != nil {
		return nil, fmt.Errorf("error parsing URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("error parsing URL: scheme must be http or https; got %q", u.Scheme)
	}
	return &webResolver{serviceURL: u}, nil
}

type webResolver struct {
	httpClient *http.Client
	serviceURL *url.URL
}

// Resolve implements ddns.Resolver.
func (wr *webResolver) Resolve(ctx context.Context, strict bool) (PublicIPInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, wr.serviceURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	httpclient := wr.httpClient
	if httpclient == nil {
		httpclient = cleanhttp.DefaultClient()
	}

	resp, err := httpclient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	if strict && resp.StatusCode >= http.StatusBadRequest {
		return nil, &HTTPStatusError{
			StatusCode: resp.StatusCode,
			Body:       singleLine(string(body)),
		}
	}

	var info PublicIPInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("error decoding response body (status %d): %w", resp.StatusCode, err)
	}
	return info, nil
}

func (wr *webResolver) SetHTTPClient(c *http.Client) { wr.httpClient = c }

func singleLine(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}
