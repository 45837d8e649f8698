// Package logclient wraps an HTTP client so every request and response
// is written to a debug logger.
package logclient

import (
	"bytes"
	"io"
	"net/http"
	"sort"
	"strings"
)

//go:generate mockgen -destination=mock_$GOPACKAGE/$GOFILE . DebugLogger

type DebugLogger interface {
	Debug(s string)
}

// New returns a copy of client whose transport logs each round trip to logger.
// The Authorization header value is never logged.
func New(client *http.Client, logger DebugLogger) (newClient *http.Client) {
	newClient = &http.Client{
		Timeout:       client.Timeout,
		Jar:           client.Jar,
		CheckRedirect: client.CheckRedirect,
	}

	proxied := client.Transport
	if proxied == nil {
		proxied = http.DefaultTransport
	}
	if transport, ok := proxied.(*http.Transport); ok {
		proxied = transport.Clone()
	}

	newClient.Transport = &loggingRoundTripper{
		proxied: proxied,
		logger:  logger,
	}
	return newClient
}

type loggingRoundTripper struct {
	proxied http.RoundTripper
	logger  DebugLogger
}

func (lrt *loggingRoundTripper) RoundTrip(request *http.Request) (
	response *http.Response, err error) {
	lrt.logger.Debug(requestToString(request))

	response, err = lrt.proxied.RoundTrip(request)
	if err != nil {
		return response, err
	}

	lrt.logger.Debug(responseToString(response))

	return response, nil
}

func requestToString(request *http.Request) (s string) {
	s = request.Method + " " + request.URL.String()

	if len(request.Header) > 0 {
		s += " | headers: " + headerToString(request.Header)
	}

	if request.Body != nil && request.Body != http.NoBody {
		newBody, bodyString := readAndResetBody(request.Body)
		request.Body = newBody
		s += " | body: " + bodyString
	}

	return s
}

func responseToString(response *http.Response) (s string) {
	s = response.Status

	if len(response.Header) > 0 {
		s += " | headers: " + headerToString(response.Header)
	}

	if response.Body != nil {
		newBody, bodyString := readAndResetBody(response.Body)
		response.Body = newBody
		s += " | body: " + bodyString
	}

	return s
}

func headerToString(header http.Header) (s string) {
	keys := make([]string, 0, len(header))
	for key := range header {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	headers := make([]string, 0, len(header))
	for _, key := range keys {
		value := strings.Join(header[key], ",")
		if http.CanonicalHeaderKey(key) == "Authorization" {
			value = "[redacted]"
		}
		headers = append(headers, key+": "+value)
	}
	return strings.Join(headers, "; ")
}

func readAndResetBody(body io.ReadCloser) (
	newBody io.ReadCloser, bodyString string) {
	b, err := io.ReadAll(body)
	_ = body.Close()
	newBody = io.NopCloser(bytes.NewReader(b))
	if err != nil {
		return newBody, "error reading body: " + err.Error()
	}
	return newBody, toSingleLine(string(b))
}

func toSingleLine(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	return strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
}
