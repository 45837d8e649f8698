package ddns

import (
	"context"
)

//go:generate mockgen -destination=mock_$GOPACKAGE/$GOFILE . Resolver,Provider

// Resolver looks up the public IP address of the host.
//
// When strict is true, an HTTP error status from the lookup service is returned as an error.
// When strict is false, the response body is decoded regardless of the status.
type Resolver interface {
	Resolve(ctx context.Context, strict bool) (PublicIPInfo, error)
}

// Provider reads and rewrites a single DNS record addressed by zone and record identifiers.
type Provider interface {
	GetRecord(ctx context.Context, zoneID, recordID string) (Record, error)
	UpdateRecord(ctx context.Context, zoneID, recordID, name, recordType, content string) (Record, error)
}

// Logger is the logging interface used by the client.
// It is satisfied by *github.com/qdm12/log.Logger.
type Logger interface {
	Debug(s string)
	Info(s string)
}

type noopLogger struct{}

func (noopLogger) Debug(string) {}
func (noopLogger) Info(string)  {}
