package ddns

import (
	"fmt"
)

// Record is a DNS record as stored by the provider.
type Record struct {
	ID      string
	Name    string
	Type    string
	Content string
	TTL     int
	Proxied bool
}

func (r Record) String() string {
	return fmt.Sprintf("%s %s %s (id %s)", r.Type, r.Name, r.Content, r.ID)
}

// PublicIPInfo is the decoded JSON body returned by an IP lookup service,
// for example {"ip": "203.0.113.7", "country": "Canada", "city": "Montreal"}.
type PublicIPInfo map[string]any

// IP returns the "ip" field of the lookup response.
// It returns ErrNoIP if the field is missing, is not a string or is empty.
func (info PublicIPInfo) IP() (string, error) {
	v, found := info["ip"]
	if !found {
		return "", fmt.Errorf("%w: key \"ip\" not found in lookup response", ErrNoIP)
	}
	ip, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: key \"ip\" has type %T instead of string", ErrNoIP, v)
	}
	if ip == "" {
		return "", fmt.Errorf("%w: key \"ip\" is empty", ErrNoIP)
	}
	return ip, nil
}

func (info PublicIPInfo) Country() string { return info.str("country") }
func (info PublicIPInfo) City() string    { return info.str("city") }

func (info PublicIPInfo) str(key string) string {
	s, _ := info[key].(string)
	return s
}
