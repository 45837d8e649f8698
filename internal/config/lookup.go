package config

import (
	"errors"
	"fmt"
	"net/netip"
	"net/url"

	ddns "github.com/Travis-Britz/cfddns"
	"github.com/qdm12/gosettings"
	"github.com/qdm12/gosettings/reader"
	"github.com/qdm12/gotree"
)

// Lookup configures how the public IP address is found.
// IP and Interface are only set from the command line.
type Lookup struct {
	URL       *string
	Strict    *bool
	IP        string
	Interface string
}

func (l *Lookup) setDefaults() {
	l.URL = gosettings.DefaultPointer(l.URL, ddns.DefaultLookupURL)
	l.Strict = gosettings.DefaultPointer(l.Strict, true)
}

var (
	ErrLookupURLNotValid    = errors.New("lookup URL is not valid")
	ErrIPNotValid           = errors.New("IP address is not valid")
	ErrLookupSourceConflict = errors.New("only one of IP address and interface can be set")
)

func (l Lookup) Validate() (err error) {
	u, err := url.Parse(*l.URL)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLookupURLNotValid, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme must be http or https; got %q", ErrLookupURLNotValid, u.Scheme)
	}

	if l.IP != "" && l.Interface != "" {
		return ErrLookupSourceConflict
	}
	if l.IP != "" {
		if _, err := netip.ParseAddr(l.IP); err != nil {
			return fmt.Errorf("%w: %w", ErrIPNotValid, err)
		}
	}

	return nil
}

func (l Lookup) String() string {
	return l.toLinesNode().String()
}

func (l Lookup) toLinesNode() *gotree.Node {
	switch {
	case l.IP != "":
		return gotree.New("Public IP lookup: fixed address " + l.IP)
	case l.Interface != "":
		return gotree.New("Public IP lookup: interface " + l.Interface)
	}
	node := gotree.New("Public IP lookup")
	node.Appendf("URL: %s", *l.URL)
	node.Appendf("Strict: %s", gosettings.BoolToYesNo(l.Strict))
	return node
}

func (l *Lookup) read(reader *reader.Reader) (err error) {
	l.URL = reader.Get("IP_LOOKUP_URL")
	l.Strict, err = reader.BoolPtr("IP_LOOKUP_STRICT")
	return err
}

// Resolver builds the resolver matching the settings.
func (l Lookup) Resolver() (ddns.Resolver, error) {
	switch {
	case l.IP != "":
		return ddns.FromString(l.IP)
	case l.Interface != "":
		return ddns.InterfaceResolver(l.Interface), nil
	default:
		return ddns.WebResolver(*l.URL)
	}
}
