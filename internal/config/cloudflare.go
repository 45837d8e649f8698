package config

import (
	"fmt"

	ddns "github.com/Travis-Britz/cfddns"
	"github.com/qdm12/gosettings/reader"
	"github.com/qdm12/gotree"
)

type Cloudflare struct {
	Email     string
	APIToken  string
	TokenFile string
	ZoneID    string
	RecordID  string
}

func (c *Cloudflare) setDefaults() {}

func (c Cloudflare) Validate() (err error) {
	creds := ddns.Credentials{
		Email:    c.Email,
		APIToken: c.APIToken,
		ZoneID:   c.ZoneID,
		RecordID: c.RecordID,
	}
	return creds.Validate()
}

func (c Cloudflare) String() string {
	return c.toLinesNode().String()
}

func (c Cloudflare) toLinesNode() *gotree.Node {
	node := gotree.New("Cloudflare")
	node.Appendf("Email: %s", orNotSet(c.Email))
	node.Appendf("API token: %s", obfuscate(c.APIToken))
	if c.TokenFile != "" {
		node.Appendf("API token file: %s", c.TokenFile)
	}
	node.Appendf("Zone ID: %s", orNotSet(c.ZoneID))
	node.Appendf("Record ID: %s", orNotSet(c.RecordID))
	return node
}

func (c *Cloudflare) read(reader *reader.Reader) {
	c.Email = reader.String("CLOUDFLARE_EMAIL")
	c.APIToken = reader.String("CLOUDFLARE_API_TOKEN")
	c.TokenFile = reader.String("CLOUDFLARE_API_TOKEN_FILE")
	c.ZoneID = reader.String("ZONE_ID")
	c.RecordID = reader.String("RECORD_ID")
}

// ReadTokenFile replaces the API token with the first line of TokenFile, if set.
// The file must only be accessible to its owner.
func (c *Cloudflare) ReadTokenFile() (err error) {
	if c.TokenFile == "" {
		return nil
	}
	if err := VerifyPermissions(c.TokenFile); err != nil {
		return err
	}
	c.APIToken, err = ReadKey(c.TokenFile)
	if err != nil {
		return fmt.Errorf("reading API token file: %w", err)
	}
	return nil
}

func orNotSet(s string) string {
	if s == "" {
		return "[not set]"
	}
	return s
}

func obfuscate(secret string) string {
	const visible = 2
	switch {
	case secret == "":
		return "[not set]"
	case len(secret) <= 2*visible:
		return "[set]"
	default:
		return secret[:visible] + "..." + secret[len(secret)-visible:]
	}
}
