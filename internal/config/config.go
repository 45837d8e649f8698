// Package config reads, defaults and validates the settings of ddnscf.
package config

import (
	"fmt"

	ddns "github.com/Travis-Britz/cfddns"
	"github.com/qdm12/gosettings/reader"
	"github.com/qdm12/gotree"
)

type Config struct {
	Cloudflare Cloudflare
	Lookup     Lookup
	Logger     Logger
}

func (c *Config) SetDefaults() {
	c.Cloudflare.setDefaults()
	c.Lookup.setDefaults()
	c.Logger.setDefaults()
}

// Validate checks every section, reporting the first failing one.
// Missing Cloudflare credentials come back as a *ddns.ConfigError naming all of them.
func (c Config) Validate() (err error) {
	type validator interface {
		Validate() (err error)
	}
	toValidate := []struct {
		name string
		v    validator
	}{
		{"cloudflare", &c.Cloudflare},
		{"public IP lookup", &c.Lookup},
		{"logger", &c.Logger},
	}

	for _, section := range toValidate {
		err = section.v.Validate()
		if err != nil {
			return fmt.Errorf("%s settings: %w", section.name, err)
		}
	}

	return nil
}

func (c Config) String() string {
	return c.toLinesNode().String()
}

func (c Config) toLinesNode() *gotree.Node {
	node := gotree.New("Settings summary:")
	node.AppendNode(c.Cloudflare.toLinesNode())
	node.AppendNode(c.Lookup.toLinesNode())
	node.AppendNode(c.Logger.toLinesNode())
	return node
}

func (c *Config) Read(reader *reader.Reader) (err error) {
	c.Cloudflare.read(reader)
	err = c.Lookup.read(reader)
	if err != nil {
		return fmt.Errorf("reading public IP lookup settings: %w", err)
	}

	err = c.Logger.read(reader)
	if err != nil {
		return fmt.Errorf("reading logger settings: %w", err)
	}

	return nil
}

// Credentials returns the credentials handed to ddns.New.
func (c Config) Credentials() ddns.Credentials {
	return ddns.Credentials{
		Email:    c.Cloudflare.Email,
		APIToken: c.Cloudflare.APIToken,
		ZoneID:   c.Cloudflare.ZoneID,
		RecordID: c.Cloudflare.RecordID,
	}
}
