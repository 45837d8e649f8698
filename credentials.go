package ddns

// Credentials identifies the provider account and the record to keep in sync.
type Credentials struct {
	// Email is the optional account email. It is informational only:
	// API tokens authenticate on their own.
	Email    string
	APIToken string
	ZoneID   string
	RecordID string
}

// Validate returns a *ConfigError naming every missing required field,
// or nil if APIToken, ZoneID and RecordID are all set.
func (c Credentials) Validate() error {
	var missing []string
	if c.APIToken == "" {
		missing = append(missing, "API token")
	}
	if c.ZoneID == "" {
		missing = append(missing, "zone identifier")
	}
	if c.RecordID == "" {
		missing = append(missing, "record identifier")
	}
	if len(missing) > 0 {
		return &ConfigError{Missing: missing}
	}
	return nil
}
