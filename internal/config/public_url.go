package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

// PublicURL parses public_url. It returns nil when the key is empty; a set
// value must be an absolute http(s) URL without query or fragment.
func PublicURL(v *viper.Viper) (*url.URL, error) {
	raw := strings.TrimSpace(v.GetString("public_url"))
	if raw == "" {
		return nil, nil
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("public_url %q must be an absolute http(s) url", raw)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return nil, fmt.Errorf("public_url %q must not have a query or fragment", raw)
	}
	return u, nil
}
