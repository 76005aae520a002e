package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// DefaultPort is used when neither PORT nor the port key is set.
const DefaultPort = 3000

// PortError reports a port setting that is not a number in 0-65535. It is
// surfaced instead of falling back to the default so misconfiguration shows up
// at startup.
type PortError struct {
	Value string
	Err   error
}

func (e *PortError) Error() string {
	return fmt.Sprintf("PORT must be a number, got %q (%v)", e.Value, e.Err)
}

func (e *PortError) Unwrap() error { return e.Err }

// Port reads the configured port number.
func Port(v *viper.Viper) (uint16, error) {
	raw := strings.TrimSpace(v.GetString("port"))
	n, err := strconv.ParseUint(raw, 10, 16)
	if err != nil {
		return 0, &PortError{Value: raw, Err: err}
	}
	return uint16(n), nil
}

// ListenAddr returns http_addr when set, otherwise ":<port>", which listens on
// every local IPv4 and IPv6 address.
func ListenAddr(v *viper.Viper) (string, error) {
	if addr := strings.TrimSpace(v.GetString("http_addr")); addr != "" {
		return addr, nil
	}
	p, err := Port(v)
	if err != nil {
		return "", err
	}
	return net.JoinHostPort("", strconv.Itoa(int(p))), nil
}
