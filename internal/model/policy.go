package model

import (
	"errors"
	"net"
	"strings"
)

// ErrNetworkDisabled is returned when fetch mode runs without --net.
var ErrNetworkDisabled = errors.New("network access is disabled (pass --net to enable)")

// NetworkPolicy gates outbound HTTP requests. Networking is deny-by-default;
// an empty allow-list means every domain is permitted once networking is
// enabled.
type NetworkPolicy struct {
	Enabled      bool
	AllowDomains []string
}

// Allow returns an error if the host (optionally host:port) may not be
// contacted under this policy. Subdomains of an allowed domain are allowed.
func (p NetworkPolicy) Allow(host string) error {
	if !p.Enabled {
		return ErrNetworkDisabled
	}

	h := normalizeHost(host)
	if h == "" {
		return errors.New("invalid host for network request")
	}

	if len(p.AllowDomains) == 0 {
		return nil
	}

	for _, allowed := range p.AllowDomains {
		a := strings.ToLower(strings.TrimSpace(allowed))
		if a == "" {
			continue
		}

		if h == a || strings.HasSuffix(h, "."+a) {
			return nil
		}
	}

	return errors.New("domain not allowed by --allow-domain policy: " + h)
}

func normalizeHost(host string) string {
	h := strings.ToLower(strings.TrimSpace(host))
	if h == "" {
		return ""
	}

	if strings.Contains(h, ":") {
		if hostOnly, _, err := net.SplitHostPort(h); err == nil && hostOnly != "" {
			return strings.Trim(hostOnly, "[]")
		}
	}

	return strings.Trim(h, "[]")
}
