//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"fmt"
	"net"
)

// DialAddress converts a listen address into an address a local client can dial.
// An override wins; a listen address without a host (":50061") or bound to every
// interface becomes loopback.
func DialAddress(listenAddress, override string) (string, error) {
	if override != "" {
		return override, nil
	}

	host, port, err := net.SplitHostPort(listenAddress)
	if err != nil {
		return "", fmt.Errorf("invalid listen address format %q: %w", listenAddress, err)
	}

	switch host {
	case "", "0.0.0.0", "::":
		host = "127.0.0.1"
	}

	return net.JoinHostPort(host, port), nil
}
