//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestDetectActor ensures hostname and username are detected and non-empty.
func TestDetectActor(t *testing.T) {
	t.Parallel()

	a, err := DetectActor()
	require.NoError(t, err)
	require.NotEmpty(t, a.Hostname)
	require.NotEmpty(t, a.Username)
	require.Equal(t, "cli-"+a.Hostname, a.DeviceID())
	require.Equal(t, a.Username+"@"+a.Hostname, a.String())
}

func TestDialAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		listen   string
		override string
		want     string
		wantErr  bool
	}{
		{name: "port only", listen: ":50061", want: "127.0.0.1:50061"},
		{name: "all interfaces", listen: "0.0.0.0:50061", want: "127.0.0.1:50061"},
		{name: "ipv6 any", listen: "[::]:50061", want: "127.0.0.1:50061"},
		{name: "explicit host", listen: "10.0.0.5:50061", want: "10.0.0.5:50061"},
		{name: "override", listen: ":50061", override: "edge-box:7000", want: "edge-box:7000"},
		{name: "malformed", listen: "50061", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := DialAddress(tt.listen, tt.override)
			if tt.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
