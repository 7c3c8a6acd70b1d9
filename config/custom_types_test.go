/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestByteSize(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		yaml    string
		want    ByteSize
		wantErr bool
	}{
		{name: "integer", json: `1024`, yaml: `1024`, want: 1024},
		{name: "human-readable", json: `"10M"`, yaml: `10M`, want: 10 * 1024 * 1024},
		{name: "k8s suffix", json: `"1Gi"`, yaml: `1Gi`, want: 1024 * 1024 * 1024},
		{name: "invalid", json: `"ten"`, yaml: `ten`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fromJSON ByteSize
			errJSON := json.Unmarshal([]byte(tt.json), &fromJSON)
			var fromYAML ByteSize
			errYAML := yaml.Unmarshal([]byte(tt.yaml), &fromYAML)
			if tt.wantErr {
				require.Error(t, errJSON)
				require.Error(t, errYAML)
				return
			}
			require.NoError(t, errJSON)
			require.NoError(t, errYAML)
			require.Equal(t, tt.want, fromJSON)
			require.Equal(t, tt.want, fromYAML)
		})
	}

	require.Error(t, json.Unmarshal([]byte(`-1`), new(ByteSize)))

	data, err := json.Marshal(ByteSize(2 * 1024 * 1024))
	require.NoError(t, err)
	require.Equal(t, `"2M"`, string(data))
}
