package types

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DRepublic-io/gNFT/internal/errors"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{"empty backend", Config{DataDir: "/tmp/gnft"}, ErrBackendEmpty},
		{"unknown backend", Config{Backend: "postgres", DataDir: "/tmp/gnft"}, ErrBackendUnknown},
		{"sqlite", Config{Backend: BackendSQLite, DataDir: "/tmp/gnft"}, nil},
		{"sqlite without data dir", Config{Backend: BackendSQLite}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestConfigUnknownBackendHint(t *testing.T) {
	err := Config{Backend: "postgres"}.Validate()
	assert.Contains(t, errors.GetAllHints(err), "supported backends: [sqlite]")
}

func TestConfigWithDefaults(t *testing.T) {
	assert.Equal(t, DefaultDataDir, Config{Backend: BackendSQLite}.WithDefaults().DataDir)
	assert.Equal(t, "/var/gnft", Config{DataDir: "/var/gnft"}.WithDefaults().DataDir)
}
