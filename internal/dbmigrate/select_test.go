package dbmigrate

import (
	"testing"

	"github.com/fdg312/meal-planner/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectTarget(t *testing.T) {
	tests := []struct {
		name          string
		cfg           config.Config
		requireDirect bool
		wantURL       string
		wantSource    string
		wantWarning   bool
		wantErr       bool
	}{
		{
			name: "direct wins",
			cfg: config.Config{
				DatabaseURLDirect: "postgres://direct",
				DatabaseURLRaw:    "postgres://url",
				DatabaseURLPooled: "postgres://pooled",
			},
			wantURL:    "postgres://direct",
			wantSource: "DATABASE_URL_DIRECT",
		},
		{
			name: "falls back to DATABASE_URL",
			cfg: config.Config{
				DatabaseURLRaw:    "postgres://url",
				DatabaseURLPooled: "postgres://pooled",
			},
			wantURL:    "postgres://url",
			wantSource: "DATABASE_URL",
		},
		{
			name:        "pooled only warns",
			cfg:         config.Config{DatabaseURLPooled: "postgres://pooled"},
			wantURL:     "postgres://pooled",
			wantSource:  "DATABASE_URL_POOLED",
			wantWarning: true,
		},
		{
			name: "require direct rejects others",
			cfg: config.Config{
				DatabaseURLRaw:    "postgres://url",
				DatabaseURLPooled: "postgres://pooled",
			},
			requireDirect: true,
			wantErr:       true,
		},
		{
			name:          "require direct accepts direct",
			cfg:           config.Config{DatabaseURLDirect: "postgres://direct"},
			requireDirect: true,
			wantURL:       "postgres://direct",
			wantSource:    "DATABASE_URL_DIRECT",
		},
		{
			name:    "nothing configured",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := SelectTarget(&tt.cfg, tt.requireDirect)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantURL, target.URL)
			assert.Equal(t, tt.wantSource, target.Source)
			assert.Equal(t, tt.wantWarning, target.Warning != "")
		})
	}
}
