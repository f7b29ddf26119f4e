package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/readme-agent/internal/core/domain"
)

func TestOverrideFlags_Overrides(t *testing.T) {
	tests := []struct {
		name    string
		flags   overrideFlags
		want    Overrides
		wantErr bool
	}{
		{
			name:  "empty",
			flags: overrideFlags{},
			want:  Overrides{},
		},
		{
			name:  "all set",
			flags: overrideFlags{provider: "gemini", model: "gemini-2.0-flash", maxFiles: 20, cache: "sqlite", local: "."},
			want: Overrides{
				Provider: domain.AIProviderGemini,
				Model:    "gemini-2.0-flash",
				MaxFiles: 20,
				Cache:    domain.CacheBackendSQLite,
				Local:    ".",
			},
		},
		{name: "unknown provider", flags: overrideFlags{provider: "watson"}, wantErr: true},
		{name: "unknown cache", flags: overrideFlags{cache: "redis"}, wantErr: true},
		{name: "negative max files", flags: overrideFlags{maxFiles: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.flags.overrides()
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveTarget(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		local   string
		want    domain.RepoRef
		wantErr bool
	}{
		{name: "owner/repo", args: []string{"octo/demo"}, want: domain.RepoRef{Owner: "octo", Name: "demo"}},
		{name: "url", args: []string{"https://github.com/octo/demo"}, want: domain.RepoRef{Owner: "octo", Name: "demo"}},
		{name: "local", local: "/work/my-app", want: domain.RepoRef{Owner: "local", Name: "my-app"}},
		{name: "missing", wantErr: true},
		{name: "both", args: []string{"octo/demo"}, local: ".", wantErr: true},
		{name: "invalid", args: []string{"not a repo"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveTarget(tt.args, tt.local)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
