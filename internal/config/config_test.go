package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	t.Setenv("HTSCOMPASS_TEST_DIR", "/tmp/htscompass")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "tilde prefix", in: "~/data/catalog.db", want: filepath.Join(home, "data/catalog.db")},
		{name: "bare tilde", in: "~", want: home},
		{name: "env var", in: "$HTSCOMPASS_TEST_DIR/catalog.db", want: "/tmp/htscompass/catalog.db"},
		{name: "plain path untouched", in: "/var/lib/catalog.db", want: "/var/lib/catalog.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}
