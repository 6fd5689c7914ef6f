package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelfUpdateRefusesDevVersions(t *testing.T) {
	tests := []struct {
		name    string
		version string
	}{
		{name: "empty version", version: ""},
		{name: "dev version", version: "dev"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			originalVersion := rootCmd.Version
			defer func() { rootCmd.Version = originalVersion }()
			rootCmd.Version = tt.version

			cmd := newSelfUpdateCmd()
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})

			err := cmd.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "development version")
		})
	}
}

func TestSelfUpdateRejectsArguments(t *testing.T) {
	cmd := newSelfUpdateCmd()
	cmd.SetArgs([]string{"v2.0.0"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
}
