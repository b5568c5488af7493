package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefines(t *testing.T) {
	values := parseDefines([]string{"APP_ROOT=/srv/app", "EMPTY=", "malformed", "=nameless"})
	assert.Equal(t, map[string]interface{}{
		"APP_ROOT": "/srv/app",
		"EMPTY":    "",
	}, values)
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "webaudit")
}
