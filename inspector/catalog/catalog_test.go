package catalog_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codelens/webaudit/inspector/catalog"
)

func TestCatalog_Load(t *testing.T) {
	dir := t.TempDir()
	views := filepath.Join(dir, "views.txt")
	procs := filepath.Join(dir, "procs.txt")

	require.NoError(t, os.WriteFile(views, []byte("# known views\nv_orders\n\nv_customers\n"), 0o644))
	require.NoError(t, os.WriteFile(procs, []byte("sp_cleanup\n# legacy\nsp_billing\n"), 0o644))

	c := catalog.New()
	require.NoError(t, c.Load(context.Background(), views, procs))

	assert.True(t, c.IsView("v_orders"))
	assert.True(t, c.IsView("v_customers"))
	assert.False(t, c.IsView("orders"))
	assert.True(t, c.IsProcedure("sp_cleanup"))
	assert.True(t, c.IsProcedure("sp_billing"))
	assert.False(t, c.IsProcedure("# legacy"))
}

func TestCatalog_LoadMissingFile(t *testing.T) {
	c := catalog.New()
	err := c.Load(context.Background(), filepath.Join(t.TempDir(), "absent.txt"), "")
	assert.Error(t, err)
}

func TestCatalog_RegisterSymbols(t *testing.T) {
	c := catalog.New()
	c.RegisterSymbols(map[string]interface{}{
		"APP_ROOT": "/srv/app",
		"RETRIES":  3, // non-string values are opaque and skipped
	}, "runtime")

	symbol, ok := c.Symbol("APP_ROOT")
	require.True(t, ok)
	assert.Equal(t, "/srv/app", symbol.Value)
	assert.Equal(t, catalog.KindConstant, symbol.Kind)
	assert.Equal(t, "runtime", symbol.Origin)

	_, ok = c.Symbol("RETRIES")
	assert.False(t, ok)

	assert.Equal(t, map[string]string{"APP_ROOT": "/srv/app"}, c.SymbolValues())
}
