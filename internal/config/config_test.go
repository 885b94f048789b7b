package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8087", c.Server.Addr)
	require.Equal(t, "debug", c.Server.Mode)
	require.False(t, c.Sweep.Enabled)
	require.Equal(t, "0 3 * * *", c.Sweep.Schedule)
	require.Contains(t, c.Database.Path, "familybudget.db")
	require.Len(t, c.Formats, 3)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("FAMILYBUDGET_SERVER_ADDR", ":9000")
	t.Setenv("FAMILYBUDGET_SWEEP_ENABLED", "true")

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9000", c.Server.Addr)
	require.True(t, c.Sweep.Enabled)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
addr = ":9099"

[formats.custom]
label = "Custom Bank"
skip_rows = 1
date_col = 0
desc_col = 1
amount_col = 2
balance_col = -1
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("FAMILYBUDGET_CONFIG", path)

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9099", c.Server.Addr)

	f, ok := c.Format("custom")
	require.True(t, ok)
	require.Equal(t, "Custom Bank", f.Label)
	require.Equal(t, 1, f.SkipRows)
	require.Equal(t, -1, f.BalanceCol)

	// built-in formats survive alongside file-defined ones
	_, ok = c.Format("anz")
	require.True(t, ok)
}

func TestFormat_LookupNormalizesID(t *testing.T) {
	c := Config{Formats: DefaultFormats()}

	f, ok := c.Format("  ANZ ")
	require.True(t, ok)
	require.Equal(t, "ANZ - Standard Export", f.Label)

	_, ok = c.Format("nab")
	require.False(t, ok)
}

func TestFormatLabels(t *testing.T) {
	c := Config{Formats: DefaultFormats()}
	labels := c.FormatLabels()
	require.Len(t, labels, 3)
	require.Equal(t, "ING - Detailed Export", labels["ing"])
}
