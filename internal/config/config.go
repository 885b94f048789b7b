package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Sweep    SweepConfig
	Formats  map[string]BankFormat
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Addr string
	Mode string
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// SweepConfig controls the scheduled recategorization sweep.
type SweepConfig struct {
	Enabled  bool
	Schedule string
}

// BankFormat describes one bank's CSV export layout. Column indexes are
// zero-based; BalanceCol is -1 for formats that do not report a balance.
type BankFormat struct {
	Label      string `mapstructure:"label"`
	SkipRows   int    `mapstructure:"skip_rows"`
	DateCol    int    `mapstructure:"date_col"`
	DescCol    int    `mapstructure:"desc_col"`
	AmountCol  int    `mapstructure:"amount_col"`
	BalanceCol int    `mapstructure:"balance_col"`
}

// Format looks up a bank format by its identifier. The id is an opaque key
// into the configured registry, never interpreted by the parser itself.
func (c Config) Format(id string) (BankFormat, bool) {
	f, ok := c.Formats[strings.ToLower(strings.TrimSpace(id))]
	return f, ok
}

// FormatLabels returns the enumerable id -> display label mapping.
func (c Config) FormatLabels() map[string]string {
	out := make(map[string]string, len(c.Formats))
	for id, f := range c.Formats {
		out[id] = f.Label
	}
	return out
}

// Load reads configuration from file and env. Env var overrides use prefix FAMILYBUDGET_.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("server.addr", ":8087")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "familybudget", "familybudget.db"))
	v.SetDefault("sweep.enabled", false)
	v.SetDefault("sweep.schedule", "0 3 * * *")

	for id, f := range DefaultFormats() {
		v.SetDefault("formats."+id+".label", f.Label)
		v.SetDefault("formats."+id+".skip_rows", f.SkipRows)
		v.SetDefault("formats."+id+".date_col", f.DateCol)
		v.SetDefault("formats."+id+".desc_col", f.DescCol)
		v.SetDefault("formats."+id+".amount_col", f.AmountCol)
		v.SetDefault("formats."+id+".balance_col", f.BalanceCol)
	}

	v.SetConfigType("toml")

	cfgPath := os.Getenv("FAMILYBUDGET_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "familybudget"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("FAMILYBUDGET")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// DefaultFormats is the built-in bank format registry. The anz and amex
// exports share a layout except that amex carries no running balance; the
// ing export leads with two header rows and swaps the description and
// amount columns.
func DefaultFormats() map[string]BankFormat {
	return map[string]BankFormat{
		"anz": {
			Label:      "ANZ - Standard Export",
			SkipRows:   0,
			DateCol:    0,
			AmountCol:  1,
			DescCol:    2,
			BalanceCol: 3,
		},
		"amex": {
			Label:      "Amex - Statement Export",
			SkipRows:   0,
			DateCol:    0,
			AmountCol:  1,
			DescCol:    2,
			BalanceCol: -1,
		},
		"ing": {
			Label:      "ING - Detailed Export",
			SkipRows:   2,
			DateCol:    0,
			DescCol:    1,
			AmountCol:  2,
			BalanceCol: 3,
		},
	}
}
