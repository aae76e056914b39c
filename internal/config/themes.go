package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// ThemeEntry describes one branding theme and its tax treatment.
// Identifiers may be the accounting platform's GUID or a friendly name;
// both resolve to the same entry.
type ThemeEntry struct {
	Identifiers []string `mapstructure:"identifiers"`
	DisplayName string   `mapstructure:"displayName"`
	Treatment   string   `mapstructure:"treatment"`
	AccountCode string   `mapstructure:"accountCode"`
	VATPercent  float64  `mapstructure:"vatPercent"`
	Explanation string   `mapstructure:"explanation"`
}

// ThemeConfig is the full branding-theme table.
type ThemeConfig struct {
	Themes []ThemeEntry `mapstructure:"themes"`
}

// DefaultThemeConfig is the built-in table used when no themes.yml is
// present. These mirror the invoice templates configured in the
// accounting platform.
func DefaultThemeConfig() ThemeConfig {
	return ThemeConfig{
		Themes: []ThemeEntry{
			{
				Identifiers: []string{"standard-vat", "9c4c7e6f-3f2b-4a56-9f14-1d2f2a1c0b31", "Standard (20% VAT)"},
				DisplayName: "Standard (20% VAT)",
				Treatment:   "standard_rated",
				AccountCode: "200",
				VATPercent:  20,
				Explanation: "Domestic sale, VAT charged at the standard rate.",
			},
			{
				Identifiers: []string{"margin-scheme", "5b1d3c8a-7e90-4f12-8a44-6c0e9b7d2f18", "Margin Scheme"},
				DisplayName: "Margin Scheme",
				Treatment:   "margin_scheme",
				AccountCode: "201",
				VATPercent:  0,
				Explanation: "Second-hand margin scheme, no VAT on the headline price.",
			},
			{
				Identifiers: []string{"export-zero", "e7a2f9b4-1c3d-4e5f-a6b7-8c9d0e1f2a3b", "Export (0% VAT)"},
				DisplayName: "Export (0% VAT)",
				Treatment:   "zero_rated_export",
				AccountCode: "202",
				VATPercent:  0,
				Explanation: "Export sale outside the VAT area, zero-rated.",
			},
		},
	}
}

// ThemeConfigHolder serves the current theme table and hot-reloads it
// when the backing file changes.
type ThemeConfigHolder struct {
	current atomic.Value // holds ThemeConfig
}

func NewThemeConfigHolder() (*ThemeConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("themes")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/dealdesk/config")
	v.AddConfigPath("/etc/dealdesk")
	v.AddConfigPath(".")

	v.SetEnvPrefix("DEALDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := DefaultThemeConfig()
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	} else {
		var loaded ThemeConfig
		if err := v.Unmarshal(&loaded); err != nil {
			return nil, err
		}
		if err := validateThemeConfig(loaded); err != nil {
			return nil, err
		}
		cfg = loaded
	}

	holder := &ThemeConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated ThemeConfig
		if err := v.Unmarshal(&updated); err != nil {
			log.Printf("[theme-config] reload failed: %v", err)
			return
		}
		if err := validateThemeConfig(updated); err != nil {
			log.Printf("[theme-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[theme-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *ThemeConfigHolder) Get() ThemeConfig {
	return h.current.Load().(ThemeConfig)
}

func validateThemeConfig(cfg ThemeConfig) error {
	if len(cfg.Themes) == 0 {
		return errors.New("themes cannot be empty")
	}
	for _, t := range cfg.Themes {
		if len(t.Identifiers) == 0 {
			return errors.New("theme entry missing identifiers")
		}
		if t.VATPercent != 0 && t.VATPercent != 20 {
			return errors.New("theme vatPercent must be 0 or 20")
		}
	}
	return nil
}
