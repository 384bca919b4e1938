package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-caixa/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"PORT":              "",
		"SHIPPING_FLAT_FEE": "",
		"APP_ENV":           "",
	})
	require.NoError(t, err)
	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Equal(t, "15.00", cfg.ShippingFlatFee.StringFixed(2))
	require.True(t, cfg.MetricsEnabled)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"PORT":                  "9090",
		"SHIPPING_FLAT_FEE":     "0",
		"OBS_ENABLE_PROMETHEUS": "false",
		"CORS_ALLOWED_ORIGINS":  "http://a.test, http://b.test",
	})
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddr())
	require.True(t, cfg.ShippingFlatFee.IsZero())
	require.False(t, cfg.MetricsEnabled)
	require.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
}

func TestLoadRejectsNegativeShipping(t *testing.T) {
	_, err := config.LoadForTests(map[string]string{"SHIPPING_FLAT_FEE": "-1"})
	require.Error(t, err)
}
