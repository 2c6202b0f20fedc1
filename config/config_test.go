package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "taqseet.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestInitConfigFromFile(t *testing.T) {
	path := writeConfigFile(t, `{
		"project_name": "Taqseet Test",
		"server": {"port": "6001"},
		"data_source": {"dns": "postgres://localhost/taqseet"},
		"payment_gateway": {
			"base_url": "https://gateway.example/v2",
			"secret_key": "sk_test_123"
		}
	}`)

	require.NoError(t, InitConfig(path))

	cnf, err := Fetch()
	require.NoError(t, err)
	assert.Equal(t, "Taqseet Test", cnf.ProjectName)
	assert.Equal(t, "6001", cnf.Server.Port)
	assert.Equal(t, "postgres://localhost/taqseet", cnf.DataSource.Dns)
	assert.Equal(t, "https://gateway.example/v2", cnf.PaymentGateway.BaseURL)
}

func TestInitConfigDefaults(t *testing.T) {
	path := writeConfigFile(t, `{
		"data_source": {"dns": "postgres://localhost/taqseet"}
	}`)

	require.NoError(t, InitConfig(path))

	cnf, err := Fetch()
	require.NoError(t, err)
	assert.Equal(t, "Taqseet Reconciliation", cnf.ProjectName)
	assert.Equal(t, DEFAULT_PORT, cnf.Server.Port)
	assert.Equal(t, "inv_", cnf.PaymentGateway.InvoicePrefix)
	assert.Equal(t, "chg_", cnf.PaymentGateway.ChargePrefix)
}

func TestInitConfigEnvOverride(t *testing.T) {
	t.Setenv("TAQSEET_SERVER_PORT", "7001")
	t.Setenv("TAQSEET_GATEWAY_SECRET_KEY", "sk_env_override")

	path := writeConfigFile(t, `{
		"server": {"port": "6001"},
		"data_source": {"dns": "postgres://localhost/taqseet"},
		"payment_gateway": {"secret_key": "sk_file"}
	}`)

	require.NoError(t, InitConfig(path))

	cnf, err := Fetch()
	require.NoError(t, err)
	assert.Equal(t, "7001", cnf.Server.Port)
	assert.Equal(t, "sk_env_override", cnf.PaymentGateway.SecretKey)
}

func TestInitConfigRequiresDataSource(t *testing.T) {
	path := writeConfigFile(t, `{"project_name": "No Datasource"}`)

	err := InitConfig(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "data source DNS is required")
}

func TestMockConfig(t *testing.T) {
	MockConfig(&Configuration{
		ProjectName: "Mocked",
		DataSource:  DataSourceConfig{Dns: "postgres://mock"},
	})

	cnf, err := Fetch()
	require.NoError(t, err)
	assert.Equal(t, "Mocked", cnf.ProjectName)
}
