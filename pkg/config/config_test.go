package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validHTTPConfig() HTTPConfig {
	var c HTTPConfig
	c.Port = 8000
	c.Timeout.Read = time.Second
	c.Timeout.Write = time.Second
	c.Timeout.Idle = time.Second
	c.Timeout.ReadHeader = time.Second
	return c
}

func Test_HTTPConfig_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		mutate    func(c *HTTPConfig)
		expectErr string
	}{
		{name: "Success - valid", mutate: func(*HTTPConfig) {}},
		{name: "Error - port zero", mutate: func(c *HTTPConfig) { c.Port = 0 }, expectErr: "invalid HTTP server port: 0"},
		{name: "Error - port too big", mutate: func(c *HTTPConfig) { c.Port = 70000 }, expectErr: "invalid HTTP server port: 70000"},
		{name: "Error - read timeout", mutate: func(c *HTTPConfig) { c.Timeout.Read = 0 }, expectErr: "invalid HTTP server read timeout: 0s"},
		{name: "Error - read header timeout", mutate: func(c *HTTPConfig) { c.Timeout.ReadHeader = 0 }, expectErr: "invalid HTTP server read header timeout: 0s"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := validHTTPConfig()
			tc.mutate(&c)
			err := c.Validate()
			if tc.expectErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tc.expectErr)
		})
	}
}

func Test_DatabaseConfig_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		cfg       DatabaseConfig
		expectErr string
	}{
		{name: "Success - postgres", cfg: DatabaseConfig{URL: "postgres://u:p@db:5432/products", Timeout: time.Second}},
		{name: "Success - postgresql", cfg: DatabaseConfig{URL: "postgresql://db/products", Timeout: time.Second}},
		{name: "Error - empty", cfg: DatabaseConfig{Timeout: time.Second}, expectErr: "database URL is not configured"},
		{name: "Error - mysql", cfg: DatabaseConfig{URL: "mysql://root:password@db/products", Timeout: time.Second}, expectErr: "database URL must start with 'postgres://': ****@db/products"},
		{name: "Error - timeout", cfg: DatabaseConfig{URL: "postgres://db/products"}, expectErr: "invalid database connect timeout: 0s"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.expectErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tc.expectErr)
		})
	}
}

func Test_MaskURL(t *testing.T) {
	assert.Equal(t, "<not configured>", MaskURL(""))
	assert.Equal(t, "****@db:5432/products", MaskURL("postgres://user:secret@db:5432/products"))
	assert.Equal(t, "****", MaskURL("postgres://db/products"))
}

func Test_StoreConfig_Validate(t *testing.T) {
	assert.NoError(t, (&StoreConfig{Driver: StoreDriverMemory}).Validate())
	assert.NoError(t, (&StoreConfig{Driver: StoreDriverPostgres}).Validate())
	assert.EqualError(t, (&StoreConfig{Driver: "mysql"}).Validate(), `unknown store driver: "mysql"`)
	assert.Error(t, (&StoreConfig{}).Validate())
}

func Test_LogConfig_Validate(t *testing.T) {
	assert.NoError(t, (&LogConfig{}).Validate())
	assert.NoError(t, (&LogConfig{Level: "debug"}).Validate())
	assert.EqualError(t, (&LogConfig{Level: "trace"}).Validate(), `invalid log level: "trace"`)
}

func Test_GrpcServerConfig_Validate(t *testing.T) {
	c := GrpcServerConfig{Port: "9090"}
	require.NoError(t, c.Validate())
	assert.Equal(t, defaultHealthInterval, c.HealthInterval)

	assert.EqualError(t, (&GrpcServerConfig{}).Validate(), "gRPC port is not configured")
}

func Test_PProfConfig_Validate(t *testing.T) {
	assert.NoError(t, (&PProfConfig{}).Validate())
	assert.Error(t, (&PProfConfig{Enabled: true}).Validate())
}

func Test_ShutdownConfig_Validate(t *testing.T) {
	assert.NoError(t, (&ShutdownConfig{Timeout: time.Second}).Validate())
	assert.EqualError(t, (&ShutdownConfig{}).Validate(), "shutdown timeout is not configured")
}

func Test_TelemetryConfig_Validate(t *testing.T) {
	assert.NoError(t, (&TelemetryConfig{}).Validate(), "disabled needs no endpoint")

	enabled := TelemetryConfig{Enabled: true}
	assert.EqualError(t, enabled.Validate(), "OTel endpoint is not configured")

	enabled.Traces.OtlpHttp.Endpoint = "otel-collector:4318"
	assert.EqualError(t, enabled.Validate(), "telemetry timeout must be greater than 0")

	enabled.Traces.OtlpHttp.Timeout = 5 * time.Second
	assert.NoError(t, enabled.Validate())
	assert.Contains(t, enabled.String(), "otel-collector:4318")
}

func Test_CircuitBreakerConfig_Validate(t *testing.T) {
	assert.NoError(t, (&CircuitBreakerConfig{}).Validate(), "disabled breaker is always valid")

	valid := CircuitBreakerConfig{Enabled: true, ConsecutiveFailures: 5, ErrorRatePercent: 50, OpenTimeout: time.Second}
	assert.NoError(t, valid.Validate())

	noFailures := valid
	noFailures.ConsecutiveFailures = 0
	assert.Error(t, noFailures.Validate())

	badRate := valid
	badRate.ErrorRatePercent = 101
	assert.Error(t, badRate.Validate())

	noTimeout := valid
	noTimeout.OpenTimeout = 0
	assert.Error(t, noTimeout.Validate())
}
