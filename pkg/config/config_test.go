package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestParse_OverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
version: "1.2"
log:
  level: debug
reconciler:
  nestedUpdateLimit: 5
metrics:
  enabled: true
  namespace: app
tracing:
  enabled: true
  exporter: stdout
`))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 5, cfg.Reconciler.NestedUpdateLimit)
	assert.Equal(t, 10000, cfg.Scheduler.FlushLimit)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "app", cfg.Metrics.Namespace)
	assert.Equal(t, "stdout", cfg.Tracing.Exporter)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad level", "log: {level: loud}"},
		{"bad format", "log: {format: xml}"},
		{"zero nested limit", "reconciler: {nestedUpdateLimit: 0}"},
		{"negative flush limit", "scheduler: {flushLimit: -1}"},
		{"bad exporter", "tracing: {exporter: otlp}"},
		{"namespace required", "metrics: {enabled: true, namespace: ''}"},
		{"namespace charset", "metrics: {namespace: my-app}"},
		{"missing version", "version: ''"},
		{"bad version", "version: latest"},
		{"major version", "version: v2.0.0"},
		{"not yaml", "log: [level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestCheckVersion(t *testing.T) {
	for _, v := range []string{"v1", "1.0.0", "v1.4.2", " v1.0.0-rc.1 "} {
		assert.NoError(t, CheckVersion(v), v)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte("log: {format: json}\n"), 0o644))

	cfg, err = Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Log.Format)

	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Log.Format)

	require.NoError(t, os.WriteFile(path, []byte("version: v3.0.0\n"), 0o644))
	_, err = Load(path)
	assert.ErrorContains(t, err, FileName)
}
