package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleManifest = `
apiVersion: chainflow/v1
kind: Topology
metadata:
  name: sample
engine:
  tickerInterval: 50ms
log:
  level: debug
  json: true
events:
  - id: ORDER_PLACED
    description: a new order was placed
chains:
  - name: seq
    auto: true
    elements:
      - name: log-a
        operator: LogMessage
        params:
          message: A
      - name: wait
        operator: WaitTime
        params:
          delay: 10s
`

func writeManifest(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "topology.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadParsesManifest(t *testing.T) {
	path := writeManifest(t, sampleManifest)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sample", cfg.Metadata.Name)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.JSON)
	require.Len(t, cfg.Events, 1)
	assert.Equal(t, "ORDER_PLACED", cfg.Events[0].ID)
	require.Len(t, cfg.Chains, 1)
	assert.True(t, cfg.Chains[0].Auto)
	require.Len(t, cfg.Chains[0].Elements, 2)
}

func TestEngineConfigTickerDuration(t *testing.T) {
	path := writeManifest(t, sampleManifest)
	cfg, err := Load(path)
	require.NoError(t, err)

	d, err := cfg.Engine.TickerDuration()
	require.NoError(t, err)
	assert.Equal(t, 50*time.Millisecond, d)
}

func TestEngineConfigTickerDurationDefaultsWhenUnset(t *testing.T) {
	var e EngineConfig
	d, err := e.TickerDuration()
	require.NoError(t, err)
	assert.Equal(t, 100*time.Millisecond, d)
}

func TestElementDefParamAccessors(t *testing.T) {
	el := ElementDef{Params: map[string]interface{}{
		"message": "hello",
		"count":   3,
		"delay":   "10s",
		"chains":  []interface{}{"a", "b"},
	}}

	assert.Equal(t, "hello", el.GetString("message", ""))
	assert.Equal(t, "fallback", el.GetString("missing", "fallback"))
	assert.Equal(t, 3, el.GetInt("count", 0))
	assert.Equal(t, 0, el.GetInt("missing", 0))
	assert.Equal(t, 10*time.Second, el.GetDuration("delay", 0))
	assert.Equal(t, []string{"a", "b"}, el.GetStringSlice("chains"))
	assert.Nil(t, el.GetStringSlice("missing"))
}

func TestLoadRejectsDuplicateChainName(t *testing.T) {
	path := writeManifest(t, `
chains:
  - name: seq
  - name: seq
`)
	_, err := Load(path)
	assert.ErrorContains(t, err, "duplicate chain name")
}

func TestLoadRejectsMissingElementOperator(t *testing.T) {
	path := writeManifest(t, `
chains:
  - name: seq
    elements:
      - name: el
`)
	_, err := Load(path)
	assert.ErrorContains(t, err, "has no operator")
}

func TestLoadRejectsUnreadableFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsUnsupportedKind(t *testing.T) {
	path := writeManifest(t, `
kind: Deployment
chains: []
`)
	_, err := Load(path)
	assert.ErrorContains(t, err, "unsupported kind")
}
