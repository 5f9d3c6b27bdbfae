package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// harness runs gnft commands against throwaway config and data directories.
type harness struct {
	t         *testing.T
	configDir string
	dataDir   string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	for _, k := range []string{"GNFT_CONFIG_DIR", "GNFT_DATA_DIR", "GNFT_OPERATOR_TOKEN", "GNFT_ACCOUNT", "GNFT_LOG_LEVEL", "GNFT_BACKEND"} {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	return &harness{
		t:         t,
		configDir: filepath.Join(dir, "config"),
		dataDir:   filepath.Join(dir, "data"),
	}
}

// exec runs args and returns stdout, stderr and the exit code.
func (h *harness) exec(args ...string) (string, string, int) {
	h.t.Helper()
	var out, errOut bytes.Buffer
	full := append([]string{"--config-dir", h.configDir, "--data-dir", h.dataDir}, args...)
	code := run(full, &out, &errOut)
	return out.String(), errOut.String(), code
}

// ok runs args and fails the test unless the command succeeds.
func (h *harness) ok(args ...string) string {
	h.t.Helper()
	out, errOut, code := h.exec(args...)
	require.Equal(h.t, exitSuccess, code, "gnft %v: %s", args, errOut)
	return out
}

func (h *harness) jsonOut(v any, args ...string) {
	h.t.Helper()
	out := h.ok(append([]string{"--json"}, args...)...)
	require.NoError(h.t, json.Unmarshal([]byte(out), v), out)
}

func TestInit(t *testing.T) {
	h := newHarness(t)

	var res map[string]string
	h.jsonOut(&res, "init", "--account", "studio")
	assert.Equal(t, "studio", res["account"])
	assert.NotEmpty(t, res["operator_token"])
	assert.FileExists(t, filepath.Join(h.configDir, "config.yaml"))

	out := h.ok("init")
	assert.Contains(t, out, "already initialized")
}

func TestVersion(t *testing.T) {
	h := newHarness(t)
	assert.Contains(t, h.ok("version"), "gnft v")
}

func TestGenericLifecycle(t *testing.T) {
	h := newHarness(t)
	h.ok("init", "--account", "studio")

	h.ok("asset", "create", "10002", "5")
	h.ok("attr", "create", "generic", "20002", "Attack", "--desc", "base damage")
	h.ok("attr", "attach", "10002", "20002", "--value", "10")
	assert.Equal(t, "15\n", h.ok("attr", "increase", "10002", "20002", "5"))
	assert.Equal(t, "12\n", h.ok("attr", "decrease", "10002", "20002", "3"))

	var holdings []map[string]any
	h.jsonOut(&holdings, "attr", "show", "10002")
	require.Len(t, holdings, 1)
	assert.Equal(t, "generic", holdings[0]["behavior"])
	assert.Equal(t, "Attack", holdings[0]["name"])
	assert.EqualValues(t, 12, holdings[0]["value"])

	out := h.ok("asset", "burn", "10002", "5")
	assert.Contains(t, out, "asset destroyed")
	assert.Contains(t, h.ok("attr", "show", "10002"), "no attributes")
}

func TestUpgradeAndTransfer(t *testing.T) {
	h := newHarness(t)
	h.ok("init")

	h.ok("asset", "create", "10002", "1")
	h.ok("asset", "create", "10004", "1")
	h.ok("attr", "create", "upgradable", "20003", "Prefix", "--max-level", "3", "--ladder", "13")
	h.ok("attr", "create", "transferable", "20001", "Frost")

	h.ok("attr", "attach", "10002", "20003")
	assert.Contains(t, h.ok("attr", "upgrade", "10002", "20003", "2"), "level 2")
	_, _, code := h.exec("attr", "upgrade", "10002", "20003", "1")
	assert.Equal(t, exitUserError, code)

	h.ok("attr", "attach", "10002", "20001", "--value", "7")
	h.ok("attr", "attach", "10004", "20001", "--value", "1")
	_, _, code = h.exec("attr", "transfer", "10002", "10004", "20001")
	assert.Equal(t, exitUserError, code, "transfer without approval")

	h.ok("attr", "approve", "10002", "10004", "20001")
	h.ok("attr", "transfer", "10002", "10004", "20001")

	var holdings []map[string]any
	h.jsonOut(&holdings, "attr", "show", "10004")
	require.Len(t, holdings, 1)
	assert.EqualValues(t, 8, holdings[0]["value"])

	h.jsonOut(&holdings, "attr", "show", "10002")
	require.Len(t, holdings, 1, "only the upgradable attribute stays behind")
	assert.Equal(t, "upgradable", holdings[0]["behavior"])
	assert.EqualValues(t, 2, holdings[0]["level"])
}

func TestSameIDInTwoCatalogs(t *testing.T) {
	h := newHarness(t)
	h.ok("init")

	h.ok("asset", "create", "10002", "1")
	h.ok("asset", "create", "10004", "1")
	h.ok("attr", "create", "generic", "20001", "Attack")
	h.ok("attr", "create", "transferable", "20001", "Frost")

	_, errOut, code := h.exec("attr", "attach", "10002", "20001", "--value", "7")
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, errOut, "--behavior")

	h.ok("attr", "attach", "10002", "20001", "--behavior", "transferable", "--value", "7")
	h.ok("attr", "attach", "10004", "20001", "--behavior", "transferable", "--value", "1")
	h.ok("attr", "attach", "10002", "20001", "--behavior", "generic", "--value", "3")

	// Commands tied to one behavior pick their own catalog.
	h.ok("attr", "approve", "10002", "10004", "20001")
	h.ok("attr", "transfer", "10002", "10004", "20001")
	assert.Equal(t, "4\n", h.ok("attr", "increase", "10002", "20001", "1"))

	var holdings []map[string]any
	h.jsonOut(&holdings, "attr", "show", "10004")
	require.Len(t, holdings, 1)
	assert.Equal(t, "transferable", holdings[0]["behavior"])
	assert.EqualValues(t, 8, holdings[0]["value"])

	_, _, code = h.exec("attr", "detach", "10002", "20001")
	assert.Equal(t, exitUserError, code, "ambiguous detach")
	h.ok("attr", "detach", "10002", "20001", "--behavior", "generic")
	h.jsonOut(&holdings, "attr", "show", "10002")
	assert.Empty(t, holdings)

	_, _, code = h.exec("attr", "attach", "10002", "20001", "--behavior", "evolutive")
	assert.Equal(t, exitUserError, code, "no evolutive catalog holds 20001")
}

func TestEvolve(t *testing.T) {
	h := newHarness(t)
	h.ok("init")

	h.ok("asset", "create", "10001", "1")
	h.ok("attr", "create", "evolutive", "20004", "Bloom",
		"--thresholds", "0,80,200", "--values", "1,2,3")
	h.ok("attr", "attach", "10001", "20004", "--tick", "1000")

	assert.Contains(t, h.ok("attr", "evolve", "10001", "20004", "1100"), "stage 1")
	assert.Contains(t, h.ok("attr", "evolve", "10001", "20004", "1250"), "stage 2")

	var holdings []map[string]any
	h.jsonOut(&holdings, "attr", "show", "10001")
	require.Len(t, holdings, 1)
	assert.EqualValues(t, 3, holdings[0]["value"])
}

func TestCatalogLoadAndList(t *testing.T) {
	h := newHarness(t)
	h.ok("init")

	file := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`attributes:
  - attribute_id: 20002
    behavior: generic
    name: Attack
    decimals: 2
  - attribute_id: 20004
    behavior: evolutive
    name: Bloom
    stage_thresholds: [0, 80, 200]
    stage_values: [1, 2, 3]
`), 0o644))

	assert.Contains(t, h.ok("catalog", "load", file), "Loaded 2 attributes")

	var defs []map[string]any
	h.jsonOut(&defs, "catalog", "list")
	require.Len(t, defs, 2)
	assert.Equal(t, "generic", defs[0]["behavior"])
	assert.Equal(t, "evolutive", defs[1]["behavior"])

	h.jsonOut(&defs, "catalog", "list", "--behavior", "evolutive")
	require.Len(t, defs, 1)
	assert.Equal(t, "Bloom", defs[0]["name"])

	_, _, code := h.exec("catalog", "load", file)
	assert.Equal(t, exitUserError, code, "reloading duplicates fails")
}

func TestEvents(t *testing.T) {
	h := newHarness(t)
	h.ok("init")

	h.ok("asset", "create", "10002", "1")
	h.ok("asset", "create", "10003", "1")
	h.ok("attr", "create", "generic", "20002", "Attack")
	h.ok("attr", "attach", "10002", "20002", "--value", "1")
	h.ok("attr", "attach", "10003", "20002")
	h.ok("attr", "increase", "10002", "20002", "4")

	var events []map[string]any
	h.jsonOut(&events, "events", "--kind", "attach")
	assert.Len(t, events, 2)

	h.jsonOut(&events, "events", "--asset", "10002")
	require.Len(t, events, 2)
	assert.Equal(t, "attach", events[0]["kind"])
	assert.Equal(t, "increase", events[1]["kind"])

	h.jsonOut(&events, "events", "--limit", "1")
	assert.Len(t, events, 1)
}

func TestLedgerCommands(t *testing.T) {
	h := newHarness(t)
	h.ok("init", "--account", "studio")

	h.ok("asset", "create", "10002", "10", "--uri", "https://example.test/{id}.json")
	h.ok("asset", "transfer", "10002", "alice", "4")
	assert.Equal(t, "6\n", h.ok("asset", "balance", "10002"))
	assert.Equal(t, "4\n", h.ok("asset", "balance", "10002", "--account", "alice"))

	_, _, code := h.exec("asset", "transfer", "10002", "bob", "1", "--from", "alice")
	assert.Equal(t, exitUserError, code, "studio is not alice's operator")

	list := h.ok("asset", "list")
	assert.Contains(t, list, "10002")
	assert.NotContains(t, list, "\x1b[", "no styling on a captured writer")
}

func TestExitCodes(t *testing.T) {
	tests := []struct {
		name string
		init bool
		args []string
		want int
	}{
		{"unauthorized without init", false, []string{"attr", "create", "generic", "20002", "Attack"}, exitUserError},
		{"bad behavior", true, []string{"attr", "create", "sparkly", "20002", "Attack"}, exitUserError},
		{"zero attribute id", true, []string{"attr", "create", "generic", "0", "Attack"}, exitUserError},
		{"bad amount", true, []string{"asset", "create", "10002", "lots"}, exitUserError},
		{"wrong argument count", true, []string{"asset", "create", "10002"}, exitUserError},
		{"unknown flag", true, []string{"asset", "create", "10002", "1", "--colour", "red"}, exitUserError},
		{"unknown attribute", true, []string{"attr", "attach", "10002", "29999"}, exitUserError},
		{"unknown asset", true, []string{"asset", "burn", "10009", "1"}, exitUserError},
		{"missing catalog file", true, []string{"catalog", "load", "/nonexistent/catalog.yaml"}, exitSysError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			if tt.init {
				h.ok("init")
			}
			_, errOut, code := h.exec(tt.args...)
			assert.Equal(t, tt.want, code, errOut)
			assert.Contains(t, errOut, "error:")
		})
	}
}

func TestUnauthorizedPrintsHint(t *testing.T) {
	h := newHarness(t)
	_, errOut, code := h.exec("attr", "create", "generic", "20002", "Attack")
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, errOut, "hint:")
}
