package commands

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd(io.Discard)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func useTempStore(t *testing.T) {
	t.Helper()
	t.Setenv("DDATA_STORE_DRIVER", "sqlite")
	t.Setenv("DDATA_STORE_DSN", filepath.Join(t.TempDir(), "store.db"))
}

func decodeJSON(t *testing.T, s string) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &out))
	return out
}

func TestHydrate_YAMLFolder(t *testing.T) {
	path := writeFile(t, "folder.yaml", "id: 5\nname: Docs\nuri: /docs\nunknown: dropped\n")

	out, err := run(t, "", "hydrate", "--model", "folder", path)
	require.NoError(t, err)

	want := map[string]any{
		"id":             float64(5),
		"parent_id":      float64(0),
		"description":    "",
		"name":           "Docs",
		"is_highlighted": false,
		"uri":            "/docs",
	}
	if diff := cmp.Diff(want, decodeJSON(t, out)); diff != "" {
		t.Errorf("hydrate output mismatch (-want +got):\n%s", diff)
	}
}

func TestHydrate_StdinToYAML(t *testing.T) {
	out, err := run(t, `{"name":"go","color":""}`, "hydrate", "-m", "tag", "-o", "yaml", "-")
	require.NoError(t, err)

	assert.Contains(t, out, "#cccccc")
	assert.Contains(t, out, "name: go")
}

func TestHydrate_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown model", args: []string{"hydrate", "-m", "invoice", "-"}},
		{name: "unknown extension", args: []string{"hydrate", writeFile(t, "folder.txt", "{}")}},
		{name: "not an object", args: []string{"hydrate", writeFile(t, "folder.json", "[1]")}},
		{name: "missing file", args: []string{"hydrate", "/nonexistent/folder.json"}},
		{name: "unknown output", args: []string{"hydrate", "-o", "xml", writeFile(t, "f.json", "{}")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, "{}", tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	valid := writeFile(t, "tag.json", `{"name":"go","counter":3}`)
	out, err := run(t, "", "validate", "-m", "tag", valid)
	require.NoError(t, err)
	assert.Equal(t, "Tag: valid\n", out)

	invalid := writeFile(t, "folder.json", `{"uri":"no-slash"}`)
	out, err = run(t, "", "validate", "-m", "folder", invalid)
	assert.ErrorIs(t, err, errInvalid)
	assert.Contains(t, out, "Folder: invalid")
	assert.Contains(t, out, "  name: failed rules: required")
	assert.Contains(t, out, "  uri: ")
}

func TestStore_RoundTrip(t *testing.T) {
	useTempStore(t)
	folder := writeFile(t, "folder.json", `{"name":"Docs","uri":"/docs"}`)

	out, err := run(t, "", "store", "put", "-m", "folder", folder)
	require.NoError(t, err)
	assert.Equal(t, float64(1), decodeJSON(t, out)["id"])

	_, err = run(t, "", "store", "put", "-m", "folder", writeFile(t, "second.json", `{"name":"Second"}`))
	require.NoError(t, err)

	out, err = run(t, "", "store", "get", "-m", "folder", "1")
	require.NoError(t, err)
	assert.Equal(t, "Docs", decodeJSON(t, out)["name"])

	out, err = run(t, "", "store", "list", "-m", "folder", "--per-page", "1", "--page", "2")
	require.NoError(t, err)
	page := decodeJSON(t, out)
	assert.Equal(t, float64(2), page["total"])
	assert.Equal(t, float64(2), page["last_page"])
	items, ok := page["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, "Second", items[0].(map[string]any)["name"])

	out, err = run(t, "", "store", "delete", "-m", "folder", "1")
	require.NoError(t, err)
	assert.Equal(t, "deleted 1\n", out)

	_, err = run(t, "", "store", "get", "-m", "folder", "1")
	assert.Error(t, err)
}

func TestStore_PutRejectsInvalid(t *testing.T) {
	useTempStore(t)

	_, err := run(t, `{"text":""}`, "store", "put", "-m", "notification", "-")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestNotify(t *testing.T) {
	useTempStore(t)
	t.Setenv("DDATA_USER_ID", "42")

	start := time.Now()
	out, err := run(t, "", "notify", "Report ready", "--title", "Reports", "--type", "success", "--seconds", "-10", "--save")
	require.NoError(t, err)

	n := decodeJSON(t, out)
	assert.Equal(t, "Report ready", n["text"])
	assert.Equal(t, "Reports", n["title"])
	assert.Equal(t, "success", n["type"])
	created, err := time.Parse(time.RFC3339Nano, n["created_time"].(string))
	require.NoError(t, err)
	assert.WithinDuration(t, start.Add(-10*time.Second), created, time.Second)

	id, ok := n["id"].(string)
	require.True(t, ok)
	out, err = run(t, "", "store", "get", "-m", "notification", id)
	require.NoError(t, err)
	assert.Equal(t, "Report ready", decodeJSON(t, out)["text"])
}

func TestRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tag/3":
			_, _ = io.WriteString(w, `{"id":3,"name":"go","counter":7}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	t.Setenv("DDATA_API_BASE_URL", srv.URL+"/api")

	out, err := run(t, "", "fetch", "-m", "tag", "3")
	require.NoError(t, err)
	got := decodeJSON(t, out)
	assert.Equal(t, "go", got["name"])
	assert.Equal(t, "#cccccc", got["color"])

	_, err = run(t, "", "remote", "get", "-m", "tag", "4")
	assert.Error(t, err)
}

func TestRemote_NotConfigured(t *testing.T) {
	t.Setenv("DDATA_API_BASE_URL", "")

	_, err := run(t, "", "fetch", "1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no REST API configured")
}

func TestModels(t *testing.T) {
	out, err := run(t, "", "models")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "folder "))
	assert.Contains(t, lines[3], "/tag")
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		probes     []healthProbe
		wantStatus int
	}{
		{name: "no probes", wantStatus: http.StatusOK},
		{name: "closed", probes: []healthProbe{{Name: "rest-api", Open: func() bool { return false }}}, wantStatus: http.StatusOK},
		{name: "open", probes: []healthProbe{
			{Name: "rest-api", Open: func() bool { return false }},
			{Name: "store:sqlite", Open: func() bool { return true }},
		}, wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			healthHandler(func() []healthProbe { return tt.probes })(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			var resp HealthResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.wantStatus == http.StatusOK, resp.Healthy)
			assert.Len(t, resp.Breakers, len(tt.probes))
		})
	}
}
