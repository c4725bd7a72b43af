package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotesync/internal/adapters/codec"
	"github.com/jsamuelsen/quotesync/internal/domain"
)

// setupEnv runs the command in an empty directory with storage in a temp
// file, so only built-in defaults and APP_ overrides apply.
func setupEnv(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)

	t.Setenv("APP_STORAGE_PATH", filepath.Join(dir, "quotes.db"))
	t.Setenv("APP_LOG_LEVEL", "error")
	t.Setenv("APP_CLIENT_RETRY_MAX_ATTEMPTS", "1")

	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--profile", "test"}, args...))

	err := cmd.Execute()

	return stdout.String(), err
}

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestExport_Stdout(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "export")
	require.NoError(t, err)

	want, err := codec.Export(domain.SeedQuotes())
	require.NoError(t, err)
	assert.Equal(t, string(want)+"\n", out)
}

func TestExport_File(t *testing.T) {
	dir := setupEnv(t)
	target := filepath.Join(dir, "out.json")

	out, err := execute(t, "export", "--out", target)
	require.NoError(t, err)
	assert.Empty(t, out)

	doc, err := os.ReadFile(target)
	require.NoError(t, err)

	quotes, err := codec.Import(doc)
	require.NoError(t, err)
	assert.Equal(t, domain.SeedQuotes(), quotes)
}

func TestImport(t *testing.T) {
	dir := setupEnv(t)

	first := writeDoc(t, dir, "a.json", `[{"text":"Imported","category":"Test"},{"text":"","category":"Skip"}]`)
	second := writeDoc(t, dir, "b.json", `[{"text":"Also imported","category":"Test"}]`)

	out, err := execute(t, "import", first, second)
	require.NoError(t, err)
	assert.Equal(t, "imported 2 quotes\n", out)

	// The import survives a restart.
	out, err = execute(t, "export")
	require.NoError(t, err)

	quotes, err := codec.Import([]byte(out))
	require.NoError(t, err)
	require.Len(t, quotes, len(domain.SeedQuotes())+2)
	assert.Equal(t, domain.Quote{Text: "Imported", Category: "Test"}, quotes[len(quotes)-2])
	assert.Equal(t, domain.Quote{Text: "Also imported", Category: "Test"}, quotes[len(quotes)-1])
}

func TestImport_RejectsWholeBatch(t *testing.T) {
	dir := setupEnv(t)

	good := writeDoc(t, dir, "good.json", `[{"text":"Fine","category":"Test"}]`)
	bad := writeDoc(t, dir, "bad.json", `{"text":"not an array"}`)

	_, err := execute(t, "import", good, bad)
	require.Error(t, err)
	assert.True(t, domain.IsFormat(err))

	out, err := execute(t, "export")
	require.NoError(t, err)

	quotes, err := codec.Import([]byte(out))
	require.NoError(t, err)
	assert.Len(t, quotes, len(domain.SeedQuotes()))
}

func TestImport_Args(t *testing.T) {
	setupEnv(t)

	_, err := execute(t, "import")
	require.Error(t, err)

	_, err = execute(t, "import", "does-not-exist.json")
	require.ErrorContains(t, err, "does-not-exist.json")
}

func TestSync(t *testing.T) {
	setupEnv(t)

	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/posts", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"title":"S1"},{"title":"S2"},{"title":"S3"},{"title":"S4"}]`))
	}))
	t.Cleanup(remote.Close)
	t.Setenv("APP_SERVICES_REMOTE_BASE_URL", remote.URL)

	out, err := execute(t, "sync")
	require.NoError(t, err)
	assert.Equal(t, domain.MessageSynced+"\n"+"fetched 3, total 6\n", out)

	out, err = execute(t, "export")
	require.NoError(t, err)

	quotes, err := codec.Import([]byte(out))
	require.NoError(t, err)

	var server []string

	for _, q := range quotes {
		if q.Category == domain.ServerCategory {
			server = append(server, q.Text)
		}
	}

	assert.Equal(t, []string{"S1", "S2", "S3"}, server)
}

func TestSync_RemoteDown(t *testing.T) {
	setupEnv(t)

	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(remote.Close)
	t.Setenv("APP_SERVICES_REMOTE_BASE_URL", remote.URL)

	_, err := execute(t, "sync")
	require.Error(t, err)
	assert.True(t, domain.IsNetwork(err))
	assert.ErrorContains(t, err, domain.MessageSyncFailed)
}

func TestRoot_InvalidConfig(t *testing.T) {
	setupEnv(t)
	t.Setenv("APP_SYNC_INTERVAL", "1ms")

	_, err := execute(t, "export")
	require.ErrorContains(t, err, "invalid config")
}

func TestProfileFromEnv(t *testing.T) {
	t.Setenv("APP_ENVIRONMENT", "")
	assert.Equal(t, defaultProfile, profileFromEnv())

	t.Setenv("APP_ENVIRONMENT", "qa")
	assert.Equal(t, "qa", profileFromEnv())
}

func TestConfigDir(t *testing.T) {
	dir := setupEnv(t)

	cfgDir := filepath.Join(dir, "conf")
	require.NoError(t, os.Mkdir(cfgDir, 0o700))
	writeDoc(t, cfgDir, "test.yaml", "app:\n  environment: staging\n")

	_, err := execute(t, "--config-dir", cfgDir, "export")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "app.environment")
}
