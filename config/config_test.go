package config

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const studioConfig = `
host = "10.0.0.7"
port = 9300

[sequence]
step = 2
rebuild = true

[monitor]
interval = "250ms"

[farm]
cpu = ["8", "16", "32"]
ram = ["16G", "32G"]
export_dir = "/jobs/{{.Rop}}"
export_name = "{{.Rop}}.$F4.ass"
command = "submit {{quote .AssFile}}"
dry_run = true
`

func writeConfig(t *testing.T, payload string) string {
	path := filepath.Join(t.TempDir(), "aton.toml")
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	t.Setenv(EnvHost, "")
	t.Setenv(EnvPort, "")

	cfg := Default()
	assert.Equal(t, DefaultHost, cfg.Host)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, 1, cfg.Sequence.Step)
	assert.Equal(t, time.Second, cfg.Monitor.Interval)
	assert.NoError(t, cfg.Validate())
}

func TestEnvironment(t *testing.T) {
	specs := []struct {
		host, port string
		expHost    string
		expPort    int
	}{
		{"render01", "9500", "render01", 9500},
		{"", "not-a-port", DefaultHost, DefaultPort},
		{"", "-3", DefaultHost, DefaultPort},
	}

	for index, spec := range specs {
		t.Setenv(EnvHost, spec.host)
		t.Setenv(EnvPort, spec.port)
		cfg := Default()
		if cfg.Host != spec.expHost || cfg.Port != spec.expPort {
			t.Fatalf("[spec %d] expected %s:%d; got %s:%d", index, spec.expHost, spec.expPort, cfg.Host, cfg.Port)
		}
	}
}

func TestLoadFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, studioConfig))
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.7", cfg.Host)
	assert.Equal(t, 9300, cfg.Port)
	assert.True(t, cfg.PortIncrement)
	assert.Equal(t, Sequence{Step: 2, Rebuild: true}, cfg.Sequence)
	assert.Equal(t, "hick", cfg.Monitor.Process)
	assert.Equal(t, 250*time.Millisecond, cfg.Monitor.Interval)
	assert.Equal(t, []string{"8", "16", "32"}, cfg.Farm.CPUMenu())
	assert.Equal(t, "/jobs/beauty", cfg.Farm.ExportPath("beauty"))
	assert.True(t, cfg.Farm.DryRun)
}

func TestLoadRemote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(studioConfig))
	}))
	defer server.Close()

	cfg, err := Load(server.URL + "/aton.toml")
	require.NoError(t, err)
	assert.Equal(t, 9300, cfg.Port)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(writeConfig(t, `colour = "red"`))
	assert.ErrorIs(t, err, ErrUnknownKeys)

	_, err = Load(writeConfig(t, `port = 70000`))
	assert.ErrorIs(t, err, ErrInvalidPort)

	_, err = Load(writeConfig(t, "[sequence]\nstep = 0"))
	assert.ErrorIs(t, err, ErrInvalidStep)

	_, err = Load(writeConfig(t, `host = `))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestInstancePort(t *testing.T) {
	cfg := &Config{Port: 9201}
	assert.Equal(t, 9201, cfg.InstancePort(0))
	assert.Equal(t, 9203, cfg.InstancePort(2))
}
