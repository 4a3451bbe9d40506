package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/diegok/pixball/internal/game"
)

func noEnv(string) (string, bool) { return "", false }

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := parse(nil, noEnv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Share {
		t.Error("expected Share to be false")
	}
	if cfg.IsWatcher() {
		t.Error("expected not to be a watcher")
	}
	if cfg.Port != DefaultPort {
		t.Errorf("expected port %d, got %d", DefaultPort, cfg.Port)
	}
	if cfg.HTTPPort != 0 {
		t.Errorf("expected http port 0, got %d", cfg.HTTPPort)
	}
	if !cfg.Sound {
		t.Error("expected sound on by default")
	}
	if cfg.Ball != game.DefaultParams() {
		t.Errorf("expected default ball params, got %+v", cfg.Ball)
	}
	if cfg.CellWidth != DefaultCellWidth || cfg.CellHeight != DefaultCellHeight {
		t.Errorf("expected cell %dx%d, got %dx%d", DefaultCellWidth, DefaultCellHeight, cfg.CellWidth, cfg.CellHeight)
	}
}

func TestParse_ShareMode(t *testing.T) {
	args := []string{"--share", "--port", "8080", "--http-port", "8081", "--name", "Alice"}
	cfg, err := parse(args, noEnv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Share {
		t.Error("expected Share to be true")
	}
	if cfg.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Port)
	}
	if cfg.HTTPPort != 8081 {
		t.Errorf("expected http port 8081, got %d", cfg.HTTPPort)
	}
	if cfg.PlayerName != "Alice" {
		t.Errorf("expected name 'Alice', got '%s'", cfg.PlayerName)
	}
}

func TestParse_WatchMode(t *testing.T) {
	cfg, err := parse([]string{"--watch", "192.168.1.100"}, noEnv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.IsWatcher() {
		t.Error("expected watcher")
	}
	if cfg.WatchAddr != "192.168.1.100" {
		t.Errorf("expected WatchAddr '192.168.1.100', got '%s'", cfg.WatchAddr)
	}
}

func TestParse_BallTuning(t *testing.T) {
	args := []string{"--radius", "16", "--damping", "0.99", "--bounce", "0.7",
		"--min-speed", "0.5", "--max-throw", "20", "--min-width", "400",
		"--cell-width", "10", "--cell-height", "20", "--seed", "42"}
	cfg, err := parse(args, noEnv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := game.Params{
		Radius:           16,
		Damping:          0.99,
		BounceDamping:    0.7,
		MinVelocity:      0.5,
		MaxThrow:         20,
		MinViewportWidth: 400,
	}
	if cfg.Ball != want {
		t.Errorf("expected %+v, got %+v", want, cfg.Ball)
	}
	if cfg.CellWidth != 10 || cfg.CellHeight != 20 {
		t.Errorf("expected cell 10x20, got %dx%d", cfg.CellWidth, cfg.CellHeight)
	}
	if cfg.Seed != 42 {
		t.Errorf("expected seed 42, got %d", cfg.Seed)
	}
}

func TestParse_EnvDefaults(t *testing.T) {
	env := envMap(map[string]string{
		EnvPort:     "7000",
		EnvHTTPPort: "7001",
		EnvName:     "Bob",
		EnvSound:    "false",
		EnvLog:      "/tmp/pixball.log",
		EnvSeed:     "9",
	})

	cfg, err := parse([]string{"--share"}, env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 7000 {
		t.Errorf("expected port 7000, got %d", cfg.Port)
	}
	if cfg.HTTPPort != 7001 {
		t.Errorf("expected http port 7001, got %d", cfg.HTTPPort)
	}
	if cfg.PlayerName != "Bob" {
		t.Errorf("expected name 'Bob', got '%s'", cfg.PlayerName)
	}
	if cfg.Sound {
		t.Error("expected sound off from environment")
	}
	if cfg.LogFile != "/tmp/pixball.log" {
		t.Errorf("expected log file from environment, got '%s'", cfg.LogFile)
	}
	if cfg.Seed != 9 {
		t.Errorf("expected seed 9, got %d", cfg.Seed)
	}

	// Flags beat the environment.
	cfg, err = parse([]string{"--share", "--port", "7100", "--sound"}, env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 7100 {
		t.Errorf("expected port 7100, got %d", cfg.Port)
	}
	if !cfg.Sound {
		t.Error("expected --sound to override the environment")
	}
}

func TestParse_BadEnv(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"port", EnvPort, "abc"},
		{"http port", EnvHTTPPort, "x"},
		{"sound", EnvSound, "maybe"},
		{"seed", EnvSeed, "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(nil, envMap(map[string]string{tt.key: tt.val}))
			if err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.val)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"share and watch", []string{"--share", "--watch", "localhost"}},
		{"port too low", []string{"--port", "0"}},
		{"port too high", []string{"--port", "65536"}},
		{"negative http port", []string{"--share", "--http-port", "-1"}},
		{"http port without share", []string{"--http-port", "8081"}},
		{"http port equals port", []string{"--share", "--port", "8080", "--http-port", "8080"}},
		{"zero radius", []string{"--radius", "0"}},
		{"damping above one", []string{"--damping", "1.5"}},
		{"zero damping", []string{"--damping", "0"}},
		{"zero bounce", []string{"--bounce", "0"}},
		{"zero min speed", []string{"--min-speed", "0"}},
		{"max throw below min speed", []string{"--min-speed", "2", "--max-throw", "1"}},
		{"negative min width", []string{"--min-width", "-1"}},
		{"zero cell width", []string{"--cell-width", "0"}},
		{"unknown flag", []string{"--bogus"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parse(tt.args, noEnv); err == nil {
				t.Errorf("expected error for %v", tt.args)
			}
		})
	}
}

func TestParse_ValidPortBoundaries(t *testing.T) {
	tests := []struct {
		name string
		port string
		want int
	}{
		{"minimum port", "1", 1},
		{"maximum port", "65535", 65535},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := parse([]string{"--share", "--port", tt.port}, noEnv)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.Port != tt.want {
				t.Errorf("expected port %d, got %d", tt.want, cfg.Port)
			}
		})
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("PIXBALL_TEST_LOADENV=hello\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("PIXBALL_TEST_LOADENV", "")
	os.Unsetenv("PIXBALL_TEST_LOADENV")

	if err := LoadEnv(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := os.Getenv("PIXBALL_TEST_LOADENV"); got != "hello" {
		t.Errorf("expected 'hello', got '%s'", got)
	}
}

func TestDefaultConstants(t *testing.T) {
	if DefaultPort != 5556 {
		t.Errorf("expected DefaultPort 5556, got %d", DefaultPort)
	}
}
