package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestResolveDeviceIP(t *testing.T) {
	t.Run("explicit flag wins", func(t *testing.T) {
		cfg := &Config{DeviceIP: "10.0.0.5"}
		got, err := cfg.ResolveDeviceIP("192.168.1.20")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "192.168.1.20" {
			t.Errorf("got %q, want 192.168.1.20", got)
		}
	})

	t.Run("falls back to configured value", func(t *testing.T) {
		cfg := &Config{DeviceIP: "10.0.0.5"}
		got, err := cfg.ResolveDeviceIP("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "10.0.0.5" {
			t.Errorf("got %q, want 10.0.0.5", got)
		}
	})

	t.Run("errors when nothing is set", func(t *testing.T) {
		cfg := &Config{}
		if _, err := cfg.ResolveDeviceIP(""); !errors.Is(err, ErrNoDeviceAddress) {
			t.Errorf("got %v, want ErrNoDeviceAddress", err)
		}
	})
}

func TestResolveAPIKey(t *testing.T) {
	t.Run("explicit flag wins", func(t *testing.T) {
		cfg := &Config{StadiaAPIKey: "from-env"}
		got, err := cfg.ResolveAPIKey("from-flag")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "from-flag" {
			t.Errorf("got %q, want from-flag", got)
		}
	})

	t.Run("errors when nothing is set", func(t *testing.T) {
		cfg := &Config{}
		if _, err := cfg.ResolveAPIKey(""); !errors.Is(err, ErrNoAPIKey) {
			t.Errorf("got %v, want ErrNoAPIKey", err)
		}
	})
}

func TestLoadFile(t *testing.T) {
	t.Run("missing file is not an error", func(t *testing.T) {
		fileCfg, err := loadFile(filepath.Join(t.TempDir(), "nope.yaml"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if fileCfg.DeviceIP != "" {
			t.Errorf("expected empty config, got %+v", fileCfg)
		}
	})

	t.Run("parses yaml fields", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		data := "device_ip: 10.1.2.3\nstadia_api_key: abc123\nmap_style: alidade_smooth\n"
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}

		fileCfg, err := loadFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if fileCfg.DeviceIP != "10.1.2.3" {
			t.Errorf("DeviceIP = %q, want 10.1.2.3", fileCfg.DeviceIP)
		}
		if fileCfg.StadiaAPIKey != "abc123" {
			t.Errorf("StadiaAPIKey = %q, want abc123", fileCfg.StadiaAPIKey)
		}
		if fileCfg.MapStyle != "alidade_smooth" {
			t.Errorf("MapStyle = %q, want alidade_smooth", fileCfg.MapStyle)
		}
	})

	t.Run("invalid yaml is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("{not yaml"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := loadFile(path); err == nil {
			t.Error("expected an error for invalid yaml")
		}
	})
}

func TestGetEnv(t *testing.T) {
	t.Run("returns value when set", func(t *testing.T) {
		t.Setenv("TEST_GET_ENV_KEY", "myvalue")
		if got := getEnv("TEST_GET_ENV_KEY", "default"); got != "myvalue" {
			t.Errorf("got %q, want myvalue", got)
		}
	})

	t.Run("returns default when unset", func(t *testing.T) {
		os.Unsetenv("TEST_GET_ENV_KEY_MISSING")
		if got := getEnv("TEST_GET_ENV_KEY_MISSING", "fallback"); got != "fallback" {
			t.Errorf("got %q, want fallback", got)
		}
	})
}
