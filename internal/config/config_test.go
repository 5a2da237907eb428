package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
	_ "time/tzdata"
)

func isolate(t *testing.T) (string, string) {
	t.Helper()

	tmp := t.TempDir()
	xdgConfig := filepath.Join(tmp, "config")
	xdgState := filepath.Join(tmp, "state")
	if err := os.MkdirAll(filepath.Join(xdgConfig, "waybar"), 0o755); err != nil {
		t.Fatalf("mkdir config: %v", err)
	}

	t.Setenv("XDG_CONFIG_HOME", xdgConfig)
	t.Setenv("XDG_STATE_HOME", xdgState)
	t.Setenv("HOME", tmp)
	return xdgConfig, xdgState
}

func TestLoad_Defaults(t *testing.T) {
	xdgConfig, xdgState := isolate(t)
	t.Setenv("WAYBAR_HARVESTER_CONFIG_FILE", filepath.Join(xdgConfig, "missing.env"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.EventName != "Harvester" {
		t.Fatalf("event name mismatch: %s", cfg.EventName)
	}
	if cfg.RespectDayFilter {
		t.Fatalf("day filter must default to off")
	}
	if cfg.Location != time.Local {
		t.Fatalf("expected local zone by default, got %v", cfg.Location)
	}
	if cfg.Timeout != 15*time.Second || cfg.CacheTTL != time.Minute {
		t.Fatalf("timeouts mismatch: %v %v", cfg.Timeout, cfg.CacheTTL)
	}
	if cfg.SnapshotPath != filepath.Join(xdgState, "waybar", "harvester", "events.json") {
		t.Fatalf("snapshot path mismatch: %s", cfg.SnapshotPath)
	}
	if cfg.MenuPath != filepath.Join(xdgState, "waybar", "menus", "harvester.xml") {
		t.Fatalf("menu path mismatch: %s", cfg.MenuPath)
	}
	if !reflect.DeepEqual(cfg.ShortcutPhrases, []string{"next harvester"}) {
		t.Fatalf("shortcut phrases mismatch: %v", cfg.ShortcutPhrases)
	}
}

func TestLoad_ConfigFileOverrides(t *testing.T) {
	xdgConfig, _ := isolate(t)

	configFile := filepath.Join(xdgConfig, "waybar", "harvester.env")
	content := "# harvester\n" +
		"MAX_ITEMS=99\n" +
		"export RESPECT_DAY_FILTER=true\n" +
		"WAYBAR_HARVESTER_TIMEZONE=\"Australia/Sydney\"\n" +
		"WAYBAR_HARVESTER_SHORTCUT_PHRASES='Next Harvester, when is  HARVEST'\n" +
		"WAYBAR_HARVESTER_TIMEOUT_SECONDS=3\n"
	if err := os.WriteFile(configFile, []byte(content), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	t.Setenv("WAYBAR_HARVESTER_CONFIG_FILE", configFile)
	t.Setenv("WAYBAR_HARVESTER_TIMEOUT_SECONDS", "7")
	t.Cleanup(func() {
		for _, key := range []string{"MAX_ITEMS", "RESPECT_DAY_FILTER", "WAYBAR_HARVESTER_TIMEZONE", "WAYBAR_HARVESTER_SHORTCUT_PHRASES"} {
			_ = os.Unsetenv(key)
		}
	})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.MaxItems != maxListItems {
		t.Fatalf("max items mismatch: %d", cfg.MaxItems)
	}
	if !cfg.RespectDayFilter {
		t.Fatalf("expected day filter on")
	}
	if cfg.Location.String() != "Australia/Sydney" {
		t.Fatalf("timezone mismatch: %s", cfg.Location)
	}
	if cfg.Timeout != 7*time.Second {
		t.Fatalf("environment must win over the file, got %v", cfg.Timeout)
	}
	if !reflect.DeepEqual(cfg.ShortcutPhrases, []string{"next harvester", "when is harvest"}) {
		t.Fatalf("shortcut phrases mismatch: %v", cfg.ShortcutPhrases)
	}

	resolver := cfg.Resolver()
	if !resolver.RespectDayFilter || resolver.Now().Location().String() != "Australia/Sydney" {
		t.Fatalf("resolver not configured from runtime: %+v", resolver)
	}
}

func TestLoad_InvalidTimezone(t *testing.T) {
	xdgConfig, _ := isolate(t)
	t.Setenv("WAYBAR_HARVESTER_CONFIG_FILE", filepath.Join(xdgConfig, "missing.env"))
	t.Setenv("WAYBAR_HARVESTER_TIMEZONE", "Mars/Olympus")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown timezone")
	}
}
