package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/ini.v1"

	"github.com/rbright/waybar-harvester/internal/feed"
	"github.com/rbright/waybar-harvester/internal/harvester"
)

const (
	maxListItems           = 24
	defaultShortcutPhrase  = "next harvester"
	defaultRefreshSchedule = "@every 1m"
)

type Runtime struct {
	ConfigFile string

	FeedURL          string
	EventName        string
	Location         *time.Location
	RespectDayFilter bool
	IconBaseURL      string
	MaxItems         int
	Timeout          time.Duration
	CacheTTL         time.Duration
	NotifyLead       time.Duration

	StateDir      string
	MenuDir       string
	MenuPath      string
	SnapshotPath  string
	NotifiedPath  string
	SelectionPath string

	Listen          string
	RefreshCron     string
	LogLevel        string
	LogFormat       string
	ShortcutPhrases []string
}

func Load() (Runtime, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Runtime{}, fmt.Errorf("resolve home dir: %w", err)
	}

	xdgConfig := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME"))
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}

	xdgState := strings.TrimSpace(os.Getenv("XDG_STATE_HOME"))
	if xdgState == "" {
		xdgState = filepath.Join(home, ".local", "state")
	}

	defaultConfig := filepath.Join(xdgConfig, "waybar", "harvester.env")
	configFile := strings.TrimSpace(os.Getenv("WAYBAR_HARVESTER_CONFIG_FILE"))
	if configFile == "" {
		configFile = defaultConfig
	}

	if err := LoadEnvFile(configFile); err != nil {
		return Runtime{}, err
	}

	v := viper.New()
	v.SetEnvPrefix("WAYBAR_HARVESTER")
	v.AutomaticEnv()

	_ = v.BindEnv("feed_url", "WAYBAR_HARVESTER_FEED_URL", "FEED_URL")
	_ = v.BindEnv("event_name", "WAYBAR_HARVESTER_EVENT_NAME", "EVENT_NAME")
	_ = v.BindEnv("timezone", "WAYBAR_HARVESTER_TIMEZONE")
	_ = v.BindEnv("respect_day_filter", "WAYBAR_HARVESTER_RESPECT_DAY_FILTER", "RESPECT_DAY_FILTER")
	_ = v.BindEnv("icon_base_url", "WAYBAR_HARVESTER_ICON_BASE_URL")
	_ = v.BindEnv("max_items", "WAYBAR_HARVESTER_MAX_ITEMS", "MAX_ITEMS")
	_ = v.BindEnv("timeout_seconds", "WAYBAR_HARVESTER_TIMEOUT_SECONDS")
	_ = v.BindEnv("cache_ttl_seconds", "WAYBAR_HARVESTER_CACHE_TTL_SECONDS")
	_ = v.BindEnv("notify_lead_minutes", "WAYBAR_HARVESTER_NOTIFY_LEAD_MINUTES", "NOTIFY_LEAD_MINUTES")
	_ = v.BindEnv("state_dir", "WAYBAR_HARVESTER_STATE_DIR")
	_ = v.BindEnv("menu_dir", "WAYBAR_HARVESTER_MENU_DIR")
	_ = v.BindEnv("selection_file", "WAYBAR_HARVESTER_SELECTION_FILE")
	_ = v.BindEnv("listen", "WAYBAR_HARVESTER_LISTEN", "LISTEN")
	_ = v.BindEnv("refresh_cron", "WAYBAR_HARVESTER_REFRESH_CRON")
	_ = v.BindEnv("log_level", "WAYBAR_HARVESTER_LOG_LEVEL", "LOG_LEVEL")
	_ = v.BindEnv("log_format", "WAYBAR_HARVESTER_LOG_FORMAT")
	_ = v.BindEnv("shortcut_phrases", "WAYBAR_HARVESTER_SHORTCUT_PHRASES")

	v.SetDefault("feed_url", feed.DefaultURL)
	v.SetDefault("event_name", harvester.DefaultEventName)
	v.SetDefault("timezone", "")
	v.SetDefault("respect_day_filter", false)
	v.SetDefault("icon_base_url", harvester.DefaultIconBaseURL)
	v.SetDefault("max_items", 8)
	v.SetDefault("timeout_seconds", 15)
	v.SetDefault("cache_ttl_seconds", 60)
	v.SetDefault("notify_lead_minutes", 10)
	v.SetDefault("state_dir", filepath.Join(xdgState, "waybar", "harvester"))
	v.SetDefault("menu_dir", filepath.Join(xdgState, "waybar", "menus"))
	v.SetDefault("selection_file", filepath.Join(xdgConfig, "waybar", "harvester-selected-maps.json"))
	v.SetDefault("listen", "127.0.0.1:3000")
	v.SetDefault("refresh_cron", defaultRefreshSchedule)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("shortcut_phrases", defaultShortcutPhrase)

	location := time.Local
	if zone := strings.TrimSpace(v.GetString("timezone")); zone != "" {
		loaded, err := time.LoadLocation(zone)
		if err != nil {
			return Runtime{}, fmt.Errorf("load timezone %q: %w", zone, err)
		}
		location = loaded
	}

	maxItems := v.GetInt("max_items")
	if maxItems < 1 {
		maxItems = 1
	}
	if maxItems > maxListItems {
		maxItems = maxListItems
	}

	timeoutSeconds := v.GetInt("timeout_seconds")
	if timeoutSeconds <= 0 {
		timeoutSeconds = 15
	}

	cacheTTLSeconds := v.GetInt("cache_ttl_seconds")
	if cacheTTLSeconds < 0 {
		cacheTTLSeconds = 0
	}

	notifyLeadMinutes := v.GetInt("notify_lead_minutes")
	if notifyLeadMinutes < 0 {
		notifyLeadMinutes = 0
	}

	stateDir := firstNonEmpty(v.GetString("state_dir"), filepath.Join(xdgState, "waybar", "harvester"))
	menuDir := firstNonEmpty(v.GetString("menu_dir"), filepath.Join(xdgState, "waybar", "menus"))
	selectionPath := firstNonEmpty(v.GetString("selection_file"), filepath.Join(xdgConfig, "waybar", "harvester-selected-maps.json"))

	return Runtime{
		ConfigFile:       configFile,
		FeedURL:          firstNonEmpty(v.GetString("feed_url"), feed.DefaultURL),
		EventName:        firstNonEmpty(v.GetString("event_name"), harvester.DefaultEventName),
		Location:         location,
		RespectDayFilter: v.GetBool("respect_day_filter"),
		IconBaseURL:      firstNonEmpty(v.GetString("icon_base_url"), harvester.DefaultIconBaseURL),
		MaxItems:         maxItems,
		Timeout:          time.Duration(timeoutSeconds) * time.Second,
		CacheTTL:         time.Duration(cacheTTLSeconds) * time.Second,
		NotifyLead:       time.Duration(notifyLeadMinutes) * time.Minute,
		StateDir:         stateDir,
		MenuDir:          menuDir,
		MenuPath:         filepath.Join(menuDir, "harvester.xml"),
		SnapshotPath:     filepath.Join(stateDir, "events.json"),
		NotifiedPath:     filepath.Join(stateDir, "notified.json"),
		SelectionPath:    selectionPath,
		Listen:           firstNonEmpty(v.GetString("listen"), "127.0.0.1:3000"),
		RefreshCron:      firstNonEmpty(v.GetString("refresh_cron"), defaultRefreshSchedule),
		LogLevel:         firstNonEmpty(v.GetString("log_level"), "info"),
		LogFormat:        firstNonEmpty(v.GetString("log_format"), "text"),
		ShortcutPhrases:  splitList(firstNonEmpty(v.GetString("shortcut_phrases"), defaultShortcutPhrase)),
	}, nil
}

// Resolver builds a resolver from the runtime settings, pinned to the
// configured zone.
func (r Runtime) Resolver() *harvester.Resolver {
	resolver := harvester.NewResolver(r.EventName)
	resolver.RespectDayFilter = r.RespectDayFilter
	resolver.IconBaseURL = r.IconBaseURL
	location := r.Location
	if location == nil {
		location = time.Local
	}
	resolver.Now = func() time.Time { return time.Now().In(location) }
	return resolver
}

// LoadEnvFile exports KEY=VALUE pairs from an env-style file. Variables that
// are already set win over the file.
func LoadEnvFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open env file %s: %w", path, err)
	}

	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment: true,
		AllowShadows:        true,
	}, raw)
	if err != nil {
		return fmt.Errorf("parse env file %s: %w", path, err)
	}

	for _, key := range cfg.Section(ini.DefaultSection).Keys() {
		name := strings.TrimSpace(strings.TrimPrefix(key.Name(), "export "))
		if name == "" {
			continue
		}
		if _, exists := os.LookupEnv(name); exists {
			continue
		}
		_ = os.Setenv(name, unquote(strings.TrimSpace(key.Value())))
	}
	return nil
}

func unquote(value string) string {
	if len(value) >= 2 {
		if (value[0] == '\'' && value[len(value)-1] == '\'') ||
			(value[0] == '"' && value[len(value)-1] == '"') {
			return value[1 : len(value)-1]
		}
	}
	return value
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.ToLower(strings.Join(strings.Fields(part), " "))
		if trimmed == "" {
			continue
		}
		result = append(result, trimmed)
	}
	return result
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
