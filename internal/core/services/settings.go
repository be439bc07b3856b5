package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/certprobe/internal/core/domain"
	"github.com/custodia-labs/certprobe/internal/core/ports/driven"
	"github.com/custodia-labs/certprobe/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyBaseURL        = domain.SettingBaseURL
	keyMaxAttempts    = domain.SettingMaxAttempts
	keyRetryDelay     = domain.SettingRetryDelay
	keyTimeout        = domain.SettingTimeout
	keyWorkers        = domain.SettingWorkers
	keyRatePerSecond  = domain.SettingRatePerSecond
	keyInputDir       = domain.SettingInputDir
	keyReportsDir     = domain.SettingReportsDir
	keyReportsEnabled = domain.SettingReportsEnabled
	keyGroups         = domain.SettingGroups
)

// settingParsers converts CLI text into the typed value stored for each key.
var settingParsers = map[string]func(string) (any, error){
	keyBaseURL:        parseNonEmpty,
	keyMaxAttempts:    parsePositiveInt,
	keyRetryDelay:     parseDurationSetting(true),
	keyTimeout:        parseDurationSetting(false),
	keyWorkers:        parsePositiveInt,
	keyRatePerSecond:  parseRate,
	keyInputDir:       parseNonEmpty,
	keyReportsDir:     parseNonEmpty,
	keyReportsEnabled: parseBool,
	keyGroups:         parseList,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
// Missing or malformed values fall back to defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Probe: domain.ProbeSettings{
			BaseURL:       s.getString(keyBaseURL, defaults.Probe.BaseURL),
			MaxAttempts:   s.getPositiveInt(keyMaxAttempts, defaults.Probe.MaxAttempts),
			RetryDelay:    s.getDuration(keyRetryDelay, defaults.Probe.RetryDelay),
			Timeout:       s.getDuration(keyTimeout, defaults.Probe.Timeout),
			Workers:       s.getPositiveInt(keyWorkers, defaults.Probe.Workers),
			RatePerSecond: s.getFloat(keyRatePerSecond, defaults.Probe.RatePerSecond),
		},
		Input: domain.InputSettings{
			Dir: s.getString(keyInputDir, defaults.Input.Dir),
		},
		Reports: domain.ReportSettings{
			Enabled: s.getBool(keyReportsEnabled, defaults.Reports.Enabled),
			Dir:     s.getString(keyReportsDir, defaults.Reports.Dir),
		},
		Groups: defaults.Groups,
	}

	if codes := s.configStore.GetStringSlice(keyGroups); len(codes) > 0 {
		settings.Groups = make([]domain.ResourceGroup, 0, len(codes))
		for _, c := range codes {
			if c = strings.TrimSpace(c); c != "" {
				settings.Groups = append(settings.Groups, domain.ResourceGroup(c))
			}
		}
	}

	if settings.Probe.Timeout <= 0 {
		settings.Probe.Timeout = defaults.Probe.Timeout
	}

	return settings, nil
}

// Set parses value for key and persists it.
func (s *SettingsService) Set(key, value string) error {
	parse, ok := settingParsers[key]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownSetting, key)
	}

	parsed, err := parse(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidSettings, key, err)
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys lists the recognised setting keys in sorted order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingParsers))
	for k := range settingParsers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Path returns the configuration file path.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getPositiveInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val, ok := s.configStore.Get(key)
	if !ok {
		return defaultVal
	}

	// TOML keeps integers and floats apart
	switch v := val.(type) {
	case float64:
		if v >= 0 {
			return v
		}
	case int64:
		if v >= 0 {
			return float64(v)
		}
	case int:
		if v >= 0 {
			return float64(v)
		}
	}
	return defaultVal
}

// getDuration accepts Go duration strings ("5s") or whole seconds.
func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val, ok := s.configStore.Get(key)
	if !ok {
		return defaultVal
	}

	switch v := val.(type) {
	case string:
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return defaultVal
		}
		return d
	case int64:
		if v >= 0 {
			return time.Duration(v) * time.Second
		}
	case int:
		if v >= 0 {
			return time.Duration(v) * time.Second
		}
	}
	return defaultVal
}

// Parsers for Set.

func parseNonEmpty(v string) (any, error) {
	if v == "" {
		return nil, fmt.Errorf("value must not be empty")
	}
	return v, nil
}

func parsePositiveInt(v string) (any, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("not an integer: %q", v)
	}
	if n < 1 {
		return nil, fmt.Errorf("must be at least 1")
	}
	return n, nil
}

func parseDurationSetting(allowZero bool) func(string) (any, error) {
	return func(v string) (any, error) {
		d, err := time.ParseDuration(v)
		if err != nil {
			// Bare numbers are seconds
			secs, serr := strconv.Atoi(v)
			if serr != nil {
				return nil, fmt.Errorf("not a duration: %q", v)
			}
			d = time.Duration(secs) * time.Second
		}
		if d < 0 || (!allowZero && d == 0) {
			return nil, fmt.Errorf("duration out of range: %s", d)
		}
		return d.String(), nil
	}
}

func parseRate(v string) (any, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("not a number: %q", v)
	}
	if f < 0 {
		return nil, fmt.Errorf("must not be negative")
	}
	return f, nil
}

func parseBool(v string) (any, error) {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, fmt.Errorf("not a boolean: %q", v)
	}
	return b, nil
}

func parseList(v string) (any, error) {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("list must not be empty")
	}
	return out, nil
}
