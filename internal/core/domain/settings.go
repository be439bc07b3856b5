package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Setting keys as stored in the config file.
const (
	SettingBaseURL        = "probe.base_url"
	SettingMaxAttempts    = "probe.max_attempts"
	SettingRetryDelay     = "probe.retry_delay"
	SettingTimeout        = "probe.timeout"
	SettingWorkers        = "probe.workers"
	SettingRatePerSecond  = "probe.rate_per_second"
	SettingInputDir       = "input.dir"
	SettingReportsDir     = "reports.dir"
	SettingReportsEnabled = "reports.enabled"
	SettingGroups         = "groups.codes"
)

// DefaultGroups are the resource groups offered when none are configured.
var DefaultGroups = []ResourceGroup{
	"681ec43c",
	"41236a8e",
	"c08ca642",
	"6cdac529",
	"7d311ab2",
	"a9537b89",
	"77e83039",
	"fd0a971e",
}

// ProbeSettings configures how identities are probed.
type ProbeSettings struct {
	// BaseURL is the address prefix documents live under.
	BaseURL string

	// MaxAttempts is the total attempts per address on transport failure.
	MaxAttempts int

	// RetryDelay is the fixed sleep between attempts.
	RetryDelay time.Duration

	// Timeout bounds each attempt.
	Timeout time.Duration

	// Workers is the number of identities probed at once. 1 is sequential.
	Workers int

	// RatePerSecond caps requests per second across workers. 0 disables the cap.
	RatePerSecond float64
}

// Policy returns the probe policy for these settings.
func (p ProbeSettings) Policy() ProbePolicy {
	return ProbePolicy{
		MaxAttempts: p.MaxAttempts,
		RetryDelay:  p.RetryDelay,
		Timeout:     p.Timeout,
	}
}

// InputSettings configures where identity files are read from.
type InputSettings struct {
	// Dir holds one <group>.csv file per group.
	Dir string
}

// ReportSettings configures the report files written after a run.
type ReportSettings struct {
	// Enabled turns report file writing on or off.
	Enabled bool

	// Dir is where report files are written.
	Dir string
}

// AppSettings holds all user-configurable settings.
type AppSettings struct {
	Probe   ProbeSettings
	Input   InputSettings
	Reports ReportSettings
	Groups  []ResourceGroup
}

// DefaultAppSettings returns the default settings.
func DefaultAppSettings() AppSettings {
	groups := make([]ResourceGroup, len(DefaultGroups))
	copy(groups, DefaultGroups)

	return AppSettings{
		Probe: ProbeSettings{
			BaseURL:     DefaultBaseURL,
			MaxAttempts: DefaultMaxAttempts,
			RetryDelay:  DefaultRetryDelay,
			Timeout:     DefaultTimeout,
			Workers:     1,
		},
		Input: InputSettings{
			Dir: ".",
		},
		Reports: ReportSettings{
			Enabled: true,
			Dir:     ".",
		},
		Groups: groups,
	}
}

// Validate checks the settings are usable.
func (s *AppSettings) Validate() error {
	switch {
	case s.Probe.MaxAttempts < 1:
		return fmt.Errorf("%w: max attempts must be at least 1", ErrInvalidSettings)
	case s.Probe.RetryDelay < 0:
		return fmt.Errorf("%w: retry delay must not be negative", ErrInvalidSettings)
	case s.Probe.Timeout <= 0:
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidSettings)
	case s.Probe.Workers < 1:
		return fmt.Errorf("%w: workers must be at least 1", ErrInvalidSettings)
	case s.Probe.RatePerSecond < 0:
		return fmt.Errorf("%w: rate must not be negative", ErrInvalidSettings)
	}
	return nil
}

// HasGroup reports whether group is configured.
func (s *AppSettings) HasGroup(group ResourceGroup) bool {
	for _, g := range s.Groups {
		if g == group {
			return true
		}
	}
	return false
}

// Values renders every setting as text keyed by its setting key.
func (s *AppSettings) Values() map[string]string {
	groups := make([]string, len(s.Groups))
	for i, g := range s.Groups {
		groups[i] = g.String()
	}

	return map[string]string{
		SettingBaseURL:        s.Probe.BaseURL,
		SettingMaxAttempts:    strconv.Itoa(s.Probe.MaxAttempts),
		SettingRetryDelay:     s.Probe.RetryDelay.String(),
		SettingTimeout:        s.Probe.Timeout.String(),
		SettingWorkers:        strconv.Itoa(s.Probe.Workers),
		SettingRatePerSecond:  strconv.FormatFloat(s.Probe.RatePerSecond, 'g', -1, 64),
		SettingInputDir:       s.Input.Dir,
		SettingReportsDir:     s.Reports.Dir,
		SettingReportsEnabled: strconv.FormatBool(s.Reports.Enabled),
		SettingGroups:         strings.Join(groups, ","),
	}
}
