package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, DefaultBaseURL, s.Probe.BaseURL)
	assert.Equal(t, 5, s.Probe.MaxAttempts)
	assert.Equal(t, 5*time.Second, s.Probe.RetryDelay)
	assert.Equal(t, 10*time.Second, s.Probe.Timeout)
	assert.Equal(t, 1, s.Probe.Workers)
	assert.True(t, s.Reports.Enabled)
	assert.Len(t, s.Groups, 8)
	require.NoError(t, s.Validate())
}

func TestDefaultAppSettings_GroupsAreCopied(t *testing.T) {
	s := DefaultAppSettings()
	s.Groups[0] = "changed"

	assert.Equal(t, ResourceGroup("681ec43c"), DefaultGroups[0])
}

func TestAppSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppSettings)
	}{
		{name: "zero attempts", mutate: func(s *AppSettings) { s.Probe.MaxAttempts = 0 }},
		{name: "negative delay", mutate: func(s *AppSettings) { s.Probe.RetryDelay = -time.Second }},
		{name: "zero timeout", mutate: func(s *AppSettings) { s.Probe.Timeout = 0 }},
		{name: "zero workers", mutate: func(s *AppSettings) { s.Probe.Workers = 0 }},
		{name: "negative rate", mutate: func(s *AppSettings) { s.Probe.RatePerSecond = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultAppSettings()
			tt.mutate(&s)
			assert.ErrorIs(t, s.Validate(), ErrInvalidSettings)
		})
	}
}

func TestAppSettings_HasGroup(t *testing.T) {
	s := DefaultAppSettings()

	assert.True(t, s.HasGroup("fd0a971e"))
	assert.False(t, s.HasGroup("nope"))
}

func TestProbeSettings_Policy(t *testing.T) {
	p := ProbeSettings{MaxAttempts: 3, RetryDelay: 2 * time.Second, Timeout: time.Second}.Policy()

	assert.Equal(t, 3, p.MaxAttempts)
	assert.Equal(t, 2*time.Second, p.RetryDelay)
	assert.Equal(t, time.Second, p.Timeout)
	assert.Nil(t, p.OnRetry)
}

func TestAppSettings_Values(t *testing.T) {
	s := DefaultAppSettings()
	s.Groups = []ResourceGroup{"a", "b"}
	s.Probe.RatePerSecond = 2.5

	values := s.Values()

	assert.Len(t, values, 10)
	assert.Equal(t, DefaultBaseURL, values[SettingBaseURL])
	assert.Equal(t, "5", values[SettingMaxAttempts])
	assert.Equal(t, "5s", values[SettingRetryDelay])
	assert.Equal(t, "10s", values[SettingTimeout])
	assert.Equal(t, "2.5", values[SettingRatePerSecond])
	assert.Equal(t, "true", values[SettingReportsEnabled])
	assert.Equal(t, "a,b", values[SettingGroups])
}
