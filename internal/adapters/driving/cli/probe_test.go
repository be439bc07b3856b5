package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/certprobe/internal/core/domain"
)

func TestProbeCmd_Found(t *testing.T) {
	_, prober, cleanup := setupTestServices()
	defer cleanup()
	prober.outcome = domain.ProbeOutcome{
		Kind:       domain.OutcomeConfirmed,
		Diagnostic: "PDF exists",
		Attempts:   1,
	}

	out, err := executeCommand(t, nil, "probe", "a@x.com", "g1")

	require.NoError(t, err)
	assert.Equal(t, domain.ResourceAddress(testBase+"/g1/a_x.com.pdf"), prober.address)
	assert.Contains(t, out, "✓ a@x.com")
	assert.Contains(t, out, "  → a_x.com.pdf")
	assert.Contains(t, out, "  Status: PDF exists")
	assert.Contains(t, out, "  Attempts: 1")
}

func TestProbeCmd_RetriesAndFlags(t *testing.T) {
	_, prober, cleanup := setupTestServices()
	defer cleanup()
	prober.retry = true
	prober.outcome = domain.ProbeOutcome{
		Kind:       domain.OutcomeTransportFailure,
		Diagnostic: "Connection timeout (failed after 2 attempts)",
		Attempts:   2,
		Failure:    domain.FailureTimeout,
	}

	out, err := executeCommand(t, nil, "probe", "a@x.com", "g1", "--attempts", "2", "--delay", "1s", "--timeout", "3s")

	require.NoError(t, err)
	assert.Equal(t, 2, prober.policy.MaxAttempts)
	assert.Equal(t, time.Second, prober.policy.RetryDelay)
	assert.Equal(t, 3*time.Second, prober.policy.Timeout)
	assert.Contains(t, out, "Timeout (attempt 1/2), retrying in 1s...")
	assert.Contains(t, out, "✗ a@x.com")
	assert.Contains(t, out, "Connection timeout (failed after 2 attempts)")
}

func TestProbeCmd_UsesConfiguredPolicy(t *testing.T) {
	_, prober, cleanup := setupTestServices()
	defer cleanup()
	require.NoError(t, settingsService.Set(domain.SettingMaxAttempts, "4"))

	_, err := executeCommand(t, nil, "probe", "a@x.com", "g1")

	require.NoError(t, err)
	assert.Equal(t, 4, prober.policy.MaxAttempts)
	assert.Equal(t, domain.DefaultRetryDelay, prober.policy.RetryDelay)
}

func TestProbeCmd_ServiceNotConfigured(t *testing.T) {
	oldProber := proberService
	proberService = nil
	defer func() {
		proberService = oldProber
	}()

	_, err := executeCommand(t, nil, "probe", "a@x.com", "g1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "prober service not configured")
}

func TestProbeCmd_InvalidEmail(t *testing.T) {
	_, prober, cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand(t, nil, "probe", "nobody", "g1")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, prober.address)
}
