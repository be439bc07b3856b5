package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil run service returns error", func(t *testing.T) {
		ports := &Ports{}
		server, err := NewServer(ports)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingRunService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		ports := &Ports{
			Run: &mockRunService{},
		}
		server, err := NewServer(ports)
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("nil run service returns error", func(t *testing.T) {
		ports := &Ports{}
		err := ports.Validate()
		assert.ErrorIs(t, err, ErrMissingRunService)
	})

	t.Run("run only is valid", func(t *testing.T) {
		ports := &Ports{
			Run: &mockRunService{},
		}
		err := ports.Validate()
		assert.NoError(t, err)
	})

	t.Run("all ports is valid", func(t *testing.T) {
		ports := &Ports{
			Run:      &mockRunService{},
			Prober:   &mockProber{},
			Settings: &mockSettingsService{},
		}
		err := ports.Validate()
		assert.NoError(t, err)
	})
}

func TestInstructions_NameEveryTool(t *testing.T) {
	for _, name := range []string{"derive_address", "probe_identity", "verify_group", "list_groups", "certprobe://runs"} {
		assert.Contains(t, Instructions, name)
	}
}

func TestServer_RunHTTP_StopsOnCancel(t *testing.T) {
	server, err := NewServer(&Ports{Run: &mockRunService{}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.RunHTTP(ctx, "127.0.0.1:0") }()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after cancel")
	}
}

func TestServer_RunHTTP_ListenError(t *testing.T) {
	server, err := NewServer(&Ports{Run: &mockRunService{}})
	require.NoError(t, err)

	err = server.RunHTTP(context.Background(), "not-an-address")

	assert.Error(t, err)
}
