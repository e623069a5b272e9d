package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supportkit/pathfinder/internal/config"
	"github.com/supportkit/pathfinder/internal/logging"
)

const tinyFlow = `flow: refunds
categories:
  - id: refund
    title: Refund
    final: true
    content: Issue a partial refund.
`

func testConfig() config.Config {
	return config.Config{
		Port:            "0",
		LogLevel:        "info",
		Language:        "English",
		SessionTTL:      config.DefaultSessionTTL,
		JournalCapacity: 10,
	}
}

func TestNewRuntime_Defaults(t *testing.T) {
	rt, err := NewRuntime(context.Background(), testConfig(), logging.NewNop(), RuntimeOptions{})
	require.NoError(t, err)
	defer rt.Close()

	assert.Equal(t, "delivery-resolution", rt.Engine.Name)
	assert.Equal(t, "English", rt.Engine.Trigger().Language())
	assert.Nil(t, rt.Metrics)

	s, err := rt.Navigation.Start(context.Background(), "tab-1")
	require.NoError(t, err)
	s, err = rt.Navigation.Select(context.Background(), s.ID, "manual-call")
	require.NoError(t, err)

	// Without a backend the failure is reported as the script text.
	_, out, err := rt.Navigation.Generate(context.Background(), s.ID)
	require.NoError(t, err)
	assert.True(t, out.Result.Failed)
}

func TestNewRuntime_FlowFileRedisAndMetrics(t *testing.T) {
	mr := miniredis.RunT(t)
	path := filepath.Join(t.TempDir(), "flow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(tinyFlow), 0o644))

	cfg := testConfig()
	cfg.FlowFile = path
	cfg.RedisAddr = mr.Addr()

	svc := &scriptService{}
	rt, err := NewRuntime(context.Background(), cfg, logging.NewNop(), RuntimeOptions{Metrics: true, TextService: svc})
	require.NoError(t, err)
	defer rt.Close()

	assert.Equal(t, "refunds", rt.Engine.Name)
	require.NotNil(t, rt.Metrics)

	ctx := context.Background()
	_, err = rt.Navigation.Start(ctx, "tab-2")
	require.NoError(t, err)
	_, err = rt.Navigation.Select(ctx, "tab-2", "refund")
	require.NoError(t, err)
	_, out, err := rt.Navigation.Generate(ctx, "tab-2")
	require.NoError(t, err)
	assert.False(t, out.Result.Failed)

	ids, err := rt.Navigation.Manager().List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"tab-2"}, ids)
	assert.Equal(t, 1, rt.Engine.Journal().Len())
}

func TestNewRuntime_Errors(t *testing.T) {
	cfg := testConfig()
	cfg.FlowFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err := NewRuntime(context.Background(), cfg, logging.NewNop(), RuntimeOptions{})
	assert.Error(t, err)

	cfg = testConfig()
	cfg.RedisAddr = "127.0.0.1:1"
	_, err = NewRuntime(context.Background(), cfg, logging.NewNop(), RuntimeOptions{})
	assert.ErrorContains(t, err, "failed to reach redis")
}
