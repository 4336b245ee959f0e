package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConnectRejectsBadPoolSettings(t *testing.T) {
	ctx := context.Background()

	_, err := Connect(ctx, "postgres://localhost/moodreel", PoolOptions{MaxConns: 2, MinConns: 5}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds max conns")

	_, err = Connect(ctx, "postgres://%zz", PoolOptions{}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse database URL")
}
