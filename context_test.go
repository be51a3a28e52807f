package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/log"
)

func TestContextHeight(t *testing.T) {
	ctx := context.Background()

	_, ok := GetHeight(ctx)
	assert.False(t, ok)

	ctx = WithHeight(ctx, 17)
	h, ok := GetHeight(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(17), h)

	assert.Panics(t, func() { WithHeight(ctx, 18) })
}

func TestContextChainID(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", GetChainID(ctx))

	assert.Panics(t, func() { WithChainID(ctx, "bad") })

	ctx = WithChainID(ctx, "payroll-test")
	assert.Equal(t, "payroll-test", GetChainID(ctx))
	assert.Panics(t, func() { WithChainID(ctx, "payroll-other") })
}

func TestContextLogger(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, DefaultLogger, GetLogger(ctx))

	logger := log.NewNopLogger().With("module", "test")
	ctx = WithLogger(ctx, logger)
	assert.Equal(t, logger, GetLogger(ctx))

	ctx = WithLogInfo(ctx, "height", 5)
	assert.NotNil(t, GetLogger(ctx))
}
