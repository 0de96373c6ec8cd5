package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/biraysutcuoglu/KeyValueStore/internal/cache/mocks"
)

func TestCache_PutStoreFailureLeavesCacheEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockStore(ctrl)
	c, err := New(store, 100)
	require.NoError(t, err)

	ctx := context.Background()
	storeErr := errors.New("disk full")
	store.EXPECT().Put(gomock.Any(), "k", []byte("v")).Return(storeErr)

	err = c.Put(ctx, "k", []byte("v"))
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)

	// A write that never became durable must not be served from memory
	assert.Empty(t, c.Entries())

	store.EXPECT().Get(gomock.Any(), "k").Return(nil, false, nil)
	_, found, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCache_GetStoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockStore(ctrl)
	c, err := New(store, 100)
	require.NoError(t, err)

	ctx := context.Background()
	storeErr := errors.New("io error")
	store.EXPECT().Get(gomock.Any(), "k").Return(nil, false, storeErr)

	v, found, err := c.Get(ctx, "k")
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
	assert.False(t, found)
	assert.Nil(t, v)

	assert.Equal(t, int64(1), c.Stats().Misses)
	assert.Empty(t, c.Entries())
}

func TestCache_RemoveStoreFailureStillDropsCachedCopy(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockStore(ctrl)
	c, err := New(store, 100)
	require.NoError(t, err)

	ctx := context.Background()
	store.EXPECT().Put(gomock.Any(), "k", []byte("v")).Return(nil)
	require.NoError(t, c.Put(ctx, "k", []byte("v")))
	require.Len(t, c.Entries(), 1)

	storeErr := errors.New("io error")
	store.EXPECT().Remove(gomock.Any(), "k").Return(false, storeErr)

	removed, err := c.Remove(ctx, "k")
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
	assert.True(t, removed, "cached copy is dropped even when the store fails")
	assert.Empty(t, c.Entries())
}
