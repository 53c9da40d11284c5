package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetSet(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	_, ok, err := st.Get(ctx, KeyCouponsRemaining)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, st.Set(ctx, KeyCouponsRemaining, "20"))

	value, ok, err := st.Get(ctx, KeyCouponsRemaining)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "20", value)
}

func TestMemoryStore_SetMulti(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	err := st.SetMulti(ctx, map[string]string{
		KeyCouponsRemaining: "19",
		UserCouponKey("42"): "true",
	})
	require.NoError(t, err)

	value, _, err := st.Get(ctx, UserCouponKey("42"))
	require.NoError(t, err)
	assert.Equal(t, "true", value)
}

func TestMemoryStore_Fail(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, st.Set(ctx, KeyCouponsRemaining, "5"))

	st.Fail(errors.New("disk is gone"))

	err := st.SetMulti(ctx, map[string]string{KeyCouponsRemaining: "4"})
	assert.ErrorIs(t, err, ErrUnavailable)

	_, _, err = st.Get(ctx, KeyCouponsRemaining)
	assert.ErrorIs(t, err, ErrUnavailable)

	st.Fail(nil)

	value, _, err := st.Get(ctx, KeyCouponsRemaining)
	require.NoError(t, err)
	assert.Equal(t, "5", value)
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	st := NewMemoryStore()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := st.Set(ctx, KeyAppointments, "[]")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUserCouponKey(t *testing.T) {
	assert.Equal(t, "user_has_coupon", UserCouponKey(""))
	assert.Equal(t, "user_has_coupon:100500", UserCouponKey("100500"))
}
