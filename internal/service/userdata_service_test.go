package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestUserDataService_Get(t *testing.T) {
	ctx := context.Background()
	m := new(mockUserDataRepo)
	svc := NewUserDataService(m)

	t.Run("valid key returns stored JSON", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("GetValue", mock.Anything, int64(1), "favorites").Return(`{"a":1}`, nil).Once()

		v, err := svc.Get(ctx, 1, "favorites")
		assert.NoError(t, err)
		assert.JSONEq(t, `{"a":1}`, string(v))
		m.AssertExpectations(t)
	})

	t.Run("unknown key rejected before any read", func(t *testing.T) {
		m.ExpectedCalls = nil
		v, err := svc.Get(ctx, 1, "not-a-real-key")
		assert.Nil(t, v)
		assert.ErrorIs(t, err, ErrInvalidDataKey)
		m.AssertNotCalled(t, "GetValue")
	})

	t.Run("corrupt stored text degrades to empty object", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("GetValue", mock.Anything, int64(1), "settings").Return(`{broken`, nil).Once()

		v, err := svc.Get(ctx, 1, "settings")
		assert.NoError(t, err)
		assert.Equal(t, "{}", string(v))
		m.AssertExpectations(t)
	})
}

func TestUserDataService_Set(t *testing.T) {
	ctx := context.Background()
	m := new(mockUserDataRepo)
	svc := NewUserDataService(m)

	t.Run("valid key upserts", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("SetValue", mock.Anything, int64(2), "history", `{"h":[]}`).Return(nil).Once()

		err := svc.Set(ctx, 2, "history", json.RawMessage(`{"h":[]}`))
		assert.NoError(t, err)
		m.AssertExpectations(t)
	})

	t.Run("unknown key rejected before any write", func(t *testing.T) {
		m.ExpectedCalls = nil
		err := svc.Set(ctx, 2, "not-a-real-key", json.RawMessage(`{}`))
		assert.ErrorIs(t, err, ErrInvalidDataKey)
		m.AssertNotCalled(t, "SetValue")
	})

	t.Run("nil value stored as empty object", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("SetValue", mock.Anything, int64(2), "settings", "{}").Return(nil).Once()

		err := svc.Set(ctx, 2, "settings", nil)
		assert.NoError(t, err)
		m.AssertExpectations(t)
	})
}
