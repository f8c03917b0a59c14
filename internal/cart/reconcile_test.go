package cart

import (
	"context"
	"testing"

	"klickjet-storefront/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_ReconcileOnLogin(t *testing.T) {
	t.Run("PartialFailure", func(t *testing.T) {
		// Arrange: anonymous cart [A, B], backend rejects B
		store, mr := setupStore(t)
		repo := NewRepository(store, 0)
		server := newFakeServerCart("B")
		svc := NewService(repo, server, 16, 0)

		anon := anonCtx("dev-1")
		_, err := svc.AddLine(anon, candidate("A", "s1", 100), 1)
		require.NoError(t, err)
		_, err = svc.AddLine(anon, candidate("B", "s1", 50), 2)
		require.NoError(t, err)

		// Act
		report, err := svc.ReconcileOnLogin(authCtx("dev-1", "user-1", "tok"))

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 2, report.Attempted)
		assert.Equal(t, []string{"A"}, report.Migrated)
		assert.Equal(t, []string{"B"}, report.Failed)

		require.Len(t, report.Cart.Lines, 1)
		assert.Equal(t, "A", report.Cart.Lines[0].ProductID)
		assert.False(t, mr.Exists(storage.LocalCartKey("dev-1")))
	})

	t.Run("AttemptsEveryLineInOrder", func(t *testing.T) {
		store, mr := setupStore(t)
		repo := NewRepository(store, 0)
		server := newFakeServerCart("B", "D")
		svc := NewService(repo, server, 16, 0)

		anon := anonCtx("dev-2")
		for _, p := range []string{"A", "B", "C", "D", "E"} {
			_, err := svc.AddLine(anon, candidate(p, "s1", 10), 1)
			require.NoError(t, err)
		}

		report, err := svc.ReconcileOnLogin(authCtx("dev-2", "user-2", "tok"))

		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B", "C", "D", "E"}, server.addCalls)
		assert.Equal(t, []string{"A", "C", "E"}, report.Migrated)
		assert.Len(t, report.Cart.Lines, 3)
		assert.False(t, mr.Exists(storage.LocalCartKey("dev-2")))
	})

	t.Run("EmptyLocalCart", func(t *testing.T) {
		store, _ := setupStore(t)
		server := newFakeServerCart()
		svc := NewService(NewRepository(store, 0), server, 16, 0)

		report, err := svc.ReconcileOnLogin(authCtx("dev-3", "user-3", "tok"))

		require.NoError(t, err)
		assert.Zero(t, report.Attempted)
		assert.Empty(t, server.addCalls)
		assert.True(t, report.Cart.Empty())
	})

	t.Run("UnreadableLocalCart", func(t *testing.T) {
		store, mr := setupStore(t)
		server := newFakeServerCart()
		require.NoError(t, server.AddCartItem(context.Background(), "tok", "A", 1))
		server.addCalls = nil
		svc := NewService(NewRepository(store, 0), server, 16, 0)
		require.NoError(t, mr.Set(storage.LocalCartKey("dev-5"), `{"not":"an array"}`))

		report, err := svc.ReconcileOnLogin(authCtx("dev-5", "user-5", "tok"))

		require.NoError(t, err)
		require.NotNil(t, report)
		assert.Zero(t, report.Attempted)
		assert.Empty(t, server.addCalls)
		require.Len(t, report.Cart.Lines, 1)
		assert.Equal(t, "A", report.Cart.Lines[0].ProductID)
		assert.False(t, mr.Exists(storage.LocalCartKey("dev-5")))

		// the device can hold an anonymous cart again
		view, err := svc.View(anonCtx("dev-5"))
		require.NoError(t, err)
		assert.True(t, view.Empty())
	})

	t.Run("NotAuthenticated", func(t *testing.T) {
		store, _ := setupStore(t)
		svc := NewService(NewRepository(store, 0), newFakeServerCart(), 16, 0)

		_, err := svc.ReconcileOnLogin(anonCtx("dev-4"))

		assert.ErrorIs(t, err, ErrUserNotAuthenticated)
	})
}
