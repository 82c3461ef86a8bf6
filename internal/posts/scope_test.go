package posts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postboard/internal/generator"
)

func TestFromContextWithoutProvider(t *testing.T) {
	s, err := FromContext(context.Background())
	require.ErrorIs(t, err, ErrScopeViolation)
	assert.Nil(t, s)
	assert.Contains(t, err.Error(), "outside of its provider scope")

	//nolint:staticcheck // nil context is part of the contract
	_, err = FromContext(nil)
	require.ErrorIs(t, err, ErrScopeViolation)
}

func TestProvideReachesDerivedContexts(t *testing.T) {
	store := New(generator.NewHacker(1), WithInitialCount(1))
	ctx, release := Provide(context.Background(), store)
	defer release()

	child, cancel := context.WithCancel(ctx)
	defer cancel()

	got, err := FromContext(child)
	require.NoError(t, err)
	assert.Same(t, store, got)
	assert.Same(t, store, Use(child))
}

func TestReleaseEndsScope(t *testing.T) {
	store := New(generator.NewHacker(1), WithInitialCount(1))
	ctx, release := Provide(context.Background(), store)
	release()

	_, err := FromContext(ctx)
	require.ErrorIs(t, err, ErrScopeViolation)
}

func TestUsePanicsOutsideScope(t *testing.T) {
	assert.PanicsWithError(t, ErrScopeViolation.Error(), func() {
		Use(context.Background())
	})
}

func TestNestedProvidersShadow(t *testing.T) {
	outer := New(generator.NewHacker(1), WithInitialCount(1))
	inner := New(generator.NewHacker(2), WithInitialCount(2))

	ctx, releaseOuter := Provide(context.Background(), outer)
	defer releaseOuter()
	innerCtx, releaseInner := Provide(ctx, inner)

	assert.Same(t, inner, Use(innerCtx))
	assert.Same(t, outer, Use(ctx))

	releaseInner()
	_, err := FromContext(innerCtx)
	assert.ErrorIs(t, err, ErrScopeViolation)
	assert.Same(t, outer, Use(ctx))
}
