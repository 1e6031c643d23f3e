// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package host

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/matt-FFFFFF/cmdhost/internal/commands"
	"github.com/matt-FFFFFF/cmdhost/internal/peer"
	"github.com/matt-FFFFFF/cmdhost/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contributorReturning(v any, err error) peer.Contributor {
	return peer.ContributorFunc(func(_ context.Context, _ string, _ []any) (any, error) {
		return v, err
	})
}

func TestExecuteUnknownCommand(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		args          []any
		retry         bool
		wantRetryable bool
		wantActivate  bool
	}{
		{name: "retry with args", args: []any{1}, retry: true, wantRetryable: true, wantActivate: true},
		{name: "retry without args", args: nil, retry: true},
		{name: "no retry with args", args: []any{1}, retry: false},
		{name: "no retry without args", args: nil, retry: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var activated []string

			h := New(WithActivator(func(_ context.Context, id string) error {
				activated = append(activated, id)
				return nil
			}))

			_, err := h.ExecuteCommand(ctx, "missing", tt.args, tt.retry)
			require.Error(t, err)

			if tt.wantRetryable {
				assert.True(t, peer.IsRetryable(err))
			} else {
				assert.False(t, peer.IsRetryable(err))
				require.ErrorIs(t, err, peer.ErrCommandNotFound)
			}

			if tt.wantActivate {
				assert.Equal(t, []string{"missing"}, activated)
			} else {
				assert.Empty(t, activated)
			}
		})
	}
}

func TestActivatorErrorStillAsksForRetry(t *testing.T) {
	h := New(WithActivator(func(_ context.Context, _ string) error {
		return errors.New("activation failed")
	}))

	_, err := h.ExecuteCommand(context.Background(), "missing", []any{"x"}, true)
	assert.True(t, peer.IsRetryable(err))
}

func TestBuiltins(t *testing.T) {
	ctx := context.Background()
	h := New()
	require.NoError(t, RegisterStandardBuiltins(h))

	res, err := h.ExecuteCommand(ctx, CmdPing, nil, true)
	require.NoError(t, err)
	assert.Equal(t, "pong", res)

	res, err = h.ExecuteCommand(ctx, CmdEcho, []any{"hello"}, true)
	require.NoError(t, err)
	assert.Equal(t, "hello", res)

	res, err = h.ExecuteCommand(ctx, CmdEcho, []any{"a", "b"}, false)
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, res)

	res, err = h.ExecuteCommand(ctx, CmdListCommands, nil, false)
	require.NoError(t, err)
	assert.Equal(t, []string{CmdPing, CmdEcho, CmdListCommands}, res)

	err = RegisterStandardBuiltins(h)
	require.ErrorIs(t, err, registry.ErrCommandExists)
}

func TestContributedCommandRouting(t *testing.T) {
	ctx := context.Background()
	h := New()

	var gotArgs []any

	s := h.Attach(peer.ContributorFunc(func(_ context.Context, id string, args []any) (any, error) {
		gotArgs = args
		return id + "!", nil
	}))

	require.NoError(t, s.RegisterCommand(ctx, "ext.hello"))
	assert.True(t, h.HasCommand("ext.hello"))

	res, err := s.ExecuteCommand(ctx, "ext.hello", []any{1, "two"}, true)
	require.NoError(t, err)
	assert.Equal(t, "ext.hello!", res)
	assert.Equal(t, []any{1, "two"}, gotArgs)

	require.NoError(t, s.UnregisterCommand(ctx, "ext.hello"))
	assert.False(t, h.HasCommand("ext.hello"))
	require.NoError(t, s.UnregisterCommand(ctx, "ext.hello"), "unregistering twice is a no-op")
}

func TestContributorErrorPropagates(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	h := New()
	s := h.Attach(contributorReturning(nil, boom))
	require.NoError(t, s.RegisterCommand(ctx, "ext.fail"))

	_, err := h.ExecuteCommand(ctx, "ext.fail", []any{1}, true)
	assert.Same(t, boom, err)
}

func TestSessionOwnership(t *testing.T) {
	ctx := context.Background()
	h := New()
	a := h.Attach(contributorReturning("a", nil))
	b := h.Attach(contributorReturning("b", nil))

	require.NoError(t, a.RegisterCommand(ctx, "shared"))
	require.NoError(t, b.RegisterCommand(ctx, "shared"))

	require.NoError(t, a.UnregisterCommand(ctx, "shared"))
	assert.True(t, h.HasCommand("shared"), "only the owner can unregister")

	res, err := h.ExecuteCommand(ctx, "shared", nil, false)
	require.NoError(t, err)
	assert.Equal(t, "b", res)

	assert.Empty(t, a.Commands())
	assert.Equal(t, []string{"shared"}, b.Commands())
}

func TestSessionClose(t *testing.T) {
	ctx := context.Background()
	h := New()
	s := h.Attach(contributorReturning(nil, nil))

	require.NoError(t, s.RegisterCommand(ctx, "one"))
	require.NoError(t, s.RegisterCommand(ctx, "two"))

	s.Close()
	s.Close()

	ids, err := h.GetCommands(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.ErrorIs(t, s.RegisterCommand(ctx, "three"), ErrSessionClosed)
}

func TestContributedCannotShadowBuiltin(t *testing.T) {
	ctx := context.Background()
	h := New()
	require.NoError(t, RegisterStandardBuiltins(h))

	s := h.Attach(contributorReturning(nil, nil))
	require.ErrorIs(t, s.RegisterCommand(ctx, CmdEcho), registry.ErrCommandExists)

	require.NoError(t, s.RegisterCommand(ctx, "ext.x"))
	require.ErrorIs(t, h.RegisterBuiltin("ext.x", func(_ context.Context, _ ...any) (any, error) { return nil, nil }),
		registry.ErrCommandExists)
}

// TestFacadeAgainstHost wires a facade to a host session in memory and checks the
// retry contract across the two: the facade's first attempt is answered with a retry,
// the activator registers the command on the facade side, and the second attempt finds
// it locally.
func TestFacadeAgainstHost(t *testing.T) {
	ctx := context.Background()

	var (
		f    *commands.Facade
		once sync.Once
	)

	h := New(WithActivator(func(ctx context.Context, id string) error {
		var err error

		once.Do(func() {
			_, err = f.RegisterCommand(ctx, true, id, func(_ context.Context, args ...any) (any, error) {
				return len(args), nil
			})
		})

		return err
	}))

	s := h.Attach(peer.ContributorFunc(func(ctx context.Context, id string, args []any) (any, error) {
		return f.ExecuteContributedCommand(ctx, id, args)
	}))
	f = commands.New(s)

	res, err := f.ExecuteCommand(ctx, "ext.lazy", "a", "b", "c")
	require.NoError(t, err)
	assert.Equal(t, 3, res)
	assert.True(t, h.HasCommand("ext.lazy"))

	res, err = f.ExecuteCommand(ctx, CmdPing)
	require.ErrorIs(t, err, peer.ErrCommandNotFound, "builtins were not registered on this host")
	assert.Nil(t, res)
}

func TestBuiltinAndContributedRaceKeepsOneOwner(t *testing.T) {
	ctx := context.Background()

	for range 200 {
		h := New()
		s := h.Attach(contributorReturning("contributed", nil))

		var (
			wg                          sync.WaitGroup
			builtinErr, contributedErr error
		)

		wg.Add(2)

		go func() {
			defer wg.Done()
			builtinErr = h.RegisterBuiltin("race", func(_ context.Context, _ ...any) (any, error) {
				return "builtin", nil
			})
		}()

		go func() {
			defer wg.Done()
			contributedErr = s.RegisterCommand(ctx, "race")
		}()

		wg.Wait()

		require.True(t, (builtinErr == nil) != (contributedErr == nil),
			"exactly one registration wins: builtin=%v contributed=%v", builtinErr, contributedErr)

		if builtinErr == nil {
			assert.Empty(t, s.Commands())
		} else {
			require.ErrorIs(t, builtinErr, registry.ErrCommandExists)
			assert.Equal(t, []string{"race"}, s.Commands())
		}
	}
}
