// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func runWatch(ctx context.Context, sigCh chan os.Signal, cancel context.CancelFunc, graceful bool) *sync.WaitGroup {
	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()
		Watch(ctx, sigCh, cancel, graceful)
	}()

	return &wg
}

func TestWatch_FirstSignalNoCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	wg := runWatch(ctx, sigCh, cancel, false)

	sigCh <- os.Interrupt

	time.Sleep(50 * time.Millisecond)
	assert.NoError(t, ctx.Err(), "context should not be cancelled after first signal")

	close(sigCh)
	wg.Wait()
}

func TestWatch_SecondSignalCancels(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 2)
	wg := runWatch(ctx, sigCh, cancel, false)

	sigCh <- os.Interrupt
	sigCh <- os.Interrupt

	wg.Wait()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestWatch_DifferentSignalsNoCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 2)
	wg := runWatch(ctx, sigCh, cancel, false)

	sigCh <- os.Interrupt
	sigCh <- os.Kill

	time.Sleep(50 * time.Millisecond)
	assert.NoError(t, ctx.Err(), "context should not be cancelled for different signals")

	close(sigCh)
	wg.Wait()
}

func TestWatch_GracefulCancelsOnFirst(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	wg := runWatch(ctx, sigCh, cancel, true)

	sigCh <- os.Interrupt

	wg.Wait()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestWatch_ReturnsOnContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	wg := runWatch(ctx, sigCh, cancel, false)

	cancel()
	wg.Wait()
}
