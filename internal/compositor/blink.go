package compositor

import (
	"sync"
	"time"

	"ridgecompare/internal/plane"
)

// DefaultBlinkInterval is the side-swap period when none is configured.
const DefaultBlinkInterval = 500 * time.Millisecond

// Blinker alternates the displayed side on a fixed interval for flicker
// comparison. Swap callbacks are delivered from a single goroutine; Stop
// blocks until that goroutine has exited, so no callback runs after Stop
// returns.
type Blinker struct {
	mu       sync.Mutex
	interval time.Duration
	current  plane.Side
	paused   bool
	onSwap   func(plane.Side)

	ticker *time.Ticker
	done   chan struct{}
	exited chan struct{}
}

// NewBlinker creates a stopped blinker. onSwap fires on every side change,
// including the initial one when Start runs.
func NewBlinker(interval time.Duration, onSwap func(plane.Side)) *Blinker {
	if interval <= 0 {
		interval = DefaultBlinkInterval
	}
	return &Blinker{interval: interval, onSwap: onSwap}
}

// Start begins alternation from the left side. Starting a running blinker is
// a no-op.
func (b *Blinker) Start() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.done != nil {
		return
	}
	b.current = plane.SideLeft
	b.paused = false
	b.ticker = time.NewTicker(b.interval)
	b.done = make(chan struct{})
	b.exited = make(chan struct{})
	go b.run(b.ticker, b.done, b.exited)
	if b.onSwap != nil {
		b.onSwap(b.current)
	}
}

func (b *Blinker) run(ticker *time.Ticker, done chan struct{}, exited chan struct{}) {
	defer close(exited)
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			b.mu.Lock()
			if b.paused {
				b.mu.Unlock()
				continue
			}
			b.current = b.current.Other()
			side := b.current
			cb := b.onSwap
			b.mu.Unlock()
			if cb != nil {
				cb(side)
			}
		}
	}
}

// Stop halts alternation and waits for the swap goroutine to exit. Stopping
// a stopped blinker is a no-op.
func (b *Blinker) Stop() {
	b.mu.Lock()
	if b.done == nil {
		b.mu.Unlock()
		return
	}
	done, exited, ticker := b.done, b.exited, b.ticker
	b.done = nil
	b.exited = nil
	b.ticker = nil
	b.mu.Unlock()

	ticker.Stop()
	close(done)
	<-exited
}

// Pause freezes alternation on the current side without stopping the ticker.
func (b *Blinker) Pause() {
	b.mu.Lock()
	b.paused = true
	b.mu.Unlock()
}

// Resume continues alternation after a Pause.
func (b *Blinker) Resume() {
	b.mu.Lock()
	b.paused = false
	b.mu.Unlock()
}

// Running reports whether the blinker is started.
func (b *Blinker) Running() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.done != nil
}

// Current returns the side being shown.
func (b *Blinker) Current() plane.Side {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// SetInterval changes the swap period. A running blinker reschedules its
// ticker immediately; the next swap happens one new interval from now.
func (b *Blinker) SetInterval(d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if d <= 0 {
		return
	}
	b.interval = d
	if b.ticker != nil {
		b.ticker.Reset(d)
	}
}
