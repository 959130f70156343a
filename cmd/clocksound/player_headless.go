//go:build headless

package main

import "sync/atomic"

// headlessClickPlayer is a no-op stand-in for otoClickPlayer, mirroring
// audio_backend_headless.go's convention: same interface, no real audio
// device, just enough bookkeeping (a click counter) to remain observable
// in tests.
type headlessClickPlayer struct {
	clicks  atomic.Int64
	started atomic.Bool
}

func newClickPlayer(_ int) (clickPlayer, error) {
	return &headlessClickPlayer{}, nil
}

func (p *headlessClickPlayer) Start() { p.started.Store(true) }
func (p *headlessClickPlayer) Stop()  { p.started.Store(false) }
func (p *headlessClickPlayer) Close() { p.started.Store(false) }
func (p *headlessClickPlayer) Click() { p.clicks.Add(1) }
