//go:build !headless

package main

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
)

// clickDurationFrac is how long (as a fraction of a second) each click's
// decaying tone lasts.
const clickDurationFrac = 0.02

// clickToneHz is the pitch of the click itself.
const clickToneHz = 1200.0

// otoClickPlayer renders a short decaying tone into the oto output stream
// each time Click is called, generalizing audio_backend_oto.go's
// SoundChip-driven Read() to a fixed synthetic waveform triggered by clock
// ticks instead of register-programmed channels.
type otoClickPlayer struct {
	ctx    *oto.Context
	player *oto.Player

	sampleRate int
	remaining  atomic.Int64 // samples left to render in the current click
	phase      atomic.Uint64

	mu      sync.Mutex
	started bool
}

func newClickPlayer(sampleRate int) (clickPlayer, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   4,
	})
	if err != nil {
		return nil, err
	}
	<-ready

	p := &otoClickPlayer{ctx: ctx, sampleRate: sampleRate}
	p.player = ctx.NewPlayer(p)
	return p, nil
}

// Read implements io.Reader for the oto.Player, generating silence except
// during the decaying window after a Click.
func (p *otoClickPlayer) Read(buf []byte) (int, error) {
	samples := len(buf) / 4
	clickSamples := int(float64(p.sampleRate) * clickDurationFrac)

	for i := 0; i < samples; i++ {
		var v float32
		if left := p.remaining.Load(); left > 0 {
			p.remaining.Add(-1)
			ph := p.phase.Add(1)
			envelope := float32(left) / float32(clickSamples)
			v = envelope * float32(math.Sin(2*math.Pi*clickToneHz*float64(ph)/float64(p.sampleRate)))
		}
		putFloat32LE(buf[i*4:], v)
	}
	return len(buf), nil
}

func (p *otoClickPlayer) Click() {
	clickSamples := int64(float64(p.sampleRate) * clickDurationFrac)
	p.remaining.Store(clickSamples)
}

func (p *otoClickPlayer) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		p.player.Play()
		p.started = true
	}
}

func (p *otoClickPlayer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		p.player.Pause()
		p.started = false
	}
}

func (p *otoClickPlayer) Close() {
	p.Stop()
	p.player.Close()
}

func putFloat32LE(b []byte, v float32) {
	bits := math.Float32bits(v)
	b[0] = byte(bits)
	b[1] = byte(bits >> 8)
	b[2] = byte(bits >> 16)
	b[3] = byte(bits >> 24)
}
