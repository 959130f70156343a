package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"syscall"
	"time"

	"golang.design/x/clipboard"
	"golang.org/x/term"

	"github.com/go-masterclock/masterclock/internal/fleet"
)

// console is a raw-mode terminal status display, grounded on
// terminal_host.go's MakeRaw + non-blocking stdin read loop, generalized
// from routing bytes into a TerminalMMIO device to interpreting them as
// status-console key bindings (q: quit, c: copy snapshot).
type console struct {
	boards []*fleet.Board

	fd           int
	oldTermState *term.State
	nonblockSet  bool

	clipboardOnce sync.Once
	clipboardOK   bool
}

func newConsole(boards []*fleet.Board) (*console, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("stdin is not a terminal")
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("set raw mode: %w", err)
	}

	c := &console{boards: boards, fd: fd, oldTermState: oldState}

	if err := syscall.SetNonblock(fd, true); err != nil {
		_ = term.Restore(fd, oldState)
		return nil, fmt.Errorf("set nonblocking stdin: %w", err)
	}
	c.nonblockSet = true

	return c, nil
}

// restore undoes MakeRaw/SetNonblock, matching terminal_host.go's Stop().
func (c *console) restore() {
	if c.nonblockSet {
		_ = syscall.SetNonblock(c.fd, false)
		c.nonblockSet = false
	}
	if c.oldTermState != nil {
		_ = term.Restore(c.fd, c.oldTermState)
		c.oldTermState = nil
	}
	fmt.Print("\r\n")
}

// run redraws the boards' status in place until ctx is done or the user
// presses q.
func (c *console) run(ctx context.Context) {
	redraw := time.NewTicker(100 * time.Millisecond)
	defer redraw.Stop()

	buf := make([]byte, 1)
	for {
		select {
		case <-ctx.Done():
			return
		case <-redraw.C:
			c.draw()
		default:
		}

		n, err := syscall.Read(c.fd, buf)
		if n > 0 {
			switch buf[0] {
			case 'q', 'Q', 0x03: // Ctrl-C under raw mode arrives as a plain byte
				return
			case 'c', 'C':
				c.copySnapshot()
			}
		}
		if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK || n == 0 {
			time.Sleep(5 * time.Millisecond)
		}
	}
}

func (c *console) draw() {
	fmt.Print("\r\x1b[2K") // carriage return + clear line
	for i, b := range c.boards {
		if i > 0 {
			fmt.Print("  |  ")
		}
		fmt.Printf("%s: %s", b.Name, b.Scheduler.FormattedElapsedMS())
	}
	fmt.Print("   [q]uit [c]opy snapshot")
}

// copySnapshot copies the primary board's diagnostic Snapshot() to the
// system clipboard, grounded on the teacher's handleClipboardPaste, which
// lazily Init()s golang.design/x/clipboard exactly once and treats
// failure as "clipboard unavailable" rather than fatal.
func (c *console) copySnapshot() {
	c.clipboardOnce.Do(func() {
		c.clipboardOK = clipboard.Init() == nil
	})
	if !c.clipboardOK || len(c.boards) == 0 {
		return
	}
	snapshot := c.boards[0].Scheduler.Snapshot()
	clipboard.Write(clipboard.FmtText, []byte(snapshot))
}
