package fleet

import (
	"context"
	"testing"
	"time"

	"github.com/go-masterclock/masterclock/masterclock"
)

type tickingClockable struct {
	hz uint64
}

func (c *tickingClockable) FrequencyHz() uint64    { return c.hz }
func (c *tickingClockable) Chip() int               { return 0 }
func (c *tickingClockable) OnClockTick() *masterclock.ExitToken { return nil }

func TestRunStopsBoundedBoards(t *testing.T) {
	var boards []*Board
	for i := 0; i < 3; i++ {
		s := masterclock.New()
		s.Add(&tickingClockable{hz: 1000}, -1, true, true)
		boards = append(boards, &Board{
			Name:      "board",
			Scheduler: s,
			RunFor:    1_000_000, // 1 microsecond of virtual time
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := Run(ctx, boards); err != nil {
		t.Fatalf("Run: %v", err)
	}

	for _, b := range boards {
		if b.Scheduler.ElapsedPS() < b.RunFor {
			t.Errorf("board %q stopped early at %d ps", b.Name, b.Scheduler.ElapsedPS())
		}
	}
}
