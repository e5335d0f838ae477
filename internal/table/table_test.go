package table

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"

	"github.com/okihara/plo-game-sub002/internal/engine"
	"github.com/okihara/plo-game-sub002/internal/pokererr"
	"github.com/okihara/plo-game-sub002/internal/seat"
)

type fakeSink struct {
	mu  sync.Mutex
	got []any
}

func (f *fakeSink) Send(msg any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, msg)
	return nil
}

func (f *fakeSink) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.got)
}

func newTestTable(t *testing.T, clock quartz.Clock) *Instance {
	cfg := Config{SmallBlind: 1, BigBlind: 2, Rake: engine.RakeConfig{Percent: 0.05, CapBB: 3}, ActionTimeout: 30 * time.Second, DisconnectGrace: 20 * time.Second}
	tbl := New("t1", cfg, rand.New(rand.NewSource(1)), clock, zerolog.Nop(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go tbl.Run(ctx)
	return tbl
}

func TestSeatingAndStartingAHandDealsCards(t *testing.T) {
	tbl := newTestTable(t, quartz.NewReal())
	i1, err := tbl.Seats.Seat(seat.Occupant{UserID: "a", Chips: 200})
	if err != nil {
		t.Fatalf("seat a: %v", err)
	}
	i2, err := tbl.Seats.Seat(seat.Occupant{UserID: "b", Chips: 200})
	if err != nil {
		t.Fatalf("seat b: %v", err)
	}

	sinkA, sinkB := &fakeSink{}, &fakeSink{}
	tbl.Room.Subscribe(i1, sinkA)
	tbl.Room.Subscribe(i2, sinkB)

	if err := tbl.Submit(engine.Command{Type: engine.CmdStartHand}); err != nil {
		t.Fatalf("start hand: %v", err)
	}

	st := tbl.State()
	if !st.IsHandActive {
		t.Fatalf("expected an active hand")
	}
	if sinkA.count() == 0 || sinkB.count() == 0 {
		t.Errorf("expected both seats to receive the HAND_STARTED broadcast")
	}
}

func TestActionTimeoutAutoFoldsTheClockedSeat(t *testing.T) {
	clock := quartz.NewMock(t)
	tbl := newTestTable(t, clock)
	tbl.Seats.Seat(seat.Occupant{UserID: "a", Chips: 200})
	tbl.Seats.Seat(seat.Occupant{UserID: "b", Chips: 200})

	if err := tbl.Submit(engine.Command{Type: engine.CmdStartHand}); err != nil {
		t.Fatalf("start hand: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	clock.Advance(tbl.Config.ActionTimeout).MustWait(ctx)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if tbl.State().IsComplete {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	st := tbl.State()
	if !st.IsComplete {
		t.Fatalf("expected the hand to complete after the clocked seat auto-folded")
	}
}

func TestFrozenTableRejectsFurtherCommands(t *testing.T) {
	tbl := newTestTable(t, quartz.NewReal())
	tbl.mu.Lock()
	tbl.frozen = pokererr.New(pokererr.KindIntegrityViolation, "test", "table frozen")
	tbl.mu.Unlock()

	if err := tbl.Submit(engine.Command{Type: engine.CmdPlayerAction, Seat: 9}); !pokererr.Is(err, pokererr.KindIntegrityViolation) {
		t.Fatalf("expected the frozen table to reject the command with its integrity error, got %v", err)
	}
}
