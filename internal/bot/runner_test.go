package bot

import (
	"math/rand"
	"testing"

	"github.com/rs/zerolog"

	"github.com/okihara/plo-game-sub002/internal/engine"
)

type fakeTable struct {
	state     engine.State
	submitted []engine.Command
}

func (f *fakeTable) State() engine.State { return f.state }
func (f *fakeTable) Submit(cmd engine.Command) error {
	f.submitted = append(f.submitted, cmd)
	f.state.CurrentPlayerIndex = -1 // a real table would advance; avoid an infinite re-act loop in the fake
	return nil
}

func newActiveHandState(t *testing.T) engine.State {
	t.Helper()
	var s engine.State
	s.SmallBlind = 1
	s.BigBlind = 2
	s.Rake = engine.RakeConfig{Percent: 0.05, CapBB: 3}
	for i := 0; i < 4; i++ {
		s.Seats[i] = engine.Seat{Occupied: true, Chips: 200, DisplayName: "p"}
	}
	s, _, err := engine.ProcessCommand(s, engine.Command{Type: engine.CmdStartHand}, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("ProcessCommand(CmdStartHand): %v", err)
	}
	return s
}

func TestRunnerActsWhenItIsItsSeatsTurn(t *testing.T) {
	st := newActiveHandState(t)
	seat := st.CurrentPlayerIndex

	tbl := &fakeTable{state: st}
	b := New(rand.New(rand.NewSource(2)), zerolog.Nop(), DefaultConfig())
	r := NewRunner(seat, b, tbl, zerolog.Nop())

	if err := r.Send([]engine.Event{{Type: engine.EventHandStarted}}); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if len(tbl.submitted) != 1 {
		t.Fatalf("expected exactly one submitted command, got %d", len(tbl.submitted))
	}
	if tbl.submitted[0].Seat != seat {
		t.Errorf("got seat %d, want %d", tbl.submitted[0].Seat, seat)
	}
}

func TestRunnerIgnoresEventsWhenItIsNotItsTurn(t *testing.T) {
	st := newActiveHandState(t)
	otherSeat := (st.CurrentPlayerIndex + 1) % 4
	for !st.Seats[otherSeat].Occupied {
		otherSeat = (otherSeat + 1) % 4
	}

	tbl := &fakeTable{state: st}
	b := New(rand.New(rand.NewSource(2)), zerolog.Nop(), DefaultConfig())
	r := NewRunner(otherSeat, b, tbl, zerolog.Nop())

	if err := r.Send([]engine.Event{{Type: engine.EventHandStarted}}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(tbl.submitted) != 0 {
		t.Errorf("expected no submitted commands, got %d", len(tbl.submitted))
	}
}

func TestRunnerIgnoresNonEventMessages(t *testing.T) {
	st := newActiveHandState(t)
	tbl := &fakeTable{state: st}
	b := New(rand.New(rand.NewSource(2)), zerolog.Nop(), DefaultConfig())
	r := NewRunner(st.CurrentPlayerIndex, b, tbl, zerolog.Nop())

	if err := r.Send("not an event batch"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(tbl.submitted) != 0 {
		t.Errorf("expected no submitted commands for a non-event message, got %d", len(tbl.submitted))
	}
}
