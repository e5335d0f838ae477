package tablemgr

import (
	"testing"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"

	"github.com/okihara/plo-game-sub002/internal/engine"
	"github.com/okihara/plo-game-sub002/internal/table"
)

func testConfig() table.Config {
	return table.Config{SmallBlind: 1, BigBlind: 2, Rake: engine.RakeConfig{Percent: 0.05, CapBB: 3}}
}

func TestCreateAndGetTable(t *testing.T) {
	m := New(zerolog.Nop(), quartz.NewReal(), 1, nil)
	tbl := m.CreateTable(testConfig())
	got, ok := m.Get(tbl.ID)
	if !ok || got != tbl {
		t.Fatalf("expected Get to return the created table")
	}
}

func TestPlayerToTableBinding(t *testing.T) {
	m := New(zerolog.Nop(), quartz.NewReal(), 1, nil)
	tbl := m.CreateTable(testConfig())
	m.BindPlayer("alice", tbl.ID)

	got, ok := m.TableOf("alice")
	if !ok || got.ID != tbl.ID {
		t.Fatalf("expected alice to resolve to table %s", tbl.ID)
	}
	m.UnbindPlayer("alice")
	if _, ok := m.TableOf("alice"); ok {
		t.Errorf("expected no binding after UnbindPlayer")
	}
}

func TestRemoveTableClearsBindings(t *testing.T) {
	m := New(zerolog.Nop(), quartz.NewReal(), 1, nil)
	tbl := m.CreateTable(testConfig())
	m.BindPlayer("bob", tbl.ID)

	if err := m.RemoveTable(tbl.ID); err != nil {
		t.Fatalf("RemoveTable: %v", err)
	}
	if _, ok := m.Get(tbl.ID); ok {
		t.Errorf("expected table to be gone from the registry")
	}
	if _, ok := m.TableOf("bob"); ok {
		t.Errorf("expected bob's binding to be cleared")
	}
}

func TestPrivateTableUsesTheRequestedID(t *testing.T) {
	m := New(zerolog.Nop(), quartz.NewReal(), 1, nil)
	tbl := m.CreatePrivateTable("friends-game", testConfig())
	if tbl.ID != "friends-game" {
		t.Errorf("expected private table id to be preserved, got %s", tbl.ID)
	}
}
