package app

import (
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okihara/plo-game-sub002/internal/config"
	"github.com/okihara/plo-game-sub002/internal/matchmaking"
	"github.com/okihara/plo-game-sub002/internal/persistence"
)

func newTestApp(t *testing.T) (*App, *persistence.MemoryBankroll) {
	t.Helper()
	cfg := config.Default()
	bankroll := persistence.NewMemoryBankroll()
	bankroll.Credit("alice", 10_000)
	bankroll.Credit("bob", 10_000)
	a := New(cfg, zerolog.Nop(), quartz.NewReal(), 1, bankroll, persistence.NewMemoryHandHistory(), persistence.NewMemoryStats())

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	a.Run(ctx)
	return a, bankroll
}

func waitForSeat(t *testing.T, a *App, userID string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, _, ok := a.CurrentTable(userID); ok {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("%s was never seated", userID)
}

func TestJoinMatchmakingSeatsBothPlayersOnceMinimumReached(t *testing.T) {
	a, bankroll := newTestApp(t)
	level := matchmaking.BlindLevel{SmallBlind: 1, BigBlind: 2}

	require.NoError(t, a.JoinMatchmaking("alice", "alice", false, level, 200))
	require.NoError(t, a.JoinMatchmaking("bob", "bob", false, level, 200))

	waitForSeat(t, a, "alice")
	waitForSeat(t, a, "bob")

	tbl, _, _ := a.CurrentTable("alice")
	other, _, _ := a.CurrentTable("bob")
	assert.Equal(t, tbl.ID, other.ID, "expected both players seated at the same table")
	assert.Equal(t, 9800, bankroll.Balance("alice"))
}

func TestLeaveMatchmakingDropsAQueuedPlayerBeforeSeating(t *testing.T) {
	a, _ := newTestApp(t)
	level := matchmaking.BlindLevel{SmallBlind: 1, BigBlind: 2}

	require.NoError(t, a.JoinMatchmaking("solo", "solo", false, level, 200))
	a.LeaveMatchmaking("solo")

	time.Sleep(50 * time.Millisecond)
	_, _, ok := a.CurrentTable("solo")
	assert.False(t, ok, "expected solo to remain unseated after leaving the queue")
}

func TestCreateAndJoinPrivateTable(t *testing.T) {
	a, bankroll := newTestApp(t)
	level := matchmaking.BlindLevel{SmallBlind: 1, BigBlind: 2}

	tbl, hostSeat, err := a.CreatePrivateTable("host", level, 300)
	require.NoError(t, err)
	require.GreaterOrEqual(t, hostSeat, 0)

	joined, guestSeat, err := a.JoinPrivateTable("guest", tbl.ID, 300)
	require.NoError(t, err)
	assert.Equal(t, tbl.ID, joined.ID, "expected the guest to join the same table")
	assert.NotEqual(t, hostSeat, guestSeat, "expected distinct seats for host and guest")
	assert.Equal(t, 9700, bankroll.Balance("host"))
	assert.Equal(t, 9700, bankroll.Balance("guest"))
}

func TestJoinPrivateTableRejectsUnknownID(t *testing.T) {
	a, _ := newTestApp(t)
	_, _, err := a.JoinPrivateTable("guest", "no-such-table", 200)
	assert.Error(t, err)
}

func TestLeaveTableCashesOutCurrentChips(t *testing.T) {
	a, bankroll := newTestApp(t)
	level := matchmaking.BlindLevel{SmallBlind: 1, BigBlind: 2}

	_, _, err := a.CreatePrivateTable("solo", level, 300)
	require.NoError(t, err)

	require.NoError(t, a.LeaveTable("solo"))
	assert.Equal(t, 10_000, bankroll.Balance("solo"), "expected the buy-in cashed back out")

	_, _, ok := a.CurrentTable("solo")
	assert.False(t, ok, "expected solo to no longer resolve to a table after leaving")
}

func TestSetMaintenanceRejectsNewMatchmakingJoins(t *testing.T) {
	a, _ := newTestApp(t)
	a.SetMaintenance(true)

	level := matchmaking.BlindLevel{SmallBlind: 1, BigBlind: 2}
	err := a.JoinMatchmaking("alice", "alice", false, level, 200)
	assert.Error(t, err, "expected JoinMatchmaking to fail during maintenance")
}

func TestSpectateReturnsAnExistingTable(t *testing.T) {
	a, _ := newTestApp(t)
	level := matchmaking.BlindLevel{SmallBlind: 1, BigBlind: 2}
	tbl, _, err := a.CreatePrivateTable("host", level, 300)
	require.NoError(t, err)

	got, err := a.Spectate("onlooker", tbl.ID)
	require.NoError(t, err)
	assert.Equal(t, tbl.ID, got.ID)
}
