package persistence

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBankrollDeductBuyInRejectsInsufficientBalance(t *testing.T) {
	b := NewMemoryBankroll()
	b.Credit("u1", 100)

	require.NoError(t, b.DeductBuyIn("u1", 50))
	assert.Equal(t, 50, b.Balance("u1"))

	assert.Error(t, b.DeductBuyIn("u1", 1000), "expected an error deducting more than the balance")
}

func TestMemoryBankrollCashOutCreditsBalance(t *testing.T) {
	b := NewMemoryBankroll()
	require.NoError(t, b.CashOut("u1", 75))
	assert.Equal(t, 75, b.Balance("u1"))
}

func TestMemoryBankrollDeductBuyInRejectsNonPositiveAmount(t *testing.T) {
	b := NewMemoryBankroll()
	b.Credit("u1", 100)
	assert.Error(t, b.DeductBuyIn("u1", 0), "expected an error for a zero amount")
}

func TestMemoryHandHistoryRecordsInArrivalOrder(t *testing.T) {
	h := NewMemoryHandHistory()
	require.NoError(t, h.RecordHand("t1", HandRecord{HandID: "h1"}))
	require.NoError(t, h.RecordHand("t1", HandRecord{HandID: "h2"}))

	records := h.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "h1", records[0].HandID)
	assert.Equal(t, "h2", records[1].HandID)
}

func TestMemoryStatsAccumulatesAcrossHands(t *testing.T) {
	s := NewMemoryStats()
	_ = s.IncrementStats("u1", StatsDelta{NetChips: 40})
	_ = s.IncrementStats("u1", StatsDelta{NetChips: -15})

	got := s.Stats("u1")
	assert.Equal(t, 2, got.Hands)
	assert.Equal(t, 25, got.NetChips)
	assert.Equal(t, 40, got.TotalWon)
	assert.Equal(t, 15, got.TotalLost)
	assert.Equal(t, -15, got.LastDelta)
}

func TestMemoryStatsReturnsZeroValueForUnknownPlayer(t *testing.T) {
	s := NewMemoryStats()
	assert.Equal(t, PlayerStats{}, s.Stats("ghost"))
}

func TestFileHandHistoryWritesOneFilePerHand(t *testing.T) {
	dir := t.TempDir()
	h, err := NewFileHandHistory(dir)
	require.NoError(t, err)

	require.NoError(t, h.RecordHand("t1", HandRecord{TableID: "t1", HandNumber: 1, Rake: 5}))
	require.NoError(t, h.RecordHand("t1", HandRecord{TableID: "t1", HandNumber: 2, Rake: 3}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	var record HandRecord
	require.NoError(t, json.Unmarshal(data, &record))
	assert.Equal(t, "t1", record.TableID)
	assert.NotEmpty(t, record.HandID, "expected RecordHand to stamp a generated hand id")
}
