package crm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeDemo(t *testing.T) {
	now := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	s, err := Summarize(Demo(now), 3)
	require.NoError(t, err)

	assert.Equal(t, 7, s.Contacts)
	assert.Equal(t, 5, s.OpenDeals)
	assert.Equal(t, int64(84000+42000+12500+150000+27000), s.OpenValue)
	assert.Equal(t, int64(31000+56000), s.WonValue)
	assert.InDelta(t, 2.0/3.0, s.WinRate, 1e-9)
	assert.Equal(t, "sam", s.TopOwner)

	require.Len(t, s.Stages, len(Stages))
	assert.Equal(t, StageProposal, s.Stages[2].Stage)
	assert.Equal(t, 2, s.Stages[2].Count)

	require.Len(t, s.RecentActions, 3)
	assert.Equal(t, "Scoped warehouse pilot", s.RecentActions[0].Subject)
	assert.True(t, s.RecentActions[0].At.After(s.RecentActions[1].At))
}

func TestSummarizeRejectsNegativeValue(t *testing.T) {
	b := Book{Deals: []Deal{{ID: "d-1", Stage: StageLead, Value: -5}}}
	_, err := Summarize(b, 5)
	assert.ErrorIs(t, err, ErrInvalidDeal)
}

func TestSummarizeRejectsUnknownStage(t *testing.T) {
	b := Book{Deals: []Deal{{ID: "d-1", Stage: "archived", Value: 5}}}
	_, err := Summarize(b, 5)
	assert.ErrorIs(t, err, ErrInvalidDeal)
	assert.Contains(t, err.Error(), "archived")
}

func TestSummarizeEmpty(t *testing.T) {
	s, err := Summarize(Book{}, 5)
	require.NoError(t, err)
	assert.Zero(t, s.WinRate)
	assert.Empty(t, s.TopOwner)
	assert.Empty(t, s.RecentActions)
}

func TestContactByID(t *testing.T) {
	b := Demo(time.Now())
	c, ok := b.ContactByID("c-03")
	require.True(t, ok)
	assert.Equal(t, "Chen Wei", c.Name)

	_, ok = b.ContactByID("c-99")
	assert.False(t, ok)
}
