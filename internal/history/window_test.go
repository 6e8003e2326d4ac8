package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/steamflip/internal/contracts"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func history(days ...int) []contracts.SaleEvent {
	events := make([]contracts.SaleEvent, len(days))
	for i, d := range days {
		events[i] = contracts.SaleEvent{Timestamp: day(d), Price: float64(d)}
	}
	return events
}

func TestSelectWindowRelativeBounds(t *testing.T) {
	events := history(1, 3, 5, 10)

	// Latest is Jan 10; [7 days ago, 0 days ago] = [Jan 3, Jan 10].
	got, err := SelectWindow(events, contracts.RelativeRegion(7, 0))
	require.NoError(t, err)
	assert.Equal(t, history(3, 5, 10), got)
}

func TestSelectWindowAbsoluteBounds(t *testing.T) {
	events := history(1, 3, 5, 10)

	got, err := SelectWindow(events, contracts.AbsoluteRegion(day(3), day(5)))
	require.NoError(t, err)
	assert.Equal(t, history(3, 5), got)
}

func TestSelectWindowInclusiveBothEnds(t *testing.T) {
	events := history(2, 4, 6)

	got, err := SelectWindow(events, contracts.AbsoluteRegion(day(2), day(6)))
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestSelectWindowNormalizesSwappedBounds(t *testing.T) {
	events := history(1, 3, 5)

	got, err := SelectWindow(events, contracts.AbsoluteRegion(day(5), day(1)))
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestSelectWindowEmptyResult(t *testing.T) {
	events := history(1, 2, 3)

	got, err := SelectWindow(events, contracts.AbsoluteRegion(day(20), day(25)))
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestSelectWindowEmptyHistory(t *testing.T) {
	got, err := SelectWindow(nil, contracts.RelativeRegion(7, 0))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSelectWindowInvalidBound(t *testing.T) {
	_, err := SelectWindow(history(1, 2), contracts.Region{})
	assert.ErrorIs(t, err, contracts.ErrInvalidBound)
}

func TestSelectWindowIdempotent(t *testing.T) {
	events := history(1, 3, 5, 10, 12)
	region := contracts.AbsoluteRegion(day(3), day(10))

	once, err := SelectWindow(events, region)
	require.NoError(t, err)
	twice, err := SelectWindow(once, region)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestSelectWindowRelativeResolvesAgainstDayFloor(t *testing.T) {
	// Latest sale at Jan 10 14:30; both bounds resolve from the day floor
	// (Jan 10 00:00), so the window is [Jan 3 00:00, Jan 10 00:00]. The
	// Jan 2 23:00 event falls before it, and the latest event itself falls
	// after the floored end bound.
	events := []contracts.SaleEvent{
		{Timestamp: day(2).Add(23 * time.Hour), Price: 1},
		{Timestamp: day(3), Price: 2},
		{Timestamp: day(10).Add(14*time.Hour + 30*time.Minute), Price: 3},
	}

	got, err := SelectWindow(events, contracts.RelativeRegion(7, 0))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2.0, got[0].Price)
}

func TestSelectWindowPreservesOrder(t *testing.T) {
	// Out-of-order input stays in input order.
	events := []contracts.SaleEvent{
		{Timestamp: day(5), Price: 5},
		{Timestamp: day(3), Price: 3},
		{Timestamp: day(4), Price: 4},
	}

	got, err := SelectWindow(events, contracts.AbsoluteRegion(day(1), day(10)))
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 3, 4}, []float64{got[0].Price, got[1].Price, got[2].Price})
}
