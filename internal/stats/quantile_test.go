package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/steamflip/internal/contracts"
)

func TestMedian(t *testing.T) {
	tests := []struct {
		name    string
		values  []float64
		want    float64
		wantPos float64
	}{
		{name: "single value", values: []float64{4.2}, want: 4.2, wantPos: 0},
		{name: "odd length", values: []float64{3, 1, 2}, want: 2, wantPos: 1},
		{name: "odd length five", values: []float64{5, 1, 4, 2, 3}, want: 3, wantPos: 2},
		{name: "even length", values: []float64{1, 2, 3, 4}, want: 2.5, wantPos: 1.5},
		{name: "even length two", values: []float64{10, 20}, want: 15, wantPos: 0.5},
		{name: "unsorted input", values: []float64{9, 1, 5}, want: 5, wantPos: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, pos := Median(tt.values)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.InDelta(t, tt.wantPos, pos, 1e-9)
		})
	}
}

func TestMedianDoesNotMutateInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Median(values)
	assert.Equal(t, []float64{3, 1, 2}, values)
}

func TestComputeQuartiles(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   Quartiles
	}{
		{
			// Even length: midpoint 2.5 rounds up to 3, so both halves
			// include the boundary: Q1 over [1 2 3], Q3 over [4 5 6].
			name:   "even length six",
			values: []float64{1, 2, 3, 4, 5, 6},
			want:   Quartiles{Q1: 2, Q2: 3.5, Q3: 5},
		},
		{
			// Odd length: the median element itself is excluded from both
			// halves: Q1 over [1 2], Q3 over [4 5].
			name:   "odd length five",
			values: []float64{1, 2, 3, 4, 5},
			want:   Quartiles{Q1: 1.5, Q2: 3, Q3: 4.5},
		},
		{
			name:   "minimum three",
			values: []float64{10, 20, 30},
			want:   Quartiles{Q1: 10, Q2: 20, Q3: 30},
		},
		{
			name:   "four values",
			values: []float64{1, 2, 3, 4},
			want:   Quartiles{Q1: 1.5, Q2: 2.5, Q3: 3.5},
		},
		{
			name:   "unsorted input",
			values: []float64{6, 1, 5, 2, 4, 3},
			want:   Quartiles{Q1: 2, Q2: 3.5, Q3: 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeQuartiles(tt.values)
			require.NoError(t, err)
			assert.InDelta(t, tt.want.Q1, got.Q1, 1e-9, "Q1")
			assert.InDelta(t, tt.want.Q2, got.Q2, 1e-9, "Q2")
			assert.InDelta(t, tt.want.Q3, got.Q3, 1e-9, "Q3")
		})
	}
}

func TestComputeQuartilesInsufficientData(t *testing.T) {
	for _, values := range [][]float64{nil, {}, {1}, {1, 2}} {
		_, err := ComputeQuartiles(values)
		assert.ErrorIs(t, err, contracts.ErrInsufficientData)
	}
}

func TestQuartilesOf(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	events := []contracts.SaleEvent{
		{Timestamp: base, Price: 3},
		{Timestamp: base.AddDate(0, 0, 1), Price: 1},
		{Timestamp: base.AddDate(0, 0, 2), Price: 2},
	}

	got, err := QuartilesOf(events)
	require.NoError(t, err)
	assert.Equal(t, Quartiles{Q1: 1, Q2: 2, Q3: 3}, got)

	_, err = QuartilesOf(events[:2])
	assert.ErrorIs(t, err, contracts.ErrInsufficientData)
}
