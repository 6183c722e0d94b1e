package simulation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSource struct {
	value int
	calls []int
}

func (f *fixedSource) Intn(n int) int {
	f.calls = append(f.calls, n)
	return f.value % n
}

func TestThroughput_OnDay(t *testing.T) {
	tp := NewThroughput([]int{0, 1, 0, 2})

	assert.Equal(t, 4, tp.History())
	assert.Equal(t, 3, tp.Total())

	v, err := tp.OnDay(3)
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	for _, day := range []int{-1, 4, 100} {
		_, err := tp.OnDay(day)
		assert.ErrorIs(t, err, ErrInvalidInput, "day %d", day)
	}
}

func TestThroughput_IsImmutable(t *testing.T) {
	counts := []int{1, 2, 3}
	tp := NewThroughput(counts)
	counts[0] = 99

	v, err := tp.OnDay(0)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	out := tp.Counts()
	out[1] = 99
	v, _ = tp.OnDay(1)
	assert.Equal(t, 2, v)
}

func TestThroughput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		counts  []int
		wantErr bool
	}{
		{"Empty", nil, true},
		{"Negative", []int{1, -1}, true},
		{"AllZero", []int{0, 0, 0}, false},
		{"Valid", []int{0, 1, 2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewThroughput(tt.counts).Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewThroughputFromCompletions(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 4, 18, 0, 0, 0, time.UTC)

	completions := []time.Time{
		time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 1, 17, 30, 0, 0, time.UTC),
		time.Date(2024, 3, 3, 12, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 4, 23, 59, 0, 0, time.UTC),
		time.Date(2024, 2, 28, 12, 0, 0, 0, time.UTC), // before window
		time.Date(2024, 3, 5, 0, 0, 1, 0, time.UTC),   // after window
		{},
	}

	tp := NewThroughputFromCompletions(completions, start, end)

	assert.Equal(t, []int{2, 0, 1, 1}, tp.Counts())
	assert.Equal(t, 4, tp.Total())
}

func TestNewThroughputFromCompletions_InvertedWindow(t *testing.T) {
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	tp := NewThroughputFromCompletions([]time.Time{start}, start, end)
	assert.Equal(t, 0, tp.History())
}

func TestThroughput_Summary(t *testing.T) {
	s := NewThroughput([]int{1, 1, 1, 1, 1, 1, 1, 1, 1, 10}).Summary()

	assert.Equal(t, 10, s.History)
	assert.Equal(t, 19, s.Total)
	assert.InDelta(t, 1.9, s.Average, 1e-9)
	assert.Equal(t, 1.0, s.Median)
	assert.Equal(t, 10.0, s.FatTail)
	assert.True(t, s.Sampling)

	zero := NewThroughput([]int{0, 0}).Summary()
	assert.False(t, zero.Sampling)
	assert.Equal(t, 2, zero.ZeroDays)
}

func TestSampleThroughput(t *testing.T) {
	tp := NewThroughput([]int{4, 5, 6})
	src := &fixedSource{value: 2}

	v, err := SampleThroughput(tp, src)
	require.NoError(t, err)
	assert.Equal(t, 6, v)
	assert.Equal(t, []int{3}, src.calls, "sampler draws a day within the history")

	_, err = SampleThroughput(NewThroughput(nil), src)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
