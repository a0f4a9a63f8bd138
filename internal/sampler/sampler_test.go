package sampler

import (
	"math/rand"
	"sort"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2021-01-01 00:00:00 UTC
const jan1 = int64(1609459200)

func TestPickScenario(t *testing.T) {
	ts := []int64{100, 200, 86500}

	got := pick(ts, []int64{100, 86500}, 50*60)

	assert.Equal(t, []int64{100, 86500}, got)
}

func TestDayCentersLastDay(t *testing.T) {
	noon := jan1 + 12*3600

	inclusive := dayCenters(jan1+100, jan1+2*day+100, 12, time.UTC, true)
	assert.Equal(t, []int64{noon, noon + day, noon + 2*day}, inclusive)

	exclusive := dayCenters(jan1+100, jan1+2*day+100, 12, time.UTC, false)
	assert.Equal(t, []int64{noon, noon + day}, exclusive)

	assert.Empty(t, dayCenters(jan1+100, jan1+200, 12, time.UTC, false))
}

func TestSampleAcrossDSTChange(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// Clocks spring forward on 2021-03-14 and fall back on 2021-11-07.
	for _, start := range []time.Time{
		time.Date(2021, time.March, 12, 12, 0, 0, 0, ny),
		time.Date(2021, time.November, 5, 12, 0, 0, 0, ny),
	} {
		t.Run(start.Format("2006-01-02"), func(t *testing.T) {
			var ts []int64
			for d := 0; d < 5; d++ {
				ts = append(ts, start.AddDate(0, 0, d).Unix())
			}

			got, err := Sample(ts, 12, DefaultFrameMinutes, WithLocation(ny))
			require.NoError(t, err)
			assert.Equal(t, ts, got)

			for _, v := range got {
				assert.Equal(t, 12, time.Unix(v, 0).In(ny).Hour())
			}
		})
	}
}

func TestSample(t *testing.T) {
	noon := jan1 + 12*3600
	ts := []int64{
		jan1 + 3600,        // day 1, 01:00
		noon - 200,         // day 1, candidate
		noon + 90,          // day 1, closest
		noon + 400,         // day 1, outside 5 minute window
		noon + day + 600,   // day 2, outside window
		noon + 2*day - 299, // day 3, inside window
		noon + 3*day + 5,   // day 4, last day
	}

	got, err := Sample(ts, 12, DefaultFrameMinutes, WithLocation(time.UTC))
	require.NoError(t, err)
	assert.Equal(t, []int64{noon + 90, noon + 2*day - 299, noon + 3*day + 5}, got)

	got, err = Sample(ts, 12, DefaultFrameMinutes, WithLocation(time.UTC), WithExclusiveLastDay(true))
	require.NoError(t, err)
	assert.Equal(t, []int64{noon + 90, noon + 2*day - 299}, got)
}

func TestSampleTieBreaksOnFirstOccurrence(t *testing.T) {
	noon := jan1 + 12*3600
	ts := []int64{noon - 60, noon + 60}

	got, err := Sample(ts, 12, 5, WithLocation(time.UTC))
	require.NoError(t, err)
	assert.Equal(t, []int64{noon - 60}, got)
}

func TestSampleLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	// 12:00 in UTC+2 is 10:00 UTC.
	tenUTC := jan1 + 10*3600
	ts := []int64{tenUTC, jan1 + 12*3600}

	got, err := Sample(ts, 12, 5, WithLocation(loc))
	require.NoError(t, err)
	assert.Equal(t, []int64{tenUTC}, got)
}

func TestSampleEmptyAndValidation(t *testing.T) {
	got, err := Sample(nil, 12, 5)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = Sample([]int64{1}, 24, 5)
	assert.ErrorIs(t, err, ErrInvalidHour)

	_, err = Sample([]int64{1}, -1, 5)
	assert.ErrorIs(t, err, ErrInvalidHour)

	_, err = Sample([]int64{1}, 12, -1)
	assert.ErrorIs(t, err, ErrInvalidFrame)

	_, err = Sample([]int64{1}, 12, 720)
	assert.ErrorIs(t, err, ErrInvalidFrame)

	_, err = Sample([]int64{1}, 12, 690)
	assert.ErrorIs(t, err, ErrInvalidFrame)

	_, err = Sample([]int64{1}, 12, 689)
	assert.NoError(t, err)

	_, err = Sample([]int64{3, 2, 1}, 12, 5)
	assert.ErrorIs(t, err, ErrUnsorted)
}

func TestSampleProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ts := make([]int64, 2000)
	for i := range ts {
		ts[i] = jan1 + rng.Int63n(30*day)
	}
	sort.Slice(ts, func(i, j int) bool { return ts[i] < ts[j] })

	const hour, frame = 9, 30
	got, err := Sample(ts, hour, frame, WithLocation(time.UTC))
	require.NoError(t, err)

	again, err := Sample(ts, hour, frame, WithLocation(time.UTC))
	require.NoError(t, err)
	assert.Equal(t, got, again)

	members := make(map[int64]bool, len(ts))
	for _, v := range ts {
		members[v] = true
	}

	span := (DayCenter(ts[len(ts)-1], hour, time.UTC)-DayCenter(ts[0], hour, time.UTC))/day + 1
	assert.LessOrEqual(t, int64(len(got)), span)
	assert.True(t, sort.SliceIsSorted(got, func(i, j int) bool { return got[i] < got[j] }))

	for _, v := range got {
		assert.True(t, members[v], "sampled timestamp %d is not in the input", v)
		c := DayCenter(v, hour, time.UTC)
		// v may sit just before midnight of the previous day only if the window
		// crosses midnight, which a 09:00 center with 30 minutes never does.
		assert.LessOrEqual(t, abs(v-c), int64(frame*60))
	}
}
