package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayNameToIndex(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"Mon", 0},
		{"monday", 0},
		{"TUE", 1},
		{"Wednesday", 2},
		{" thu ", 3},
		{"Fri", 4},
		{"saturday", 5},
		{"Sun", 6},
		{"SUNDAY", 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DayNameToIndex(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDayNameToIndex_Unknown(t *testing.T) {
	for _, name := range []string{"", "Someday", "PITT", "Tues"} {
		_, err := DayNameToIndex(name)
		assert.ErrorIs(t, err, ErrUnknownDay, "name %q", name)
	}
}

func TestIndexToDay(t *testing.T) {
	for i := 0; i < DaysPerWeek; i++ {
		abbrev, err := IndexToDayAbbrev(i)
		require.NoError(t, err)
		name, err := IndexToDayName(i)
		require.NoError(t, err)

		// Both renderings round-trip through DayNameToIndex.
		back, err := DayNameToIndex(abbrev)
		require.NoError(t, err)
		assert.Equal(t, i, back)
		back, err = DayNameToIndex(name)
		require.NoError(t, err)
		assert.Equal(t, i, back)
	}

	for _, i := range []int{-1, 7, 100} {
		_, err := IndexToDayAbbrev(i)
		assert.ErrorIs(t, err, ErrDayOutOfRange)
		_, err = IndexToDayName(i)
		assert.ErrorIs(t, err, ErrDayOutOfRange)
	}
}

func TestISODay(t *testing.T) {
	assert.Equal(t, 0, ISODay(time.Monday))
	assert.Equal(t, 5, ISODay(time.Saturday))
	assert.Equal(t, 6, ISODay(time.Sunday))
}

func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"0", "0000"},
		{"30", "0030"},
		{"800", "0800"},
		{"1230", "1230"},
		{"2359", "2359"},
		{"PITT", "PITT"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := NormalizeTime(tt.raw)
			assert.Equal(t, tt.want, got)
			if IsNumericTime(tt.raw) {
				assert.Len(t, got, 4)
			}
		})
	}
}

func TestHourMinute(t *testing.T) {
	h, m, ok := HourMinute("830")
	require.True(t, ok)
	assert.Equal(t, 8, h)
	assert.Equal(t, 30, m)

	h, m, ok = HourMinute("PITT")
	assert.False(t, ok)
	assert.Zero(t, h)
	assert.Zero(t, m)
}

func TestDurationToHours(t *testing.T) {
	tests := []struct {
		raw    string
		want   float64
		wantOK bool
	}{
		{"30min", 0.5, true},
		{"90 mins", 1.5, true},
		{"2hrs", 2, true},
		{"1hr", 1, true},
		{"garbage", 1, false},
		{"45", 1, false},
		{"hrs", 1, false},
		{"", 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := DurationToHours(tt.raw)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.Equal(t, tt.wantOK, ok)
			assert.Greater(t, got, 0.0)
		})
	}
}

func TestTo12Hour(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"0", "12:00am"},
		{"800", "8:00am"},
		{"1130", "11:30am"},
		{"1200", "12:00pm"},
		{"1305", "1:05pm"},
		{"2345", "11:45pm"},
	}
	for _, tt := range tests {
		got, ok := To12Hour(tt.raw)
		assert.True(t, ok)
		assert.Equal(t, tt.want, got, "raw %q", tt.raw)
	}

	_, ok := To12Hour("PITT")
	assert.False(t, ok)
}

func TestOrdinal(t *testing.T) {
	tests := map[int]string{
		1: "1st", 2: "2nd", 3: "3rd", 4: "4th",
		11: "11th", 12: "12th", 13: "13th",
		21: "21st", 22: "22nd", 23: "23rd", 31: "31st",
	}
	for n, want := range tests {
		assert.Equal(t, want, Ordinal(n))
	}
}

func TestISOWeekNumber(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		{"2016-01-01", 53},
		{"2021-01-04", 1},
		{"2021-01-03", 53},
		{"2021-03-09", 10},
		{"2020-12-31", 53},
		{"2024-12-30", 1},
	}
	for _, tt := range tests {
		d, err := time.Parse("2006-01-02", tt.date)
		require.NoError(t, err)
		assert.Equal(t, tt.want, ISOWeekNumber(d), tt.date)
	}
}

func TestStationTime(t *testing.T) {
	loc, err := LoadStationLocation(DefaultStationZone)
	require.NoError(t, err)

	// 2021-03-09 15:00 UTC is 09:00 CST on a Tuesday.
	st := At(time.Date(2021, time.March, 9, 15, 0, 0, 0, time.UTC), loc)
	assert.Equal(t, 9, st.Hour())
	assert.Equal(t, 1, st.ISOWeekday())
	assert.Equal(t, 10, st.ISOWeek())
	assert.Equal(t, "Tuesday, March 9th, 2021", st.PrettyString())

	prev := st.DaysBefore(1, 8, 0)
	assert.Equal(t, "Monday, March 8th, 2021", prev.PrettyString())
	assert.Equal(t, 8, prev.Hour())
	assert.True(t, prev.Before(st))
}

func TestStationTime_DaysBeforeAcrossDST(t *testing.T) {
	loc, err := LoadStationLocation(DefaultStationZone)
	require.NoError(t, err)

	// DST began 2021-03-14 in America/Chicago.
	st := At(time.Date(2021, time.March, 15, 10, 0, 0, 0, loc), loc)
	week := st.DaysBefore(7, 10, 0)
	assert.Equal(t, 10, week.Hour())
	assert.Equal(t, 8, week.Time().Day())
}

func TestClock(t *testing.T) {
	loc, err := LoadStationLocation(DefaultStationZone)
	require.NoError(t, err)

	fixed := time.Date(2021, time.January, 4, 5, 30, 0, 0, time.UTC)
	clock := NewClock(loc, func() time.Time { return fixed })

	now := clock.Now()
	assert.Equal(t, loc, now.Location())
	// 05:30 UTC Monday is still Sunday evening in Chicago.
	assert.Equal(t, 6, now.ISOWeekday())
	assert.Equal(t, 23, now.Hour())
	assert.Equal(t, 53, now.ISOWeek())
}

func TestLoadStationLocation_Invalid(t *testing.T) {
	_, err := LoadStationLocation("Not/AZone")
	assert.Error(t, err)
}
