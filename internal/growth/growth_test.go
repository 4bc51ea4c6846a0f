package growth

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDailyRate(t *testing.T) {
	assert.Equal(t, 0.05, DailyRate(Rate{Value: 5, Period: PerDay}))

	yearly := DailyRate(Rate{Value: 10, Period: PerYear})
	assert.InDelta(t, 1.10, math.Pow(1+yearly, 365), 1e-9)

	monthly := DailyRate(Rate{Value: 2, Period: PerMonth})
	assert.InDelta(t, 1.02, math.Pow(1+monthly, 30), 1e-9)

	assert.Equal(t, 0.03, DailyRate(Rate{Value: 3, Period: "weekly"}), "unknown period is per day")
	assert.Less(t, DailyRate(Rate{Value: -10, Period: PerYear}), 0.0)
}

func TestRound2MatchesFixedPointRounding(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{105.00000000000001, 105},
		{1.005, 1.00}, // binary value is just below 1.005
		{2.675, 2.67},
		{0.125, 0.13}, // exact half rounds away from zero
		{-0.125, -0.13},
		{1234.5678, 1234.57},
		{0, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Round2(tc.in), "Round2(%v)", tc.in)
	}
}

func TestDurationTotalDays(t *testing.T) {
	assert.Equal(t, 1, Duration{}.TotalDays())
	assert.Equal(t, 428, Duration{Years: 1, Months: 2, Days: 3}.TotalDays())
	assert.Equal(t, 1, Duration{Days: -5}.TotalDays())
}

func TestDayFilter(t *testing.T) {
	sat := date(2024, 1, 6)
	mon := date(2024, 1, 8)

	assert.True(t, AllDays().Includes(sat))
	assert.False(t, WorkWeek().Includes(sat))
	assert.True(t, WorkWeek().Includes(mon))
	assert.True(t, Weekdays(time.Saturday).Includes(sat))
	assert.True(t, Weekdays().Empty())
	assert.False(t, AllDays().Empty())
	assert.Equal(t, []time.Weekday{time.Sunday, time.Saturday}, Weekdays(time.Saturday, time.Sunday).Selected())
}

func TestContributionForIndex(t *testing.T) {
	weekly := Contribution{Type: Deposit, Amount: 50, Frequency: Weekly}
	for i := 0; i < 30; i++ {
		want := 0.0
		if i%7 == 0 {
			want = 50
		}
		assert.Equal(t, want, weekly.ForIndex(i), "index %d", i)
	}

	monthly := Contribution{Type: Withdraw, Amount: 20, Frequency: Monthly}
	assert.Equal(t, -20.0, monthly.ForIndex(0))
	assert.Equal(t, 0.0, monthly.ForIndex(29))
	assert.Equal(t, -20.0, monthly.ForIndex(30))

	daily := Contribution{Type: Deposit, Amount: 5, Frequency: Daily}
	assert.Equal(t, 5.0, daily.ForIndex(13))

	assert.Equal(t, 0.0, Contribution{Type: ContributeNone, Amount: 5, Frequency: Daily}.ForIndex(0))
	assert.Equal(t, 0.0, Contribution{Type: Deposit, Amount: 0, Frequency: Daily}.ForIndex(0))
}

func TestProjectIncludeAll(t *testing.T) {
	proj := Schedule{
		Initial:   100,
		DailyRate: 0.05,
		Reinvest:  1,
		TotalDays: 10,
		Start:     date(2024, 1, 1),
		Filter:    AllDays(),
		Today:     date(2024, 1, 3),
	}.Project()

	require.Len(t, proj.Entries, 11)
	assert.False(t, proj.Degenerate)
	assert.Equal(t, 100.0, proj.Entries[0].Amount)
	assert.Equal(t, 105.0, proj.Entries[1].Amount)
	assert.Equal(t, 110.25, proj.Entries[2].Amount)

	for i, e := range proj.Entries {
		assert.Equal(t, i+1, e.DayIndex)
		assert.Equal(t, date(2024, 1, 1+i), e.Date)
	}
	assert.False(t, proj.Entries[2].IsFuture, "today is not in the future")
	assert.True(t, proj.Entries[3].IsFuture)
}

func TestProjectRoundsEveryStep(t *testing.T) {
	proj := Schedule{
		Initial:   10,
		DailyRate: 0.0333,
		Reinvest:  1,
		TotalDays: 3,
		Start:     date(2024, 1, 1),
		Filter:    AllDays(),
	}.Project()

	require.Len(t, proj.Entries, 4)
	// 10*1.0333 = 10.333 -> 10.33; 10.33*1.0333 = 10.674... -> 10.67
	assert.Equal(t, 10.33, proj.Entries[1].Amount)
	assert.Equal(t, 10.67, proj.Entries[2].Amount)
}

func TestProjectSkipsWeekends(t *testing.T) {
	proj := Schedule{
		Initial:   100,
		DailyRate: 0.01,
		Reinvest:  1,
		TotalDays: 10,
		Start:     date(2024, 1, 5), // Friday
		Filter:    WorkWeek(),
	}.Project()

	require.Len(t, proj.Entries, 11)
	for _, e := range proj.Entries {
		wd := e.Date.Weekday()
		assert.NotEqual(t, time.Saturday, wd)
		assert.NotEqual(t, time.Sunday, wd)
	}
	assert.Equal(t, date(2024, 1, 8), proj.Entries[1].Date)
	assert.Equal(t, date(2024, 1, 19), proj.Entries[10].Date)
}

func TestProjectContributionFollowsIncludedDays(t *testing.T) {
	proj := Schedule{
		Initial:      0,
		DailyRate:    0,
		Reinvest:     1,
		TotalDays:    8,
		Start:        date(2024, 1, 1),
		Filter:       AllDays(),
		Contribution: Contribution{Type: Deposit, Amount: 50, Frequency: Weekly},
	}.Project()

	require.Len(t, proj.Entries, 9)
	assert.Equal(t, 0.0, proj.Entries[0].Amount)
	assert.Equal(t, 50.0, proj.Entries[1].Amount)
	assert.Equal(t, 50.0, proj.Entries[7].Amount)
	assert.Equal(t, 100.0, proj.Entries[8].Amount)
}

func TestProjectEmptyFilterTerminates(t *testing.T) {
	proj := Schedule{
		Initial:   100,
		DailyRate: 0.05,
		Reinvest:  1,
		TotalDays: 365,
		Start:     date(2024, 1, 1),
		Filter:    Weekdays(),
	}.Project()

	assert.True(t, proj.Degenerate)
	assert.Empty(t, proj.Entries)
	_, ok := proj.Last()
	assert.False(t, ok)
}

func TestEstimateDaysToTarget(t *testing.T) {
	est := EstimateDaysToTarget(TargetQuery{Initial: 100, DailyRate: 0, Reinvest: 1, Target: 200})
	assert.Equal(t, TargetEstimate{Final: 100}, est)

	est = EstimateDaysToTarget(TargetQuery{Initial: 300, DailyRate: 0.05, Reinvest: 1, Target: 200})
	assert.Equal(t, TargetEstimate{Final: 300}, est, "target already met")

	est = EstimateDaysToTarget(TargetQuery{Initial: 0, DailyRate: 0.05, Reinvest: 1, Target: 200})
	assert.Equal(t, TargetEstimate{Final: 0}, est)

	est = EstimateDaysToTarget(TargetQuery{Initial: 100, DailyRate: 0.05, Reinvest: 1, Target: 200})
	assert.True(t, est.Reached)
	assert.Equal(t, 15, est.Days)
	assert.GreaterOrEqual(t, est.Final, 200.0)
}

func TestComputeSummaryIsUnrounded(t *testing.T) {
	res := Compute(Input{
		Initial:      1000,
		Rate:         Rate{Value: 0.37, Period: PerDay},
		Duration:     Duration{Years: 2},
		Filter:       AllDays(),
		Reinvest:     1,
		Contribution: Contribution{Type: Deposit, Amount: 13.33, Frequency: Weekly},
		Start:        date(2024, 1, 1),
		Today:        date(2024, 1, 1),
	})

	want := 1000.0
	for i := 0; i < 730; i++ {
		want = want*1.0037 + res.Input.Contribution.ForIndex(i)
	}
	last, ok := res.Projection.Last()
	require.True(t, ok)
	assert.InDelta(t, want, res.Summary.FinalAmount, 1e-6)
	assert.NotEqual(t, last.Amount, res.Summary.FinalAmount)
	assert.InDelta(t, last.Amount, res.Summary.FinalAmount, 1)
}

func TestEstimateDaysToTargetCapIsExclusive(t *testing.T) {
	// Each step adds 1, so the balance after k steps is 1+k.
	q := TargetQuery{
		Initial:      1,
		DailyRate:    1e-12,
		Reinvest:     1,
		Target:       5000.9,
		Contribution: Contribution{Type: Deposit, Amount: 1, Frequency: Daily},
	}
	est := EstimateDaysToTarget(q)
	assert.False(t, est.Reached)
	assert.Zero(t, est.Days)

	q.Target = 4999.9
	est = EstimateDaysToTarget(q)
	assert.True(t, est.Reached)
	assert.Equal(t, 4999, est.Days)
}

func TestEstimateDaysToTargetUnreachable(t *testing.T) {
	est := EstimateDaysToTarget(TargetQuery{
		Initial:      100,
		DailyRate:    0.0001,
		Reinvest:     1,
		Target:       1_000_000,
		Contribution: Contribution{Type: Withdraw, Amount: 1, Frequency: Daily},
	})
	assert.False(t, est.Reached)
	assert.Zero(t, est.Days)
	assert.Less(t, est.Final, 100.0)
}

func TestLocateProgress(t *testing.T) {
	entries := Schedule{
		Initial:   100,
		DailyRate: 0.05,
		Reinvest:  1,
		TotalDays: 10,
		Start:     date(2024, 1, 1),
		Filter:    AllDays(),
	}.Project().Entries

	assert.Equal(t, ProgressMatch{DayIndex: 1}, LocateProgress(entries, 50))
	assert.Equal(t, ProgressMatch{DayIndex: 3}, LocateProgress(entries, 110))
	assert.Equal(t, ProgressMatch{DayIndex: 11, Exceeded: true}, LocateProgress(entries, 1e9))
	assert.Equal(t, ProgressMatch{}, LocateProgress(nil, 10))
}

func TestLocateProgressNonMonotonic(t *testing.T) {
	amounts := []float64{100, 90, 80, 95, 110}
	entries := make([]Entry, len(amounts))
	for i, a := range amounts {
		entries[i] = Entry{DayIndex: i + 1, Amount: a}
	}
	assert.Equal(t, 1, LocateProgress(entries, 95).DayIndex)
	assert.Equal(t, 5, LocateProgress(entries, 105).DayIndex)
	assert.Equal(t, 2, LocateProgress(entries[1:], 85).DayIndex)
}

func TestFocus(t *testing.T) {
	entries := Schedule{
		Initial:   100,
		DailyRate: 0.01,
		Reinvest:  1,
		TotalDays: 5,
		Start:     date(2024, 1, 1),
		Filter:    AllDays(),
	}.Project().Entries

	cur, next, ok := Focus(entries, 3, time.Time{})
	require.True(t, ok)
	assert.Equal(t, 3, cur.DayIndex)
	assert.Equal(t, 4, next.DayIndex)

	cur, next, _ = Focus(entries, 99, time.Time{})
	assert.Equal(t, 6, cur.DayIndex)
	assert.Equal(t, 6, next.DayIndex, "next repeats the last day")

	cur, next, _ = Focus(entries, 0, date(2024, 1, 2))
	assert.Equal(t, 2, cur.DayIndex)
	assert.Equal(t, 3, next.DayIndex)

	cur, _, _ = Focus(entries, 0, date(2023, 12, 1))
	assert.Equal(t, 1, cur.DayIndex, "all future falls back to the first day")

	_, _, ok = Focus(nil, 0, time.Time{})
	assert.False(t, ok)
}

func TestComputeFixedDuration(t *testing.T) {
	res := Compute(Input{
		Initial:  1000,
		Rate:     Rate{Value: 1, Period: PerDay},
		Duration: Duration{Days: 30},
		Filter:   AllDays(),
		Reinvest: 1,
		Start:    date(2024, 3, 1),
		Today:    date(2024, 3, 1),
	})

	require.Len(t, res.Projection.Entries, 31)
	assert.Equal(t, 30, res.Summary.Days)
	assert.False(t, res.Summary.TargetMode)
	assert.InDelta(t, res.Projection.Entries[30].Amount, res.Summary.FinalAmount, 0.01)
	assert.InDelta(t, 1000*math.Pow(1.01, 30), res.Summary.FinalAmount, 1e-6)
}

func TestComputeTargetMode(t *testing.T) {
	res := Compute(Input{
		Initial:  100,
		Rate:     Rate{Value: 5, Period: PerDay},
		Duration: Duration{Years: 1},
		Filter:   AllDays(),
		Reinvest: 1,
		Start:    date(2024, 1, 1),
		Target:   200,
	})

	assert.True(t, res.Summary.TargetMode)
	assert.True(t, res.Summary.Reached)
	assert.Equal(t, 15, res.Summary.Days)
	assert.Len(t, res.Projection.Entries, 366, "the calendar keeps the full duration")

	unreachable := Compute(Input{
		Initial:  100,
		Rate:     Rate{Value: 0, Period: PerDay},
		Duration: Duration{Days: 10},
		Filter:   AllDays(),
		Reinvest: 1,
		Start:    date(2024, 1, 1),
		Target:   200,
	})
	assert.False(t, unreachable.Summary.Reached)
	assert.Zero(t, unreachable.Summary.Days)
	assert.Len(t, unreachable.Projection.Entries, 11)
}
