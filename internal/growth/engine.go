package growth

import "time"

// Duration is a horizon in fixed-length years, months and days.
type Duration struct {
	Years  int
	Months int
	Days   int
}

// TotalDays converts d using 365-day years and 30-day months. Never less than 1.
func (d Duration) TotalDays() int {
	n := d.Years*DaysPerYear + d.Months*DaysPerMonth + d.Days
	if n < 1 {
		return 1
	}
	return n
}

// Input is a complete snapshot of the calculator form.
type Input struct {
	Initial      float64
	Rate         Rate
	Duration     Duration
	Filter       DayFilter
	Reinvest     float64
	Contribution Contribution
	Start        time.Time
	Today        time.Time
	// Target switches to target-estimation mode when positive.
	Target float64
}

// Summary is the headline result of a calculation.
type Summary struct {
	FinalAmount float64
	// Days is the horizon in fixed-duration mode, or the days needed to
	// reach the target in target mode (zero when unreachable).
	Days int
	// TargetMode is set when Input.Target drove the calculation.
	TargetMode bool
	Reached    bool
}

// Result bundles everything a renderer needs.
type Result struct {
	Input      Input
	DailyRate  float64
	Projection Projection
	Summary    Summary
}

// Compute runs the engine over in. The calendar always spans the configured
// duration; a target only changes the summary.
func Compute(in Input) Result {
	rate := DailyRate(in.Rate)
	horizon := in.Duration.TotalDays()

	proj := Schedule{
		Initial:      in.Initial,
		DailyRate:    rate,
		Reinvest:     in.Reinvest,
		TotalDays:    horizon,
		Start:        in.Start,
		Filter:       in.Filter,
		Contribution: in.Contribution,
		Today:        in.Today,
	}.Project()

	var summary Summary
	if in.Target > 0 {
		est := EstimateDaysToTarget(TargetQuery{
			Initial:      in.Initial,
			DailyRate:    rate,
			Reinvest:     in.Reinvest,
			Target:       in.Target,
			Contribution: in.Contribution,
		})
		summary = Summary{FinalAmount: est.Final, Days: est.Days, TargetMode: true, Reached: est.Reached}
	} else {
		summary = Summary{FinalAmount: in.Initial, Days: horizon}
		if len(proj.Entries) > 0 {
			summary.FinalAmount = proj.Final
		}
	}

	return Result{Input: in, DailyRate: rate, Projection: proj, Summary: summary}
}
