package growth

// TargetIterationCap is the number of compounding steps after which a target
// is reported as unreachable.
const TargetIterationCap = 5000

// TargetQuery describes a "how long until I reach X" question.
type TargetQuery struct {
	Initial      float64
	DailyRate    float64
	Reinvest     float64
	Target       float64
	Contribution Contribution
}

// TargetEstimate is the answer to a TargetQuery. Days is zero whenever Reached is false.
type TargetEstimate struct {
	Days    int
	Final   float64
	Reached bool
}

// EstimateDaysToTarget iterates the daily recurrence without calendar dates
// until the balance reaches q.Target in fewer than TargetIterationCap steps.
// The balance is not rounded between steps.
func EstimateDaysToTarget(q TargetQuery) TargetEstimate {
	if q.Initial <= 0 || q.Target <= q.Initial || q.DailyRate <= 0 {
		return TargetEstimate{Final: q.Initial}
	}

	growthFactor := 1 + q.DailyRate*q.Reinvest
	current := q.Initial
	days := 0
	for current < q.Target && days < TargetIterationCap {
		current = current*growthFactor + q.Contribution.ForIndex(days)
		days++
	}
	// Reaching the target on the final allowed step still counts as unreachable.
	if current < q.Target || days >= TargetIterationCap {
		return TargetEstimate{Final: current}
	}
	return TargetEstimate{Days: days, Final: current, Reached: true}
}
