package growth

// ContributionType says whether a contribution adds to or removes from the balance.
type ContributionType string

const (
	ContributeNone ContributionType = "none"
	Deposit        ContributionType = "deposit"
	Withdraw       ContributionType = "withdraw"
)

// Frequency is how often a contribution applies, counted in included days.
type Frequency string

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
)

// ParseContributionType defaults unknown values to ContributeNone.
func ParseContributionType(s string) ContributionType {
	switch ContributionType(s) {
	case Deposit, Withdraw:
		return ContributionType(s)
	default:
		return ContributeNone
	}
}

// ParseFrequency defaults unknown values to Daily.
func ParseFrequency(s string) Frequency {
	switch Frequency(s) {
	case Weekly, Monthly:
		return Frequency(s)
	default:
		return Daily
	}
}

// Contribution is a recurring deposit or withdrawal.
type Contribution struct {
	Type      ContributionType
	Amount    float64
	Frequency Frequency
}

// ForIndex returns the signed amount applied after the included day with the
// given 0-based index. Weekly means every 7th included day and monthly every
// 30th, so excluded weekends shift them off real calendar weeks.
func (c Contribution) ForIndex(index int) float64 {
	if c.Type != Deposit && c.Type != Withdraw {
		return 0
	}
	if c.Amount == 0 {
		return 0
	}

	due := false
	switch c.Frequency {
	case Weekly:
		due = index%7 == 0
	case Monthly:
		due = index%DaysPerMonth == 0
	default:
		due = true
	}
	if !due {
		return 0
	}
	if c.Type == Withdraw {
		return -c.Amount
	}
	return c.Amount
}
