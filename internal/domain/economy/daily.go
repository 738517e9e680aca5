package economy

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClaimDaily credits the daily reward to the task balance. Days are UTC
// calendar days; a claim on the day after the previous one extends the
// streak, any longer gap restarts it.
func ClaimDaily(p *Player, now time.Time) (decimal.Decimal, error) {
	today := startOfDayUTC(now)
	yesterday := today.AddDate(0, 0, -1)

	streak := 1
	if p.LastClaimedAt != nil {
		last := p.LastClaimedAt.UTC()
		switch {
		case !last.Before(today):
			return decimal.Zero, ErrAlreadyClaimed
		case !last.Before(yesterday):
			streak = p.DailyStreak + 1
			if streak > MaxStreak {
				streak = MaxStreak
			}
		}
	}

	reward, err := DailyReward(*p)
	if err != nil {
		return decimal.Zero, err
	}
	credited := round2(reward.Mul(decimal.NewFromInt(int64(streak))))

	claimedAt := now.UTC()
	p.TaskBalance = round2(p.TaskBalance.Add(credited))
	p.DailyStreak = streak
	p.LastClaimedAt = &claimedAt
	return credited, nil
}

func startOfDayUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
