package service

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"clubhub/internal/model"
)

// DuesSummary is the per-member dues picture for the current calendar year.
type DuesSummary struct {
	JoinMonth      string          `json:"joinMonth"`
	CurrentMonth   string          `json:"currentMonth"`
	EligibleMonths []string        `json:"eligibleMonths"`
	DueMonths      []string        `json:"dueMonths"`
	TotalDue       decimal.Decimal `json:"totalDue"`
	PaidMonths     int             `json:"paidMonths"`
	ProgressPct    int             `json:"progressPct"`
	Streak         int             `json:"streak"`
}

// ComputeDues derives a member's due months, total due, year progress and
// payment streak from their join date, fixed monthly amount and payment
// history, as of now.
//
// The effective join month is the month of joinedAt when set, else the
// earliest month in the payment history, else the current month. Eligible
// months are the months of the current year on or after it: none when the
// join year lies in the future, all twelve when it lies in the past. A month
// is due when it is eligible, strictly before the current month, and lacks a
// completed payment; the current month itself is never due. A completed
// record for a future month is fine and simply keeps that month from ever
// becoming due.
func ComputeDues(joinedAt time.Time, fixedAmount decimal.Decimal, payments []model.Payment, now time.Time) DuesSummary {
	currentMonth := model.MonthOf(now)
	currentYear := now.Year()

	joinMonth := effectiveJoinMonth(joinedAt, payments, currentMonth)

	completed := make(map[string]bool, len(payments))
	for _, p := range payments {
		if p.Status == model.PaymentStatusCompleted {
			completed[p.Month] = true
		}
	}

	months := yearMonths(currentYear)
	joinYear := joinMonth[:4]
	curYear := currentMonth[:4]

	var eligible []string
	switch {
	case joinYear > curYear:
		// joined in a future year: nothing is eligible yet
	case joinYear < curYear:
		eligible = months
	default:
		for _, m := range months {
			if m >= joinMonth {
				eligible = append(eligible, m)
			}
		}
	}

	var due []string
	paid := 0
	for _, m := range eligible {
		if completed[m] {
			paid++
			continue
		}
		if m < currentMonth {
			due = append(due, m)
		}
	}

	progress := 0
	if len(eligible) > 0 {
		progress = int(math.Round(float64(paid) / float64(len(eligible)) * 100))
	}

	// Streak walks backward from the current month, counting consecutive
	// completed months and stopping at the first gap.
	streak := 0
	for i := int(now.Month()) - 1; i >= 0; i-- {
		if !completed[months[i]] {
			break
		}
		streak++
	}

	return DuesSummary{
		JoinMonth:      joinMonth,
		CurrentMonth:   currentMonth,
		EligibleMonths: eligible,
		DueMonths:      due,
		TotalDue:       fixedAmount.Mul(decimal.NewFromInt(int64(len(due)))),
		PaidMonths:     paid,
		ProgressPct:    progress,
		Streak:         streak,
	}
}

func effectiveJoinMonth(joinedAt time.Time, payments []model.Payment, fallback string) string {
	if !joinedAt.IsZero() {
		return model.MonthOf(joinedAt)
	}
	earliest := ""
	for _, p := range payments {
		if earliest == "" || p.Month < earliest {
			earliest = p.Month
		}
	}
	if earliest != "" {
		return earliest
	}
	return fallback
}

func yearMonths(year int) []string {
	months := make([]string, 12)
	for i := range months {
		months[i] = fmt.Sprintf("%04d-%02d", year, i+1)
	}
	return months
}
