package availability

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/rentline/rentline-backend/pkg/db/models"
	"github.com/rentline/rentline-backend/pkg/enums"
	pkgerrors "github.com/rentline/rentline-backend/pkg/errors"
)

const dateLayout = "2006-01-02"

// DayEntry is the availability snapshot for one calendar day.
type DayEntry struct {
	Date      string                   `json:"date"`
	Reserved  int                      `json:"reserved"`
	Available int                      `json:"available"`
	Status    enums.AvailabilityStatus `json:"status"`
}

// Timeline is one asset's availability over a contiguous day window.
type Timeline struct {
	AssetID       uuid.UUID  `json:"asset_id"`
	From          string     `json:"from"`
	To            string     `json:"to"`
	TotalQuantity int        `json:"total_quantity"`
	Days          []DayEntry `json:"days"`
}

// parseWindow resolves the raw from/to inputs into UTC day bounds. Empty from
// defaults to the start of the current UTC day; empty to defaults to from plus
// windowDays-1. Unparseable values or an inverted window are an invalid date
// range.
func parseWindow(fromRaw, toRaw string, now time.Time, windowDays int) (time.Time, time.Time, error) {
	from := startOfDay(now.UTC())
	if fromRaw != "" {
		parsed, err := parseDay(fromRaw)
		if err != nil {
			return time.Time{}, time.Time{}, pkgerrors.Wrap(pkgerrors.CodeInvalidDateRange, err, "invalid from date")
		}
		from = parsed
	}

	to := from.AddDate(0, 0, windowDays-1)
	if toRaw != "" {
		parsed, err := parseDay(toRaw)
		if err != nil {
			return time.Time{}, time.Time{}, pkgerrors.Wrap(pkgerrors.CodeInvalidDateRange, err, "invalid to date")
		}
		to = parsed
	}

	if to.Before(from) {
		return time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeInvalidDateRange, "window ends before it starts")
	}
	return from, to, nil
}

// parseDay accepts a date-only or RFC 3339 date-time string and returns the
// start of that UTC day.
func parseDay(raw string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	return startOfDay(t.UTC()), nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// buildTimeline computes one DayEntry per day in [from, to]. An agreement
// occupies day d when its effective end reaches the start of d and its start
// does not pass the end of d (closed intervals on both sides). Agreements
// without a resolvable end never occupy a day. Pure function over its inputs.
func buildTimeline(assetID uuid.UUID, totalQuantity int, agreements []models.RentalAgreement, from, to time.Time, limitedRatio float64) *Timeline {
	limitedCutoff := limitedThreshold(totalQuantity, limitedRatio)

	days := make([]DayEntry, 0, int(to.Sub(from).Hours()/24)+1)
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		dayStart := startOfDay(day)
		dayEnd := endOfDay(day)

		reserved := 0
		for i := range agreements {
			agreement := &agreements[i]
			if !agreement.Status.OccupiesStock() {
				continue
			}
			end, ok := agreement.EffectiveEnd()
			if !ok {
				continue
			}
			if end.Before(dayStart) || agreement.RentalStartAt.After(dayEnd) {
				continue
			}
			qty := agreement.Quantity
			if qty <= 0 {
				qty = 1
			}
			reserved += qty
		}

		available := totalQuantity - reserved
		if available < 0 {
			available = 0
		}

		status := enums.AvailabilityStatusAvailable
		switch {
		case available == 0:
			status = enums.AvailabilityStatusSoldOut
		case available <= limitedCutoff:
			status = enums.AvailabilityStatusLimited
		}

		days = append(days, DayEntry{
			Date:      dayStart.Format(dateLayout),
			Reserved:  reserved,
			Available: available,
			Status:    status,
		})
	}

	return &Timeline{
		AssetID:       assetID,
		From:          from.Format(dateLayout),
		To:            to.Format(dateLayout),
		TotalQuantity: totalQuantity,
		Days:          days,
	}
}

// limitedThreshold is the largest available count still flagged as limited:
// floor(total * ratio), never below 1 so a last remaining unit always reads
// as limited rather than available.
func limitedThreshold(totalQuantity int, ratio float64) int {
	cutoff := int(math.Floor(float64(totalQuantity) * ratio))
	if cutoff < 1 {
		return 1
	}
	return cutoff
}
