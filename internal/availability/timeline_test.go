package availability

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rentline/rentline-backend/pkg/db/models"
	"github.com/rentline/rentline-backend/pkg/enums"
	pkgerrors "github.com/rentline/rentline-backend/pkg/errors"
)

func day(d int) time.Time {
	return time.Date(2026, 9, d, 0, 0, 0, 0, time.UTC)
}

func agreement(status enums.AgreementStatus, qty int, start time.Time, end *time.Time) models.RentalAgreement {
	return models.RentalAgreement{
		ID:            uuid.New(),
		Status:        status,
		Quantity:      qty,
		RentalStartAt: start,
		ReturnDueAt:   end,
	}
}

func ptr(t time.Time) *time.Time { return &t }

func TestBuildTimelineSoldOutAndRelease(t *testing.T) {
	// 2 units, both booked days 1 through 3. Days 4 and 5 are free.
	agreements := []models.RentalAgreement{
		agreement(enums.AgreementStatusConfirmed, 1, day(1).Add(9*time.Hour), ptr(day(3).Add(17*time.Hour))),
		agreement(enums.AgreementStatusInProgress, 1, day(1), ptr(day(3))),
	}

	timeline := buildTimeline(uuid.New(), 2, agreements, day(1), day(5), 0.2)
	if len(timeline.Days) != 5 {
		t.Fatalf("expected 5 days, got %d", len(timeline.Days))
	}

	for i := 0; i < 3; i++ {
		if timeline.Days[i].Status != enums.AvailabilityStatusSoldOut {
			t.Errorf("day %d: expected sold_out, got %s", i+1, timeline.Days[i].Status)
		}
		if timeline.Days[i].Available != 0 {
			t.Errorf("day %d: expected 0 available, got %d", i+1, timeline.Days[i].Available)
		}
	}
	for i := 3; i < 5; i++ {
		if timeline.Days[i].Status != enums.AvailabilityStatusAvailable {
			t.Errorf("day %d: expected available, got %s", i+1, timeline.Days[i].Status)
		}
		if timeline.Days[i].Available != 2 {
			t.Errorf("day %d: expected 2 available, got %d", i+1, timeline.Days[i].Available)
		}
	}
}

func TestBuildTimelineLimitedThreshold(t *testing.T) {
	// 10 units, ratio 0.2: limited when available <= 2.
	agreements := []models.RentalAgreement{
		agreement(enums.AgreementStatusConfirmed, 8, day(1), ptr(day(1))),
		agreement(enums.AgreementStatusConfirmed, 7, day(2), ptr(day(2))),
	}

	timeline := buildTimeline(uuid.New(), 10, agreements, day(1), day(3), 0.2)

	if timeline.Days[0].Available != 2 || timeline.Days[0].Status != enums.AvailabilityStatusLimited {
		t.Errorf("day 1: expected 2 available limited, got %d %s", timeline.Days[0].Available, timeline.Days[0].Status)
	}
	if timeline.Days[1].Available != 3 || timeline.Days[1].Status != enums.AvailabilityStatusAvailable {
		t.Errorf("day 2: expected 3 available, got %d %s", timeline.Days[1].Available, timeline.Days[1].Status)
	}
	if timeline.Days[2].Reserved != 0 {
		t.Errorf("day 3: expected no reservations, got %d", timeline.Days[2].Reserved)
	}
}

func TestBuildTimelineThresholdNeverBelowOne(t *testing.T) {
	// 2 units, ratio 0.2: floor(0.4) = 0, clamped to 1 so the last unit
	// reads as limited.
	agreements := []models.RentalAgreement{
		agreement(enums.AgreementStatusConfirmed, 1, day(1), ptr(day(1))),
	}

	timeline := buildTimeline(uuid.New(), 2, agreements, day(1), day(1), 0.2)
	if timeline.Days[0].Status != enums.AvailabilityStatusLimited {
		t.Fatalf("expected limited, got %s", timeline.Days[0].Status)
	}
}

func TestBuildTimelineClampsOverbooking(t *testing.T) {
	agreements := []models.RentalAgreement{
		agreement(enums.AgreementStatusConfirmed, 5, day(1), ptr(day(1))),
	}

	timeline := buildTimeline(uuid.New(), 3, agreements, day(1), day(1), 0.2)
	if timeline.Days[0].Reserved != 5 {
		t.Errorf("expected reserved 5, got %d", timeline.Days[0].Reserved)
	}
	if timeline.Days[0].Available != 0 {
		t.Errorf("available must clamp at 0, got %d", timeline.Days[0].Available)
	}
	if timeline.Days[0].Status != enums.AvailabilityStatusSoldOut {
		t.Errorf("expected sold_out, got %s", timeline.Days[0].Status)
	}
}

func TestBuildTimelineClosedIntervalBounds(t *testing.T) {
	// Agreement occupies exactly days 2 through 4; boundary days count.
	agreements := []models.RentalAgreement{
		agreement(enums.AgreementStatusConfirmed, 1, day(2).Add(23*time.Hour), ptr(day(4))),
	}

	timeline := buildTimeline(uuid.New(), 1, agreements, day(1), day(5), 0.2)
	want := []int{0, 1, 1, 1, 0}
	for i, reserved := range want {
		if timeline.Days[i].Reserved != reserved {
			t.Errorf("day %d: expected reserved %d, got %d", i+1, reserved, timeline.Days[i].Reserved)
		}
	}
}

func TestBuildTimelineSkipsCancelledAndOpenEnded(t *testing.T) {
	agreements := []models.RentalAgreement{
		agreement(enums.AgreementStatusCancelled, 1, day(1), ptr(day(5))),
		agreement(enums.AgreementStatusConfirmed, 1, day(1), nil),
	}

	timeline := buildTimeline(uuid.New(), 1, agreements, day(1), day(3), 0.2)
	for i, entry := range timeline.Days {
		if entry.Reserved != 0 {
			t.Errorf("day %d: expected no reservations, got %d", i+1, entry.Reserved)
		}
	}
}

func TestBuildTimelineFallsBackToRentalEnd(t *testing.T) {
	end := day(2)
	agreements := []models.RentalAgreement{
		{
			ID:            uuid.New(),
			Status:        enums.AgreementStatusConfirmed,
			Quantity:      1,
			RentalStartAt: day(1),
			RentalEndAt:   &end,
		},
	}

	timeline := buildTimeline(uuid.New(), 1, agreements, day(1), day(3), 0.2)
	want := []int{1, 1, 0}
	for i, reserved := range want {
		if timeline.Days[i].Reserved != reserved {
			t.Errorf("day %d: expected reserved %d, got %d", i+1, reserved, timeline.Days[i].Reserved)
		}
	}
}

func TestBuildTimelineOneEntryPerDayAscending(t *testing.T) {
	timeline := buildTimeline(uuid.New(), 1, nil, day(10), day(12), 0.2)
	want := []string{"2026-09-10", "2026-09-11", "2026-09-12"}
	if len(timeline.Days) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(timeline.Days))
	}
	for i, date := range want {
		if timeline.Days[i].Date != date {
			t.Errorf("entry %d: expected %s, got %s", i, date, timeline.Days[i].Date)
		}
	}
	if timeline.From != "2026-09-10" || timeline.To != "2026-09-12" {
		t.Errorf("unexpected window bounds %s..%s", timeline.From, timeline.To)
	}
}

func TestParseWindowDefaults(t *testing.T) {
	now := time.Date(2026, 9, 15, 13, 45, 0, 0, time.UTC)

	from, to, err := parseWindow("", "", now, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !from.Equal(day(15)) {
		t.Errorf("expected from at start of current day, got %s", from)
	}
	if !to.Equal(day(28)) {
		t.Errorf("expected to 13 days after from, got %s", to)
	}
}

func TestParseWindowAcceptsDateAndDateTime(t *testing.T) {
	now := time.Now().UTC()

	from, to, err := parseWindow("2026-09-01", "2026-09-03T16:30:00Z", now, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !from.Equal(day(1)) {
		t.Errorf("expected from 2026-09-01, got %s", from)
	}
	if !to.Equal(day(3)) {
		t.Errorf("expected to truncated to 2026-09-03, got %s", to)
	}
}

func TestParseWindowRejectsBadInput(t *testing.T) {
	now := time.Now().UTC()
	cases := []struct {
		name     string
		from, to string
	}{
		{"garbage from", "not-a-date", ""},
		{"garbage to", "2026-09-01", "tomorrow"},
		{"inverted", "2026-09-10", "2026-09-01"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := parseWindow(tc.from, tc.to, now, 14)
			if err == nil {
				t.Fatal("expected error")
			}
			appErr := pkgerrors.As(err)
			if appErr == nil || appErr.Code() != pkgerrors.CodeInvalidDateRange {
				t.Fatalf("expected INVALID_DATE_RANGE, got %v", err)
			}
		})
	}
}
