package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rentline/rentline-backend/pkg/logger"
)

type fakeOverdueMarker struct {
	changed int64
	err     error
	gotNow  time.Time
}

func (f *fakeOverdueMarker) MarkOverdue(_ context.Context, now time.Time) (int64, error) {
	f.gotNow = now
	return f.changed, f.err
}

func TestOverdueAgreementsJobRun(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	marker := &fakeOverdueMarker{changed: 3}
	job, err := NewOverdueAgreementsJob(OverdueAgreementsJobParams{Logger: logg, Agreements: marker})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if marker.gotNow.IsZero() {
		t.Fatal("expected sweep to pass the current time")
	}
	if marker.gotNow.Location() != time.UTC {
		t.Fatalf("expected UTC sweep time, got %s", marker.gotNow.Location())
	}
}

func TestOverdueAgreementsJobPropagatesError(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	marker := &fakeOverdueMarker{err: errors.New("db down")}
	job, err := NewOverdueAgreementsJob(OverdueAgreementsJobParams{Logger: logg, Agreements: marker})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewOverdueAgreementsJobValidatesParams(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	if _, err := NewOverdueAgreementsJob(OverdueAgreementsJobParams{Logger: logg}); err == nil {
		t.Fatal("expected error without repository")
	}
	if _, err := NewOverdueAgreementsJob(OverdueAgreementsJobParams{Agreements: &fakeOverdueMarker{}}); err == nil {
		t.Fatal("expected error without logger")
	}
}
