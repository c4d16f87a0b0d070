package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/rentline/rentline-backend/pkg/logger"
)

type overdueMarker interface {
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
}

// OverdueAgreementsJobParams configures the overdue sweep.
type OverdueAgreementsJobParams struct {
	Logger     *logger.Logger
	Agreements overdueMarker
}

// NewOverdueAgreementsJob constructs the job that flips active agreements
// past their return due date into the overdue status.
func NewOverdueAgreementsJob(params OverdueAgreementsJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Agreements == nil {
		return nil, fmt.Errorf("agreement repository required")
	}
	return &overdueAgreementsJob{
		logg:       params.Logger,
		agreements: params.Agreements,
		now:        time.Now,
	}, nil
}

type overdueAgreementsJob struct {
	logg       *logger.Logger
	agreements overdueMarker
	now        func() time.Time
}

func (j *overdueAgreementsJob) Name() string { return "overdue-agreements" }

func (j *overdueAgreementsJob) Run(ctx context.Context) error {
	changed, err := j.agreements.MarkOverdue(ctx, j.now().UTC())
	if err != nil {
		return fmt.Errorf("mark overdue agreements: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{"count": changed})
	j.logg.Info(logCtx, "overdue sweep complete")
	return nil
}
