package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/rentline/rentline-backend/pkg/logger"
)

type couponLifecycler interface {
	ActivateScheduled(ctx context.Context, now time.Time) (int64, error)
	ExpirePast(ctx context.Context, now time.Time) (int64, error)
}

// CouponLifecycleJobParams configures the coupon lifecycle sweep.
type CouponLifecycleJobParams struct {
	Logger  *logger.Logger
	Coupons couponLifecycler
}

// NewCouponLifecycleJob constructs the job that opens scheduled coupons whose
// validity window has started and expires coupons past their window.
func NewCouponLifecycleJob(params CouponLifecycleJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Coupons == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	return &couponLifecycleJob{
		logg:    params.Logger,
		coupons: params.Coupons,
		now:     time.Now,
	}, nil
}

type couponLifecycleJob struct {
	logg    *logger.Logger
	coupons couponLifecycler
	now     func() time.Time
}

func (j *couponLifecycleJob) Name() string { return "coupon-lifecycle" }

func (j *couponLifecycleJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	var errs []error

	activated, err := j.coupons.ActivateScheduled(ctx, now)
	if err != nil {
		errs = append(errs, fmt.Errorf("activate scheduled coupons: %w", err))
	}
	expired, err := j.coupons.ExpirePast(ctx, now)
	if err != nil {
		errs = append(errs, fmt.Errorf("expire coupons: %w", err))
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"activated": activated,
		"expired":   expired,
	})
	j.logg.Info(logCtx, "coupon lifecycle sweep complete")
	return multierr.Combine(errs...)
}
