package main

import (
	"context"
	"fmt"

	"github.com/KotFed0t/wealth_tax_helper/config"
	"github.com/KotFed0t/wealth_tax_helper/internal/scheduler"
)

const (
	recalculateJobName      = "recalculate wealth tax"
	deleteOldReportsJobName = "delete old reports"
)

// registerJobs adds the periodic jobs. The report cleanup is skipped when deleteOldReports is nil.
func registerJobs(sched *scheduler.Scheduler, jobs config.Jobs, recalculate, deleteOldReports func(ctx context.Context) error) error {
	if err := sched.NewIntervalJob(recalculateJobName, recalculate, jobs.RecalculateInterval, true); err != nil {
		return fmt.Errorf("register %s: %w", recalculateJobName, err)
	}
	if deleteOldReports == nil {
		return nil
	}
	if err := sched.NewIntervalJob(deleteOldReportsJobName, deleteOldReports, jobs.DeleteOldReportsInterval, false); err != nil {
		return fmt.Errorf("register %s: %w", deleteOldReportsJobName, err)
	}
	return nil
}
