package workflow

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/yourorg/site-deploy/internal/types"
)

// DeployWorkflow validates the target, reconciles the bucket, uploads the
// site, and records the run in the local journal. Stages run strictly in
// sequence; the journal record is written for failed runs too.
func DeployWorkflow(ctx workflow.Context, p types.DeployParams) (types.DeployResult, error) {
	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Minute,
		HeartbeatTimeout:    2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    5 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	// Validation is local and must not be retried.
	validateAO := ao
	validateAO.StartToCloseTimeout = time.Minute
	validateAO.RetryPolicy = &temporal.RetryPolicy{MaximumAttempts: 1}
	validateCtx := workflow.WithActivityOptions(ctx, validateAO)

	started := workflow.Now(ctx)
	var res types.DeployResult

	err := workflow.ExecuteActivity(validateCtx, "Activities.ValidateTarget", p).Get(ctx, nil)
	if err == nil {
		err = workflow.ExecuteActivity(ctx, "Activities.ReconcileBucket", p).Get(ctx, &res.Reconcile)
	}
	if err == nil {
		err = workflow.ExecuteActivity(ctx, "Activities.UploadSite", p).Get(ctx, &res.Upload)
	}

	rec := types.RecordRunParams{
		Bucket:    p.Bucket,
		Result:    res,
		Status:    "ok",
		StartedAt: started,
		Duration:  workflow.Now(ctx).Sub(started),
	}
	if err != nil {
		rec.Status = "failed"
		rec.Error = err.Error()
	}
	if rerr := workflow.ExecuteActivity(ctx, "Activities.RecordRun", rec).Get(ctx, nil); rerr != nil {
		workflow.GetLogger(ctx).Warn("journal record failed", "error", rerr)
	}

	if err != nil {
		return types.DeployResult{}, err
	}
	return res, nil
}
