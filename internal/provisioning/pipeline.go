package provisioning

import (
	"fmt"
	"time"
)

// RunPhases executes all provisioning phases sequentially. Each phase
// finishes before the next starts, and the first failure stops the run.
// Phases implementing Checker are skipped when already satisfied, except
// in dry-run mode where every phase is shown.
func RunPhases(ctx *Context, phases []Phase) error {
	start := time.Now()
	total := len(phases)
	ctx.Observer.Printf("Starting provisioning with %d steps...", total)

	for i, phase := range phases {
		name := phase.Name()
		if err := ctx.Err(); err != nil {
			return NewError(KindAborted, name, err)
		}

		phaseStart := time.Now()
		LogPhaseStart(ctx.Observer, name)

		skipped, err := runPhase(ctx, phase)
		elapsed := time.Since(phaseStart)
		if err != nil {
			ctx.State.recordStep(name, StepFailed, elapsed, err)
			err = stepError(name, err)
			LogPhaseFailed(ctx.Observer, name, err)
			return err
		}

		if skipped {
			LogPhaseSkipped(ctx.Observer, name)
			ctx.State.recordStep(name, StepSkipped, elapsed, nil)
		} else {
			LogPhaseComplete(ctx.Observer, name, elapsed)
			ctx.State.recordStep(name, StepCompleted, elapsed, nil)
		}
		ctx.Observer.Progress(name, i+1, total)
	}

	ctx.Observer.Printf("Provisioning completed in %v", time.Since(start).Round(time.Millisecond))
	return nil
}

func runPhase(ctx *Context, phase Phase) (skipped bool, err error) {
	if checker, ok := phase.(Checker); ok && !ctx.DryRun {
		done, err := checker.Satisfied(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to inspect current state: %w", err)
		}
		if done {
			return true, nil
		}
	}
	return false, phase.Provision(ctx)
}
