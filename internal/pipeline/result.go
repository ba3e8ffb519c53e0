// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"
	"errors"
)

// Stage names a pipeline step in drop records.
type Stage string

const (
	StageResolve  Stage = "resolve"
	StageDownload Stage = "download"
	StageExtract  Stage = "extract"
	StageOptimize Stage = "optimize"
	StageBundle   Stage = "bundle"
	StageLauncher Stage = "launcher"
	StagePack     Stage = "pack"
	StageCompress Stage = "compress"
)

// ReasonInterrupted is the drop reason of work stopped by cancellation.
const ReasonInterrupted = "interrupted"

// Result is a state that is either kept for the next stage or dropped.
type Result struct {
	State   BuildState
	Dropped bool
	Stage   Stage
	Reason  string
	Err     error
}

func kept(s BuildState) Result {
	return Result{State: s}
}

func dropped(s BuildState, stage Stage, err error) Result {
	reason := err.Error()
	if errors.Is(err, context.Canceled) {
		reason = ReasonInterrupted
	}
	return Result{State: s, Dropped: true, Stage: stage, Reason: reason, Err: err}
}

// Interrupted reports whether the result was dropped by cancellation.
func (r Result) Interrupted() bool {
	return r.Dropped && r.Reason == ReasonInterrupted
}
