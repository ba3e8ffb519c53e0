// SPDX-License-Identifier: MPL-2.0

// Package pipeline drives one packaging run. Every selected target is
// carried through the stages as an immutable BuildState:
//
//	select → resolve cache → add host runtime → download → extract →
//	optimize → copy runtime → write launcher → pack → compress
//
// Stages run one after another over the whole batch; inside a stage the
// targets are processed on a bounded worker pool. A failing target is
// dropped with the stage and reason recorded, and never affects its
// siblings. Collaborators are interfaces so that tests substitute fakes.
package pipeline
