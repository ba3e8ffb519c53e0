// SPDX-License-Identifier: MPL-2.0

package pipeline

type (
	// Artifact is a produced binary and its archive.
	Artifact struct {
		Target  string `json:"target" yaml:"target" toml:"target"`
		Binary  string `json:"binary" yaml:"binary" toml:"binary"`
		Archive string `json:"archive,omitempty" yaml:"archive,omitempty" toml:"archive,omitempty"`
	}

	// Drop records why a target produced nothing.
	Drop struct {
		Target string `json:"target" yaml:"target" toml:"target"`
		Stage  Stage  `json:"stage" yaml:"stage" toml:"stage"`
		Reason string `json:"reason" yaml:"reason" toml:"reason"`
	}

	// Summary is the outcome of a run.
	Summary struct {
		RunID    string     `json:"run_id" yaml:"run_id" toml:"run_id"`
		Version  string     `json:"version" yaml:"version" toml:"version"`
		Produced []Artifact `json:"produced" yaml:"produced" toml:"produced"`
		Dropped  []Drop     `json:"dropped" yaml:"dropped" toml:"dropped"`
	}
)

func summarize(runID, ver string, results []Result) *Summary {
	s := &Summary{
		RunID:    runID,
		Version:  ver,
		Produced: []Artifact{},
		Dropped:  []Drop{},
	}
	for _, r := range results {
		if !r.State.IsTarget {
			continue
		}
		if r.Dropped {
			s.Dropped = append(s.Dropped, Drop{Target: r.State.Target.String(), Stage: r.Stage, Reason: r.Reason})
			continue
		}
		if r.State.Success {
			s.Produced = append(s.Produced, Artifact{
				Target:  r.State.Target.String(),
				Binary:  r.State.BinaryPath,
				Archive: r.State.ArchivePath,
			})
		}
	}
	return s
}

// Binaries lists the produced binary paths in target order.
func (s *Summary) Binaries() []string {
	out := make([]string, 0, len(s.Produced))
	for _, a := range s.Produced {
		out = append(out, a.Binary)
	}
	return out
}
