// SPDX-License-Identifier: MPL-2.0

package target

// Selection captures the target choices made on the command line.
type Selection struct {
	// Targets are explicit platform/architecture pairs.
	Targets []Target
	// Platforms are whole platforms; combined with Architectures.
	Platforms []Platform
	// Architectures restrict Platforms. Empty means every architecture.
	Architectures []Architecture
}

// IsEmpty reports whether nothing was selected.
func (s Selection) IsEmpty() bool {
	return len(s.Targets) == 0 && len(s.Platforms) == 0 && len(s.Architectures) == 0
}

// Select resolves a selection into the ordered list of buildable targets.
//
// Explicit targets are kept when warp-packer supports them. Platforms are
// expanded with the selected architectures, or every architecture when none
// was given; architectures given without platforms apply to every platform.
// An empty selection means every buildable target. Duplicates are removed
// and the result keeps first-seen order.
func Select(s Selection) []Target {
	if s.IsEmpty() {
		return AllBuildable()
	}

	var candidates []Target
	for _, t := range s.Targets {
		if PackerSupports(t) {
			candidates = append(candidates, t)
		}
	}

	platforms := s.Platforms
	if len(platforms) == 0 && len(s.Architectures) > 0 {
		platforms = Platforms()
	}
	archs := s.Architectures
	if len(archs) == 0 {
		archs = Architectures()
	}
	for _, p := range platforms {
		for _, a := range archs {
			if t := New(p, a); PackerSupports(t) {
				candidates = append(candidates, t)
			}
		}
	}

	seen := make(map[Target]bool, len(candidates))
	var out []Target
	for _, t := range candidates {
		if seen[t] || !Buildable(t) {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
