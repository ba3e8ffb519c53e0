// SPDX-License-Identifier: MPL-2.0

package target

import (
	"slices"
	"testing"
)

func TestSelect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		sel  Selection
		want []Target
	}{
		{
			name: "empty selection means every buildable target",
			sel:  Selection{},
			want: AllBuildable(),
		},
		{
			name: "explicit target",
			sel:  Selection{Targets: []Target{New(Linux, X64)}},
			want: []Target{New(Linux, X64)},
		},
		{
			name: "explicit target unsupported by packer is dropped",
			sel:  Selection{Targets: []Target{New(Windows, X32), New(Linux, ARM)}},
			want: nil,
		},
		{
			name: "platform expands to packer architectures",
			sel:  Selection{Platforms: []Platform{Windows}},
			want: []Target{New(Windows, X64), New(Windows, AArch64)},
		},
		{
			name: "platform restricted by architecture",
			sel:  Selection{Platforms: []Platform{Linux, MacOS}, Architectures: []Architecture{AArch64}},
			want: []Target{New(Linux, AArch64), New(MacOS, AArch64)},
		},
		{
			name: "architecture alone applies to every platform",
			sel:  Selection{Architectures: []Architecture{X64}},
			want: []Target{New(Linux, X64), New(MacOS, X64), New(Windows, X64)},
		},
		{
			name: "union without duplicates keeps first-seen order",
			sel: Selection{
				Targets:   []Target{New(MacOS, X64), New(Linux, X64)},
				Platforms: []Platform{Linux},
			},
			want: []Target{New(MacOS, X64), New(Linux, X64), New(Linux, AArch64)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Select(tt.sel); !slices.Equal(got, tt.want) {
				t.Errorf("Select() = %v, want %v", got, tt.want)
			}
		})
	}
}
