// SPDX-License-Identifier: MPL-2.0

package version

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Version
	}{
		{in: "17", want: Version{17, 0, 0, NoBuild}},
		{in: "17.0", want: Version{17, 0, 0, NoBuild}},
		{in: "17.0.2", want: Version{17, 0, 2, NoBuild}},
		{in: "17.0.13+11", want: Version{17, 0, 13, 11}},
		{in: "17.0.13+11-LTS", want: Version{17, 0, 13, 11}},
		{in: "1.8.0_345", want: Version{8, 0, 0, 345}},
		{in: "8.0.412_8", want: Version{8, 0, 412, 8}},
		{in: "jdk-21.0.5+11", want: Version{21, 0, 5, 11}},
		{in: "jdk8u412-b08", want: Version{8, 0, 412, 8}},
		{in: "8u412", want: Version{8, 0, 412, NoBuild}},
		{in: " 11.0.25+9 ", want: Version{11, 0, 25, 9}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "abc", "17.x", "17.0.1+b", "1.2.3.4", "17..1", "jdk"} {
		t.Run(in, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(in)
			if !errors.Is(err, ErrInvalidVersion) {
				t.Errorf("Parse(%q) error = %v, want ErrInvalidVersion", in, err)
			}
		})
	}
}

func TestStringRoundTrip(t *testing.T) {
	t.Parallel()

	versions := []Version{
		{17, 0, 13, 11},
		{21, 1, 2, 0},
		{11, 0, 25, 9},
		{8, 0, 412, 8},
		New(17, 0, 2),
		New(22, 0, 0),
	}
	for _, v := range versions {
		s := v.String()
		got, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", s, err)
		}
		if got != v {
			t.Errorf("Parse(%q) = %+v, want %+v", s, got, v)
		}
	}
}

func TestString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		v    Version
		want string
	}{
		{Version{8, 0, 412, 8}, "8.0.412_8"},
		{Version{17, 0, 13, 11}, "17.0.13+11"},
		{New(17, 0, 13), "17.0.13"},
		{New(8, 0, 0), "8.0.0"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("%+v.String() = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestCompare(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b Version
		want int
	}{
		{New(8, 0, 0), New(11, 0, 0), -1},
		{Version{17, 0, 2, 0}, Version{17, 0, 1, 0}, 1},
		{Version{17, 0, 1, 6}, Version{17, 0, 1, 7}, -1},
		{Version{17, 1, 0, 0}, Version{17, 0, 9, 9}, 1},
		{Version{17, 0, 1, 7}, Version{17, 0, 1, 7}, 0},
		{New(17, 0, 1), Version{17, 0, 1, 0}, -1},
	}
	for _, tt := range tests {
		if got := Compare(tt.a, tt.b); got != tt.want {
			t.Errorf("Compare(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
		if got := Compare(tt.b, tt.a); got != -tt.want {
			t.Errorf("Compare(%v, %v) = %d, want %d", tt.b, tt.a, got, -tt.want)
		}
	}
}

func TestMax(t *testing.T) {
	t.Parallel()

	got := Max(MustParse("17.0.1"), MustParse("17.0.14+7"), MustParse("17.0.9+2"))
	if want := (Version{17, 0, 14, 7}); got != want {
		t.Errorf("Max() = %+v, want %+v", got, want)
	}
	if got := Max(); got != (Version{}) {
		t.Errorf("Max() of nothing = %+v, want zero", got)
	}
}

func TestIsFeatureOnly(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{"17", true},
		{"21.0.0", true},
		{"17.0.13+11", false},
		{"17.1", false},
		{"1.8.0_345", true},
	}
	for _, tt := range tests {
		if got := MustParse(tt.in).IsFeatureOnly(); got != tt.want {
			t.Errorf("IsFeatureOnly(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestReleaseCachePrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rel  Release
		want string
	}{
		{name: "feature only", rel: Release{Version: New(17, 0, 0)}, want: "17"},
		{name: "label without LTS suffix", rel: Release{Version: Version{17, 0, 13, 11}, Label: "17.0.13+11-LTS"}, want: "17.0.13+11"},
		{name: "no label", rel: Release{Version: Version{21, 0, 5, 11}}, want: "21.0.5+11"},
		{name: "java 8 update naming", rel: Release{Version: Version{8, 0, 412, 8}, Label: "1.8.0_412-b08"}, want: "8u412"},
		{name: "exact release with fourth component", rel: Release{Version: Version{11, 0, 0, 2}, Label: "11.0.0.1+2", Exact: true}, want: "11.0.0.1+2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.rel.CachePrefix(); got != tt.want {
				t.Errorf("CachePrefix() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReleaseFeatureOnly(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rel  Release
		want bool
	}{
		{"bare feature", Release{Version: New(21, 0, 0)}, true},
		{"security release", Release{Version: New(21, 0, 5)}, false},
		{"exact patch release", Release{Version: New(11, 0, 0), Label: "11.0.0.1+2", Exact: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.rel.FeatureOnly(); got != tt.want {
				t.Errorf("FeatureOnly() = %v, want %v", got, tt.want)
			}
		})
	}
}
