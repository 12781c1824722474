package csvimport

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGuessMapping_TimeAndSuffixedAxes(t *testing.T) {
	m := GuessMapping([]string{"Time", "X_pos", "Y_pos", "Track_ID"})

	for role, want := range map[Role]Column{
		RoleFrame: ColumnNamed("Time"),
		RoleX:     ColumnNamed("X_pos"),
		RoleY:     ColumnNamed("Y_pos"),
		RoleTrack: ColumnNamed("Track_ID"),
		RoleID:    Unused(),
	} {
		if got := m.Get(role); got != want {
			t.Errorf("%s = %s, want %s", role, got, want)
		}
	}
}

func TestGuessMapping_Rules(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		want  map[string]string
	}{
		{
			name:  "shortest axis name wins",
			names: []string{"pos_x", "x", "centre_y", "y", "t"},
			want:  map[string]string{"X": `"x"`, "Y": `"y"`, "Z": `"y"`, "FRAME": `"t"`},
		},
		{
			name:  "exact frame beats earlier time",
			names: []string{"x", "y", "z", "time", "frame", "track_no", "track"},
			want:  map[string]string{"X": `"x"`, "Y": `"y"`, "Z": `"z"`, "FRAME": `"frame"`, "TRACK": `"track"`},
		},
		{
			name:  "trajectory and optional roles",
			names: []string{"x", "y", "z", "t", "traj", "id", "name", "quality", "radius_um"},
			want: map[string]string{
				"X": `"x"`, "Y": `"y"`, "Z": `"z"`, "FRAME": `"t"`, "TRACK": `"traj"`,
				"ID": `"id"`, "NAME": `"name"`, "QUALITY": `"quality"`, "RADIUS": `"radius_um"`,
			},
		},
		{
			name:  "last optional match wins",
			names: []string{"x", "y", "z", "frame", "q1", "q2"},
			want:  map[string]string{"X": `"x"`, "Y": `"y"`, "Z": `"z"`, "FRAME": `"frame"`, "QUALITY": `"q2"`},
		},
		{
			name:  "fallback by offset",
			names: []string{"a", "b", "c", "d", "e"},
			want:  map[string]string{"FRAME": `"a"`, "X": `"b"`, "Y": `"c"`, "Z": `"d"`},
		},
		{
			name:  "single header",
			names: []string{"only"},
			want:  map[string]string{"FRAME": `"only"`, "X": `"only"`, "Y": `"only"`, "Z": `"only"`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := GuessMapping(tt.names)
			if diff := cmp.Diff(tt.want, m.Describe()); diff != "" {
				t.Errorf("GuessMapping(%v) mismatch (-want +got):\n%s", tt.names, diff)
			}
		})
	}
}

func TestGuessMapping_Empty(t *testing.T) {
	m := GuessMapping(nil)
	if d := m.Describe(); len(d) != 0 {
		t.Errorf("Describe() = %v, want empty", d)
	}
}

func TestGuessMapping_ReportsFallbacks(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		want  []Role
	}{
		{"all matched", []string{"x", "y", "z", "frame"}, nil},
		{"flat file", []string{"x", "y", "frame", "track"}, []Role{RoleZ}},
		{"anonymous", []string{"a", "b", "c"}, []Role{RoleFrame, RoleX, RoleY, RoleZ}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, got := guessMapping(tt.names)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("fallback roles (-want +got):\n%s", diff)
			}
			want := GuessMapping(tt.names)
			if diff := cmp.Diff(want.Describe(), m.Describe()); diff != "" {
				t.Errorf("guessMapping disagrees with GuessMapping (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseRoleAndColumn(t *testing.T) {
	if r, err := ParseRole("frame"); err != nil || r != RoleFrame {
		t.Errorf("ParseRole(frame) = %v, %v, want FRAME", r, err)
	}
	if _, err := ParseRole("velocity"); err == nil {
		t.Error("ParseRole(velocity): want error")
	}

	for in, want := range map[string]Column{
		"3":            ColumnAt(3),
		" POSITION_X ": ColumnNamed("POSITION_X"),
		"-":            Unused(),
		"":             Unused(),
		"-1":           ColumnNamed("-1"),
	} {
		if got := ParseColumn(in); got != want {
			t.Errorf("ParseColumn(%q) = %s, want %s", in, got, want)
		}
	}

	if n := len(Roles()); n != 9 {
		t.Errorf("len(Roles()) = %d, want 9", n)
	}
	if !RoleX.Mandatory() || RoleZ.Mandatory() {
		t.Error("want X mandatory and Z optional")
	}
	if got := Role(42).String(); got != "Role(42)" {
		t.Errorf("Role(42).String() = %q", got)
	}
}

func TestColumnMapping_Resolve(t *testing.T) {
	h, err := NewHeader([]string{"x", "y", "frame", "q"})
	if err != nil {
		t.Fatalf("NewHeader: %v", err)
	}

	var m ColumnMapping
	m.Set(RoleX, ColumnNamed("x"))
	m.Set(RoleY, ColumnAt(1))
	m.Set(RoleFrame, ColumnNamed("frame"))
	m.Set(RoleQuality, ColumnNamed("q"))
	m.Set(RoleName, ColumnNamed("label"))

	var warnings []string
	res, err := m.Resolve(h, func(s string) { warnings = append(warnings, s) })
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if i, ok := res.Index(RoleY); !ok || i != 1 {
		t.Errorf("Y = %d, %v, want 1, true", i, ok)
	}
	if i, _ := res.Index(RoleQuality); i != 3 {
		t.Errorf("QUALITY = %d, want 3", i)
	}
	if _, ok := res.Index(RoleName); ok {
		t.Error("NAME resolved, want unused")
	}
	if _, ok := res.Index(RoleZ); ok {
		t.Error("Z resolved, want unused")
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], `"label"`) {
		t.Errorf("warnings = %q, want one about \"label\"", warnings)
	}
}

func TestColumnMapping_ResolveFatal(t *testing.T) {
	h, err := NewHeader([]string{"x", "y", "frame"})
	if err != nil {
		t.Fatalf("NewHeader: %v", err)
	}

	tests := []struct {
		name string
		set  func(m *ColumnMapping)
		role Role
	}{
		{"unset mandatory", func(m *ColumnMapping) { m.Set(RoleFrame, Unused()) }, RoleFrame},
		{"named mandatory absent", func(m *ColumnMapping) { m.Set(RoleX, ColumnNamed("pos_x")) }, RoleX},
		{"index out of range", func(m *ColumnMapping) { m.Set(RoleTrack, ColumnAt(7)) }, RoleTrack},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m ColumnMapping
			m.Set(RoleX, ColumnNamed("x"))
			m.Set(RoleY, ColumnNamed("y"))
			m.Set(RoleFrame, ColumnNamed("frame"))
			tt.set(&m)

			_, err := m.Resolve(h, nil)
			var mce *MissingColumnError
			if !errors.As(err, &mce) {
				t.Fatalf("Resolve() err = %v, want MissingColumnError", err)
			}
			if mce.Role != tt.role {
				t.Errorf("role = %s, want %s", mce.Role, tt.role)
			}
		})
	}
}
