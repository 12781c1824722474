package csvimport

import "strings"

// fallback offsets for mandatory roles left without a candidate.
var fallbackOffset = map[Role]int{
	RoleFrame: 0,
	RoleX:     1,
	RoleY:     2,
	RoleZ:     3,
}

// GuessMapping proposes a column mapping from header names. It never fails;
// with no matching names the mandatory roles fall back to arbitrary but
// valid columns, so callers should let users review the result.
func GuessMapping(names []string) ColumnMapping {
	m, _ := guessMapping(names)
	return m
}

// guessMapping is GuessMapping that also reports which roles were filled
// by fallback rather than by a matching header name.
func guessMapping(names []string) (ColumnMapping, []Role) {
	var (
		m        ColumnMapping
		fallback []Role
	)
	if len(names) == 0 {
		return m, nil
	}
	lower := make([]string, len(names))
	for i, n := range names {
		lower[i] = strings.ToLower(n)
	}

	pick := map[Role]int{
		RoleX:     shortestAxis(lower, "x"),
		RoleY:     shortestAxis(lower, "y"),
		RoleZ:     shortestAxis(lower, "z"),
		RoleFrame: bestRanked(lower, frameRank),
	}
	taken := make(map[int]bool)
	for _, role := range []Role{RoleFrame, RoleX, RoleY, RoleZ} {
		i := pick[role]
		if i < 0 {
			i = fallbackIndex(fallbackOffset[role], len(names))
			fallback = append(fallback, role)
		}
		taken[i] = true
		m.Set(role, ColumnNamed(names[i]))
	}

	if i := bestRanked(lower, trackRank); i >= 0 {
		m.Set(RoleTrack, ColumnNamed(names[i]))
	}

	for _, o := range []struct {
		role   Role
		prefix string
	}{
		{RoleID, "id"},
		{RoleName, "name"},
		{RoleQuality, "q"},
		{RoleRadius, "radius"},
	} {
		last := -1
		for i, n := range lower {
			if !taken[i] && strings.HasPrefix(n, o.prefix) {
				last = i
			}
		}
		if last >= 0 {
			m.Set(o.role, ColumnNamed(names[last]))
		}
	}
	return m, fallback
}

// shortestAxis picks the shortest name starting or ending with axis;
// ties keep the earlier column.
func shortestAxis(lower []string, axis string) int {
	best := -1
	for i, n := range lower {
		if !strings.HasPrefix(n, axis) && !strings.HasSuffix(n, axis) {
			continue
		}
		if best < 0 || len(n) < len(lower[best]) {
			best = i
		}
	}
	return best
}

// bestRanked picks the name with the lowest rank; ties keep the earlier
// column. A negative rank means no match.
func bestRanked(lower []string, rank func(string) int) int {
	best, bestRank := -1, 0
	for i, n := range lower {
		r := rank(n)
		if r < 0 {
			continue
		}
		if best < 0 || r < bestRank {
			best, bestRank = i, r
		}
	}
	return best
}

func frameRank(n string) int {
	switch {
	case n == "frame":
		return 0
	case strings.HasPrefix(n, "frame"):
		return 1
	case strings.HasPrefix(n, "time"):
		return 2
	case strings.HasPrefix(n, "t"):
		return 3
	}
	return -1
}

func trackRank(n string) int {
	switch {
	case n == "track":
		return 0
	case strings.HasPrefix(n, "track"):
		return 1
	case strings.HasPrefix(n, "traj"):
		return 2
	}
	return -1
}

func fallbackIndex(offset, n int) int {
	if n <= 1 {
		return 0
	}
	return offset % (n - 1)
}
