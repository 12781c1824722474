package csvimport

import (
	"fmt"
	"strconv"
	"strings"
)

// Role is the semantic meaning assigned to a column.
type Role int

const (
	RoleX Role = iota
	RoleY
	RoleZ
	RoleFrame
	RoleTrack
	RoleQuality
	RoleName
	RoleID
	RoleRadius
	numRoles
)

var roleNames = [numRoles]string{"X", "Y", "Z", "FRAME", "TRACK", "QUALITY", "NAME", "ID", "RADIUS"}

func (r Role) String() string {
	if r < 0 || r >= numRoles {
		return fmt.Sprintf("Role(%d)", int(r))
	}
	return roleNames[r]
}

// Mandatory reports whether an import cannot proceed without this role.
func (r Role) Mandatory() bool {
	return r == RoleX || r == RoleY || r == RoleFrame
}

// Roles lists every role in declaration order.
func Roles() []Role {
	out := make([]Role, numRoles)
	for i := range out {
		out[i] = Role(i)
	}
	return out
}

// ParseRole accepts a role name in any case.
func ParseRole(s string) (Role, error) {
	for i, n := range roleNames {
		if strings.EqualFold(s, n) {
			return Role(i), nil
		}
	}
	return 0, fmt.Errorf("unknown column role %q", s)
}

type columnKind uint8

const (
	columnUnused columnKind = iota
	columnNamed
	columnIndexed
)

// Column references a file column by name or by 0-based index, or is
// explicitly unused. The zero value is unused.
type Column struct {
	kind  columnKind
	name  string
	index int
}

// ColumnNamed references a column by its header name.
func ColumnNamed(name string) Column { return Column{kind: columnNamed, name: name} }

// ColumnAt references a column by 0-based position.
func ColumnAt(i int) Column { return Column{kind: columnIndexed, index: i} }

// Unused is the "don't use" column.
func Unused() Column { return Column{} }

// ParseColumn reads a command-line column reference: "" or "-" is unused,
// a non-negative integer is an index, anything else is a name.
func ParseColumn(s string) Column {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return Unused()
	}
	if i, err := strconv.Atoi(s); err == nil && i >= 0 {
		return ColumnAt(i)
	}
	return ColumnNamed(s)
}

// Used reports whether the column is mapped.
func (c Column) Used() bool { return c.kind != columnUnused }

func (c Column) String() string {
	switch c.kind {
	case columnNamed:
		return strconv.Quote(c.name)
	case columnIndexed:
		return "#" + strconv.Itoa(c.index)
	default:
		return "-"
	}
}

// ColumnMapping assigns columns to roles. The zero value maps nothing.
type ColumnMapping struct {
	cols [numRoles]Column
}

// Set maps role r to column c.
func (m *ColumnMapping) Set(r Role, c Column) {
	m.cols[r] = c
}

// Get returns the column mapped to r.
func (m *ColumnMapping) Get(r Role) Column {
	return m.cols[r]
}

// Describe returns role name to column label for every used role.
func (m *ColumnMapping) Describe() map[string]string {
	out := make(map[string]string)
	for r, c := range m.cols {
		if c.Used() {
			out[Role(r).String()] = c.String()
		}
	}
	return out
}

func (m *ColumnMapping) String() string {
	var parts []string
	for r, c := range m.cols {
		if c.Used() {
			parts = append(parts, fmt.Sprintf("%s=%s", Role(r), c))
		}
	}
	return strings.Join(parts, " ")
}

// Resolved is a mapping checked against a concrete header: each role maps
// to a column position, or -1 when unused.
type Resolved struct {
	idx [numRoles]int
}

// Index returns the column position for r.
func (r Resolved) Index(role Role) (int, bool) {
	i := r.idx[role]
	return i, i >= 0
}

// Resolve checks the mapping against h. Mandatory roles must resolve;
// named optional columns absent from the header are reported through warn
// and left unused. Any index outside the header is fatal.
func (m *ColumnMapping) Resolve(h *Header, warn func(string)) (Resolved, error) {
	var res Resolved
	for i, c := range m.cols {
		role := Role(i)
		res.idx[i] = -1
		switch c.kind {
		case columnUnused:
			if role.Mandatory() {
				return Resolved{}, &MissingColumnError{Role: role}
			}
		case columnIndexed:
			if c.index < 0 || c.index >= h.Width() {
				return Resolved{}, &MissingColumnError{Role: role, Column: c.String()}
			}
			res.idx[i] = c.index
		case columnNamed:
			idx, ok := h.Index(c.name)
			if ok {
				res.idx[i] = idx
				continue
			}
			if role.Mandatory() {
				return Resolved{}, &MissingColumnError{Role: role, Column: c.String()}
			}
			if warn != nil {
				warn(fmt.Sprintf("Column %s for %s not found in header; ignoring it.", c, role))
			}
		}
	}
	return res, nil
}
