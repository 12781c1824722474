// Package units provides the space and time unit vocabulary for calibration
// settings.
package units

import "strings"

// Space unit constants
const (
	Pixel      = "pixel"
	Nanometre  = "nm"
	Micrometre = "um"
	Millimetre = "mm"
	Centimetre = "cm"
	Metre      = "m"
)

// Time unit constants
const (
	Frame       = "frame"
	Millisecond = "ms"
	Second      = "s"
	Minute      = "min"
	Hour        = "h"
)

// ValidSpaceUnits contains all known space units.
var ValidSpaceUnits = []string{Pixel, Nanometre, Micrometre, Millimetre, Centimetre, Metre}

// ValidTimeUnits contains all known time units.
var ValidTimeUnits = []string{Frame, Millisecond, Second, Minute, Hour}

var spaceAliases = map[string]string{
	"pixels":     Pixel,
	"px":         Pixel,
	"µm":         Micrometre,
	"μm":         Micrometre,
	"micron":     Micrometre,
	"microns":    Micrometre,
	"micrometer": Micrometre,
	"micrometre": Micrometre,
	"nanometer":  Nanometre,
	"millimeter": Millimetre,
	"centimeter": Centimetre,
	"meter":      Metre,
	"metre":      Metre,
}

var timeAliases = map[string]string{
	"frames":  Frame,
	"sec":     Second,
	"secs":    Second,
	"second":  Second,
	"seconds": Second,
	"minute":  Minute,
	"minutes": Minute,
	"hour":    Hour,
	"hours":   Hour,
	"msec":    Millisecond,
}

// NormalizeSpace maps a space unit or alias to its canonical spelling.
// Unknown units are returned trimmed but otherwise unchanged.
func NormalizeSpace(u string) string {
	return normalize(u, ValidSpaceUnits, spaceAliases)
}

// NormalizeTime maps a time unit or alias to its canonical spelling.
func NormalizeTime(u string) string {
	return normalize(u, ValidTimeUnits, timeAliases)
}

func normalize(u string, valid []string, aliases map[string]string) string {
	u = strings.TrimSpace(u)
	l := strings.ToLower(u)
	for _, v := range valid {
		if l == v {
			return v
		}
	}
	if v, ok := aliases[l]; ok {
		return v
	}
	return u
}

// IsValidSpace reports whether u is a known space unit or alias.
func IsValidSpace(u string) bool {
	return contains(ValidSpaceUnits, NormalizeSpace(u))
}

// IsValidTime reports whether u is a known time unit or alias.
func IsValidTime(u string) bool {
	return contains(ValidTimeUnits, NormalizeTime(u))
}

func contains(list []string, u string) bool {
	for _, v := range list {
		if v == u {
			return true
		}
	}
	return false
}

// GetValidSpaceUnitsString returns the space units for error messages.
func GetValidSpaceUnitsString() string {
	return strings.Join(ValidSpaceUnits, ", ")
}

// GetValidTimeUnitsString returns the time units for error messages.
func GetValidTimeUnitsString() string {
	return strings.Join(ValidTimeUnits, ", ")
}

// AxisLabel formats an axis caption such as "X (um)".
func AxisLabel(axis, unit string) string {
	if unit == "" {
		return axis
	}
	return axis + " (" + unit + ")"
}
