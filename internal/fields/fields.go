// Package fields maps canonical log-field keys to the tracker sheet's column
// names and formats values for storage.
package fields

import (
	"fmt"
	"strconv"
	"strings"
)

// Columns maps canonical field keys to the exact header text in row 1 of the
// tracker sheet. The display names are a compatibility surface with the live
// spreadsheet; do not edit them without migrating the sheet.
var Columns = map[string]string{
	"date":                "Date",
	"weight_lbs":          "Weight (lbs)",
	"waist_in":            "Waist (in)",
	"calories_controlled": "Calories Controlled (Y/N)",
	"calories_in":         "Calories In (~2,450 cal/day)",
	"protein_target_hit":  "Protein Target Hit (Y/N)",
	"protein_intake_g":    "Protein Intake (~160g)",
	"protein_intake":      "Protein Intake (~160g)", // alias
	"steps":               "Steps",
	"jog_walk":            "Jog/Walk (Y/N)",
	"jog_miles":           "Jog Mls.",
	"after_dinner_walk":   "After-Dinner Walk (Y/N)",
	"resist_training":     "Resist Training (Y/N)",
	"notes":               "Notes",
}

// DateColumn is the header cell that keys rows.
const DateColumn = "Date"

// boolSuffix marks columns holding a Y/N value.
const boolSuffix = "(Y/N)"

// meaningful holds every mapped column except Date. An update that carries
// none of these is rejected before any sheet access.
var meaningful = func() map[string]bool {
	m := make(map[string]bool, len(Columns))
	for _, col := range Columns {
		if col != DateColumn {
			m[col] = true
		}
	}
	return m
}()

// MapToColumns renames canonical keys to their display column names. Unknown
// keys pass through unchanged so new columns can be written before this table
// learns about them.
func MapToColumns(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		if col, ok := Columns[k]; ok {
			out[col] = v
		} else {
			out[k] = v
		}
	}
	return out
}

// HasMeaningful reports whether the mapped values carry at least one column
// besides Date.
func HasMeaningful(mapped map[string]any) bool {
	for col := range mapped {
		if meaningful[col] {
			return true
		}
	}
	return false
}

// Stringify renders a scalar the way it should appear in a cell. JSON numbers
// arrive as float64; integral values must not grow a fractional part.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// NormalizeBool collapses the accepted yes/no spellings to the single-letter
// codes the sheet uses. Unrecognized values pass through unchanged.
func NormalizeBool(v any) string {
	if v == nil {
		return ""
	}
	s := Stringify(v)
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "true", "1", "✓":
		return "Y"
	case "n", "no", "false", "0":
		return "N"
	}
	return s
}

// Format renders a value for the given display column: Y/N columns are
// normalized, everything else is stringified.
func Format(v any, column string) string {
	if strings.HasSuffix(column, boolSuffix) {
		return NormalizeBool(v)
	}
	return Stringify(v)
}
