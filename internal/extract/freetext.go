package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// FreeText derives fields from an unstructured utterance like
// "jogged 3.1 miles and did after-dinner walk, notes: felt good".
// Rules run in order against a lowercased copy of the input; matching is
// best-effort and non-authoritative — the caller only uses these values to
// fill keys the structured payload did not supply.
func FreeText(s string) map[string]any {
	out := map[string]any{}
	if strings.TrimSpace(s) == "" {
		return out
	}
	lower := strings.ToLower(s)
	for _, rule := range freeTextRules {
		rule(lower, s, out)
	}
	return out
}

const numPat = `([-+]?\d+(?:\.\d+)?)`

var (
	reWeight     = regexp.MustCompile(`\bweight\s*` + numPat + `\s*(?:lb|lbs)?\b`)
	reWaist      = regexp.MustCompile(`\bwaist\s*` + numPat + `\s*(?:in|inch|inches)?\b`)
	reStepsAfter = regexp.MustCompile(`\bsteps?\s*([0-9][0-9,]*)\b`)
	reStepsPre   = regexp.MustCompile(`\b([0-9][0-9,]*)\s*steps?\b`)
	reJogMiles   = regexp.MustCompile(`\bjog(?:ged)?\s*` + numPat + `\s*(?:mi|mile|miles)\b`)
	reResist     = regexp.MustCompile(`\b(?:resistance|resist)\s+training\b`)
	reCalories   = regexp.MustCompile(`\bcalories?\s*([0-9][0-9,]*)\b`)
	reProtein    = regexp.MustCompile(`\bprotein\s*` + numPat + `\s*(?:g|gram|grams)?\b`)
	reNotes      = regexp.MustCompile(`(?i)notes?\s*:\s*([^\n]*)`)
)

// Each rule receives the lowercased text, the original text (for notes, which
// keep their casing), and the output map it may contribute to.
type freeTextRule func(lower, orig string, out map[string]any)

var freeTextRules = []freeTextRule{
	func(lower, _ string, out map[string]any) {
		if m := reWeight.FindStringSubmatch(lower); m != nil {
			out["weight_lbs"] = parseFloat(m[1])
		}
	},
	func(lower, _ string, out map[string]any) {
		if m := reWaist.FindStringSubmatch(lower); m != nil {
			out["waist_in"] = parseFloat(m[1])
		}
	},
	func(lower, _ string, out map[string]any) {
		m := reStepsAfter.FindStringSubmatch(lower)
		if m == nil {
			m = reStepsPre.FindStringSubmatch(lower)
		}
		if m != nil {
			out["steps"] = parseInt(m[1])
		}
	},
	func(lower, _ string, out map[string]any) {
		if m := reJogMiles.FindStringSubmatch(lower); m != nil {
			out["jog_miles"] = parseFloat(m[1])
			out["jog_walk"] = "Y"
		} else if strings.Contains(lower, "jog") || strings.Contains(lower, "run") {
			out["jog_walk"] = "Y"
		}
	},
	func(lower, _ string, out map[string]any) {
		if strings.Contains(lower, "after-dinner walk") || strings.Contains(lower, "after dinner walk") {
			out["after_dinner_walk"] = "Y"
		}
	},
	func(lower, _ string, out map[string]any) {
		if reResist.MatchString(lower) || strings.Contains(lower, "lifting") || strings.Contains(lower, "weights") {
			out["resist_training"] = "Y"
		}
	},
	func(lower, _ string, out map[string]any) {
		if m := reCalories.FindStringSubmatch(lower); m != nil {
			out["calories_in"] = parseInt(m[1])
		}
	},
	func(lower, _ string, out map[string]any) {
		// "uncontrolled" contains "controlled"; negative phrasing first.
		if strings.Contains(lower, "not controlled") || strings.Contains(lower, "uncontrolled") {
			out["calories_controlled"] = "N"
		} else if strings.Contains(lower, "controlled") {
			out["calories_controlled"] = "Y"
		}
	},
	func(lower, _ string, out map[string]any) {
		if m := reProtein.FindStringSubmatch(lower); m != nil {
			out["protein_intake_g"] = parseFloat(m[1])
		}
		if strings.Contains(lower, "protein target hit") || strings.Contains(lower, "hit protein") {
			out["protein_target_hit"] = "Y"
		}
		if strings.Contains(lower, "missed protein") {
			out["protein_target_hit"] = "N"
		}
	},
	func(_, orig string, out map[string]any) {
		if m := reNotes.FindStringSubmatch(orig); m != nil {
			out["notes"] = strings.TrimSpace(m[1])
		}
	},
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func parseInt(s string) int {
	n, _ := strconv.Atoi(strings.ReplaceAll(s, ",", ""))
	return n
}
