package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapToColumns(t *testing.T) {
	in := map[string]any{
		"date":           "2026-08-31",
		"steps":          10842,
		"protein_intake": 155,
		"mood":           "good",
	}
	out := MapToColumns(in)

	assert.Equal(t, "2026-08-31", out["Date"])
	assert.Equal(t, 10842, out["Steps"])
	assert.Equal(t, 155, out["Protein Intake (~160g)"], "alias key maps to the shared column")
	assert.Equal(t, "good", out["mood"], "unknown keys pass through unchanged")
}

func TestMapToColumnsAliases(t *testing.T) {
	a := MapToColumns(map[string]any{"protein_intake_g": 160})
	b := MapToColumns(map[string]any{"protein_intake": 160})
	assert.Equal(t, a, b)
}

func TestNormalizeBool(t *testing.T) {
	for _, v := range []any{"y", "Yes", "TRUE", "1", "✓", true} {
		assert.Equal(t, "Y", NormalizeBool(v), "value %v", v)
	}
	for _, v := range []any{"n", "No", "FALSE", "0", false} {
		assert.Equal(t, "N", NormalizeBool(v), "value %v", v)
	}

	assert.Equal(t, "", NormalizeBool(nil))
	assert.Equal(t, "", NormalizeBool(""))
	assert.Equal(t, "maybe", NormalizeBool("maybe"), "unrecognized values pass through")
	assert.Equal(t, " Perhaps ", NormalizeBool(" Perhaps "), "passthrough keeps original spacing")
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "Y", Format("yes", "Jog/Walk (Y/N)"))
	assert.Equal(t, "N", Format("0", "Calories Controlled (Y/N)"))
	assert.Equal(t, "10842", Format(float64(10842), "Steps"), "integral float64 stays integral")
	assert.Equal(t, "3.1", Format(3.1, "Jog Mls."))
	assert.Equal(t, "", Format(nil, "Notes"))
	assert.Equal(t, "felt great", Format("felt great", "Notes"))
}

func TestHasMeaningful(t *testing.T) {
	assert.False(t, HasMeaningful(map[string]any{"Date": "2026-08-31"}))
	assert.False(t, HasMeaningful(map[string]any{"Date": "2026-08-31", "mood": "good"}),
		"unmapped passthrough columns do not count")
	assert.True(t, HasMeaningful(map[string]any{"Date": "2026-08-31", "Steps": 1}))
	assert.True(t, HasMeaningful(map[string]any{"Notes": "x"}))
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "", Stringify(nil))
	assert.Equal(t, "180.5", Stringify(180.5))
	assert.Equal(t, "10842", Stringify(10842))
	assert.Equal(t, "true", Stringify(true))
	assert.Equal(t, "plain", Stringify("plain"))
}
