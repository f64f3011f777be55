package extract

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadTopLevelParameters(t *testing.T) {
	got := Payload(json.RawMessage(`{"parameters":{"steps":10842,"notes":"felt great"}}`))
	assert.Equal(t, map[string]any{"steps": float64(10842), "notes": "felt great"}, got)
}

func TestPayloadParameterList(t *testing.T) {
	got := Payload(json.RawMessage(
		`{"parameters":[{"name":"steps","value":"10842"},{"name":"notes","value":"felt great"}]}`))
	assert.Equal(t, map[string]any{"steps": "10842", "notes": "felt great"}, got)
}

func TestPayloadParameterListKeyField(t *testing.T) {
	got := Payload(json.RawMessage(
		`{"parameters":[{"key":"weight_lbs","value":180},{"name":"notes","key":"ignored","value":"ok"}]}`))
	assert.Equal(t, map[string]any{"weight_lbs": float64(180), "notes": "ok"}, got)
}

func TestPayloadParametersAsJSONString(t *testing.T) {
	got := Payload(json.RawMessage(`{"parameters":"{\"weight_lbs\":180}"}`))
	assert.Equal(t, map[string]any{"weight_lbs": float64(180)}, got)
}

func TestPayloadDeepNestedParameters(t *testing.T) {
	event := `{
		"agent": {"name": "healthlog"},
		"sessionAttributes": [
			{"irrelevant": true},
			{"requestBody": {"content": {"parameters": {"steps": 9000}}}}
		]
	}`
	got := Payload(json.RawMessage(event))
	assert.Equal(t, map[string]any{"steps": float64(9000)}, got)
}

func TestPayloadDeepFindFirstMatchWins(t *testing.T) {
	// Document order: the "a" branch is declared first, so its parameters
	// win over the "b" branch.
	event := `{
		"a": {"parameters": {"steps": 1}},
		"b": {"parameters": {"steps": 2}}
	}`
	got := Payload(json.RawMessage(event))
	assert.Equal(t, map[string]any{"steps": float64(1)}, got)
}

func TestPayloadKeysCheckedBeforeDescent(t *testing.T) {
	// "wrapper" is declared before "parameters", but sibling keys are
	// checked before any value is descended into.
	event := `{
		"wrapper": {"parameters": {"steps": 1}},
		"parameters": {"steps": 2}
	}`
	got := Payload(json.RawMessage(event))
	assert.Equal(t, map[string]any{"steps": float64(2)}, got)
}

func TestPayloadBodyString(t *testing.T) {
	got := Payload(json.RawMessage(`{"body":"{\"steps\":500}"}`))
	assert.Equal(t, map[string]any{"steps": float64(500)}, got)
}

func TestPayloadBodyObject(t *testing.T) {
	got := Payload(json.RawMessage(`{"resource":"/log","body":{"steps":500}}`))
	assert.Equal(t, map[string]any{"steps": float64(500)}, got)
}

func TestPayloadBodyMalformedFallsThrough(t *testing.T) {
	got := Payload(json.RawMessage(`{"body":"not json","steps":500}`))
	assert.Equal(t, float64(500), got["steps"], "flat fallback should still apply")
}

func TestPayloadFlatEvent(t *testing.T) {
	got := Payload(json.RawMessage(`{"weight_lbs":180,"notes":"ok"}`))
	assert.Equal(t, map[string]any{"weight_lbs": float64(180), "notes": "ok"}, got)
}

func TestPayloadUnrecognized(t *testing.T) {
	assert.Empty(t, Payload(json.RawMessage(`[1,2,3]`)))
	assert.Empty(t, Payload(json.RawMessage(`"just text"`)))
	assert.Empty(t, Payload(json.RawMessage(`{"nested":{"only":{"objects":{}}}}`)))
	assert.Empty(t, Payload(json.RawMessage(`{invalid`)))
}

func TestPayloadDepthLimit(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString(`{"w":`)
	}
	b.WriteString(`{"parameters":{"steps":1}}`)
	for i := 0; i < 40; i++ {
		b.WriteString(`}`)
	}
	got := Payload(json.RawMessage(b.String()))
	assert.Empty(t, got, "parameters buried past the depth limit are not found")
}

func TestTopString(t *testing.T) {
	raw := json.RawMessage(`{"inputText":"weight 180","function":"upsert_log","n":3}`)
	assert.Equal(t, "weight 180", InputText(raw))
	assert.Equal(t, "upsert_log", TopString(raw, "function"))
	assert.Equal(t, "", TopString(raw, "n"), "non-string values read as empty")
	assert.Equal(t, "", TopString(raw, "missing"))
	assert.Equal(t, "", TopString(json.RawMessage(`[]`), "inputText"))
}

func TestMergePayloadField(t *testing.T) {
	body := map[string]any{
		"date":    "2026-08-31",
		"payload": `{"steps":10842,"notes":"ok"}`,
	}
	MergePayloadField(body)

	require.NotContains(t, body, "payload")
	assert.Equal(t, float64(10842), body["steps"])
	assert.Equal(t, "ok", body["notes"])
}

func TestMergePayloadFieldMalformed(t *testing.T) {
	body := map[string]any{"payload": "{broken", "steps": 1}
	MergePayloadField(body)

	assert.NotContains(t, body, "payload", "the key is dropped even when unparseable")
	assert.Equal(t, 1, body["steps"])
}
