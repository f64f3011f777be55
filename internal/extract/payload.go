// Package extract pulls structured health-log fields out of the loosely
// shaped events the webhook receives. Different integrations wrap the payload
// differently (Bedrock action groups, API Gateway proxies, bare test events),
// so extraction is a fallback ladder rather than a single schema.
package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// maxDepth bounds the deep scan so self-referential or pathological events
// terminate.
const maxDepth = 32

// Payload locates a flat field mapping inside an arbitrarily shaped event.
// Priority order:
//
//  1. a top-level "parameters" field, else the first "parameters" key found
//     by depth-first scan (document key order, then list order);
//  2. the found value as a JSON-encoded string, a plain object, or a list of
//     {name|key, value} records;
//  3. a top-level "body" field (JSON string or object);
//  4. the event itself, if it is an object holding at least one primitive.
//
// Anything else yields an empty map. Malformed JSON along the way is skipped,
// never fatal.
func Payload(raw json.RawMessage) map[string]any {
	top, err := objectPairs(raw)
	if err != nil {
		top = nil
	}

	params, found := pairValue(top, "parameters")
	if !found && top != nil {
		params, found = deepFind(raw, "parameters")
	}
	if found {
		if m, ok := coerceParams(params); ok {
			return m
		}
	}

	if body, ok := pairValue(top, "body"); ok {
		if m, ok := coerceBody(body); ok {
			return m
		}
	}

	if m := flatEvent(raw, top); m != nil {
		return m
	}
	return map[string]any{}
}

// TopString returns a top-level string field of the event, or "".
func TopString(raw json.RawMessage, key string) string {
	top, err := objectPairs(raw)
	if err != nil {
		return ""
	}
	v, ok := pairValue(top, key)
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return ""
	}
	return s
}

// InputText returns the event's free-text utterance, if any.
func InputText(raw json.RawMessage) string {
	return TopString(raw, "inputText")
}

// MergePayloadField unpacks the two-parameter agent workaround: a "payload"
// field holding a JSON-object string is merged into the body and removed.
func MergePayloadField(body map[string]any) {
	raw, ok := body["payload"]
	if !ok {
		return
	}
	delete(body, "payload")
	s, ok := raw.(string)
	if !ok {
		return
	}
	var extra map[string]any
	if err := json.Unmarshal([]byte(s), &extra); err != nil {
		return
	}
	for k, v := range extra {
		body[k] = v
	}
}

type pair struct {
	key   string
	value json.RawMessage
}

// objectPairs decodes a JSON object into its key/value pairs in document
// order, which map[string]json.RawMessage would lose.
func objectPairs(raw json.RawMessage) ([]pair, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("not a JSON object")
	}
	var pairs []pair
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("non-string object key")
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		pairs = append(pairs, pair{key, value})
	}
	return pairs, nil
}

func pairValue(pairs []pair, key string) (json.RawMessage, bool) {
	for _, p := range pairs {
		if p.key == key {
			return p.value, true
		}
	}
	return nil, false
}

// deepFind walks the structure depth-first with an explicit worklist and
// returns the first value stored under key. Within an object, all keys are
// checked before any value is descended into.
func deepFind(raw json.RawMessage, key string) (json.RawMessage, bool) {
	type frame struct {
		raw   json.RawMessage
		depth int
	}
	stack := []frame{{raw, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.depth >= maxDepth {
			continue
		}
		switch firstByte(f.raw) {
		case '{':
			pairs, err := objectPairs(f.raw)
			if err != nil {
				continue
			}
			if v, ok := pairValue(pairs, key); ok {
				return v, true
			}
			for i := len(pairs) - 1; i >= 0; i-- {
				stack = append(stack, frame{pairs[i].value, f.depth + 1})
			}
		case '[':
			var items []json.RawMessage
			if err := json.Unmarshal(f.raw, &items); err != nil {
				continue
			}
			for i := len(items) - 1; i >= 0; i-- {
				stack = append(stack, frame{items[i], f.depth + 1})
			}
		}
	}
	return nil, false
}

func firstByte(raw json.RawMessage) byte {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return b
	}
	return 0
}

// coerceParams interprets a found "parameters" value: a JSON-encoded object
// string, an object, or a list of {name|key, value} records ("name" is
// preferred, "key" accepted second).
func coerceParams(raw json.RawMessage) (map[string]any, bool) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false
	}
	switch t := v.(type) {
	case string:
		var m map[string]any
		if err := json.Unmarshal([]byte(t), &m); err == nil && m != nil {
			return m, true
		}
	case map[string]any:
		return t, true
	case []any:
		out := make(map[string]any)
		for _, item := range t {
			rec, ok := item.(map[string]any)
			if !ok {
				continue
			}
			name := rec["name"]
			if name == nil || name == "" {
				name = rec["key"]
			}
			if name == nil {
				continue
			}
			out[fmt.Sprint(name)] = rec["value"]
		}
		return out, true
	}
	return nil, false
}

// coerceBody treats a top-level "body" like a parameters value: JSON string
// or object. An unparseable string falls through to the next fallback; any
// other shape ends the ladder with an empty result.
func coerceBody(raw json.RawMessage) (map[string]any, bool) {
	switch firstByte(raw) {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, false
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(s), &m); err == nil && m != nil {
			return m, true
		}
		return nil, false
	case '{':
		var m map[string]any
		if err := json.Unmarshal(raw, &m); err == nil {
			return m, true
		}
		return nil, false
	default:
		return map[string]any{}, true
	}
}

// flatEvent accepts the event itself when it is an object carrying at least
// one primitive scalar value.
func flatEvent(raw json.RawMessage, top []pair) map[string]any {
	if top == nil {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	for _, v := range m {
		switch v.(type) {
		case string, float64, bool:
			return m
		}
	}
	return nil
}
