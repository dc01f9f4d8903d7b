package reasoning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		text string
		ok   bool
		key  string
	}{
		{
			name: "bare object",
			text: `{"score": 42}`,
			ok:   true,
			key:  "score",
		},
		{
			name: "object inside prose",
			text: `Based on my analysis, the result is {"verdict": "elevated"} as shown.`,
			ok:   true,
			key:  "verdict",
		},
		{
			name: "fenced json block",
			text: "Here you go:\n```json\n{\"mode\": \"live\"}\n```\nDone.",
			ok:   true,
			key:  "mode",
		},
		{
			name: "fence without language tag",
			text: "```\n{\"a\": 1}\n```",
			ok:   true,
			key:  "a",
		},
		{
			name: "nested objects",
			text: `{"outer": {"inner": {"deep": true}}, "tail": 1}`,
			ok:   true,
			key:  "outer",
		},
		{
			name: "braces inside string literals",
			text: `{"evidence": "the court ruled {in camera} on the matter", "score": 10}`,
			ok:   true,
			key:  "evidence",
		},
		{
			name: "escaped quote inside string",
			text: `{"quote": "he said \"no {more}\" twice"}`,
			ok:   true,
			key:  "quote",
		},
		{
			name: "no object at all",
			text: "I could not complete the assessment.",
			ok:   false,
		},
		{
			name: "truncated object",
			text: `{"score": 42, "evidence": "cut off mid`,
			ok:   false,
		},
		{
			name: "empty input",
			text: "",
			ok:   false,
		},
		{
			name: "malformed span",
			text: `{not json}`,
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, ok := ExtractJSON(tt.text)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				require.NotNil(t, payload)
				assert.Contains(t, payload, tt.key)
			}
		})
	}
}

func TestExtractJSONTakesFirstBalancedObject(t *testing.T) {
	payload, ok := ExtractJSON(`first {"a": 1} second {"b": 2}`)
	require.True(t, ok)
	assert.Contains(t, payload, "a")
	assert.NotContains(t, payload, "b")
}
