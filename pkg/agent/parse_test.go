package agent

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respWithResult(t *testing.T, result any) *Response {
	t.Helper()
	raw, err := json.Marshal(result)
	require.NoError(t, err)
	return &Response{Success: true, Response: &Result{Result: raw}}
}

func TestParseResult_StringEncodedJSON(t *testing.T) {
	resp := respWithResult(t, `{"streak_count": 4, "motivational_message": "keep going"}`)

	m := ParseResult(resp)
	require.NotNil(t, m)

	n, ok := Int(m, "streak_count")
	assert.True(t, ok)
	assert.Equal(t, 4, n)

	s, ok := Str(m, "motivational_message")
	assert.True(t, ok)
	assert.Equal(t, "keep going", s)
}

func TestParseResult_AlreadyStructured(t *testing.T) {
	resp := respWithResult(t, map[string]any{"hp_value": 65, "is_intervention": true})

	m := ParseResult(resp)
	require.NotNil(t, m)

	hp, ok := Int(m, "hp_value")
	assert.True(t, ok)
	assert.Equal(t, 65, hp)

	b, ok := Bool(m, "is_intervention")
	assert.True(t, ok)
	assert.True(t, b)
}

func TestParseResult_MalformedString(t *testing.T) {
	resp := respWithResult(t, "not-json")
	assert.Nil(t, ParseResult(resp))
}

func TestParseResult_MissingField(t *testing.T) {
	assert.Nil(t, ParseResult(nil))
	assert.Nil(t, ParseResult(&Response{Success: true}))
	assert.Nil(t, ParseResult(&Response{Success: true, Response: &Result{}}))
}

func TestParseResult_NonObjectPayload(t *testing.T) {
	assert.Nil(t, ParseResult(respWithResult(t, []int{1, 2, 3})))
	assert.Nil(t, ParseResult(respWithResult(t, 42)))
}

func TestAccessors_AbsentFields(t *testing.T) {
	m := map[string]any{"a": "x"}

	_, ok := Str(m, "missing")
	assert.False(t, ok)
	_, ok = Int(m, "a")
	assert.False(t, ok)
	_, ok = Bool(m, "a")
	assert.False(t, ok)
	assert.Nil(t, Strings(m, "a"))
	assert.Nil(t, Objects(m, "a"))
}

func TestStrings_SkipsNonStrings(t *testing.T) {
	m := map[string]any{"items": []any{"one", 2.0, "three"}}
	assert.Equal(t, []string{"one", "three"}, Strings(m, "items"))
}
