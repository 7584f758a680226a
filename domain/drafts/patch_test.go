package drafts

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyPatch(t *testing.T) {
	doc := json.RawMessage(`{"label":"Person","properties":[{"key":"name"}]}`)
	patch := json.RawMessage(`[
		{"op":"replace","path":"/label","value":"Human"},
		{"op":"add","path":"/properties/-","value":{"key":"age"}}
	]`)

	out, err := ApplyPatch(doc, patch)
	require.NoError(t, err)
	assert.JSONEq(t, `{"label":"Human","properties":[{"key":"name"},{"key":"age"}]}`, string(out))
}

func TestApplyPatchDoesNotMutateInput(t *testing.T) {
	doc := json.RawMessage(`{"label":"Person"}`)
	before := string(doc)

	_, err := ApplyPatch(doc, json.RawMessage(`[{"op":"replace","path":"/label","value":"X"}]`))
	require.NoError(t, err)
	assert.Equal(t, before, string(doc))
}

func TestApplyPatchFailingOp(t *testing.T) {
	doc := json.RawMessage(`{"label":"Person"}`)

	_, err := ApplyPatch(doc, json.RawMessage(`[{"op":"replace","path":"/missing","value":1}]`))
	assert.Error(t, err)
}

func TestApplyPatchOrderPreserved(t *testing.T) {
	// Second op depends on the first having run.
	doc := json.RawMessage(`{}`)
	patch := json.RawMessage(`[
		{"op":"add","path":"/a","value":{}},
		{"op":"add","path":"/a/b","value":1}
	]`)

	out, err := ApplyPatch(doc, patch)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":{"b":1}}`, string(out))
}

func TestCombinePatches(t *testing.T) {
	a := json.RawMessage(`[{"op":"add","path":"/x","value":1}]`)
	b := json.RawMessage(`[{"op":"add","path":"/y","value":2}]`)

	combined, err := CombinePatches(a, b)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"op":"add","path":"/x","value":1},{"op":"add","path":"/y","value":2}]`, string(combined))
}

func TestCombinePatchesEmpty(t *testing.T) {
	combined, err := CombinePatches(nil, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(combined))
}

func TestValidatePatch(t *testing.T) {
	assert.NoError(t, ValidatePatch(json.RawMessage(`[{"op":"remove","path":"/a"}]`)))
	assert.Error(t, ValidatePatch(json.RawMessage(`{"op":"remove"}`)))
	assert.Error(t, ValidatePatch(json.RawMessage(`not json`)))
}
