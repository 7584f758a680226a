package drafts

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ontocraft/ontocraft/pkg/apperror"
)

func assertAppCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

func TestResolveUpsertCreate(t *testing.T) {
	body := json.RawMessage(`{"label":"New"}`)

	d, err := ResolveUpsert(OpCreate, false, nil, body, nil)
	require.NoError(t, err)
	assert.Equal(t, ActionUpsert, d.Action)
	assert.Equal(t, OpCreate, d.Op)
	assert.JSONEq(t, `{"label":"New"}`, string(d.Body))
}

func TestResolveUpsertCreateConflicts(t *testing.T) {
	_, err := ResolveUpsert(OpCreate, true, nil, nil, nil)
	assertAppCode(t, err, "conflict")

	prior := &DraftChange{Op: OpCreate, Body: json.RawMessage(`{}`)}
	_, err = ResolveUpsert(OpCreate, false, prior, nil, nil)
	assertAppCode(t, err, "conflict")
}

func TestResolveUpsertUpdateCanonical(t *testing.T) {
	patch := json.RawMessage(`[{"op":"replace","path":"/label","value":"X"}]`)

	d, err := ResolveUpsert(OpUpdate, true, nil, nil, patch)
	require.NoError(t, err)
	assert.Equal(t, ActionUpsert, d.Action)
	assert.Equal(t, OpUpdate, d.Op)
	assert.JSONEq(t, string(patch), string(d.Patch))
	assert.Nil(t, d.Body)
}

func TestResolveUpsertUpdateUnknownEntity(t *testing.T) {
	patch := json.RawMessage(`[{"op":"replace","path":"/label","value":"X"}]`)
	_, err := ResolveUpsert(OpUpdate, false, nil, nil, patch)
	assertAppCode(t, err, "bad_request")
}

func TestResolveUpsertUpdateOverCreateRewritesBody(t *testing.T) {
	prior := &DraftChange{Op: OpCreate, Body: json.RawMessage(`{"label":"Draft"}`)}
	patch := json.RawMessage(`[{"op":"replace","path":"/label","value":"Renamed"}]`)

	d, err := ResolveUpsert(OpUpdate, false, prior, nil, patch)
	require.NoError(t, err)
	assert.Equal(t, OpCreate, d.Op)
	assert.JSONEq(t, `{"label":"Renamed"}`, string(d.Body))
	assert.Nil(t, d.Patch)
}

func TestResolveUpsertUpdateOverUpdateCombines(t *testing.T) {
	prior := &DraftChange{Op: OpUpdate, Patch: json.RawMessage(`[{"op":"add","path":"/a","value":1}]`)}
	patch := json.RawMessage(`[{"op":"add","path":"/b","value":2}]`)

	d, err := ResolveUpsert(OpUpdate, true, prior, nil, patch)
	require.NoError(t, err)
	assert.Equal(t, OpUpdate, d.Op)
	assert.JSONEq(t,
		`[{"op":"add","path":"/a","value":1},{"op":"add","path":"/b","value":2}]`,
		string(d.Patch))
}

func TestResolveUpsertUpdateOverDelete(t *testing.T) {
	prior := &DraftChange{Op: OpDelete}
	patch := json.RawMessage(`[{"op":"add","path":"/a","value":1}]`)

	_, err := ResolveUpsert(OpUpdate, true, prior, nil, patch)
	assertAppCode(t, err, "conflict")
}

func TestResolveUpsertDeleteCanonical(t *testing.T) {
	d, err := ResolveUpsert(OpDelete, true, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, ActionUpsert, d.Action)
	assert.Equal(t, OpDelete, d.Op)
}

func TestResolveUpsertDeleteCollapsesCreate(t *testing.T) {
	prior := &DraftChange{Op: OpCreate, Body: json.RawMessage(`{}`)}

	d, err := ResolveUpsert(OpDelete, false, prior, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, ActionRemove, d.Action)
}

func TestResolveUpsertDeleteOverUpdate(t *testing.T) {
	prior := &DraftChange{Op: OpUpdate, Patch: json.RawMessage(`[]`)}

	d, err := ResolveUpsert(OpDelete, true, prior, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, ActionUpsert, d.Action)
	assert.Equal(t, OpDelete, d.Op)
	assert.Nil(t, d.Patch)
}

func TestResolveUpsertDeleteIdempotent(t *testing.T) {
	prior := &DraftChange{Op: OpDelete}

	d, err := ResolveUpsert(OpDelete, true, prior, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, ActionNoop, d.Action)
}

func TestResolveUpsertDeleteUnknownEntity(t *testing.T) {
	_, err := ResolveUpsert(OpDelete, false, nil, nil, nil)
	assertAppCode(t, err, "bad_request")
}

func TestResolveUpsertInvalidPatch(t *testing.T) {
	_, err := ResolveUpsert(OpUpdate, true, nil, nil, json.RawMessage(`{"not":"an array"}`))
	var appErr *apperror.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "bad_request", appErr.Code)
}
