// Copyright (c) 2026 Labramp. All rights reserved.
// Author: platform@labramp.dev

package resource_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labramp/backbone/internal/resource"
)

// mountTasks wires the task schema onto a fresh router backed by a memory
// store and returns both.
func mountTasks(t *testing.T, methods []resource.Method, opts ...resource.Option) (*chi.Mux, *resource.MemoryStore) {
	t.Helper()

	schema := taskSchema()
	store := resource.NewMemoryStore(schema)
	router := chi.NewRouter()

	require.NoError(t, resource.Mount(router, schema, store, methods, opts...))
	return router, store
}

// doJSON performs a request with an optional JSON body and decodes the reply.
func doJSON(t *testing.T, router http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	request := httptest.NewRequest(method, target, reader)
	request.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	var decoded map[string]any
	if recorder.Body.Len() > 0 {
		_ = json.Unmarshal(recorder.Body.Bytes(), &decoded)
	}
	return recorder, decoded
}

/*
TestCrud_PostThenGet verifies the synthesizer round trip: a created record is
retrievable by its returned primary key with identical field values.
*/
func TestCrud_PostThenGet(t *testing.T) {
	router, _ := mountTasks(t, resource.AllMethods)

	// 1. Create.
	recorder, created := doJSON(t, router, http.MethodPost, "/tasks",
		`{"name": "write tests", "priority": 7}`)
	require.Equal(t, http.StatusCreated, recorder.Code)

	id, ok := created["id"].(string)
	require.True(t, ok, "generated primary key must be returned")
	assert.Equal(t, "write tests", created["name"])
	assert.EqualValues(t, 7, created["priority"])
	assert.Equal(t, false, created["done"])
	assert.Contains(t, created, "created_at")

	// 2. Fetch by the returned key.
	recorder, fetched := doJSON(t, router, http.MethodGet, "/tasks/"+id, "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, created["name"], fetched["name"])
	assert.Equal(t, created["priority"], fetched["priority"])
	assert.Equal(t, created["id"], fetched["id"])
}

/*
TestCrud_PutFullOverwrite verifies PUT semantics: omitted fields revert to
their schema defaults rather than being silently preserved.
*/
func TestCrud_PutFullOverwrite(t *testing.T) {
	router, _ := mountTasks(t, resource.AllMethods)

	_, created := doJSON(t, router, http.MethodPost, "/tasks",
		`{"name": "original", "priority": 9, "done": true, "notes": "keep me?"}`)
	id := created["id"].(string)

	// PUT carries only the name; every other field must reset.
	recorder, updated := doJSON(t, router, http.MethodPut, "/tasks/"+id,
		`{"name": "rewritten"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	assert.Equal(t, "rewritten", updated["name"])
	assert.EqualValues(t, 3, updated["priority"]) // default, not 9
	assert.Equal(t, false, updated["done"])       // default, not true
	assert.Nil(t, updated["notes"])               // nullable, not preserved

	// The primary key is immutable.
	assert.Equal(t, id, updated["id"])

	// GET reflects exactly the new state.
	_, fetched := doJSON(t, router, http.MethodGet, "/tasks/"+id, "")
	assert.Equal(t, "rewritten", fetched["name"])
	assert.EqualValues(t, 3, fetched["priority"])
}

/*
TestCrud_DeleteThenGet verifies DELETE returns the prior state and the key is
gone afterwards.
*/
func TestCrud_DeleteThenGet(t *testing.T) {
	router, _ := mountTasks(t, resource.AllMethods)

	_, created := doJSON(t, router, http.MethodPost, "/tasks", `{"name": "ephemeral"}`)
	id := created["id"].(string)

	// 1. Delete returns the record's last state.
	recorder, deleted := doJSON(t, router, http.MethodDelete, "/tasks/"+id, "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "ephemeral", deleted["name"])

	// 2. A second lookup is a 404 with the documented envelope.
	recorder, body := doJSON(t, router, http.MethodGet, "/tasks/"+id, "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	errors, ok := body["errors"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Resource Not Found", errors["VALIDATION"])

	// 3. Deleting again is also a 404 (not idempotent silence).
	recorder, _ = doJSON(t, router, http.MethodDelete, "/tasks/"+id, "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

/*
TestCrud_IndexOrdering verifies INDEX returns records sorted ascending by
primary key even when they were inserted out of order.
*/
func TestCrud_IndexOrdering(t *testing.T) {
	router, store := mountTasks(t, resource.AllMethods)

	// Seed the store directly with deliberately non-ascending keys.
	for _, key := range []string{"cc", "aa", "bb"} {
		_, err := store.Insert(context.Background(), resource.Record{
			"id": key, "name": "task-" + key, "priority": int64(1),
			"done": false, "notes": nil,
		})
		require.NoError(t, err)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/tasks", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	var records []map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &records))
	require.Len(t, records, 3)

	assert.Equal(t, "aa", records[0]["id"])
	assert.Equal(t, "bb", records[1]["id"])
	assert.Equal(t, "cc", records[2]["id"])
}

/*
TestCrud_EmptyIndex verifies an empty collection serializes as [].
*/
func TestCrud_EmptyIndex(t *testing.T) {
	router, _ := mountTasks(t, resource.AllMethods)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/tasks", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "[]\n", recorder.Body.String())
}

/*
TestCrud_MalformedJSON verifies unparseable bodies map to 422 VALIDATION.
*/
func TestCrud_MalformedJSON(t *testing.T) {
	router, _ := mountTasks(t, resource.AllMethods)

	recorder, body := doJSON(t, router, http.MethodPost, "/tasks", `{"name": `)
	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)

	errors, ok := body["errors"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Invalid JSON", errors["VALIDATION"])
}

/*
TestCrud_ValidationEnvelope verifies field failures surface with the clause
format in the VALIDATION envelope.
*/
func TestCrud_ValidationEnvelope(t *testing.T) {
	router, _ := mountTasks(t, resource.AllMethods)

	recorder, body := doJSON(t, router, http.MethodPost, "/tasks", `{"priority": "high"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)

	errors := body["errors"].(map[string]any)
	assert.Equal(t, "'name' is Required. Must be an integer: priority", errors["VALIDATION"])
}

/*
TestCrud_MethodSubset verifies unrequested methods are simply not routed.
*/
func TestCrud_MethodSubset(t *testing.T) {
	router, store := mountTasks(t, []resource.Method{resource.MethodIndex, resource.MethodGet})

	_, err := store.Insert(context.Background(), resource.Record{"id": "aa", "name": "readonly"})
	require.NoError(t, err)

	// INDEX and GET are live.
	recorder, _ := doJSON(t, router, http.MethodGet, "/tasks", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	recorder, _ = doJSON(t, router, http.MethodGet, "/tasks/aa", "")
	assert.Equal(t, http.StatusOK, recorder.Code)

	// POST was never synthesized.
	recorder, _ = doJSON(t, router, http.MethodPost, "/tasks", `{"name": "nope"}`)
	assert.Equal(t, http.StatusMethodNotAllowed, recorder.Code)
}

/*
TestCrud_UnsupportedMethod verifies a bad method set fails at mount time.
*/
func TestCrud_UnsupportedMethod(t *testing.T) {
	schema := taskSchema()
	store := resource.NewMemoryStore(schema)

	err := resource.Mount(chi.NewRouter(), schema, store, []resource.Method{"PATCH"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `method "PATCH" unsupported`)
}

/*
TestCrud_InputHook verifies the pre-persistence transformation used by the
user resource for password interception.
*/
func TestCrud_InputHook(t *testing.T) {
	hook := func(ctx context.Context, record resource.Record) (resource.Record, error) {
		if name, ok := record["name"].(string); ok {
			record["name"] = strings.ToUpper(name)
		}
		return record, nil
	}

	router, _ := mountTasks(t, resource.AllMethods, resource.WithInputHook(hook))

	_, created := doJSON(t, router, http.MethodPost, "/tasks", `{"name": "quiet"}`)
	assert.Equal(t, "QUIET", created["name"])
}
