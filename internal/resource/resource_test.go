// Copyright (c) 2026 Labramp. All rights reserved.
// Author: platform@labramp.dev

package resource_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labramp/backbone/internal/platform/apperr"
	"github.com/labramp/backbone/internal/resource"
)

// taskSchema returns the schema used across the resource tests.
func taskSchema() *resource.Schema {
	return &resource.Schema{
		Path:       "tasks",
		Table:      "tasks",
		PrimaryKey: "id",
		Fields: []resource.Field{
			{Name: "id", Type: resource.TypeUUID, Generated: true, Default: resource.NewUUID},
			{Name: "name", Type: resource.TypeString},
			{Name: "priority", Type: resource.TypeInteger, Default: func() any { return int64(3) }},
			{Name: "done", Type: resource.TypeBoolean, Default: func() any { return false }},
			{Name: "notes", Type: resource.TypeString, Nullable: true},
			{Name: "created_at", Type: resource.TypeTimestamp, Default: resource.NowUTC},
			{Name: "updated_at", Type: resource.TypeTimestamp, Default: resource.NowUTC},
		},
	}
}

/*
TestSchema_Validate covers the configuration-time soundness checks.
*/
func TestSchema_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*resource.Schema)
		wantErr string
	}{
		{"valid", func(s *resource.Schema) {}, ""},
		{"no_path", func(s *resource.Schema) { s.Path = "" }, "no path"},
		{"no_table", func(s *resource.Schema) { s.Table = "" }, "no table"},
		{"no_fields", func(s *resource.Schema) { s.Fields = nil }, "no fields"},
		{"duplicate_field", func(s *resource.Schema) {
			s.Fields = append(s.Fields, resource.Field{Name: "name", Type: resource.TypeString})
		}, "duplicate field"},
		{"unknown_pk", func(s *resource.Schema) { s.PrimaryKey = "nope" }, "not a declared field"},
		{"ungenerated_pk", func(s *resource.Schema) {
			s.Fields[0].Generated = false
		}, "must be generated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema := taskSchema()
			tt.mutate(schema)

			err := schema.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

/*
TestBindInput_Defaults verifies that omitted fields resolve to their defaults
and nullable fields to null.
*/
func TestBindInput_Defaults(t *testing.T) {
	record, err := taskSchema().BindInput(map[string]any{"name": "write tests"})
	require.NoError(t, err)

	assert.Equal(t, "write tests", record["name"])
	assert.Equal(t, int64(3), record["priority"])
	assert.Equal(t, false, record["done"])
	assert.Nil(t, record["notes"])
	assert.IsType(t, time.Time{}, record["created_at"])

	// Generated fields never come from input.
	_, present := record["id"]
	assert.False(t, present)
}

/*
TestBindInput_Failures verifies the per-field failure clauses: missing fields
render as 'field' is Required., type mismatches as message: field.
*/
func TestBindInput_Failures(t *testing.T) {
	tests := []struct {
		name   string
		input  map[string]any
		detail string
	}{
		{"missing_required", map[string]any{}, "'name' is Required."},
		{"wrong_string", map[string]any{"name": 12}, "Must be a string: name"},
		{"wrong_integer", map[string]any{"name": "x", "priority": "high"}, "Must be an integer: priority"},
		{"fractional_integer", map[string]any{"name": "x", "priority": 1.5}, "Must be an integer: priority"},
		{"wrong_boolean", map[string]any{"name": "x", "done": "yes"}, "Must be a boolean: done"},
		{"bad_timestamp", map[string]any{"name": "x", "created_at": "yesterday"}, "Must be a valid timestamp: created_at"},
		{"null_required", map[string]any{"name": nil}, "Must not be null: name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := taskSchema().BindInput(tt.input)
			require.Error(t, err)

			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, apperr.CategoryValidation, appError.Category)
			assert.Equal(t, 422, appError.HTTPStatus)
			assert.Contains(t, appError.Detail(), tt.detail)
		})
	}
}

/*
TestBindInput_MultipleFailures verifies clause concatenation order matches
field declaration order.
*/
func TestBindInput_MultipleFailures(t *testing.T) {
	_, err := taskSchema().BindInput(map[string]any{
		"priority": "high",
		"done":     1,
	})
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t,
		"'name' is Required. Must be an integer: priority Must be a boolean: done",
		appError.Detail(),
	)
}

/*
TestBindInput_UnknownFieldsIgnored verifies extra keys are dropped silently.
*/
func TestBindInput_UnknownFieldsIgnored(t *testing.T) {
	record, err := taskSchema().BindInput(map[string]any{
		"name":     "ok",
		"sneaky":   "value",
		"internal": true,
	})
	require.NoError(t, err)

	_, present := record["sneaky"]
	assert.False(t, present)
}
