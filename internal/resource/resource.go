// Copyright (c) 2026 Labramp. All rights reserved.
// Author: platform@labramp.dev

/*
Package resource implements the schema-driven CRUD machinery of Backbone.

A resource is described once, declaratively, as a [Schema]: an ordered set of
typed fields plus the identity of the primary key. From that description the
package synthesizes the full HTTP surface (INDEX/GET/POST/PUT/DELETE) and the
storage plumbing, so that adding a new resource to the service is a matter of
declaring its schema and mounting it.

Architecture:

  - Schema: Static description of a record type. Built at startup, never mutated.
  - Store: The persistence capability (list/get/insert/update/delete by key).
  - Mount: The route synthesizer producing one chi handler per HTTP method.

Records travel as ordered-agnostic maps; the schema is the single source of
truth for what a valid record looks like.
*/
package resource

import (
	"fmt"
	"time"

	"github.com/labramp/backbone/internal/platform/apperr"
	"github.com/labramp/backbone/pkg/uuidv7"
)

// # Field Model

// FieldType is the closed set of primitive types a schema field can carry.
type FieldType string

const (
	TypeString    FieldType = "string"
	TypeInteger   FieldType = "integer"
	TypeNumber    FieldType = "number"
	TypeBoolean   FieldType = "boolean"
	TypeTimestamp FieldType = "timestamp"
	TypeUUID      FieldType = "uuid"
)

// Field describes a single column of a resource.
type Field struct {
	// Name is the JSON key and storage column name.
	Name string

	// Type is the primitive type enforced on input.
	Type FieldType

	// Nullable marks fields that accept an explicit null.
	Nullable bool

	// Default, when set, supplies the value for input that omits the field.
	// It is a function so that dynamic defaults (timestamps) stay fresh.
	Default func() any

	// Generated marks system-populated fields that are never accepted in
	// input. The primary key is always generated.
	Generated bool

	// Hidden marks fields accepted on input but stripped from every
	// response. Used for stored credentials.
	Hidden bool
}

// Record is one row of a resource, keyed by field name.
type Record map[string]any

// # Schema

// Schema is the static description of a resource type.
//
// # Lifecycle
//
// A Schema is defined once per resource at startup and never mutated at
// runtime. The primary key is unique and immutable after creation.
type Schema struct {
	// Path is the URL path segment, e.g. "tasks".
	Path string

	// Table is the storage table name.
	Table string

	// PrimaryKey names the field used for single-record lookups.
	PrimaryKey string

	// Fields is the ordered set of field definitions.
	Fields []Field
}

// Field returns the definition for the named field.
func (s *Schema) Field(name string) (Field, bool) {
	for _, field := range s.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Columns returns the ordered field names. Used by stores to keep SELECT
// lists deterministic.
func (s *Schema) Columns() []string {
	columns := make([]string, len(s.Fields))
	for i, field := range s.Fields {
		columns[i] = field.Name
	}
	return columns
}

// Validate checks structural soundness. Called at mount time; a bad schema is
// a programming error caught at startup, never at request time.
func (s *Schema) Validate() error {
	if s.Path == "" {
		return fmt.Errorf("resource: schema has no path segment")
	}
	if s.Table == "" {
		return fmt.Errorf("resource %q: schema has no table name", s.Path)
	}
	if len(s.Fields) == 0 {
		return fmt.Errorf("resource %q: schema has no fields", s.Path)
	}

	seen := make(map[string]bool, len(s.Fields))
	for _, field := range s.Fields {
		if field.Name == "" {
			return fmt.Errorf("resource %q: field with empty name", s.Path)
		}
		if seen[field.Name] {
			return fmt.Errorf("resource %q: duplicate field %q", s.Path, field.Name)
		}
		seen[field.Name] = true
	}

	pk, ok := s.Field(s.PrimaryKey)
	if !ok {
		return fmt.Errorf("resource %q: primary key %q is not a declared field", s.Path, s.PrimaryKey)
	}
	if !pk.Generated || pk.Default == nil {
		return fmt.Errorf("resource %q: primary key %q must be generated with a default", s.Path, s.PrimaryKey)
	}

	return nil
}

// # Input Binding

/*
BindInput validates a decoded request body against the schema and produces a
complete record of the non-generated fields.

Description: Every non-generated field is resolved in declaration order;
present values are type-coerced, absent values fall back to the field default
(or null for nullable fields), and anything else is collected as a field-level
validation failure. Unknown keys in the input are ignored.

Parameters:
  - raw: The decoded JSON body.

Returns:
  - Record: Complete record minus generated fields.
  - error: 422 VALIDATION [apperr.AppError] listing every offending field.
*/
func (s *Schema) BindInput(raw map[string]any) (Record, error) {
	record := make(Record, len(s.Fields))
	var failures []apperr.FieldError

	for _, field := range s.Fields {
		if field.Generated {
			continue
		}

		value, present := raw[field.Name]

		// Explicit null: allowed only for nullable fields.
		if present && value == nil {
			if field.Nullable {
				record[field.Name] = nil
			} else {
				failures = append(failures, apperr.FieldError{
					Field: field.Name, Message: "Must not be null",
				})
			}
			continue
		}

		// Absent: fall back to the default, then to null, then fail.
		if !present {
			switch {
			case field.Default != nil:
				record[field.Name] = field.Default()
			case field.Nullable:
				record[field.Name] = nil
			default:
				failures = append(failures, apperr.FieldError{
					Field: field.Name, Missing: true,
				})
			}
			continue
		}

		coerced, err := coerce(field.Type, value)
		if err != "" {
			failures = append(failures, apperr.FieldError{Field: field.Name, Message: err})
			continue
		}
		record[field.Name] = coerced
	}

	if len(failures) > 0 {
		return nil, apperr.Validation("", failures...)
	}

	return record, nil
}

// Redact returns a copy of the record with every hidden field removed.
// Stores see the full record; responses never do.
func (s *Schema) Redact(record Record) Record {
	if record == nil {
		return nil
	}

	redacted := make(Record, len(record))
	for name, value := range record {
		if field, ok := s.Field(name); ok && field.Hidden {
			continue
		}
		redacted[name] = value
	}
	return redacted
}

// GenerateKey produces a fresh primary-key value from the schema's generated
// default.
func (s *Schema) GenerateKey() any {
	pk, _ := s.Field(s.PrimaryKey)
	return pk.Default()
}

// coerce converts a decoded JSON value into the field's storage type. The
// returned string is empty on success and a client-facing clause otherwise.
func coerce(fieldType FieldType, value any) (any, string) {
	switch fieldType {
	case TypeString:
		text, ok := value.(string)
		if !ok {
			return nil, "Must be a string"
		}
		return text, ""

	case TypeInteger:
		// encoding/json decodes every number as float64.
		number, ok := value.(float64)
		if !ok || number != float64(int64(number)) {
			return nil, "Must be an integer"
		}
		return int64(number), ""

	case TypeNumber:
		number, ok := value.(float64)
		if !ok {
			return nil, "Must be a number"
		}
		return number, ""

	case TypeBoolean:
		flag, ok := value.(bool)
		if !ok {
			return nil, "Must be a boolean"
		}
		return flag, ""

	case TypeTimestamp:
		text, ok := value.(string)
		if !ok {
			return nil, "Must be a valid timestamp"
		}
		parsed, err := time.Parse(time.RFC3339Nano, text)
		if err != nil {
			return nil, "Must be a valid timestamp"
		}
		return parsed, ""

	case TypeUUID:
		text, ok := value.(string)
		if !ok {
			return nil, "Must be a valid UUID"
		}
		if !uuidv7.IsValid(text) {
			return nil, "Must be a valid UUID"
		}
		return text, ""
	}

	return nil, "Unsupported field type"
}

// # Common Defaults

// NowUTC is the default for timestamp fields stamped at write time.
func NowUTC() any { return time.Now().UTC() }

// NewUUID is the default for generated uuid primary keys (time-sortable v7).
func NewUUID() any { return uuidv7.New() }
