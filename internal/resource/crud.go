// Copyright (c) 2026 Labramp. All rights reserved.
// Author: platform@labramp.dev

package resource

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/labramp/backbone/internal/platform/apperr"
	requestutil "github.com/labramp/backbone/internal/platform/request"
	"github.com/labramp/backbone/internal/platform/respond"
)

// # Route Synthesis

// Method is a CRUD operation the synthesizer can produce a handler for.
//
// INDEX is the collection read (HTTP GET on the collection path); the other
// four map to their HTTP namesakes.
type Method string

const (
	MethodIndex  Method = "INDEX"
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodDelete Method = "DELETE"
)

// AllMethods is the full CRUD surface, used by resources that want everything.
var AllMethods = []Method{MethodIndex, MethodGet, MethodPost, MethodPut, MethodDelete}

// InputHook transforms a bound input record before it is persisted. Used by
// the user resource to replace plaintext passwords with their hashed form.
type InputHook func(ctx context.Context, record Record) (Record, error)

// Option customizes a mounted resource.
type Option func(*binding)

// WithInputHook installs a transformation applied to every POST/PUT input
// after schema validation and before persistence.
func WithInputHook(hook InputHook) Option {
	return func(b *binding) { b.inputHook = hook }
}

// binding is one schema/store pair wired to a router.
type binding struct {
	schema    *Schema
	store     Store
	inputHook InputHook
}

/*
Mount synthesizes one HTTP handler per requested method and registers it on
the router.

Description: The collection path serves INDEX and POST; the "/{pk}" path
serves GET, PUT, and DELETE. Path shape is fixed by the method, never by the
caller. An unknown method name is a configuration error reported at mount
time, not at request time.

Parameters:
  - router: chi router to register on (typically the versioned API group).
  - schema: The resource description. Validated before any route is added.
  - store: The persistence capability backing the handlers.
  - methods: The subset of [AllMethods] to expose.
  - opts: Optional behaviors such as [WithInputHook].

Returns:
  - error: Schema or method-set configuration problems.
*/
func Mount(router chi.Router, schema *Schema, store Store, methods []Method, opts ...Option) error {
	if err := schema.Validate(); err != nil {
		return err
	}

	b := &binding{schema: schema, store: store}
	for _, opt := range opts {
		opt(b)
	}

	collectionPath := "/" + schema.Path
	recordPath := collectionPath + "/{pk}"

	for _, method := range methods {
		switch method {
		case MethodIndex:
			router.Get(collectionPath, b.index)
		case MethodPost:
			router.Post(collectionPath, b.create)
		case MethodGet:
			router.Get(recordPath, b.getByKey)
		case MethodPut:
			router.Put(recordPath, b.updateByKey)
		case MethodDelete:
			router.Delete(recordPath, b.deleteByKey)
		default:
			return fmt.Errorf("resource %q: method %q unsupported", schema.Path, method)
		}
	}

	return nil
}

// # Synthesized Handlers

// index returns every record, ordered by primary key ascending.
func (b *binding) index(writer http.ResponseWriter, request *http.Request) {
	records, err := b.store.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Serialize an empty collection as [], never null.
	redacted := make([]Record, 0, len(records))
	for _, record := range records {
		redacted = append(redacted, b.schema.Redact(record))
	}

	respond.OK(writer, redacted)
}

// create validates the full input shape (minus generated fields), persists it,
// and returns the stored record with generated fields populated.
func (b *binding) create(writer http.ResponseWriter, request *http.Request) {
	record, err := b.bindBody(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	record[b.schema.PrimaryKey] = b.schema.GenerateKey()

	stored, err := b.store.Insert(request.Context(), record)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, b.schema.Redact(stored))
}

// getByKey returns the single record behind the path parameter, or 404.
func (b *binding) getByKey(writer http.ResponseWriter, request *http.Request) {
	record, err := b.store.Get(request.Context(), requestutil.Param(request, "pk"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if record == nil {
		respond.Error(writer, request, apperr.NotFound())
		return
	}

	respond.OK(writer, b.schema.Redact(record))
}

// updateByKey applies a full field-by-field overwrite. Fields omitted from
// the body revert to their schema defaults; nothing is silently preserved.
func (b *binding) updateByKey(writer http.ResponseWriter, request *http.Request) {
	record, err := b.bindBody(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	stored, err := b.store.Update(request.Context(), requestutil.Param(request, "pk"), record)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if stored == nil {
		respond.Error(writer, request, apperr.NotFound())
		return
	}

	respond.OK(writer, b.schema.Redact(stored))
}

// deleteByKey removes the record and returns its prior state, or 404.
func (b *binding) deleteByKey(writer http.ResponseWriter, request *http.Request) {
	record, err := b.store.Delete(request.Context(), requestutil.Param(request, "pk"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if record == nil {
		respond.Error(writer, request, apperr.NotFound())
		return
	}

	respond.OK(writer, b.schema.Redact(record))
}

// bindBody decodes, validates, and transforms a request body into a record.
func (b *binding) bindBody(request *http.Request) (Record, error) {
	var raw map[string]any
	if err := requestutil.DecodeJSON(request, &raw); err != nil {
		return nil, err
	}

	record, err := b.schema.BindInput(raw)
	if err != nil {
		return nil, err
	}

	if b.inputHook != nil {
		record, err = b.inputHook(request.Context(), record)
		if err != nil {
			return nil, err
		}
	}

	return record, nil
}
