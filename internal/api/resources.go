// Copyright (c) 2026 Labramp. All rights reserved.
// Author: platform@labramp.dev

package api

import (
	"github.com/labramp/backbone/internal/resource"
)

// Resource pairs a schema with its store and the methods to expose. The
// server mounts each one under the versioned API prefix.
type Resource struct {
	Schema  *resource.Schema
	Store   resource.Store
	Methods []resource.Method
	Options []resource.Option
}

// TaskSchema describes the tasks resource, the canonical example of a fully
// synthesized CRUD surface.
func TaskSchema() *resource.Schema {
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

// UserGroupSchema describes the user_groups resource.
func UserGroupSchema() *resource.Schema {
	return &resource.Schema{
		Path:       "user_groups",
		Table:      "user_groups",
		PrimaryKey: "id",
		Fields: []resource.Field{
			{Name: "id", Type: resource.TypeUUID, Generated: true, Default: resource.NewUUID},
			{Name: "name", Type: resource.TypeString},
			{Name: "description", Type: resource.TypeString, Default: func() any { return "" }},
			{Name: "created_at", Type: resource.TypeTimestamp, Default: resource.NowUTC},
			{Name: "updated_at", Type: resource.TypeTimestamp, Default: resource.NowUTC},
		},
	}
}
