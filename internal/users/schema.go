// Copyright (c) 2026 Labramp. All rights reserved.
// Author: platform@labramp.dev

package users

import (
	"context"
	"fmt"

	"github.com/labramp/backbone/internal/resource"
)

// ResourceSchema describes the users table for the generic CRUD machinery.
//
// The password field is hidden: accepted on input, stored hashed by the
// interception hook, and stripped from every response.
func ResourceSchema() *resource.Schema {
	return &resource.Schema{
		Path:       "users",
		Table:      "users",
		PrimaryKey: "id",
		Fields: []resource.Field{
			{Name: "id", Type: resource.TypeUUID, Generated: true, Default: resource.NewUUID},
			{Name: "active", Type: resource.TypeBoolean, Default: func() any { return false }},
			{Name: "email", Type: resource.TypeString},
			{Name: "password", Type: resource.TypeString, Hidden: true},
			{Name: "first_name", Type: resource.TypeString, Default: func() any { return "" }},
			{Name: "last_name", Type: resource.TypeString, Default: func() any { return "" }},
			{Name: "last_login", Type: resource.TypeTimestamp, Nullable: true},
			{Name: "created_at", Type: resource.TypeTimestamp, Default: resource.NowUTC},
			{Name: "updated_at", Type: resource.TypeTimestamp, Default: resource.NowUTC},
		},
	}
}

// PasswordHook returns the input interception applied to every synthesized
// users write. It enforces the credential policy and replaces the plaintext
// password with its encoded hash before the record reaches storage.
func (service *Service) PasswordHook() resource.InputHook {
	return func(ctx context.Context, record resource.Record) (resource.Record, error) {
		email, _ := record["email"].(string)
		password, ok := record["password"].(string)
		if !ok {
			return nil, fmt.Errorf("users: password missing after schema binding")
		}

		if err := validateCredentials(email, password); err != nil {
			return nil, err
		}

		encoded, err := service.hasher.Hash(password, "", service.iterations)
		if err != nil {
			return nil, err
		}

		record["password"] = encoded
		return record, nil
	}
}
