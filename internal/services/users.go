package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/edutools/edutools/internal/apiclient"
	"github.com/edutools/edutools/internal/schema"
)

// UserTools exposes user management to the agent.
type UserTools struct {
	api apiclient.Client
}

func NewUserTools(api apiclient.Client) *UserTools {
	return &UserTools{api: api}
}

func (*UserTools) ToolOperations() []schema.OperationSpec {
	return []schema.OperationSpec{
		{
			Method:      "ListUsers",
			Description: "List users, optionally restricted to one role (student, instructor, admin).",
			Params:      []schema.ParamSpec{schema.Param("role", "Role filter")},
		},
		{
			Method:      "GetUser",
			Description: "Get a user by id.",
			Params:      []schema.ParamSpec{schema.Param("id", "User id")},
		},
		{
			Method:      "CreateUser",
			Description: "Create a user. Pass a JSON object with name, email and role.",
			Params:      []schema.ParamSpec{schema.Param("user", "User fields")},
		},
		{
			Method:      "DeleteUser",
			Description: "Delete a user by id.",
			Params:      []schema.ParamSpec{schema.Param("id", "User id")},
		},
	}
}

func (t *UserTools) ListUsers(ctx context.Context, role *string) ([]User, error) {
	path := "/users"
	if role != nil && *role != "" {
		path += "?" + url.Values{"role": {*role}}.Encode()
	}

	var out []User
	if err := t.api.Get(ctx, path, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []User{}
	}
	return out, nil
}

func (t *UserTools) GetUser(ctx context.Context, id int) (*User, error) {
	var u User
	if err := t.api.Get(ctx, fmt.Sprintf("/users/%d", id), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (t *UserTools) CreateUser(ctx context.Context, user UserInput) (*User, error) {
	if user.Role == "" {
		user.Role = "student"
	}
	var u User
	if err := t.api.Post(ctx, "/users", user, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (t *UserTools) DeleteUser(ctx context.Context, id int) (string, error) {
	if err := t.api.Delete(ctx, fmt.Sprintf("/users/%d", id)); err != nil {
		return "", err
	}
	return fmt.Sprintf("User %d deleted", id), nil
}
