package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// The GraphQL variant of the auth endpoint always answers 200; failure lives
// in the top-level errors array, so the body is inspected explicitly and a
// non-empty list is treated as a rejected login.

const loginMutation = `mutation Login($username: String!, $password: String!, $role: String!) {
  login(username: $username, password: $password, role: $role) {
    token
    user { id username name role }
  }
}`

type graphqlError struct {
	Message string `json:"message"`
}

// LoginGraphQL authenticates through the GraphQL login mutation.
func (c *Client) LoginGraphQL(ctx context.Context, username, password string) (LoginResult, error) {
	body, _ := json.Marshal(map[string]interface{}{
		"query": loginMutation,
		"variables": map[string]string{
			"username": username,
			"password": password,
			"role":     "student",
		},
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.GraphQLURL, bytes.NewReader(body))
	if err != nil {
		return LoginResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		observe("login_graphql", "error")
		return LoginResult{}, fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		observe("login_graphql", "error")
		return LoginResult{}, fmt.Errorf("auth response read failed: %w", err)
	}
	if resp.StatusCode >= 400 {
		observe("login_graphql", "error")
		return LoginResult{}, fmt.Errorf("auth endpoint error %s", resp.Status)
	}

	var out struct {
		Data struct {
			Login struct {
				Token string `json:"token"`
				User  *User  `json:"user"`
			} `json:"login"`
		} `json:"data"`
		Errors []graphqlError `json:"errors"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		observe("login_graphql", "error")
		return LoginResult{}, fmt.Errorf("auth response decode failed: %w", err)
	}

	if len(out.Errors) > 0 {
		observe("login_graphql", "rejected")
		return LoginResult{}, &AuthError{Message: out.Errors[0].Message}
	}
	if out.Data.Login.Token == "" {
		observe("login_graphql", "rejected")
		return LoginResult{}, &AuthError{Message: "no token in server response"}
	}
	observe("login_graphql", "ok")
	return LoginResult{Token: out.Data.Login.Token, User: out.Data.Login.User}, nil
}
