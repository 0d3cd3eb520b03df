package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginGraphQL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Query     string            `json:"query"`
			Variables map[string]string `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body.Query, "login(")
		assert.Equal(t, "student", body.Variables["role"])
		w.Write([]byte(`{"data":{"login":{"token":"tok123","user":{"id":"7","username":"ani","name":"Ani","role":"student"}}}}`))
	}))
	defer srv.Close()

	res, err := testClient(srv).LoginGraphQL(context.Background(), "ani", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok123", res.Token)
	require.NotNil(t, res.User)
	assert.Equal(t, "Ani", res.User.Name)
}

func TestLoginGraphQLErrorsArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// GraphQL rejections travel inside a 200 response
		w.Write([]byte(`{"data":{"login":null},"errors":[{"message":"Invalid credentials"}]}`))
	}))
	defer srv.Close()

	_, err := testClient(srv).LoginGraphQL(context.Background(), "ani", "wrong")
	require.Error(t, err)
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Invalid credentials", authErr.Message)
}

func TestLoginGraphQLNoToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"login":{"token":""}}}`))
	}))
	defer srv.Close()

	_, err := testClient(srv).LoginGraphQL(context.Background(), "ani", "secret")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}
