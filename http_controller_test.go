package blog_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	blog "github.com/goliatone/go-blog"
)

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()

	defer resp.Body.Close()
	out := map[string]any{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestRegisterEndpoint(t *testing.T) {
	server := setupServer(t)

	resp, err := server.App.Test(jsonRequest(t, http.MethodPost, "/register", map[string]string{
		"username": "emma",
		"email":    "emma@example.com",
		"password": "emma-pass",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.NotEmpty(t, body["token"])
}

func TestRegisterEndpointValidation(t *testing.T) {
	server := setupServer(t)
	mustRegister(t, server, "emma", "emma@example.com", "emma-pass")

	tests := []struct {
		name     string
		payload  map[string]string
		expected map[string]string
	}{
		{
			name:    "empty payload",
			payload: map[string]string{},
			expected: map[string]string{
				"username": blog.MsgUsernameLength,
				"email":    blog.MsgInvalidEmail,
				"password": blog.MsgPasswordLength,
			},
		},
		{
			name: "taken username",
			payload: map[string]string{
				"username": "emma",
				"email":    "other@example.com",
				"password": "other-pass",
			},
			expected: map[string]string{
				"username": blog.MsgUsernameTaken,
			},
		},
		{
			name: "taken email",
			payload: map[string]string{
				"username": "other",
				"email":    "emma@example.com",
				"password": "other-pass",
			},
			expected: map[string]string{
				"email": blog.MsgEmailTaken,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := server.App.Test(jsonRequest(t, http.MethodPost, "/register", tt.payload))
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			body := decodeBody(t, resp)
			require.Len(t, body, len(tt.expected))
			for field, msg := range tt.expected {
				fieldErr, ok := body[field].(map[string]any)
				require.True(t, ok, "expected error entry for %q", field)
				assert.Equal(t, msg, fieldErr["msg"])
			}
		})
	}
}

func TestLoginEndpoint(t *testing.T) {
	server := setupServer(t)
	mustRegister(t, server, "emma", "emma@example.com", "emma-pass")

	resp, err := server.App.Test(jsonRequest(t, http.MethodPost, "/login", map[string]string{
		"username": "emma",
		"password": "emma-pass",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.NotEmpty(t, body["token"])
}

func TestLoginEndpointWrongCredentials(t *testing.T) {
	server := setupServer(t)
	mustRegister(t, server, "emma", "emma@example.com", "emma-pass")

	tests := []struct {
		name    string
		payload map[string]string
	}{
		{"unknown username", map[string]string{"username": "nobody", "password": "emma-pass"}},
		{"wrong password", map[string]string{"username": "emma", "password": "nope-nope"}},
	}

	// both failure modes produce an identical response
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := server.App.Test(jsonRequest(t, http.MethodPost, "/login", tt.payload))
			require.NoError(t, err)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

			body := decodeBody(t, resp)
			assert.Equal(t, blog.MsgWrongCredentials, body["msg"])
		})
	}
}

func TestLoginEndpointMissingFields(t *testing.T) {
	server := setupServer(t)

	resp, err := server.App.Test(jsonRequest(t, http.MethodPost, "/login", map[string]string{}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	usernameErr, ok := body["username"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, blog.MsgUsernameMissing, usernameErr["msg"])

	passwordErr, ok := body["password"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, blog.MsgPasswordMissing, passwordErr["msg"])
}

func TestGetAccountEndpoint(t *testing.T) {
	server := setupServer(t)
	user := mustRegister(t, server, "emma", "emma@example.com", "emma-pass")

	token := mustLogin(t, server, "emma", "emma-pass")

	req := jsonRequest(t, http.MethodGet, "/account", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := server.App.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "emma", body["username"])
	assert.Equal(t, "emma@example.com", body["email"])
	assert.Equal(t, user.ID.String(), body["userId"])
	assert.Equal(t, false, body["isAuthor"])
	assert.NotContains(t, body, "authorId")
}

func TestGetAccountEndpointUnauthorized(t *testing.T) {
	server := setupServer(t)
	mustRegister(t, server, "emma", "emma@example.com", "emma-pass")

	tests := []struct {
		name  string
		setup func(t *testing.T, req *http.Request)
	}{
		{
			name:  "no token",
			setup: func(t *testing.T, req *http.Request) {},
		},
		{
			name: "wrong scheme",
			setup: func(t *testing.T, req *http.Request) {
				req.Header.Set("Authorization", "Basic abc123")
			},
		},
		{
			name: "garbage token",
			setup: func(t *testing.T, req *http.Request) {
				req.Header.Set("Authorization", "Bearer not.a.token")
			},
		},
		{
			name: "expired token",
			setup: func(t *testing.T, req *http.Request) {
				user, err := server.Repo.Users().FindByUsername(context.Background(), "emma")
				require.NoError(t, err)
				require.NotNil(t, user)

				token, err := server.Tokens.GenerateWithTTL(user.ID.String(), -time.Minute)
				require.NoError(t, err)
				req.Header.Set("Authorization", "Bearer "+token)
			},
		},
		{
			name: "valid token for deleted identity",
			setup: func(t *testing.T, req *http.Request) {
				token, err := server.Tokens.Generate("43b1f38a-3017-4408-bc4b-5c0c76b3c648")
				require.NoError(t, err)
				req.Header.Set("Authorization", "Bearer "+token)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := jsonRequest(t, http.MethodGet, "/account", nil)
			tt.setup(t, req)

			resp, err := server.App.Test(req)
			require.NoError(t, err)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

			body := decodeBody(t, resp)
			assert.Equal(t, blog.MsgAuthFailure, body["msg"])
		})
	}
}

func TestUpdateAccountEndpoint(t *testing.T) {
	server := setupServer(t)
	mustRegister(t, server, "emma", "emma@example.com", "emma-pass")

	token := mustLogin(t, server, "emma", "emma-pass")

	req := jsonRequest(t, http.MethodPut, "/account", map[string]string{
		"newUsername":     "emma2",
		"newPassword":     "new-pass",
		"currentPassword": "emma-pass",
	})
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := server.App.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, blog.MsgAccountUpdated, body["message"])
	assert.Equal(t, []any{"username", "password"}, body["fieldsUpdated"])

	// the old session token still resolves; credentials rotated underneath
	mustLogin(t, server, "emma2", "new-pass")

	resp, err = server.App.Test(jsonRequest(t, http.MethodPost, "/login", map[string]string{
		"username": "emma",
		"password": "emma-pass",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUpdateAccountEndpointWrongPassword(t *testing.T) {
	server := setupServer(t)
	mustRegister(t, server, "emma", "emma@example.com", "emma-pass")

	token := mustLogin(t, server, "emma", "emma-pass")

	req := jsonRequest(t, http.MethodPut, "/account", map[string]string{
		"newUsername":     "emma2",
		"currentPassword": "not-the-password",
	})
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := server.App.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	fieldErr, ok := body["currentPassword"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, blog.MsgIncorrectPassword, fieldErr["msg"])

	// original credentials still valid
	mustLogin(t, server, "emma", "emma-pass")
}

func TestContentRoutesStubbed(t *testing.T) {
	server := setupServer(t)
	mustRegister(t, server, "emma", "emma@example.com", "emma-pass")
	token := mustLogin(t, server, "emma", "emma-pass")

	t.Run("public post listing responds", func(t *testing.T) {
		resp, err := server.App.Test(jsonRequest(t, http.MethodGet, "/posts", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Contains(t, body["msg"], "not implemented")
	})

	t.Run("post creation requires a token", func(t *testing.T) {
		resp, err := server.App.Test(jsonRequest(t, http.MethodPost, "/posts", map[string]string{"title": "x"}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("post creation with token reaches the stub", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/posts", map[string]string{"title": "x"})
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := server.App.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Contains(t, body["msg"], "not implemented")
	})
}

// mustLogin exchanges credentials for a token through the login endpoint.
func mustLogin(t *testing.T, server *blog.Server, username, password string) string {
	t.Helper()

	resp, err := server.App.Test(jsonRequest(t, http.MethodPost, "/login", map[string]string{
		"username": username,
		"password": password,
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}
