package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"llama-chat-be/internal/bootstrap"
	"llama-chat-be/internal/config"
	"llama-chat-be/internal/server"
)

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// fakeGenerate stands in for the hosted generation service.
func fakeGenerate(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"status":   "success",
			"response": "| a | b |\n| --- | --- |\n| 1 | 2 |",
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func setupApp(t *testing.T) (*server.Server, func(method, path, token string, body interface{}) *http.Response) {
	t.Helper()

	gen := fakeGenerate(t)
	os.Setenv("JWT_SECRET", "integration-secret")
	os.Setenv("GENERATE_BASE_URL", gen.URL)
	os.Setenv("LOG_FILE_PATH", t.TempDir()+"/app.log")

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cfg := config.Load()
	container := bootstrap.NewContainer(cfg)
	require.NoError(t, container.GenerationWorker.Consume(ctx))
	srv := server.New(cfg, container)
	app := srv.GetApp()

	do := func(method, path, token string, body interface{}) *http.Response {
		var reader *bytes.Reader
		if body != nil {
			payload, err := json.Marshal(body)
			require.NoError(t, err)
			reader = bytes.NewReader(payload)
		} else {
			reader = bytes.NewReader(nil)
		}
		req := httptest.NewRequest(method, path, reader)
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp
	}
	return srv, do
}

func decode(t *testing.T, resp *http.Response, out interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	if out != nil && env.Data != nil {
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
	return env
}

func TestSignupLoginChatFlow(t *testing.T) {
	_, do := setupApp(t)

	// Signup an allowed user
	resp := do("POST", "/api/auth/signup", "", map[string]string{
		"name":     "roberto",
		"email":    "roberto@example.com",
		"password": "Secret12",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Login
	resp = do("POST", "/api/auth/login", "", map[string]string{
		"email":    "roberto@example.com",
		"password": "Secret12",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login struct {
		Token string `json:"token"`
	}
	decode(t, resp, &login)
	require.NotEmpty(t, login.Token)

	// Chat routes reject missing tokens
	resp = do("POST", "/api/chat/send", "", map[string]string{"prompt": "hi"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Send a prompt
	resp = do("POST", "/api/chat/send", login.Token, map[string]string{"prompt": "make a table"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var send struct {
		Session struct {
			ID string `json:"id"`
		} `json:"session"`
		Pending bool `json:"pending"`
	}
	decode(t, resp, &send)
	assert.True(t, send.Pending)
	require.NotEmpty(t, send.Session.ID)

	// The bot reply lands asynchronously and is observed on the next read
	var messages []json.RawMessage
	assert.Eventually(t, func() bool {
		resp := do("GET", "/api/chat/sessions/"+send.Session.ID, login.Token, nil)
		if resp.StatusCode != http.StatusOK {
			return false
		}
		var session struct {
			Messages []json.RawMessage `json:"messages"`
		}
		decode(t, resp, &session)
		messages = session.Messages
		return len(messages) == 2
	}, 3*time.Second, 50*time.Millisecond)

	// Export the table reply as CSV
	resp = do("GET", fmt.Sprintf("/api/chat/sessions/%s/messages/1/export", send.Session.ID), login.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "table_1.csv")

	var buf bytes.Buffer
	_, err := buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2", buf.String())
}

func TestSignupRejectsUnlistedUser(t *testing.T) {
	_, do := setupApp(t)

	resp := do("POST", "/api/auth/signup", "", map[string]string{
		"name":     "mallory",
		"email":    "mallory@example.com",
		"password": "Secret12",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	srv, _ := setupApp(t)

	req := httptest.NewRequest("GET", "/healthz", nil)
	resp, err := srv.GetApp().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
