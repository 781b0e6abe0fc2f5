package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

type TestClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewTestClient(t *testing.T) *TestClient {
	t.Helper()

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	return &TestClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// 全エンドポイント共通のレスポンス形
type AuthEnvelope struct {
	Status    string      `json:"status"`
	Message   string      `json:"message"`
	AuthToken string      `json:"auth_token"`
	Data      *StatusData `json:"data"`
}

type StatusData struct {
	UserID       int64     `json:"user_id"`
	Email        string    `json:"email"`
	Admin        bool      `json:"admin"`
	RegisteredOn time.Time `json:"registered_on"`
}

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *TestClient) doJSON(
	ctx context.Context,
	t *testing.T,
	method string,
	path string,
	authHeader string,
	bodyBytes []byte,
) (*http.Response, []byte) {
	t.Helper()

	var reqBody io.Reader
	if bodyBytes != nil {
		reqBody = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		t.Fatalf("http.NewRequest failed: %v", err)
	}

	if bodyBytes != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		t.Fatalf("HTTP.Do failed: %v", err)
	}

	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}

	return resp, data
}

func requireStatus(t *testing.T, resp *http.Response, want int, body []byte) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("status=%d want=%d body=%s", resp.StatusCode, want, string(body))
	}
}

func mustDecodeEnvelope(t *testing.T, body []byte) AuthEnvelope {
	t.Helper()
	var v AuthEnvelope
	if err := json.Unmarshal(body, &v); err != nil {
		t.Fatalf("json.Unmarshal(AuthEnvelope) failed: %v body=%s", err, string(body))
	}
	return v
}

// 同じDBに対して何度も走るので毎回ユニークなemailを作る
func uniqueEmail(t *testing.T) string {
	t.Helper()
	return fmt.Sprintf("joe+%d@example.com", time.Now().UnixNano())
}

// 登録してtokenを返す
func registerUser(t *testing.T, c *TestClient, ctx context.Context, email string, password string) string {
	t.Helper()

	b, err := json.Marshal(CredentialsRequest{Email: email, Password: password})
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}

	resp, body := c.doJSON(ctx, t, http.MethodPost, "/auth/register", "", b)
	requireStatus(t, resp, http.StatusCreated, body)

	env := mustDecodeEnvelope(t, body)
	if env.Status != "success" || strings.TrimSpace(env.AuthToken) == "" {
		t.Fatalf("register failed: body=%s", string(body))
	}

	return env.AuthToken
}

// ログインしてtokenを返す
func loginUser(t *testing.T, c *TestClient, ctx context.Context, email string, password string) string {
	t.Helper()

	b, err := json.Marshal(CredentialsRequest{Email: email, Password: password})
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}

	resp, body := c.doJSON(ctx, t, http.MethodPost, "/auth/login", "", b)
	requireStatus(t, resp, http.StatusOK, body)

	env := mustDecodeEnvelope(t, body)
	if strings.TrimSpace(env.AuthToken) == "" {
		t.Fatalf("access token is empty: body=%s", string(body))
	}

	return env.AuthToken
}
