package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"

	"staffready/internal/app/server"
	"staffready/internal/domain/auth"
)

func TestMFASetupEnableLoginDisable(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := testConfig(t, dbURL)
	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	defer app.Close()

	ctx := context.Background()
	var roleID string
	if err := app.DB.QueryRow(ctx, "SELECT id FROM roles WHERE name = $1", auth.RoleCandidate).Scan(&roleID); err != nil {
		t.Fatalf("failed to load candidate role: %v", err)
	}

	email := fmt.Sprintf("mfa-%d@example.com", time.Now().UnixNano())
	password := "MfaUser123!"
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if _, err := app.DB.Exec(ctx, `
    INSERT INTO users (email, password_hash, role_id)
    VALUES ($1,$2,$3)
  `, email, hash, roleID); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	ts := httptest.NewServer(app.Router)
	defer ts.Close()

	client := ts.Client()
	token := login(t, client, ts.URL, email, password)

	setup := postJSON(t, client, ts.URL+"/api/v1/auth/mfa/setup", token, nil)
	var setupData struct {
		Secret     string `json:"secret"`
		OtpauthURL string `json:"otpauthUrl"`
	}
	if err := json.Unmarshal(setup.Data, &setupData); err != nil {
		t.Fatalf("failed to decode setup response: %v", err)
	}
	if setupData.Secret == "" || setupData.OtpauthURL == "" {
		t.Fatalf("expected secret and otpauth url, got %+v", setupData)
	}

	// The secret is dormant until a code confirms it, so a plain login
	// still works.
	login(t, client, ts.URL, email, password)

	code, err := totp.GenerateCode(setupData.Secret, time.Now())
	if err != nil {
		t.Fatalf("failed to generate code: %v", err)
	}
	postJSON(t, client, ts.URL+"/api/v1/auth/mfa/enable", token, map[string]string{"code": code})

	if got := loginFailureCode(t, client, ts.URL, email, password, ""); got != "mfa_required" {
		t.Fatalf("expected mfa_required code, got %s", got)
	}
	if got := loginFailureCode(t, client, ts.URL, email, password, "000000"); got != "mfa_invalid" {
		t.Fatalf("expected mfa_invalid code, got %s", got)
	}

	code, err = totp.GenerateCode(setupData.Secret, time.Now())
	if err != nil {
		t.Fatalf("failed to generate code: %v", err)
	}
	mfaToken := loginWithCode(t, client, ts.URL, email, password, code)

	code, err = totp.GenerateCode(setupData.Secret, time.Now())
	if err != nil {
		t.Fatalf("failed to generate code: %v", err)
	}
	postJSON(t, client, ts.URL+"/api/v1/auth/mfa/disable", mfaToken, map[string]string{"code": code})

	login(t, client, ts.URL, email, password)
}

func TestMFAEndpointsRequireAuthentication(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := testConfig(t, dbURL)
	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	defer app.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()

	client := ts.Client()
	postJSONStatus(t, client, ts.URL+"/api/v1/auth/mfa/setup", "", nil, http.StatusUnauthorized)
	postJSONStatus(t, client, ts.URL+"/api/v1/auth/mfa/enable", "", map[string]string{"code": "000000"}, http.StatusUnauthorized)
}

func loginWithCode(t *testing.T, client *http.Client, baseURL, email, password, code string) string {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/auth/login", "", map[string]any{
		"email":    email,
		"password": password,
		"mfaCode":  code,
	})
	var payload map[string]any
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	token, _ := payload["token"].(string)
	if token == "" {
		t.Fatal("expected token")
	}
	return token
}

func loginFailureCode(t *testing.T, client *http.Client, baseURL, email, password, code string) string {
	t.Helper()
	body := map[string]any{"email": email, "password": password}
	if code != "" {
		body["mfaCode"] = code
	}
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}
	resp, err := client.Post(baseURL+"/api/v1/auth/login", "application/json", bytes.NewBuffer(raw))
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d: %s", resp.StatusCode, string(data))
	}
	var failure struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &failure); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return failure.Error.Code
}
