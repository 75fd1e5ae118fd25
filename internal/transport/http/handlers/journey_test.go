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

	"staffready/internal/app/server"
	"staffready/internal/domain/auth"
	"staffready/internal/platform/config"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error any             `json:"error"`
}

func testConfig(t *testing.T, dbURL string) config.Config {
	t.Helper()
	return config.Config{
		DatabaseURL:        dbURL,
		JWTSecret:          "test-secret",
		DataEncryptionKey:  "0123456789abcdef0123456789abcdef",
		Environment:        "test",
		SeedAdminEmail:     "admin@test.local",
		SeedAdminPassword:  "ChangeMe123!",
		SeedCatalog:        true,
		RunMigrations:      true,
		RunSeed:            true,
		MaxBodyBytes:       1048576,
		RateLimitPerMinute: 1000,
		TokenTTL:           time.Hour,
		ExpirySweepEvery:   time.Hour,
		ReportsDir:         t.TempDir(),
	}
}

func TestCandidateReadinessAndApplyJourney(t *testing.T) {
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
	token := login(t, client, ts.URL, cfg.SeedAdminEmail, cfg.SeedAdminPassword)

	candidateID := createCandidate(t, client, ts.URL, token)

	// The starter catalog resolves RN+ICU to the RN Core template plus the
	// ICU overlay: RN License, BLS, Background Check, ACLS.
	required := getWalletRequired(t, client, ts.URL, token, candidateID)
	for _, want := range []string{"RN License", "BLS", "Background Check", "ACLS"} {
		if !containsString(required, want) {
			t.Fatalf("expected %s in required items, got %v", want, required)
		}
	}
	baseline := len(required)

	// A globally-displayed item joins every wallet regardless of templates.
	globalItem := fmt.Sprintf("TB Test %d", time.Now().UnixNano())
	createGlobalItem(t, client, ts.URL, token, globalItem)
	required = getWalletRequired(t, client, ts.URL, token, candidateID)
	if len(required) != baseline+1 || !containsString(required, globalItem) {
		t.Fatalf("expected %s added to required items, got %v", globalItem, required)
	}

	verdict := getReadiness(t, client, ts.URL, token, candidateID)
	if verdict["status"] != "Not Ready" {
		t.Fatalf("expected Not Ready before uploads, got %v", verdict["status"])
	}

	docIDs := make([]string, 0, len(required))
	for _, item := range required {
		docIDs = append(docIDs, uploadDocument(t, client, ts.URL, token, candidateID, item))
	}

	// Pending verification satisfies neither coverage nor compliance.
	verdict = getReadiness(t, client, ts.URL, token, candidateID)
	if verdict["status"] != "Not Ready" {
		t.Fatalf("expected Not Ready while pending verification, got %v", verdict["status"])
	}

	for _, docID := range docIDs {
		verifyDocument(t, client, ts.URL, token, candidateID, docID)
	}

	verdict = getReadiness(t, client, ts.URL, token, candidateID)
	if verdict["status"] != "Ready" {
		t.Fatalf("expected Ready after verification, got %v", verdict["status"])
	}
	if score, _ := verdict["score"].(float64); int(score) != 100 {
		t.Fatalf("expected score 100, got %v", verdict["score"])
	}

	jobID := createJob(t, client, ts.URL, token)
	application := applyToJob(t, client, ts.URL, token, jobID, candidateID, "")
	if application["applicationId"] == "" {
		t.Fatal("expected application id")
	}

	apps := listApplications(t, client, ts.URL, token, candidateID)
	if len(apps) != 1 {
		t.Fatalf("expected 1 application, got %d", len(apps))
	}

	generateReadinessReport(t, client, ts.URL, token, candidateID)
	downloadReadinessReport(t, client, ts.URL, token, candidateID)

	runExpirySweep(t, client, ts.URL, token)
}

func TestCandidateRoleCannotVerifyDocuments(t *testing.T) {
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
	var candidateRoleID string
	if err := app.DB.QueryRow(ctx, "SELECT id FROM roles WHERE name = $1", auth.RoleCandidate).Scan(&candidateRoleID); err != nil {
		t.Fatalf("failed to load candidate role: %v", err)
	}

	email := fmt.Sprintf("candidate-%d@example.com", time.Now().UnixNano())
	password := "Candidate123!"
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	var userID string
	if err := app.DB.QueryRow(ctx, `
    INSERT INTO users (email, password_hash, role_id)
    VALUES ($1,$2,$3)
    RETURNING id
  `, email, hash, candidateRoleID).Scan(&userID); err != nil {
		t.Fatalf("failed to create candidate user: %v", err)
	}

	ts := httptest.NewServer(app.Router)
	defer ts.Close()

	client := ts.Client()
	adminToken := login(t, client, ts.URL, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
	candidateID := createCandidate(t, client, ts.URL, adminToken)
	docID := uploadDocument(t, client, ts.URL, adminToken, candidateID, "RN License")

	candidateToken := login(t, client, ts.URL, email, password)
	postJSONStatus(t, client, ts.URL+"/api/v1/candidates/"+candidateID+"/documents/"+docID+"/verify", candidateToken, nil, http.StatusForbidden)
}

func login(t *testing.T, client *http.Client, baseURL, email, password string) string {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/auth/login", "", map[string]any{
		"email":    email,
		"password": password,
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

func createCandidate(t *testing.T, client *http.Client, baseURL, token string) string {
	t.Helper()
	email := fmt.Sprintf("journey-%d@example.com", time.Now().UnixNano())
	resp := postJSON(t, client, baseURL+"/api/v1/candidates", token, map[string]any{
		"firstName":          "Journey",
		"lastName":           "Tester",
		"email":              email,
		"phone":              "555-0100",
		"occupationCode":     "RN",
		"specialtyCodes":     []string{"ICU"},
		"skillsSummary":      "Critical care, 5 years",
		"shiftPreference":    "nights",
		"locationPreference": "TX",
	})
	var payload map[string]any
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode candidate response: %v", err)
	}
	id, _ := payload["id"].(string)
	if id == "" {
		t.Fatal("expected candidate id")
	}
	return id
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

func createGlobalItem(t *testing.T, client *http.Client, baseURL, token, name string) {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/catalog/items", token, map[string]any{
		"name":               name,
		"category":           "Employee Health",
		"expirationType":     "Non-Expirable",
		"responseStyle":      "upload",
		"displayToCandidate": true,
	})
	var payload map[string]any
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode item response: %v", err)
	}
	if payload["id"] == "" {
		t.Fatal("expected item id")
	}
}

func getWalletRequired(t *testing.T, client *http.Client, baseURL, token, candidateID string) []string {
	t.Helper()
	resp := getJSON(t, client, baseURL+"/api/v1/candidates/"+candidateID+"/wallet", token)
	var payload struct {
		Required []string `json:"required"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode wallet response: %v", err)
	}
	return payload.Required
}

func getReadiness(t *testing.T, client *http.Client, baseURL, token, candidateID string) map[string]any {
	t.Helper()
	resp := getJSON(t, client, baseURL+"/api/v1/candidates/"+candidateID+"/readiness", token)
	var payload map[string]any
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode readiness response: %v", err)
	}
	return payload
}

func uploadDocument(t *testing.T, client *http.Client, baseURL, token, candidateID, itemName string) string {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/candidates/"+candidateID+"/documents", token, map[string]any{
		"name":      itemName + ".pdf",
		"type":      itemName,
		"issuer":    "State Board",
		"issuedOn":  "2025-01-15",
		"expiresOn": "2027-01-15",
	})
	var payload map[string]any
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode upload response: %v", err)
	}
	id, _ := payload["id"].(string)
	if id == "" {
		t.Fatal("expected document id")
	}
	return id
}

func verifyDocument(t *testing.T, client *http.Client, baseURL, token, candidateID, documentID string) {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/candidates/"+candidateID+"/documents/"+documentID+"/verify", token, nil)
	var payload map[string]any
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode verify response: %v", err)
	}
	if payload["status"] != "completed" {
		t.Fatalf("expected completed status, got %v", payload["status"])
	}
}

func createJob(t *testing.T, client *http.Client, baseURL, token string) string {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/jobs", token, map[string]any{
		"title":          "ICU Night Shift RN",
		"occupationCode": "RN",
		"specialtyCode":  "ICU",
		"facility":       "General Hospital",
		"location":       "Austin, TX",
		"payRate":        62.5,
		"status":         "open",
	})
	var payload map[string]any
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode job response: %v", err)
	}
	id, _ := payload["id"].(string)
	if id == "" {
		t.Fatal("expected job id")
	}
	return id
}

func applyToJob(t *testing.T, client *http.Client, baseURL, token, jobID, candidateID, idempotencyKey string) map[string]any {
	t.Helper()
	raw, err := json.Marshal(map[string]any{"candidateId": candidateID})
	if err != nil {
		t.Fatalf("failed to marshal apply body: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, baseURL+"/api/v1/jobs/"+jobID+"/apply", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("failed to create apply request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("apply request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read apply response: %v", err)
	}
	if resp.StatusCode >= 400 {
		t.Fatalf("unexpected apply status %d: %s", resp.StatusCode, string(body))
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("failed to decode apply response: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatalf("failed to decode apply data: %v", err)
	}
	return payload
}

func listApplications(t *testing.T, client *http.Client, baseURL, token, candidateID string) []map[string]any {
	t.Helper()
	resp := getJSON(t, client, baseURL+"/api/v1/applications?candidateId="+candidateID, token)
	var payload []map[string]any
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode applications response: %v", err)
	}
	return payload
}

func generateReadinessReport(t *testing.T, client *http.Client, baseURL, token, candidateID string) {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/candidates/"+candidateID+"/readiness-report", token, nil)
	var payload map[string]any
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode report response: %v", err)
	}
	if payload["candidateId"] != candidateID {
		t.Fatalf("expected report for %s, got %v", candidateID, payload["candidateId"])
	}
}

func downloadReadinessReport(t *testing.T, client *http.Client, baseURL, token, candidateID string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, baseURL+"/api/v1/candidates/"+candidateID+"/readiness-report", nil)
	if err != nil {
		t.Fatalf("failed to create download request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("download request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 downloading report, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("expected application/pdf, got %s", ct)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read report body: %v", err)
	}
	if len(raw) == 0 {
		t.Fatal("expected non-empty report")
	}
}

func runExpirySweep(t *testing.T, client *http.Client, baseURL, token string) {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/admin/jobs/run", token, nil)
	var payload map[string]any
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode sweep response: %v", err)
	}
}

func postJSON(t *testing.T, client *http.Client, url, token string, body any) envelope {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewBuffer(raw)
	}
	req, err := http.NewRequest(http.MethodPost, url, reader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.StatusCode >= 400 {
		t.Fatalf("unexpected status %d: %s", resp.StatusCode, string(raw))
	}
	return env
}

func getJSON(t *testing.T, client *http.Client, url, token string) envelope {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.StatusCode >= 400 {
		t.Fatalf("unexpected status %d: %s", resp.StatusCode, string(raw))
	}
	return env
}

func postJSONStatus(t *testing.T, client *http.Client, url, token string, body any, want int) envelope {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewBuffer(raw)
	}
	req, err := http.NewRequest(http.MethodPost, url, reader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	if resp.StatusCode != want {
		t.Fatalf("expected status %d, got %d: %s", want, resp.StatusCode, string(raw))
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return env
}
