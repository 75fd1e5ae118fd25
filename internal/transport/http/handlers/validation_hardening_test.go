package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"staffready/internal/app/server"
)

func TestWriteEndpointsRejectBadPayloads(t *testing.T) {
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

	cases := []struct {
		name string
		url  string
		body map[string]any
	}{
		{
			name: "catalog item with unknown category",
			url:  "/api/v1/catalog/items",
			body: map[string]any{
				"name":           "Mystery Item",
				"category":       "astrology",
				"expirationType": "Non-Expirable",
				"responseStyle":  "upload",
			},
		},
		{
			name: "catalog item with rule expiration but no rule fields",
			url:  "/api/v1/catalog/items",
			body: map[string]any{
				"name":           "Half Specified",
				"category":       "Certifications",
				"expirationType": "Expiration Rule",
				"responseStyle":  "upload",
			},
		},
		{
			name: "document expiring before issue",
			url:  "/api/v1/candidates/" + candidateID + "/documents",
			body: map[string]any{
				"name":      "backwards.pdf",
				"type":      "RN License",
				"issuedOn":  "2026-05-01",
				"expiresOn": "2025-05-01",
			},
		},
		{
			name: "candidate without name",
			url:  "/api/v1/candidates",
			body: map[string]any{"email": "incomplete@example.com"},
		},
		{
			name: "job without occupation",
			url:  "/api/v1/jobs",
			body: map[string]any{"title": "Untethered Role", "facility": "Clinic"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := postJSONStatus(t, client, ts.URL+tc.url, token, tc.body, http.StatusBadRequest)
			raw, err := json.Marshal(env.Error)
			if err != nil {
				t.Fatalf("failed to re-encode error: %v", err)
			}
			var failure struct {
				Code string `json:"code"`
			}
			if err := json.Unmarshal(raw, &failure); err != nil {
				t.Fatalf("failed to decode error: %v", err)
			}
			if failure.Code != "validation_error" && failure.Code != "invalid_payload" {
				t.Fatalf("expected validation failure code, got %s", failure.Code)
			}
		})
	}
}

func TestUnknownTokenIsRejectedOnProtectedRoutes(t *testing.T) {
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

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/v1/candidates", nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad token, got %d", resp.StatusCode)
	}
}
