package handlers_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"testing"

	"staffready/internal/app/server"
	"staffready/internal/domain/documents"
)

// A row inserted without an explicit status must land on the same value the
// ledger uses for fresh uploads, so schema-level inserts and API uploads
// stay in one vocabulary.
func TestDocumentStatusColumnDefault(t *testing.T) {
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

	var docID string
	if err := app.DB.QueryRow(context.Background(), `
    INSERT INTO candidate_documents (candidate_id, name, type)
    VALUES ($1, 'RN License', 'RN License')
    RETURNING id
  `, candidateID).Scan(&docID); err != nil {
		t.Fatalf("failed to insert document: %v", err)
	}

	resp := getJSON(t, client, ts.URL+"/api/v1/candidates/"+candidateID+"/documents/"+docID, token)
	var doc struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(resp.Data, &doc); err != nil {
		t.Fatalf("failed to decode document: %v", err)
	}
	if doc.Status != documents.StatusPendingVerification {
		t.Fatalf("expected default status %q, got %q", documents.StatusPendingVerification, doc.Status)
	}
}
