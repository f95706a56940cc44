//go:build integration

package testutil

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
)

// DecodeJSON reads and decodes a JSON response body into dst.
func DecodeJSON(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
}

// AssertStatus checks that the response has the expected HTTP status code.
func AssertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Errorf("expected status %d, got %d", expected, resp.StatusCode)
	}
}

// AssertErrorCode checks that the response body contains the expected error code.
func AssertErrorCode(t *testing.T, resp *http.Response, expectedCode string) {
	t.Helper()
	var errResp struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	DecodeJSON(t, resp, &errResp)
	if errResp.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, errResp.Code, errResp.Message)
	}
}

// AssertDocumentStatus queries the documents table and asserts the status.
func AssertDocumentStatus(t *testing.T, env *TestEnv, docID uuid.UUID, expected string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var status string
	err := env.Pool.QueryRow(ctx,
		"SELECT status FROM documents WHERE id = $1", docID).Scan(&status)
	if err != nil {
		t.Fatalf("AssertDocumentStatus: query: %v", err)
	}
	if status != expected {
		t.Errorf("document status: expected %q, got %q", expected, status)
	}
}

// CountDocuments returns the number of documents for a club.
func CountDocuments(t *testing.T, env *TestEnv, clubID uuid.UUID) int {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var count int
	err := env.Pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM documents WHERE club_id = $1", clubID).Scan(&count)
	if err != nil {
		t.Fatalf("CountDocuments: %v", err)
	}
	return count
}

// CountReminders returns the number of reminder rows for a document.
func CountReminders(t *testing.T, env *TestEnv, docID uuid.UUID) int {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var count int
	err := env.Pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM document_reminders WHERE document_id = $1", docID).Scan(&count)
	if err != nil {
		t.Fatalf("CountReminders: %v", err)
	}
	return count
}
