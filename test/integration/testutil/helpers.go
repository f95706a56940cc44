//go:build integration

package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/clubsure/platform/internal/domain"
	"github.com/google/uuid"
)

// ClubToken mints a JWT for a club principal owning the given profile.
func (env *TestEnv) ClubToken(userID, profileID uuid.UUID) string {
	env.t.Helper()
	token, err := env.JWTMgr.GenerateToken(domain.Principal{
		UserID:    userID,
		Role:      domain.RoleClub,
		ProfileID: &profileID,
	})
	if err != nil {
		env.t.Fatalf("ClubToken: %v", err)
	}
	return token
}

// UnboundClubToken mints a JWT for a club user who has not registered a
// profile yet.
func (env *TestEnv) UnboundClubToken(userID uuid.UUID) string {
	env.t.Helper()
	token, err := env.JWTMgr.GenerateToken(domain.Principal{UserID: userID, Role: domain.RoleClub})
	if err != nil {
		env.t.Fatalf("UnboundClubToken: %v", err)
	}
	return token
}

// AdminToken mints a JWT for an admin principal.
func (env *TestEnv) AdminToken(userID uuid.UUID) string {
	env.t.Helper()
	token, err := env.JWTMgr.GenerateToken(domain.Principal{UserID: userID, Role: domain.RoleAdmin})
	if err != nil {
		env.t.Fatalf("AdminToken: %v", err)
	}
	return token
}

// ParentToken mints a JWT for a parent principal.
func (env *TestEnv) ParentToken(userID uuid.UUID) string {
	env.t.Helper()
	token, err := env.JWTMgr.GenerateToken(domain.Principal{UserID: userID, Role: domain.RoleParent})
	if err != nil {
		env.t.Fatalf("ParentToken: %v", err)
	}
	return token
}

// RegisterClub creates a club via the API and returns its ID.
func (env *TestEnv) RegisterClub(token, name string) uuid.UUID {
	env.t.Helper()
	resp := env.POST("/clubs", map[string]string{"name": name}, token)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		env.t.Fatalf("RegisterClub: expected 201, got %d", resp.StatusCode)
	}

	var result struct {
		ID uuid.UUID `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		env.t.Fatalf("RegisterClub: decode: %v", err)
	}
	return result.ID
}

// UploadDocument posts a multipart upload and returns the raw response.
func (env *TestEnv) UploadDocument(token string, clubID uuid.UUID, docType, filename, contentType string, content []byte, expiryDate string) *http.Response {
	env.t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		env.t.Fatalf("UploadDocument: create part: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		env.t.Fatalf("UploadDocument: write content: %v", err)
	}

	mw.WriteField("type", docType)
	if expiryDate != "" {
		mw.WriteField("expiry_date", expiryDate)
	}
	mw.Close()

	req, err := http.NewRequest("POST", env.Server.URL+"/clubs/"+clubID.String()+"/documents", &buf)
	if err != nil {
		env.t.Fatalf("UploadDocument: new request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		env.t.Fatalf("UploadDocument: %v", err)
	}
	return resp
}

// MustUploadDocument uploads a valid PDF and returns the document ID.
func (env *TestEnv) MustUploadDocument(token string, clubID uuid.UUID, docType, expiryDate string) uuid.UUID {
	env.t.Helper()
	resp := env.UploadDocument(token, clubID, docType, docType+".pdf", "application/pdf", []byte("%PDF-1.4 test"), expiryDate)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		env.t.Fatalf("MustUploadDocument: expected 201, got %d: %s", resp.StatusCode, body)
	}

	var result struct {
		ID uuid.UUID `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		env.t.Fatalf("MustUploadDocument: decode: %v", err)
	}
	return result.ID
}

// Decide posts an admin decision on a document.
func (env *TestEnv) Decide(token string, docID uuid.UUID, outcome string) *http.Response {
	env.t.Helper()
	return env.POST("/admin/documents/"+docID.String()+"/decision", map[string]string{"outcome": outcome}, token)
}

// ClubStatus fetches a club and returns its verification status and tier.
func (env *TestEnv) ClubStatus(token string, clubID uuid.UUID) (status, tier string) {
	env.t.Helper()
	resp := env.AuthGET("/clubs/"+clubID.String(), token)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		env.t.Fatalf("ClubStatus: expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		VerificationStatus string `json:"verification_status"`
		SafeguardingTier   string `json:"safeguarding_tier"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		env.t.Fatalf("ClubStatus: decode: %v", err)
	}
	return result.VerificationStatus, result.SafeguardingTier
}

// GET performs an unauthenticated GET request.
func (env *TestEnv) GET(path string) *http.Response {
	env.t.Helper()
	resp, err := http.Get(env.Server.URL + path)
	if err != nil {
		env.t.Fatalf("GET %s: %v", path, err)
	}
	return resp
}

// POST performs a POST request with optional auth token.
func (env *TestEnv) POST(path string, body interface{}, token string) *http.Response {
	env.t.Helper()
	return env.request("POST", path, body, token)
}

// AuthGET performs an authenticated GET request.
func (env *TestEnv) AuthGET(path, token string) *http.Response {
	env.t.Helper()
	req, err := http.NewRequest("GET", env.Server.URL+path, nil)
	if err != nil {
		env.t.Fatalf("AuthGET %s: new request: %v", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		env.t.Fatalf("AuthGET %s: %v", path, err)
	}
	return resp
}

// AuthPUT performs an authenticated PUT request.
func (env *TestEnv) AuthPUT(path string, body interface{}, token string) *http.Response {
	env.t.Helper()
	return env.request("PUT", path, body, token)
}

// AuthDELETE performs an authenticated DELETE request.
func (env *TestEnv) AuthDELETE(path, token string) *http.Response {
	env.t.Helper()
	req, err := http.NewRequest("DELETE", env.Server.URL+path, nil)
	if err != nil {
		env.t.Fatalf("DELETE %s: new request: %v", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		env.t.Fatalf("DELETE %s: %v", path, err)
	}
	return resp
}

func (env *TestEnv) request(method, path string, body interface{}, token string) *http.Response {
	env.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			env.t.Fatalf("%s %s: encode: %v", method, path, err)
		}
	}
	req, err := http.NewRequest(method, env.Server.URL+path, &buf)
	if err != nil {
		env.t.Fatalf("%s %s: new request: %v", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		env.t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}
