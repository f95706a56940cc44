//go:build integration

package integration

import (
	"net/http"
	"testing"
	"time"

	"github.com/clubsure/platform/test/integration/testutil"
	"github.com/google/uuid"
)

func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format("2006-01-02")
}

func TestDocumentLifecycle(t *testing.T) {
	env := testutil.NewTestEnv(t)

	ownerID := uuid.New()
	clubID := env.RegisterClub(env.UnboundClubToken(ownerID), "Riverside Juniors FC")
	clubToken := env.ClubToken(ownerID, clubID)
	adminToken := env.AdminToken(uuid.New())

	status, tier := env.ClubStatus(clubToken, clubID)
	if status != "pending" || tier != "standard" {
		t.Fatalf("new club should be pending/standard, got %s/%s", status, tier)
	}

	// One approved document is not enough for the standard set.
	docID := env.MustUploadDocument(clubToken, clubID, "insurance", futureDate(365))
	testutil.AssertDocumentStatus(t, env, docID, "pending")

	resp := env.Decide(adminToken, docID, "approved")
	testutil.AssertStatus(t, resp, http.StatusOK)
	resp.Body.Close()
	testutil.AssertDocumentStatus(t, env, docID, "approved")

	status, _ = env.ClubStatus(clubToken, clubID)
	if status != "in_review" {
		t.Fatalf("club with partial approved set should be in_review, got %s", status)
	}

	// Approving the rest of the mandatory set flips the club to approved.
	for _, docType := range []string{"safeguarding_policy", "dbs_certificate", "risk_assessment"} {
		id := env.MustUploadDocument(clubToken, clubID, docType, futureDate(365))
		resp := env.Decide(adminToken, id, "approved")
		testutil.AssertStatus(t, resp, http.StatusOK)
		resp.Body.Close()
	}

	status, _ = env.ClubStatus(clubToken, clubID)
	if status != "approved" {
		t.Fatalf("club with full approved set should be approved, got %s", status)
	}

	// Signed URL retrieval works for the owner.
	urlResp := env.AuthGET("/documents/"+docID.String()+"/url", clubToken)
	testutil.AssertStatus(t, urlResp, http.StatusOK)
	var urlBody struct {
		URL string `json:"url"`
	}
	testutil.DecodeJSON(t, urlResp, &urlBody)
	if urlBody.URL == "" {
		t.Fatal("expected a non-empty signed URL")
	}

	// Withdrawing a mandatory document drops the club back to in_review.
	delResp := env.AuthDELETE("/documents/"+docID.String(), clubToken)
	testutil.AssertStatus(t, delResp, http.StatusNoContent)
	delResp.Body.Close()

	status, _ = env.ClubStatus(clubToken, clubID)
	if status != "in_review" {
		t.Fatalf("club missing a mandatory document should be in_review, got %s", status)
	}
}

func TestUploadValidation(t *testing.T) {
	env := testutil.NewTestEnv(t)

	ownerID := uuid.New()
	clubID := env.RegisterClub(env.UnboundClubToken(ownerID), "Harbour Swim Club")
	clubToken := env.ClubToken(ownerID, clubID)

	// Double extension with a plausible declared MIME type.
	resp := env.UploadDocument(clubToken, clubID, "safeguarding_policy",
		"policy.pdf.exe", "application/pdf", []byte("MZ"), "")
	testutil.AssertStatus(t, resp, http.StatusBadRequest)
	testutil.AssertErrorCode(t, resp, "VALIDATION_ERROR")

	// Declared MIME type does not match the extension.
	resp = env.UploadDocument(clubToken, clubID, "insurance",
		"cert.pdf", "image/png", []byte("png"), "")
	testutil.AssertStatus(t, resp, http.StatusBadRequest)
	testutil.AssertErrorCode(t, resp, "VALIDATION_ERROR")

	// Unknown document type.
	resp = env.UploadDocument(clubToken, clubID, "tax_return",
		"tax.pdf", "application/pdf", []byte("%PDF"), "")
	testutil.AssertStatus(t, resp, http.StatusBadRequest)
	testutil.AssertErrorCode(t, resp, "VALIDATION_ERROR")

	// Expiry in the past.
	resp = env.UploadDocument(clubToken, clubID, "insurance",
		"insurance.pdf", "application/pdf", []byte("%PDF"),
		time.Now().AddDate(0, 0, -1).Format("2006-01-02"))
	testutil.AssertStatus(t, resp, http.StatusBadRequest)
	testutil.AssertErrorCode(t, resp, "VALIDATION_ERROR")

	if n := testutil.CountDocuments(t, env, clubID); n != 0 {
		t.Fatalf("rejected uploads must not create documents, found %d", n)
	}
}

func TestDecisionAccessControl(t *testing.T) {
	env := testutil.NewTestEnv(t)

	ownerID := uuid.New()
	clubID := env.RegisterClub(env.UnboundClubToken(ownerID), "Valley Gymnastics")
	clubToken := env.ClubToken(ownerID, clubID)
	adminToken := env.AdminToken(uuid.New())

	docID := env.MustUploadDocument(clubToken, clubID, "insurance", futureDate(180))

	// The owning club cannot approve its own document.
	resp := env.Decide(clubToken, docID, "approved")
	testutil.AssertStatus(t, resp, http.StatusForbidden)
	testutil.AssertErrorCode(t, resp, "ACCESS_DENIED")

	// Parents cannot decide either.
	resp = env.Decide(env.ParentToken(uuid.New()), docID, "approved")
	testutil.AssertStatus(t, resp, http.StatusForbidden)
	testutil.AssertErrorCode(t, resp, "ACCESS_DENIED")

	testutil.AssertDocumentStatus(t, env, docID, "pending")

	// A second decision on a decided document conflicts.
	resp = env.Decide(adminToken, docID, "rejected")
	testutil.AssertStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	resp = env.Decide(adminToken, docID, "approved")
	testutil.AssertStatus(t, resp, http.StatusConflict)
	testutil.AssertErrorCode(t, resp, "INVALID_TRANSITION")
}

func TestDocumentViewAccess(t *testing.T) {
	env := testutil.NewTestEnv(t)

	ownerID := uuid.New()
	clubID := env.RegisterClub(env.UnboundClubToken(ownerID), "Northside Tennis")
	clubToken := env.ClubToken(ownerID, clubID)

	docID := env.MustUploadDocument(clubToken, clubID, "insurance", futureDate(90))

	// Another club's principal cannot read the document.
	otherID := uuid.New()
	otherClub := env.RegisterClub(env.UnboundClubToken(otherID), "Southside Tennis")
	strangerToken := env.ClubToken(otherID, otherClub)

	resp := env.AuthGET("/documents/"+docID.String(), strangerToken)
	testutil.AssertStatus(t, resp, http.StatusForbidden)
	testutil.AssertErrorCode(t, resp, "ACCESS_DENIED")

	resp = env.AuthGET("/documents/"+uuid.NewString(), clubToken)
	testutil.AssertStatus(t, resp, http.StatusNotFound)
	testutil.AssertErrorCode(t, resp, "NOT_FOUND")
}
