package lifecycle

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/clubsure/platform/internal/domain"
	"github.com/clubsure/platform/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeDB satisfies repository.DB. Repositories in these tests keep their
// own state and ignore the db handle, so the tx is inert.
type fakeDB struct{}

func (fakeDB) Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (fakeDB) Query(context.Context, string, ...interface{}) (pgx.Rows, error) { return nil, nil }
func (fakeDB) QueryRow(context.Context, string, ...interface{}) pgx.Row        { return nil }
func (fakeDB) Begin(context.Context) (pgx.Tx, error)                           { return fakeTx{}, nil }

type fakeTx struct{ pgx.Tx }

func (fakeTx) Commit(context.Context) error   { return nil }
func (fakeTx) Rollback(context.Context) error { return nil }

// fakeDocumentRepo is an in-memory DocumentRepository with the same
// conditional-update semantics as the SQL implementation.
type fakeDocumentRepo struct {
	mu        sync.Mutex
	docs      map[uuid.UUID]*domain.Document
	createErr error
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{docs: map[uuid.UUID]*domain.Document{}}
}

func (r *fakeDocumentRepo) put(doc domain.Document) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := doc
	r.docs[d.ID] = &d
}

func (r *fakeDocumentRepo) Create(_ context.Context, _ repository.DBTX, doc *domain.Document) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.put(*doc)
	return nil
}

func (r *fakeDocumentRepo) FindByID(_ context.Context, _ repository.DBTX, id uuid.UUID) (*domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.docs[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeDocumentRepo) ListByClub(_ context.Context, _ repository.DBTX, clubID uuid.UUID) ([]domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Document
	for _, d := range r.docs {
		if d.ClubID == clubID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *fakeDocumentRepo) ApplyDecision(_ context.Context, _ repository.DBTX, id uuid.UUID, decision domain.ReviewDecision) (*domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[id]
	if !ok || d.Status != domain.DocumentPending {
		return nil, nil
	}
	d.Status = decision.Outcome
	d.ReviewerID = &decision.ReviewerID
	d.AdminNotes = decision.Notes
	d.ReviewedAt = &decision.ReviewedAt
	d.UpdatedAt = decision.ReviewedAt
	cp := *d
	return &cp, nil
}

func (r *fakeDocumentRepo) MarkExpired(_ context.Context, _ repository.DBTX, id uuid.UUID, asOf time.Time) (*domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[id]
	if !ok || d.Status != domain.DocumentApproved || d.ExpiryDate == nil || d.ExpiryDate.After(asOf) {
		return nil, nil
	}
	d.Status = domain.DocumentExpired
	d.UpdatedAt = asOf
	cp := *d
	return &cp, nil
}

func (r *fakeDocumentRepo) Delete(_ context.Context, _ repository.DBTX, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.docs, id)
	return nil
}

func (r *fakeDocumentRepo) ListExpiringWithin(_ context.Context, _ repository.DBTX, asOf, until time.Time) ([]domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Document
	for _, d := range r.docs {
		if d.Status == domain.DocumentApproved && d.ExpiryDate != nil && d.ExpiryDate.After(asOf) && !d.ExpiryDate.After(until) {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *fakeDocumentRepo) ListExpired(_ context.Context, _ repository.DBTX, asOf time.Time) ([]domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Document
	for _, d := range r.docs {
		if d.Status == domain.DocumentApproved && d.ExpiryDate != nil && !d.ExpiryDate.After(asOf) {
			out = append(out, *d)
		}
	}
	return out, nil
}

// fakeClubRepo is an in-memory ClubRepository.
type fakeClubRepo struct {
	mu    sync.Mutex
	clubs map[uuid.UUID]*domain.ClubProfile
}

func newFakeClubRepo() *fakeClubRepo {
	return &fakeClubRepo{clubs: map[uuid.UUID]*domain.ClubProfile{}}
}

func (r *fakeClubRepo) put(club domain.ClubProfile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := club
	r.clubs[c.ID] = &c
}

func (r *fakeClubRepo) get(id uuid.UUID) domain.ClubProfile {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.clubs[id]
}

func (r *fakeClubRepo) Create(_ context.Context, _ repository.DBTX, club *domain.ClubProfile) error {
	r.put(*club)
	return nil
}

func (r *fakeClubRepo) FindByID(_ context.Context, _ repository.DBTX, id uuid.UUID) (*domain.ClubProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.clubs[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeClubRepo) LockForUpdate(_ context.Context, _ pgx.Tx, id uuid.UUID) (*domain.ClubProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.clubs[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeClubRepo) UpdateVerification(_ context.Context, _ repository.DBTX, club *domain.ClubProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.clubs[club.ID]
	if !ok {
		return errors.New("club not found")
	}
	stored.VerificationStatus = club.VerificationStatus
	stored.SafeguardingTier = club.SafeguardingTier
	stored.TierExpiryDate = club.TierExpiryDate
	return nil
}

func (r *fakeClubRepo) TouchLastActive(_ context.Context, _ repository.DBTX, id uuid.UUID) error {
	return nil
}

// spyStorage records calls so tests can assert that validation failures
// never reach the backend.
type spyStorage struct {
	mu         sync.Mutex
	putCalls   int
	deleted    []string
	putErr     error
	lastHandle string
}

func (s *spyStorage) Put(_ context.Context, r io.Reader, contentType, suggestedName string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putCalls++
	if s.putErr != nil {
		return "", s.putErr
	}
	io.Copy(io.Discard, r)
	s.lastHandle = "docs/test/" + uuid.NewString()
	return s.lastHandle, nil
}

func (s *spyStorage) SignedURL(_ context.Context, handle string, _ time.Duration) (string, error) {
	return "/files/" + handle, nil
}

func (s *spyStorage) Delete(_ context.Context, handle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, handle)
	return nil
}

// recordingNotifier captures notification requests.
type recordingNotifier struct {
	mu    sync.Mutex
	kinds []domain.NotificationKind
}

func (n *recordingNotifier) Notify(_ context.Context, _ uuid.UUID, kind domain.NotificationKind, _ any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.kinds = append(n.kinds, kind)
	return nil
}
