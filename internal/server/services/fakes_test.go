package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmitrijs2005/skillswap/internal/common"
	"github.com/dmitrijs2005/skillswap/internal/dbx"
	"github.com/dmitrijs2005/skillswap/internal/logging"
	"github.com/dmitrijs2005/skillswap/internal/server/config"
	"github.com/dmitrijs2005/skillswap/internal/server/models"
	"github.com/dmitrijs2005/skillswap/internal/server/repositories/reviews"
	"github.com/dmitrijs2005/skillswap/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/skillswap/internal/server/repositories/transactions"
	"github.com/dmitrijs2005/skillswap/internal/server/repositories/users"
)

// --- logger ---

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}

func (l nopLogger) With(...any) logging.Logger { return l }

// --- publisher ---

type published struct {
	subject string
	event   any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, subject string, ev any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, published{subject: subject, event: ev})
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) subjects() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.subject)
	}
	return out
}

// --- in-memory store behind the repository interfaces ---

type store struct {
	mu       sync.Mutex
	users    map[string]*models.User
	sessions map[string]*models.Session
	txs      []*models.Transaction
	reviews  map[string]*models.Review
	seq      int
}

func newStore() *store {
	s := &store{
		users:    map[string]*models.User{},
		sessions: map[string]*models.Session{},
		reviews:  map[string]*models.Review{},
	}
	s.users[models.TreasuryID] = &models.User{ID: models.TreasuryID, DisplayName: "treasury", IsSystem: true}
	return s
}

func (s *store) addUser(id string, balance int64, offered ...models.Skill) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &models.User{ID: id, DisplayName: id, CoinBalance: balance, SkillsOffered: offered}
	s.users[id] = u
	return u
}

func (s *store) user(id string) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.users[id]
}

func (s *store) session(id string) models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.sessions[id]
}

func (s *store) transactions() []*models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*models.Transaction(nil), s.txs...)
}

func (s *store) totalCoins() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum int64
	for _, u := range s.users {
		sum += u.CoinBalance
	}
	return sum
}

// tick returns strictly increasing timestamps so ordering is deterministic.
func (s *store) tick() time.Time {
	s.seq++
	return time.Date(2026, 1, 1, 0, 0, s.seq, 0, time.UTC)
}

type fakeUsers struct{ s *store }

func (r fakeUsers) Get(_ context.Context, id string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *u
	return &c, nil
}

func (r fakeUsers) Upsert(_ context.Context, snap *models.UserSnapshot, offered, wanted []models.Skill) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[snap.ID]
	if ok && u.IsSystem {
		return false, common.ErrForbidden
	}
	if !ok {
		u = &models.User{ID: snap.ID}
		r.s.users[snap.ID] = u
	}
	u.DisplayName = snap.DisplayName
	u.SkillsOffered = offered
	u.SkillsWanted = wanted
	u.Blocked = snap.Blocked
	return !ok, nil
}

func (r fakeUsers) LockPair(_ context.Context, a, b string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var ids []string
	for _, id := range []string{a, b} {
		if _, ok := r.s.users[id]; ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r fakeUsers) Debit(_ context.Context, id string, amount int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok || (u.CoinBalance < amount && !u.IsSystem) {
		return false, nil
	}
	u.CoinBalance -= amount
	return true, nil
}

func (r fakeUsers) Credit(_ context.Context, id string, amount int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.CoinBalance += amount
	return nil
}

func (r fakeUsers) IncrementTotalSessions(_ context.Context, mentorID, learnerID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range []string{mentorID, learnerID} {
		if u, ok := r.s.users[id]; ok {
			u.TotalSessions++
		}
	}
	return nil
}

func (r fakeUsers) FoldRating(_ context.Context, mentorID string, rating int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[mentorID]
	if !ok {
		return common.ErrorNotFound
	}
	u.Rating = (u.Rating*float64(u.ReviewCount) + float64(rating)) / float64(u.ReviewCount+1)
	u.ReviewCount++
	return nil
}

type fakeSessions struct{ s *store }

func (r fakeSessions) Create(_ context.Context, sess *models.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sess.CreatedAt = r.s.tick()
	c := *sess
	r.s.sessions[sess.ID] = &c
	return nil
}

func (r fakeSessions) Get(_ context.Context, id string) (*models.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sess, ok := r.s.sessions[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *sess
	return &c, nil
}

func (r fakeSessions) GetForUpdate(ctx context.Context, id string) (*models.Session, error) {
	return r.Get(ctx, id)
}

func (r fakeSessions) SaveConfirmation(_ context.Context, sess *models.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.sessions[sess.ID]
	if !ok || cur.Status != models.SessionPending {
		return common.ErrConflict
	}
	cur.MentorConfirmed = sess.MentorConfirmed
	cur.LearnerConfirmed = sess.LearnerConfirmed
	cur.Status = sess.Status
	cur.CompletedAt = sess.CompletedAt
	return nil
}

func (r fakeSessions) MarkCancelled(_ context.Context, id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.sessions[id]
	if !ok || cur.Status != models.SessionPending {
		return common.ErrConflict
	}
	cur.Status = models.SessionCancelled
	cur.CancelledAt = &at
	return nil
}

func (r fakeSessions) List(_ context.Context, f models.SessionFilter) ([]*models.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Session
	for _, sess := range r.s.sessions {
		switch f.Role {
		case models.RoleMentor:
			if sess.MentorID != f.UserID {
				continue
			}
		case models.RoleLearner:
			if sess.LearnerID != f.UserID {
				continue
			}
		default:
			if sess.Role(f.UserID) == models.RoleAny {
				continue
			}
		}
		if f.Status != "" && sess.Status != f.Status {
			continue
		}
		c := *sess
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

type fakeTransactions struct{ s *store }

func (r fakeTransactions) Create(_ context.Context, t *models.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t.CreatedAt = r.s.tick()
	c := *t
	r.s.txs = append(r.s.txs, &c)
	return nil
}

func (r fakeTransactions) ListByUser(_ context.Context, userID string, limit int) ([]*models.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Transaction
	for i := len(r.s.txs) - 1; i >= 0; i-- {
		t := r.s.txs[i]
		if t.FromUserID == userID || t.ToUserID == userID {
			c := *t
			out = append(out, &c)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r fakeTransactions) Totals(_ context.Context, userID string) (int64, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var earned, spent int64
	for _, t := range r.s.txs {
		if t.ToUserID == userID {
			earned += t.Amount
		}
		if t.FromUserID == userID {
			spent += t.Amount
		}
	}
	return earned, spent, nil
}

type fakeReviews struct{ s *store }

func (r fakeReviews) Create(_ context.Context, rv *models.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.reviews[rv.SessionID]; ok {
		return common.ErrDuplicateReview
	}
	rv.CreatedAt = r.s.tick()
	c := *rv
	r.s.reviews[rv.SessionID] = &c
	return nil
}

func (r fakeReviews) ListByMentor(_ context.Context, mentorID string, limit int) ([]*models.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Review
	for _, rv := range r.s.reviews {
		if rv.MentorID == mentorID {
			c := *rv
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeRepoManager struct{ s *store }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error  { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository               { return fakeUsers{m.s} }
func (m *fakeRepoManager) Sessions(dbx.DBTX) sessions.Repository         { return fakeSessions{m.s} }
func (m *fakeRepoManager) Transactions(dbx.DBTX) transactions.Repository { return fakeTransactions{m.s} }
func (m *fakeRepoManager) Reviews(dbx.DBTX) reviews.Repository           { return fakeReviews{m.s} }

// --- fixture ---

type fixture struct {
	db        *sql.DB
	mock      sqlmock.Sqlmock
	store     *store
	publisher *recordingPublisher
	cfg       *config.Config
	ledger    *LedgerService
	sessions  *SessionService
	reviews   *ReviewService
	directory *DirectoryService
	wallet    *WalletService
}

func newFixture(t *testing.T, opts ...func(*config.Config)) *fixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{}
	cfg.LoadDefaults()
	for _, o := range opts {
		o(cfg)
	}

	st := newStore()
	rm := &fakeRepoManager{s: st}
	pub := &recordingPublisher{}
	ledger := NewLedgerService(db, rm, nopLogger{})

	return &fixture{
		db:        db,
		mock:      mock,
		store:     st,
		publisher: pub,
		cfg:       cfg,
		ledger:    ledger,
		sessions:  NewSessionService(db, rm, ledger, pub, nopLogger{}, cfg),
		reviews:   NewReviewService(db, rm, pub, nopLogger{}),
		directory: NewDirectoryService(db, rm, ledger, nopLogger{}, cfg),
		wallet:    NewWalletService(db, rm, nopLogger{}, cfg),
	}
}

func (f *fixture) expectCommit() {
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
}

func (f *fixture) expectRollback() {
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
}

func (f *fixture) verify(t *testing.T) {
	t.Helper()
	if err := f.mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}
