package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/skillswap/internal/common"
	"github.com/dmitrijs2005/skillswap/internal/server/models"
)

const (
	learnerID = "11111111-1111-4111-8111-111111111111"
	mentorID  = "22222222-2222-4222-8222-222222222222"
	sessionID = "33333333-3333-4333-8333-333333333333"
)

var created = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

type fakeSessions struct {
	sess *models.Session
	list []*models.Session
	err  error

	gotCaller string
	gotMentor string
	gotOTP    string
	gotRole   string
	gotStatus string
	gotLimit  int
}

func (f *fakeSessions) BookSession(_ context.Context, learner, mentor, skill string) (*models.Session, error) {
	f.gotCaller, f.gotMentor = learner, mentor
	return f.sess, f.err
}

func (f *fakeSessions) ConfirmAttendance(_ context.Context, _, caller, otp string) (*models.Session, error) {
	f.gotCaller, f.gotOTP = caller, otp
	return f.sess, f.err
}

func (f *fakeSessions) CancelSession(_ context.Context, _, caller string) (*models.Session, error) {
	f.gotCaller = caller
	return f.sess, f.err
}

func (f *fakeSessions) GetSession(_ context.Context, _, caller string) (*models.Session, error) {
	f.gotCaller = caller
	return f.sess, f.err
}

func (f *fakeSessions) ListSessions(_ context.Context, caller, role, status string, limit int) ([]*models.Session, error) {
	f.gotCaller, f.gotRole, f.gotStatus, f.gotLimit = caller, role, status, limit
	return f.list, f.err
}

type fakeReviews struct {
	review *models.Review
	list   []*models.Review
	err    error

	gotComment string
}

func (f *fakeReviews) SubmitReview(_ context.Context, _, _ string, _ int, comment string) (*models.Review, error) {
	f.gotComment = comment
	return f.review, f.err
}

func (f *fakeReviews) ListReviews(context.Context, string, int) ([]*models.Review, error) {
	return f.list, f.err
}

type fakeDirectory struct {
	users   map[string]*models.User
	lookups int
	synced  *models.UserSnapshot
	err     error
}

func (f *fakeDirectory) GetUser(_ context.Context, id string) (*models.User, error) {
	f.lookups++
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeDirectory) SyncUser(_ context.Context, snap *models.UserSnapshot) (*models.User, error) {
	f.synced = snap
	if f.err != nil {
		return nil, f.err
	}
	return &models.User{ID: snap.ID, DisplayName: snap.DisplayName, SkillsOffered: []models.Skill{"go"}, CoinBalance: 100}, nil
}

type fakeWallets struct {
	wallet *models.Wallet
	key    string
	url    string
	err    error
}

func (f *fakeWallets) GetWallet(context.Context, string, int) (*models.Wallet, error) {
	return f.wallet, f.err
}

func (f *fakeWallets) ExportStatement(context.Context, string) (string, string, error) {
	return f.key, f.url, f.err
}

type fakeLedger struct {
	tx  *models.Transaction
	err error
}

func (f *fakeLedger) AdminAdjust(_ context.Context, userID string, delta int64, reason string) (*models.Transaction, error) {
	return f.tx, f.err
}

type testDeps struct {
	sessions  *fakeSessions
	reviews   *fakeReviews
	directory *fakeDirectory
	wallets   *fakeWallets
	ledger    *fakeLedger
}

func newTestServer(secret string) (*GRPCServer, *testDeps) {
	d := &testDeps{
		sessions: &fakeSessions{},
		reviews:  &fakeReviews{},
		directory: &fakeDirectory{users: map[string]*models.User{
			learnerID: {ID: learnerID, CoinBalance: 10},
			mentorID:  {ID: mentorID, SkillsOffered: []models.Skill{"go"}},
		}},
		wallets: &fakeWallets{},
		ledger:  &fakeLedger{},
	}
	s, err := NewGRPCServer("127.0.0.1:0", nopLogger{}, Services{
		Sessions:  d.sessions,
		Reviews:   d.reviews,
		Directory: d.directory,
		Wallets:   d.wallets,
		Ledger:    d.ledger,
	}, secret, time.Second)
	if err != nil {
		panic(err)
	}
	return s, d
}

func asCaller(id string) context.Context {
	return withCaller(context.Background(), Caller{UserID: id, Role: "user"})
}
