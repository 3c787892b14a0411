package grpc

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/dmitrijs2005/skillswap/internal/logging"
	"github.com/dmitrijs2005/skillswap/internal/rpc"
	"github.com/dmitrijs2005/skillswap/internal/server/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type SessionManager interface {
	BookSession(ctx context.Context, learnerID, mentorID, skill string) (*models.Session, error)
	ConfirmAttendance(ctx context.Context, sessionID, callerID, otp string) (*models.Session, error)
	CancelSession(ctx context.Context, sessionID, callerID string) (*models.Session, error)
	GetSession(ctx context.Context, sessionID, callerID string) (*models.Session, error)
	ListSessions(ctx context.Context, callerID, role, status string, limit int) ([]*models.Session, error)
}

type ReviewManager interface {
	SubmitReview(ctx context.Context, sessionID, learnerID string, rating int, comment string) (*models.Review, error)
	ListReviews(ctx context.Context, mentorID string, limit int) ([]*models.Review, error)
}

type Directory interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	SyncUser(ctx context.Context, snap *models.UserSnapshot) (*models.User, error)
}

type WalletManager interface {
	GetWallet(ctx context.Context, userID string, limit int) (*models.Wallet, error)
	ExportStatement(ctx context.Context, userID string) (key string, url string, err error)
}

type Ledger interface {
	AdminAdjust(ctx context.Context, userID string, delta int64, reason string) (*models.Transaction, error)
}

// Services groups the domain services the transport dispatches to.
type Services struct {
	Sessions  SessionManager
	Reviews   ReviewManager
	Directory Directory
	Wallets   WalletManager
	Ledger    Ledger
}

type GRPCServer struct {
	address        string
	sessions       SessionManager
	reviews        ReviewManager
	directory      Directory
	wallets        WalletManager
	ledger         Ledger
	logger         logging.Logger
	jwtSecret      []byte
	requestTimeout time.Duration
}

var _ rpc.SkillSwapServer = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, svc Services, secretKey string, requestTimeout time.Duration) (*GRPCServer, error) {
	if secretKey == "" {
		return nil, errors.New("grpc server: empty secret key")
	}
	return &GRPCServer{
		address:        a,
		logger:         l.With("module", "grpc_server"),
		sessions:       svc.Sessions,
		reviews:        svc.Reviews,
		directory:      svc.Directory,
		wallets:        svc.Wallets,
		ledger:         svc.Ledger,
		jwtSecret:      []byte(secretKey),
		requestTimeout: requestTimeout,
	}, nil
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	return s.serve(ctx, listen)
}

// serve accepts connections on lis until ctx is cancelled, then drains
// in-flight calls.
func (s *GRPCServer) serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		s.metricsInterceptor,
		s.timeoutInterceptor,
		s.errorInterceptor,
		s.accessTokenInterceptor,
	))

	rpc.RegisterSkillSwapServer(srv, s)

	hs := health.NewServer()
	hs.SetServingStatus(rpc.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		hs.Shutdown()
		srv.GracefulStop()
	}()

	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
