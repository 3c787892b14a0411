package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/skillswap/internal/common"
	"github.com/dmitrijs2005/skillswap/internal/rpc"
	"github.com/dmitrijs2005/skillswap/internal/server/auth"
	"github.com/dmitrijs2005/skillswap/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

// startBufServer serves s over an in-memory listener and returns a client
// connection to it.
func startBufServer(t *testing.T, s *GRPCServer) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.serve(ctx, lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		conn.Close()
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("server did not stop")
		}
	})
	return conn
}

func withToken(t *testing.T, secret, userID, role string) context.Context {
	t.Helper()
	tok, err := auth.GenerateToken(userID, role, []byte(secret), time.Hour)
	require.NoError(t, err)
	return metadata.AppendToOutgoingContext(context.Background(), common.AccessTokenHeaderName, tok)
}

func TestTransport_BookSessionOverJSON(t *testing.T) {
	s, d := newTestServer("secret")
	d.sessions.sess = &models.Session{ID: sessionID, Status: models.SessionPending, OTP: "123456"}

	client := rpc.NewClient(startBufServer(t, s))

	resp, err := client.BookSession(withToken(t, "secret", learnerID, auth.RoleUser),
		&rpc.BookSessionRequest{MentorID: mentorID, Skill: "go"})
	require.NoError(t, err)
	assert.Equal(t, sessionID, resp.SessionID)
	assert.Equal(t, "123456", resp.OTP)
	assert.Equal(t, learnerID, d.sessions.gotCaller)
}

func TestTransport_DomainErrorKeepsSentinelText(t *testing.T) {
	s, d := newTestServer("secret")
	d.sessions.err = common.ErrInsufficientBalance

	client := rpc.NewClient(startBufServer(t, s))

	_, err := client.BookSession(withToken(t, "secret", learnerID, auth.RoleUser),
		&rpc.BookSessionRequest{MentorID: mentorID, Skill: "go"})
	require.Error(t, err)

	st := status.Convert(err)
	assert.Equal(t, codes.FailedPrecondition, st.Code())
	assert.Equal(t, common.ErrInsufficientBalance, common.Lookup(st.Message()))
}

func TestTransport_RejectsMissingToken(t *testing.T) {
	s, _ := newTestServer("secret")
	client := rpc.NewClient(startBufServer(t, s))

	_, err := client.GetWallet(context.Background(), &rpc.GetWalletRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestTransport_Health(t *testing.T) {
	s, _ := newTestServer("secret")
	conn := startBufServer(t, s)

	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: rpc.ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)
}
