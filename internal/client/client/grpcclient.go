package client

import (
	"context"

	"github.com/dmitrijs2005/skillswap/internal/common"
	"github.com/dmitrijs2005/skillswap/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

// skillSwapClient is the subset of *rpc.Client the CLI calls.
type skillSwapClient interface {
	BookSession(context.Context, *rpc.BookSessionRequest, ...grpc.CallOption) (*rpc.BookSessionResponse, error)
	ConfirmAttendance(context.Context, *rpc.ConfirmAttendanceRequest, ...grpc.CallOption) (*rpc.ConfirmAttendanceResponse, error)
	CancelSession(context.Context, *rpc.CancelSessionRequest, ...grpc.CallOption) (*rpc.CancelSessionResponse, error)
	SubmitReview(context.Context, *rpc.SubmitReviewRequest, ...grpc.CallOption) (*rpc.SubmitReviewResponse, error)
	GetSession(context.Context, *rpc.GetSessionRequest, ...grpc.CallOption) (*rpc.GetSessionResponse, error)
	ListSessions(context.Context, *rpc.ListSessionsRequest, ...grpc.CallOption) (*rpc.ListSessionsResponse, error)
	GetWallet(context.Context, *rpc.GetWalletRequest, ...grpc.CallOption) (*rpc.GetWalletResponse, error)
	ExportStatement(context.Context, *rpc.ExportStatementRequest, ...grpc.CallOption) (*rpc.ExportStatementResponse, error)
	ListReviews(context.Context, *rpc.ListReviewsRequest, ...grpc.CallOption) (*rpc.ListReviewsResponse, error)
}

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      skillSwapClient
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	return invoker(withAccessToken(ctx, s.accessToken), method, req, reply, cc, opts...)
}

func NewGRPCClient(endpointURL, accessToken string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, accessToken: accessToken}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {
	conn, err := grpc.NewClient(s.endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = rpc.NewClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) BookSession(ctx context.Context, mentorID, skill string) (*rpc.BookSessionResponse, error) {
	resp, err := s.client.BookSession(ctx, &rpc.BookSessionRequest{MentorID: mentorID, Skill: skill})
	if err != nil {
		return nil, mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) ConfirmAttendance(ctx context.Context, sessionID, otp string) (string, error) {
	resp, err := s.client.ConfirmAttendance(ctx, &rpc.ConfirmAttendanceRequest{SessionID: sessionID, OTP: otp})
	if err != nil {
		return "", mapError(err)
	}
	return resp.Status, nil
}

func (s *GRPCClient) CancelSession(ctx context.Context, sessionID string) (string, error) {
	resp, err := s.client.CancelSession(ctx, &rpc.CancelSessionRequest{SessionID: sessionID})
	if err != nil {
		return "", mapError(err)
	}
	return resp.Status, nil
}

func (s *GRPCClient) SubmitReview(ctx context.Context, sessionID string, rating int, comment string) (string, error) {
	resp, err := s.client.SubmitReview(ctx, &rpc.SubmitReviewRequest{SessionID: sessionID, Rating: rating, Comment: comment})
	if err != nil {
		return "", mapError(err)
	}
	return resp.ReviewID, nil
}

func (s *GRPCClient) GetSession(ctx context.Context, sessionID string) (*rpc.Session, error) {
	resp, err := s.client.GetSession(ctx, &rpc.GetSessionRequest{SessionID: sessionID})
	if err != nil {
		return nil, mapError(err)
	}
	return &resp.Session, nil
}

func (s *GRPCClient) ListSessions(ctx context.Context, role, status string, limit int) ([]rpc.Session, error) {
	resp, err := s.client.ListSessions(ctx, &rpc.ListSessionsRequest{Role: role, Status: status, Limit: limit})
	if err != nil {
		return nil, mapError(err)
	}
	return resp.Sessions, nil
}

func (s *GRPCClient) GetWallet(ctx context.Context, limit int) (*rpc.Wallet, error) {
	resp, err := s.client.GetWallet(ctx, &rpc.GetWalletRequest{Limit: limit})
	if err != nil {
		return nil, mapError(err)
	}
	return &resp.Wallet, nil
}

func (s *GRPCClient) ExportStatement(ctx context.Context) (*rpc.ExportStatementResponse, error) {
	resp, err := s.client.ExportStatement(ctx, &rpc.ExportStatementRequest{})
	if err != nil {
		return nil, mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) ListReviews(ctx context.Context, mentorID string, limit int) ([]rpc.Review, error) {
	resp, err := s.client.ListReviews(ctx, &rpc.ListReviewsRequest{MentorID: mentorID, Limit: limit})
	if err != nil {
		return nil, mapError(err)
	}
	return resp.Reviews, nil
}
