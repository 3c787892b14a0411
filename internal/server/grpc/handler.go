package grpc

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/skillswap/internal/common"
	"github.com/dmitrijs2005/skillswap/internal/rpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func callerID(ctx context.Context) (string, error) {
	c, ok := CallerFromContext(ctx)
	if !ok || c.UserID == "" {
		return "", status.Error(codes.Unauthenticated, common.ErrorUnauthorized.Error()+": missing caller")
	}
	return c.UserID, nil
}

func (s *GRPCServer) BookSession(ctx context.Context, req *rpc.BookSessionRequest) (*rpc.BookSessionResponse, error) {
	if err := rpc.Validate(req); err != nil {
		return nil, err
	}
	uid, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	sess, err := s.sessions.BookSession(ctx, uid, req.MentorID, req.Skill)
	if err != nil {
		return nil, err
	}

	return &rpc.BookSessionResponse{SessionID: sess.ID, Status: string(sess.Status), OTP: string(sess.OTP)}, nil
}

func (s *GRPCServer) ConfirmAttendance(ctx context.Context, req *rpc.ConfirmAttendanceRequest) (*rpc.ConfirmAttendanceResponse, error) {
	if err := rpc.Validate(req); err != nil {
		return nil, err
	}
	uid, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	sess, err := s.sessions.ConfirmAttendance(ctx, req.SessionID, uid, req.OTP)
	if err != nil {
		return nil, err
	}

	return &rpc.ConfirmAttendanceResponse{Status: string(sess.Status)}, nil
}

func (s *GRPCServer) CancelSession(ctx context.Context, req *rpc.CancelSessionRequest) (*rpc.CancelSessionResponse, error) {
	if err := rpc.Validate(req); err != nil {
		return nil, err
	}
	uid, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	sess, err := s.sessions.CancelSession(ctx, req.SessionID, uid)
	if err != nil {
		return nil, err
	}

	return &rpc.CancelSessionResponse{Status: string(sess.Status)}, nil
}

func (s *GRPCServer) SubmitReview(ctx context.Context, req *rpc.SubmitReviewRequest) (*rpc.SubmitReviewResponse, error) {
	// the length limit applies to the trimmed comment
	req.Comment = strings.TrimSpace(req.Comment)
	if err := rpc.Validate(req); err != nil {
		return nil, err
	}
	uid, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	r, err := s.reviews.SubmitReview(ctx, req.SessionID, uid, req.Rating, req.Comment)
	if err != nil {
		return nil, err
	}

	return &rpc.SubmitReviewResponse{ReviewID: r.ID}, nil
}

func (s *GRPCServer) GetSession(ctx context.Context, req *rpc.GetSessionRequest) (*rpc.GetSessionResponse, error) {
	if err := rpc.Validate(req); err != nil {
		return nil, err
	}
	uid, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	sess, err := s.sessions.GetSession(ctx, req.SessionID, uid)
	if err != nil {
		return nil, err
	}

	return &rpc.GetSessionResponse{Session: toSession(sess)}, nil
}

func (s *GRPCServer) ListSessions(ctx context.Context, req *rpc.ListSessionsRequest) (*rpc.ListSessionsResponse, error) {
	if err := rpc.Validate(req); err != nil {
		return nil, err
	}
	uid, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.sessions.ListSessions(ctx, uid, req.Role, req.Status, req.Limit)
	if err != nil {
		return nil, err
	}

	out := make([]rpc.Session, 0, len(list))
	for _, sess := range list {
		out = append(out, toSession(sess))
	}
	return &rpc.ListSessionsResponse{Sessions: out}, nil
}

func (s *GRPCServer) GetWallet(ctx context.Context, req *rpc.GetWalletRequest) (*rpc.GetWalletResponse, error) {
	if err := rpc.Validate(req); err != nil {
		return nil, err
	}
	uid, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	w, err := s.wallets.GetWallet(ctx, uid, req.Limit)
	if err != nil {
		return nil, err
	}

	return &rpc.GetWalletResponse{Wallet: toWallet(w)}, nil
}

func (s *GRPCServer) ExportStatement(ctx context.Context, req *rpc.ExportStatementRequest) (*rpc.ExportStatementResponse, error) {
	uid, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	key, url, err := s.wallets.ExportStatement(ctx, uid)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "statement exported", "user_id", uid, "key", key)
	return &rpc.ExportStatementResponse{ObjectKey: key, URL: url}, nil
}

func (s *GRPCServer) ListReviews(ctx context.Context, req *rpc.ListReviewsRequest) (*rpc.ListReviewsResponse, error) {
	if err := rpc.Validate(req); err != nil {
		return nil, err
	}

	list, err := s.reviews.ListReviews(ctx, req.MentorID, req.Limit)
	if err != nil {
		return nil, err
	}

	out := make([]rpc.Review, 0, len(list))
	for _, r := range list {
		out = append(out, toReview(r))
	}
	return &rpc.ListReviewsResponse{Reviews: out}, nil
}

func (s *GRPCServer) SyncUser(ctx context.Context, req *rpc.SyncUserRequest) (*rpc.SyncUserResponse, error) {
	if err := rpc.Validate(req); err != nil {
		return nil, err
	}

	u, err := s.directory.SyncUser(ctx, fromSnapshot(req.User))
	if err != nil {
		return nil, err
	}

	return &rpc.SyncUserResponse{User: toUser(u)}, nil
}

func (s *GRPCServer) AdjustBalance(ctx context.Context, req *rpc.AdjustBalanceRequest) (*rpc.AdjustBalanceResponse, error) {
	if err := rpc.Validate(req); err != nil {
		return nil, err
	}

	t, err := s.ledger.AdminAdjust(ctx, req.UserID, req.Delta, req.Reason)
	if err != nil {
		return nil, err
	}

	admin, _ := CallerFromContext(ctx)
	s.logger.Info(ctx, "balance adjusted", "user_id", req.UserID, "delta", req.Delta, "admin", admin.UserID)
	return &rpc.AdjustBalanceResponse{Transaction: toTransaction(t, "")}, nil
}
