// Package rpc describes the skillswap.v1.SkillSwap gRPC service: its request
// and response messages, the JSON codec they travel with, the service
// descriptor the server registers and a typed client.
package rpc

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "skillswap.v1.SkillSwap"

const (
	MethodBookSession       = "BookSession"
	MethodConfirmAttendance = "ConfirmAttendance"
	MethodCancelSession     = "CancelSession"
	MethodSubmitReview      = "SubmitReview"
	MethodGetSession        = "GetSession"
	MethodListSessions      = "ListSessions"
	MethodGetWallet         = "GetWallet"
	MethodExportStatement   = "ExportStatement"
	MethodListReviews       = "ListReviews"
	MethodSyncUser          = "SyncUser"
	MethodAdjustBalance     = "AdjustBalance"
)

// FullMethod returns the "/service/method" path used on the wire.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// AdminMethods lists the methods that require an admin token.
var AdminMethods = map[string]bool{
	FullMethod(MethodSyncUser):      true,
	FullMethod(MethodAdjustBalance): true,
}

// SkillSwapServer is implemented by the transport layer.
type SkillSwapServer interface {
	BookSession(context.Context, *BookSessionRequest) (*BookSessionResponse, error)
	ConfirmAttendance(context.Context, *ConfirmAttendanceRequest) (*ConfirmAttendanceResponse, error)
	CancelSession(context.Context, *CancelSessionRequest) (*CancelSessionResponse, error)
	SubmitReview(context.Context, *SubmitReviewRequest) (*SubmitReviewResponse, error)
	GetSession(context.Context, *GetSessionRequest) (*GetSessionResponse, error)
	ListSessions(context.Context, *ListSessionsRequest) (*ListSessionsResponse, error)
	GetWallet(context.Context, *GetWalletRequest) (*GetWalletResponse, error)
	ExportStatement(context.Context, *ExportStatementRequest) (*ExportStatementResponse, error)
	ListReviews(context.Context, *ListReviewsRequest) (*ListReviewsResponse, error)
	SyncUser(context.Context, *SyncUserRequest) (*SyncUserResponse, error)
	AdjustBalance(context.Context, *AdjustBalanceRequest) (*AdjustBalanceResponse, error)
}

// unary builds the method descriptor for one call, decoding into Req and
// routing through the server's interceptor chain.
func unary[Req any, Resp any](method string, call func(SkillSwapServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(SkillSwapServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(SkillSwapServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SkillSwapServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodBookSession, SkillSwapServer.BookSession),
		unary(MethodConfirmAttendance, SkillSwapServer.ConfirmAttendance),
		unary(MethodCancelSession, SkillSwapServer.CancelSession),
		unary(MethodSubmitReview, SkillSwapServer.SubmitReview),
		unary(MethodGetSession, SkillSwapServer.GetSession),
		unary(MethodListSessions, SkillSwapServer.ListSessions),
		unary(MethodGetWallet, SkillSwapServer.GetWallet),
		unary(MethodExportStatement, SkillSwapServer.ExportStatement),
		unary(MethodListReviews, SkillSwapServer.ListReviews),
		unary(MethodSyncUser, SkillSwapServer.SyncUser),
		unary(MethodAdjustBalance, SkillSwapServer.AdjustBalance),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "skillswap/v1/skillswap.json",
}

func RegisterSkillSwapServer(s grpc.ServiceRegistrar, srv SkillSwapServer) {
	s.RegisterService(&ServiceDesc, srv)
}
