package rpc

import (
	"context"

	"github.com/dmitrijs2005/skillswap/internal/common"
	"google.golang.org/grpc"
)

// Client is a typed stub over a client connection. Every call is sent with
// the JSON content-subtype.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Req any, Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in *Req, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(common.JSONContentSubtype)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) BookSession(ctx context.Context, in *BookSessionRequest, opts ...grpc.CallOption) (*BookSessionResponse, error) {
	return invoke[BookSessionRequest, BookSessionResponse](ctx, c.cc, MethodBookSession, in, opts)
}

func (c *Client) ConfirmAttendance(ctx context.Context, in *ConfirmAttendanceRequest, opts ...grpc.CallOption) (*ConfirmAttendanceResponse, error) {
	return invoke[ConfirmAttendanceRequest, ConfirmAttendanceResponse](ctx, c.cc, MethodConfirmAttendance, in, opts)
}

func (c *Client) CancelSession(ctx context.Context, in *CancelSessionRequest, opts ...grpc.CallOption) (*CancelSessionResponse, error) {
	return invoke[CancelSessionRequest, CancelSessionResponse](ctx, c.cc, MethodCancelSession, in, opts)
}

func (c *Client) SubmitReview(ctx context.Context, in *SubmitReviewRequest, opts ...grpc.CallOption) (*SubmitReviewResponse, error) {
	return invoke[SubmitReviewRequest, SubmitReviewResponse](ctx, c.cc, MethodSubmitReview, in, opts)
}

func (c *Client) GetSession(ctx context.Context, in *GetSessionRequest, opts ...grpc.CallOption) (*GetSessionResponse, error) {
	return invoke[GetSessionRequest, GetSessionResponse](ctx, c.cc, MethodGetSession, in, opts)
}

func (c *Client) ListSessions(ctx context.Context, in *ListSessionsRequest, opts ...grpc.CallOption) (*ListSessionsResponse, error) {
	return invoke[ListSessionsRequest, ListSessionsResponse](ctx, c.cc, MethodListSessions, in, opts)
}

func (c *Client) GetWallet(ctx context.Context, in *GetWalletRequest, opts ...grpc.CallOption) (*GetWalletResponse, error) {
	return invoke[GetWalletRequest, GetWalletResponse](ctx, c.cc, MethodGetWallet, in, opts)
}

func (c *Client) ExportStatement(ctx context.Context, in *ExportStatementRequest, opts ...grpc.CallOption) (*ExportStatementResponse, error) {
	return invoke[ExportStatementRequest, ExportStatementResponse](ctx, c.cc, MethodExportStatement, in, opts)
}

func (c *Client) ListReviews(ctx context.Context, in *ListReviewsRequest, opts ...grpc.CallOption) (*ListReviewsResponse, error) {
	return invoke[ListReviewsRequest, ListReviewsResponse](ctx, c.cc, MethodListReviews, in, opts)
}

func (c *Client) SyncUser(ctx context.Context, in *SyncUserRequest, opts ...grpc.CallOption) (*SyncUserResponse, error) {
	return invoke[SyncUserRequest, SyncUserResponse](ctx, c.cc, MethodSyncUser, in, opts)
}

func (c *Client) AdjustBalance(ctx context.Context, in *AdjustBalanceRequest, opts ...grpc.CallOption) (*AdjustBalanceResponse, error) {
	return invoke[AdjustBalanceRequest, AdjustBalanceResponse](ctx, c.cc, MethodAdjustBalance, in, opts)
}
