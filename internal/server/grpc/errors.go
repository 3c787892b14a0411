package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/skillswap/internal/common"
	"google.golang.org/grpc/codes"
)

// statusFor maps a domain error to a status code. Known errors keep their
// message, which starts with the sentinel text so clients can match it.
func statusFor(err error) (codes.Code, string) {
	switch {
	case errors.Is(err, common.ErrValidation), errors.Is(err, common.ErrInvalidOTP):
		return codes.InvalidArgument, err.Error()
	case errors.Is(err, common.ErrorNotFound):
		return codes.NotFound, err.Error()
	case errors.Is(err, common.ErrForbidden):
		return codes.PermissionDenied, err.Error()
	case errors.Is(err, common.ErrInsufficientBalance), errors.Is(err, common.ErrSkillNotOffered):
		return codes.FailedPrecondition, err.Error()
	case errors.Is(err, common.ErrConflict):
		return codes.Aborted, err.Error()
	case errors.Is(err, common.ErrDuplicateReview):
		return codes.AlreadyExists, err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded, "deadline exceeded"
	case errors.Is(err, context.Canceled):
		return codes.Canceled, "canceled"
	default:
		return codes.Internal, common.ErrorInternal.Error()
	}
}
