package client

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/skillswap/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var ErrUnavailable = errors.New("server unavailable")

// byCode is the fallback when a status message does not name a sentinel.
var byCode = map[codes.Code]error{
	codes.InvalidArgument:  common.ErrValidation,
	codes.NotFound:         common.ErrorNotFound,
	codes.PermissionDenied: common.ErrForbidden,
	codes.Aborted:          common.ErrConflict,
	codes.AlreadyExists:    common.ErrDuplicateReview,
	codes.Internal:         common.ErrorInternal,
	codes.Unauthenticated:  common.ErrorUnauthorized,
	codes.Unavailable:      ErrUnavailable,
	codes.DeadlineExceeded: ErrUnavailable,
}

// mapError converts a status error into an error that matches the server's
// sentinel with errors.Is and keeps any detail text.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	msg := st.Message()
	if sentinel := common.Lookup(msg); sentinel != nil {
		if detail := strings.TrimPrefix(msg, sentinel.Error()); detail != "" {
			return fmt.Errorf("%w%s", sentinel, detail)
		}
		return sentinel
	}

	if target, ok := byCode[st.Code()]; ok {
		if msg == "" {
			return target
		}
		return fmt.Errorf("%w: %s", target, msg)
	}
	return fmt.Errorf("rpc error: %w", err)
}
