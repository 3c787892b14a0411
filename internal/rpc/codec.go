package rpc

import (
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/skillswap/internal/common"
	"google.golang.org/grpc/encoding"
)

// jsonCodec marshals gRPC messages as JSON. Both peers select it with the
// "json" content-subtype.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("json codec marshal: %w", err)
	}
	return b, nil
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("json codec unmarshal: %w", err)
	}
	return nil
}

func (jsonCodec) Name() string {
	return common.JSONContentSubtype
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
