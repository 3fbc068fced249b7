package grpc

import (
	"context"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/rpc"
	"github.com/dmitrijs2005/authgate/internal/server/services"
	"github.com/dmitrijs2005/authgate/internal/server/validation"
	"google.golang.org/protobuf/types/known/structpb"
)

type handler struct {
	users *services.UserService
}

var errBadMessage = &common.Error{Kind: common.KindValidation, Message: common.ErrValidation.Message,
	Violations: []common.Violation{{Field: "body", Message: "Invalid message"}}}

func decode(in *structpb.Struct, v any) error {
	if err := rpc.Decode(in, v); err != nil {
		return errBadMessage.Wrap(err)
	}
	return nil
}

func (h *handler) Signup(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req validation.SignupInput
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	res, err := h.users.Signup(ctx, req)
	if err != nil {
		return nil, err
	}
	return rpc.Encode(res)
}

func (h *handler) Login(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req validation.LoginInput
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	res, err := h.users.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	return rpc.Encode(res)
}

func (h *handler) Me(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	id, err := h.users.CurrentIdentity(ctx)
	if err != nil {
		return nil, err
	}
	return rpc.Encode(map[string]any{"user": id})
}

func (h *handler) GetUser(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req struct {
		ID string `json:"id"`
	}
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	user, err := h.users.GetUser(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	return rpc.Encode(map[string]any{"user": user})
}
