// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

// Package rpc serves unary handler methods of the form
// func(ctx, *Req) (*Res, error) as connect procedures with plain JSON
// messages.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Codec encodes messages as JSON with encoding/json. Unknown fields are
// rejected.
type Codec struct{}

var _ connect.Codec = Codec{}

func (Codec) Name() string {
	return "json"
}

func (Codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (Codec) Unmarshal(data []byte, msg any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(msg)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// ValidateInterceptor rejects requests failing their validate struct tags
// with CodeInvalidArgument and logs failed calls that are not client errors.
func ValidateInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if err := validate.StructCtx(ctx, req.Any()); err != nil {
				var verrs validator.ValidationErrors
				if errors.As(err, &verrs) {
					return nil, connect.NewError(connect.CodeInvalidArgument, err)
				}
				return nil, fmt.Errorf("rpc: validating request: %w", err)
			}
			res, err := next(ctx, req)
			if err != nil {
				switch connect.CodeOf(err) {
				case connect.CodeUnknown, connect.CodeInternal, connect.CodeUnavailable:
					slog.ErrorContext(ctx, "rpc: handler failed", "procedure", req.Spec().Procedure, "error", err)
				}
			}
			return res, err
		}
	}
}

// Handle registers fn on mux as the connect procedure.
func Handle[Req any, Res any](mux chi.Router, procedure string, fn func(ctx context.Context, req *Req) (*Res, error)) {
	mux.Handle(procedure, connect.NewUnaryHandler(procedure,
		func(ctx context.Context, req *connect.Request[Req]) (*connect.Response[Res], error) {
			res, err := fn(ctx, req.Msg)
			if err != nil {
				return nil, err
			}
			return connect.NewResponse(res), nil
		},
		connect.WithCodec(Codec{}),
		connect.WithInterceptors(ValidateInterceptor()),
	))
}
