// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package backfill

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/curioswitch/hamatcon/common/backfill"
	frontendapi "github.com/curioswitch/hamatcon/frontend/api"
	"github.com/curioswitch/hamatcon/frontend/server/internal/auth"
)

// allOwners selects recipes of every owner.
const allOwners = "*"

func NewHandler(backfiller *backfill.Backfiller, defaultOwner string) *Handler {
	return &Handler{
		backfiller:   backfiller,
		defaultOwner: defaultOwner,
	}
}

type Handler struct {
	backfiller   *backfill.Backfiller
	defaultOwner string
}

func (h *Handler) Backfill(ctx context.Context, req *frontendapi.BackfillRequest) (*frontendapi.BackfillResponse, error) {
	if !auth.IsCurioSwitchUser(ctx) {
		return nil, connect.NewError(connect.CodePermissionDenied, errors.New("only CurioSwitch users can backfill recipes"))
	}

	owner := req.OwnerUID
	switch owner {
	case "":
		owner = h.defaultOwner
	case allOwners:
		owner = ""
	}

	n, err := h.backfiller.Run(ctx, owner)
	if err != nil {
		var be *backfill.BatchError
		if errors.As(err, &be) {
			slog.ErrorContext(ctx, "backfill: partially applied", "committed", be.Committed, "unapplied", be.Unapplied)
		}
		return nil, fmt.Errorf("backfill: %w", err)
	}
	return &frontendapi.BackfillResponse{
		Updated: n,
	}, nil
}
