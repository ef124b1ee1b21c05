// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package main

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"github.com/curioswitch/go-curiostack/server"
	"github.com/curioswitch/go-usegcp/middleware/firebaseauth"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/curioswitch/hamatcon/common/aggregate"
	"github.com/curioswitch/hamatcon/common/backfill"
	"github.com/curioswitch/hamatcon/common/docstore"
	"github.com/curioswitch/hamatcon/common/images"
	"github.com/curioswitch/hamatcon/common/recipes"
	frontendapi "github.com/curioswitch/hamatcon/frontend/api"
	"github.com/curioswitch/hamatcon/frontend/server/internal/auth"
	"github.com/curioswitch/hamatcon/frontend/server/internal/config"
	"github.com/curioswitch/hamatcon/frontend/server/internal/handler/addrecipe"
	backfillhandler "github.com/curioswitch/hamatcon/frontend/server/internal/handler/backfill"
	"github.com/curioswitch/hamatcon/frontend/server/internal/handler/deleterecipe"
	"github.com/curioswitch/hamatcon/frontend/server/internal/handler/getprofilestats"
	"github.com/curioswitch/hamatcon/frontend/server/internal/handler/getrating"
	"github.com/curioswitch/hamatcon/frontend/server/internal/handler/listfavorites"
	"github.com/curioswitch/hamatcon/frontend/server/internal/handler/listrecipes"
	"github.com/curioswitch/hamatcon/frontend/server/internal/handler/submitrating"
	"github.com/curioswitch/hamatcon/frontend/server/internal/handler/togglefavorite"
	"github.com/curioswitch/hamatcon/frontend/server/internal/handler/updaterecipe"
	"github.com/curioswitch/hamatcon/frontend/server/internal/i18n"
	"github.com/curioswitch/hamatcon/frontend/server/internal/rpc"
)

//go:embed conf/*.yaml
var confFiles embed.FS

func main() {
	conf, _ := fs.Sub(confFiles, "conf")
	os.Exit(server.Main(&config.Config{}, conf, setupServer))
}

func setupServer(ctx context.Context, conf *config.Config, s *server.Server) error {
	mux := server.Mux(s)

	fbApp, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: conf.Google.Project})
	if err != nil {
		return fmt.Errorf("main: create firebase app: %w", err)
	}

	fbAuth, err := fbApp.Auth(ctx)
	if err != nil {
		return fmt.Errorf("main: create firebase auth client: %w", err)
	}

	var store docstore.Store
	var files images.Writer
	if conf.Store.InMemory {
		slog.InfoContext(ctx, "main: using in-memory store")
		store = docstore.NewMemory()
		files = images.NewMemory()
	} else {
		firestore, err := fbApp.Firestore(ctx)
		if err != nil {
			return fmt.Errorf("main: create firestore client: %w", err)
		}
		defer func() {
			if err := firestore.Close(); err != nil {
				slog.ErrorContext(ctx, "main: close firestore client", "error", err)
			}
		}()
		store = docstore.NewFirestore(firestore)

		storage, err := storage.NewGRPCClient(ctx)
		if err != nil {
			return fmt.Errorf("main: create storage client: %w", err)
		}
		defer func() {
			if err := storage.Close(); err != nil {
				slog.ErrorContext(ctx, "main: close storage client", "error", err)
			}
		}()
		files = images.NewGCS(storage, conf.Google.Project+"-public")
	}

	engine := aggregate.NewEngine(store)

	fbMW := firebaseauth.NewMiddleware(fbAuth)
	userMW := auth.Middleware()

	mux.Use(middleware.Maybe(func(h http.Handler) http.Handler {
		return fbMW(userMW(h))
	}, func(r *http.Request) bool {
		switch {
		case strings.HasPrefix(r.URL.Path, "/internal/"):
			return false
		default:
			return true
		}
	}))

	mux.Use(i18n.Middleware())

	manager := recipes.NewManager(store, files)

	rpc.Handle(mux, frontendapi.FrontendServiceAddRecipeProcedure,
		addrecipe.NewHandler(manager).AddRecipe)
	rpc.Handle(mux, frontendapi.FrontendServiceUpdateRecipeProcedure,
		updaterecipe.NewHandler(manager, store).UpdateRecipe)
	rpc.Handle(mux, frontendapi.FrontendServiceDeleteRecipeProcedure,
		deleterecipe.NewHandler(manager).DeleteRecipe)
	rpc.Handle(mux, frontendapi.FrontendServiceListRecipesProcedure,
		listrecipes.NewHandler(store, conf.Search.SuggestionLimit).ListRecipes)
	rpc.Handle(mux, frontendapi.FrontendServiceToggleFavoriteProcedure,
		togglefavorite.NewHandler(engine).ToggleFavorite)
	rpc.Handle(mux, frontendapi.FrontendServiceSubmitRatingProcedure,
		submitrating.NewHandler(engine, store).SubmitRating)
	rpc.Handle(mux, frontendapi.FrontendServiceGetRatingProcedure,
		getrating.NewHandler(engine, store).GetRating)
	rpc.Handle(mux, frontendapi.FrontendServiceListFavoritesProcedure,
		listfavorites.NewHandler(store).ListFavorites)
	rpc.Handle(mux, frontendapi.FrontendServiceGetProfileStatsProcedure,
		getprofilestats.NewHandler(manager).GetProfileStats)
	rpc.Handle(mux, frontendapi.FrontendServiceBackfillProcedure,
		backfillhandler.NewHandler(backfill.NewBackfiller(store), conf.Backfill.Owner).Backfill)

	if err := server.Start(ctx, s); err != nil {
		return fmt.Errorf("main: starting server: %w", err)
	}
	return nil
}
