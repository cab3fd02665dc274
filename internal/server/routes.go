package server

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/geoboard/leaderboard/internal/handler/health"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	results := &resultWriter{
		store:  deps.Store,
		broker: deps.Broker,
		cache:  deps.Cache,
		logger: logger,
	}
	m := deps.Metrics

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", handleSwaggerUI())
	r.Mount("/healthz", health.NewHandler(logger, deps.Checks).Routes())
	r.Handle("/metrics", m.Handler())

	// Ingestion from the collector. Unauthenticated; the board slug and
	// player name travel in the body.
	r.Post("/api/import", handleImport(logger, deps.Store, results, m))

	r.Get("/api/boards", handleListBoards(logger, deps.Store))
	r.Post("/api/boards", handleCreateBoard(logger, deps.Store))

	// Board routes, {board} resolved by boardMiddleware.
	r.Route("/api/boards/{board}", func(r chi.Router) {
		r.Use(boardMiddleware(logger, deps.Store))
		r.Get("/", handleGetBoard())
		r.Delete("/", handleDeleteBoard(logger, deps.Store, deps.Cache))
		r.Get("/leaderboard", handleLeaderboard(logger, deps.Store, deps.Cache, m, deps.Now))
		r.Post("/entries", handleCreateEntry(logger, deps.Store, results, m, deps.Now))
		r.Get("/events", handleEvents(deps.Broker, m))
		r.Get("/ws", handleBoardWS(logger, deps.Broker, m))
	})

	r.Post("/api/players/register", handleRegister(logger, deps.Store, deps.SecureCookie))
	r.Post("/api/players/login", handleLogin(logger, deps.Store, deps.SecureCookie))
	r.Post("/api/players/logout", handleLogout(logger, deps.Store, deps.SecureCookie))
	r.Get("/api/me", handleMe(deps.Store))

	// Server-rendered pages. The navbar carries the player name the
	// collector reads when importing.
	r.Get("/", handleIndexPage(logger, deps.Store))
	r.Get("/boards/{board}", handleBoardPage(logger, deps.Store, deps.Now))
}
