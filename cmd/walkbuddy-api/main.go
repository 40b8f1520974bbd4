// README: Entry point; loads config, wires stores and services, starts the HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"walkbuddy/internal/config"
	httptransport "walkbuddy/internal/http"
	"walkbuddy/internal/infra"
	"walkbuddy/internal/maps"
	"walkbuddy/internal/modules/history"
	"walkbuddy/internal/modules/matching"
	"walkbuddy/internal/modules/route"
	"walkbuddy/internal/modules/safeloc"
	"walkbuddy/internal/modules/trip"
	"walkbuddy/internal/modules/user"
)

func main() {
	log := infra.NewLogger(os.Getenv("WALKBUDDY_PRETTY_LOGS") != "")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Firebase.ProjectID == "" {
		log.Fatal().Msg("WALKBUDDY_FIREBASE_PROJECT_ID is required")
	}
	verifier, err := infra.NewFirebaseVerifier(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("firebase init")
	}

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres init")
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)
	defer redisClient.Close()

	directions, err := maps.NewDirectionsService(cfg.Maps.APIKey)
	if err != nil {
		log.Fatal().Err(err).Msg("maps init")
	}

	userStore := user.NewStore(dbPool)
	userSvc := user.NewService(userStore)

	historyStore := history.NewStore(dbPool)
	historySvc := history.NewService(historyStore)

	matchingStore := matching.NewStore(redisClient)

	tripStore := trip.NewStore(dbPool, historyStore)
	tripSvc := trip.NewService(tripStore, userSvc, matchingStore, log)

	matchingSvc := matching.NewService(tripStore, matchingStore, cfg.Matching, log)

	safelocStore := safeloc.NewStore(dbPool, redisClient, log)
	safelocSvc := safeloc.NewService(safelocStore)

	routeSvc := route.NewService(directions)

	router := httptransport.NewRouter(httptransport.RouterDeps{
		Trips:    tripSvc,
		Matches:  matchingSvc,
		Meeting:  safelocSvc,
		Routes:   routeSvc,
		Users:    userSvc,
		History:  historySvc,
		Catalog:  safelocStore,
		Verifier: verifier,
		Log:      log,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: router}

	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()

	log.Info().Str("addr", cfg.HTTP.Addr).Msg("listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("serve")
	}
}
