package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/vgb-web/apiserver/config"
	"github.com/vgb-web/apiserver/internal/db"
	"github.com/vgb-web/apiserver/internal/handlers"
	"github.com/vgb-web/apiserver/internal/otp"
	"github.com/vgb-web/apiserver/internal/services"
	"github.com/vgb-web/apiserver/internal/store"
	"github.com/vgb-web/apiserver/internal/token"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	mongo      *mongo.Client
	log        *zap.Logger
}

// New constructs a Server with basic middleware and defaults. Missing
// production configuration (signing secret, connection string) fails
// here, before any request is served.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := newLogger(cfg.Mode)
	if err != nil {
		return nil, err
	}

	var (
		mongoClient  *mongo.Client
		userRepo     services.UserRepository
		donationRepo services.DonationRepository
	)
	if cfg.Database.URI != "" {
		client, database, err := db.Open(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to mongo: %w", err)
		}
		if err := db.EnsureIndexes(ctx, database); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("ensure indexes: %w", err)
		}
		mongoClient = client
		userRepo = store.NewUserRepository(database)
		donationRepo = store.NewDonationRepository(database)
	} else {
		// Validate guarantees this branch is unreachable in production.
		log.Warn("MONGO_URI not set, using in-memory store")
		userRepo = store.NewMemoryUserRepository()
		donationRepo = store.NewMemoryDonationRepository()
	}

	issuer, err := token.NewIssuer(cfg)
	if err != nil {
		disconnect(mongoClient)
		return nil, err
	}

	secrets := otp.New(cfg.OTPTTL, cfg.ResetTokenTTL)
	mailer := &services.LogMailer{Log: log}

	userService := services.NewUserService(userRepo, issuer, secrets, mailer)
	donationService := services.NewDonationService(donationRepo)

	requireAuth := handlers.RequireAuth(issuer, userService)
	donationHandler := handlers.NewDonationHandler(donationService, log)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Route("/api/users", func(r chi.Router) {
		handlers.UserRouter(r, userService, requireAuth, cfg.Mode, log)
		r.Post("/donation", donationHandler.ProcessDonation)
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 5012
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		mongo:      mongoClient,
		log:        log,
	}, nil
}

func newLogger(mode config.Mode) (*zap.Logger, error) {
	if mode == config.Production {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func disconnect(client *mongo.Client) {
	if client != nil {
		_ = client.Disconnect(context.Background())
	}
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	s.log.Info("server listening", zap.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	disconnect(s.mongo)
	_ = s.log.Sync()
	return s.httpServer.Close()
}
