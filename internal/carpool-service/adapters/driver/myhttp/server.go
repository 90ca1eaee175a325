package myhttp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"decarpool/internal/carpool-service/adapters/driven/bm"
	"decarpool/internal/carpool-service/adapters/driven/db"
	"decarpool/internal/carpool-service/adapters/driven/ipfs"
	"decarpool/internal/carpool-service/adapters/driven/ledger"
	"decarpool/internal/carpool-service/adapters/driven/notification"
	"decarpool/internal/carpool-service/adapters/driver/myhttp/handle"
	"decarpool/internal/carpool-service/adapters/driver/myhttp/middleware"
	"decarpool/internal/carpool-service/adapters/driver/myhttp/ws"
	"decarpool/internal/carpool-service/core/ports"
	"decarpool/internal/carpool-service/core/services"
	"decarpool/internal/config"
	"decarpool/internal/mylogger"
)

const WaitTime = 10

type Server struct {
	mux    *http.ServeMux
	cfg    *config.Config
	srv    *http.Server
	mylog  mylogger.Logger
	db     *db.DB
	mb     ports.IEventsBroker
	ctx    context.Context
	appCtx context.Context
	mu     sync.Mutex
	wg     sync.WaitGroup
}

func NewServer(ctx, appCtx context.Context, mylog mylogger.Logger, cfg *config.Config) *Server {
	s := &Server{
		ctx:    ctx,
		appCtx: appCtx,
		cfg:    cfg,
		mylog:  mylog,
		mux:    http.NewServeMux(),
	}

	return s
}

// Run initializes adapters and routes and starts listening. It returns when the server stops.
func (s *Server) Run() error {
	mylog := s.mylog.Action("server_started")

	// Initialize database connection
	db, err := db.New(s.ctx, s.cfg.DB, mylog)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = db
	mylog.Info("Successful database connection")

	// Initialize RabbitMQ connection
	mb, err := bm.New(s.appCtx, *s.cfg.RabbitMq, s.mylog)
	if err != nil {
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	s.mb = mb
	mylog.Info("Successful message broker connection")

	// Configure routes and handlers
	if err := s.Configure(); err != nil {
		return err
	}

	s.mu.Lock()
	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%v", s.cfg.Srv.CarpoolServicePort),
		Handler: s.mux,
	}
	s.mu.Unlock()

	mylog = mylog.WithGroup("details").With("port", s.cfg.Srv.CarpoolServicePort)

	mylog.Info("server is running")
	return s.startHTTPServer()
}

// Stop provides a programmatic shutdown. Accepts a context for timeout control.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mylog.Info("Shutting down HTTP server...")

	if s.srv != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, WaitTime*time.Second)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.mylog.Error("Failed to shut down HTTP server gracefully", err)
			return fmt.Errorf("http server shutdown: %w", err)
		}
	}

	// closing the broker ends the consume channel, which lets the feed
	// worker drain and exit before we wait on it
	if s.mb != nil {
		if err := s.mb.Close(); err != nil {
			s.mylog.Error("Failed to close message broker", err)
		}
	}

	s.wg.Wait()

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.mylog.Error("Failed to close database", err)
			return fmt.Errorf("db close: %w", err)
		}
		s.mylog.Info("Database closed")
	}

	s.mylog.Info("HTTP server shut down gracefully")
	return nil
}

func (s *Server) startHTTPServer() error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		} else {
			errCh <- nil
		}
	}()

	select {
	case <-s.ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Configure sets up the dual-mode clients, services and HTTP routes.
func (s *Server) Configure() error {
	// Repositories
	ridesRepo := db.NewRidesRepo(s.db)
	bookingsRepo := db.NewBookingsRepo(s.db)
	usersRepo := db.NewUsersRepo(s.db)

	// the live/simulated choice happens once, here; call sites stay
	// uniform behind the port interfaces
	ledgerClient := s.selectLedgerClient()
	contentStore := s.selectContentStore()

	// services
	ledgerTimeout := time.Duration(s.cfg.Ledger.ConfirmTimeout) * time.Second
	ridesService := services.NewRidesService(s.appCtx, s.mylog, ridesRepo, bookingsRepo, usersRepo, ledgerClient, s.mb, ledgerTimeout)
	authService := services.NewAuthService(s.appCtx, s.cfg, s.mylog, usersRepo, ridesRepo, bookingsRepo, contentStore)

	// handlers
	ridesHandler := handle.NewRidesHandler(ridesService, s.mylog)
	authHandler := handle.NewAuthHandler(authService, s.mylog)

	authMiddleware := middleware.NewAuthMiddleware(s.cfg.App.JwtSecret)

	// websocket feed fed from the broker
	dispatcher := ws.NewDispatcher(s.appCtx, s.mylog)
	feed := notification.New(s.appCtx, &s.wg, s.mylog, dispatcher, s.mb)
	if err := feed.Run(); err != nil {
		return fmt.Errorf("failed to start ride feed: %w", err)
	}

	// Register routes
	s.mux.Handle("POST /auth/register", authHandler.Register())
	s.mux.Handle("POST /auth/login", authHandler.Login())
	s.mux.Handle("POST /otp/setup", authMiddleware.Wrap(authHandler.SetupOTP()))
	s.mux.Handle("POST /otp/enable", authMiddleware.Wrap(authHandler.EnableOTP()))
	s.mux.Handle("GET /profile", authMiddleware.Wrap(authHandler.Profile()))

	s.mux.Handle("POST /rides", authMiddleware.Wrap(ridesHandler.OfferRide()))
	s.mux.Handle("GET /rides", ridesHandler.ListRides())
	s.mux.Handle("GET /rides/{ride_id}", ridesHandler.GetRide())
	s.mux.Handle("POST /rides/{ride_id}/book", authMiddleware.Wrap(ridesHandler.BookRide()))
	s.mux.Handle("POST /rides/{ride_id}/complete", authMiddleware.Wrap(ridesHandler.CompleteRide()))

	// websocket routes
	s.mux.Handle("GET /ws/rides", dispatcher.WsHandler(authMiddleware))

	return nil
}

func (s *Server) selectLedgerClient() ports.ILedgerClient {
	mylog := s.mylog.Action("select_ledger")

	if s.cfg.Ledger.NodeURL == "" {
		mylog.Info("no ledger gateway configured, using simulated client")
		return ledger.NewSimulatedClient(s.mylog)
	}

	client, err := ledger.NewLiveClient(s.ctx, s.cfg.Ledger, s.mylog)
	if err != nil {
		mylog.Warn("ledger gateway probe failed, falling back to simulated client", "reason", err.Error())
		return ledger.NewSimulatedClient(s.mylog)
	}
	return client
}

func (s *Server) selectContentStore() ports.IContentStore {
	mylog := s.mylog.Action("select_content_store")

	if s.cfg.IPFS.APIURL == "" {
		mylog.Info("no content store configured, using simulated store")
		return ipfs.NewSimulatedStore(s.mylog)
	}

	store, err := ipfs.NewLiveStore(s.ctx, s.cfg.IPFS, s.mylog)
	if err != nil {
		mylog.Warn("content store probe failed, falling back to simulated store", "reason", err.Error())
		return ipfs.NewSimulatedStore(s.mylog)
	}
	return store
}
