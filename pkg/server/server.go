package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/unrolled/secure"
	"golang.org/x/sync/errgroup"

	"github.com/convoyrelief/convoyd/pkg/authz"
	"github.com/convoyrelief/convoyd/pkg/config"
	"github.com/convoyrelief/convoyd/pkg/server/middleware"
	"github.com/convoyrelief/convoyd/pkg/server/store"
	"github.com/convoyrelief/convoyd/pkg/token"
)

const shutdownTimeout = 10 * time.Second

// Options holds the dependencies of a Server
type Options struct {
	Config   *config.Config
	Subjects store.SubjectStore
	Roles    store.RolesStore
	Health   store.HealthStore

	Convoys    store.ConvoyStore
	Committees store.CommitteeStore
	Volunteers store.VolunteerStore
	Villages   store.VillageStore

	Issuer   *token.Issuer
	Verifier middleware.CredentialVerifier
	// Cache is optional. Without it every request loads the profile fresh.
	Cache  authz.ProfileCache
	Logger *slog.Logger
	Host   string
	Port   string
}

type Server struct {
	Router    *mux.Router
	Config    *config.Config
	Logger    *slog.Logger
	Validator *validator.Validate

	Subjects store.SubjectStore
	Roles    store.RolesStore
	Health   store.HealthStore

	Convoys    store.ConvoyStore
	Committees store.CommitteeStore
	Volunteers store.VolunteerStore
	Villages   store.VillageStore

	Issuer        *token.Issuer
	Loader        *authz.Loader
	Authenticator *middleware.Authenticator
	Gate          *middleware.Gate

	srv *http.Server
}

func NewServer(opts Options) *Server {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Get()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	loaderOpts := []authz.LoaderOption{authz.WithLogger(logger)}
	if opts.Cache != nil {
		loaderOpts = append(loaderOpts, authz.WithCache(opts.Cache))
	}
	loader := authz.NewLoader(opts.Subjects, cfg.SuperRole, loaderOpts...)

	router := mux.NewRouter().UseEncodedPath()
	srv := &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, wrap(cfg, router)),
		Addr:    opts.Host + ":" + opts.Port,
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &Server{
		Router:        router,
		Config:        cfg,
		Logger:        logger,
		Validator:     newValidator(),
		Subjects:      opts.Subjects,
		Roles:         opts.Roles,
		Health:        opts.Health,
		Convoys:       opts.Convoys,
		Committees:    opts.Committees,
		Volunteers:    opts.Volunteers,
		Villages:      opts.Villages,
		Issuer:        opts.Issuer,
		Loader:        loader,
		Authenticator: middleware.NewAuthenticator(opts.Verifier, loader, logger),
		Gate:          middleware.NewGate(logger),
		srv:           srv,
	}
}

// newValidator reports fields by their JSON names
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// wrap applies security headers and CORS around the router
func wrap(cfg *config.Config, router http.Handler) http.Handler {
	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		SSLRedirect:        cfg.SSLRedirect,
		SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
	})

	cors := handlers.CORS(
		handlers.AllowedOrigins(cfg.CORSAllowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
	)

	return secureMiddleware.Handler(cors(router))
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.Logger.Info("server listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
