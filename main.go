package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type Blog struct {
	db      *sqlx.DB
	log     logrus.FieldLogger
	tokens  *TokenService
	users   *UserService
	posts   *PostService
	metrics *Metrics
	limiter *loginLimiter
	origins []string
}

func NewBlog(db *sqlx.DB, tokens *TokenService, cfg Config, logger logrus.FieldLogger) *Blog {
	metrics := newMetrics()

	var limiter *loginLimiter
	if cfg.LoginRateLimit > 0 {
		limiter = newLoginLimiter(cfg.LoginRateLimit, cfg.LoginRateBurst)
	}

	return &Blog{
		db:      db,
		log:     logger,
		tokens:  tokens,
		users:   NewUserService(db, tokens, cfg.AccessTokenExpiration, logger, metrics),
		posts:   NewPostService(db, tokens, logger, metrics),
		metrics: metrics,
		limiter: limiter,
		origins: cfg.CORSAllowedOrigins,
	}
}

func (b *Blog) routes() http.Handler {
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("POST /users/register", b.Register)
	mux.HandleFunc("POST /users/login", b.limiter.wrap(b.Login))
	mux.HandleFunc("GET /posts", b.ListPosts)
	mux.HandleFunc("GET /healthz", b.Healthz)
	mux.Handle("GET /metrics", b.metrics.Handler())

	// Protected routes
	mux.HandleFunc("GET /posts/{username}", b.requireAuth(b.ListUserPosts))
	mux.HandleFunc("POST /posts", b.requireAuth(b.CreatePost))
	mux.HandleFunc("PUT /posts/update/{id}", b.requireAuth(b.UpdatePost))
	mux.HandleFunc("DELETE /posts/delete/{id}", b.requireAuth(b.DeletePost))

	var h http.Handler = b.metrics.instrument(mux)
	h = allowCORS(b.origins, h)
	h = logRequests(b.log, h)
	return recoverPanics(b.log, h)
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		logrus.Fatalf("loading config: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		logrus.Fatalf("configuring logger: %v", err)
	}

	db, err := openDB(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	if err = initDB(db); err != nil {
		logger.Fatalf("initializing database: %v", err)
	}

	seeded, err := seedDB(context.Background(), db, cfg.AdminUser, cfg.AdminPass)
	if err != nil {
		logger.Fatalf("seeding database: %v", err)
	}
	if seeded {
		logger.WithField("username", cfg.AdminUser).Info("seeded initial user")
	}

	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET not set, using signing key stored in the database")
	}
	key, err := loadSigningKey(db, cfg.JWTSecret)
	if err != nil {
		logger.Fatalf("loading signing key: %v", err)
	}
	tokens, err := NewTokenService(key)
	if err != nil {
		logger.Fatalf("creating token service: %v", err)
	}

	blog := NewBlog(db, tokens, cfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	blog.limiter.startCleanup(ctx, time.Minute)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           blog.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithField("addr", cfg.Addr).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("serving: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutting down: %v", err)
	}
}
