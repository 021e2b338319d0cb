package connection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"taskmanager/config"
	"taskmanager/controller/auth"
	"taskmanager/controller/category"
	"taskmanager/controller/priority"
	"taskmanager/controller/task"
	"taskmanager/controller/user"
	"taskmanager/dto"
	"taskmanager/middleware"
	"taskmanager/repository"
	"taskmanager/response"
	"taskmanager/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	log    *slog.Logger
	store services.Store
	http  *http.Server
}

// NewServer opens the configured store and builds the router on top of it.
func NewServer(ctx context.Context, cfg config.Config, log *slog.Logger) (*Server, error) {
	store, err := OpenStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	tokens := services.NewTokenService(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	deps := services.NewDeps(log, store, tokens, cfg.Auth.BcryptCost, cfg.RequestTimeout)

	router, err := NewRouter(deps, cfg.CORSOrigins)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &Server{
		log:   log,
		store: store,
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// OpenStore connects to the store named by DB_DRIVER. SQL stores are
// migrated before they are returned.
func OpenStore(ctx context.Context, cfg config.Config, log *slog.Logger) (services.Store, error) {
	switch cfg.DB.Driver {
	case config.DriverFirestore:
		client, err := FBConnection(ctx, cfg.Firebase)
		if err != nil {
			return nil, err
		}
		log.Info("Firestore connection successful")
		return repository.NewFirestoreRepository(client), nil
	case config.DriverSQLite, config.DriverPostgres:
		db, err := SQLConnection(cfg.DB, log)
		if err != nil {
			return nil, err
		}
		repo := repository.NewSQLRepository(db)
		if err := repo.AutoMigrate(ctx); err != nil {
			_ = repo.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return repo, nil
	}
	return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DB.Driver)
}

// NewRouter wires every controller onto a fresh engine.
func NewRouter(deps *services.Deps, corsOrigins []string) (*gin.Engine, error) {
	if err := dto.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("register validators: %w", err)
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery(), middleware.RequestLogger(deps.Log))
	router.Use(cors.New(corsConfig(corsOrigins)))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Api is running!"})
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	router.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, "Route not found", map[string]any{
			"path": c.Request.URL.Path,
		})
	})
	router.NoMethod(func(c *gin.Context) {
		response.Fail(c, http.StatusMethodNotAllowed, "Method not allowed", map[string]any{
			"method": c.Request.Method,
		})
	})

	auth.SignUpController(router, deps)
	auth.SignInController(router, deps)
	user.UserController(router, deps)
	task.TaskController(router, deps)
	category.CategoryController(router, deps)
	priority.PriorityController(router, deps)

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AddAllowHeaders("Authorization")
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowWildcard = true
	}
	return cfg
}

// Run serves until ctx is cancelled or the listener fails, then drains
// in-flight requests and closes the store.
func (s *Server) Run(ctx context.Context) error {
	defer func() {
		if err := s.store.Close(); err != nil {
			s.log.Error("close store", "error", err)
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "address", s.http.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.log.Info("shutdown requested")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server stopped unexpectedly: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}

// Migrate creates the SQL schema without serving.
func Migrate(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	if cfg.DB.Driver == config.DriverFirestore {
		return errors.New("migrate only applies to the sqlite and postgres drivers")
	}
	store, err := OpenStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	log.Info("migration complete", "driver", cfg.DB.Driver)
	return store.Close()
}
