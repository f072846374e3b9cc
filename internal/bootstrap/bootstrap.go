package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	firebase "firebase.google.com/go/v4"
	appAuth "github.com/emblabrowall/donosti-guide/internal/app/auth"
	appControllers "github.com/emblabrowall/donosti-guide/internal/app/controllers"
	appMigrations "github.com/emblabrowall/donosti-guide/internal/app/migrations"
	appRepos "github.com/emblabrowall/donosti-guide/internal/app/repositories"
	appRoutes "github.com/emblabrowall/donosti-guide/internal/app/routes"
	appServices "github.com/emblabrowall/donosti-guide/internal/app/services"
	"github.com/emblabrowall/donosti-guide/internal/config"
	"github.com/emblabrowall/donosti-guide/internal/db"
	appMiddleware "github.com/emblabrowall/donosti-guide/internal/middleware"
	pkgAuth "github.com/emblabrowall/donosti-guide/internal/pkg/auth"
	"github.com/emblabrowall/donosti-guide/internal/pkg/filestorage"
	"github.com/emblabrowall/donosti-guide/internal/pkg/helpers"
	"github.com/emblabrowall/donosti-guide/internal/pkg/identity"
	"github.com/emblabrowall/donosti-guide/internal/pkg/kvstore"
	"github.com/emblabrowall/donosti-guide/internal/pkg/logger"
	"github.com/emblabrowall/donosti-guide/internal/seed"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/option"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	Provider       identity.Provider
	Photos         filestorage.PhotoStorage
	AuthzService   *appAuth.AuthorizationService
	AuthMiddleware *appMiddleware.AuthMiddleware
	RateLimiter    *appMiddleware.IPRateLimiter
	Controllers    appRoutes.Controllers
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupStore opens the configured key-value backend, runs the migrations it
// needs and seeds the default data. The returned func releases the backend.
func SetupStore(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (kvstore.Store, func(), error) {
	lgr.Info().Str("driver", cfg.Store.Driver).Msg("Opening store...")

	var (
		store  kvstore.Store
		closer = func() {}
	)

	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		database, err := db.NewPostgresDB(cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to database")
			return nil, nil, err
		}

		lgr.Info().Msg("Running database migrations...")
		migrationsDir := cfg.Store.MigrationsDir
		if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
			database.Close()
			lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
			return nil, nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
		}
		migrator := appMigrations.NewMigrator(database, lgr)
		if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
			database.Close()
			lgr.Error().Err(err).Msg("Database migration error")
			return nil, nil, fmt.Errorf("database migrations failed: %w", err)
		}
		lgr.Info().Msg("Database migrations successfully applied.")

		store = kvstore.NewPostgresStore(database.Pool)
		closer = database.Close

	case config.StoreDriverGorm:
		gdb, err := db.NewGormDB(cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to open gorm store")
			return nil, nil, err
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to access gorm connection pool: %w", err)
		}
		gormStore, err := kvstore.NewGormStore(gdb)
		if err != nil {
			_ = sqlDB.Close()
			return nil, nil, err
		}
		store = gormStore
		closer = func() { _ = sqlDB.Close() }

	case config.StoreDriverMySQL:
		sess, err := db.NewMySQLSession(cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to open mysql store")
			return nil, nil, err
		}
		mysqlStore, err := kvstore.NewMySQLStore(ctx, sess)
		if err != nil {
			_ = sess.Close()
			return nil, nil, err
		}
		store = mysqlStore
		closer = func() { _ = sess.Close() }

	case config.StoreDriverMemory:
		lgr.Warn().Msg("Using the in-memory store, data is lost on restart")
		store = kvstore.NewMemoryStore()

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	lgr.Info().Msg("Store ready.")
	return store, closer, nil
}

// newFirebaseApp builds the app shared by the firebase provider and the bucket storage
func newFirebaseApp(ctx context.Context, cfg *config.Config) (*firebase.App, error) {
	fbConfig := &firebase.Config{
		ProjectID:     cfg.Auth.FirebaseProjectID,
		StorageBucket: cfg.Storage.Bucket,
	}

	var opts []option.ClientOption
	if cfg.Auth.FirebaseCredentials != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Auth.FirebaseCredentials))
	}

	app, err := firebase.NewApp(ctx, fbConfig, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	return app, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(ctx context.Context, cfg *config.Config, store kvstore.Store, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}
	deps.Repos = appRepos.NewRepositories(store)

	if err := seed.CreateDefaultData(ctx, deps.Repos, cfg.Community.VerificationCodes, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	var fbApp *firebase.App
	if cfg.Auth.Provider == config.AuthProviderFirebase || cfg.Storage.Driver == config.StorageDriverFirebase {
		app, err := newFirebaseApp(ctx, cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to initialize firebase")
			return nil, err
		}
		fbApp = app
	}

	switch cfg.Auth.Provider {
	case config.AuthProviderFirebase:
		provider, err := identity.NewFirebaseProvider(ctx, fbApp)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize firebase auth: %w", err)
		}
		deps.Provider = provider
	default:
		jwtService := pkgAuth.NewJWTService(pkgAuth.JWTConfig{
			SecretKey:      cfg.Auth.JWTSecret,
			AccessTokenExp: helpers.ParseDuration(cfg.Auth.TokenExpiration, 168*time.Hour),
			TokenIssuer:    cfg.Auth.Issuer,
		})
		deps.Provider = identity.NewLocalProvider(store, jwtService, bcrypt.DefaultCost)
	}
	lgr.Info().Str("provider", cfg.Auth.Provider).Msg("Identity provider ready")

	switch cfg.Storage.Driver {
	case config.StorageDriverFirebase:
		photos, err := filestorage.NewBucketStorage(ctx, fbApp, cfg.Storage.Bucket)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to initialize bucket storage")
			return nil, err
		}
		deps.Photos = photos
	default:
		photos, err := filestorage.NewLocalStorage(cfg.Storage.Path, cfg.PublicBaseURL()+"/uploads")
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to initialize file storage")
			return nil, fmt.Errorf("failed to initialize file storage: %w", err)
		}
		deps.Photos = photos
	}

	if err := appMiddleware.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	clock := appServices.Clock(time.Now)
	deps.AuthzService = appAuth.NewAuthorizationService(lgr)

	postService := appServices.NewPostService(deps.Repos, deps.AuthzService, deps.Photos, clock, lgr)
	forumService := appServices.NewForumService(deps.Repos, deps.AuthzService, clock, lgr)
	ledgerService := appServices.NewLedgerService(deps.Repos, deps.AuthzService, lgr)
	calendarService := appServices.NewCalendarService(deps.Repos, deps.AuthzService, clock, lgr)
	accountService := appServices.NewAccountService(deps.Repos, deps.Provider, appServices.AccountPolicy{
		AdminCode:   cfg.Community.AdminCode,
		AdminEmails: cfg.Community.AdminEmails,
	}, clock, lgr)
	adminService := appServices.NewAdminService(deps.Repos, deps.Provider, deps.AuthzService, deps.Photos, clock, lgr)
	analyticsService := appServices.NewAnalyticsService(deps.Repos, lgr)
	w := cfg.Leaderboard.Weights
	leaderboardService := appServices.NewLeaderboardService(deps.Repos, appServices.ScoreWeights{
		Post:    w.Post,
		Comment: w.Comment,
		Thread:  w.Thread,
		Reply:   w.Reply,
		Upvote:  w.Upvote,
	}, cfg.Leaderboard.DefaultLimit)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.Provider, deps.Repos.ProfileRepository)
	deps.RateLimiter = appMiddleware.NewIPRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	deps.Controllers = appRoutes.Controllers{
		Auth:      appControllers.NewAuthController(accountService, lgr),
		Post:      appControllers.NewPostController(postService, lgr),
		Forum:     appControllers.NewForumController(forumService),
		Ledger:    appControllers.NewLedgerController(ledgerService),
		Calendar:  appControllers.NewCalendarController(calendarService),
		Admin:     appControllers.NewAdminController(adminService),
		Analytics: appControllers.NewAnalyticsController(analyticsService, leaderboardService, lgr),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(lgr))
	router.Use(appMiddleware.SecurityHeaders())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, deps.RateLimiter)

	return router
}
