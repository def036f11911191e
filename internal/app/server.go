// internal/app/server.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"academy-service/internal/config"
	"academy-service/internal/db"
	billingHandler "academy-service/internal/handlers/billing"
	entitlementHandler "academy-service/internal/handlers/entitlement"
	kpiHandler "academy-service/internal/handlers/kpi"
	tenantHandler "academy-service/internal/handlers/tenant"
	"academy-service/internal/middleware"
	"academy-service/internal/pkg/jwt"
	"academy-service/internal/pkg/odoo"
	"academy-service/internal/repository/postgres"
	redisrepo "academy-service/internal/repository/redis"
	billingUsecase "academy-service/internal/service/billing"
	"academy-service/internal/service/bootstrap"
	entitlementUsecase "academy-service/internal/service/entitlement"
	kpiUsecase "academy-service/internal/service/kpi"
	tenantUsecase "academy-service/internal/service/tenant"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger

	httpServer *http.Server
	pool       *pgxpool.Pool
	redis      redis.UniversalClient
}

func NewServer(cfg config.AppConfig, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	return &Server{cfg: cfg, engine: gin.New(), logger: logger}
}

// Start wires dependencies and serves HTTP until Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(ctx, db.PostgresConfig{URL: s.cfg.DatabaseURL, MaxConns: s.cfg.DBMaxConns})
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	s.pool = pool
	s.logger.Info("postgres connected")

	// ----- Redis -----
	redisClient, err := db.NewRedis(db.RedisConfig{
		ClusterMode: s.cfg.RedisCluster,
		Addresses:   s.cfg.RedisAddrs,
		Password:    s.cfg.RedisPass,
		DB:          0,
		PoolSize:    10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	s.redis = redisClient
	s.logger.Info("redis connected", zap.Strings("addrs", s.cfg.RedisAddrs))

	// ----- JWT -----
	jwtManager, err := jwt.LoadAndBuild(s.cfg.JWT)
	if err != nil {
		return fmt.Errorf("failed to load JWT keys: %w", err)
	}

	// ----- Repositories -----
	academyRepo := postgres.NewAcademyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	planRepo := postgres.NewPlanRepository(pool)
	membershipRepo := postgres.NewMembershipRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	kpiRepo := postgres.NewKPIRepository(pool)
	kpiCache := redisrepo.NewKPICache(redisClient, s.cfg.KPICacheTTL)

	// ----- External billing -----
	odooClient := odoo.NewClient(s.cfg.Odoo.URL, s.cfg.Odoo.Database, s.cfg.Odoo.Timeout, s.logger)

	// ----- Services -----
	tenantService := tenantUsecase.NewService(academyRepo, s.logger)
	entitlementService := entitlementUsecase.NewService(userRepo, membershipRepo, s.logger)
	kpiService := kpiUsecase.NewService(kpiRepo, kpiCache, s.logger)
	billingService := billingUsecase.NewService(
		planRepo,
		userRepo,
		paymentRepo,
		odooClient,
		s.cfg.Odoo.ProviderModel,
		s.cfg.PaymentStaleAfter,
		s.logger,
	).WithLocker(redisrepo.NewSyncLock(redisClient))

	// ----- Bootstrap -----
	s.ensureSuperAdmin(ctx, bootstrap.NewService(userRepo, s.logger))

	// ----- Middlewares -----
	s.engine.Use(
		middleware.RecoveryMiddleware(s.logger),
		middleware.LoggingMiddleware(s.logger),
		middleware.CORSMiddleware(),
	)

	// ----- Router -----
	SetupRouter(s.engine, &Handlers{
		EntitlementHandler: entitlementHandler.NewEntitlementHandler(entitlementService),
		KPIHandler:         kpiHandler.NewKPIHandler(kpiService),
		BillingHandler:     billingHandler.NewBillingHandler(billingService, s.logger),
		TenantHandler:      tenantHandler.NewTenantHandler(),
		AuthMiddleware:     middleware.NewAuthMiddleware(jwtManager.Verifier, s.logger),
		Tenant:             middleware.Tenant(tenantService, s.logger),
	})

	// ----- Start HTTP -----
	s.httpServer = &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("server running", zap.String("addr", s.cfg.HTTPAddr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and closes the pools.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}
	if s.redis != nil {
		if cerr := s.redis.Close(); cerr != nil {
			s.logger.Warn("failed to close redis", zap.Error(cerr))
		}
	}
	if s.pool != nil {
		s.pool.Close()
	}
	return err
}

// ensureSuperAdmin never fails startup
func (s *Server) ensureSuperAdmin(ctx context.Context, svc *bootstrap.Service) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if s.cfg.SuperAdminEmail == "" || s.cfg.SuperAdminPassword == "" {
		s.logger.Warn("SUPER_ADMIN_EMAIL or SUPER_ADMIN_PASSWORD not set, skipping super admin bootstrap")
		return
	}
	if len(s.cfg.SuperAdminPassword) < 8 {
		s.logger.Error("super admin password is too weak (minimum 8 characters)")
		return
	}

	err := svc.EnsureSuperAdmin(ctx, bootstrap.SuperAdmin{
		Email:    s.cfg.SuperAdminEmail,
		Password: s.cfg.SuperAdminPassword,
		Name:     s.cfg.SuperAdminName,
	})
	if err != nil {
		s.logger.Error("failed to initialize super admin", zap.Error(err))
	}
}
