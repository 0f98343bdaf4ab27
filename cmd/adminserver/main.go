package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/taxhub/admin-backend/internal/adminserver/cache"
	"github.com/taxhub/admin-backend/internal/adminserver/database"
	"github.com/taxhub/admin-backend/internal/adminserver/handler"
	"github.com/taxhub/admin-backend/internal/adminserver/taxforms"
	"github.com/taxhub/admin-backend/internal/auth/jwt"
	"github.com/taxhub/admin-backend/internal/common/cnst"
	"github.com/taxhub/admin-backend/internal/common/config"
	"github.com/taxhub/admin-backend/pkg/logger"
	"github.com/taxhub/admin-backend/pkg/metrics"
	"github.com/taxhub/admin-backend/pkg/version"
)

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:   "adminserver",
		Short: "Tax back office admin server",
		Long:  `adminserver provides the administrative API for the tax preparation back office`,
		Run: func(cmd *cobra.Command, args []string) {
			run()
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of adminserver",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("adminserver version %s\n", version.Get())
		},
	}

	createSuperadminCmd = &cobra.Command{
		Use:   "create-superadmin",
		Short: "Create the bootstrap superadmin account from configuration",
		Run: func(cmd *cobra.Command, args []string) {
			createSuperadmin()
		},
	}

	seedDemoCmd = &cobra.Command{
		Use:   "seed-demo",
		Short: "Seed the database with demonstration data",
		Run: func(cmd *cobra.Command, args []string) {
			seedDemo()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "conf", "c", "configs/adminserver.yaml", "path to configuration file")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(createSuperadminCmd)
	rootCmd.AddCommand(seedDemoCmd)
}

func initLogger(cfg *config.AdminServerConfig) *zap.Logger {
	lg, err := logger.NewLogger(&cfg.Logger)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	return lg
}

func loadConfig() *config.AdminServerConfig {
	cfg, cfgPath, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("failed to load configuration from %s: %v", cfgPath, err)
	}
	return cfg
}

func initDatabase(lg *zap.Logger, cfg *config.DatabaseConfig) database.Database {
	db, err := database.NewStore(cfg, lg)
	if err != nil {
		lg.Fatal("failed to initialize database",
			zap.String("type", cfg.Type),
			zap.Error(err))
	}
	return db
}

func initRouter(db database.Database, cfg *config.AdminServerConfig, lg *zap.Logger) (*gin.Engine, *cache.Cache) {
	jwtService, err := jwt.NewService(cfg.JWT)
	if err != nil {
		lg.Fatal("failed to initialize JWT service", zap.Error(err))
	}

	cch := cache.New(&cfg.Redis, lg)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	handler.RegisterRoutes(r, handler.Deps{
		DB:       db,
		Cache:    cch,
		JWT:      jwtService,
		TaxForms: taxforms.NewClient(&cfg.TaxForms, lg),
		Metrics:  metrics.New(cfg.Metrics),
		Logger:   lg,
	})
	return r, cch
}

func run() {
	cfg := loadConfig()
	lg := initLogger(cfg)
	defer func() { _ = lg.Sync() }()

	lg.Info("starting adminserver",
		zap.String("version", version.Get()),
		zap.Int("port", cfg.Port))

	db := initDatabase(lg, &cfg.Database)
	defer db.Close()

	r, cch := initRouter(db, cfg, lg)
	defer func() { _ = cch.Close() }()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	lg.Info("shutting down adminserver")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		lg.Error("server forced to shutdown", zap.Error(err))
	}
	lg.Info("adminserver exited")
}

// createSuperadmin ensures the configured superadmin account exists. Safe to
// run repeatedly; an existing account is left untouched.
func createSuperadmin() {
	cfg := loadConfig()
	lg := initLogger(cfg)
	defer func() { _ = lg.Sync() }()

	if cfg.SuperAdmin.Email == "" || cfg.SuperAdmin.Password == "" {
		lg.Fatal("super_admin email and password must be configured")
	}

	db := initDatabase(lg, &cfg.Database)
	defer db.Close()

	ctx := context.Background()
	if _, err := db.GetAdminByEmail(ctx, cfg.SuperAdmin.Email); err == nil {
		lg.Info("superadmin already exists", zap.String("email", cfg.SuperAdmin.Email))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.SuperAdmin.Password), bcrypt.DefaultCost)
	if err != nil {
		lg.Fatal("failed to hash superadmin password", zap.Error(err))
	}

	name := cfg.SuperAdmin.Name
	if name == "" {
		name = "Super Admin"
	}

	admin := &database.AdminUser{
		Email:        cfg.SuperAdmin.Email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         cnst.RoleSuperadmin,
		Permissions:  allPermissions(),
		IsActive:     true,
	}
	if err := db.CreateAdmin(ctx, admin); err != nil {
		lg.Fatal("failed to create superadmin", zap.Error(err))
	}
	lg.Info("superadmin created", zap.String("email", admin.Email), zap.String("id", admin.ID))
}

// seedDemo populates the database with a small demo data set for local
// development. Clients are keyed by email and year, so rerunning skips
// existing rows.
func seedDemo() {
	cfg := loadConfig()
	lg := initLogger(cfg)
	defer func() { _ = lg.Sync() }()

	db := initDatabase(lg, &cfg.Database)
	defer db.Close()

	ctx := context.Background()

	admin, err := db.GetAdminByEmail(ctx, cfg.SuperAdmin.Email)
	if err != nil {
		lg.Fatal("superadmin not found, run create-superadmin first", zap.Error(err))
	}

	year := time.Now().Year() - 1
	clients := []*database.Client{
		{Name: "John Smith", Email: "john.smith@example.com", Phone: "416-555-0101", FilingYear: year, Status: cnst.ClientStatusDocumentsPending, TotalAmount: 450},
		{Name: "Jane Doe", Email: "jane.doe@example.com", Phone: "416-555-0102", FilingYear: year, Status: cnst.ClientStatusInPreparation, TotalAmount: 650},
		{Name: "Bob Wilson", Email: "bob.wilson@example.com", Phone: "416-555-0103", FilingYear: year, Status: cnst.ClientStatusFiled, TotalAmount: 300},
	}

	for _, c := range clients {
		if _, err := db.GetClientByEmailYear(ctx, c.Email, c.FilingYear); err == nil {
			lg.Info("client already seeded", zap.String("email", c.Email))
			continue
		}
		c.PaymentStatus = cnst.PaymentStatusPending
		c.AssignedAdminID = &admin.ID
		if err := db.CreateClient(ctx, c); err != nil {
			lg.Fatal("failed to seed client", zap.String("email", c.Email), zap.Error(err))
		}
		if err := db.CreateDocument(ctx, &database.Document{
			ClientID: c.ID,
			Name:     fmt.Sprintf("T4 Slip %d", c.FilingYear),
			Type:     "t4",
			Status:   cnst.DocumentStatusPending,
			Version:  1,
		}); err != nil {
			lg.Fatal("failed to seed document", zap.Error(err))
		}
		lg.Info("client seeded", zap.String("email", c.Email))
	}

	lg.Info("demo data ready", zap.Int("clients", len(clients)))
}

func allPermissions() database.PermissionList {
	perms := make(database.PermissionList, len(cnst.AllPermissions))
	copy(perms, cnst.AllPermissions)
	return perms
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
