package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/quillpress/quillpress/config"
	"github.com/quillpress/quillpress/database"
	"github.com/quillpress/quillpress/database/model"
	"github.com/quillpress/quillpress/logger"
	"github.com/quillpress/quillpress/web"
	"github.com/quillpress/quillpress/web/cache"
	"github.com/quillpress/quillpress/web/entity"
	"github.com/quillpress/quillpress/web/service"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// loadConfig reads and validates the configuration, then sets up logging.
func loadConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := logger.ParseLevel(string(cfg.LogLevel))
	if err != nil {
		return nil, err
	}
	if err := logger.Init(level, cfg.LogFolder); err != nil {
		logger.Warning("log file disabled:", err)
	}
	return cfg, nil
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	dbCfg, err := cfg.Database()
	if err != nil {
		return nil, err
	}
	return database.Open(dbCfg, cfg.Debug)
}

func runWebServer() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Close()
	logger.Infof("%v %v", config.GetName(), config.GetVersion())

	db, err := openDatabase(cfg)
	if err != nil {
		logger.Error("open database failed:", err)
		return err
	}
	defer database.Close(db)

	store, err := cache.NewClient(context.Background(), cfg.RedisAddr)
	if err != nil {
		logger.Error("connect rate limit store failed:", err)
		return err
	}
	defer store.Close()

	server := web.NewServer(cfg, db, store)
	if err := server.Start(); err != nil {
		logger.Error("start server failed:", err)
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	for {
		sig := <-sigCh

		switch sig {
		case syscall.SIGHUP:
			logger.Info("restarting web server")
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			server = web.NewServer(cfg, db, store)
			if err := server.Start(); err != nil {
				logger.Error("restart server failed:", err)
				return err
			}
		default:
			logger.Infof("received %v, shutting down", sig)
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			return nil
		}
	}
}

func migrateDb() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Close()

	fmt.Println("Start migrating database...")
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	if err := database.Close(db); err != nil {
		return err
	}
	fmt.Println("Migration done!")
	return nil
}

func createAdmin(form *entity.RegisterForm) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Close()

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	user, err := service.NewAuthService(db, cfg.JWTSecret).Register(context.Background(), form, model.RoleAdmin)
	if err != nil {
		return fmt.Errorf("create admin failed: %w", err)
	}
	fmt.Printf("admin %s created with id %d\n", user.Email, user.Id)
	return nil
}

func main() {
	var rootCmd = &cobra.Command{
		Use:   config.GetName(),
		Short: "Blog publishing backend",
		// errors are printed once by main
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWebServer()
		},
	}

	var runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWebServer()
		},
	}

	var migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrateDb()
		},
	}

	var versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(config.GetName(), config.GetVersion())
		},
	}

	var adminCmd = &cobra.Command{
		Use:   "admin",
		Short: "Manage administrators",
	}

	form := &entity.RegisterForm{}
	var createCmd = &cobra.Command{
		Use:   "create",
		Short: "Create an admin user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return createAdmin(form)
		},
	}

	createCmd.Flags().StringVar(&form.Email, "email", "", "admin email")
	createCmd.Flags().StringVar(&form.Password, "password", "", "admin password (6-20 characters)")
	createCmd.Flags().StringVar(&form.FirstName, "first-name", "", "first name")
	createCmd.Flags().StringVar(&form.LastName, "last-name", "", "last name")
	createCmd.Flags().StringVar(&form.Avatar, "avatar", "", "avatar URL")
	for _, f := range []string{"email", "password", "first-name", "last-name", "avatar"} {
		_ = createCmd.MarkFlagRequired(f)
	}

	adminCmd.AddCommand(createCmd)
	rootCmd.AddCommand(runCmd, migrateCmd, versionCmd, adminCmd)

	// every command has run its deferred cleanup by the time Execute returns
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
