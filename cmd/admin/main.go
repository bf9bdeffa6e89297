package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"store-rating/internal/app"
	"store-rating/internal/core/config"
	"store-rating/internal/core/database"
	"store-rating/internal/core/logger"
	"store-rating/internal/domain"
	"store-rating/internal/service"
)

const usage = `usage: store-rating-admin <command> [flags]

commands:
  migrate        create or update the schema
  create-admin   create an admin account
  delete-user    delete a user with its store and ratings
`

func main() {
	_ = godotenv.Load()
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err := dispatch(os.Args[1], os.Args[2:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func dispatch(cmd string, args []string) error {
	fs := pflag.NewFlagSet(cmd, pflag.ContinueOnError)
	cfgPath := fs.String("config", os.Getenv("CONFIG_PATH"), "config file")
	switch cmd {
	case "migrate":
		if err := fs.Parse(args); err != nil {
			return err
		}
		return withDB(*cfgPath, func(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
			db, err := app.OpenDB(cfg.DB, log)
			if err != nil {
				return err
			}
			defer database.Close(db)
			if err := database.Migrate(ctx, db); err != nil {
				return err
			}
			log.Info("schema migrated")
			return nil
		})

	case "create-admin":
		name := fs.String("name", "", "full name (20-60 characters)")
		email := fs.String("email", "", "login email")
		password := fs.String("password", "", "password")
		address := fs.String("address", "", "address")
		if err := fs.Parse(args); err != nil {
			return err
		}
		return withApp(*cfgPath, func(ctx context.Context, a *app.App, log *zap.Logger) error {
			id, err := a.Users.Create(ctx, service.NewUser{
				Name: *name, Email: *email, Password: *password, Address: *address, Role: domain.RoleAdmin,
			})
			if err != nil {
				return err
			}
			log.Info("admin created", zap.Uint64("user_id", id))
			return nil
		})

	case "delete-user":
		id := fs.Uint64("id", 0, "user id")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if *id == 0 {
			return errors.New("--id is required")
		}
		return withApp(*cfgPath, func(ctx context.Context, a *app.App, _ *zap.Logger) error {
			return a.Users.Delete(ctx, *id)
		})

	case "-h", "--help", "help":
		fmt.Print(usage)
		return nil
	}
	return fmt.Errorf("unknown command %q\n%s", cmd, usage)
}

func withDB(cfgPath string, fn func(context.Context, *config.Config, *zap.Logger) error) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return fn(ctx, cfg, log)
}

func withApp(cfgPath string, fn func(context.Context, *app.App, *zap.Logger) error) error {
	return withDB(cfgPath, func(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
		a, err := app.New(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(ctx, a, log)
	})
}
