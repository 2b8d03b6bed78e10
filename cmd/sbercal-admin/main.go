// Copyright 2025 SberCal Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/sbercal/sbercal/admin"
	"github.com/sbercal/sbercal/config"
	"github.com/sbercal/sbercal/core"
	"github.com/sbercal/sbercal/mail"
	"github.com/sbercal/sbercal/storage"
	"github.com/sbercal/sbercal/storage/badger"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "sbercal-admin",
		Usage: "Account management panel for the events assistant",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML configuration file",
				Value:   "config.yaml",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Action: serveCommand,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serveCommand(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	backend, err := badger.OpenBackend(cfg.DatabasePath, false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	users, err := badger.NewUserRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create user repository: %w", err)
	}
	defer users.Close()

	if err := ensureAdminAccount(c.Context, users); err != nil {
		return fmt.Errorf("failed to bootstrap admin account: %w", err)
	}

	opts := []admin.Option{}
	if cfg.MailEnabled() {
		mailer := mail.NewMailer(cfg.SMTP.Host, cfg.SMTP.Port,
			cfg.SMTP.Login, cfg.SMTP.Password, cfg.SMTP.From,
			mail.WithAppURL(cfg.AppURL))
		opts = append(opts, admin.WithMailer(mailer))
	}

	server := admin.NewServer(users, opts...)
	slog.Info("admin panel listening", "addr", cfg.AdminListen)
	return http.ListenAndServe(cfg.AdminListen, server.Router())
}

// ensureAdminAccount creates the bootstrap admin user on first start. The
// generated password is printed once; it is not recoverable afterwards.
func ensureAdminAccount(ctx context.Context, users storage.UserRepository) error {
	_, err := users.GetUser(ctx, "admin")
	if err == nil {
		return nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	password, err := admin.GeneratePassword()
	if err != nil {
		return err
	}
	_, err = users.AddUsers(ctx, &core.User{
		Login:          "admin",
		PasswordDigest: core.PasswordDigest("admin", password),
		Type:           core.UserTypeAdmin,
		FullName:       "Администратор",
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Created admin account, password: %s\n", password)
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
