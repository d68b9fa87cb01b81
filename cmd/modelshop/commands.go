package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"modelshop/internal/config"
	"modelshop/internal/service/tasks"
	"modelshop/internal/storage/mysql"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.MustConfig()
			log := setupLogger(cfg.Env, cfg.ErrorLogPath)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := newApp(ctx, cfg, log)
			if err != nil {
				log.Error("failed to start", slog.String("error", err.Error()))
				return err
			}
			defer app.Close()

			srv := &http.Server{
				Addr:         cfg.Address,
				Handler:      routes(cfg, log, app),
				ReadTimeout:  cfg.HTTPServer.Timeout,
				WriteTimeout: cfg.HTTPServer.Timeout,
				IdleTimeout:  cfg.HTTPServer.IdleTimeout,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info("server started", slog.String("address", cfg.Address), slog.String("env", cfg.Env))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					log.Error("server failed", slog.String("error", err.Error()))
					return err
				}
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error("graceful shutdown failed", slog.String("error", err.Error()))
				return err
			}

			log.Info("server stopped")
			return nil
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Long:  `Creates every table the server needs. Safe to run multiple times.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.MustConfig()

			db, err := mysql.New(cfg.DB)
			if err != nil {
				return fmt.Errorf("failed to open db: %w", err)
			}
			defer db.Close()

			if err := db.Migrate(cmd.Context()); err != nil {
				return fmt.Errorf("failed to migrate: %w", err)
			}

			fmt.Printf("%s schema applied to %s\n", color.New(color.FgGreen).Sprint("OK"), cfg.DB.Name)
			return nil
		},
	}
}

func recomputePartsCmd() *cobra.Command {
	var controlNumber int64

	cmd := &cobra.Command{
		Use:   "recompute-parts",
		Short: "Recompute derived part statuses",
		Long: `Derives every part status again from its assignments.

Without --control-number all control numbers are processed. Finished parts are left alone.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.MustConfig()
			log := setupLogger(cfg.Env, cfg.ErrorLogPath)

			db, err := mysql.New(cfg.DB)
			if err != nil {
				return fmt.Errorf("failed to open db: %w", err)
			}
			defer db.Close()

			var target *int64
			if cmd.Flags().Changed("control-number") {
				if controlNumber <= 0 {
					return fmt.Errorf("invalid control number %d", controlNumber)
				}
				target = &controlNumber
			}

			changed, err := tasks.New(log, db, nil, nil).RecomputeParts(cmd.Context(), target)
			if err != nil {
				return err
			}

			if changed == 0 {
				fmt.Println(color.New(color.FgYellow).Sprint("No part statuses changed."))
				return nil
			}
			fmt.Printf("%s %d part statuses updated\n", color.New(color.FgGreen).Sprint("OK"), changed)
			return nil
		},
	}

	cmd.Flags().Int64Var(&controlNumber, "control-number", 0, "only recompute parts of this control number")

	return cmd
}
