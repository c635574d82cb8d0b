package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/imgbb/pkg/cli/config"
	server "github.com/m-mizutani/imgbb/pkg/controller/http"
	"github.com/m-mizutani/imgbb/pkg/usecase"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func cmdServe() *cli.Command {
	var (
		addr       string
		imgbbCfg   config.ImgBB
		storageCfg config.Storage
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Aliases:     []string{"a"},
			Sources:     cli.EnvVars("IMGBB_ADDR"),
			Usage:       "Listen address (default: 127.0.0.1:8080)",
			Value:       "127.0.0.1:8080",
			Destination: &addr,
		},
	}
	flags = append(flags, imgbbCfg.Flags()...)
	flags = append(flags, storageCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Run the upload web server",
		Flags:   flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logger := ctxlog.From(ctx)
			logger.Info("starting server",
				"addr", addr,
				"imgbb", imgbbCfg,
				"storage", storageCfg,
			)
			if imgbbCfg.APIKey == "" {
				logger.Warn("IMGBB_API_KEY is not set, uploads will fail")
			}

			client, err := imgbbCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure ImgBB client")
			}

			// Without a configured backend, receipts live in memory for the life of the server
			repo, cleanup, err := storageCfg.CreateRepository(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure receipt storage")
			}
			defer cleanup()

			uc := usecase.New(
				usecase.WithUploader(client),
				usecase.WithStorage(repo),
				usecase.WithAPIKey(imgbbCfg.APIKey),
			)

			httpServer := &http.Server{
				Addr:              addr,
				Handler:           server.New(server.WithUploadUseCases(uc)),
				ReadTimeout:       imgbbCfg.Timeout + 30*time.Second,
				ReadHeaderTimeout: 10 * time.Second,
				BaseContext: func(l net.Listener) context.Context {
					return ctx
				},
			}

			sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			eg, egCtx := errgroup.WithContext(sigCtx)
			eg.Go(func() error {
				logger.Info("server started", "addr", addr)
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return goerr.Wrap(err, "failed to serve", goerr.V("addr", addr))
				}
				return nil
			})
			eg.Go(func() error {
				<-egCtx.Done()
				logger.Info("shutting down server...")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()

				// In-flight uploads, and the receipt writes inside them, finish first
				if err := httpServer.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server")
				}
				return nil
			})

			return eg.Wait()
		},
	}
}
