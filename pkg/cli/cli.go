package cli

import (
	"context"
	"io"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/imgbb/pkg/cli/config"
	"github.com/m-mizutani/imgbb/pkg/utils/errors"
	"github.com/urfave/cli/v3"
)

// Run runs the imgbb command line application
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdin, os.Stdout)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	// Env-sourced flags must see variables from the dotenv file
	if err := config.LoadEnvFile(); err != nil {
		errors.Handle(ctx, err)
		return err
	}

	var loggerCfg config.Logger
	app := &cli.Command{
		Name:   "imgbb",
		Usage:  "Upload images to ImgBB",
		Flags:  loggerCfg.Flags(),
		Writer: stdout,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger, err := loggerCfg.Configure()
			if err != nil {
				return ctx, err
			}

			ctx = ctxlog.With(ctx, logger)
			ctxlog.From(ctx).Debug("base options", "logger", loggerCfg)
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdUpload(stdin, stdout),
			cmdServe(),
			cmdReceipt(stdout),
			cmdTool(stdout),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		errors.Handle(ctx, goerr.Wrap(err, "failed to run app"))
		return err
	}

	return nil
}
