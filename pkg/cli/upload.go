package cli

import (
	"context"
	"io"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/imgbb/pkg/cli/config"
	"github.com/m-mizutani/imgbb/pkg/domain/interfaces"
	"github.com/m-mizutani/imgbb/pkg/domain/types/apperr"
	"github.com/m-mizutani/imgbb/pkg/imgbb"
	"github.com/m-mizutani/imgbb/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdUpload(stdin io.Reader, stdout io.Writer) *cli.Command {
	var (
		imgbbCfg   config.ImgBB
		storageCfg config.Storage
		name       string
		expiration int
		output     string
		useStdin   bool
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "name",
			Aliases:     []string{"n"},
			Usage:       "Name of the uploaded image",
			Destination: &name,
		},
		&cli.IntFlag{
			Name:        "expiration",
			Aliases:     []string{"e"},
			Usage:       "Delete the image after this many seconds (60-15552000, 0 keeps it)",
			Destination: &expiration,
		},
		&cli.StringFlag{
			Name:        "output",
			Usage:       "Output format [text|json|yaml]",
			Value:       outputText,
			Destination: &output,
		},
		&cli.BoolFlag{
			Name:        "stdin",
			Usage:       "Read image bytes from standard input",
			Destination: &useStdin,
		},
	}
	flags = append(flags, imgbbCfg.Flags()...)
	flags = append(flags, storageCfg.Flags()...)

	return &cli.Command{
		Name:      "upload",
		Aliases:   []string{"u"},
		Usage:     "Upload an image file or URL",
		ArgsUsage: "<path-or-url>",
		Flags:     flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := validateOutput(output); err != nil {
				return err
			}

			var src imgbb.Source
			switch {
			case useStdin && cmd.Args().Len() == 0:
				src = imgbb.FromReader(stdin)
			case !useStdin && cmd.Args().Len() == 1:
				src = imgbb.FromString(cmd.Args().First())
			default:
				return goerr.New("give exactly one image path or URL, or --stdin",
					goerr.V("args", cmd.Args().Slice()),
					goerr.T(apperr.ErrTagInvalidInput))
			}

			if imgbbCfg.APIKey == "" {
				return goerr.Wrap(apperr.ErrAPIKeyNotConfigured, "set --api-key or IMGBB_API_KEY")
			}

			client, err := imgbbCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure ImgBB client")
			}

			opts := []usecase.Option{
				usecase.WithUploader(client),
				usecase.WithAPIKey(imgbbCfg.APIKey),
			}
			if storageCfg.IsConfigured() {
				repo, cleanup, err := storageCfg.CreateRepository(ctx)
				if err != nil {
					return goerr.Wrap(err, "failed to configure receipt storage")
				}
				defer cleanup()
				opts = append(opts, usecase.WithStorage(repo))
			}
			uc := usecase.New(opts...)

			ctxlog.From(ctx).Debug("uploading image",
				"source", src.String(),
				"imgbb", imgbbCfg,
				"storage", storageCfg,
			)

			// Write the receipt before the process exits
			result, err := uc.UploadImage(ctx, &interfaces.UploadImageRequest{
				Source:     src,
				Name:       name,
				Expiration: expiration,
			})
			if err != nil {
				return err
			}

			return printResponse(stdout, output, result.Response, result.Receipt)
		},
	}
}
