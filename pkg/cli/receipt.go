package cli

import (
	"context"
	"io"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/imgbb/pkg/cli/config"
	"github.com/m-mizutani/imgbb/pkg/domain/types"
	"github.com/m-mizutani/imgbb/pkg/domain/types/apperr"
	"github.com/m-mizutani/imgbb/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdReceipt(stdout io.Writer) *cli.Command {
	var (
		storageCfg config.Storage
		output     string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "output",
			Usage:       "Output format [text|json|yaml]",
			Value:       outputText,
			Destination: &output,
		},
	}
	flags = append(flags, storageCfg.Flags()...)

	newUseCase := func(ctx context.Context) (*usecase.Upload, func(), error) {
		if err := validateOutput(output); err != nil {
			return nil, nil, err
		}
		if !storageCfg.IsConfigured() {
			return nil, nil, goerr.Wrap(apperr.ErrStorageNotConfigured,
				"set --file-storage-path, --cloud-storage-bucket or --s3-bucket")
		}
		repo, cleanup, err := storageCfg.CreateRepository(ctx)
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to configure receipt storage")
		}
		return usecase.New(usecase.WithStorage(repo)), cleanup, nil
	}

	return &cli.Command{
		Name:    "receipt",
		Aliases: []string{"r"},
		Usage:   "Show stored upload receipts",
		Flags:   flags,
		Commands: []*cli.Command{
			{
				Name:      "show",
				Usage:     "Show one receipt",
				ArgsUsage: "<receipt-id>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 1 {
						return goerr.New("receipt ID is required", goerr.T(apperr.ErrTagRequiredField))
					}

					uc, cleanup, err := newUseCase(ctx)
					if err != nil {
						return err
					}
					defer cleanup()

					r, err := uc.GetReceipt(ctx, types.ReceiptID(cmd.Args().First()))
					if err != nil {
						return err
					}
					return printReceipt(stdout, output, r)
				},
			},
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List all receipts",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					uc, cleanup, err := newUseCase(ctx)
					if err != nil {
						return err
					}
					defer cleanup()

					receipts, err := uc.ListReceipts(ctx)
					if err != nil {
						return err
					}
					return printReceipts(stdout, output, receipts)
				},
			},
		},
	}
}
