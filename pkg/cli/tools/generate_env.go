package tools

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/imgbb/pkg/cli/config"
	"github.com/urfave/cli/v3"
)

// CmdGenerateEnv returns the generate-env command
func CmdGenerateEnv(stdout io.Writer) *cli.Command {
	var (
		outputPath string
		force      bool
	)

	return &cli.Command{
		Name:    "generate-env",
		Aliases: []string{"g"},
		Usage:   "Generate a dotenv template with every supported variable",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "path",
				Usage:       "Output file path",
				Value:       ".env",
				Destination: &outputPath,
			},
			&cli.BoolFlag{
				Name:        "force",
				Usage:       "Overwrite existing file",
				Destination: &force,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if _, err := os.Stat(outputPath); err == nil && !force {
				return goerr.New("file already exists, use --force to overwrite", goerr.V("path", outputPath))
			}

			if err := config.GenerateEnvFile(outputPath); err != nil {
				return err
			}

			ctxlog.From(ctx).Info("env template generated", "path", outputPath)
			fmt.Fprintf(stdout, "✅ Env template generated: %s\n", outputPath)
			fmt.Fprintln(stdout, "\nNext steps:")
			fmt.Fprintln(stdout, "1. Set IMGBB_API_KEY to your ImgBB API key")
			fmt.Fprintln(stdout, "2. Configure one receipt storage backend if you want receipts")
			fmt.Fprintf(stdout, "3. Keep the file out of version control, or point %s at it\n", config.EnvFileEnv)

			return nil
		},
	}
}
