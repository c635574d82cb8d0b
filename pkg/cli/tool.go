package cli

import (
	"io"

	"github.com/m-mizutani/imgbb/pkg/cli/tools"
	"github.com/urfave/cli/v3"
)

func cmdTool(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:    "tool",
		Aliases: []string{"t"},
		Usage:   "Utility tools",
		Commands: []*cli.Command{
			tools.CmdGenerateEnv(stdout),
		},
	}
}
