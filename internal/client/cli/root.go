package cli

import (
	"github.com/spf13/cobra"
)

func (a *App) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               "skillswap",
		Short:             "Book, confirm and review skill-exchange sessions",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default $HOME/.config/skillswap/client.toml)")
	flags.StringVar(&a.server, "server", "", "server address host:port")
	flags.StringVar(&a.token, "token", "", "access token")
	flags.DurationVar(&a.timeout, "timeout", 0, "timeout for each call")

	root.AddCommand(
		a.bookCmd(),
		a.confirmCmd(),
		a.cancelCmd(),
		a.reviewCmd(),
		a.sessionCmd(),
		a.sessionsCmd(),
		a.reviewsCmd(),
		a.walletCmd(),
		a.statementCmd(),
	)
	return root
}
