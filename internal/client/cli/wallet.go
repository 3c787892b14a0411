package cli

import (
	"fmt"
	"path"
	"path/filepath"

	"github.com/dmitrijs2005/skillswap/internal/filex"
	"github.com/dmitrijs2005/skillswap/internal/netx"
	"github.com/spf13/cobra"
)

func (a *App) walletCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Show your balance and recent transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.callContext(cmd)
			defer cancel()

			w, err := a.api.GetWallet(ctx, limit)
			if err != nil {
				return err
			}
			return printWallet(cmd.OutOrStdout(), w)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum transactions (server default when 0)")
	return cmd
}

func (a *App) statementCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "statement",
		Short: "Export your transaction history as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.callContext(cmd)
			defer cancel()

			resp, err := a.api.ExportStatement(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Statement: %s\n", resp.ObjectKey)

			if outDir == "" {
				fmt.Fprintf(out, "Download: %s\n", resp.URL)
				return nil
			}

			dir, err := filex.EnsureDir(outDir)
			if err != nil {
				return err
			}
			data, err := netx.DownloadFromPresignedURL(ctx, resp.URL)
			if err != nil {
				return err
			}
			target := filepath.Join(dir, path.Base(resp.ObjectKey))
			if err := filex.WriteFileAtomic(target, data); err != nil {
				return err
			}
			fmt.Fprintf(out, "Saved to %s\n", target)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "download the CSV into this directory")
	return cmd
}
