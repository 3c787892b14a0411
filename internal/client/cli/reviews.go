package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) reviewCmd() *cobra.Command {
	var (
		rating  int
		comment string
	)

	cmd := &cobra.Command{
		Use:   "review SESSION_ID",
		Short: "Review the mentor of a completed session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.callContext(cmd)
			defer cancel()

			id, err := a.api.SubmitReview(ctx, args[0], rating, comment)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Review %s submitted\n", id)
			return nil
		},
	}
	cmd.Flags().IntVarP(&rating, "rating", "r", 0, "rating from 1 to 5")
	cmd.Flags().StringVarP(&comment, "comment", "m", "", "optional comment, up to 500 characters")
	_ = cmd.MarkFlagRequired("rating")
	return cmd
}

func (a *App) reviewsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "reviews MENTOR_ID",
		Short: "List reviews received by a mentor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.callContext(cmd)
			defer cancel()

			list, err := a.api.ListReviews(ctx, args[0], limit)
			if err != nil {
				return err
			}
			return printReviews(cmd.OutOrStdout(), list)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum rows (server default when 0)")
	return cmd
}
