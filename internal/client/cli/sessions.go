package cli

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) bookCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "book MENTOR_ID SKILL",
		Short: "Book a session with a mentor (costs 1 coin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.callContext(cmd)
			defer cancel()

			resp, err := a.api.BookSession(ctx, args[0], args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Session %s booked (%s)\n", resp.SessionID, resp.Status)
			if resp.OTP != "" {
				fmt.Fprintf(out, "Confirmation code: %s\n", resp.OTP)
			} else {
				fmt.Fprintln(out, "Confirmation code was sent to the mentor")
			}
			return nil
		},
	}
}

func (a *App) confirmCmd() *cobra.Command {
	var otp string

	cmd := &cobra.Command{
		Use:   "confirm SESSION_ID",
		Short: "Confirm attendance with the session code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if otp == "" {
				code, err := GetOTP(cmd.OutOrStdout())
				if err != nil {
					return fmt.Errorf("read otp: %w", err)
				}
				otp = code
			}

			ctx, cancel := a.callContext(cmd)
			defer cancel()

			status, err := a.api.ConfirmAttendance(ctx, args[0], otp)
			if err != nil {
				return err
			}

			if status == "completed" {
				fmt.Fprintf(cmd.OutOrStdout(), "Session %s completed\n", args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Session %s %s, waiting for the other participant\n", args[0], status)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&otp, "otp", "", "six-digit confirmation code (prompted when empty)")
	return cmd
}

func (a *App) cancelCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "cancel SESSION_ID",
		Short: "Cancel a pending session and refund the learner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				ok, err := Confirm(bufio.NewReader(cmd.InOrStdin()), "Cancel session "+args[0]+"?", cmd.OutOrStdout())
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
					return nil
				}
			}

			ctx, cancel := a.callContext(cmd)
			defer cancel()

			status, err := a.api.CancelSession(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Session %s %s\n", args[0], status)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func (a *App) sessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "session SESSION_ID",
		Short: "Show one session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.callContext(cmd)
			defer cancel()

			s, err := a.api.GetSession(ctx, args[0])
			if err != nil {
				return err
			}
			printSession(cmd.OutOrStdout(), s)
			return nil
		},
	}
}

func (a *App) sessionsCmd() *cobra.Command {
	var (
		role   string
		status string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List your sessions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.callContext(cmd)
			defer cancel()

			list, err := a.api.ListSessions(ctx, role, status, limit)
			if err != nil {
				return err
			}
			return printSessions(cmd.OutOrStdout(), list)
		},
	}
	cmd.Flags().StringVar(&role, "role", "", "only sessions where you are the mentor or the learner")
	cmd.Flags().StringVar(&status, "status", "", "pending, completed or cancelled")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum rows (server default when 0)")
	return cmd
}
