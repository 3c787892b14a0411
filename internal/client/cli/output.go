package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/skillswap/internal/rpc"
)

const timeLayout = "2006-01-02 15:04"

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}

func printSession(w io.Writer, s *rpc.Session) {
	fmt.Fprintf(w, "ID:        %s\n", s.ID)
	fmt.Fprintf(w, "Skill:     %s\n", s.Skill)
	fmt.Fprintf(w, "Status:    %s\n", s.Status)
	fmt.Fprintf(w, "Mentor:    %s (confirmed: %t)\n", s.MentorID, s.MentorConfirmed)
	fmt.Fprintf(w, "Learner:   %s (confirmed: %t)\n", s.LearnerID, s.LearnerConfirmed)
	if s.OTP != "" {
		fmt.Fprintf(w, "Code:      %s\n", s.OTP)
	}
	fmt.Fprintf(w, "Created:   %s\n", formatTime(&s.CreatedAt))
	if s.CompletedAt != nil {
		fmt.Fprintf(w, "Completed: %s\n", formatTime(s.CompletedAt))
	}
	if s.CancelledAt != nil {
		fmt.Fprintf(w, "Cancelled: %s\n", formatTime(s.CancelledAt))
	}
}

func printSessions(w io.Writer, list []rpc.Session) error {
	if len(list) == 0 {
		fmt.Fprintln(w, "No sessions")
		return nil
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tSKILL\tSTATUS\tMENTOR\tLEARNER\tCREATED")
	for _, s := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", s.ID, s.Skill, s.Status, s.MentorID, s.LearnerID, formatTime(&s.CreatedAt))
	}
	return tw.Flush()
}

func printReviews(w io.Writer, list []rpc.Review) error {
	if len(list) == 0 {
		fmt.Fprintln(w, "No reviews")
		return nil
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "RATING\tLEARNER\tCREATED\tCOMMENT")
	for _, r := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", r.Rating, r.LearnerID, formatTime(&r.CreatedAt), r.Comment)
	}
	return tw.Flush()
}

func printWallet(w io.Writer, wl *rpc.Wallet) error {
	fmt.Fprintf(w, "Balance: %d\n", wl.Balance)
	fmt.Fprintf(w, "Earned:  %d\n", wl.TotalEarned)
	fmt.Fprintf(w, "Spent:   %d\n", wl.TotalSpent)
	if len(wl.Transactions) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	tw := newTable(w)
	fmt.Fprintln(tw, "CREATED\tKIND\tDIR\tAMOUNT\tCOUNTERPARTY\tSESSION")
	for _, t := range wl.Transactions {
		session := t.SessionID
		if session == "" {
			session = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n", formatTime(&t.CreatedAt), t.Kind, t.Direction, t.Amount, t.Counterparty, session)
	}
	return tw.Flush()
}
