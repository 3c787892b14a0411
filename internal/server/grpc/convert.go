package grpc

import (
	"github.com/dmitrijs2005/skillswap/internal/rpc"
	"github.com/dmitrijs2005/skillswap/internal/server/models"
)

func toSession(s *models.Session) rpc.Session {
	return rpc.Session{
		ID:               s.ID,
		MentorID:         s.MentorID,
		LearnerID:        s.LearnerID,
		Skill:            string(s.Skill),
		Status:           string(s.Status),
		MentorConfirmed:  s.MentorConfirmed,
		LearnerConfirmed: s.LearnerConfirmed,
		OTP:              string(s.OTP),
		CreatedAt:        s.CreatedAt,
		CompletedAt:      s.CompletedAt,
		CancelledAt:      s.CancelledAt,
	}
}

// toTransaction renders a ledger row; direction and counterparty are filled
// only when viewer is set.
func toTransaction(t *models.Transaction, viewer string) rpc.Transaction {
	out := rpc.Transaction{
		ID:          t.ID,
		Kind:        string(t.Kind),
		FromUserID:  t.FromUserID,
		ToUserID:    t.ToUserID,
		Amount:      t.Amount,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
	}
	if t.SessionID != nil {
		out.SessionID = *t.SessionID
	}
	if viewer != "" {
		out.Direction = t.Direction(viewer)
		out.Counterparty = t.Counterparty(viewer)
	}
	return out
}

func toWallet(w *models.Wallet) rpc.Wallet {
	txs := make([]rpc.Transaction, 0, len(w.Transactions))
	for _, t := range w.Transactions {
		txs = append(txs, toTransaction(t, w.UserID))
	}
	return rpc.Wallet{
		UserID:       w.UserID,
		Balance:      w.Balance,
		TotalEarned:  w.TotalEarned,
		TotalSpent:   w.TotalSpent,
		Transactions: txs,
	}
}

func toReview(r *models.Review) rpc.Review {
	return rpc.Review{
		ID:        r.ID,
		SessionID: r.SessionID,
		MentorID:  r.MentorID,
		LearnerID: r.LearnerID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}

func toUser(u *models.User) rpc.User {
	return rpc.User{
		ID:            u.ID,
		DisplayName:   u.DisplayName,
		SkillsOffered: models.SkillStrings(u.SkillsOffered),
		SkillsWanted:  models.SkillStrings(u.SkillsWanted),
		CoinBalance:   u.CoinBalance,
		Blocked:       u.Blocked,
		Rating:        u.Rating,
		ReviewCount:   u.ReviewCount,
		TotalSessions: u.TotalSessions,
	}
}

func fromSnapshot(s rpc.UserSnapshot) *models.UserSnapshot {
	return &models.UserSnapshot{
		ID:            s.ID,
		DisplayName:   s.DisplayName,
		SkillsOffered: s.SkillsOffered,
		SkillsWanted:  s.SkillsWanted,
		Blocked:       s.Blocked,
	}
}
