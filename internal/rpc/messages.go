package rpc

import "time"

type BookSessionRequest struct {
	MentorID string `json:"mentor_id" validate:"required,uuid"`
	Skill    string `json:"skill" validate:"required,max=100"`
}

type BookSessionResponse struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
	// OTP is empty when the code is delivered out-of-band.
	OTP string `json:"otp,omitempty"`
}

type ConfirmAttendanceRequest struct {
	SessionID string `json:"session_id" validate:"required,uuid"`
	OTP       string `json:"otp" validate:"required,len=6,numeric"`
}

type ConfirmAttendanceResponse struct {
	Status string `json:"status"`
}

type CancelSessionRequest struct {
	SessionID string `json:"session_id" validate:"required,uuid"`
}

type CancelSessionResponse struct {
	Status string `json:"status"`
}

type SubmitReviewRequest struct {
	SessionID string `json:"session_id" validate:"required,uuid"`
	Rating    int    `json:"rating" validate:"min=1,max=5"`
	Comment   string `json:"comment,omitempty" validate:"max=500"`
}

type SubmitReviewResponse struct {
	ReviewID string `json:"review_id"`
}

type GetSessionRequest struct {
	SessionID string `json:"session_id" validate:"required,uuid"`
}

type GetSessionResponse struct {
	Session Session `json:"session"`
}

type ListSessionsRequest struct {
	Role   string `json:"role,omitempty" validate:"omitempty,oneof=mentor learner"`
	Status string `json:"status,omitempty" validate:"omitempty,oneof=pending completed cancelled"`
	Limit  int    `json:"limit,omitempty" validate:"min=0"`
}

type ListSessionsResponse struct {
	Sessions []Session `json:"sessions"`
}

type GetWalletRequest struct {
	Limit int `json:"limit,omitempty" validate:"min=0"`
}

type GetWalletResponse struct {
	Wallet Wallet `json:"wallet"`
}

type ExportStatementRequest struct{}

type ExportStatementResponse struct {
	ObjectKey string `json:"object_key"`
	URL       string `json:"url"`
}

type ListReviewsRequest struct {
	MentorID string `json:"mentor_id" validate:"required,uuid"`
	Limit    int    `json:"limit,omitempty" validate:"min=0"`
}

type ListReviewsResponse struct {
	Reviews []Review `json:"reviews"`
}

type SyncUserRequest struct {
	User UserSnapshot `json:"user"`
}

type SyncUserResponse struct {
	User User `json:"user"`
}

type AdjustBalanceRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Delta  int64  `json:"delta" validate:"required"`
	Reason string `json:"reason,omitempty" validate:"max=200"`
}

type AdjustBalanceResponse struct {
	Transaction Transaction `json:"transaction"`
}

type Session struct {
	ID               string     `json:"id"`
	MentorID         string     `json:"mentor_id"`
	LearnerID        string     `json:"learner_id"`
	Skill            string     `json:"skill"`
	Status           string     `json:"status"`
	MentorConfirmed  bool       `json:"mentor_confirmed"`
	LearnerConfirmed bool       `json:"learner_confirmed"`
	OTP              string     `json:"otp,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	CancelledAt      *time.Time `json:"cancelled_at,omitempty"`
}

type Transaction struct {
	ID           string    `json:"id"`
	Kind         string    `json:"kind"`
	FromUserID   string    `json:"from_user_id"`
	ToUserID     string    `json:"to_user_id"`
	Direction    string    `json:"direction,omitempty"`
	Counterparty string    `json:"counterparty,omitempty"`
	Amount       int64     `json:"amount"`
	SessionID    string    `json:"session_id,omitempty"`
	Description  string    `json:"description,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type Wallet struct {
	UserID       string        `json:"user_id"`
	Balance      int64         `json:"balance"`
	TotalEarned  int64         `json:"total_earned"`
	TotalSpent   int64         `json:"total_spent"`
	Transactions []Transaction `json:"transactions"`
}

type Review struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	MentorID  string    `json:"mentor_id"`
	LearnerID string    `json:"learner_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// UserSnapshot is the directory record pushed by the identity system.
type UserSnapshot struct {
	ID            string   `json:"id" validate:"required,uuid"`
	DisplayName   string   `json:"display_name" validate:"max=200"`
	SkillsOffered []string `json:"skills_offered" validate:"dive,required,max=100"`
	SkillsWanted  []string `json:"skills_wanted" validate:"dive,required,max=100"`
	Blocked       bool     `json:"blocked"`
}

type User struct {
	ID            string   `json:"id"`
	DisplayName   string   `json:"display_name"`
	SkillsOffered []string `json:"skills_offered"`
	SkillsWanted  []string `json:"skills_wanted"`
	CoinBalance   int64    `json:"coin_balance"`
	Blocked       bool     `json:"blocked"`
	Rating        float64  `json:"rating"`
	ReviewCount   int      `json:"review_count"`
	TotalSessions int      `json:"total_sessions"`
}
