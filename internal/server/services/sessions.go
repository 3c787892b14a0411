package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/skillswap/internal/common"
	"github.com/dmitrijs2005/skillswap/internal/dbx"
	"github.com/dmitrijs2005/skillswap/internal/logging"
	"github.com/dmitrijs2005/skillswap/internal/server/config"
	"github.com/dmitrijs2005/skillswap/internal/server/events"
	"github.com/dmitrijs2005/skillswap/internal/server/metrics"
	"github.com/dmitrijs2005/skillswap/internal/server/models"
	"github.com/dmitrijs2005/skillswap/internal/server/repositories/repomanager"
)

// BookingPrice is what a learner pays a mentor per session.
const BookingPrice int64 = 1

// SessionService owns the session state machine: pending on booking,
// completed once both sides confirm with the shared code, cancelled with a
// refund otherwise.
type SessionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	ledger      *LedgerService
	publisher   events.Publisher
	logger      logging.Logger
	otpDelivery string
}

func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, ledger *LedgerService,
	publisher events.Publisher, logger logging.Logger, cfg *config.Config) *SessionService {
	return &SessionService{
		db:          db,
		repomanager: m,
		ledger:      ledger,
		publisher:   publisher,
		logger:      logger.With("module", "sessions"),
		otpDelivery: cfg.OTPDelivery,
	}
}

// BookSession creates a pending session and charges the learner. The
// returned session carries the OTP unless it is delivered out of band.
func (s *SessionService) BookSession(ctx context.Context, learnerID, mentorID, rawSkill string) (_ *models.Session, err error) {
	ctx, span := startSpan(ctx, "Sessions.BookSession")
	defer func() { endSpan(span, err) }()
	learnerID, mentorID = models.CanonicalID(learnerID), models.CanonicalID(mentorID)

	skill, err := models.ParseSkill(rawSkill)
	if err != nil {
		return nil, err
	}
	if learnerID == mentorID {
		return nil, fmt.Errorf("%w: cannot book a session with yourself", common.ErrForbidden)
	}

	users := s.repomanager.Users(s.db)

	mentor, err := activeUser(ctx, users.Get, mentorID, "mentor")
	if err != nil {
		return nil, err
	}
	if !mentor.Offers(skill) {
		return nil, common.ErrSkillNotOffered
	}

	learner, err := activeUser(ctx, users.Get, learnerID, "learner")
	if err != nil {
		return nil, err
	}
	if learner.CoinBalance < BookingPrice {
		return nil, common.ErrInsufficientBalance
	}

	var charge *models.Transaction
	sess, err := dbx.InTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.Session, error) {
		// The session insert takes key-share locks on both users; lock them
		// for update first so concurrent bookings queue on the same order.
		if _, err := s.repomanager.Users(tx).LockPair(ctx, learnerID, mentorID); err != nil {
			return nil, err
		}

		otp, err := models.NewOTP()
		if err != nil {
			return nil, err
		}

		sess := &models.Session{
			ID:        uuid.NewString(),
			MentorID:  mentorID,
			LearnerID: learnerID,
			Skill:     skill,
			Status:    models.SessionPending,
			OTP:       otp,
		}
		if err := s.repomanager.Sessions(tx).Create(ctx, sess); err != nil {
			return nil, err
		}

		charge, err = s.ledger.transferTx(ctx, tx, models.TransferRequest{
			From:        learnerID,
			To:          mentorID,
			Amount:      BookingPrice,
			Kind:        models.KindSessionBooking,
			SessionID:   &sess.ID,
			Description: "booking: " + string(skill),
		})
		if err != nil {
			return nil, err
		}

		return sess, nil
	})
	if err != nil {
		return nil, err
	}

	s.ledger.committed(ctx, charge)
	metrics.SessionsBooked.Inc()
	s.logger.Info(ctx, "session booked", "session_id", sess.ID, "mentor_id", mentorID, "learner_id", learnerID, "skill", skill)
	publish(ctx, s.publisher, s.logger, events.SubjectSessionBooked, sessionEvent(events.SubjectSessionBooked, sess))

	if s.otpDelivery == config.OTPDeliveryOutOfBand {
		publish(ctx, s.publisher, s.logger, events.OTPSubject(mentorID), events.OTPEvent{
			EventType: "session.otp",
			SessionID: sess.ID,
			OTP:       string(sess.OTP),
		})
		sess.OTP = ""
	}

	return sess, nil
}

// ConfirmAttendance records the caller's confirmation. The session row is
// locked for the whole check-and-set, so concurrent confirms and cancels of
// one session apply one at a time.
func (s *SessionService) ConfirmAttendance(ctx context.Context, sessionID, callerID, rawOTP string) (_ *models.Session, err error) {
	ctx, span := startSpan(ctx, "Sessions.ConfirmAttendance")
	defer func() { endSpan(span, err) }()
	sessionID, callerID = models.CanonicalID(sessionID), models.CanonicalID(callerID)

	otp, err := models.ParseOTP(rawOTP)
	if err != nil {
		return nil, err
	}

	var completed bool
	sess, err := dbx.InTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.Session, error) {
		repo := s.repomanager.Sessions(tx)

		sess, err := repo.GetForUpdate(ctx, sessionID)
		if err != nil {
			return nil, err
		}

		role := sess.Role(callerID)
		if role == models.RoleAny {
			return nil, fmt.Errorf("%w: not a participant", common.ErrForbidden)
		}
		if sess.Status != models.SessionPending {
			return nil, fmt.Errorf("%w: session is %s", common.ErrConflict, sess.Status)
		}
		if !sess.OTP.Matches(otp) {
			return nil, common.ErrInvalidOTP
		}

		if (role == models.RoleMentor && sess.MentorConfirmed) || (role == models.RoleLearner && sess.LearnerConfirmed) {
			return sess, nil
		}

		if sess.Confirm(role) {
			now := time.Now().UTC()
			sess.Status = models.SessionCompleted
			sess.CompletedAt = &now
			completed = true
		}

		if err := repo.SaveConfirmation(ctx, sess); err != nil {
			return nil, err
		}

		if completed {
			if err := s.repomanager.Users(tx).IncrementTotalSessions(ctx, sess.MentorID, sess.LearnerID); err != nil {
				return nil, err
			}
		}

		return sess, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "attendance confirmed", "session_id", sessionID, "caller_id", callerID, "status", sess.Status)
	if completed {
		metrics.SessionsCompleted.Inc()
		publish(ctx, s.publisher, s.logger, events.SubjectSessionCompleted, sessionEvent(events.SubjectSessionCompleted, sess))
	}

	sess.OTP = ""
	return sess, nil
}

// CancelSession refunds the learner and closes a pending session. If the
// mentor has already spent the coin the cancel fails and nothing changes.
func (s *SessionService) CancelSession(ctx context.Context, sessionID, callerID string) (_ *models.Session, err error) {
	ctx, span := startSpan(ctx, "Sessions.CancelSession")
	defer func() { endSpan(span, err) }()
	sessionID, callerID = models.CanonicalID(sessionID), models.CanonicalID(callerID)

	var refund *models.Transaction
	sess, err := dbx.InTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.Session, error) {
		repo := s.repomanager.Sessions(tx)

		sess, err := repo.GetForUpdate(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if sess.Role(callerID) == models.RoleAny {
			return nil, fmt.Errorf("%w: not a participant", common.ErrForbidden)
		}
		if !sess.Status.CanTransition(models.SessionCancelled) {
			return nil, fmt.Errorf("%w: session is %s", common.ErrConflict, sess.Status)
		}

		refund, err = s.ledger.transferTx(ctx, tx, models.TransferRequest{
			From:        sess.MentorID,
			To:          sess.LearnerID,
			Amount:      BookingPrice,
			Kind:        models.KindSessionReversal,
			SessionID:   &sess.ID,
			Description: "cancellation: " + string(sess.Skill),
		})
		if err != nil {
			return nil, err
		}

		now := time.Now().UTC()
		if err := repo.MarkCancelled(ctx, sess.ID, now); err != nil {
			return nil, err
		}
		sess.Status = models.SessionCancelled
		sess.CancelledAt = &now

		return sess, nil
	})
	if err != nil {
		return nil, err
	}

	s.ledger.committed(ctx, refund)
	metrics.SessionsCancelled.Inc()
	s.logger.Info(ctx, "session cancelled", "session_id", sessionID, "caller_id", callerID)
	publish(ctx, s.publisher, s.logger, events.SubjectSessionCancelled, sessionEvent(events.SubjectSessionCancelled, sess))

	sess.OTP = ""
	return sess, nil
}

// GetSession returns the session to one of its participants. With
// out-of-band delivery the mentor also gets the OTP while the session is
// pending, so a code lost in transit can be read again; everyone else never
// sees it.
func (s *SessionService) GetSession(ctx context.Context, sessionID, callerID string) (_ *models.Session, err error) {
	ctx, span := startSpan(ctx, "Sessions.GetSession")
	defer func() { endSpan(span, err) }()
	sessionID, callerID = models.CanonicalID(sessionID), models.CanonicalID(callerID)

	sess, err := s.repomanager.Sessions(s.db).Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	role := sess.Role(callerID)
	if role == models.RoleAny {
		return nil, fmt.Errorf("%w: not a participant", common.ErrForbidden)
	}

	if !s.mentorHoldsOTP(sess, role) {
		sess.OTP = ""
	}
	return sess, nil
}

func (s *SessionService) mentorHoldsOTP(sess *models.Session, role models.ParticipantRole) bool {
	return s.otpDelivery == config.OTPDeliveryOutOfBand &&
		role == models.RoleMentor &&
		sess.Status == models.SessionPending
}

// ListSessions returns the caller's sessions, newest first. role is "",
// "mentor" or "learner"; status is empty or a session status.
func (s *SessionService) ListSessions(ctx context.Context, callerID, role, status string, limit int) (_ []*models.Session, err error) {
	ctx, span := startSpan(ctx, "Sessions.ListSessions")
	defer func() { endSpan(span, err) }()
	callerID = models.CanonicalID(callerID)

	f := models.SessionFilter{UserID: callerID}

	if f.Role, err = models.ParseParticipantRole(role); err != nil {
		return nil, err
	}
	if status != "" {
		if f.Status, err = models.ParseSessionStatus(status); err != nil {
			return nil, err
		}
	}
	if f.Limit, err = normalizeLimit(limit); err != nil {
		return nil, err
	}

	list, err := s.repomanager.Sessions(s.db).List(ctx, f)
	if err != nil {
		return nil, err
	}

	for _, sess := range list {
		sess.OTP = ""
	}
	return list, nil
}

// activeUser loads a booking participant: absent users are NotFound,
// blocked ones Forbidden. The treasury is never a participant.
func activeUser(ctx context.Context, get func(context.Context, string) (*models.User, error), id, role string) (*models.User, error) {
	u, err := get(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.IsSystem {
		return nil, fmt.Errorf("%w: %s", common.ErrorNotFound, role)
	}
	if u.Blocked {
		return nil, fmt.Errorf("%w: %s is blocked", common.ErrForbidden, role)
	}
	return u, nil
}

func sessionEvent(eventType string, sess *models.Session) events.SessionEvent {
	return events.SessionEvent{
		EventType:  eventType,
		SessionID:  sess.ID,
		MentorID:   sess.MentorID,
		LearnerID:  sess.LearnerID,
		Skill:      string(sess.Skill),
		Status:     string(sess.Status),
		OccurredAt: time.Now().UTC(),
	}
}
