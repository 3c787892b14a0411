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
	"github.com/dmitrijs2005/skillswap/internal/server/events"
	"github.com/dmitrijs2005/skillswap/internal/server/metrics"
	"github.com/dmitrijs2005/skillswap/internal/server/models"
	"github.com/dmitrijs2005/skillswap/internal/server/repositories/repomanager"
)

// ReviewService accepts one review per completed session and folds its
// rating into the mentor's running average.
type ReviewService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	publisher   events.Publisher
	logger      logging.Logger
}

func NewReviewService(db *sql.DB, m repomanager.RepositoryManager, publisher events.Publisher, logger logging.Logger) *ReviewService {
	return &ReviewService{
		db:          db,
		repomanager: m,
		publisher:   publisher,
		logger:      logger.With("module", "reviews"),
	}
}

// SubmitReview stores the learner's review. Uniqueness per session is left
// to the unique index, so two racing submissions yield exactly one review
// and one DuplicateReview.
func (s *ReviewService) SubmitReview(ctx context.Context, sessionID, learnerID string, rating int, comment string) (_ *models.Review, err error) {
	ctx, span := startSpan(ctx, "Reviews.SubmitReview")
	defer func() { endSpan(span, err) }()
	sessionID, learnerID = models.CanonicalID(sessionID), models.CanonicalID(learnerID)

	if rating, err = models.ParseRating(rating); err != nil {
		return nil, err
	}
	if comment, err = models.ParseComment(comment); err != nil {
		return nil, err
	}

	rv, err := dbx.InTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.Review, error) {
		sess, err := s.repomanager.Sessions(tx).Get(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if sess.LearnerID != learnerID {
			return nil, fmt.Errorf("%w: only the learner can review a session", common.ErrForbidden)
		}
		if sess.Status != models.SessionCompleted {
			return nil, fmt.Errorf("%w: session is %s", common.ErrConflict, sess.Status)
		}

		rv := &models.Review{
			ID:        uuid.NewString(),
			SessionID: sess.ID,
			MentorID:  sess.MentorID,
			LearnerID: sess.LearnerID,
			Rating:    rating,
			Comment:   comment,
		}
		if err := s.repomanager.Reviews(tx).Create(ctx, rv); err != nil {
			return nil, err
		}

		if err := s.repomanager.Users(tx).FoldRating(ctx, sess.MentorID, rating); err != nil {
			return nil, err
		}

		return rv, nil
	})
	if err != nil {
		return nil, err
	}

	metrics.ReviewsSubmitted.Inc()
	s.logger.Info(ctx, "review submitted", "review_id", rv.ID, "session_id", sessionID, "rating", rating)
	publish(ctx, s.publisher, s.logger, events.SubjectReviewSubmitted, events.ReviewEvent{
		EventType:  events.SubjectReviewSubmitted,
		ReviewID:   rv.ID,
		SessionID:  rv.SessionID,
		MentorID:   rv.MentorID,
		Rating:     rv.Rating,
		OccurredAt: time.Now().UTC(),
	})

	return rv, nil
}

// ListReviews returns a mentor's reviews, newest first.
func (s *ReviewService) ListReviews(ctx context.Context, mentorID string, limit int) (_ []*models.Review, err error) {
	ctx, span := startSpan(ctx, "Reviews.ListReviews")
	defer func() { endSpan(span, err) }()
	mentorID = models.CanonicalID(mentorID)

	if limit, err = normalizeLimit(limit); err != nil {
		return nil, err
	}

	if _, err := s.repomanager.Users(s.db).Get(ctx, mentorID); err != nil {
		return nil, err
	}

	return s.repomanager.Reviews(s.db).ListByMentor(ctx, mentorID, limit)
}
