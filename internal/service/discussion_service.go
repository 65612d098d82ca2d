package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/academix-api/internal/dto"
	"github.com/noah-isme/academix-api/internal/models"
	appErrors "github.com/noah-isme/academix-api/pkg/errors"
)

type discussionRepository interface {
	ListQueries(ctx context.Context, courseID, studentID string) ([]dto.QueryItem, error)
	FindQuery(ctx context.Context, id string) (*models.Query, error)
	CreateQuery(ctx context.Context, q *models.Query) error
	SetReply(ctx context.Context, id, reply string, at time.Time) error
	CreateFeedback(ctx context.Context, f *models.Feedback) error
	FindFeedback(ctx context.Context, accountID, courseID string) (*models.Feedback, error)
	ListFeedback(ctx context.Context, courseID string) ([]dto.FeedbackItem, error)
}

var feedbackConstraintErrors = map[string]*appErrors.Error{
	"feedback_account_course_key": appErrors.ErrFeedbackAlreadySubmitted,
}

// DiscussionService handles course question threads and course feedback.
type DiscussionService struct {
	repo      discussionRepository
	access    courseAccess
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewDiscussionService constructs a DiscussionService.
func NewDiscussionService(repo discussionRepository, courses courseLookup, validate *validator.Validate, logger *zap.Logger) *DiscussionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DiscussionService{repo: repo, access: courseAccess{courses: courses}, validator: validate, logger: logger, now: time.Now}
}

// ListQueries returns the course's questions. With mine set, a student only sees their own.
func (s *DiscussionService) ListQueries(ctx context.Context, identity *models.Identity, code string, mine bool) ([]dto.QueryItem, error) {
	course, err := s.access.member(ctx, identity, code)
	if err != nil {
		return nil, err
	}
	studentID := ""
	if mine && identity.IsStudent() {
		studentID = identity.AccountID
	}
	items, err := s.repo.ListQueries(ctx, course.ID, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list queries")
	}
	if items == nil {
		items = []dto.QueryItem{}
	}
	return items, nil
}

// Ask posts a question from an enrolled student.
func (s *DiscussionService) Ask(ctx context.Context, identity *models.Identity, code string, req dto.AskQueryRequest) (*models.Query, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query payload")
	}
	course, err := s.access.enrolled(ctx, identity, code)
	if err != nil {
		return nil, err
	}
	q := &models.Query{CourseID: course.ID, StudentID: identity.AccountID, Question: strings.TrimSpace(req.Question)}
	if err := s.repo.CreateQuery(ctx, q); err != nil {
		return nil, appErrors.FromStorage(err, nil, "failed to create query")
	}
	return q, nil
}

// Reply sets the answer to a question. A query holds one reply; replying again replaces it.
func (s *DiscussionService) Reply(ctx context.Context, identity *models.Identity, code, queryID string, req dto.ReplyQueryRequest) (*models.Query, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reply payload")
	}
	course, err := s.access.owner(ctx, identity, code)
	if err != nil {
		return nil, err
	}

	q, err := s.repo.FindQuery(ctx, queryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "query not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load query")
	}
	if q.CourseID != course.ID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "query not found")
	}

	reply := strings.TrimSpace(req.Reply)
	at := s.now().UTC()
	if err := s.repo.SetReply(ctx, q.ID, reply, at); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "query not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save reply")
	}
	if q.Answered() {
		s.logger.Info("query reply replaced", zap.String("query_id", q.ID))
	}
	q.Reply = &reply
	q.RepliedAt = &at
	return q, nil
}

// SubmitFeedback records the caller's single feedback entry for a course.
func (s *DiscussionService) SubmitFeedback(ctx context.Context, identity *models.Identity, code string, req dto.SubmitFeedbackRequest) (*models.Feedback, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid feedback payload")
	}
	course, err := s.access.enrolled(ctx, identity, code)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.FindFeedback(ctx, identity.AccountID, course.ID); err == nil {
		return nil, appErrors.Clone(appErrors.ErrFeedbackAlreadySubmitted, "")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check feedback")
	}

	f := &models.Feedback{AccountID: identity.AccountID, CourseID: course.ID, Comment: strings.TrimSpace(req.Comment)}
	if err := s.repo.CreateFeedback(ctx, f); err != nil {
		return nil, appErrors.FromStorage(err, feedbackConstraintErrors, "failed to save feedback")
	}
	return f, nil
}

// FeedbackStatus tells a student whether they already left feedback on the course.
func (s *DiscussionService) FeedbackStatus(ctx context.Context, identity *models.Identity, code string) (*dto.FeedbackStatus, error) {
	course, err := s.access.enrolled(ctx, identity, code)
	if err != nil {
		return nil, err
	}
	status := &dto.FeedbackStatus{CourseCode: course.CourseCode}
	f, err := s.repo.FindFeedback(ctx, identity.AccountID, course.ID)
	switch {
	case err == nil:
		status.Submitted = true
		status.SubmittedAt = &f.CreatedAt
	case !errors.Is(err, sql.ErrNoRows):
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check feedback")
	}
	return status, nil
}

// FeedbackForCourse aggregates every feedback entry for a course the caller teaches.
func (s *DiscussionService) FeedbackForCourse(ctx context.Context, identity *models.Identity, code string) (*dto.FeedbackSummary, error) {
	course, err := s.access.owner(ctx, identity, code)
	if err != nil {
		return nil, err
	}
	entries, err := s.repo.ListFeedback(ctx, course.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list feedback")
	}
	if entries == nil {
		entries = []dto.FeedbackItem{}
	}
	return &dto.FeedbackSummary{CourseCode: course.CourseCode, Count: len(entries), Entries: entries}, nil
}
