package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/academix-api/internal/dto"
	"github.com/noah-isme/academix-api/internal/models"
	appErrors "github.com/noah-isme/academix-api/pkg/errors"
)

type assignmentRepository interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.Assignment, error)
	FindByName(ctx context.Context, courseID, name string) (*models.Assignment, error)
	Create(ctx context.Context, a *models.Assignment) error
	Update(ctx context.Context, a *models.Assignment) error
	Delete(ctx context.Context, id string) error
	CountSubmissions(ctx context.Context, courseID string) (map[string]int, error)
	FindSubmission(ctx context.Context, assignmentID, studentID string) (*models.Submission, error)
	FindSubmissionByID(ctx context.Context, id string) (*models.Submission, error)
	CreateSubmission(ctx context.Context, s *models.Submission) error
	UpdateWork(ctx context.Context, s *models.Submission) error
	Grade(ctx context.Context, id string, grade float64, feedback *string) error
	ListSubmissions(ctx context.Context, assignmentID string) ([]dto.SubmissionItem, error)
	ListStudentSubmissions(ctx context.Context, courseID, studentID string) ([]dto.SubmissionItem, error)
}

var assignmentConstraintErrors = map[string]*appErrors.Error{
	"assignments_course_name_key":        appErrors.ErrDuplicateAssignment,
	"submissions_assignment_student_key": appErrors.ErrDuplicateSubmission,
}

// AssignmentService runs the assignment, submission and grading workflow.
type AssignmentService struct {
	repo      assignmentRepository
	access    courseAccess
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAssignmentService constructs an AssignmentService.
func NewAssignmentService(repo assignmentRepository, courses courseLookup, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{repo: repo, access: courseAccess{courses: courses}, metrics: metrics, validator: validate, logger: logger}
}

// Create adds an assignment to a course the caller teaches. Names are unique per course.
func (s *AssignmentService) Create(ctx context.Context, identity *models.Identity, code string, req dto.CreateAssignmentRequest) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	course, err := s.access.owner(ctx, identity, code)
	if err != nil {
		return nil, err
	}

	assignment := &models.Assignment{
		CourseID:      course.ID,
		Name:          strings.TrimSpace(req.Name),
		Description:   strings.TrimSpace(req.Description),
		DueAt:         req.DueAt.UTC(),
		MaxGrade:      req.MaxGrade,
		AttachmentRef: req.AttachmentRef,
	}
	if err := s.repo.Create(ctx, assignment); err != nil {
		return nil, appErrors.FromStorage(err, assignmentConstraintErrors, "failed to create assignment")
	}
	return assignment, nil
}

// Update edits an assignment identified by its name within the course.
func (s *AssignmentService) Update(ctx context.Context, identity *models.Identity, code, name string, req dto.UpdateAssignmentRequest) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	course, err := s.access.owner(ctx, identity, code)
	if err != nil {
		return nil, err
	}
	assignment, err := s.assignment(ctx, course.ID, name)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		assignment.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		assignment.Description = strings.TrimSpace(*req.Description)
	}
	if req.DueAt != nil {
		assignment.DueAt = req.DueAt.UTC()
	}
	if req.MaxGrade != nil {
		if *req.MaxGrade < assignment.MaxGrade {
			if err := s.checkGradesWithin(ctx, assignment.ID, *req.MaxGrade); err != nil {
				return nil, err
			}
		}
		assignment.MaxGrade = *req.MaxGrade
	}
	if req.AttachmentRef != nil {
		assignment.AttachmentRef = req.AttachmentRef
	}
	if err := s.repo.Update(ctx, assignment); err != nil {
		return nil, appErrors.FromStorage(err, assignmentConstraintErrors, "failed to update assignment")
	}
	return assignment, nil
}

// Delete removes an assignment and, through the schema, all of its submissions.
func (s *AssignmentService) Delete(ctx context.Context, identity *models.Identity, code, name string) error {
	course, err := s.access.owner(ctx, identity, code)
	if err != nil {
		return err
	}
	assignment, err := s.assignment(ctx, course.ID, name)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, assignment.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete assignment")
	}
	s.logger.Info("assignment deleted", zap.String("course_code", course.CourseCode), zap.String("assignment", assignment.Name))
	return nil
}

// List returns the course's assignments. Faculty see submission counts; students see their own submission.
func (s *AssignmentService) List(ctx context.Context, identity *models.Identity, code string) ([]dto.AssignmentItem, error) {
	course, err := s.access.member(ctx, identity, code)
	if err != nil {
		return nil, err
	}
	assignments, err := s.repo.ListByCourse(ctx, course.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}

	items := make([]dto.AssignmentItem, 0, len(assignments))
	if identity.IsFaculty() {
		counts, err := s.repo.CountSubmissions(ctx, course.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count submissions")
		}
		for _, a := range assignments {
			count := counts[a.ID]
			items = append(items, dto.AssignmentItem{Assignment: a, SubmissionCount: &count})
		}
		return items, nil
	}

	mine, err := s.repo.ListStudentSubmissions(ctx, course.ID, identity.AccountID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list submissions")
	}
	byAssignment := make(map[string]dto.SubmissionItem, len(mine))
	for _, sub := range mine {
		sub.Annotate()
		byAssignment[sub.AssignmentID] = sub
	}
	for _, a := range assignments {
		item := dto.AssignmentItem{Assignment: a}
		if sub, ok := byAssignment[a.ID]; ok {
			item.MySubmission = &sub
		}
		items = append(items, item)
	}
	return items, nil
}

// Submit turns in work for an assignment. A student gets one submission per assignment.
func (s *AssignmentService) Submit(ctx context.Context, identity *models.Identity, code, name string, req dto.SubmitWorkRequest) (*dto.SubmissionView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid submission payload")
	}
	course, err := s.access.enrolled(ctx, identity, code)
	if err != nil {
		return nil, err
	}
	assignment, err := s.assignment(ctx, course.ID, name)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.FindSubmission(ctx, assignment.ID, identity.AccountID); err == nil {
		return nil, appErrors.Clone(appErrors.ErrDuplicateSubmission, "")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check submission")
	}

	submission := &models.Submission{AssignmentID: assignment.ID, StudentID: identity.AccountID, Work: req.Work}
	if err := s.repo.CreateSubmission(ctx, submission); err != nil {
		return nil, appErrors.FromStorage(err, assignmentConstraintErrors, "failed to create submission")
	}
	view := submissionView(*submission, assignment)
	s.metrics.RecordSubmission(string(view.State))
	return view, nil
}

// EditSubmission replaces the work of the caller's submission. The turn-in time moves to now, so
// an edit after the due date turns an on-time submission late. Graded work is frozen.
func (s *AssignmentService) EditSubmission(ctx context.Context, identity *models.Identity, code, name string, req dto.SubmitWorkRequest) (*dto.SubmissionView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid submission payload")
	}
	course, err := s.access.enrolled(ctx, identity, code)
	if err != nil {
		return nil, err
	}
	assignment, err := s.assignment(ctx, course.ID, name)
	if err != nil {
		return nil, err
	}

	submission, err := s.repo.FindSubmission(ctx, assignment.ID, identity.AccountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "you have not submitted this assignment")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load submission")
	}
	if submission.Graded {
		return nil, appErrors.Clone(appErrors.ErrConflict, "graded submissions cannot be edited")
	}

	submission.Work = req.Work
	if err := s.repo.UpdateWork(ctx, submission); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update submission")
	}
	view := submissionView(*submission, assignment)
	s.metrics.RecordSubmission(string(view.State))
	return view, nil
}

// Submissions lists every submission for an assignment in a course the caller teaches.
func (s *AssignmentService) Submissions(ctx context.Context, identity *models.Identity, code, name string) ([]dto.SubmissionItem, error) {
	course, err := s.access.owner(ctx, identity, code)
	if err != nil {
		return nil, err
	}
	assignment, err := s.assignment(ctx, course.ID, name)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListSubmissions(ctx, assignment.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list submissions")
	}
	return annotate(items), nil
}

// StudentSubmissions lists one student's submissions in a course. Students may only ask for their own.
func (s *AssignmentService) StudentSubmissions(ctx context.Context, identity *models.Identity, code, studentID string) ([]dto.SubmissionItem, error) {
	course, err := s.access.member(ctx, identity, code)
	if err != nil {
		return nil, err
	}
	if identity.IsStudent() && studentID != identity.AccountID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "you can only view your own submissions")
	}
	items, err := s.repo.ListStudentSubmissions(ctx, course.ID, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list submissions")
	}
	return annotate(items), nil
}

// Grade records a grade within [0, max grade] and optional feedback on a submission.
func (s *AssignmentService) Grade(ctx context.Context, identity *models.Identity, code, name, submissionID string, req dto.GradeSubmissionRequest) (*dto.SubmissionView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade payload")
	}
	course, err := s.access.owner(ctx, identity, code)
	if err != nil {
		return nil, err
	}
	assignment, err := s.assignment(ctx, course.ID, name)
	if err != nil {
		return nil, err
	}

	grade := *req.Grade
	if grade < 0 || grade > assignment.MaxGrade {
		return nil, appErrors.Clone(appErrors.ErrGradeOutOfRange, "")
	}

	submission, err := s.repo.FindSubmissionByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "submission not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load submission")
	}
	if submission.AssignmentID != assignment.ID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "submission not found")
	}

	var feedback *string
	if req.Feedback != nil {
		trimmed := strings.TrimSpace(*req.Feedback)
		feedback = &trimmed
	}
	if err := s.repo.Grade(ctx, submission.ID, grade, feedback); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "submission not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to grade submission")
	}

	submission.Graded = true
	submission.Grade = &grade
	if feedback != nil {
		submission.Feedback = feedback
	}
	return submissionView(*submission, assignment), nil
}

// checkGradesWithin rejects a new maximum that an already given grade exceeds.
func (s *AssignmentService) checkGradesWithin(ctx context.Context, assignmentID string, maxGrade float64) error {
	rows, err := s.repo.ListSubmissions(ctx, assignmentID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load submissions")
	}
	for _, row := range rows {
		if row.Graded && row.Grade != nil && *row.Grade > maxGrade {
			return appErrors.Clone(appErrors.ErrGradeOutOfRange, "max grade is below a grade already given")
		}
	}
	return nil
}

func (s *AssignmentService) assignment(ctx context.Context, courseID, name string) (*models.Assignment, error) {
	assignment, err := s.repo.FindByName(ctx, courseID, strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	return assignment, nil
}

func submissionView(sub models.Submission, assignment *models.Assignment) *dto.SubmissionView {
	return &dto.SubmissionView{
		Submission: sub,
		Assignment: assignment.Name,
		Status:     sub.Status(assignment.DueAt),
		State:      sub.State(assignment.DueAt),
	}
}

func annotate(items []dto.SubmissionItem) []dto.SubmissionItem {
	if items == nil {
		return []dto.SubmissionItem{}
	}
	for i := range items {
		items[i].Annotate()
	}
	return items
}
