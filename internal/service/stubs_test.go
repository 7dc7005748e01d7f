package service

import (
	"context"
	"testing"

	"quorum/internal/models"

	"github.com/stretchr/testify/require"
)

// voteRepoStub is a stub for repository.VoteRepository.
type voteRepoStub struct {
	applyFn          func(context.Context, uint, models.TargetType, uint, int) (models.VoteTransition, error)
	stateFn          func(context.Context, uint, models.TargetType, uint) (models.VoteState, error)
	targetIDsFn      func(context.Context, uint, models.TargetType, int) ([]uint, error)
	countByUserFn    func(context.Context, uint, int) (int64, error)
	voterIDsFn       func(context.Context, models.TargetType, uint, int) ([]uint, error)
	deleteByTargetFn func(context.Context, models.TargetType, uint) error
	deleteByUserFn   func(context.Context, uint) error
}

func (s *voteRepoStub) Apply(ctx context.Context, userID uint, targetType models.TargetType, targetID uint, value int) (models.VoteTransition, error) {
	return s.applyFn(ctx, userID, targetType, targetID, value)
}
func (s *voteRepoStub) State(ctx context.Context, userID uint, targetType models.TargetType, targetID uint) (models.VoteState, error) {
	return s.stateFn(ctx, userID, targetType, targetID)
}
func (s *voteRepoStub) TargetIDs(ctx context.Context, userID uint, targetType models.TargetType, value int) ([]uint, error) {
	return s.targetIDsFn(ctx, userID, targetType, value)
}
func (s *voteRepoStub) CountByUser(ctx context.Context, userID uint, value int) (int64, error) {
	return s.countByUserFn(ctx, userID, value)
}
func (s *voteRepoStub) VoterIDs(ctx context.Context, targetType models.TargetType, targetID uint, value int) ([]uint, error) {
	return s.voterIDsFn(ctx, targetType, targetID, value)
}
func (s *voteRepoStub) DeleteByTarget(ctx context.Context, targetType models.TargetType, targetID uint) error {
	return s.deleteByTargetFn(ctx, targetType, targetID)
}
func (s *voteRepoStub) DeleteByUser(ctx context.Context, userID uint) error {
	return s.deleteByUserFn(ctx, userID)
}

func noopVoteRepo() *voteRepoStub {
	return &voteRepoStub{
		applyFn: func(_ context.Context, _ uint, _ models.TargetType, _ uint, value int) (models.VoteTransition, error) {
			after := models.StateUpvoted
			if value == models.VoteDown {
				after = models.StateDownvoted
			}
			return models.VoteTransition{Before: models.StateNone, After: after}, nil
		},
		stateFn: func(_ context.Context, _ uint, _ models.TargetType, _ uint) (models.VoteState, error) {
			return models.StateNone, nil
		},
		targetIDsFn:      func(_ context.Context, _ uint, _ models.TargetType, _ int) ([]uint, error) { return nil, nil },
		countByUserFn:    func(_ context.Context, _ uint, _ int) (int64, error) { return 0, nil },
		voterIDsFn:       func(_ context.Context, _ models.TargetType, _ uint, _ int) ([]uint, error) { return nil, nil },
		deleteByTargetFn: func(_ context.Context, _ models.TargetType, _ uint) error { return nil },
		deleteByUserFn:   func(_ context.Context, _ uint) error { return nil },
	}
}

// questionRepoStub is a stub for repository.QuestionRepository.
type questionRepoStub struct {
	createFn        func(context.Context, *models.Question, []string) error
	getByIDFn       func(context.Context, uint, uint) (*models.Question, error)
	listFn          func(context.Context, int, int, uint, string) ([]*models.Question, error)
	listWithAnsFn   func(context.Context, int, int) ([]*models.Question, error)
	updateFn        func(context.Context, *models.Question, []string) error
	deleteFn        func(context.Context, uint) error
	countByAuthorFn func(context.Context, uint) (int64, error)
}

func (s *questionRepoStub) Create(ctx context.Context, question *models.Question, tags []string) error {
	return s.createFn(ctx, question, tags)
}
func (s *questionRepoStub) GetByID(ctx context.Context, id uint, viewerID uint) (*models.Question, error) {
	return s.getByIDFn(ctx, id, viewerID)
}
func (s *questionRepoStub) List(ctx context.Context, limit, offset int, viewerID uint, tag string) ([]*models.Question, error) {
	return s.listFn(ctx, limit, offset, viewerID, tag)
}
func (s *questionRepoStub) ListWithAnswers(ctx context.Context, limit, offset int) ([]*models.Question, error) {
	return s.listWithAnsFn(ctx, limit, offset)
}
func (s *questionRepoStub) Update(ctx context.Context, question *models.Question, tags []string) error {
	return s.updateFn(ctx, question, tags)
}
func (s *questionRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *questionRepoStub) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	return s.countByAuthorFn(ctx, authorID)
}

func noopQuestionRepo() *questionRepoStub {
	return &questionRepoStub{
		createFn: func(_ context.Context, q *models.Question, _ []string) error {
			q.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint, _ uint) (*models.Question, error) {
			return &models.Question{ID: id, Title: "How do I test services in Go?", AuthorID: 10}, nil
		},
		listFn:          func(_ context.Context, _, _ int, _ uint, _ string) ([]*models.Question, error) { return nil, nil },
		listWithAnsFn:   func(_ context.Context, _, _ int) ([]*models.Question, error) { return nil, nil },
		updateFn:        func(_ context.Context, _ *models.Question, _ []string) error { return nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
		countByAuthorFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// answerRepoStub is a stub for repository.AnswerRepository.
type answerRepoStub struct {
	createFn         func(context.Context, *models.Answer) error
	getByIDFn        func(context.Context, uint, uint) (*models.Answer, error)
	listByQuestionFn func(context.Context, uint, uint) ([]*models.Answer, error)
	updateFn         func(context.Context, *models.Answer) error
	deleteFn         func(context.Context, uint) error
	countByAuthorFn  func(context.Context, uint) (int64, error)
}

func (s *answerRepoStub) Create(ctx context.Context, answer *models.Answer) error {
	return s.createFn(ctx, answer)
}
func (s *answerRepoStub) GetByID(ctx context.Context, id uint, viewerID uint) (*models.Answer, error) {
	return s.getByIDFn(ctx, id, viewerID)
}
func (s *answerRepoStub) ListByQuestion(ctx context.Context, questionID uint, viewerID uint) ([]*models.Answer, error) {
	return s.listByQuestionFn(ctx, questionID, viewerID)
}
func (s *answerRepoStub) Update(ctx context.Context, answer *models.Answer) error {
	return s.updateFn(ctx, answer)
}
func (s *answerRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *answerRepoStub) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	return s.countByAuthorFn(ctx, authorID)
}

func noopAnswerRepo() *answerRepoStub {
	return &answerRepoStub{
		createFn: func(_ context.Context, a *models.Answer) error {
			a.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint, _ uint) (*models.Answer, error) {
			return &models.Answer{ID: id, QuestionID: 1, AuthorID: 10, Content: "answer"}, nil
		},
		listByQuestionFn: func(_ context.Context, _ uint, _ uint) ([]*models.Answer, error) { return nil, nil },
		updateFn:         func(_ context.Context, _ *models.Answer) error { return nil },
		deleteFn:         func(_ context.Context, _ uint) error { return nil },
		countByAuthorFn:  func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	updateFn        func(context.Context, *models.User) error
	deleteFn        func(context.Context, uint) error
	listFn          func(context.Context, int, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "tester", Role: models.RoleUser}, nil
		},
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		updateFn:        func(_ context.Context, _ *models.User) error { return nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
		listFn:          func(_ context.Context, _, _ int) ([]models.User, error) { return nil, nil },
	}
}

// notificationRepoStub is a stub for repository.NotificationRepository.
type notificationRepoStub struct {
	createFn          func(context.Context, *models.Notification) error
	listByRecipientFn func(context.Context, uint, int, int) ([]*models.Notification, error)
	countUnreadFn     func(context.Context, uint) (int64, error)
	markReadFn        func(context.Context, uint, uint) error
	markAllReadFn     func(context.Context, uint) (int64, error)
}

func (s *notificationRepoStub) Create(ctx context.Context, n *models.Notification) error {
	return s.createFn(ctx, n)
}
func (s *notificationRepoStub) ListByRecipient(ctx context.Context, recipientID uint, limit, offset int) ([]*models.Notification, error) {
	return s.listByRecipientFn(ctx, recipientID, limit, offset)
}
func (s *notificationRepoStub) CountUnread(ctx context.Context, recipientID uint) (int64, error) {
	return s.countUnreadFn(ctx, recipientID)
}
func (s *notificationRepoStub) MarkRead(ctx context.Context, id, recipientID uint) error {
	return s.markReadFn(ctx, id, recipientID)
}
func (s *notificationRepoStub) MarkAllRead(ctx context.Context, recipientID uint) (int64, error) {
	return s.markAllReadFn(ctx, recipientID)
}

func noopNotificationRepo() *notificationRepoStub {
	return &notificationRepoStub{
		createFn:          func(_ context.Context, _ *models.Notification) error { return nil },
		listByRecipientFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Notification, error) { return nil, nil },
		countUnreadFn:     func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		markReadFn:        func(_ context.Context, _, _ uint) error { return nil },
		markAllReadFn:     func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// recordingDispatcher returns a NotificationService whose writes land in the
// returned slice pointer.
func recordingDispatcher() (*NotificationService, *[]*models.Notification) {
	var written []*models.Notification
	repo := noopNotificationRepo()
	repo.createFn = func(_ context.Context, n *models.Notification) error {
		written = append(written, n)
		return nil
	}
	return NewNotificationService(repo, nil, nil), &written
}

// tagRepoStub is a stub for repository.TagRepository.
type tagRepoStub struct {
	listFn          func(context.Context) ([]models.TagCount, error)
	existsFn        func(context.Context, string) (bool, error)
	deleteCascadeFn func(context.Context, string) (int64, error)
}

func (s *tagRepoStub) List(ctx context.Context) ([]models.TagCount, error) { return s.listFn(ctx) }
func (s *tagRepoStub) Exists(ctx context.Context, name string) (bool, error) {
	return s.existsFn(ctx, name)
}
func (s *tagRepoStub) DeleteCascade(ctx context.Context, name string) (int64, error) {
	return s.deleteCascadeFn(ctx, name)
}

func noopTagRepo() *tagRepoStub {
	return &tagRepoStub{
		listFn:          func(_ context.Context) ([]models.TagCount, error) { return nil, nil },
		existsFn:        func(_ context.Context, _ string) (bool, error) { return false, nil },
		deleteCascadeFn: func(_ context.Context, _ string) (int64, error) { return 0, nil },
	}
}

func appErrCode(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok, "expected *models.AppError, got %T", err)
	return appErr.Code
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	require.Equal(t, models.CodeValidation, appErrCode(t, err))
}

func assertUnauthorizedError(t *testing.T, err error) {
	t.Helper()
	require.Equal(t, models.CodeUnauthorized, appErrCode(t, err))
}

func assertForbiddenError(t *testing.T, err error) {
	t.Helper()
	require.Equal(t, models.CodeForbidden, appErrCode(t, err))
}

func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	require.Equal(t, models.CodeNotFound, appErrCode(t, err))
}
