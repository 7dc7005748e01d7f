package service

import (
	"context"
	"testing"

	"quorum/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAnswerService(answerRepo *answerRepoStub, questionRepo *questionRepoStub, voteRepo *voteRepoStub, userRepo *userRepoStub) (*AnswerService, *[]*models.Notification) {
	dispatcher, written := recordingDispatcher()
	return NewAnswerService(answerRepo, questionRepo, voteRepo, userRepo, dispatcher), written
}

func TestAnswerService_CreateAnswer_NotifiesQuestionAuthor(t *testing.T) {
	t.Parallel()

	questionRepo := noopQuestionRepo()
	questionRepo.getByIDFn = func(_ context.Context, id uint, _ uint) (*models.Question, error) {
		return &models.Question{ID: id, Title: "How do I mock time in tests?", AuthorID: 10}, nil
	}
	svc, written := newAnswerService(noopAnswerRepo(), questionRepo, noopVoteRepo(), noopUserRepo())

	answer, err := svc.CreateAnswer(context.Background(), CreateAnswerInput{
		AuthorID:   2,
		QuestionID: 5,
		Content:    "Use an injected clock.",
	})
	require.NoError(t, err)
	require.NotNil(t, answer)

	require.Len(t, *written, 1)
	notification := (*written)[0]
	assert.Equal(t, uint(10), notification.RecipientID)
	assert.Equal(t, uint(2), notification.ActorID)
	assert.Equal(t, models.NotificationAnswer, notification.Kind)
	assert.Equal(t, uint(5), notification.QuestionID)
	require.NotNil(t, notification.AnswerID)
	assert.Contains(t, notification.Message, "answered your question")
	assert.Contains(t, notification.Message, "How do I mock time in tests?")
}

func TestAnswerService_CreateAnswer_SelfAnswerSuppressed(t *testing.T) {
	t.Parallel()

	// Question author answers their own question: persisted, not notified.
	svc, written := newAnswerService(noopAnswerRepo(), noopQuestionRepo(), noopVoteRepo(), noopUserRepo())

	_, err := svc.CreateAnswer(context.Background(), CreateAnswerInput{
		AuthorID:   10,
		QuestionID: 5,
		Content:    "Answering myself.",
	})
	require.NoError(t, err)
	assert.Empty(t, *written)
}

func TestAnswerService_CreateAnswer_Validation(t *testing.T) {
	t.Parallel()

	svc, _ := newAnswerService(noopAnswerRepo(), noopQuestionRepo(), noopVoteRepo(), noopUserRepo())
	ctx := context.Background()

	t.Run("anonymous author", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreateAnswer(ctx, CreateAnswerInput{QuestionID: 1, Content: "hi"})
		assertUnauthorizedError(t, err)
	})

	t.Run("empty content", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreateAnswer(ctx, CreateAnswerInput{AuthorID: 1, QuestionID: 1, Content: "  "})
		assertValidationError(t, err)
	})

	t.Run("question not found", func(t *testing.T) {
		t.Parallel()
		questionRepo := noopQuestionRepo()
		questionRepo.getByIDFn = func(_ context.Context, id uint, _ uint) (*models.Question, error) {
			return nil, models.NewNotFoundError("Question", id)
		}
		svc2, _ := newAnswerService(noopAnswerRepo(), questionRepo, noopVoteRepo(), noopUserRepo())
		_, err := svc2.CreateAnswer(ctx, CreateAnswerInput{AuthorID: 1, QuestionID: 99, Content: "hi"})
		assertNotFoundError(t, err)
	})
}

func TestAnswerService_UpdateAnswer_Ownership(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("non-owner rejected", func(t *testing.T) {
		t.Parallel()
		svc, _ := newAnswerService(noopAnswerRepo(), noopQuestionRepo(), noopVoteRepo(), noopUserRepo())
		_, err := svc.UpdateAnswer(ctx, UpdateAnswerInput{AnswerID: 1, UserID: 99, Content: "new"})
		assertForbiddenError(t, err)
	})

	t.Run("owner may edit", func(t *testing.T) {
		t.Parallel()
		svc, _ := newAnswerService(noopAnswerRepo(), noopQuestionRepo(), noopVoteRepo(), noopUserRepo())
		_, err := svc.UpdateAnswer(ctx, UpdateAnswerInput{AnswerID: 1, UserID: 10, Content: "new"})
		require.NoError(t, err)
	})
}

func TestAnswerService_DeleteAnswer_CleansUpVotes(t *testing.T) {
	t.Parallel()

	var removedType models.TargetType
	var removedID uint
	voteRepo := noopVoteRepo()
	voteRepo.deleteByTargetFn = func(_ context.Context, targetType models.TargetType, targetID uint) error {
		removedType = targetType
		removedID = targetID
		return nil
	}

	svc, _ := newAnswerService(noopAnswerRepo(), noopQuestionRepo(), voteRepo, noopUserRepo())
	err := svc.DeleteAnswer(context.Background(), 8, 10)
	require.NoError(t, err)
	assert.Equal(t, models.TargetAnswer, removedType)
	assert.Equal(t, uint(8), removedID)
}
