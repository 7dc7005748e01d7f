package service

import (
	"context"
	"fmt"

	"quorum/internal/cache"
	"quorum/internal/middleware"
	"quorum/internal/models"
	"quorum/internal/repository"
)

// VoteService runs the vote ledger: one state machine per (voter, target)
// pair with states none/upvoted/downvoted. Same-direction votes toggle off,
// opposite-direction votes swap sets atomically, and transitions into the
// upvoted state notify the target's author.
type VoteService struct {
	voteRepo     repository.VoteRepository
	questionRepo repository.QuestionRepository
	answerRepo   repository.AnswerRepository
	userRepo     repository.UserRepository
	dispatcher   *NotificationService
}

// ApplyVoteInput identifies one vote request.
type ApplyVoteInput struct {
	VoterID    uint
	TargetType models.TargetType
	TargetID   uint
	// Value is models.VoteUp or models.VoteDown.
	Value int
}

// VoteOutcome reports the transition that was applied and the target's vote
// tallies after it.
type VoteOutcome struct {
	Transition models.VoteTransition `json:"transition"`
	Upvotes    int64                 `json:"upvotes"`
	Downvotes  int64                 `json:"downvotes"`
	ViewerVote int                   `json:"viewer_vote"`
}

// NewVoteService creates a new VoteService.
func NewVoteService(
	voteRepo repository.VoteRepository,
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
	userRepo repository.UserRepository,
	dispatcher *NotificationService,
) *VoteService {
	return &VoteService{
		voteRepo:     voteRepo,
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		userRepo:     userRepo,
		dispatcher:   dispatcher,
	}
}

// ApplyVote runs one vote transition and returns the target's state after it.
func (s *VoteService) ApplyVote(ctx context.Context, in ApplyVoteInput) (*VoteOutcome, error) {
	if in.VoterID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required to vote")
	}
	if !in.TargetType.Valid() {
		return nil, models.NewValidationError("Invalid vote target type")
	}
	if in.Value != models.VoteUp && in.Value != models.VoteDown {
		return nil, models.NewValidationError("Invalid vote direction")
	}

	// Resolve the target up front: voting on a missing target is NotFound,
	// and the author is needed for the upvote notification.
	authorID, questionID, message, err := s.resolveTarget(ctx, in)
	if err != nil {
		return nil, err
	}

	transition, err := s.voteRepo.Apply(ctx, in.VoterID, in.TargetType, in.TargetID, in.Value)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	middleware.VotesApplied.WithLabelValues(string(in.TargetType), transition.After.String()).Inc()

	s.invalidateTarget(ctx, in, questionID)

	// Only edges into the upvoted state notify; downvotes and un-votes are
	// silent. The dispatcher drops self-votes and swallows write failures.
	if transition.NewUpvote() {
		var answerID *uint
		if in.TargetType == models.TargetAnswer {
			id := in.TargetID
			answerID = &id
		}
		s.dispatcher.Dispatch(ctx, DispatchInput{
			RecipientID: authorID,
			ActorID:     in.VoterID,
			Kind:        models.NotificationUpvote,
			Message:     message,
			QuestionID:  questionID,
			AnswerID:    answerID,
		})
	}

	return s.outcome(ctx, in, transition)
}

// VoteIndex returns the voter-side view of the ledger for one user.
func (s *VoteService) VoteIndex(ctx context.Context, userID uint) (*models.VoteIndex, error) {
	if userID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}

	index := &models.VoteIndex{}
	for _, part := range []struct {
		dest       *[]uint
		targetType models.TargetType
		value      int
	}{
		{&index.UpvotedQuestions, models.TargetQuestion, models.VoteUp},
		{&index.DownvotedQuestions, models.TargetQuestion, models.VoteDown},
		{&index.UpvotedAnswers, models.TargetAnswer, models.VoteUp},
		{&index.DownvotedAnswers, models.TargetAnswer, models.VoteDown},
	} {
		ids, err := s.voteRepo.TargetIDs(ctx, userID, part.targetType, part.value)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		*part.dest = ids
	}
	return index, nil
}

// resolveTarget loads the vote target, returning its author, owning question
// id and the notification message an upvote edge would carry.
func (s *VoteService) resolveTarget(ctx context.Context, in ApplyVoteInput) (authorID, questionID uint, message string, err error) {
	actorName, err := s.actorName(ctx, in.VoterID)
	if err != nil {
		return 0, 0, "", err
	}

	switch in.TargetType {
	case models.TargetQuestion:
		question, qerr := s.questionRepo.GetByID(ctx, in.TargetID, in.VoterID)
		if qerr != nil {
			return 0, 0, "", qerr
		}
		return question.AuthorID, question.ID,
			fmt.Sprintf("%s upvoted your question: %q", actorName, question.Title), nil

	default:
		answer, aerr := s.answerRepo.GetByID(ctx, in.TargetID, in.VoterID)
		if aerr != nil {
			return 0, 0, "", aerr
		}
		return answer.AuthorID, answer.QuestionID,
			fmt.Sprintf("%s upvoted your answer", actorName), nil
	}
}

func (s *VoteService) actorName(ctx context.Context, voterID uint) (string, error) {
	// The dispatcher only needs a display name; resolving it here also
	// rejects votes from identities that no longer exist.
	user, err := s.userRepo.GetByID(ctx, voterID)
	if err != nil {
		return "", models.NewUnauthorizedError("Voter account not found")
	}
	return user.Username, nil
}

func (s *VoteService) invalidateTarget(ctx context.Context, in ApplyVoteInput, questionID uint) {
	if in.TargetType == models.TargetQuestion {
		cache.InvalidateQuestion(ctx, in.TargetID)
		return
	}
	cache.InvalidateAnswer(ctx, in.TargetID)
	// The answer's tallies are embedded in its question's cached detail.
	cache.InvalidateQuestion(ctx, questionID)
}

func (s *VoteService) outcome(ctx context.Context, in ApplyVoteInput, transition models.VoteTransition) (*VoteOutcome, error) {
	out := &VoteOutcome{Transition: transition, ViewerVote: int(transition.After)}

	switch in.TargetType {
	case models.TargetQuestion:
		question, err := s.questionRepo.GetByID(ctx, in.TargetID, in.VoterID)
		if err != nil {
			return nil, err
		}
		out.Upvotes = question.Upvotes
		out.Downvotes = question.Downvotes
	default:
		answer, err := s.answerRepo.GetByID(ctx, in.TargetID, in.VoterID)
		if err != nil {
			return nil, err
		}
		out.Upvotes = answer.Upvotes
		out.Downvotes = answer.Downvotes
	}
	return out, nil
}
