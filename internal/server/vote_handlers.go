package server

import (
	"quorum/internal/models"
	"quorum/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UpvoteQuestion handles PUT /api/questions/:id/upvote
func (s *Server) UpvoteQuestion(c *fiber.Ctx) error {
	return s.applyVote(c, models.TargetQuestion, models.VoteUp)
}

// DownvoteQuestion handles PUT /api/questions/:id/downvote
func (s *Server) DownvoteQuestion(c *fiber.Ctx) error {
	return s.applyVote(c, models.TargetQuestion, models.VoteDown)
}

// UpvoteAnswer handles PUT /api/answers/:id/upvote
func (s *Server) UpvoteAnswer(c *fiber.Ctx) error {
	return s.applyVote(c, models.TargetAnswer, models.VoteUp)
}

// DownvoteAnswer handles PUT /api/answers/:id/downvote
func (s *Server) DownvoteAnswer(c *fiber.Ctx) error {
	return s.applyVote(c, models.TargetAnswer, models.VoteDown)
}

// applyVote runs one vote transition. Repeating the same direction toggles
// the vote off, so the endpoints double as un-vote.
func (s *Server) applyVote(c *fiber.Ctx, targetType models.TargetType, value int) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	outcome, err := s.voteService.ApplyVote(c.UserContext(), service.ApplyVoteInput{
		VoterID:    currentUserID(c),
		TargetType: targetType,
		TargetID:   id,
		Value:      value,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(outcome)
}

// GetMyVotes handles GET /api/users/me/votes
func (s *Server) GetMyVotes(c *fiber.Ctx) error {
	index, err := s.voteService.VoteIndex(c.UserContext(), currentUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(index)
}
