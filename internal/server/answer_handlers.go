package server

import (
	"quorum/internal/models"
	"quorum/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateAnswer handles POST /api/questions/:id/answers
func (s *Server) CreateAnswer(c *fiber.Ctx) error {
	questionID, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	answer, err := s.answerService.CreateAnswer(c.UserContext(), service.CreateAnswerInput{
		AuthorID:   currentUserID(c),
		QuestionID: questionID,
		Content:    req.Content,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(answer)
}

// GetAnswer handles GET /api/answers/:id
func (s *Server) GetAnswer(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	answer, err := s.answerService.GetAnswer(c.UserContext(), id, s.optionalUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(answer)
}

// GetAnswers handles GET /api/questions/:id/answers
func (s *Server) GetAnswers(c *fiber.Ctx) error {
	questionID, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	answers, err := s.answerService.ListAnswers(c.UserContext(), questionID, s.optionalUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"answers": answers})
}

// UpdateAnswer handles PUT /api/answers/:id
func (s *Server) UpdateAnswer(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	answer, err := s.answerService.UpdateAnswer(c.UserContext(), service.UpdateAnswerInput{
		AnswerID: id,
		UserID:   currentUserID(c),
		Content:  req.Content,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(answer)
}

// DeleteAnswer handles DELETE /api/answers/:id
func (s *Server) DeleteAnswer(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	if err := s.answerService.DeleteAnswer(c.UserContext(), id, currentUserID(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Answer deleted"})
}
