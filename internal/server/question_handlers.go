package server

import (
	"quorum/internal/models"
	"quorum/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateQuestion handles POST /api/questions
func (s *Server) CreateQuestion(c *fiber.Ctx) error {
	var req struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Tags        []string `json:"tags"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	question, err := s.questionService.CreateQuestion(c.UserContext(), service.CreateQuestionInput{
		AuthorID:    currentUserID(c),
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(question)
}

// GetQuestions handles GET /api/questions
func (s *Server) GetQuestions(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	questions, err := s.questionService.ListQuestions(c.UserContext(), service.ListQuestionsInput{
		Limit:    limit,
		Offset:   offset,
		ViewerID: s.optionalUserID(c),
		Tag:      c.Query("tag"),
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"questions": questions,
		"limit":     limit,
		"offset":    offset,
	})
}

// GetQuestion handles GET /api/questions/:id
func (s *Server) GetQuestion(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	question, err := s.questionService.GetQuestion(c.UserContext(), id, s.optionalUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(question)
}

// UpdateQuestion handles PUT /api/questions/:id
func (s *Server) UpdateQuestion(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	var req struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Tags        []string `json:"tags"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	question, err := s.questionService.UpdateQuestion(c.UserContext(), service.UpdateQuestionInput{
		QuestionID:  id,
		UserID:      currentUserID(c),
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(question)
}

// DeleteQuestion handles DELETE /api/questions/:id
func (s *Server) DeleteQuestion(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	if err := s.questionService.DeleteQuestion(c.UserContext(), id, currentUserID(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Question deleted"})
}
