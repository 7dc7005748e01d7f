package server

import (
	"quorum/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AdminListUsers handles GET /api/admin/users
func (s *Server) AdminListUsers(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	users, err := s.userService.ListUsers(c.UserContext(), limit, offset)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"users":  users,
		"limit":  limit,
		"offset": offset,
	})
}

// AdminBanUser handles PUT /api/admin/users/:id/ban
func (s *Server) AdminBanUser(c *fiber.Ctx) error {
	return s.setBanned(c, true)
}

// AdminUnbanUser handles PUT /api/admin/users/:id/unban
func (s *Server) AdminUnbanUser(c *fiber.Ctx) error {
	return s.setBanned(c, false)
}

func (s *Server) setBanned(c *fiber.Ctx, banned bool) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	user, err := s.userService.SetBanned(c.UserContext(), currentUserID(c), id, banned)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(user)
}

// AdminDeleteUser handles DELETE /api/admin/users/:id
func (s *Server) AdminDeleteUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	if err := s.userService.DeleteUser(c.UserContext(), currentUserID(c), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "User deleted"})
}

// AdminListQuestions handles GET /api/admin/questions
func (s *Server) AdminListQuestions(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	questions, err := s.questionService.ListQuestionsWithAnswers(c.UserContext(), limit, offset)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"questions": questions,
		"limit":     limit,
		"offset":    offset,
	})
}

// AdminAddTag handles POST /api/admin/tags. Tags are derived from question
// membership, so this only validates and reports usage.
func (s *Server) AdminAddTag(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	out, err := s.tagService.AddTag(c.UserContext(), req.Name)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// AdminDeleteTag handles DELETE /api/admin/tags/:name
func (s *Server) AdminDeleteTag(c *fiber.Ctx) error {
	out, err := s.tagService.DeleteTag(c.UserContext(), c.Params("name"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}
