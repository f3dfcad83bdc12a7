package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"catedra/pkg/apperrors"
	"catedra/pkg/middleware"
	"catedra/pkg/models"
	"catedra/pkg/services"
)

// AdminHandler exposes user management, all routes gated to the admin role.
type AdminHandler struct {
	svc services.UserService
}

func NewAdmin(svc services.UserService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	var req models.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.Validation("JSON inválido")
	}

	user, err := h.svc.Create(req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Usuário criado com sucesso",
		"data":    user,
	})
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.svc.List()
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    users,
		"count":   len(users),
	})
}

func (h *AdminHandler) GetUser(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.Validation("ID inválido")
	}

	user, err := h.svc.GetByID(id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": user})
}

func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return apperrors.Authentication("Usuário não autenticado")
	}

	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.Validation("ID inválido")
	}

	user, err := h.svc.Delete(p.ID, id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Usuário deletado com sucesso",
		"data": fiber.Map{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
		},
	})
}
