package handlers

import (
	"github.com/gofiber/fiber/v2"

	"catedra/pkg/apperrors"
	"catedra/pkg/middleware"
	"catedra/pkg/models"
	"catedra/pkg/services"
)

type AuthHandler struct {
	svc services.AuthService
}

func NewAuth(svc services.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.Validation("JSON inválido")
	}

	data, err := h.svc.Login(req)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Login realizado com sucesso",
		"data":    data,
	})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return apperrors.Authentication("Usuário não autenticado")
	}

	user, err := h.svc.Me(p.ID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": user})
}

func (h *AuthHandler) UpdateMe(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return apperrors.Authentication("Usuário não autenticado")
	}

	var req models.UpdateMeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.Validation("JSON inválido")
	}

	user, err := h.svc.UpdateMe(p.ID, req)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Usuário atualizado com sucesso",
		"data":    user,
	})
}
