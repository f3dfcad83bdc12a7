package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"catedra/pkg/apperrors"
	"catedra/pkg/middleware"
	"catedra/pkg/models"
	"catedra/pkg/services"
)

type PostHandler struct {
	svc services.PostService
}

func NewPosts(svc services.PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

func (h *PostHandler) Create(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return apperrors.Authentication("Usuário não autenticado")
	}

	var req models.CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.Validation("JSON inválido")
	}

	post, err := h.svc.Create(p, req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

func (h *PostHandler) List(c *fiber.Ctx) error {
	posts, err := h.svc.List()
	if err != nil {
		return err
	}
	return c.JSON(posts)
}

// Search rejects a missing keyword before any store access happens.
func (h *PostHandler) Search(c *fiber.Ctx) error {
	keyword := strings.TrimSpace(c.Query("keyword"))
	if keyword == "" {
		return apperrors.BareValidation("Palavra-chave é obrigatória")
	}

	posts, err := h.svc.Search(keyword)
	if err != nil {
		return err
	}
	return c.JSON(posts)
}

func (h *PostHandler) ListByAuthor(c *fiber.Ctx) error {
	authorID := c.Params("authorId")
	if _, err := uuid.Parse(authorID); err != nil {
		return apperrors.Validation("ID inválido")
	}

	posts, err := h.svc.ListByAuthor(authorID)
	if err != nil {
		return err
	}
	return c.JSON(posts)
}

func (h *PostHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.Validation("ID inválido")
	}

	post, err := h.svc.GetByID(id)
	if err != nil {
		return err
	}
	return c.JSON(post)
}

func (h *PostHandler) Update(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return apperrors.Authentication("Usuário não autenticado")
	}

	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.Validation("ID inválido")
	}

	var req models.UpdatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.Validation("JSON inválido")
	}

	post, err := h.svc.Update(p, id, req)
	if err != nil {
		return err
	}
	return c.JSON(post)
}

func (h *PostHandler) Delete(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return apperrors.Authentication("Usuário não autenticado")
	}

	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.Validation("ID inválido")
	}

	if err := h.svc.Delete(p, id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Post deletado com sucesso"})
}
