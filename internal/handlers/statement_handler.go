package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/polito-log/backend/internal/dto"
	"github.com/polito-log/backend/internal/models"
	"github.com/polito-log/backend/internal/repositories"
	"github.com/polito-log/backend/internal/services"
	"github.com/polito-log/backend/internal/validator"
)

type StatementStore interface {
	Create(ctx context.Context, req *dto.CreateStatementRequest) (*models.Statement, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Statement, error)
	List(ctx context.Context, activeOnly bool, page repositories.Page) ([]models.Statement, error)
	ByPolitician(ctx context.Context, name string, page repositories.Page) ([]models.Statement, error)
	ByParty(ctx context.Context, party string, page repositories.Page) ([]models.Statement, error)
	ByStatus(ctx context.Context, status models.StatementStatus, page repositories.Page) ([]models.Statement, error)
	Search(ctx context.Context, query string, page repositories.Page) ([]models.Statement, error)
	Count(ctx context.Context, activeOnly bool) (int64, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateStatementRequest) (*models.Statement, error)
	Delete(ctx context.Context, id uuid.UUID, soft bool) error
}

type StatementHandler struct {
	statements StatementStore
	validate   *validator.Validator
}

func NewStatementHandler(statements StatementStore, validate *validator.Validator) *StatementHandler {
	return &StatementHandler{statements: statements, validate: validate}
}

func (h *StatementHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateStatementRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}

	st, err := h.statements.Create(c.UserContext(), &req)
	if err != nil {
		return internalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(st)
}

func (h *StatementHandler) List(c *fiber.Ctx) error {
	q, ok, err := h.listQuery(c)
	if !ok {
		return err
	}

	list, err := h.statements.List(c.UserContext(), activeOnly(q), page(q))
	return h.respondList(c, list, err)
}

func (h *StatementHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid statement ID")
	}

	st, err := h.statements.Get(c.UserContext(), id)
	if err != nil {
		return h.statementError(c, err)
	}
	return c.JSON(st)
}

func (h *StatementHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid statement ID")
	}

	var req dto.UpdateStatementRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}

	st, err := h.statements.Update(c.UserContext(), id, &req)
	if err != nil {
		return h.statementError(c, err)
	}
	return c.JSON(st)
}

func (h *StatementHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid statement ID")
	}

	if err := h.statements.Delete(c.UserContext(), id, c.QueryBool("soft_delete", true)); err != nil {
		return h.statementError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *StatementHandler) ByPolitician(c *fiber.Ctx) error {
	q, ok, err := h.listQuery(c)
	if !ok {
		return err
	}

	list, err := h.statements.ByPolitician(c.UserContext(), c.Params("name"), page(q))
	return h.respondList(c, list, err)
}

func (h *StatementHandler) ByParty(c *fiber.Ctx) error {
	q, ok, err := h.listQuery(c)
	if !ok {
		return err
	}

	list, err := h.statements.ByParty(c.UserContext(), c.Params("party"), page(q))
	return h.respondList(c, list, err)
}

func (h *StatementHandler) ByStatus(c *fiber.Ctx) error {
	q, ok, err := h.listQuery(c)
	if !ok {
		return err
	}

	status := models.StatementStatus(c.Params("status"))
	list, err := h.statements.ByStatus(c.UserContext(), status, page(q))
	return h.respondList(c, list, err)
}

func (h *StatementHandler) Search(c *fiber.Ctx) error {
	q, ok, err := h.listQuery(c)
	if !ok {
		return err
	}

	list, err := h.statements.Search(c.UserContext(), c.Query("q"), page(q))
	return h.respondList(c, list, err)
}

func (h *StatementHandler) Count(c *fiber.Ctx) error {
	n, err := h.statements.Count(c.UserContext(), c.QueryBool("active_only", true))
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(dto.CountResponse{Count: n})
}

func (h *StatementHandler) listQuery(c *fiber.Ctx) (dto.ListQuery, bool, error) {
	q := dto.ListQuery{Limit: repositories.DefaultLimit}
	ok, err := bindQuery(c, h.validate, &q)
	return q, ok, err
}

func (h *StatementHandler) respondList(c *fiber.Ctx, list []models.Statement, err error) error {
	if err != nil {
		return h.statementError(c, err)
	}
	if list == nil {
		list = []models.Statement{}
	}
	return c.JSON(list)
}

func (h *StatementHandler) statementError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrStatementNotFound):
		return errorJSON(c, fiber.StatusNotFound, "Statement not found")
	case errors.Is(err, services.ErrInvalidStatus):
		return validationFailed(c, map[string]string{
			"status": "Must be one of: pending, verified, disputed, retracted",
		})
	case errors.Is(err, services.ErrEmptySearch):
		return validationFailed(c, map[string]string{"q": "This field is required"})
	}
	return internalError(c, err)
}

func page(q dto.ListQuery) repositories.Page {
	return repositories.Page{Skip: q.Skip, Limit: q.Limit}
}

func activeOnly(q dto.ListQuery) bool {
	return q.ActiveOnly == nil || *q.ActiveOnly
}
