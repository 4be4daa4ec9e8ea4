package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/polito-log/backend/internal/dto"
	"github.com/polito-log/backend/internal/models"
	"github.com/polito-log/backend/internal/repositories"
)

var (
	ErrStatementNotFound = errors.New("statement not found")
	ErrInvalidStatus     = errors.New("invalid statement status")
	ErrEmptySearch       = errors.New("search query is required")
)

type StatementService struct {
	statements repositories.StatementRepository
}

func NewStatementService(statements repositories.StatementRepository) *StatementService {
	return &StatementService{statements: statements}
}

func (s *StatementService) Create(ctx context.Context, req *dto.CreateStatementRequest) (*models.Statement, error) {
	status := req.Status
	if status == "" {
		status = models.StatementPending
	}

	st := &models.Statement{
		ID:             uuid.New(),
		PoliticianName: req.PoliticianName,
		Party:          req.Party,
		StatementText:  req.StatementText,
		SourceURL:      req.SourceURL,
		StatementDate:  req.StatementDate,
		Category:       req.Category,
		Status:         status,
		IsActive:       true,
	}
	if err := s.statements.Create(ctx, st); err != nil {
		return nil, fmt.Errorf("failed to create statement: %w", err)
	}
	return st, nil
}

func (s *StatementService) Get(ctx context.Context, id uuid.UUID) (*models.Statement, error) {
	st, err := s.statements.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStatementNotFound
		}
		return nil, fmt.Errorf("failed to load statement: %w", err)
	}
	return st, nil
}

func (s *StatementService) List(ctx context.Context, activeOnly bool, page repositories.Page) ([]models.Statement, error) {
	return s.find(ctx, repositories.StatementFilter{ActiveOnly: activeOnly}, page)
}

func (s *StatementService) ByPolitician(ctx context.Context, name string, page repositories.Page) ([]models.Statement, error) {
	return s.find(ctx, repositories.StatementFilter{ActiveOnly: true, PoliticianName: name}, page)
}

func (s *StatementService) ByParty(ctx context.Context, party string, page repositories.Page) ([]models.Statement, error) {
	return s.find(ctx, repositories.StatementFilter{ActiveOnly: true, Party: party}, page)
}

func (s *StatementService) ByStatus(ctx context.Context, status models.StatementStatus, page repositories.Page) ([]models.Statement, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.find(ctx, repositories.StatementFilter{ActiveOnly: true, Status: status}, page)
}

// Search matches the query as a case-insensitive substring of the text,
// politician name or party of active statements.
func (s *StatementService) Search(ctx context.Context, query string, page repositories.Page) ([]models.Statement, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptySearch
	}
	return s.find(ctx, repositories.StatementFilter{ActiveOnly: true, Search: query}, page)
}

func (s *StatementService) Count(ctx context.Context, activeOnly bool) (int64, error) {
	n, err := s.statements.Count(ctx, repositories.StatementFilter{ActiveOnly: activeOnly})
	if err != nil {
		return 0, fmt.Errorf("failed to count statements: %w", err)
	}
	return n, nil
}

// Update applies the non-nil fields of req.
func (s *StatementService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateStatementRequest) (*models.Statement, error) {
	st, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.PoliticianName != nil {
		st.PoliticianName = *req.PoliticianName
	}
	if req.Party != nil {
		st.Party = *req.Party
	}
	if req.StatementText != nil {
		st.StatementText = *req.StatementText
	}
	if req.SourceURL != nil {
		st.SourceURL = req.SourceURL
	}
	if req.StatementDate != nil {
		st.StatementDate = *req.StatementDate
	}
	if req.Category != nil {
		st.Category = req.Category
	}
	if req.Status != nil {
		st.Status = *req.Status
	}
	if req.IsActive != nil {
		st.IsActive = *req.IsActive
	}

	if err := s.statements.Save(ctx, st); err != nil {
		return nil, fmt.Errorf("failed to update statement: %w", err)
	}
	return st, nil
}

// Delete removes a statement, or only deactivates it when soft is set.
func (s *StatementService) Delete(ctx context.Context, id uuid.UUID, soft bool) error {
	var (
		found bool
		err   error
	)
	if soft {
		found, err = s.statements.SoftDelete(ctx, id)
	} else {
		found, err = s.statements.Delete(ctx, id)
	}
	if err != nil {
		return fmt.Errorf("failed to delete statement: %w", err)
	}
	if !found {
		return ErrStatementNotFound
	}
	return nil
}

func (s *StatementService) find(ctx context.Context, filter repositories.StatementFilter, page repositories.Page) ([]models.Statement, error) {
	list, err := s.statements.Find(ctx, filter, page.Normalize())
	if err != nil {
		return nil, fmt.Errorf("failed to list statements: %w", err)
	}
	return list, nil
}
