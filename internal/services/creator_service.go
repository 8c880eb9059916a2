// Package services contains the read side of the creator catalog: the listing and
// detail pages, the JSON API and the CLI all go through CreatorService.
package services

import (
	"context"

	"github.com/axellelanca/creatorverse/internal/models"
	"github.com/axellelanca/creatorverse/internal/repository"
)

// CreatorService provides the lookups behind the listing and detail views.
type CreatorService struct {
	creatorRepo repository.CreatorRepository
}

// NewCreatorService creates and returns a new instance of CreatorService.
func NewCreatorService(creatorRepo repository.CreatorRepository) *CreatorService {
	return &CreatorService{
		creatorRepo: creatorRepo,
	}
}

// ListCreators returns every creator, ordered by name.
func (s *CreatorService) ListCreators(ctx context.Context) ([]models.Creator, error) {
	return s.creatorRepo.GetAllCreators(ctx)
}

// GetCreator returns one creator.
// Returns customerrors.ErrCreatorNotFound when the id is unknown.
func (s *CreatorService) GetCreator(ctx context.Context, id string) (*models.Creator, error) {
	return s.creatorRepo.GetCreatorByID(ctx, id)
}
