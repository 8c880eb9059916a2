package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	customerrors "github.com/axellelanca/creatorverse/internal/errors"
	"github.com/axellelanca/creatorverse/internal/models"
	"github.com/axellelanca/creatorverse/internal/store"
)

// CreatorRepository est une interface qui définit les méthodes de lecture des créateurs
type CreatorRepository interface {
	GetAllCreators(ctx context.Context) ([]models.Creator, error)
	GetCreatorByID(ctx context.Context, id string) (*models.Creator, error)
}

// StoreCreatorRepository est l'implémentation de CreatorRepository au-dessus d'un RecordStore.
type StoreCreatorRepository struct {
	store store.RecordStore
}

// NewCreatorRepository crée et retourne une nouvelle instance de StoreCreatorRepository.
func NewCreatorRepository(s store.RecordStore) *StoreCreatorRepository {
	return &StoreCreatorRepository{store: s}
}

// GetAllCreators récupère tous les créateurs, triés par nom.
func (r *StoreCreatorRepository) GetAllCreators(ctx context.Context) ([]models.Creator, error) {
	rows, err := r.store.Select(ctx, models.CreatorsTable)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve all creators: %w", err)
	}
	creators := make([]models.Creator, 0, len(rows))
	for _, row := range rows {
		creators = append(creators, models.CreatorFromRecord(row))
	}
	sort.SliceStable(creators, func(i, j int) bool {
		return creators[i].Name < creators[j].Name
	})
	return creators, nil
}

// GetCreatorByID récupère un créateur par son identifiant.
func (r *StoreCreatorRepository) GetCreatorByID(ctx context.Context, id string) (*models.Creator, error) {
	row, err := r.store.SelectOne(ctx, models.CreatorsTable, store.Eq(models.ColumnID, id))
	if err != nil {
		if errors.Is(err, store.ErrNoRows) {
			return nil, customerrors.ErrCreatorNotFound
		}
		return nil, fmt.Errorf("failed to retrieve creator %s: %w", id, err)
	}
	creator := models.CreatorFromRecord(row)
	return &creator, nil
}
