package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/axellelanca/creatorverse/internal/models"
)

// GormStore est l'implémentation de RecordStore utilisant GORM.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore crée et retourne une nouvelle instance de GormStore.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Insert insère une nouvelle ligne dans la table.
func (s *GormStore) Insert(ctx context.Context, table string, record Record) (Record, error) {
	if err := checkRequest(table, record, nil); err != nil {
		return nil, err
	}
	row := withID(record, uuid.NewString)
	if err := s.db.WithContext(ctx).Table(table).Create(row).Error; err != nil {
		return nil, fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	return row, nil
}

// Select récupère toutes les lignes correspondant aux filtres.
func (s *GormStore) Select(ctx context.Context, table string, filters ...Filter) ([]Record, error) {
	if err := checkRequest(table, nil, filters); err != nil {
		return nil, err
	}
	var rows []map[string]interface{}
	if err := s.where(ctx, table, filters).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to select from %s: %w", table, err)
	}
	return rows, nil
}

// SelectOne récupère exactement une ligne.
func (s *GormStore) SelectOne(ctx context.Context, table string, filters ...Filter) (Record, error) {
	rows, err := s.Select(ctx, table, filters...)
	if err != nil {
		return nil, err
	}
	return single(rows)
}

// Update met à jour les lignes correspondant aux filtres.
func (s *GormStore) Update(ctx context.Context, table string, fields Record, filters ...Filter) (int64, error) {
	if len(filters) == 0 {
		return 0, ErrMissingFilter
	}
	if err := checkRequest(table, fields, filters); err != nil {
		return 0, err
	}
	result := s.where(ctx, table, filters).Updates(fields)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to update %s: %w", table, result.Error)
	}
	return result.RowsAffected, nil
}

// Delete supprime les lignes correspondant aux filtres.
func (s *GormStore) Delete(ctx context.Context, table string, filters ...Filter) (int64, error) {
	if len(filters) == 0 {
		return 0, ErrMissingFilter
	}
	if err := checkRequest(table, nil, filters); err != nil {
		return 0, err
	}
	result := s.where(ctx, table, filters).Delete(map[string]interface{}{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete from %s: %w", table, result.Error)
	}
	return result.RowsAffected, nil
}

// Migrate creates or updates the creators table from the model.
func (s *GormStore) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&models.Creator{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Ping checks that the underlying database answers.
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL database: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL database: %w", err)
	}
	return sqlDB.Close()
}

func (s *GormStore) where(ctx context.Context, table string, filters []Filter) *gorm.DB {
	q := s.db.WithContext(ctx).Table(table)
	for _, f := range filters {
		column := clause.Column{Name: f.Field}
		switch f.Op {
		case OpNeq:
			q = q.Where(clause.Neq{Column: column, Value: f.Value})
		default:
			q = q.Where(clause.Eq{Column: column, Value: f.Value})
		}
	}
	return q
}
