package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/okurimukae/dispatch/internal/domain"
)

// userGroup mirrors the columns of user_groups this service reads.
type userGroup struct {
	ID      uuid.UUID `gorm:"column:id;primaryKey"`
	OwnerID uuid.UUID `gorm:"column:owner_id"`
}

func (userGroup) TableName() string { return "user_groups" }

// Directory reads the application's profiles and user_groups tables.
// Strictly read-only: the surrounding app owns these tables.
type Directory struct {
	db *gorm.DB
}

func NewDirectory(db *gorm.DB) *Directory {
	return &Directory{db: db}
}

// Profile returns one user's directory record. A missing row maps to
// domain.ErrNotFound so the pipeline can treat it as a resolution miss.
func (d *Directory) Profile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	var p domain.Profile
	err := d.db.WithContext(ctx).
		Table("profiles").
		Select("id", "display_name", "fcm_token").
		Where("id = ?", userID).
		Take(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("profile %s: %w", userID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("query profile: %w", err)
	}
	return &p, nil
}

// GroupOwner returns the owner of the given group.
func (d *Directory) GroupOwner(ctx context.Context, groupID uuid.UUID) (uuid.UUID, error) {
	var g userGroup
	err := d.db.WithContext(ctx).
		Select("id", "owner_id").
		Where("id = ?", groupID).
		Take(&g).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, fmt.Errorf("group %s: %w", groupID, domain.ErrNotFound)
		}
		return uuid.Nil, fmt.Errorf("query group owner: %w", err)
	}
	return g.OwnerID, nil
}
