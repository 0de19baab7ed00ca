package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "budgeteer/internal/errors"
	"budgeteer/internal/models"
)

// firstOwned loads the entity of type T with the given ID, but only when it
// belongs to userID. Every read and mutation in this package goes through
// this lookup before touching an entity.
//
// A row owned by another user is reported with the same notFound error as a
// missing row, so callers cannot probe for the existence of other users'
// data.
func firstOwned[T models.Owned](db *gorm.DB, userID, id string, notFound *apperrors.AppError) (*T, error) {
	var entity T
	if err := db.Where("id = ? AND user_id = ?", id, userID).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &entity, nil
}
