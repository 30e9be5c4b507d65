package repositories

import (
	"context"

	"planner-server/db"
	"planner-server/entities"
)

type userGormRepository struct {
	db db.Database
}

func NewUserGormRepository(database db.Database) UserRepository {
	return &userGormRepository{db: database}
}

func (r *userGormRepository) Create(ctx context.Context, user *entities.User) error {
	return translate("create user", r.db.GetDB().WithContext(ctx).Create(user).Error)
}

func (r *userGormRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	var user entities.User
	if err := r.db.GetDB().WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate("get user", err)
	}
	return &user, nil
}

func (r *userGormRepository) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	var user entities.User
	if err := r.db.GetDB().WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate("get user", err)
	}
	return &user, nil
}
