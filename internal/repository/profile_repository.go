package repository

import (
	"portfolio_backend/internal/model"

	"gorm.io/gorm"
)

type ProfileRepository struct {
	DB *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

// GetOrCreate 返回用户资料，不存在时创建空白记录
func (r *ProfileRepository) GetOrCreate(userID uint) (*model.Profile, error) {
	var profile model.Profile
	err := r.DB.Where(model.Profile{UserID: userID}).FirstOrCreate(&profile).Error
	return &profile, err
}

func (r *ProfileRepository) Update(profile *model.Profile) error {
	return r.DB.Save(profile).Error
}
