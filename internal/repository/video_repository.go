package repository

import (
	"portfolio_backend/internal/model"

	"gorm.io/gorm"
)

type VideoRepository struct {
	DB *gorm.DB
}

func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{DB: db}
}

func (r *VideoRepository) Create(video *model.AcademyVideo) error {
	return r.DB.Create(video).Error
}

func (r *VideoRepository) FindByID(id uint) (*model.AcademyVideo, error) {
	var video model.AcademyVideo
	err := r.DB.First(&video, id).Error
	return &video, err
}

func (r *VideoRepository) List() ([]model.AcademyVideo, error) {
	var videos []model.AcademyVideo
	err := r.DB.Where("is_active = ?", true).
		Order("`order` ASC").
		Find(&videos).Error
	return videos, err
}

func (r *VideoRepository) ListAll() ([]model.AcademyVideo, error) {
	var videos []model.AcademyVideo
	err := r.DB.Order("`order` ASC").Find(&videos).Error
	return videos, err
}

func (r *VideoRepository) Update(video *model.AcademyVideo) error {
	return r.DB.Save(video).Error
}

func (r *VideoRepository) Delete(id uint) error {
	return r.DB.Delete(&model.AcademyVideo{}, id).Error
}

func (r *VideoRepository) CountActive() (int64, error) {
	var count int64
	err := r.DB.Model(&model.AcademyVideo{}).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}
