package repository

import (
	"portfolio_backend/internal/model"

	"gorm.io/gorm"
)

type ExerciseRepository struct {
	DB *gorm.DB
}

func NewExerciseRepository(db *gorm.DB) *ExerciseRepository {
	return &ExerciseRepository{DB: db}
}

func (r *ExerciseRepository) Create(exercise *model.AcademyExercise) error {
	return r.DB.Create(exercise).Error
}

func (r *ExerciseRepository) FindByID(id uint) (*model.AcademyExercise, error) {
	var exercise model.AcademyExercise
	err := r.DB.First(&exercise, id).Error
	return &exercise, err
}

// List 返回启用的练习，language 非空时按语言过滤
func (r *ExerciseRepository) List(language string) ([]model.AcademyExercise, error) {
	var exercises []model.AcademyExercise
	query := r.DB.Where("is_active = ?", true)
	if language != "" {
		query = query.Where("language = ?", language)
	}
	err := query.Order("`order` ASC").Find(&exercises).Error
	return exercises, err
}

func (r *ExerciseRepository) ListAll() ([]model.AcademyExercise, error) {
	var exercises []model.AcademyExercise
	err := r.DB.Order("`order` ASC").Find(&exercises).Error
	return exercises, err
}

func (r *ExerciseRepository) Update(exercise *model.AcademyExercise) error {
	return r.DB.Save(exercise).Error
}

func (r *ExerciseRepository) Delete(id uint) error {
	return r.DB.Delete(&model.AcademyExercise{}, id).Error
}

func (r *ExerciseRepository) CountActive() (int64, error) {
	var count int64
	err := r.DB.Model(&model.AcademyExercise{}).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}
