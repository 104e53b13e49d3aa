package repository

import (
	"portfolio_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

// FindByID 返回课程及按顺序排列的内容项，内容项带出关联的视频/练习
func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("course_items.`order` ASC")
	}).
		Preload("Items.Video").
		Preload("Items.Exercise").
		First(&course, id).Error
	return &course, err
}

func (r *CourseRepository) FindBySlug(slug string) (*model.Course, error) {
	var course model.Course
	err := r.DB.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("course_items.`order` ASC")
	}).
		Preload("Items.Video").
		Preload("Items.Exercise").
		Where("slug = ?", slug).
		First(&course).Error
	return &course, err
}

// List 启用中的课程，search 对标题/简介模糊匹配
func (r *CourseRepository) List(search string) ([]model.Course, error) {
	var courses []model.Course
	query := r.DB.Where("is_active = ?", true)
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", pattern, pattern)
	}
	err := query.Order("`order` ASC, created_at DESC").Find(&courses).Error
	return courses, err
}

// ListAll 管理端列表，包含停用的课程
func (r *CourseRepository) ListAll(search string) ([]model.Course, error) {
	var courses []model.Course
	query := r.DB.Model(&model.Course{})
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", pattern, pattern)
	}
	err := query.Order("`order` ASC, created_at DESC").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) ListFeatured() ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Where("is_active = ? AND is_featured = ?", true, true).
		Order("`order` ASC").
		Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Save(course).Error
}

func (r *CourseRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Course{}, id).Error
}

func (r *CourseRepository) CreateItem(item *model.CourseItem) error {
	return r.DB.Create(item).Error
}

func (r *CourseRepository) FindItemByID(id uint) (*model.CourseItem, error) {
	var item model.CourseItem
	err := r.DB.Preload("Video").Preload("Exercise").First(&item, id).Error
	return &item, err
}

func (r *CourseRepository) ItemsForCourse(courseID uint) ([]model.CourseItem, error) {
	var items []model.CourseItem
	err := r.DB.Where("course_id = ?", courseID).
		Order("`order` ASC").
		Preload("Video").
		Preload("Exercise").
		Find(&items).Error
	return items, err
}

// FirstItem 返回课程的第一个内容项
func (r *CourseRepository) FirstItem(courseID uint) (*model.CourseItem, error) {
	var item model.CourseItem
	err := r.DB.Where("course_id = ?", courseID).
		Order("`order` ASC").
		First(&item).Error
	return &item, err
}

// NextItem 返回顺序号在 afterOrder 之后的下一个内容项，没有时返回 gorm.ErrRecordNotFound
func (r *CourseRepository) NextItem(courseID uint, afterOrder int) (*model.CourseItem, error) {
	var item model.CourseItem
	err := r.DB.Where("course_id = ? AND `order` > ?", courseID, afterOrder).
		Order("`order` ASC").
		First(&item).Error
	return &item, err
}

// PreviousItem 返回顺序号在 beforeOrder 之前的上一个内容项
func (r *CourseRepository) PreviousItem(courseID uint, beforeOrder int) (*model.CourseItem, error) {
	var item model.CourseItem
	err := r.DB.Where("course_id = ? AND `order` < ?", courseID, beforeOrder).
		Order("`order` DESC").
		First(&item).Error
	return &item, err
}

func (r *CourseRepository) CountItems(courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.CourseItem{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	return count, err
}

func (r *CourseRepository) UpdateItem(item *model.CourseItem) error {
	return r.DB.Save(item).Error
}

func (r *CourseRepository) DeleteItem(id uint) error {
	return r.DB.Delete(&model.CourseItem{}, id).Error
}
