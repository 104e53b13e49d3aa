package repository

import (
	"portfolio_backend/internal/model"

	"gorm.io/gorm"
)

type PostRepository struct {
	DB *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{DB: db}
}

func (r *PostRepository) Create(post *model.Post) error {
	return r.DB.Create(post).Error
}

func (r *PostRepository) FindByID(id uint) (*model.Post, error) {
	var post model.Post
	err := r.DB.Preload("Author").First(&post, id).Error
	return &post, err
}

// List 返回已发布的文章（分页，最新在前），search 对标题/正文模糊匹配
func (r *PostRepository) List(page, pageSize int, search string) ([]model.Post, int64, error) {
	query := r.DB.Model(&model.Post{}).Where("is_published = ?", true)
	return r.paginate(query, page, pageSize, search)
}

// ListAll 管理端列表，包含未发布的文章
func (r *PostRepository) ListAll(page, pageSize int, search string) ([]model.Post, int64, error) {
	return r.paginate(r.DB.Model(&model.Post{}), page, pageSize, search)
}

func (r *PostRepository) paginate(query *gorm.DB, page, pageSize int, search string) ([]model.Post, int64, error) {
	var posts []model.Post
	var total int64

	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("title LIKE ? OR content LIKE ?", pattern, pattern)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Author").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&posts).Error
	return posts, total, err
}

// Recent 返回最近发布的 n 篇文章，用于首页
func (r *PostRepository) Recent(limit int) ([]model.Post, error) {
	var posts []model.Post
	err := r.DB.Where("is_published = ?", true).
		Preload("Author").
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *PostRepository) Update(post *model.Post) error {
	return r.DB.Save(post).Error
}

func (r *PostRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Post{}, id).Error
}

func (r *PostRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Post{}).Count(&count).Error
	return count, err
}

func (r *PostRepository) CountPublished() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Post{}).Where("is_published = ?", true).Count(&count).Error
	return count, err
}

func (r *PostRepository) CreateComment(comment *model.Comment) error {
	return r.DB.Create(comment).Error
}

func (r *PostRepository) FindCommentByID(id uint) (*model.Comment, error) {
	var comment model.Comment
	err := r.DB.Preload("Author").First(&comment, id).Error
	return &comment, err
}

// CommentsForPost 返回文章下的评论，includeUnapproved 为管理端视角
func (r *PostRepository) CommentsForPost(postID uint, includeUnapproved bool) ([]model.Comment, error) {
	var comments []model.Comment
	query := r.DB.Where("post_id = ?", postID)
	if !includeUnapproved {
		query = query.Where("is_approved = ?", true)
	}
	err := query.Preload("Author").
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

func (r *PostRepository) DeleteComment(id uint) error {
	return r.DB.Delete(&model.Comment{}, id).Error
}

func (r *PostRepository) CountComments() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Comment{}).Count(&count).Error
	return count, err
}

func (r *PostRepository) CountPendingComments() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Comment{}).Where("is_approved = ?", false).Count(&count).Error
	return count, err
}

func (r *PostRepository) UpdateComment(comment *model.Comment) error {
	return r.DB.Save(comment).Error
}
