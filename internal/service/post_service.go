package service

import (
	"context"
	"mime/multipart"

	"portfolio_backend/internal/model"
	"portfolio_backend/internal/repository"
	"portfolio_backend/internal/util"
)

// PostStats 管理端仪表盘统计
type PostStats struct {
	TotalPosts      int64 `json:"totalPosts"`
	PublishedPosts  int64 `json:"publishedPosts"`
	TotalComments   int64 `json:"totalComments"`
	PendingComments int64 `json:"pendingComments"`
}

// PostService 博客文章与评论
type PostService struct {
	PostRepo *repository.PostRepository
	Storage  *StorageService
}

func NewPostService(postRepo *repository.PostRepository, storage *StorageService) *PostService {
	return &PostService{PostRepo: postRepo, Storage: storage}
}

// ListPosts 文章列表：非管理员只能看到已发布的
func (s *PostService) ListPosts(page, pageSize int, search string, isAdmin bool) ([]model.Post, int64, error) {
	if isAdmin {
		return s.PostRepo.ListAll(page, pageSize, search)
	}
	return s.PostRepo.List(page, pageSize, search)
}

func (s *PostService) GetPost(id uint, isAdmin bool) (*model.Post, error) {
	post, err := s.PostRepo.FindByID(id)
	if err != nil {
		return nil, util.ErrPostNotFound
	}
	if !post.IsPublished && !isAdmin {
		return nil, util.ErrPostNotFound
	}
	return post, nil
}

func (s *PostService) CreatePost(authorID uint, post *model.Post) error {
	post.AuthorID = authorID
	return s.PostRepo.Create(post)
}

// UpdatePost 只有作者本人或管理员可以修改
func (s *PostService) UpdatePost(id, callerID uint, isAdmin bool, updated *model.Post) (*model.Post, error) {
	post, err := s.PostRepo.FindByID(id)
	if err != nil {
		return nil, util.ErrPostNotFound
	}
	if post.AuthorID != callerID && !isAdmin {
		return nil, util.ErrPermissionDenied
	}

	post.Title = updated.Title
	post.Content = updated.Content
	post.MediaURL = updated.MediaURL
	post.VideoURL = updated.VideoURL
	post.MediaType = updated.MediaType
	post.IsPublished = updated.IsPublished
	if err := s.PostRepo.Update(post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) DeletePost(id, callerID uint, isAdmin bool) error {
	post, err := s.PostRepo.FindByID(id)
	if err != nil {
		return util.ErrPostNotFound
	}
	if post.AuthorID != callerID && !isAdmin {
		return util.ErrPermissionDenied
	}
	return s.PostRepo.Delete(id)
}

// RecentPosts 首页最近三篇
func (s *PostService) RecentPosts() ([]model.Post, error) {
	return s.PostRepo.Recent(3)
}

func (s *PostService) Stats() (*PostStats, error) {
	total, err := s.PostRepo.Count()
	if err != nil {
		return nil, err
	}
	published, err := s.PostRepo.CountPublished()
	if err != nil {
		return nil, err
	}
	comments, err := s.PostRepo.CountComments()
	if err != nil {
		return nil, err
	}
	pending, err := s.PostRepo.CountPendingComments()
	if err != nil {
		return nil, err
	}
	return &PostStats{
		TotalPosts:      total,
		PublishedPosts:  published,
		TotalComments:   comments,
		PendingComments: pending,
	}, nil
}

// UploadMedia 上传文章配图或视频，按扩展名推断媒体类型，图片做内容嗅探
func (s *PostService) UploadMedia(ctx context.Context, file *multipart.FileHeader) (string, model.MediaType, error) {
	var mediaType model.MediaType
	var contentType string

	switch {
	case util.IsImage(file.Filename):
		ct, ok := util.ValidateMimeType(file, util.MimeImage)
		if !ok {
			return "", "", util.ErrInvalidImageType
		}
		mediaType = model.MediaImage
		contentType = ct
	case util.IsVideo(file.Filename):
		mediaType = model.MediaVideo
		contentType = util.MimeOctetStream
	default:
		return "", "", util.ErrUnsupportedMedia
	}

	key := BuildObjectKey("posts", file.Filename)
	url, err := s.Storage.UploadMultipart(ctx, key, file, contentType)
	if err != nil {
		return "", "", err
	}
	return url, mediaType, nil
}

// CommentsForPost 文章评论列表：非管理员只能看到已通过审核的
func (s *PostService) CommentsForPost(postID uint, isAdmin bool) ([]model.Comment, error) {
	if _, err := s.PostRepo.FindByID(postID); err != nil {
		return nil, util.ErrPostNotFound
	}
	return s.PostRepo.CommentsForPost(postID, isAdmin)
}

func (s *PostService) CreateComment(postID, authorID uint, content string) (*model.Comment, error) {
	if _, err := s.PostRepo.FindByID(postID); err != nil {
		return nil, util.ErrPostNotFound
	}
	comment := &model.Comment{
		PostID:     postID,
		AuthorID:   authorID,
		Content:    content,
		IsApproved: true,
	}
	if err := s.PostRepo.CreateComment(comment); err != nil {
		return nil, err
	}
	return s.PostRepo.FindCommentByID(comment.ID)
}

func (s *PostService) DeleteComment(id, callerID uint, isAdmin bool) error {
	comment, err := s.PostRepo.FindCommentByID(id)
	if err != nil {
		return util.ErrCommentNotFound
	}
	if comment.AuthorID != callerID && !isAdmin {
		return util.ErrPermissionDenied
	}
	return s.PostRepo.DeleteComment(id)
}

// ToggleCommentApproval 管理端审核开关
func (s *PostService) ToggleCommentApproval(id uint) (*model.Comment, error) {
	comment, err := s.PostRepo.FindCommentByID(id)
	if err != nil {
		return nil, util.ErrCommentNotFound
	}
	comment.IsApproved = !comment.IsApproved
	if err := s.PostRepo.UpdateComment(comment); err != nil {
		return nil, err
	}
	return comment, nil
}
