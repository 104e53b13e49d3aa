package controller

import (
	"errors"
	"net/http"
	"strconv"

	"portfolio_backend/internal/model"
	"portfolio_backend/internal/service"
	"portfolio_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// callerIsAdmin 当前请求是否来自管理员
func callerIsAdmin(ctx *gin.Context) bool {
	claims := util.GetUserFromContext(ctx)
	return claims != nil && claims.Role == model.Admin
}

type PostController struct {
	PostService *service.PostService
}

func NewPostController(postService *service.PostService) *PostController {
	return &PostController{PostService: postService}
}

// List godoc
// @Summary 文章列表
// @Description 非管理员只返回已发布的文章，支持标题/正文搜索
// @Tags 博客
// @Produce json
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Param search query string false "搜索关键词"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/posts [get]
func (c *PostController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	search := ctx.Query("search")

	posts, total, err := c.PostService.ListPosts(page, limit, search, callerIsAdmin(ctx))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: posts, Total: total, Page: page, Limit: limit})
}

// Get godoc
// @Summary 文章详情
// @Tags 博客
// @Produce json
// @Param id path int true "文章 ID"
// @Success 200 {object} util.Response{data=model.Post}
// @Failure 404 {object} util.Response
// @Router /api/posts/{id} [get]
func (c *PostController) Get(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	post, err := c.PostService.GetPost(id, callerIsAdmin(ctx))
	if err != nil {
		util.Error(ctx, http.StatusNotFound, err.Error())
		return
	}
	util.Success(ctx, post)
}

// Recent godoc
// @Summary 最近文章
// @Description 首页展示的最近三篇已发布文章
// @Tags 博客
// @Produce json
// @Success 200 {object} util.Response{data=[]model.Post}
// @Router /api/posts/recent [get]
func (c *PostController) Recent(ctx *gin.Context) {
	posts, err := c.PostService.RecentPosts()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, posts)
}

type PostRequest struct {
	Title       string          `json:"title" binding:"required"`
	Content     string          `json:"content"`
	MediaURL    string          `json:"mediaUrl"`
	VideoURL    string          `json:"videoUrl"`
	MediaType   model.MediaType `json:"mediaType"`
	IsPublished *bool           `json:"isPublished"`
}

func (r *PostRequest) toModel() *model.Post {
	published := true
	if r.IsPublished != nil {
		published = *r.IsPublished
	}
	return &model.Post{
		Title:       r.Title,
		Content:     r.Content,
		MediaURL:    r.MediaURL,
		VideoURL:    r.VideoURL,
		MediaType:   r.MediaType,
		IsPublished: published,
	}
}

// Create godoc
// @Summary 发表文章
// @Tags 博客
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body PostRequest true "文章内容"
// @Success 201 {object} util.Response{data=model.Post}
// @Router /api/posts [post]
func (c *PostController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req PostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	post := req.toModel()
	if err := c.PostService.CreatePost(claims.UserID, post); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, post)
}

// Update godoc
// @Summary 修改文章
// @Description 仅作者本人或管理员可以修改
// @Tags 博客
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "文章 ID"
// @Param body body PostRequest true "文章内容"
// @Success 200 {object} util.Response{data=model.Post}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/posts/{id} [put]
func (c *PostController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id := util.MustParseUint(ctx.Param("id"))
	var req PostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	post, err := c.PostService.UpdatePost(id, claims.UserID, callerIsAdmin(ctx), req.toModel())
	if err != nil {
		switch {
		case errors.Is(err, util.ErrPostNotFound):
			util.Error(ctx, http.StatusNotFound, err.Error())
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, post)
}

// Delete godoc
// @Summary 删除文章
// @Tags 博客
// @Produce json
// @Security BearerAuth
// @Param id path int true "文章 ID"
// @Success 200 {object} util.Response
// @Router /api/posts/{id} [delete]
func (c *PostController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id := util.MustParseUint(ctx.Param("id"))
	if err := c.PostService.DeletePost(id, claims.UserID, callerIsAdmin(ctx)); err != nil {
		switch {
		case errors.Is(err, util.ErrPostNotFound):
			util.Error(ctx, http.StatusNotFound, err.Error())
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// Stats godoc
// @Summary 博客统计
// @Description 管理端仪表盘：文章与评论数量
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.PostStats}
// @Router /api/admin/posts/stats [get]
func (c *PostController) Stats(ctx *gin.Context) {
	stats, err := c.PostService.Stats()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// UploadMedia godoc
// @Summary 上传文章媒体
// @Description 上传图片或视频，返回可写入文章的 URL 与媒体类型
// @Tags 博客
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "媒体文件"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Router /api/posts/media [post]
func (c *PostController) UploadMedia(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "缺少 file 字段")
		return
	}

	url, mediaType, err := c.PostService.UploadMedia(ctx.Request.Context(), file)
	if err != nil {
		if errors.Is(err, util.ErrUnsupportedMedia) || errors.Is(err, util.ErrInvalidImageType) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"url": url, "mediaType": mediaType})
}

// Comments godoc
// @Summary 文章评论列表
// @Description 非管理员只返回已通过审核的评论
// @Tags 博客
// @Produce json
// @Param id path int true "文章 ID"
// @Success 200 {object} util.Response{data=[]model.Comment}
// @Router /api/posts/{id}/comments [get]
func (c *PostController) Comments(ctx *gin.Context) {
	postID := util.MustParseUint(ctx.Param("id"))
	comments, err := c.PostService.CommentsForPost(postID, callerIsAdmin(ctx))
	if err != nil {
		util.Error(ctx, http.StatusNotFound, err.Error())
		return
	}
	util.Success(ctx, comments)
}

type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// CreateComment godoc
// @Summary 发表评论
// @Tags 博客
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "文章 ID"
// @Param body body CommentRequest true "评论内容"
// @Success 201 {object} util.Response{data=model.Comment}
// @Router /api/posts/{id}/comments [post]
func (c *PostController) CreateComment(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	postID := util.MustParseUint(ctx.Param("id"))
	var req CommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	comment, err := c.PostService.CreateComment(postID, claims.UserID, req.Content)
	if err != nil {
		if errors.Is(err, util.ErrPostNotFound) {
			util.Error(ctx, http.StatusNotFound, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, comment)
}

// DeleteComment godoc
// @Summary 删除评论
// @Description 仅评论作者或管理员可以删除
// @Tags 博客
// @Produce json
// @Security BearerAuth
// @Param id path int true "评论 ID"
// @Success 200 {object} util.Response
// @Router /api/comments/{id} [delete]
func (c *PostController) DeleteComment(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id := util.MustParseUint(ctx.Param("id"))
	if err := c.PostService.DeleteComment(id, claims.UserID, callerIsAdmin(ctx)); err != nil {
		switch {
		case errors.Is(err, util.ErrCommentNotFound):
			util.Error(ctx, http.StatusNotFound, err.Error())
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// ToggleCommentApproval godoc
// @Summary 评论审核开关
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "评论 ID"
// @Success 200 {object} util.Response{data=model.Comment}
// @Router /api/admin/comments/{id}/toggle-approval [post]
func (c *PostController) ToggleCommentApproval(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	comment, err := c.PostService.ToggleCommentApproval(id)
	if err != nil {
		util.Error(ctx, http.StatusNotFound, err.Error())
		return
	}
	util.Success(ctx, comment)
}
