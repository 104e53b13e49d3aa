package controller

import (
	"errors"
	"net/http"

	"portfolio_backend/internal/model"
	"portfolio_backend/internal/service"
	"portfolio_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type VideoController struct {
	VideoService    *service.VideoService
	ProgressService *service.ProgressService
}

func NewVideoController(videoService *service.VideoService, progressService *service.ProgressService) *VideoController {
	return &VideoController{
		VideoService:    videoService,
		ProgressService: progressService,
	}
}

// List godoc
// @Summary 视频列表
// @Description 非管理员只返回启用中的视频
// @Tags 学院
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.AcademyVideo}
// @Router /api/academy/videos [get]
func (c *VideoController) List(ctx *gin.Context) {
	videos, err := c.VideoService.ListVideos(callerIsAdmin(ctx))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, videos)
}

// Get godoc
// @Summary 视频详情
// @Tags 学院
// @Produce json
// @Security BearerAuth
// @Param id path int true "视频 ID"
// @Success 200 {object} util.Response{data=model.AcademyVideo}
// @Failure 404 {object} util.Response
// @Router /api/academy/videos/{id} [get]
func (c *VideoController) Get(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	video, err := c.VideoService.GetVideo(id, callerIsAdmin(ctx))
	if err != nil {
		util.Error(ctx, http.StatusNotFound, err.Error())
		return
	}
	util.Success(ctx, video)
}

// Complete godoc
// @Summary 完成视频
// @Description 首次完成奖励经验并更新连续学习天数，重复调用不再加分
// @Tags 学院
// @Produce json
// @Security BearerAuth
// @Param id path int true "视频 ID"
// @Success 200 {object} util.Response{data=service.VideoCompletionResult}
// @Failure 404 {object} util.Response
// @Router /api/academy/videos/{id}/complete [post]
func (c *VideoController) Complete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	videoID := util.MustParseUint(ctx.Param("id"))
	result, err := c.ProgressService.CompleteVideo(ctx.Request.Context(), claims.UserID, videoID)
	if err != nil {
		if errors.Is(err, util.ErrVideoNotFound) {
			util.Error(ctx, http.StatusNotFound, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, result)
}

// Create godoc
// @Summary 创建视频
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.AcademyVideo true "视频内容"
// @Success 201 {object} util.Response{data=model.AcademyVideo}
// @Router /api/admin/academy/videos [post]
func (c *VideoController) Create(ctx *gin.Context) {
	var video model.AcademyVideo
	if err := ctx.ShouldBindJSON(&video); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if video.Title == "" {
		util.BadRequest(ctx, "视频标题不能为空")
		return
	}

	if err := c.VideoService.CreateVideo(&video); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, video)
}

// Update godoc
// @Summary 修改视频
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "视频 ID"
// @Param body body model.AcademyVideo true "视频内容"
// @Success 200 {object} util.Response{data=model.AcademyVideo}
// @Failure 404 {object} util.Response
// @Router /api/admin/academy/videos/{id} [put]
func (c *VideoController) Update(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	var req model.AcademyVideo
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	video, err := c.VideoService.UpdateVideo(id, &req)
	if err != nil {
		if errors.Is(err, util.ErrVideoNotFound) {
			util.Error(ctx, http.StatusNotFound, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, video)
}

// Delete godoc
// @Summary 删除视频
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "视频 ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/academy/videos/{id} [delete]
func (c *VideoController) Delete(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if err := c.VideoService.DeleteVideo(id); err != nil {
		if errors.Is(err, util.ErrVideoNotFound) {
			util.Error(ctx, http.StatusNotFound, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// Upload godoc
// @Summary 上传视频文件
// @Description 探测时长、生成首帧封面并推到对象存储，返回可填入创建表单的元数据
// @Tags 管理
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "视频文件"
// @Success 200 {object} util.Response{data=service.VideoUploadResult}
// @Failure 400 {object} util.Response
// @Router /api/admin/academy/videos/upload [post]
func (c *VideoController) Upload(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "缺少 file 字段")
		return
	}

	result, err := c.VideoService.UploadVideo(ctx.Request.Context(), file)
	if err != nil {
		if errors.Is(err, util.ErrInvalidVideoExt) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, result)
}
