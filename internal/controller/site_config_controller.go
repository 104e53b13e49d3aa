package controller

import (
	"errors"

	"portfolio_backend/internal/model"
	"portfolio_backend/internal/service"
	"portfolio_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SiteConfigController struct {
	SiteService *service.SiteService
}

func NewSiteConfigController(siteService *service.SiteService) *SiteConfigController {
	return &SiteConfigController{SiteService: siteService}
}

// Get godoc
// @Summary 站点配置
// @Description 公开接口，返回首页与联系方式配置
// @Tags 站点
// @Produce json
// @Success 200 {object} util.Response{data=model.SiteConfig}
// @Router /api/site-config/current [get]
func (c *SiteConfigController) Get(ctx *gin.Context) {
	cfg, err := c.SiteService.Current()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, cfg)
}

// Update godoc
// @Summary 更新站点配置
// @Description 简历地址只能通过上传接口变更，此处提交的 cvUrl 会被忽略
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.SiteConfig true "站点配置"
// @Success 200 {object} util.Response{data=model.SiteConfig}
// @Router /api/admin/site-config [put]
func (c *SiteConfigController) Update(ctx *gin.Context) {
	var req model.SiteConfig
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	cfg, err := c.SiteService.Update(&req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, cfg)
}

// UploadCV godoc
// @Summary 上传简历
// @Description 仅接受 PDF 文件
// @Tags 管理
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "简历文件"
// @Success 200 {object} util.Response{data=model.SiteConfig}
// @Failure 400 {object} util.Response
// @Router /api/admin/site-config/cv [post]
func (c *SiteConfigController) UploadCV(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "缺少 file 字段")
		return
	}

	cfg, err := c.SiteService.UploadCV(ctx.Request.Context(), file)
	if err != nil {
		if errors.Is(err, util.ErrInvalidCVType) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, cfg)
}
