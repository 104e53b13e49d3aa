package controller

import (
	"errors"
	"net/http"

	"portfolio_backend/internal/model"
	"portfolio_backend/internal/service"
	"portfolio_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type BadgeController struct {
	BadgeService *service.BadgeService
}

func NewBadgeController(badgeService *service.BadgeService) *BadgeController {
	return &BadgeController{BadgeService: badgeService}
}

// List godoc
// @Summary 徽章列表
// @Description 启用中的徽章，附带当前用户的解锁状态与时间
// @Tags 学院
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.BadgeView}
// @Router /api/academy/badges [get]
func (c *BadgeController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	views, err := c.BadgeService.ListWithUnlockState(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, views)
}

// MyBadges godoc
// @Summary 我的徽章
// @Description 已解锁的徽章，按解锁时间倒序
// @Tags 学院
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.UserBadge}
// @Router /api/academy/badges/me [get]
func (c *BadgeController) MyBadges(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	badges, err := c.BadgeService.MyBadges(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, badges)
}

// ListAll godoc
// @Summary 全部徽章
// @Description 管理端列表，包含停用的徽章
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Badge}
// @Router /api/admin/academy/badges [get]
func (c *BadgeController) ListAll(ctx *gin.Context) {
	badges, err := c.BadgeService.ListAll()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, badges)
}

// Create godoc
// @Summary 创建徽章
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.Badge true "徽章定义"
// @Success 201 {object} util.Response{data=model.Badge}
// @Router /api/admin/academy/badges [post]
func (c *BadgeController) Create(ctx *gin.Context) {
	var badge model.Badge
	if err := ctx.ShouldBindJSON(&badge); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if badge.Name == "" {
		util.BadRequest(ctx, "徽章名称不能为空")
		return
	}

	if err := c.BadgeService.CreateBadge(&badge); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, badge)
}

// Update godoc
// @Summary 修改徽章
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "徽章 ID"
// @Param body body model.Badge true "徽章定义"
// @Success 200 {object} util.Response{data=model.Badge}
// @Failure 404 {object} util.Response
// @Router /api/admin/academy/badges/{id} [put]
func (c *BadgeController) Update(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	var req model.Badge
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	badge, err := c.BadgeService.UpdateBadge(id, &req)
	if err != nil {
		if errors.Is(err, util.ErrBadgeNotFound) {
			util.Error(ctx, http.StatusNotFound, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, badge)
}

// Delete godoc
// @Summary 删除徽章
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "徽章 ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/academy/badges/{id} [delete]
func (c *BadgeController) Delete(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if err := c.BadgeService.DeleteBadge(id); err != nil {
		if errors.Is(err, util.ErrBadgeNotFound) {
			util.Error(ctx, http.StatusNotFound, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}
