package controller

import (
	"strconv"

	"portfolio_backend/internal/service"
	"portfolio_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// Me godoc
// @Summary 我的学习进度
// @Description 经验、等级、积分与连续学习天数，首次访问时建档
// @Tags 学院
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.UserProgress}
// @Router /api/academy/progress/me [get]
func (c *ProgressController) Me(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	progress, err := c.ProgressService.Me(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// Stats godoc
// @Summary 学习统计
// @Description 已完成/总量对比与整体完成率（保留一位小数）
// @Tags 学院
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.ProgressStats}
// @Router /api/academy/progress/stats [get]
func (c *ProgressController) Stats(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	stats, err := c.ProgressService.Stats(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// Leaderboard godoc
// @Summary 排行榜
// @Description 按经验值降序，默认前 10 名，最多 50 名
// @Tags 学院
// @Produce json
// @Security BearerAuth
// @Param limit query int false "名次数量" default(10)
// @Success 200 {object} util.Response{data=[]model.LeaderboardEntry}
// @Router /api/academy/leaderboard [get]
func (c *ProgressController) Leaderboard(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	entries, err := c.ProgressService.Leaderboard(ctx.Request.Context(), limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}
