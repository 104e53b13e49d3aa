package controller

import (
	"errors"
	"net/http"

	"portfolio_backend/internal/model"
	"portfolio_backend/internal/service"
	"portfolio_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ExerciseController struct {
	ExerciseService   *service.ExerciseService
	SubmissionService *service.SubmissionService
}

func NewExerciseController(exerciseService *service.ExerciseService, submissionService *service.SubmissionService) *ExerciseController {
	return &ExerciseController{
		ExerciseService:   exerciseService,
		SubmissionService: submissionService,
	}
}

// List godoc
// @Summary 练习列表
// @Description 非管理员只返回启用中的练习，language 可选过滤；参考答案不随列表返回
// @Tags 学院
// @Produce json
// @Security BearerAuth
// @Param language query string false "编程语言过滤"
// @Success 200 {object} util.Response{data=[]model.AcademyExercise}
// @Router /api/academy/exercises [get]
func (c *ExerciseController) List(ctx *gin.Context) {
	exercises, err := c.ExerciseService.ListExercises(ctx.Query("language"), callerIsAdmin(ctx))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, exercises)
}

// Get godoc
// @Summary 练习详情
// @Tags 学院
// @Produce json
// @Security BearerAuth
// @Param id path int true "练习 ID"
// @Success 200 {object} util.Response{data=model.AcademyExercise}
// @Failure 404 {object} util.Response
// @Router /api/academy/exercises/{id} [get]
func (c *ExerciseController) Get(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	exercise, err := c.ExerciseService.GetExercise(id, callerIsAdmin(ctx))
	if err != nil {
		util.Error(ctx, http.StatusNotFound, err.Error())
		return
	}
	util.Success(ctx, exercise)
}

// Solution godoc
// @Summary 查看参考答案
// @Tags 学院
// @Produce json
// @Security BearerAuth
// @Param id path int true "练习 ID"
// @Success 200 {object} util.Response{data=service.SolutionView}
// @Failure 404 {object} util.Response
// @Router /api/academy/exercises/{id}/solution [get]
func (c *ExerciseController) Solution(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	view, err := c.ExerciseService.Solution(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, util.ErrExerciseNotFound) {
			util.Error(ctx, http.StatusNotFound, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, view)
}

type ExecuteRequest struct {
	Code  string `json:"code" binding:"required"`
	Stdin string `json:"stdin"`
}

// Execute godoc
// @Summary 在线运行代码
// @Description 只执行不评审，返回沙箱的原始结果
// @Tags 学院
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "练习 ID"
// @Param body body ExecuteRequest true "代码与可选的标准输入"
// @Success 200 {object} util.Response{data=service.ExecutionResult}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/academy/exercises/{id}/execute [post]
func (c *ExerciseController) Execute(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	var req ExecuteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.SubmissionService.ExecuteCode(ctx.Request.Context(), id, req.Code, req.Stdin)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrExerciseNotFound):
			util.Error(ctx, http.StatusNotFound, err.Error())
		case errors.Is(err, util.ErrCodeTooShort):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, result)
}

type SubmitRequest struct {
	Code string `json:"code" binding:"required"`
}

// Submit godoc
// @Summary 提交练习解答
// @Description 沙箱执行 + AI 评审（或启发式校验），通过后结算积分、经验与连续天数
// @Tags 学院
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "练习 ID"
// @Param body body SubmitRequest true "解答代码"
// @Success 200 {object} util.Response{data=service.SubmissionVerdict}
// @Failure 404 {object} util.Response
// @Router /api/academy/exercises/{id}/submit [post]
func (c *ExerciseController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id := util.MustParseUint(ctx.Param("id"))
	var req SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	verdict, err := c.SubmissionService.Submit(ctx.Request.Context(), claims.UserID, id, req.Code)
	if err != nil {
		if errors.Is(err, util.ErrExerciseNotFound) {
			util.Error(ctx, http.StatusNotFound, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, verdict)
}

// Create godoc
// @Summary 创建练习
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.AcademyExercise true "练习内容"
// @Success 201 {object} util.Response{data=model.AcademyExercise}
// @Router /api/admin/academy/exercises [post]
func (c *ExerciseController) Create(ctx *gin.Context) {
	var exercise model.AcademyExercise
	if err := ctx.ShouldBindJSON(&exercise); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if exercise.Title == "" {
		util.BadRequest(ctx, "练习标题不能为空")
		return
	}

	if err := c.ExerciseService.CreateExercise(&exercise); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, exercise)
}

// Update godoc
// @Summary 修改练习
// @Description 更新成功后会清掉参考答案缓存
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "练习 ID"
// @Param body body model.AcademyExercise true "练习内容"
// @Success 200 {object} util.Response{data=model.AcademyExercise}
// @Failure 404 {object} util.Response
// @Router /api/admin/academy/exercises/{id} [put]
func (c *ExerciseController) Update(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	var req model.AcademyExercise
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exercise, err := c.ExerciseService.UpdateExercise(ctx.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, util.ErrExerciseNotFound) {
			util.Error(ctx, http.StatusNotFound, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, exercise)
}

// Delete godoc
// @Summary 删除练习
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "练习 ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/academy/exercises/{id} [delete]
func (c *ExerciseController) Delete(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if err := c.ExerciseService.DeleteExercise(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, util.ErrExerciseNotFound) {
			util.Error(ctx, http.StatusNotFound, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}
