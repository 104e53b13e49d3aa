package controller

import (
	"errors"
	"net/http"

	"portfolio_backend/internal/model"
	"portfolio_backend/internal/service"
	"portfolio_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService   *service.CourseService
	ProgressService *service.ProgressService
}

func NewCourseController(courseService *service.CourseService, progressService *service.ProgressService) *CourseController {
	return &CourseController{
		CourseService:   courseService,
		ProgressService: progressService,
	}
}

// List godoc
// @Summary 课程列表
// @Description 非管理员只返回启用中的课程，支持标题/描述搜索
// @Tags 学院
// @Produce json
// @Security BearerAuth
// @Param search query string false "搜索关键词"
// @Success 200 {object} util.Response{data=[]model.Course}
// @Router /api/academy/courses [get]
func (c *CourseController) List(ctx *gin.Context) {
	courses, err := c.CourseService.ListCourses(ctx.Query("search"), callerIsAdmin(ctx))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// Featured godoc
// @Summary 推荐课程
// @Tags 学院
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Course}
// @Router /api/academy/courses/featured [get]
func (c *CourseController) Featured(ctx *gin.Context) {
	courses, err := c.CourseService.FeaturedCourses()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// Get godoc
// @Summary 课程详情
// @Description 支持数字 ID 或 slug，携带全部课程条目
// @Tags 学院
// @Produce json
// @Security BearerAuth
// @Param id path string true "课程 ID 或 slug"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 404 {object} util.Response
// @Router /api/academy/courses/{id} [get]
func (c *CourseController) Get(ctx *gin.Context) {
	course, err := c.CourseService.GetCourse(ctx.Param("id"), callerIsAdmin(ctx))
	if err != nil {
		util.Error(ctx, http.StatusNotFound, err.Error())
		return
	}
	util.Success(ctx, course)
}

// Start godoc
// @Summary 开始课程
// @Description 建立学习进度并指向第一个条目，重复调用返回现状
// @Tags 学院
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程 ID"
// @Success 200 {object} util.Response{data=model.UserCourseProgress}
// @Failure 404 {object} util.Response
// @Router /api/academy/courses/{id}/start [post]
func (c *CourseController) Start(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID := util.MustParseUint(ctx.Param("id"))
	progress, err := c.ProgressService.StartCourse(claims.UserID, courseID)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.Error(ctx, http.StatusNotFound, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, progress)
}

// Progress godoc
// @Summary 课程进度
// @Tags 学院
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程 ID"
// @Success 200 {object} util.Response{data=model.UserCourseProgress}
// @Failure 404 {object} util.Response
// @Router /api/academy/courses/{id}/progress [get]
func (c *CourseController) Progress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID := util.MustParseUint(ctx.Param("id"))
	progress, err := c.ProgressService.CourseProgress(claims.UserID, courseID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrCourseNotFound), errors.Is(err, util.ErrCourseNotStarted):
			util.Error(ctx, http.StatusNotFound, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, progress)
}

type CompleteItemRequest struct {
	ItemID uint `json:"itemId" binding:"required"`
}

// CompleteItem godoc
// @Summary 完成课程条目
// @Description 首次完成奖励经验（视频 10 / 练习 50），并把当前条目推进到下一项
// @Tags 学院
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程 ID"
// @Param body body CompleteItemRequest true "条目 ID"
// @Success 200 {object} util.Response{data=service.ItemCompletionResult}
// @Failure 404 {object} util.Response
// @Router /api/academy/courses/{id}/complete-item [post]
func (c *CourseController) CompleteItem(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID := util.MustParseUint(ctx.Param("id"))
	var req CompleteItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "必须提供 itemId")
		return
	}

	result, err := c.ProgressService.CompleteCourseItem(ctx.Request.Context(), claims.UserID, courseID, req.ItemID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrCourseNotFound), errors.Is(err, util.ErrCourseItemNotFound):
			util.Error(ctx, http.StatusNotFound, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, result)
}

// GetItem godoc
// @Summary 课程条目详情
// @Description 携带条目关联的视频或练习内容
// @Tags 学院
// @Produce json
// @Security BearerAuth
// @Param id path int true "条目 ID"
// @Success 200 {object} util.Response{data=model.CourseItem}
// @Failure 404 {object} util.Response
// @Router /api/academy/course-items/{id} [get]
func (c *CourseController) GetItem(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	item, err := c.CourseService.GetItem(id)
	if err != nil {
		util.Error(ctx, http.StatusNotFound, err.Error())
		return
	}
	util.Success(ctx, item)
}

// Navigation godoc
// @Summary 条目导航
// @Description 返回上一项 / 当前项 / 下一项以及调用者在课程中的进度
// @Tags 学院
// @Produce json
// @Security BearerAuth
// @Param id path int true "条目 ID"
// @Success 200 {object} util.Response{data=service.NavigationInfo}
// @Failure 404 {object} util.Response
// @Router /api/academy/course-items/{id}/navigation [get]
func (c *CourseController) Navigation(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id := util.MustParseUint(ctx.Param("id"))
	info, err := c.ProgressService.Navigation(claims.UserID, id)
	if err != nil {
		if errors.Is(err, util.ErrCourseItemNotFound) {
			util.Error(ctx, http.StatusNotFound, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, info)
}

// Create godoc
// @Summary 创建课程
// @Description slug 缺省时由标题生成，重名自动追加序号
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.Course true "课程内容"
// @Success 201 {object} util.Response{data=model.Course}
// @Router /api/admin/academy/courses [post]
func (c *CourseController) Create(ctx *gin.Context) {
	var course model.Course
	if err := ctx.ShouldBindJSON(&course); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if course.Title == "" {
		util.BadRequest(ctx, "课程标题不能为空")
		return
	}

	if err := c.CourseService.CreateCourse(&course); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, course)
}

// Update godoc
// @Summary 修改课程
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程 ID"
// @Param body body model.Course true "课程内容"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 404 {object} util.Response
// @Router /api/admin/academy/courses/{id} [put]
func (c *CourseController) Update(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	var req model.Course
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.UpdateCourse(id, &req)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.Error(ctx, http.StatusNotFound, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, course)
}

// Delete godoc
// @Summary 删除课程
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程 ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/academy/courses/{id} [delete]
func (c *CourseController) Delete(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if err := c.CourseService.DeleteCourse(id); err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.Error(ctx, http.StatusNotFound, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// CreateItem godoc
// @Summary 创建课程条目
// @Description 条目顺序在课程内唯一，内容引用必须与类型一致
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.CourseItem true "条目内容"
// @Success 201 {object} util.Response{data=model.CourseItem}
// @Router /api/admin/academy/course-items [post]
func (c *CourseController) CreateItem(ctx *gin.Context) {
	var item model.CourseItem
	if err := ctx.ShouldBindJSON(&item); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.CourseService.CreateItem(&item); err != nil {
		switch {
		case errors.Is(err, util.ErrCourseNotFound),
			errors.Is(err, util.ErrVideoNotFound),
			errors.Is(err, util.ErrExerciseNotFound):
			util.Error(ctx, http.StatusNotFound, err.Error())
		default:
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Created(ctx, item)
}

// UpdateItem godoc
// @Summary 修改课程条目
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "条目 ID"
// @Param body body model.CourseItem true "条目内容"
// @Success 200 {object} util.Response{data=model.CourseItem}
// @Failure 404 {object} util.Response
// @Router /api/admin/academy/course-items/{id} [put]
func (c *CourseController) UpdateItem(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	var req model.CourseItem
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	item, err := c.CourseService.UpdateItem(id, &req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrCourseItemNotFound),
			errors.Is(err, util.ErrVideoNotFound),
			errors.Is(err, util.ErrExerciseNotFound):
			util.Error(ctx, http.StatusNotFound, err.Error())
		default:
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Success(ctx, item)
}

// DeleteItem godoc
// @Summary 删除课程条目
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "条目 ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/academy/course-items/{id} [delete]
func (c *CourseController) DeleteItem(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if err := c.CourseService.DeleteItem(id); err != nil {
		if errors.Is(err, util.ErrCourseItemNotFound) {
			util.Error(ctx, http.StatusNotFound, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}
