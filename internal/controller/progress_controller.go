package controller

import (
	"istqb_study_backend/internal/service"
	"istqb_study_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	Service *service.ProgressService
}

func NewProgressController(svc *service.ProgressService) *ProgressController {
	return &ProgressController{Service: svc}
}

// @Summary 获取我的学习进度
// @Tags 学习进度
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.UserProgress}
// @Router /api/progress [get]
func (c *ProgressController) ListProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	list, err := c.Service.ListProgress(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// @Summary 获取单个模块的学习进度
// @Tags 学习进度
// @Produce json
// @Security BearerAuth
// @Param moduleId path string true "模块ID"
// @Success 200 {object} util.Response{data=model.UserProgress}
// @Failure 404 {object} util.Response
// @Router /api/progress/{moduleId} [get]
func (c *ProgressController) GetProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	p, err := c.Service.GetProgress(ctx.Request.Context(), user.UserID, ctx.Param("moduleId"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, p)
}

// @Summary 更新模块学习进度
// @Tags 学习进度
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param moduleId path string true "模块ID"
// @Param body body service.UpdateProgressInput true "进度"
// @Success 200 {object} util.Response{data=model.UserProgress}
// @Failure 400 {object} util.Response
// @Router /api/progress/{moduleId} [post]
func (c *ProgressController) UpdateProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.UpdateProgressInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	p, err := c.Service.UpdateProgress(ctx.Request.Context(), user.UserID, ctx.Param("moduleId"), req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, p)
}

// @Summary 标记小节完成
// @Tags 学习进度
// @Produce json
// @Security BearerAuth
// @Param moduleId path string true "模块ID"
// @Param sectionId path string true "小节ID"
// @Success 200 {object} util.Response{data=service.SectionCompletion}
// @Router /api/progress/{moduleId}/section/{sectionId} [post]
func (c *ProgressController) MarkSectionComplete(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	res, err := c.Service.MarkSectionComplete(ctx.Request.Context(), user.UserID, ctx.Param("moduleId"), ctx.Param("sectionId"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, res)
}
