package controller

import (
	"istqb_study_backend/internal/service"
	"istqb_study_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ModuleController struct {
	Service *service.ContentService
}

func NewModuleController(svc *service.ContentService) *ModuleController {
	return &ModuleController{Service: svc}
}

// @Summary 获取学习模块列表
// @Tags 学习模块
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Module}
// @Router /api/modules [get]
func (c *ModuleController) ListModules(ctx *gin.Context) {
	modules, err := c.Service.ListModules(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, modules)
}

// @Summary 获取学习模块详情
// @Tags 学习模块
// @Produce json
// @Security BearerAuth
// @Param id path string true "模块ID"
// @Success 200 {object} util.Response{data=model.Module}
// @Failure 404 {object} util.Response
// @Router /api/modules/{id} [get]
func (c *ModuleController) GetModule(ctx *gin.Context) {
	module, err := c.Service.GetModule(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, module)
}

// @Summary 创建学习模块
// @Tags 学习模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreateModuleReq true "模块信息"
// @Success 201 {object} util.Response{data=model.Module}
// @Failure 400 {object} util.Response
// @Router /api/modules [post]
func (c *ModuleController) CreateModule(ctx *gin.Context) {
	var req service.CreateModuleReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	module, err := c.Service.CreateModule(ctx.Request.Context(), req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, module)
}
