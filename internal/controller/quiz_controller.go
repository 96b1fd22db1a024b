package controller

import (
	"istqb_study_backend/internal/model"
	"istqb_study_backend/internal/service"
	"istqb_study_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	Quizzes  *service.QuizService
	Attempts *service.AttemptService
}

func NewQuizController(quizzes *service.QuizService, attempts *service.AttemptService) *QuizController {
	return &QuizController{Quizzes: quizzes, Attempts: attempts}
}

// @Summary 获取测验列表
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Param moduleId query string false "按模块过滤"
// @Param type query string false "按类型过滤" Enums(practice, module_test, final_exam)
// @Success 200 {object} util.Response{data=[]service.QuizSummary}
// @Failure 400 {object} util.Response
// @Router /api/quizzes [get]
func (c *QuizController) ListQuizzes(ctx *gin.Context) {
	quizType := model.QuizType(ctx.Query(util.QueryQuizType))
	quizzes, err := c.Quizzes.ListQuizzes(ctx.Request.Context(), ctx.Query(util.QueryModuleID), quizType)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, quizzes)
}

// @Summary 获取测验信息
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Param id path string true "测验ID"
// @Success 200 {object} util.Response{data=service.QuizSummary}
// @Failure 404 {object} util.Response
// @Router /api/quizzes/{id} [get]
func (c *QuizController) GetQuiz(ctx *gin.Context) {
	quiz, err := c.Quizzes.GetQuiz(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// @Summary 获取测验题目（不含答案）
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Param id path string true "测验ID"
// @Param randomize query bool false "是否按测验设置打乱顺序" default(true)
// @Success 200 {object} util.Response{data=service.QuizQuestions}
// @Failure 404 {object} util.Response
// @Router /api/quizzes/{id}/questions [get]
func (c *QuizController) GetQuizQuestions(ctx *gin.Context) {
	randomize := util.ParseBoolDefault(ctx.Query(util.QueryRandomize), true)

	res, err := c.Quizzes.GetQuizQuestions(ctx.Request.Context(), ctx.Param("id"), randomize)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// @Summary 开始测验
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Param id path string true "测验ID"
// @Success 201 {object} util.Response{data=service.StartResult}
// @Failure 404 {object} util.Response
// @Router /api/quizzes/{id}/attempt [post]
func (c *QuizController) StartAttempt(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	res, err := c.Attempts.Start(ctx.Request.Context(), user.UserID, ctx.Param("id"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, res)
}

// @Summary 提交测验答案
// @Description attemptId 为空时提交最近开始且未完成的尝试
// @Tags 测验
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "测验ID"
// @Param body body service.SubmitInput true "答案"
// @Success 200 {object} util.Response{data=service.SubmitResult}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/quizzes/{id}/submit [post]
func (c *QuizController) SubmitAttempt(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.SubmitInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	res, err := c.Attempts.Submit(ctx.Request.Context(), user.UserID, ctx.Param("id"), req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// @Summary 获取我的测验记录
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.AttemptHistoryItem}
// @Router /api/quiz-attempts [get]
func (c *QuizController) ListAttempts(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	items, err := c.Attempts.History(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, items)
}

// @Summary 获取测验记录详情
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Param id path string true "尝试ID"
// @Success 200 {object} util.Response{data=service.AttemptDetail}
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/quiz-attempts/{id} [get]
func (c *QuizController) GetAttempt(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	detail, err := c.Attempts.Detail(ctx.Request.Context(), user.UserID, ctx.Param("id"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}
