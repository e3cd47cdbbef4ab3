package controller

import (
	"errors"
	"strconv"

	"testit_backend/internal/middleware"
	"testit_backend/internal/service"
	"testit_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CompletionController struct {
	CompletionService *service.CompletionService
}

func NewCompletionController(completionService *service.CompletionService) *CompletionController {
	return &CompletionController{CompletionService: completionService}
}

// Create godoc
// @Summary 学生提交作答
// @Description 一次性提交整份测试的作答并立即出分。文本答案在服务端
// @Description 解析为备选项引用，代码题进入沙箱判定。
// @Tags 作答
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.CompletionCreateRequest true "作答内容"
// @Success 201 {object} util.Response{data=service.CompletionView} "提交成功，含总分"
// @Failure 400 {object} util.Response "作答内容不合法"
// @Failure 403 {object} util.Response "不在开放小组中或教师提交"
// @Failure 404 {object} util.Response "测试不存在"
// @Router /api/completions [post]
func (c *CompletionController) Create(ctx *gin.Context) {
	var req service.CompletionCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := middleware.CurrentUser(ctx)
	completion, err := c.CompletionService.CreateCompletion(ctx.Request.Context(), user, &req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrPermissionDenied), errors.Is(err, util.ErrTestNotAccessible):
			util.Forbidden(ctx)
		case errors.Is(err, util.ErrTestNotFound):
			util.NotFound(ctx)
		default:
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Created(ctx, service.NewCompletionView(completion))
}

// Get godoc
// @Summary 查看一次作答
// @Description 学生只能查看自己的作答，教师可查看任意作答
// @Tags 作答
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "作答 ID"
// @Success 200 {object} util.Response{data=service.CompletionView} "成功"
// @Failure 403 {object} util.Response "非本人作答"
// @Failure 404 {object} util.Response "作答不存在"
// @Router /api/completions/{id} [get]
func (c *CompletionController) Get(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的作答 ID")
		return
	}

	user := middleware.CurrentUser(ctx)
	completion, err := c.CompletionService.GetCompletion(uint(id), user)
	if err != nil {
		if errors.Is(err, util.ErrPermissionDenied) {
			util.Forbidden(ctx)
		} else {
			util.NotFound(ctx)
		}
		return
	}

	if _, err := c.CompletionService.ScoreCompletion(ctx.Request.Context(), completion); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, service.NewCompletionView(completion))
}

// GetScore godoc
// @Summary 查询一次作答的总分
// @Tags 作答
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "作答 ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 404 {object} util.Response "作答不存在"
// @Router /api/completions/{id}/score [get]
func (c *CompletionController) GetScore(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的作答 ID")
		return
	}

	user := middleware.CurrentUser(ctx)
	completion, err := c.CompletionService.GetCompletion(uint(id), user)
	if err != nil {
		if errors.Is(err, util.ErrPermissionDenied) {
			util.Forbidden(ctx)
		} else {
			util.NotFound(ctx)
		}
		return
	}

	score, err := c.CompletionService.ScoreCompletion(ctx.Request.Context(), completion)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"score": score})
}

// WithCorrectness godoc
// @Summary 教师查看作答详情（含正误）
// @Description 逐题标注得分、备选项正误以及代码题的判定和报错
// @Tags 作答
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "作答 ID"
// @Success 200 {object} util.Response{data=service.CompletionCorrectnessView} "成功"
// @Failure 404 {object} util.Response "作答不存在"
// @Router /api/completions/{id}/with-correctness [get]
func (c *CompletionController) WithCorrectness(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的作答 ID")
		return
	}

	view, err := c.CompletionService.WithCorrectness(ctx.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, util.ErrCompletionNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, view)
}
