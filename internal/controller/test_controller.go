package controller

import (
	"errors"
	"strconv"

	"testit_backend/internal/middleware"
	"testit_backend/internal/service"
	"testit_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TestController struct {
	TestService       *service.TestService
	CompletionService *service.CompletionService
}

func NewTestController(testService *service.TestService, completionService *service.CompletionService) *TestController {
	return &TestController{TestService: testService, CompletionService: completionService}
}

// Create godoc
// @Summary 创建测试
// @Description 教师一次性提交测试及全部题目，服务端校验每道题的内容完整性
// @Tags 测试
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.TestCreateRequest true "测试定义"
// @Success 201 {object} util.Response{data=model.Test} "创建成功"
// @Failure 400 {object} util.Response "题目校验失败"
// @Failure 403 {object} util.Response "仅教师可创建"
// @Router /api/tests [post]
func (c *TestController) Create(ctx *gin.Context) {
	var req service.TestCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := middleware.CurrentUser(ctx)
	test, err := c.TestService.CreateTest(user, &req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		case errors.Is(err, util.ErrOrgMismatch):
			util.Forbidden(ctx)
		default:
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Created(ctx, test)
}

// Get godoc
// @Summary 创建者查看测试详情
// @Description 返回包含答案与测试代码的完整定义，仅限创建者
// @Tags 测试
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测试 ID"
// @Success 200 {object} util.Response{data=model.Test} "成功"
// @Failure 403 {object} util.Response "非创建者"
// @Failure 404 {object} util.Response "测试不存在"
// @Router /api/tests/{id} [get]
func (c *TestController) Get(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的测试 ID")
		return
	}

	user := middleware.CurrentUser(ctx)
	test, err := c.TestService.GetTest(uint(id), user)
	if err != nil {
		if errors.Is(err, util.ErrPermissionDenied) {
			util.Forbidden(ctx)
		} else {
			util.NotFound(ctx)
		}
		return
	}
	util.Success(ctx, test)
}

// GetPublic godoc
// @Summary 学生通过公开 UUID 获取测试
// @Description 返回不含答案信息的学生视图，仅限测试开放小组的成员
// @Tags 测试
// @Produce  json
// @Security BearerAuth
// @Param   uuid path string true "公开 UUID"
// @Success 200 {object} util.Response{data=service.StudentTestView} "成功"
// @Failure 403 {object} util.Response "不在开放小组中"
// @Failure 404 {object} util.Response "测试不存在"
// @Router /api/tests/p/{uuid} [get]
func (c *TestController) GetPublic(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	view, err := c.TestService.GetPublicTest(ctx.Request.Context(), ctx.Param("uuid"), user)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrTestNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrTestNotAccessible):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, view)
}

// List godoc
// @Summary 教师查看自己创建的测试
// @Tags 测试
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Success 200 {object} util.PageResponse "成功"
// @Router /api/tests [get]
func (c *TestController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	user := middleware.CurrentUser(ctx)
	tests, total, err := c.TestService.ListByCreator(user, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.SuccessPage(ctx, tests, total, page, limit)
}

// SetAvailableFor godoc
// @Summary 设置测试开放的小组
// @Description 替换测试的开放小组列表，小组必须属于教师的组织
// @Tags 测试
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测试 ID"
// @Param   body body object true "小组 ID 列表"
// @Success 200 {object} util.Response{data=model.Test} "成功"
// @Failure 403 {object} util.Response "非创建者或小组跨组织"
// @Router /api/tests/{id}/available-for [put]
func (c *TestController) SetAvailableFor(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的测试 ID")
		return
	}

	var req struct {
		Groups []uint `json:"groups" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := middleware.CurrentUser(ctx)
	test, err := c.TestService.SetAvailableFor(ctx.Request.Context(), uint(id), user, req.Groups)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrTestNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied), errors.Is(err, util.ErrOrgMismatch):
			util.Forbidden(ctx)
		default:
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Success(ctx, test)
}

// ListCompletions godoc
// @Summary 教师查看某个测试的全部作答
// @Description 每条作答带总分，未打分的作答在此触发打分
// @Tags 测试
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测试 ID"
// @Success 200 {object} util.Response{data=[]service.CompletionSummaryView} "成功"
// @Failure 403 {object} util.Response "非创建者"
// @Router /api/tests/{id}/completions [get]
func (c *TestController) ListCompletions(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的测试 ID")
		return
	}

	user := middleware.CurrentUser(ctx)
	if _, err := c.TestService.GetTest(uint(id), user); err != nil {
		if errors.Is(err, util.ErrPermissionDenied) {
			util.Forbidden(ctx)
		} else {
			util.NotFound(ctx)
		}
		return
	}

	views, err := c.CompletionService.ListByTest(ctx.Request.Context(), uint(id))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, views)
}
