package controller

import (
	"errors"
	"strconv"

	"testit_backend/internal/middleware"
	"testit_backend/internal/service"
	"testit_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type OrganizationController struct {
	OrganizationService *service.OrganizationService
}

func NewOrganizationController(orgService *service.OrganizationService) *OrganizationController {
	return &OrganizationController{OrganizationService: orgService}
}

// Create godoc
// @Summary 创建组织
// @Description 教师创建组织并自动成为所有者，已属于组织的用户不能再创建
// @Tags 组织
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.OrganizationCreateRequest true "组织信息"
// @Success 201 {object} util.Response{data=model.Organization} "创建成功"
// @Failure 403 {object} util.Response "无权限"
// @Failure 409 {object} util.Response "已属于其他组织"
// @Router /api/organizations [post]
func (c *OrganizationController) Create(ctx *gin.Context) {
	var req service.OrganizationCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := middleware.CurrentUser(ctx)
	org, err := c.OrganizationService.CreateOrganization(user, &req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		case errors.Is(err, util.ErrAlreadyInOrg):
			util.Error(ctx, 409, "已属于其他组织")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, org)
}

// Get godoc
// @Summary 查看组织详情
// @Tags 组织
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "组织 ID"
// @Success 200 {object} util.Response{data=model.Organization} "成功"
// @Failure 404 {object} util.Response "组织不存在"
// @Router /api/organizations/{id} [get]
func (c *OrganizationController) Get(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的组织 ID")
		return
	}

	org, err := c.OrganizationService.GetOrganization(uint(id))
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, org)
}

// List godoc
// @Summary 分页列出所有组织
// @Tags 组织
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Success 200 {object} util.PageResponse "成功"
// @Router /api/organizations [get]
func (c *OrganizationController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	orgs, total, err := c.OrganizationService.ListOrganizations(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.SuccessPage(ctx, orgs, total, page, limit)
}
