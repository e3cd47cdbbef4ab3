package controller

import (
	"errors"
	"strconv"

	"testit_backend/internal/middleware"
	"testit_backend/internal/service"
	"testit_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GroupController struct {
	GroupService *service.GroupService
}

func NewGroupController(groupService *service.GroupService) *GroupController {
	return &GroupController{GroupService: groupService}
}

// Create godoc
// @Summary 创建小组
// @Description 教师在自己的组织内创建学生小组
// @Tags 小组
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.GroupCreateRequest true "小组信息"
// @Success 201 {object} util.Response{data=model.Group} "创建成功"
// @Failure 403 {object} util.Response "无权限或未加入组织"
// @Router /api/groups [post]
func (c *GroupController) Create(ctx *gin.Context) {
	var req service.GroupCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := middleware.CurrentUser(ctx)
	group, err := c.GroupService.CreateGroup(user, &req)
	if err != nil {
		if errors.Is(err, util.ErrPermissionDenied) || errors.Is(err, util.ErrOrgMismatch) {
			util.Forbidden(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, group)
}

// Get godoc
// @Summary 查看小组详情
// @Tags 小组
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "小组 ID"
// @Success 200 {object} util.Response{data=model.Group} "成功"
// @Failure 404 {object} util.Response "小组不存在"
// @Router /api/groups/{id} [get]
func (c *GroupController) Get(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的小组 ID")
		return
	}

	user := middleware.CurrentUser(ctx)
	group, err := c.GroupService.GetGroup(uint(id), user)
	if err != nil {
		if errors.Is(err, util.ErrPermissionDenied) {
			util.Forbidden(ctx)
		} else {
			util.NotFound(ctx)
		}
		return
	}
	util.Success(ctx, group)
}

// List godoc
// @Summary 列出本组织的全部小组
// @Tags 小组
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Group} "成功"
// @Router /api/groups [get]
func (c *GroupController) List(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	groups, err := c.GroupService.ListGroups(user)
	if err != nil {
		if errors.Is(err, util.ErrOrgMismatch) {
			util.Forbidden(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, groups)
}

// AddUser godoc
// @Summary 把用户加入小组
// @Description 按邮箱把本组织用户加入小组，跨组织加入会被拒绝
// @Tags 小组
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "小组 ID"
// @Param   body body service.GroupAddUserRequest true "用户邮箱"
// @Success 200 {object} util.Response{data=model.Group} "成功"
// @Failure 404 {object} util.Response "用户不存在"
// @Failure 409 {object} util.Response "用户不属于本组织"
// @Router /api/groups/{id}/users [post]
func (c *GroupController) AddUser(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的小组 ID")
		return
	}

	var req service.GroupAddUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := middleware.CurrentUser(ctx)
	group, err := c.GroupService.AddUser(uint(id), user, &req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrOrgMismatch):
			util.Error(ctx, 409, "用户不属于本组织")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, group)
}

// Delete godoc
// @Summary 删除小组
// @Tags 小组
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "小组 ID"
// @Success 200 {object} util.Response "成功"
// @Failure 403 {object} util.Response "仅创建者可删除"
// @Router /api/groups/{id} [delete]
func (c *GroupController) Delete(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的小组 ID")
		return
	}

	user := middleware.CurrentUser(ctx)
	if err := c.GroupService.DeleteGroup(uint(id), user); err != nil {
		if errors.Is(err, util.ErrPermissionDenied) {
			util.Forbidden(ctx)
		} else {
			util.NotFound(ctx)
		}
		return
	}
	util.Success(ctx, nil)
}
