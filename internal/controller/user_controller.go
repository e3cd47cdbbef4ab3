package controller

import (
	"errors"

	"testit_backend/internal/middleware"
	"testit_backend/internal/service"
	"testit_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// GetProfile godoc
// @Summary 获取当前用户档案
// @Tags 用户
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.User} "成功"
// @Failure 401 {object} util.Response "未认证"
// @Router /api/profile [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	profile, err := c.UserService.GetProfile(user.ID)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, profile)
}

// UpdateProfile godoc
// @Summary 更新当前用户档案
// @Description 组织一经设置不可更换
// @Tags 用户
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.ProfileUpdateRequest true "变更字段"
// @Success 200 {object} util.Response{data=model.User} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 409 {object} util.Response "不能更换组织"
// @Router /api/profile [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	var req service.ProfileUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := middleware.CurrentUser(ctx)
	updated, err := c.UserService.UpdateProfile(user.ID, &req)
	if err != nil {
		if errors.Is(err, util.ErrOrgChangeForbidden) {
			util.Error(ctx, 409, "已加入组织，不能更换")
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Success(ctx, updated)
}

// UploadAvatar godoc
// @Summary 上传头像
// @Tags 用户
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   photo formData file true "头像文件"
// @Success 200 {object} util.Response{data=model.User} "成功"
// @Failure 400 {object} util.Response "文件缺失"
// @Router /api/profile/avatar [post]
func (c *UserController) UploadAvatar(ctx *gin.Context) {
	header, err := ctx.FormFile("photo")
	if err != nil {
		util.BadRequest(ctx, "缺少 photo 文件")
		return
	}

	user := middleware.CurrentUser(ctx)
	updated, err := c.UserService.UploadAvatar(ctx.Request.Context(), user.ID, header)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, updated)
}
