package service

import (
	"testit_backend/internal/model"
	"testit_backend/internal/repository"
	"testit_backend/internal/util"
	"testit_backend/pkg/logger"

	"go.uber.org/zap"
)

// GroupCreateRequest 创建小组
type GroupCreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// GroupAddUserRequest 把用户加入小组，按邮箱引用
type GroupAddUserRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type GroupService struct {
	repo     *repository.GroupRepository
	userRepo *repository.UserRepository
}

func NewGroupService(repo *repository.GroupRepository, userRepo *repository.UserRepository) *GroupService {
	return &GroupService{repo: repo, userRepo: userRepo}
}

// CreateGroup 教师在自己的组织内创建小组
func (s *GroupService) CreateGroup(user *model.User, req *GroupCreateRequest) (*model.Group, error) {
	if !user.IsTeacher {
		return nil, util.ErrPermissionDenied
	}
	if user.OrganizationID == nil {
		return nil, util.ErrOrgMismatch
	}

	group := &model.Group{
		Name:           req.Name,
		Description:    req.Description,
		OrganizationID: *user.OrganizationID,
		CreatorID:      user.ID,
	}
	if err := s.repo.Create(group); err != nil {
		return nil, err
	}

	logger.Log.Info("group created", zap.Uint("groupID", group.ID), zap.Uint("orgID", group.OrganizationID))
	return group, nil
}

// GetGroup 查看小组详情，仅限同组织成员
func (s *GroupService) GetGroup(id uint, user *model.User) (*model.Group, error) {
	group, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if user.OrganizationID == nil || group.OrganizationID != *user.OrganizationID {
		return nil, util.ErrPermissionDenied
	}
	return group, nil
}

// ListGroups 列出教师所在组织的全部小组
func (s *GroupService) ListGroups(user *model.User) ([]model.Group, error) {
	if user.OrganizationID == nil {
		return nil, util.ErrOrgMismatch
	}
	return s.repo.ListByOrganization(*user.OrganizationID)
}

// AddUser 教师把用户加入小组。小组必须属于教师的组织，
// 被加入的用户也必须属于同一组织。
func (s *GroupService) AddUser(groupID uint, teacher *model.User, req *GroupAddUserRequest) (*model.Group, error) {
	group, err := s.repo.FindByID(groupID)
	if err != nil {
		return nil, err
	}
	if teacher.OrganizationID == nil || group.OrganizationID != *teacher.OrganizationID {
		return nil, util.ErrPermissionDenied
	}

	member, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, util.ErrUserNotFound
	}
	if member.OrganizationID == nil || *member.OrganizationID != group.OrganizationID {
		return nil, util.ErrOrgMismatch
	}

	if err := s.repo.AddMember(group, member); err != nil {
		return nil, err
	}
	return s.repo.FindByID(groupID)
}

// DeleteGroup 删除小组，仅限创建者
func (s *GroupService) DeleteGroup(id uint, user *model.User) error {
	group, err := s.repo.FindByID(id)
	if err != nil {
		return err
	}
	if group.CreatorID != user.ID {
		return util.ErrPermissionDenied
	}
	return s.repo.Delete(id)
}
