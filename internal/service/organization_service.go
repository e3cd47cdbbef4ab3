package service

import (
	"testit_backend/internal/model"
	"testit_backend/internal/repository"
	"testit_backend/internal/util"
	"testit_backend/pkg/logger"

	"go.uber.org/zap"
)

// OrganizationCreateRequest 创建组织
type OrganizationCreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type OrganizationService struct {
	repo     *repository.OrganizationRepository
	userRepo *repository.UserRepository
}

func NewOrganizationService(repo *repository.OrganizationRepository, userRepo *repository.UserRepository) *OrganizationService {
	return &OrganizationService{repo: repo, userRepo: userRepo}
}

// CreateOrganization 教师创建组织。创建者不能已属于其他组织，
// 创建成功后自动加入新组织并成为所有者。
func (s *OrganizationService) CreateOrganization(user *model.User, req *OrganizationCreateRequest) (*model.Organization, error) {
	if !user.IsTeacher {
		return nil, util.ErrPermissionDenied
	}
	if user.OrganizationID != nil {
		return nil, util.ErrAlreadyInOrg
	}

	org := &model.Organization{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     user.ID,
	}
	if err := s.repo.Create(org); err != nil {
		return nil, err
	}

	user.OrganizationID = &org.ID
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	logger.Log.Info("organization created", zap.Uint("orgID", org.ID), zap.Uint("ownerID", user.ID))
	return org, nil
}

// GetOrganization 查看组织详情
func (s *OrganizationService) GetOrganization(id uint) (*model.Organization, error) {
	return s.repo.FindByID(id)
}

// ListOrganizations 分页列出所有组织，注册后选择组织时使用
func (s *OrganizationService) ListOrganizations(page, limit int) ([]model.Organization, int64, error) {
	return s.repo.List(page, limit)
}
