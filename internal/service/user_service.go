package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"

	"testit_backend/internal/model"
	"testit_backend/internal/repository"
	"testit_backend/internal/util"

	"github.com/google/uuid"
)

// ProfileUpdateRequest 更新个人资料。组织一旦设置不可更换，
// 只能由空变为有值。
type ProfileUpdateRequest struct {
	FirstName      *string `json:"firstName"`
	LastName       *string `json:"lastName"`
	OrganizationID *uint   `json:"organizationId"`
}

type UserService struct {
	userRepo *repository.UserRepository
	orgRepo  *repository.OrganizationRepository
	storage  StorageProvider
}

func NewUserService(userRepo *repository.UserRepository, orgRepo *repository.OrganizationRepository, storage StorageProvider) *UserService {
	return &UserService{userRepo: userRepo, orgRepo: orgRepo, storage: storage}
}

// GetProfile 获取当前用户档案
func (s *UserService) GetProfile(userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile 更新档案。已加入组织的用户不能改变组织归属。
func (s *UserService) UpdateProfile(userID uint, req *ProfileUpdateRequest) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.OrganizationID != nil {
		if user.OrganizationID != nil && *user.OrganizationID != *req.OrganizationID {
			return nil, util.ErrOrgChangeForbidden
		}
		if _, err := s.orgRepo.FindByID(*req.OrganizationID); err != nil {
			return nil, fmt.Errorf("组织 %d 不存在", *req.OrganizationID)
		}
		user.OrganizationID = req.OrganizationID
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return s.userRepo.FindByID(userID)
}

// UploadAvatar 上传头像，对象名用随机前缀避免覆盖
func (s *UserService) UploadAvatar(ctx context.Context, userID uint, header *multipart.FileHeader) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}

	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	objectName := fmt.Sprintf("avatars/%s%s", uuid.NewString(), filepath.Ext(header.Filename))
	contentType := header.Header.Get("Content-Type")
	path, err := s.storage.Save(ctx, objectName, file, header.Size, contentType)
	if err != nil {
		return nil, err
	}

	user.Photo = path
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
