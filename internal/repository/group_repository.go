package repository

import (
	"testit_backend/internal/model"

	"gorm.io/gorm"
)

type GroupRepository struct {
	DB *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{DB: db}
}

func (r *GroupRepository) Create(group *model.Group) error {
	return r.DB.Create(group).Error
}

func (r *GroupRepository) FindByID(id uint) (*model.Group, error) {
	var group model.Group
	err := r.DB.Preload("Organization").Preload("Members").First(&group, id).Error
	return &group, err
}

func (r *GroupRepository) ListByOrganization(orgID uint) ([]model.Group, error) {
	var groups []model.Group
	err := r.DB.Preload("Members").Where("organization_id = ?", orgID).Order("created_at desc").Find(&groups).Error
	return groups, err
}

func (r *GroupRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Group{}, id).Error
}

func (r *GroupRepository) AddMember(group *model.Group, user *model.User) error {
	return r.DB.Model(group).Association("Members").Append(user)
}
