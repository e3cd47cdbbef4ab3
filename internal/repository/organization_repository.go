package repository

import (
	"testit_backend/internal/model"

	"gorm.io/gorm"
)

type OrganizationRepository struct {
	DB *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{DB: db}
}

func (r *OrganizationRepository) Create(org *model.Organization) error {
	return r.DB.Create(org).Error
}

func (r *OrganizationRepository) FindByID(id uint) (*model.Organization, error) {
	var org model.Organization
	err := r.DB.First(&org, id).Error
	return &org, err
}

func (r *OrganizationRepository) List(page, limit int) ([]model.Organization, int64, error) {
	var orgs []model.Organization
	var total int64
	query := r.DB.Model(&model.Organization{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&orgs).Error
	return orgs, total, err
}
