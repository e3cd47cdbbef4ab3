package repository

import (
	"errors"
	"strings"

	"testit_backend/internal/model"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

type TestRepository struct {
	DB *gorm.DB
}

func NewTestRepository(db *gorm.DB) *TestRepository {
	return &TestRepository{DB: db}
}

// Create 公开 UUID 只有 8 个十六进制字符，撞到唯一索引时换一个再试
func (r *TestRepository) Create(test *model.Test) error {
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		err = r.DB.Create(test).Error
		if !isDuplicatePublicUUID(err) {
			return err
		}
		test.PublicUUID = model.GenerateShortUUID()
	}
	return err
}

func isDuplicatePublicUUID(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) &&
		mysqlErr.Number == 1062 &&
		strings.Contains(mysqlErr.Message, "public_uuid")
}

func (r *TestRepository) preloaded() *gorm.DB {
	return r.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.position asc")
		}).
		Preload("Questions.Body").
		Preload("Questions.Body.Variants").
		Preload("AvailableFor")
}

func (r *TestRepository) FindByID(id uint) (*model.Test, error) {
	var test model.Test
	err := r.preloaded().First(&test, id).Error
	return &test, err
}

func (r *TestRepository) FindByPublicUUID(uuid string) (*model.Test, error) {
	var test model.Test
	err := r.preloaded().Where("public_uuid = ?", uuid).First(&test).Error
	return &test, err
}

func (r *TestRepository) ListByCreator(creatorID uint, page, limit int) ([]model.Test, int64, error) {
	var tests []model.Test
	var total int64
	query := r.DB.Model(&model.Test{}).Where("creator_id = ?", creatorID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&tests).Error
	return tests, total, err
}

func (r *TestRepository) SetAvailableFor(test *model.Test, groups []model.Group) error {
	return r.DB.Model(test).Association("AvailableFor").Replace(groups)
}

// HasAccess 检查学生是否属于测试开放的某个分组
func (r *TestRepository) HasAccess(testID, userID uint) (bool, error) {
	var count int64
	err := r.DB.Table("test_groups").
		Joins("JOIN group_members ON group_members.group_id = test_groups.group_id").
		Where("test_groups.test_id = ? AND group_members.user_id = ?", testID, userID).
		Count(&count).Error
	return count > 0, err
}
