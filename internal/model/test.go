package model

import "gorm.io/gorm"

// Test 一份由教师创建的测试，通过 8 位公开 UUID 分享给学生
// swagger:model Test
type Test struct {
	BaseModel
	Name         string     `gorm:"size:150;not null" json:"name"`
	CreatorID    uint       `gorm:"index;not null" json:"creatorId"`
	Creator      *User      `gorm:"foreignKey:CreatorID" json:"-"`
	PublicUUID   string     `gorm:"size:8;uniqueIndex" json:"publicUuid"`
	AvailableFor []Group    `gorm:"many2many:test_groups" json:"-"`
	Questions    []Question `gorm:"foreignKey:TestID" json:"questions,omitempty"`
}

func (Test) TableName() string {
	return "tests"
}

func (t *Test) BeforeCreate(tx *gorm.DB) (err error) {
	if t.PublicUUID == "" {
		t.PublicUUID = GenerateShortUUID()
	}
	return
}
