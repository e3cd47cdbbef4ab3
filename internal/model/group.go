package model

// Group 学生分组，归属于一个组织，由教师创建
// swagger:model Group
type Group struct {
	BaseModel
	Name           string        `gorm:"size:150;not null" json:"name"`
	Description    string        `gorm:"type:text" json:"description"`
	OrganizationID uint          `gorm:"index;not null" json:"organizationId"`
	Organization   *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	CreatorID      uint          `gorm:"index;not null" json:"creatorId"`
	Creator        *User         `gorm:"foreignKey:CreatorID" json:"-"`
	Members        []User        `gorm:"many2many:group_members" json:"members,omitempty"`
}

func (Group) TableName() string {
	return "groups"
}
