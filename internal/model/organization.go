package model

// swagger:model Organization
type Organization struct {
	BaseModel
	Name        string `gorm:"size:150;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	OwnerID     uint   `gorm:"index;not null" json:"ownerId"`
	Owner       *User  `gorm:"foreignKey:OwnerID" json:"-"`
}

func (Organization) TableName() string {
	return "organizations"
}
