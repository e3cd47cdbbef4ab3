package model

// swagger:model User
type User struct {
	BaseModel
	Email          string        `gorm:"size:100;unique;not null" json:"email"`
	Password       string        `gorm:"size:100;not null" json:"-"`
	FirstName      string        `gorm:"size:150;not null" json:"firstName"`
	LastName       string        `gorm:"size:150;not null" json:"lastName"`
	IsTeacher      bool          `gorm:"default:false" json:"isTeacher"`
	OrganizationID *uint         `gorm:"index" json:"organizationId,omitempty"`
	Organization   *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Photo          string        `gorm:"size:255" json:"photo"`
	Groups         []Group       `gorm:"many2many:group_members" json:"-"`
}

func (User) TableName() string {
	return "users"
}
