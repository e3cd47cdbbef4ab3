package model

// Completion 一名学生对一份测试的一次作答。Score 懒计算：
// 首次请求分数时汇总各题得分并持久化，之后直接复用落库的结果。
// swagger:model Completion
type Completion struct {
	BaseModel
	UserID  uint     `gorm:"index;not null" json:"userId"`
	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	TestID  uint     `gorm:"index;not null" json:"testId"`
	Test    *Test    `gorm:"foreignKey:TestID" json:"-"`
	Score   *int     `json:"score"`
	Answers []Answer `gorm:"foreignKey:CompletionID" json:"answers,omitempty"`
}

func (Completion) TableName() string {
	return "completions"
}
