package model

// QuestionType 题目类型，封闭枚举。打分与答案解析均基于该类型做穷举分发，
// 新增类型必须同时扩展 scoring 与 resolution 的 switch。
type QuestionType string

const (
	QuestionText  QuestionType = "text"
	QuestionRadio QuestionType = "radio"
	QuestionCheck QuestionType = "check"
	QuestionCode  QuestionType = "code"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionText, QuestionRadio, QuestionCheck, QuestionCode:
		return true
	}
	return false
}

// Question 测试中的一道题。Points 必须为正，创建时校验。
// swagger:model Question
type Question struct {
	BaseModel
	TestID   uint         `gorm:"index;not null" json:"testId"`
	Type     QuestionType `gorm:"size:10;not null" json:"type"`
	Text     string       `gorm:"size:150;not null" json:"text"`
	Points   int          `gorm:"not null" json:"points"`
	Position int          `gorm:"default:1" json:"position"`
	Body     QuestionBody `gorm:"foreignKey:QuestionID" json:"body"`
}

func (Question) TableName() string {
	return "questions"
}

// QuestionBody 题目的类型化内容。text/radio/check 使用 Variants，
// check 额外使用 StrictScore，code 使用 TestingCode；其余字段保持零值。
// swagger:model QuestionBody
type QuestionBody struct {
	BaseModel
	QuestionID  uint      `gorm:"uniqueIndex;not null" json:"-"`
	StrictScore bool      `gorm:"default:false" json:"strictScore,omitempty"`
	TestingCode string    `gorm:"type:text" json:"testingCode,omitempty"`
	Variants    []Variant `gorm:"foreignKey:QuestionBodyID" json:"variants,omitempty"`
}

func (QuestionBody) TableName() string {
	return "question_bodies"
}

// Variant 一个备选项，属于某道题的答案集合
// swagger:model Variant
type Variant struct {
	BaseModel
	QuestionBodyID uint   `gorm:"index;not null" json:"-"`
	Text           string `gorm:"type:text;not null" json:"text"`
	IsCorrect      bool   `gorm:"default:false" json:"isCorrect,omitempty"`
}

func (Variant) TableName() string {
	return "variants"
}

// CorrectCount 统计正确备选项个数
func CorrectCount(variants []Variant) int {
	n := 0
	for _, v := range variants {
		if v.IsCorrect {
			n++
		}
	}
	return n
}
