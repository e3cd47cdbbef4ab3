package model

// Answer 对某一道题的作答，归属于一次 Completion
// swagger:model Answer
type Answer struct {
	BaseModel
	CompletionID uint       `gorm:"index;not null" json:"-"`
	QuestionID   uint       `gorm:"index;not null" json:"questionId"`
	Question     *Question  `gorm:"foreignKey:QuestionID" json:"-"`
	Body         AnswerBody `gorm:"foreignKey:AnswerID" json:"body"`
}

func (Answer) TableName() string {
	return "answers"
}

// AnswerBody 作答的类型化载荷，按题目类型使用不同字段：
// text/radio 使用 PickedVariant，check 使用 PickedVariants，
// code 使用 Code。IsCorrect/Errors 是代码题的判定结果，
// 提交时为空，首次打分写入一次，之后不再重算（写一次即冻结）。
// swagger:model AnswerBody
type AnswerBody struct {
	BaseModel
	AnswerID        uint      `gorm:"uniqueIndex;not null" json:"-"`
	PickedVariantID *uint     `gorm:"index" json:"-"`
	PickedVariant   *Variant  `gorm:"foreignKey:PickedVariantID" json:"pickedVariant,omitempty"`
	PickedVariants  []Variant `gorm:"many2many:answer_body_picked_variants" json:"pickedVariants,omitempty"`
	Code            string    `gorm:"type:text" json:"code,omitempty"`
	IsCorrect       *bool     `json:"isCorrect,omitempty"`
	Errors          string    `gorm:"type:text" json:"errors,omitempty"`
}

func (AnswerBody) TableName() string {
	return "answer_bodies"
}

// Graded 代码题判定是否已经落库
func (b *AnswerBody) Graded() bool {
	return b.IsCorrect != nil
}
