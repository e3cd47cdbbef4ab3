package service

import (
	"time"

	"testit_backend/internal/model"
)

// 面向学生的序列化视图。学生通过公开 UUID 获取测试时不能
// 看到任何答案信息：text/code 题的内容渲染为空，radio/check
// 题只给出备选项文本，不含 isCorrect 与 testingCode。

// VariantView 去掉正误标记的备选项
type VariantView struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

// QuestionBodyView 学生可见的题目内容
type QuestionBodyView struct {
	Variants []VariantView `json:"variants,omitempty"`
}

// QuestionView 学生可见的题目
type QuestionView struct {
	ID       uint               `json:"id"`
	Type     model.QuestionType `json:"type"`
	Text     string             `json:"text"`
	Points   int                `json:"points"`
	Position int                `json:"position"`
	Body     QuestionBodyView   `json:"body"`
}

// StudentTestView 学生视角的测试
type StudentTestView struct {
	Name       string         `json:"name"`
	PublicUUID string         `json:"publicUuid"`
	Questions  []QuestionView `json:"questions"`
}

// NewStudentTestView 从完整的测试对象裁剪出学生视图
func NewStudentTestView(test *model.Test) *StudentTestView {
	view := &StudentTestView{
		Name:       test.Name,
		PublicUUID: test.PublicUUID,
		Questions:  make([]QuestionView, 0, len(test.Questions)),
	}
	for i := range test.Questions {
		q := &test.Questions[i]
		qv := QuestionView{
			ID:       q.ID,
			Type:     q.Type,
			Text:     q.Text,
			Points:   q.Points,
			Position: q.Position,
		}
		switch q.Type {
		case model.QuestionRadio, model.QuestionCheck:
			for _, v := range q.Body.Variants {
				qv.Body.Variants = append(qv.Body.Variants, VariantView{ID: v.ID, Text: v.Text})
			}
		}
		view.Questions = append(view.Questions, qv)
	}
	return view
}

// AnswerBodyView 学生可见的作答载荷：保留自己的选择和代码报错，
// 不含任何正误标记
type AnswerBodyView struct {
	PickedVariant  *VariantView  `json:"pickedVariant,omitempty"`
	PickedVariants []VariantView `json:"pickedVariants,omitempty"`
	Code           string        `json:"code,omitempty"`
	Errors         string        `json:"errors,omitempty"`
}

// AnswerView 学生可见的单条作答
type AnswerView struct {
	QuestionID uint           `json:"questionId"`
	Body       AnswerBodyView `json:"body"`
}

// CompletionView 学生视角的一次作答，带总分
type CompletionView struct {
	ID        uint         `json:"id"`
	UserID    uint         `json:"userId"`
	TestID    uint         `json:"testId"`
	Score     *int         `json:"score"`
	CreatedAt time.Time    `json:"createdAt"`
	Answers   []AnswerView `json:"answers"`
}

// NewCompletionView 从完整的作答对象裁剪出学生视图
func NewCompletionView(c *model.Completion) *CompletionView {
	view := &CompletionView{
		ID:        c.ID,
		UserID:    c.UserID,
		TestID:    c.TestID,
		Score:     c.Score,
		CreatedAt: c.CreatedAt,
		Answers:   make([]AnswerView, 0, len(c.Answers)),
	}
	for i := range c.Answers {
		a := &c.Answers[i]
		av := AnswerView{QuestionID: a.QuestionID}
		if a.Body.PickedVariant != nil {
			av.Body.PickedVariant = &VariantView{ID: a.Body.PickedVariant.ID, Text: a.Body.PickedVariant.Text}
		}
		for _, v := range a.Body.PickedVariants {
			av.Body.PickedVariants = append(av.Body.PickedVariants, VariantView{ID: v.ID, Text: v.Text})
		}
		av.Body.Code = a.Body.Code
		av.Body.Errors = a.Body.Errors
		view.Answers = append(view.Answers, av)
	}
	return view
}

// AnswerCorrectnessView 教师视角的单条作答：附带该题实际得分
type AnswerCorrectnessView struct {
	QuestionID uint             `json:"questionId"`
	Points     float64          `json:"points"`
	Body       model.AnswerBody `json:"body"`
}

// CompletionCorrectnessView 教师视角的作答详情
type CompletionCorrectnessView struct {
	ID      uint                    `json:"id"`
	UserID  uint                    `json:"userId"`
	TestID  uint                    `json:"testId"`
	Score   int                     `json:"score"`
	Answers []AnswerCorrectnessView `json:"answers"`
}

// CompletionSummaryView 测试作答列表中的一行
type CompletionSummaryView struct {
	ID        uint        `json:"id"`
	UserID    uint        `json:"userId"`
	User      *model.User `json:"user,omitempty"`
	TestID    uint        `json:"testId"`
	Score     int         `json:"score"`
	CreatedAt time.Time   `json:"createdAt"`
}
