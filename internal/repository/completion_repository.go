package repository

import (
	"testit_backend/internal/model"

	"gorm.io/gorm"
)

type CompletionRepository struct {
	DB *gorm.DB
}

func NewCompletionRepository(db *gorm.DB) *CompletionRepository {
	return &CompletionRepository{DB: db}
}

func (r *CompletionRepository) Create(completion *model.Completion) error {
	return r.DB.Create(completion).Error
}

// FindByID 加载打分所需的完整对象图：每条作答连同其题目、
// 题目内容和已选备选项
func (r *CompletionRepository) FindByID(id uint) (*model.Completion, error) {
	var completion model.Completion
	err := r.DB.
		Preload("User").
		Preload("Test").
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("answers.id asc")
		}).
		Preload("Answers.Question").
		Preload("Answers.Question.Body").
		Preload("Answers.Question.Body.Variants").
		Preload("Answers.Body").
		Preload("Answers.Body.PickedVariant").
		Preload("Answers.Body.PickedVariants").
		First(&completion, id).Error
	return &completion, err
}

// ListByTest 一次性批量预加载全部作答明细（GORM 按层级合并成 IN 查询），
// 列表里偶发未打分的记录补分时不用再逐条回读
func (r *CompletionRepository) ListByTest(testID uint) ([]model.Completion, error) {
	var completions []model.Completion
	err := r.DB.
		Preload("User").
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("answers.id asc")
		}).
		Preload("Answers.Question").
		Preload("Answers.Question.Body").
		Preload("Answers.Question.Body.Variants").
		Preload("Answers.Body").
		Preload("Answers.Body.PickedVariant").
		Preload("Answers.Body.PickedVariants").
		Where("test_id = ?", testID).
		Order("created_at desc").
		Find(&completions).Error
	return completions, err
}

func (r *CompletionRepository) UpdateScore(completionID uint, score int) error {
	return r.DB.Model(&model.Completion{}).Where("id = ?", completionID).Update("score", score).Error
}

// SaveVerdict 写入代码题判定，写一次即冻结：仅当 is_correct 仍为
// NULL 时更新，并发打分只有一方落库，双方读到同一结果。
func (r *CompletionRepository) SaveVerdict(bodyID uint, isCorrect bool, errors string) error {
	return r.DB.Model(&model.AnswerBody{}).
		Where("id = ? AND is_correct IS NULL", bodyID).
		Updates(map[string]interface{}{"is_correct": isCorrect, "errors": errors}).Error
}

// FindAnswerBody 重新读取作答载荷（用于并发打分时取回已落库的判定）
func (r *CompletionRepository) FindAnswerBody(bodyID uint) (*model.AnswerBody, error) {
	var body model.AnswerBody
	err := r.DB.First(&body, bodyID).Error
	return &body, err
}

// CreateVariant 为 text 题的新颖作答创建 is_correct=false 的备选项
func (r *CompletionRepository) CreateVariant(variant *model.Variant) error {
	return r.DB.Create(variant).Error
}
