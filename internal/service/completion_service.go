package service

import (
	"context"
	"fmt"
	"strings"

	"testit_backend/internal/model"
	"testit_backend/internal/repository"
	"testit_backend/internal/util"
	"testit_backend/pkg/logger"

	"go.uber.org/zap"
)

// VariantRequest 按文本提交的备选项
type VariantRequest struct {
	Text string `json:"text" binding:"required"`
}

// AnswerBodyRequest 作答载荷，按题目类型使用不同字段
type AnswerBodyRequest struct {
	PickedVariant  *VariantRequest  `json:"pickedVariant,omitempty"`
	PickedVariants []VariantRequest `json:"pickedVariants,omitempty"`
	Code           string           `json:"code,omitempty"`
}

// AnswerRequest 对某道题的一条作答
type AnswerRequest struct {
	QuestionID uint              `json:"question" binding:"required"`
	Body       AnswerBodyRequest `json:"body"`
}

// CompletionCreateRequest 学生提交一次完整作答，测试以公开 UUID 引用
type CompletionCreateRequest struct {
	TestUUID string          `json:"test" binding:"required"`
	Answers  []AnswerRequest `json:"answers" binding:"required"`
}

type CompletionService struct {
	repo     *repository.CompletionRepository
	testRepo *repository.TestRepository
	grader   *CodeGrader
}

func NewCompletionService(repo *repository.CompletionRepository, testRepo *repository.TestRepository, grader *CodeGrader) *CompletionService {
	return &CompletionService{repo: repo, testRepo: testRepo, grader: grader}
}

// CreateCompletion 学生提交作答。教师不能参加测试；学生必须属于
// 该测试开放的某个小组。提交的文本答案在这里解析成备选项引用，
// 随后立即计算总分。
func (s *CompletionService) CreateCompletion(ctx context.Context, user *model.User, req *CompletionCreateRequest) (*model.Completion, error) {
	if user.IsTeacher {
		return nil, util.ErrPermissionDenied
	}

	test, err := s.testRepo.FindByPublicUUID(req.TestUUID)
	if err != nil {
		return nil, util.ErrTestNotFound
	}

	ok, err := s.testRepo.HasAccess(test.ID, user.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, util.ErrTestNotAccessible
	}

	questions := make(map[uint]*model.Question, len(test.Questions))
	for i := range test.Questions {
		questions[test.Questions[i].ID] = &test.Questions[i]
	}

	completion := &model.Completion{UserID: user.ID, TestID: test.ID}
	for _, ar := range req.Answers {
		q, found := questions[ar.QuestionID]
		if !found {
			return nil, fmt.Errorf("题目 %d 不属于测试 %s", ar.QuestionID, test.PublicUUID)
		}
		body, err := s.resolveAnswerBody(q, &ar.Body)
		if err != nil {
			return nil, err
		}
		completion.Answers = append(completion.Answers, model.Answer{
			QuestionID: q.ID,
			Body:       *body,
		})
	}

	if err := s.repo.Create(completion); err != nil {
		return nil, err
	}

	// 重新加载完整关联图再打分
	created, err := s.repo.FindByID(completion.ID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ScoreCompletion(ctx, created); err != nil {
		return nil, err
	}

	logger.Log.Info("completion submitted",
		zap.Uint("userID", user.ID),
		zap.String("test", test.PublicUUID),
		zap.Intp("score", created.Score))
	return created, nil
}

// resolveAnswerBody 把提交的文本作答解析成对备选项的引用：
//   - text：去空白、忽略大小写匹配；匹配不到则新建一个 is_correct=false
//     的备选项，保留学生的原文
//   - radio：按原文精确匹配，匹配不到视为非法提交
//   - check：按原文精确匹配过滤，匹配不到的项静默丢弃
//   - code：原样保存
func (s *CompletionService) resolveAnswerBody(q *model.Question, req *AnswerBodyRequest) (*model.AnswerBody, error) {
	switch q.Type {
	case model.QuestionText:
		if req.PickedVariant == nil {
			return nil, util.ErrMissingPickedVariant
		}
		submitted := strings.TrimSpace(req.PickedVariant.Text)
		for i := range q.Body.Variants {
			if strings.EqualFold(q.Body.Variants[i].Text, submitted) {
				return &model.AnswerBody{PickedVariantID: &q.Body.Variants[i].ID}, nil
			}
		}
		variant := &model.Variant{
			QuestionBodyID: q.Body.ID,
			Text:           req.PickedVariant.Text,
			IsCorrect:      false,
		}
		if err := s.repo.CreateVariant(variant); err != nil {
			return nil, err
		}
		return &model.AnswerBody{PickedVariantID: &variant.ID}, nil

	case model.QuestionRadio:
		if req.PickedVariant == nil {
			return nil, util.ErrMissingPickedVariant
		}
		for i := range q.Body.Variants {
			if q.Body.Variants[i].Text == req.PickedVariant.Text {
				return &model.AnswerBody{PickedVariantID: &q.Body.Variants[i].ID}, nil
			}
		}
		return nil, util.ErrVariantNotFound

	case model.QuestionCheck:
		picked := make([]model.Variant, 0, len(req.PickedVariants))
		for _, pv := range req.PickedVariants {
			for i := range q.Body.Variants {
				if q.Body.Variants[i].Text == pv.Text {
					picked = append(picked, q.Body.Variants[i])
					break
				}
			}
		}
		return &model.AnswerBody{PickedVariants: picked}, nil

	case model.QuestionCode:
		return &model.AnswerBody{Code: req.Code}, nil

	default:
		return nil, util.ErrUnknownQuestionType
	}
}

// GetCompletion 学生查看自己的某次作答，教师可以查看任意作答
func (s *CompletionService) GetCompletion(id uint, user *model.User) (*model.Completion, error) {
	completion, err := s.repo.FindByID(id)
	if err != nil {
		return nil, util.ErrCompletionNotFound
	}
	if !user.IsTeacher && completion.UserID != user.ID {
		return nil, util.ErrPermissionDenied
	}
	return completion, nil
}

// ScoreCompletion 返回一次作答的总分。总分只计算一次并落库，
// 代码题的沙箱判定由 CodeGrader 单独冻结。
func (s *CompletionService) ScoreCompletion(ctx context.Context, completion *model.Completion) (int, error) {
	if completion.Score != nil {
		return *completion.Score, nil
	}
	score, err := scoreAnswers(ctx, completion.Answers, s.grader)
	if err != nil {
		return 0, err
	}
	if err := s.repo.UpdateScore(completion.ID, score); err != nil {
		return 0, err
	}
	completion.Score = &score
	return score, nil
}

// WithCorrectness 教师视角的作答详情：逐题标注得分与备选项正误
func (s *CompletionService) WithCorrectness(ctx context.Context, id uint) (*CompletionCorrectnessView, error) {
	completion, err := s.repo.FindByID(id)
	if err != nil {
		return nil, util.ErrCompletionNotFound
	}
	score, err := s.ScoreCompletion(ctx, completion)
	if err != nil {
		return nil, err
	}

	view := &CompletionCorrectnessView{
		ID:     completion.ID,
		UserID: completion.UserID,
		TestID: completion.TestID,
		Score:  score,
	}
	for i := range completion.Answers {
		a := &completion.Answers[i]
		points, err := pointsFor(ctx, a, s.grader)
		if err != nil {
			return nil, err
		}
		view.Answers = append(view.Answers, AnswerCorrectnessView{
			QuestionID: a.QuestionID,
			Points:     points,
			Body:       a.Body,
		})
	}
	return view, nil
}

// ListByTest 教师查看某个测试的全部作答，每条带总分
func (s *CompletionService) ListByTest(ctx context.Context, testID uint) ([]CompletionSummaryView, error) {
	completions, err := s.repo.ListByTest(testID)
	if err != nil {
		return nil, err
	}
	views := make([]CompletionSummaryView, 0, len(completions))
	for i := range completions {
		c := &completions[i]
		score, err := s.ScoreCompletion(ctx, c)
		if err != nil {
			return nil, err
		}
		views = append(views, CompletionSummaryView{
			ID:        c.ID,
			UserID:    c.UserID,
			User:      c.User,
			TestID:    c.TestID,
			Score:     score,
			CreatedAt: c.CreatedAt,
		})
	}
	return views, nil
}
