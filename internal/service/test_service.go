package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"testit_backend/internal/model"
	"testit_backend/internal/repository"
	"testit_backend/internal/util"
	"testit_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const publicTestCacheTTL = 10 * time.Minute

// QuestionBodyCreateRequest 创建题目时的内容载荷
type QuestionBodyCreateRequest struct {
	StrictScore bool             `json:"strictScore"`
	TestingCode string           `json:"testingCode"`
	Variants    []VariantPayload `json:"variants"`
}

// VariantPayload 创建题目时的备选项
type VariantPayload struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"isCorrect"`
}

// QuestionCreateRequest 创建测试时的一道题
type QuestionCreateRequest struct {
	Type     model.QuestionType        `json:"type" binding:"required"`
	Text     string                    `json:"text" binding:"required"`
	Points   int                       `json:"points" binding:"required"`
	Position int                       `json:"position"`
	Body     QuestionBodyCreateRequest `json:"body"`
}

// TestCreateRequest 教师创建一份测试，题目内嵌一次性提交
type TestCreateRequest struct {
	Name         string                  `json:"name" binding:"required"`
	Questions    []QuestionCreateRequest `json:"questions" binding:"required"`
	AvailableFor []uint                  `json:"availableFor"`
}

type TestService struct {
	repo      *repository.TestRepository
	groupRepo *repository.GroupRepository
	rdb       *redis.Client
}

func NewTestService(repo *repository.TestRepository, groupRepo *repository.GroupRepository, rdb *redis.Client) *TestService {
	return &TestService{repo: repo, groupRepo: groupRepo, rdb: rdb}
}

// CreateTest 教师创建测试。题目整体校验通过后一次性落库，
// 公开 UUID 在 BeforeCreate 钩子中生成。
func (s *TestService) CreateTest(user *model.User, req *TestCreateRequest) (*model.Test, error) {
	if !user.IsTeacher {
		return nil, util.ErrPermissionDenied
	}

	test := &model.Test{Name: req.Name, CreatorID: user.ID}
	for i, qr := range req.Questions {
		if err := validateQuestion(&qr); err != nil {
			return nil, fmt.Errorf("第 %d 题不合法: %w", i+1, err)
		}
		position := qr.Position
		if position == 0 {
			position = i + 1
		}
		question := model.Question{
			Type:     qr.Type,
			Text:     qr.Text,
			Points:   qr.Points,
			Position: position,
			Body: model.QuestionBody{
				StrictScore: qr.Body.StrictScore,
				TestingCode: qr.Body.TestingCode,
			},
		}
		for _, vr := range qr.Body.Variants {
			question.Body.Variants = append(question.Body.Variants, model.Variant{
				Text:      vr.Text,
				IsCorrect: vr.IsCorrect,
			})
		}
		test.Questions = append(test.Questions, question)
	}

	if err := s.repo.Create(test); err != nil {
		return nil, err
	}

	if len(req.AvailableFor) > 0 {
		if err := s.setAvailableFor(test, user, req.AvailableFor); err != nil {
			return nil, err
		}
	}

	logger.Log.Info("test created",
		zap.Uint("creatorID", user.ID),
		zap.String("publicUuid", test.PublicUUID),
		zap.Int("questions", len(test.Questions)))
	return s.repo.FindByID(test.ID)
}

// validateQuestion 按题目类型校验内容完整性
func validateQuestion(qr *QuestionCreateRequest) error {
	if !qr.Type.Valid() {
		return util.ErrUnknownQuestionType
	}
	if qr.Points <= 0 {
		return fmt.Errorf("分值必须为正数")
	}
	correct := 0
	for _, v := range qr.Body.Variants {
		if v.IsCorrect {
			correct++
		}
	}
	switch qr.Type {
	case model.QuestionRadio:
		if correct != 1 {
			return fmt.Errorf("单选题必须恰好有一个正确选项")
		}
	case model.QuestionText, model.QuestionCheck:
		if correct == 0 {
			return fmt.Errorf("至少需要一个正确选项")
		}
	case model.QuestionCode:
		if qr.Body.TestingCode == "" {
			return fmt.Errorf("代码题必须提供测试代码")
		}
	}
	return nil
}

// GetTest 创建者视角的测试详情，包含答案与测试代码
func (s *TestService) GetTest(id uint, user *model.User) (*model.Test, error) {
	test, err := s.repo.FindByID(id)
	if err != nil {
		return nil, util.ErrTestNotFound
	}
	if test.CreatorID != user.ID {
		return nil, util.ErrPermissionDenied
	}
	return test, nil
}

// GetPublicTest 学生通过公开 UUID 获取测试。返回的视图不含任何
// 答案信息，并在 Redis 中缓存；访问控制每次都查库。
func (s *TestService) GetPublicTest(ctx context.Context, uuid string, user *model.User) (*StudentTestView, error) {
	test, err := s.repo.FindByPublicUUID(uuid)
	if err != nil {
		return nil, util.ErrTestNotFound
	}
	ok, err := s.repo.HasAccess(test.ID, user.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, util.ErrTestNotAccessible
	}

	cacheKey := "test:public:" + uuid
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var view StudentTestView
			if err := json.Unmarshal(cached, &view); err == nil {
				return &view, nil
			}
		}
	}

	view := NewStudentTestView(test)
	if s.rdb != nil {
		if data, err := json.Marshal(view); err == nil {
			if err := s.rdb.Set(ctx, cacheKey, data, publicTestCacheTTL).Err(); err != nil {
				logger.Log.Warn("failed to cache public test view", zap.String("uuid", uuid), zap.Error(err))
			}
		}
	}
	return view, nil
}

// ListByCreator 教师查看自己创建的测试
func (s *TestService) ListByCreator(user *model.User, page, limit int) ([]model.Test, int64, error) {
	return s.repo.ListByCreator(user.ID, page, limit)
}

// SetAvailableFor 设置测试向哪些小组开放，并使公开视图缓存失效
func (s *TestService) SetAvailableFor(ctx context.Context, testID uint, user *model.User, groupIDs []uint) (*model.Test, error) {
	test, err := s.repo.FindByID(testID)
	if err != nil {
		return nil, util.ErrTestNotFound
	}
	if test.CreatorID != user.ID {
		return nil, util.ErrPermissionDenied
	}
	if err := s.setAvailableFor(test, user, groupIDs); err != nil {
		return nil, err
	}
	if s.rdb != nil {
		if err := s.rdb.Del(ctx, "test:public:"+test.PublicUUID).Err(); err != nil {
			logger.Log.Warn("failed to invalidate public test cache", zap.Error(err))
		}
	}
	return s.repo.FindByID(test.ID)
}

// setAvailableFor 校验小组都属于教师所在组织后替换开放列表
func (s *TestService) setAvailableFor(test *model.Test, user *model.User, groupIDs []uint) error {
	groups := make([]model.Group, 0, len(groupIDs))
	for _, id := range groupIDs {
		group, err := s.groupRepo.FindByID(id)
		if err != nil {
			return fmt.Errorf("小组 %d 不存在", id)
		}
		if user.OrganizationID == nil || group.OrganizationID != *user.OrganizationID {
			return util.ErrOrgMismatch
		}
		groups = append(groups, *group)
	}
	return s.repo.SetAvailableFor(test, groups)
}
