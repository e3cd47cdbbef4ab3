package service

import (
	"context"
	"strconv"

	"testit_backend/internal/model"
	"testit_backend/pkg/logger"
	"testit_backend/pkg/sandbox"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Verdict 代码题的判定结果：学生代码拼接教师测试代码后执行，
// stderr 为空且未超时即判对，stderr 原样保留给师生查看。
type Verdict struct {
	IsCorrect bool   `json:"isCorrect"`
	Errors    string `json:"errors"`
}

// VerdictStore 判定结果的落库接口，写一次即冻结
type VerdictStore interface {
	SaveVerdict(bodyID uint, isCorrect bool, errors string) error
	FindAnswerBody(bodyID uint) (*model.AnswerBody, error)
}

type CodeGrader struct {
	Runner sandbox.Executor
	Store  VerdictStore

	group singleflight.Group
}

func NewCodeGrader(runner sandbox.Executor, store VerdictStore) *CodeGrader {
	return &CodeGrader{Runner: runner, Store: store}
}

// combineSources 学生代码与测试代码之间留一个空行
func combineSources(studentCode, testingCode string) string {
	return studentCode + "\n\n" + testingCode
}

// VerdictFor 返回某条代码作答的判定。已落库的判定直接复用；
// 未判定时执行一次沙箱并持久化。singleflight 按作答 ID 合并并发
// 请求，同一条作答同时只会触发一次沙箱执行。
func (g *CodeGrader) VerdictFor(ctx context.Context, body *model.AnswerBody, testingCode string) (Verdict, error) {
	if body.Graded() {
		return Verdict{IsCorrect: *body.IsCorrect, Errors: body.Errors}, nil
	}

	key := strconv.FormatUint(uint64(body.ID), 10)
	v, err, _ := g.group.Do(key, func() (interface{}, error) {
		// 另一个进程可能已经落库，先回读一次
		stored, err := g.Store.FindAnswerBody(body.ID)
		if err == nil && stored.Graded() {
			return Verdict{IsCorrect: *stored.IsCorrect, Errors: stored.Errors}, nil
		}

		res, err := g.Runner.Execute(ctx, combineSources(body.Code, testingCode))
		if err != nil {
			return nil, err
		}

		verdict := Verdict{
			IsCorrect: len(res.Stderr) == 0 && !res.TimedOut,
			Errors:    string(res.Stderr),
		}

		if res.TimedOut {
			logger.Log.Warn("sandbox execution timed out", zap.Uint("answerBodyID", body.ID))
		}

		if err := g.Store.SaveVerdict(body.ID, verdict.IsCorrect, verdict.Errors); err != nil {
			return nil, err
		}
		return verdict, nil
	})
	if err != nil {
		return Verdict{}, err
	}

	verdict := v.(Verdict)
	body.IsCorrect = &verdict.IsCorrect
	body.Errors = verdict.Errors
	return verdict, nil
}
