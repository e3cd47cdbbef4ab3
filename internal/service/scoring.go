package service

import (
	"context"
	"math"

	"testit_backend/internal/model"
	"testit_backend/internal/util"
)

// codeGrader 代码题判分依赖，便于测试替换
type codeGrader interface {
	VerdictFor(ctx context.Context, body *model.AnswerBody, testingCode string) (Verdict, error)
}

// pointsFor 计算单条作答的得分：
//   - text / radio：选中的变体正确得满分，否则 0 分
//   - check 严格模式：选中的正确数等于题目定义的正确数得满分，否则 0 分
//   - check 非严格模式：得分 = 选中正确数 / 选中总数 × 分值，未选任何项记 0 分
//   - code：沙箱判定通过得满分，否则 0 分
func pointsFor(ctx context.Context, answer *model.Answer, grader codeGrader) (float64, error) {
	q := answer.Question
	if q == nil {
		return 0, util.ErrUnknownQuestionType
	}
	points := float64(q.Points)

	switch q.Type {
	case model.QuestionText, model.QuestionRadio:
		if answer.Body.PickedVariant == nil {
			return 0, nil
		}
		if answer.Body.PickedVariant.IsCorrect {
			return points, nil
		}
		return 0, nil

	case model.QuestionCheck:
		pickedCorrect := model.CorrectCount(answer.Body.PickedVariants)
		if q.Body.StrictScore {
			if pickedCorrect == model.CorrectCount(q.Body.Variants) {
				return points, nil
			}
			return 0, nil
		}
		pickedTotal := len(answer.Body.PickedVariants)
		if pickedTotal == 0 {
			return 0, nil
		}
		return float64(pickedCorrect) / float64(pickedTotal) * points, nil

	case model.QuestionCode:
		verdict, err := grader.VerdictFor(ctx, &answer.Body, q.Body.TestingCode)
		if err != nil {
			return 0, err
		}
		if verdict.IsCorrect {
			return points, nil
		}
		return 0, nil

	default:
		return 0, util.ErrUnknownQuestionType
	}
}

// scoreAnswers 汇总所有作答的得分并四舍五入取整
func scoreAnswers(ctx context.Context, answers []model.Answer, grader codeGrader) (int, error) {
	total := 0.0
	for i := range answers {
		p, err := pointsFor(ctx, &answers[i], grader)
		if err != nil {
			return 0, err
		}
		total += p
	}
	return int(math.Round(total)), nil
}
