package service

import (
	"context"
	"errors"
	"testing"

	"testit_backend/internal/model"
	"testit_backend/internal/util"
)

func TestResolveAnswerBodyText(t *testing.T) {
	paris := variant(1, "Paris", true)
	london := variant(2, "London", false)
	q := question(model.QuestionText, 5, model.QuestionBody{Variants: []model.Variant{paris, london}})
	svc := &CompletionService{}

	tests := []struct {
		name      string
		submitted string
		wantID    uint
	}{
		{"exact match", "Paris", 1},
		{"trimmed match", "  Paris  ", 1},
		{"case-insensitive match", "pArIs", 1},
		{"trimmed and case-insensitive", " paris ", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := svc.resolveAnswerBody(q, &AnswerBodyRequest{
				PickedVariant: &VariantRequest{Text: tt.submitted},
			})
			if err != nil {
				t.Fatalf("resolveAnswerBody: %v", err)
			}
			if body.PickedVariantID == nil || *body.PickedVariantID != tt.wantID {
				t.Errorf("PickedVariantID = %v, want %d", body.PickedVariantID, tt.wantID)
			}
		})
	}

	t.Run("missing picked variant", func(t *testing.T) {
		if _, err := svc.resolveAnswerBody(q, &AnswerBodyRequest{}); !errors.Is(err, util.ErrMissingPickedVariant) {
			t.Errorf("err = %v, want ErrMissingPickedVariant", err)
		}
	})
}

func TestResolveAnswerBodyRadio(t *testing.T) {
	yes := variant(1, "Yes", true)
	no := variant(2, "No", false)
	q := question(model.QuestionRadio, 5, model.QuestionBody{Variants: []model.Variant{yes, no}})
	svc := &CompletionService{}

	t.Run("exact match", func(t *testing.T) {
		body, err := svc.resolveAnswerBody(q, &AnswerBodyRequest{
			PickedVariant: &VariantRequest{Text: "No"},
		})
		if err != nil {
			t.Fatalf("resolveAnswerBody: %v", err)
		}
		if body.PickedVariantID == nil || *body.PickedVariantID != 2 {
			t.Errorf("PickedVariantID = %v, want 2", body.PickedVariantID)
		}
	})

	// 单选不做模糊匹配，提交未知选项是非法请求
	t.Run("unknown text rejected", func(t *testing.T) {
		_, err := svc.resolveAnswerBody(q, &AnswerBodyRequest{
			PickedVariant: &VariantRequest{Text: "maybe"},
		})
		if !errors.Is(err, util.ErrVariantNotFound) {
			t.Errorf("err = %v, want ErrVariantNotFound", err)
		}
	})

	t.Run("case mismatch rejected", func(t *testing.T) {
		_, err := svc.resolveAnswerBody(q, &AnswerBodyRequest{
			PickedVariant: &VariantRequest{Text: "yes"},
		})
		if !errors.Is(err, util.ErrVariantNotFound) {
			t.Errorf("err = %v, want ErrVariantNotFound", err)
		}
	})
}

func TestResolveAnswerBodyCheck(t *testing.T) {
	a := variant(1, "A", true)
	b := variant(2, "B", true)
	c := variant(3, "C", false)
	q := question(model.QuestionCheck, 10, model.QuestionBody{Variants: []model.Variant{a, b, c}})
	svc := &CompletionService{}

	body, err := svc.resolveAnswerBody(q, &AnswerBodyRequest{
		PickedVariants: []VariantRequest{{Text: "A"}, {Text: "C"}, {Text: "bogus"}},
	})
	if err != nil {
		t.Fatalf("resolveAnswerBody: %v", err)
	}

	// 未知选项静默丢弃，已知选项保留
	if len(body.PickedVariants) != 2 {
		t.Fatalf("picked %d variants, want 2", len(body.PickedVariants))
	}
	if body.PickedVariants[0].ID != 1 || body.PickedVariants[1].ID != 3 {
		t.Errorf("picked IDs = %d, %d; want 1, 3", body.PickedVariants[0].ID, body.PickedVariants[1].ID)
	}
}

func TestResolveAnswerBodyCode(t *testing.T) {
	q := question(model.QuestionCode, 15, model.QuestionBody{TestingCode: "assert True"})
	svc := &CompletionService{}

	body, err := svc.resolveAnswerBody(q, &AnswerBodyRequest{Code: "print('hi')"})
	if err != nil {
		t.Fatalf("resolveAnswerBody: %v", err)
	}
	if body.Code != "print('hi')" {
		t.Errorf("Code = %q, want verbatim source", body.Code)
	}
	if body.Graded() {
		t.Error("fresh code answer must not carry a verdict")
	}
}

func TestResolveAnswerBodyUnknownType(t *testing.T) {
	q := question(model.QuestionType("essay"), 5, model.QuestionBody{})
	svc := &CompletionService{}

	if _, err := svc.resolveAnswerBody(q, &AnswerBodyRequest{}); !errors.Is(err, util.ErrUnknownQuestionType) {
		t.Errorf("err = %v, want ErrUnknownQuestionType", err)
	}
}

// 列表视图依赖这一点：已落库的总分直接复用，不触库也不进沙箱
func TestScoreCompletionReusesStoredScore(t *testing.T) {
	score := 42
	completion := &model.Completion{Score: &score}
	svc := &CompletionService{} // repo 和 grader 都是 nil，若被触达会直接 panic

	got, err := svc.ScoreCompletion(context.Background(), completion)
	if err != nil {
		t.Fatalf("ScoreCompletion: %v", err)
	}
	if got != score {
		t.Errorf("score = %d, want %d", got, score)
	}
}
