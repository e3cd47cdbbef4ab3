package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"testit_backend/internal/model"
	"testit_backend/internal/util"
)

type fakeGrader struct {
	verdict Verdict
	err     error
	calls   int
}

func (f *fakeGrader) VerdictFor(_ context.Context, body *model.AnswerBody, _ string) (Verdict, error) {
	f.calls++
	if body.Graded() {
		return Verdict{IsCorrect: *body.IsCorrect, Errors: body.Errors}, nil
	}
	return f.verdict, f.err
}

func variant(id uint, text string, correct bool) model.Variant {
	v := model.Variant{Text: text, IsCorrect: correct}
	v.ID = id
	return v
}

func question(qType model.QuestionType, points int, body model.QuestionBody) *model.Question {
	return &model.Question{Type: qType, Points: points, Body: body}
}

func TestPointsForTextAndRadio(t *testing.T) {
	correct := variant(1, "Paris", true)
	wrong := variant(2, "London", false)

	tests := []struct {
		name   string
		qType  model.QuestionType
		picked *model.Variant
		want   float64
	}{
		{"text correct", model.QuestionText, &correct, 5},
		{"text wrong", model.QuestionText, &wrong, 0},
		{"radio correct", model.QuestionRadio, &correct, 5},
		{"radio wrong", model.QuestionRadio, &wrong, 0},
		{"nothing picked", model.QuestionRadio, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := question(tt.qType, 5, model.QuestionBody{Variants: []model.Variant{correct, wrong}})
			answer := &model.Answer{Question: q, Body: model.AnswerBody{PickedVariant: tt.picked}}

			got, err := pointsFor(context.Background(), answer, &fakeGrader{})
			if err != nil {
				t.Fatalf("pointsFor: %v", err)
			}
			if got != tt.want {
				t.Errorf("points = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPointsForCheckStrict(t *testing.T) {
	a := variant(1, "A", true)
	b := variant(2, "B", true)
	c := variant(3, "C", false)
	body := model.QuestionBody{StrictScore: true, Variants: []model.Variant{a, b, c}}

	tests := []struct {
		name   string
		picked []model.Variant
		want   float64
	}{
		{"all correct picked", []model.Variant{a, b}, 10},
		{"one correct missing", []model.Variant{a}, 0},
		{"wrong included", []model.Variant{a, c}, 0},
		{"nothing picked", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := question(model.QuestionCheck, 10, body)
			answer := &model.Answer{Question: q, Body: model.AnswerBody{PickedVariants: tt.picked}}

			got, err := pointsFor(context.Background(), answer, &fakeGrader{})
			if err != nil {
				t.Fatalf("pointsFor: %v", err)
			}
			if got != tt.want {
				t.Errorf("points = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPointsForCheckPartial(t *testing.T) {
	a := variant(1, "A", true)
	b := variant(2, "B", true)
	c := variant(3, "C", false)
	body := model.QuestionBody{Variants: []model.Variant{a, b, c}}

	tests := []struct {
		name   string
		picked []model.Variant
		want   float64
	}{
		{"single correct pick scores full", []model.Variant{a}, 10},
		{"half correct", []model.Variant{a, c}, 5},
		{"all picked", []model.Variant{a, b, c}, 10.0 * 2 / 3},
		{"nothing picked scores zero", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := question(model.QuestionCheck, 10, body)
			answer := &model.Answer{Question: q, Body: model.AnswerBody{PickedVariants: tt.picked}}

			got, err := pointsFor(context.Background(), answer, &fakeGrader{})
			if err != nil {
				t.Fatalf("pointsFor: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("points = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPointsForCode(t *testing.T) {
	q := question(model.QuestionCode, 15, model.QuestionBody{TestingCode: "assert add(1, 2) == 3"})

	t.Run("passing verdict", func(t *testing.T) {
		grader := &fakeGrader{verdict: Verdict{IsCorrect: true}}
		answer := &model.Answer{Question: q, Body: model.AnswerBody{Code: "def add(a, b): return a + b"}}

		got, err := pointsFor(context.Background(), answer, grader)
		if err != nil {
			t.Fatalf("pointsFor: %v", err)
		}
		if got != 15 {
			t.Errorf("points = %v, want 15", got)
		}
	})

	t.Run("failing verdict", func(t *testing.T) {
		grader := &fakeGrader{verdict: Verdict{IsCorrect: false, Errors: "AssertionError"}}
		answer := &model.Answer{Question: q, Body: model.AnswerBody{Code: "def add(a, b): return a - b"}}

		got, err := pointsFor(context.Background(), answer, grader)
		if err != nil {
			t.Fatalf("pointsFor: %v", err)
		}
		if got != 0 {
			t.Errorf("points = %v, want 0", got)
		}
	})

	t.Run("grader error propagates", func(t *testing.T) {
		wantErr := errors.New("sandbox unavailable")
		grader := &fakeGrader{err: wantErr}
		answer := &model.Answer{Question: q, Body: model.AnswerBody{Code: "x = 1"}}

		if _, err := pointsFor(context.Background(), answer, grader); !errors.Is(err, wantErr) {
			t.Errorf("err = %v, want %v", err, wantErr)
		}
	})
}

func TestPointsForUnknownType(t *testing.T) {
	q := question(model.QuestionType("essay"), 5, model.QuestionBody{})
	answer := &model.Answer{Question: q}

	if _, err := pointsFor(context.Background(), answer, &fakeGrader{}); !errors.Is(err, util.ErrUnknownQuestionType) {
		t.Errorf("err = %v, want ErrUnknownQuestionType", err)
	}
}

func TestScoreAnswersRoundsTotal(t *testing.T) {
	a := variant(1, "A", true)
	b := variant(2, "B", true)
	c := variant(3, "C", false)
	correct := variant(4, "Paris", true)

	answers := []model.Answer{
		{
			Question: question(model.QuestionText, 5, model.QuestionBody{}),
			Body:     model.AnswerBody{PickedVariant: &correct},
		},
		{
			// 2/3 × 10 = 6.67，合计 11.67 → 12
			Question: question(model.QuestionCheck, 10, model.QuestionBody{Variants: []model.Variant{a, b, c}}),
			Body:     model.AnswerBody{PickedVariants: []model.Variant{a, b, c}},
		},
	}

	got, err := scoreAnswers(context.Background(), answers, &fakeGrader{})
	if err != nil {
		t.Fatalf("scoreAnswers: %v", err)
	}
	if got != 12 {
		t.Errorf("score = %d, want 12", got)
	}
}

func TestScoreAnswersIsStableOnceGraded(t *testing.T) {
	isCorrect := true
	q := question(model.QuestionCode, 10, model.QuestionBody{TestingCode: "assert f() == 1"})
	answers := []model.Answer{
		{
			Question: q,
			Body:     model.AnswerBody{Code: "def f(): return 1", IsCorrect: &isCorrect},
		},
	}

	grader := &fakeGrader{verdict: Verdict{IsCorrect: false}}
	for i := 0; i < 3; i++ {
		got, err := scoreAnswers(context.Background(), answers, grader)
		if err != nil {
			t.Fatalf("scoreAnswers: %v", err)
		}
		if got != 10 {
			t.Errorf("run %d: score = %d, want 10 from frozen verdict", i, got)
		}
	}
}
