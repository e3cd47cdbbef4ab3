package service

import (
	"encoding/json"
	"strings"
	"testing"

	"testit_backend/internal/model"
)

func TestNewStudentTestViewHidesAnswers(t *testing.T) {
	test := &model.Test{
		Name:       "Go 基础",
		PublicUUID: "a1b2c3d4",
		Questions: []model.Question{
			{
				Type: model.QuestionRadio, Text: "2+2?", Points: 5, Position: 1,
				Body: model.QuestionBody{Variants: []model.Variant{
					variant(1, "4", true),
					variant(2, "5", false),
				}},
			},
			{
				Type: model.QuestionText, Text: "capital of France?", Points: 5, Position: 2,
				Body: model.QuestionBody{Variants: []model.Variant{variant(3, "Paris", true)}},
			},
			{
				Type: model.QuestionCode, Text: "write add", Points: 15, Position: 3,
				Body: model.QuestionBody{TestingCode: "assert add(1, 2) == 3"},
			},
		},
	}

	view := NewStudentTestView(test)

	if len(view.Questions) != 3 {
		t.Fatalf("got %d questions, want 3", len(view.Questions))
	}

	radio := view.Questions[0]
	if len(radio.Body.Variants) != 2 {
		t.Errorf("radio variants = %d, want 2", len(radio.Body.Variants))
	}

	// text 和 code 题的内容对学生不可见
	if len(view.Questions[1].Body.Variants) != 0 {
		t.Error("text question must not expose its variants")
	}
	if len(view.Questions[2].Body.Variants) != 0 {
		t.Error("code question must not expose anything")
	}

	// 序列化结果里不能出现任何答案痕迹
	data, err := json.Marshal(view)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, leak := range []string{"isCorrect", "testingCode", "Paris", "assert"} {
		if strings.Contains(string(data), leak) {
			t.Errorf("student view leaks %q: %s", leak, data)
		}
	}
}

func TestNewCompletionViewHidesCorrectness(t *testing.T) {
	isCorrect := false
	score := 5
	picked := variant(1, "4", true)
	completion := &model.Completion{
		UserID: 3,
		TestID: 7,
		Score:  &score,
		Answers: []model.Answer{
			{
				QuestionID: 1,
				Body:       model.AnswerBody{PickedVariant: &picked},
			},
			{
				QuestionID: 2,
				Body: model.AnswerBody{
					Code:      "def f(): return 0",
					IsCorrect: &isCorrect,
					Errors:    "AssertionError",
				},
			},
		},
	}

	view := NewCompletionView(completion)

	if view.Score == nil || *view.Score != 5 {
		t.Errorf("Score = %v, want 5", view.Score)
	}
	if view.Answers[1].Body.Errors != "AssertionError" {
		t.Error("student must see their code errors")
	}

	data, err := json.Marshal(view)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "isCorrect") {
		t.Errorf("completion view leaks correctness: %s", data)
	}
}
