package model

import "testing"

func TestGenerateShortUUID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateShortUUID()
		if len(id) != 8 {
			t.Fatalf("len = %d, want 8 (%q)", len(id), id)
		}
		if seen[id] {
			t.Fatalf("duplicate short uuid %q", id)
		}
		seen[id] = true
	}
}

func TestQuestionTypeValid(t *testing.T) {
	for _, valid := range []QuestionType{QuestionText, QuestionRadio, QuestionCheck, QuestionCode} {
		if !valid.Valid() {
			t.Errorf("%q should be valid", valid)
		}
	}
	for _, invalid := range []QuestionType{"", "essay", "TEXT"} {
		if invalid.Valid() {
			t.Errorf("%q should be invalid", invalid)
		}
	}
}

func TestCorrectCount(t *testing.T) {
	variants := []Variant{
		{Text: "A", IsCorrect: true},
		{Text: "B", IsCorrect: false},
		{Text: "C", IsCorrect: true},
	}
	if got := CorrectCount(variants); got != 2 {
		t.Errorf("CorrectCount = %d, want 2", got)
	}
	if got := CorrectCount(nil); got != 0 {
		t.Errorf("CorrectCount(nil) = %d, want 0", got)
	}
}
