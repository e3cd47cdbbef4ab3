package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"testit_backend/internal/model"
	"testit_backend/pkg/sandbox"
)

type fakeExecutor struct {
	result sandbox.Result
	delay  time.Duration
	runs   int32
}

func (f *fakeExecutor) Execute(_ context.Context, source string) (sandbox.Result, error) {
	atomic.AddInt32(&f.runs, 1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.result, nil
}

type memVerdictStore struct {
	mu     sync.Mutex
	bodies map[uint]*model.AnswerBody
}

func newMemVerdictStore(bodies ...*model.AnswerBody) *memVerdictStore {
	s := &memVerdictStore{bodies: make(map[uint]*model.AnswerBody)}
	for _, b := range bodies {
		s.bodies[b.ID] = b
	}
	return s
}

func (s *memVerdictStore) SaveVerdict(bodyID uint, isCorrect bool, errors string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	body, ok := s.bodies[bodyID]
	if !ok {
		body = &model.AnswerBody{}
		body.ID = bodyID
		s.bodies[bodyID] = body
	}
	if body.Graded() {
		return nil // 写一次即冻结
	}
	body.IsCorrect = &isCorrect
	body.Errors = errors
	return nil
}

func (s *memVerdictStore) FindAnswerBody(bodyID uint) (*model.AnswerBody, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	body := s.bodies[bodyID]
	copied := *body
	return &copied, nil
}

func codeBody(id uint, code string) *model.AnswerBody {
	b := &model.AnswerBody{Code: code}
	b.ID = id
	return b
}

func TestVerdictForRunsOnceAndPersists(t *testing.T) {
	body := codeBody(7, "def f(): return 1")
	exec := &fakeExecutor{result: sandbox.Result{ExitedCleanly: true}}
	store := newMemVerdictStore(body)
	grader := NewCodeGrader(exec, store)

	v, err := grader.VerdictFor(context.Background(), body, "assert f() == 1")
	if err != nil {
		t.Fatalf("VerdictFor: %v", err)
	}
	if !v.IsCorrect {
		t.Error("expected correct verdict for clean run")
	}

	// 第二次直接用内存里的判定，不再执行
	if _, err := grader.VerdictFor(context.Background(), body, "assert f() == 1"); err != nil {
		t.Fatalf("VerdictFor: %v", err)
	}
	if n := atomic.LoadInt32(&exec.runs); n != 1 {
		t.Errorf("executor ran %d times, want 1", n)
	}

	stored, _ := store.FindAnswerBody(7)
	if !stored.Graded() || !*stored.IsCorrect {
		t.Errorf("verdict not persisted: %+v", stored)
	}
}

func TestVerdictForStderrMeansIncorrect(t *testing.T) {
	body := codeBody(8, "def f(): return 2")
	exec := &fakeExecutor{result: sandbox.Result{
		Stderr:   []byte("AssertionError"),
		ExitCode: 1,
	}}
	grader := NewCodeGrader(exec, newMemVerdictStore(body))

	v, err := grader.VerdictFor(context.Background(), body, "assert f() == 1")
	if err != nil {
		t.Fatalf("VerdictFor: %v", err)
	}
	if v.IsCorrect {
		t.Error("stderr output must mean incorrect")
	}
	if v.Errors != "AssertionError" {
		t.Errorf("Errors = %q, want AssertionError", v.Errors)
	}
}

func TestVerdictForTimeoutMeansIncorrect(t *testing.T) {
	body := codeBody(9, "while True: pass")
	exec := &fakeExecutor{result: sandbox.Result{TimedOut: true}}
	grader := NewCodeGrader(exec, newMemVerdictStore(body))

	v, err := grader.VerdictFor(context.Background(), body, "assert True")
	if err != nil {
		t.Fatalf("VerdictFor: %v", err)
	}
	if v.IsCorrect {
		t.Error("timed out run must mean incorrect")
	}
}

func TestVerdictForReusesStoredVerdict(t *testing.T) {
	isCorrect := false
	stored := codeBody(10, "def f(): return 0")
	stored.IsCorrect = &isCorrect
	stored.Errors = "AssertionError"
	store := newMemVerdictStore(stored)

	// 传入的副本还没有判定，但库里已有
	fresh := codeBody(10, "def f(): return 0")
	exec := &fakeExecutor{result: sandbox.Result{ExitedCleanly: true}}
	grader := NewCodeGrader(exec, store)

	v, err := grader.VerdictFor(context.Background(), fresh, "assert f() == 1")
	if err != nil {
		t.Fatalf("VerdictFor: %v", err)
	}
	if v.IsCorrect {
		t.Error("expected stored incorrect verdict to win")
	}
	if n := atomic.LoadInt32(&exec.runs); n != 0 {
		t.Errorf("executor ran %d times, want 0", n)
	}
}

func TestVerdictForCollapsesConcurrentRuns(t *testing.T) {
	body := codeBody(11, "def f(): return 1")
	exec := &fakeExecutor{result: sandbox.Result{ExitedCleanly: true}, delay: 50 * time.Millisecond}
	grader := NewCodeGrader(exec, newMemVerdictStore(body))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b := codeBody(11, "def f(): return 1")
			if _, err := grader.VerdictFor(context.Background(), b, "assert f() == 1"); err != nil {
				t.Errorf("VerdictFor: %v", err)
			}
		}()
	}
	wg.Wait()

	if n := atomic.LoadInt32(&exec.runs); n != 1 {
		t.Errorf("executor ran %d times, want 1", n)
	}
}
