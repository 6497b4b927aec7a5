package memory

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/zizouhuweidi/qna/internal/domain"
)

// newSeededStore creates a store holding n questions with ids "1".."n"
func newSeededStore(t *testing.T, n int) *Store {
	t.Helper()
	questions := make([]domain.Question, 0, n)
	for i := 1; i <= n; i++ {
		questions = append(questions, domain.Question{
			ID:      domain.QuestionID(fmt.Sprint(i)),
			Title:   fmt.Sprintf("Title %d", i),
			Content: fmt.Sprintf("Content %d", i),
		})
	}
	s, err := NewStoreWithQuestions(questions)
	if err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}
	return s
}

func ids(questions []domain.Question) []domain.QuestionID {
	out := make([]domain.QuestionID, 0, len(questions))
	for _, q := range questions {
		out = append(out, q.ID)
	}
	return out
}

func TestAddThenGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	added, err := s.AddQuestion(ctx, domain.NewQuestion{
		ID:      "1",
		Title:   "T",
		Content: "C",
		Tags:    []string{"go"},
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	got, err := s.GetQuestion(ctx, "1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if diff := cmp.Diff(added, got); diff != "" {
		t.Errorf("round trip mismatch (-added +got):\n%s", diff)
	}
}

func TestAddGeneratesIDWhenMissing(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	q, err := s.AddQuestion(ctx, domain.NewQuestion{Title: "T", Content: "C"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if q.ID == "" {
		t.Fatalf("expected a generated id")
	}
	if _, err := s.GetQuestion(ctx, q.ID); err != nil {
		t.Errorf("expected generated id to be retrievable: %v", err)
	}
}

func TestAddRejectsDuplicateID(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t, 1)

	_, err := s.AddQuestion(ctx, domain.NewQuestion{ID: "1", Title: "other", Content: "other"})
	if !errors.Is(err, domain.ErrDuplicateQuestion) {
		t.Fatalf("expected DuplicateQuestion, got %v", err)
	}

	got, _ := s.GetQuestion(ctx, "1")
	if got.Title != "Title 1" {
		t.Errorf("duplicate add must not overwrite, got title %q", got.Title)
	}
}

func TestDeleteThenGet(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t, 2)

	if err := s.DeleteQuestion(ctx, "1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetQuestion(ctx, "1"); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected QuestionNotFound after delete, got %v", err)
	}
	if err := s.DeleteQuestion(ctx, "1"); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Errorf("expected second delete to fail with QuestionNotFound, got %v", err)
	}

	list, err := s.ListQuestions(ctx, domain.AllQuestions())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if diff := cmp.Diff([]domain.QuestionID{"2"}, ids(list)); diff != "" {
		t.Errorf("listing mismatch (-want +got):\n%s", diff)
	}
}

func TestDeleteOnEmptyStore(t *testing.T) {
	err := NewStore().DeleteQuestion(context.Background(), "99")
	if !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected QuestionNotFound, got %v", err)
	}
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t, 2)

	updated, err := s.UpdateQuestion(ctx, "2", domain.Question{
		ID:      "ignored",
		Title:   "New",
		Content: "Body",
		Tags:    []string{},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	want := &domain.Question{ID: "2", Title: "New", Content: "Body", Tags: []string{}}
	if diff := cmp.Diff(want, updated); diff != "" {
		t.Errorf("update result mismatch (-want +got):\n%s", diff)
	}

	list, _ := s.ListQuestions(ctx, domain.AllQuestions())
	if diff := cmp.Diff([]domain.QuestionID{"1", "2"}, ids(list)); diff != "" {
		t.Errorf("update must keep listing position (-want +got):\n%s", diff)
	}
}

func TestUpdateMissingLeavesStoreUnchanged(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t, 2)
	before, _ := s.ListQuestions(ctx, domain.AllQuestions())

	_, err := s.UpdateQuestion(ctx, "3", domain.Question{Title: "x", Content: "y"})
	if !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected QuestionNotFound, got %v", err)
	}

	after, _ := s.ListQuestions(ctx, domain.AllQuestions())
	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("store changed on failed update (-before +after):\n%s", diff)
	}
}

func TestListRangeMatchesSlice(t *testing.T) {
	ctx := context.Background()
	const size = 5
	s := newSeededStore(t, size)

	full, err := s.ListQuestions(ctx, domain.AllQuestions())
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	for start := 0; start <= size; start++ {
		for end := start; end <= size; end++ {
			got, err := s.ListQuestions(ctx, domain.RangePage(uint64(start), uint64(end)))
			if err != nil {
				t.Fatalf("range [%d,%d): %v", start, end, err)
			}
			if len(got) != end-start {
				t.Fatalf("range [%d,%d): expected %d items, got %d", start, end, end-start, len(got))
			}
			if diff := cmp.Diff(full[start:end], got); diff != "" {
				t.Fatalf("range [%d,%d) mismatch (-want +got):\n%s", start, end, diff)
			}
		}
	}
}

func TestListRangeOutOfBound(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t, 2)

	for _, page := range []domain.Page{
		domain.RangePage(0, 5),
		domain.RangePage(3, 3),
		domain.RangePage(2, 1),
	} {
		if _, err := s.ListQuestions(ctx, page); !errors.Is(err, domain.ErrOutOfBound) {
			t.Errorf("page %+v: expected OutOfBound, got %v", page, err)
		}
	}
}

func TestListOffsetLimit(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t, 4)
	limit := uint64(2)

	got, err := s.ListQuestions(ctx, domain.OffsetPage(1, &limit))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if diff := cmp.Diff([]domain.QuestionID{"2", "3"}, ids(got)); diff != "" {
		t.Errorf("window mismatch (-want +got):\n%s", diff)
	}

	got, err = s.ListQuestions(ctx, domain.OffsetPage(10, nil))
	if err != nil {
		t.Fatalf("list past end: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty window past the end, got %d items", len(got))
	}
}

func TestReturnedQuestionsDoNotAliasStore(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	tags := []string{"a"}
	if _, err := s.AddQuestion(ctx, domain.NewQuestion{ID: "1", Title: "T", Content: "C", Tags: tags}); err != nil {
		t.Fatalf("add: %v", err)
	}
	tags[0] = "mutated"

	q, _ := s.GetQuestion(ctx, "1")
	q.Tags[0] = "also mutated"

	again, _ := s.GetQuestion(ctx, "1")
	if again.Tags[0] != "a" {
		t.Fatalf("store state leaked through a returned slice: %v", again.Tags)
	}
}

func TestAnswersAreNotCheckedOrCascaded(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t, 1)

	if err := s.AddAnswer(ctx, domain.Answer{ID: "a1", Content: "dangling", QuestionID: "404"}); err != nil {
		t.Fatalf("expected dangling answer to be accepted, got %v", err)
	}
	if err := s.AddAnswer(ctx, domain.Answer{ID: "a2", Content: "yes", QuestionID: "1"}); err != nil {
		t.Fatalf("add answer: %v", err)
	}
	if err := s.DeleteQuestion(ctx, "1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	answers, err := s.ListAnswers(ctx, "1")
	if err != nil {
		t.Fatalf("list answers: %v", err)
	}
	want := []domain.Answer{{ID: "a2", Content: "yes", QuestionID: "1"}}
	if diff := cmp.Diff(want, answers); diff != "" {
		t.Errorf("answers mismatch (-want +got):\n%s", diff)
	}
}

func TestConcurrentReadsSeeWholeValues(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	before := domain.NewQuestion{ID: "1", Title: "before", Content: "before", Tags: []string{"before"}}
	if _, err := s.AddQuestion(ctx, before); err != nil {
		t.Fatalf("add: %v", err)
	}
	after := domain.Question{Title: "after", Content: "after", Tags: []string{"after"}}

	var wg sync.WaitGroup
	errs := make(chan error, 64)

	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				next := after
				if (i+w)%2 == 0 {
					next = before.Question("1")
				}
				if _, err := s.UpdateQuestion(ctx, "1", next); err != nil {
					errs <- err
					return
				}
			}
		}(w)
	}

	for r := 0; r < 8; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				q, err := s.GetQuestion(ctx, "1")
				if err != nil {
					errs <- err
					return
				}
				if q.Title != q.Content || len(q.Tags) != 1 || q.Tags[0] != q.Title {
					errs <- fmt.Errorf("observed a mixed value: %+v", q)
					return
				}
			}
		}()
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestLoadSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.json")
	seed := `[
		{"id": "1", "title": "First", "content": "one", "tags": null},
		{"id": "2", "title": "Second", "content": "two", "tags": ["faq"]}
	]`
	if err := os.WriteFile(path, []byte(seed), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	s, err := LoadSeed(path)
	if err != nil {
		t.Fatalf("load seed: %v", err)
	}

	got, _ := s.ListQuestions(context.Background(), domain.AllQuestions())
	want := []domain.Question{
		{ID: "1", Title: "First", Content: "one"},
		{ID: "2", Title: "Second", Content: "two", Tags: []string{"faq"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("seeded listing mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadSeedRejectsMissingID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.json")
	if err := os.WriteFile(path, []byte(`[{"title": "no id"}]`), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	if _, err := LoadSeed(path); !errors.Is(err, domain.ErrInvalidQuestion) {
		t.Fatalf("expected InvalidQuestion, got %v", err)
	}
}
