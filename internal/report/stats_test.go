package report

import (
	"testing"

	"taskdeck/internal/model"
)

func TestComputeZeroTotal(t *testing.T) {
	s := Compute(Counts{})
	if s.CompletionRate != 0 || s.InProgressRate != 0 || s.OpenRate != 0 {
		t.Fatalf("zero total must yield zero rates, got %+v", s)
	}
}

func TestComputeCompletionRateRounds(t *testing.T) {
	tasks := []model.Task{
		{Status: model.StatusDone},
		{Status: model.StatusDone},
		{Status: model.StatusPending},
	}
	s := Compute(StatusDistribution(tasks))
	if s.CompletionRate != 67 {
		t.Fatalf("expected completion rate 67, got %d", s.CompletionRate)
	}
	if s.OpenRate != 33 {
		t.Fatalf("expected open rate 33, got %d", s.OpenRate)
	}
}

func TestComputeCombinesPendingAndTodo(t *testing.T) {
	s := Compute(Counts{Total: 10, Pending: 2, Todo: 3, InProgress: 1, Done: 4})
	if s.CompletionRate != 40 {
		t.Fatalf("expected 40, got %d", s.CompletionRate)
	}
	if s.InProgressRate != 10 {
		t.Fatalf("expected 10, got %d", s.InProgressRate)
	}
	if s.OpenRate != 50 {
		t.Fatalf("expected pending+todo rate 50, got %d", s.OpenRate)
	}
}
