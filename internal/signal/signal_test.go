package signal_test

import (
	"testing"

	"github.com/asynkron/jsengine-go/internal/signal"
	"github.com/asynkron/jsengine-go/internal/values"
)

func TestZeroValueIsNoneAndInactive(t *testing.T) {
	var s signal.Signal
	if s.IsActive() {
		t.Fatalf("a freshly zeroed Signal must be inactive")
	}
	if s.Kind() != signal.None {
		t.Fatalf("got %v, want None", s.Kind())
	}
}

func TestSetReturnCarriesValue(t *testing.T) {
	var s signal.Signal
	s.SetReturn(values.Number(42))
	if !s.IsReturn() || !s.IsActive() {
		t.Fatalf("expected an active Return signal")
	}
	if n, ok := s.Value().(values.Number); !ok || n != 42 {
		t.Fatalf("got %#v, want 42", s.Value())
	}
}

func TestClearResetsToNone(t *testing.T) {
	var s signal.Signal
	s.SetThrow(values.JSString("boom"))
	s.Clear()
	if s.IsActive() {
		t.Fatalf("Clear() must reset the signal to inactive")
	}
}

func TestLabeledBreakMatching(t *testing.T) {
	var s signal.Signal
	s.SetBreak("outer")
	if !s.MatchesLabel("outer") {
		t.Fatalf("a labeled break must match its own label")
	}
	if s.MatchesLabel("inner") {
		t.Fatalf("a labeled break must not match an unrelated label")
	}

	var unlabeled signal.Signal
	unlabeled.SetBreak("")
	if !unlabeled.MatchesLabel("anything") {
		t.Fatalf("an unlabeled break must match any enclosing construct")
	}
}

func TestSettingANewSignalOverwritesThePrevious(t *testing.T) {
	var s signal.Signal
	s.SetBreak("")
	s.SetReturn(values.Number(1))
	if !s.IsReturn() {
		t.Fatalf("the most recently set signal should win")
	}
}
