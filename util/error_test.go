package util

import "testing"

func TestErrorLoggerHierarchy(t *testing.T) {
	var e ErrorLogger
	e.Push("pid_group")
	e.Push("pid_alpha")
	e.ErrorString("unknown key %q", "foo")
	e.Pop()
	e.Pop()

	if !e.HaveErrors() {
		t.Fatal("expected errors")
	}
	want := "pid_group / pid_alpha: unknown key \"foo\""
	if got := e.Errors()[0]; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestErrorLoggerCheckDepthPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on unbalanced push/pop")
		}
	}()
	var e ErrorLogger
	e.Push("a")
	e.CheckDepth(0)
}

func TestSelect(t *testing.T) {
	if got := Select(true, "a", "b"); got != "a" {
		t.Errorf("Select(true,...) = %v", got)
	}
	if got := Select(false, 1, 2); got != 2 {
		t.Errorf("Select(false,...) = %v", got)
	}
}
