package undo

import (
	"errors"
	"testing"
)

// fakeCommand tracks Do/Undo calls and can be made to fail.
type fakeCommand struct {
	name     string
	doCount  int
	undoOrig int
	doErr    error
	undoErr  error
}

func (c *fakeCommand) Do() error {
	c.doCount++
	return c.doErr
}

func (c *fakeCommand) Undo() error {
	c.undoOrig++
	return c.undoErr
}

func (c *fakeCommand) Describe() string { return c.name }

func TestPushExecutesAndRecords(t *testing.T) {
	s := NewStack()
	cmd := &fakeCommand{name: "a"}

	if err := s.Push(cmd); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if cmd.doCount != 1 {
		t.Errorf("Do call count: expected 1, got %d", cmd.doCount)
	}
	if !s.CanUndo() {
		t.Error("CanUndo should be true after Push")
	}
	if s.CanRedo() {
		t.Error("CanRedo should be false after Push")
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	s := NewStack()
	cmd := &fakeCommand{name: "a"}
	s.Push(cmd)

	if err := s.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if cmd.undoOrig != 1 {
		t.Errorf("Undo call count: expected 1, got %d", cmd.undoOrig)
	}
	if s.CanUndo() {
		t.Error("CanUndo should be false after undoing the only command")
	}
	if !s.CanRedo() {
		t.Error("CanRedo should be true after Undo")
	}

	if err := s.Redo(); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if cmd.doCount != 2 {
		t.Errorf("Do call count after Redo: expected 2, got %d", cmd.doCount)
	}
	if !s.CanUndo() || s.CanRedo() {
		t.Error("after Redo the command should be back on the undo stack")
	}
}

func TestUndoOrder(t *testing.T) {
	s := NewStack()
	a := &fakeCommand{name: "a"}
	b := &fakeCommand{name: "b"}
	s.Push(a)
	s.Push(b)

	s.Undo()
	if b.undoOrig != 1 || a.undoOrig != 0 {
		t.Errorf("most recent command should undo first: a=%d b=%d", a.undoOrig, b.undoOrig)
	}
	s.Undo()
	if a.undoOrig != 1 {
		t.Errorf("second Undo should reach the older command, got %d", a.undoOrig)
	}
}

func TestPushClearsRedo(t *testing.T) {
	s := NewStack()
	a := &fakeCommand{name: "a"}
	s.Push(a)
	s.Undo()

	if !s.CanRedo() {
		t.Fatal("precondition: redo available")
	}
	s.Push(&fakeCommand{name: "b"})
	if s.CanRedo() {
		t.Error("Push must clear the redo stack")
	}
	if err := s.Redo(); err != nil {
		t.Errorf("Redo on empty stack should be a silent no-op, got %v", err)
	}
	if a.doCount != 1 {
		t.Errorf("cleared command must not re-execute, got %d Do calls", a.doCount)
	}
}

func TestEmptyStackNoOps(t *testing.T) {
	s := NewStack()

	if err := s.Undo(); err != nil {
		t.Errorf("Undo on empty stack: expected nil, got %v", err)
	}
	if err := s.Redo(); err != nil {
		t.Errorf("Redo on empty stack: expected nil, got %v", err)
	}
	if s.CanUndo() || s.CanRedo() {
		t.Error("empty stack should report nothing to undo or redo")
	}
}

func TestPushRecordsFailedCommand(t *testing.T) {
	s := NewStack()
	failErr := errors.New("boom")
	cmd := &fakeCommand{name: "bad", doErr: failErr}

	if err := s.Push(cmd); !errors.Is(err, failErr) {
		t.Errorf("Push should surface the Do error, got %v", err)
	}
	// The command is recorded regardless so the histories stay aligned
	// with what the caller attempted.
	if !s.CanUndo() {
		t.Error("failed command should still be recorded on the undo stack")
	}
	if err := s.Undo(); err != nil {
		t.Errorf("Undo of recorded failed command: %v", err)
	}
}

func TestUndoErrorStillMovesCommand(t *testing.T) {
	s := NewStack()
	failErr := errors.New("cannot reverse")
	cmd := &fakeCommand{name: "sticky", undoErr: failErr}
	s.Push(cmd)

	if err := s.Undo(); !errors.Is(err, failErr) {
		t.Errorf("Undo should surface the error, got %v", err)
	}
	if !s.CanRedo() {
		t.Error("command should land on the redo stack even when Undo errors")
	}
}
