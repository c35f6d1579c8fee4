// Package undo implements a linear undo/redo stack of reversible commands.
package undo

import (
	"github.com/benju66/fileexplorer/internal/debug"
)

// Command is a reversible unit of work. Do executes the operation; Undo
// reverses it. After the first Do a command only oscillates between its
// executed and undone states as the stack pointer moves over it.
type Command interface {
	Do() error
	Undo() error
	Describe() string
}

// Stack holds the undo and redo stacks, most recent command last.
// Pushing a new command always clears the redo stack: history is linear,
// there is no branching.
type Stack struct {
	undoStack []Command
	redoStack []Command
}

// NewStack returns an empty undo/redo stack.
func NewStack() *Stack {
	return &Stack{}
}

// Push executes the command and records it on the undo stack, clearing the
// redo stack. The command is recorded even when Do fails, matching the
// behavior the UI layer expects; the error is returned so the caller can
// surface it.
func (s *Stack) Push(cmd Command) error {
	err := cmd.Do()
	s.undoStack = append(s.undoStack, cmd)
	s.redoStack = s.redoStack[:0]
	debug.Log(debug.UNDO, "Pushed: %s (err=%v)", cmd.Describe(), err)
	return err
}

// Undo reverses the most recent command. No-op on an empty stack.
func (s *Stack) Undo() error {
	if len(s.undoStack) == 0 {
		return nil
	}
	cmd := s.undoStack[len(s.undoStack)-1]
	s.undoStack = s.undoStack[:len(s.undoStack)-1]
	err := cmd.Undo()
	s.redoStack = append(s.redoStack, cmd)
	debug.Log(debug.UNDO, "Undone: %s (err=%v)", cmd.Describe(), err)
	return err
}

// Redo re-executes the most recently undone command. No-op on an empty
// redo stack.
func (s *Stack) Redo() error {
	if len(s.redoStack) == 0 {
		return nil
	}
	cmd := s.redoStack[len(s.redoStack)-1]
	s.redoStack = s.redoStack[:len(s.redoStack)-1]
	err := cmd.Do()
	s.undoStack = append(s.undoStack, cmd)
	debug.Log(debug.UNDO, "Redone: %s (err=%v)", cmd.Describe(), err)
	return err
}

// CanUndo reports whether there is anything to undo.
func (s *Stack) CanUndo() bool {
	return len(s.undoStack) > 0
}

// CanRedo reports whether there is anything to redo.
func (s *Stack) CanRedo() bool {
	return len(s.redoStack) > 0
}
