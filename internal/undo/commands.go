package undo

import (
	"fmt"
	"path/filepath"

	"github.com/benju66/fileexplorer/internal/fileops"
	"github.com/benju66/fileexplorer/internal/trash"
)

// RenameCommand renames an item within its parent directory. Undo renames
// it back to its original base name.
type RenameCommand struct {
	OldPath string
	NewName string

	newPath string // Resulting path after Do; empty when the rename failed
}

func NewRenameCommand(oldPath, newName string) *RenameCommand {
	return &RenameCommand{OldPath: oldPath, NewName: newName}
}

func (c *RenameCommand) Do() error {
	path, err := fileops.Rename(c.OldPath, c.NewName)
	c.newPath = path
	return err
}

func (c *RenameCommand) Undo() error {
	if c.newPath == "" {
		return nil
	}
	_, err := fileops.Rename(c.newPath, filepath.Base(c.OldPath))
	return err
}

func (c *RenameCommand) Describe() string {
	return fmt.Sprintf("rename %s -> %s", c.OldPath, c.NewName)
}

// NewPath returns the path produced by Do, or "" if Do failed or has not run.
func (c *RenameCommand) NewPath() string {
	return c.newPath
}

// CreateFileCommand creates an empty file. Undo deletes the created file if
// it still exists.
type CreateFileCommand struct {
	ParentDir string
	Name      string

	createdPath string
}

func NewCreateFileCommand(parentDir, name string) *CreateFileCommand {
	return &CreateFileCommand{ParentDir: parentDir, Name: name}
}

func (c *CreateFileCommand) Do() error {
	path, err := fileops.CreateFile(c.ParentDir, c.Name)
	c.createdPath = path
	return err
}

func (c *CreateFileCommand) Undo() error {
	if c.createdPath == "" || !fileops.Exists(c.createdPath) {
		return nil
	}
	return fileops.Delete(c.createdPath)
}

func (c *CreateFileCommand) Describe() string {
	return fmt.Sprintf("create file %s in %s", c.Name, c.ParentDir)
}

// CreatedPath returns the path produced by Do, or "" if Do failed.
func (c *CreateFileCommand) CreatedPath() string {
	return c.createdPath
}

// CreateFolderCommand creates a folder. Undo removes the created folder if
// it still exists.
type CreateFolderCommand struct {
	ParentDir string
	Name      string

	createdPath string
}

func NewCreateFolderCommand(parentDir, name string) *CreateFolderCommand {
	return &CreateFolderCommand{ParentDir: parentDir, Name: name}
}

func (c *CreateFolderCommand) Do() error {
	path, err := fileops.CreateFolder(c.ParentDir, c.Name)
	c.createdPath = path
	return err
}

func (c *CreateFolderCommand) Undo() error {
	if c.createdPath == "" || !fileops.Exists(c.createdPath) {
		return nil
	}
	return fileops.Delete(c.createdPath)
}

func (c *CreateFolderCommand) Describe() string {
	return fmt.Sprintf("create folder %s in %s", c.Name, c.ParentDir)
}

// CreatedPath returns the path produced by Do, or "" if Do failed.
func (c *CreateFolderCommand) CreatedPath() string {
	return c.createdPath
}

// DeleteCommand permanently deletes a file or folder. Its Undo is a no-op:
// the item is gone from disk, so there is nothing to restore. Use
// TrashCommand for a delete that can be undone.
type DeleteCommand struct {
	TargetPath string

	deleted bool
}

func NewDeleteCommand(targetPath string) *DeleteCommand {
	return &DeleteCommand{TargetPath: targetPath}
}

func (c *DeleteCommand) Do() error {
	if !fileops.Exists(c.TargetPath) {
		return nil
	}
	err := fileops.Delete(c.TargetPath)
	c.deleted = err == nil
	return err
}

func (c *DeleteCommand) Undo() error {
	// Permanent delete cannot be reversed.
	return nil
}

func (c *DeleteCommand) Describe() string {
	return fmt.Sprintf("delete %s", c.TargetPath)
}

// Deleted reports whether Do actually removed the item.
func (c *DeleteCommand) Deleted() bool {
	return c.deleted
}

// TrashCommand moves an item to the trash bin. Undo restores it to its
// original location.
type TrashCommand struct {
	Bin        *trash.Bin
	TargetPath string

	item    trash.Item
	trashed bool
}

func NewTrashCommand(bin *trash.Bin, targetPath string) *TrashCommand {
	return &TrashCommand{Bin: bin, TargetPath: targetPath}
}

func (c *TrashCommand) Do() error {
	item, err := c.Bin.Put(c.TargetPath)
	if err != nil {
		return err
	}
	c.item = item
	c.trashed = true
	return nil
}

func (c *TrashCommand) Undo() error {
	if !c.trashed {
		return nil
	}
	if err := c.Bin.Restore(c.item); err != nil {
		return err
	}
	c.trashed = false
	return nil
}

func (c *TrashCommand) Describe() string {
	return fmt.Sprintf("trash %s", c.TargetPath)
}
