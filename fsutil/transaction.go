package fsutil

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Transaction is a sequence of filesystem operations rooted at a
// common directory. The first operation that fails records its
// error in Err and every following operation becomes a no-op, so
// a whole sequence can be written without intermediate checks.
type Transaction struct {
	Root Path
	Err  error
}

// Logf ...
func Logf(format string, args ...interface{}) {
	log.Printf(format, args...)
}

// Exists ...
func (tr *Transaction) Exists(file Path) bool {
	if tr.Err != nil {
		return false
	}
	_, err := os.Stat(tr.Root.JoinP(file).String())
	if !os.IsNotExist(err) && err != nil {
		tr.Err = fmt.Errorf("Exists `%s`: Stat error: %w", file.String(), err)
	}
	return err == nil
}

// CopyAbs copies the file at the absolute path from into the
// transaction root.
func (tr *Transaction) CopyAbs(from, to Path) {
	if tr.Err != nil {
		return
	}

	Logf("\tCopy from %s to %s\n", from, to)
	source, err := os.Open(from.String())
	if err != nil {
		tr.Err = fmt.Errorf("CopyAbs from `%s` to `%s`: Open error: %w", from.String(), to.String(), err)
		return
	}
	defer source.Close()

	target, err := os.OpenFile(tr.Root.JoinP(to).String(), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(0664))
	if err != nil {
		tr.Err = fmt.Errorf("CopyAbs from `%s` to `%s`: OpenFile error: %w", from.String(), to.String(), err)
		return
	}
	defer target.Close()

	_, err = io.Copy(target, source)
	if err != nil {
		tr.Err = fmt.Errorf("CopyAbs from `%s` to `%s`: Copy error: %w", from.String(), to.String(), err)
	}
}

// MoveAbs moves the file at the absolute path from into the
// transaction root. A plain rename is tried first; when from
// lives on another filesystem the file is copied and the
// original removed.
func (tr *Transaction) MoveAbs(from, to Path) {
	if tr.Err != nil {
		return
	}

	Logf("\tMove from %s to %s\n", from, to)
	err := os.Rename(from.String(), tr.Root.JoinP(to).String())
	if err == nil {
		return
	}

	tr.CopyAbs(from, to)
	if tr.Err != nil {
		return
	}
	err = os.Remove(from.String())
	if err != nil {
		tr.Err = fmt.Errorf("MoveAbs from `%s` to `%s`: Remove error: %w", from.String(), to.String(), err)
	}
}

// MkDir ...
func (tr *Transaction) MkDir(dir Path) {
	if tr.Err != nil {
		return
	}

	err := os.MkdirAll(tr.Root.JoinP(dir).String(), os.FileMode(0755))
	if err != nil {
		tr.Err = fmt.Errorf("MkDir `%s`: MkdirAll error: %w", dir.String(), err)
	}
}

// RmFile ...
func (tr *Transaction) RmFile(file Path) {
	if tr.Err != nil {
		return
	}
	Logf("\tRmFile %s\n", file)
	err := os.Remove(tr.Root.JoinP(file).String())
	if err != nil {
		tr.Err = fmt.Errorf("RmFile `%s`: Remove error: %w", file.String(), err)
	}
}

// TempFile creates an empty uniquely named scratch file and
// returns its path.
func TempFile(pattern string) (Path, error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", fmt.Errorf("TempFile `%s`: %w", pattern, err)
	}
	name := f.Name()
	if err = f.Close(); err != nil {
		return "", fmt.Errorf("TempFile `%s`: Close error: %w", pattern, err)
	}
	return Path(name), nil
}
