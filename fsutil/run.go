package fsutil

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/hpcloud/tail"
)

// RunCommand starts command in dir (the process working directory
// when dir is empty) and blocks until it exits. Its stdout and
// stderr are streamed through Logf and collected into the returned
// string.
//
// Some of the tools this command drives report their progress in a
// log file of their own instead of stdout. When logFile is not
// empty, any stale copy is removed before the command starts and
// the file is followed for the whole run, its lines streamed and
// collected together with the command output.
func RunCommand(dir, logFile Path, command string, args ...string) (string, error) {
	cmd := exec.Command(command, args...)
	if dir != "" {
		cmd.Dir = dir.String()
	}

	var mu sync.Mutex
	var collected bytes.Buffer
	emit := func(line string) {
		Logf("\t%s\n", line)
		mu.Lock()
		collected.WriteString(line)
		collected.WriteByte('\n')
		mu.Unlock()
	}

	var tailProc *tail.Tail
	if logFile != "" {
		err := os.Remove(logFile.String())
		if err != nil && !os.IsNotExist(err) {
			return "", fmt.Errorf("RunCommand `%s`: cannot remove stale log `%s`: %w", command, logFile.String(), err)
		}

		tailProc, err = tail.TailFile(logFile.String(), tail.Config{
			Follow:    true,
			MustExist: false,
			ReOpen:    true,
		})
		if err != nil {
			return "", fmt.Errorf("RunCommand `%s`: cannot follow log `%s`: %w", command, logFile.String(), err)
		}

		go func() {
			for l := range tailProc.Lines {
				emit(l.Text)
			}
		}()
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", fmt.Errorf("RunCommand `%s`: StdoutPipe error: %w", command, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return "", fmt.Errorf("RunCommand `%s`: StderrPipe error: %w", command, err)
	}

	if err = cmd.Start(); err != nil {
		if tailProc != nil {
			tailProc.Stop()
		}
		return "", fmt.Errorf("RunCommand `%s`: Start error: %w", command, err)
	}

	var readers sync.WaitGroup
	readers.Add(2)
	stream := func(r io.Reader) {
		defer readers.Done()
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			emit(scanner.Text())
		}
	}
	go stream(stdout)
	go stream(stderr)

	readers.Wait()
	err = cmd.Wait()
	if tailProc != nil {
		tailProc.Stop()
	}

	mu.Lock()
	output := collected.String()
	mu.Unlock()

	if err != nil {
		return output, fmt.Errorf("RunCommand `%s`: %w", command, err)
	}
	return output, nil
}
