package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Longest line accepted by the line readers. Edge and output lines are short; this only guards against garbage input.
const MAX_LINE_BYTES = 1 << 20

func OpenFile(path string) (*os.File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	return file, nil
}

func CreateFile(path string) (*os.File, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file %s: %w", path, err)
	}
	return file, nil
}

// Calls fn for each line of the reader, with the 1-based line number. Blank lines and lines
// starting with '#' are skipped. Stops at the first error returned by fn.
func ForEachLine(r io.Reader, fn func(lineNo int, line string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MAX_LINE_BYTES)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := fn(lineNo, line); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// Calls fn for every line of the reader, with the 1-based line number. Nothing is skipped:
// blank lines reach fn as "", except a single blank line at the end of the input.
func ForEachStrictLine(r io.Reader, fn func(lineNo int, line string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MAX_LINE_BYTES)
	lineNo := 0
	pendingBlank := 0
	for scanner.Scan() {
		lineNo++
		if pendingBlank != 0 {
			if err := fn(pendingBlank, ""); err != nil {
				return err
			}
			pendingBlank = 0
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			pendingBlank = lineNo
			continue
		}
		if err := fn(lineNo, line); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// Opens the file at path and calls ForEachLine over it.
func ForEachFileLine(path string, fn func(lineNo int, line string) error) error {
	file, err := OpenFile(path)
	if err != nil {
		return err
	}
	defer file.Close()
	if err := ForEachLine(file, fn); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Writes lines produced by fn through a buffered writer, then syncs and closes the file.
func WriteFileLines(path string, fn func(w *bufio.Writer) error) (err error) {
	file, err := CreateFile(path)
	if err != nil {
		return err
	}
	defer func() {
		if cErr := file.Close(); err == nil && cErr != nil {
			err = fmt.Errorf("failed to close file %s: %w", path, cErr)
		}
	}()
	w := bufio.NewWriter(file)
	if err = fn(w); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	if err = w.Flush(); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return nil
}
