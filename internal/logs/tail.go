package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

const maxLineBytes = 1024 * 1024

// Tail returns up to limit trailing lines of path and the offset of the end of
// the last complete line. A missing file yields no lines and offset 0.
func Tail(path string, limit int) ([]string, int64, error) {
	lines, offset, err := ReadFrom(path, 0)
	if err != nil {
		return nil, 0, err
	}
	if limit <= 0 {
		return nil, offset, nil
	}
	if len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}
	return lines, offset, nil
}

// ReadFrom returns the complete lines written at or after offset. A trailing
// line without a newline is left for the next call. When the file shrank
// below offset it is read from the start.
func ReadFrom(path string, offset int64) ([]string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, nil
		}
		return nil, offset, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, offset, fmt.Errorf("stat log file: %w", err)
	}
	if info.IsDir() {
		return nil, offset, fmt.Errorf("log path %q is a directory", path)
	}
	if offset < 0 || offset > info.Size() {
		offset = 0
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return nil, offset, fmt.Errorf("seek log file: %w", err)
	}

	reader := bufio.NewReaderSize(file, 64*1024)
	var lines []string
	for {
		chunk, err := reader.ReadSlice('\n')
		if errors.Is(err, bufio.ErrBufferFull) {
			long, rest, lerr := readLongLine(reader, chunk)
			if lerr != nil {
				if errors.Is(lerr, io.EOF) {
					return lines, offset, nil
				}
				return lines, offset, fmt.Errorf("read log file: %w", lerr)
			}
			lines = append(lines, long)
			offset += rest
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return lines, offset, nil
			}
			return lines, offset, fmt.Errorf("read log file: %w", err)
		}
		offset += int64(len(chunk))
		lines = append(lines, trimNewline(string(chunk)))
	}
}

// readLongLine finishes a line longer than the reader buffer. Lines past
// maxLineBytes are truncated but still consumed.
func readLongLine(reader *bufio.Reader, head []byte) (string, int64, error) {
	buf := append([]byte(nil), head...)
	consumed := int64(len(head))
	for {
		chunk, err := reader.ReadSlice('\n')
		consumed += int64(len(chunk))
		if len(buf) < maxLineBytes {
			buf = append(buf, chunk...)
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if err != nil {
			return "", 0, err
		}
		if len(buf) > maxLineBytes {
			buf = buf[:maxLineBytes]
		}
		return trimNewline(string(buf)), consumed, nil
	}
}

func trimNewline(line string) string {
	if n := len(line); n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
	}
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	return line
}

// Follow polls path every interval and passes each newly completed line to
// emit, starting at offset. It returns ctx.Err() when ctx ends.
func Follow(ctx context.Context, path string, offset int64, interval time.Duration, emit func(string)) error {
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		lines, next, err := ReadFrom(path, offset)
		if err != nil {
			return err
		}
		for _, line := range lines {
			emit(line)
		}
		offset = next

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
