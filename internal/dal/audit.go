package dal

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"
)

const maxAuditLineSize = 1 << 20

func (r *JSONRepository) AppendAudit(ctx context.Context, actor, action string, details map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if details == nil {
		details = map[string]any{}
	}

	line, err := json.Marshal(AuditEntry{
		Timestamp: time.Now().Unix(),
		Actor:     actor,
		Action:    action,
		Details:   details,
	})
	if err != nil {
		return fmt.Errorf("encode audit entry: %w", err)
	}
	line = append(line, '\n')

	r.mx.Lock()
	defer r.mx.Unlock()

	f, err := os.OpenFile(r.path(adminDir, auditFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, filePerm)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	if _, err = f.Write(line); err != nil {
		f.Close()
		return fmt.Errorf("append audit log: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("close audit log: %w", err)
	}
	return nil
}

// RecentAudit returns up to limit last entries, oldest first. Lines that fail
// to decode or exceed maxAuditLineSize are skipped.
func (r *JSONRepository) RecentAudit(ctx context.Context, limit int) ([]AuditEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, nil
	}

	f, err := os.Open(r.path(adminDir, auditFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	entries := make([]AuditEntry, 0, limit)
	reader := bufio.NewReaderSize(f, 64*1024) //nolint:mnd // read buffer
	for {
		line, skipped, rErr := readLine(reader, maxAuditLineSize)
		if errors.Is(rErr, io.EOF) {
			break
		}
		if rErr != nil {
			return nil, fmt.Errorf("read audit log: %w", rErr)
		}
		if skipped {
			r.log.DebugContext(ctx, "skip oversized audit line", "limit", maxAuditLineSize)
			continue
		}

		var entry AuditEntry
		if err = json.Unmarshal(line, &entry); err != nil {
			r.log.DebugContext(ctx, "skip malformed audit line", "error", err)
			continue
		}
		if len(entries) == limit {
			entries = append(entries[:0], entries[1:]...)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// readLine returns the next line without its line break. A line longer than
// limit is consumed whole and reported as skipped. io.EOF is returned only
// when nothing is left to read.
func readLine(rd *bufio.Reader, limit int) ([]byte, bool, error) {
	var (
		line []byte
		read int
	)
	for {
		chunk, err := rd.ReadSlice('\n')
		read += len(chunk)
		if read <= limit {
			line = append(line, chunk...)
		}

		switch {
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF) && read > 0, err == nil:
			if read > limit {
				return nil, true, nil
			}
			return bytes.TrimRight(line, "\r\n"), false, nil
		default:
			return nil, false, err
		}
	}
}
