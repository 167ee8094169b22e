package dal

import (
	"context"
	"fmt"
)

func (r *JSONRepository) Records(ctx context.Context, c Collection) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalid, c)
	}

	return r.readRecords(c)
}

func (r *JSONRepository) CreateRecord(ctx context.Context, c Collection, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !c.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalid, c)
	}

	r.mx.Lock()
	defer r.mx.Unlock()

	records, err := r.readRecords(c)
	if err != nil {
		return err
	}
	records = append(records, rec.Clone())
	if err = writeJSON(r.path(c.fileName()), records); err != nil {
		return fmt.Errorf("write %s: %w", c, err)
	}

	r.log.DebugContext(ctx, "record created", "collection", c, "total", len(records))
	return nil
}

// UpdateRecord replaces the record at idx and returns the previous value.
func (r *JSONRepository) UpdateRecord(ctx context.Context, c Collection, idx int, rec Record) (Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalid, c)
	}

	r.mx.Lock()
	defer r.mx.Unlock()

	records, err := r.readRecords(c)
	if err != nil {
		return nil, err
	}
	if !validIndex(idx, len(records)) {
		return nil, ErrNotFound
	}

	prev := records[idx]
	records[idx] = rec.Clone()
	if err = writeJSON(r.path(c.fileName()), records); err != nil {
		return nil, fmt.Errorf("write %s: %w", c, err)
	}

	return prev, nil
}

// DeleteRecord removes the record at idx and returns it.
func (r *JSONRepository) DeleteRecord(ctx context.Context, c Collection, idx int) (Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalid, c)
	}

	r.mx.Lock()
	defer r.mx.Unlock()

	records, err := r.readRecords(c)
	if err != nil {
		return nil, err
	}
	if !validIndex(idx, len(records)) {
		return nil, ErrNotFound
	}

	deleted := records[idx]
	records = append(records[:idx], records[idx+1:]...)
	if err = writeJSON(r.path(c.fileName()), records); err != nil {
		return nil, fmt.Errorf("write %s: %w", c, err)
	}

	return deleted, nil
}

func (r *JSONRepository) readRecords(c Collection) ([]Record, error) {
	records := make([]Record, 0)
	if err := readJSON(r.path(c.fileName()), &records); err != nil {
		return nil, fmt.Errorf("read %s: %w", c, err)
	}
	return records, nil
}
