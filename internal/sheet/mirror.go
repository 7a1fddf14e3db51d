package sheet

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// errUnchanged lets an edit skip saving the workbook.
var errUnchanged = errors.New("sheet unchanged")

// Mirror keeps a workbook on disk in step with the database. Every call
// opens, edits and saves the file under a mutex, so a single process may
// share one Mirror between goroutines.
type Mirror struct {
	path   string
	loc    *time.Location
	mu     sync.Mutex
	logger *zap.Logger
}

func NewMirror(path string, loc *time.Location) *Mirror {
	if loc == nil {
		loc = time.UTC
	}
	return &Mirror{
		path:   path,
		loc:    loc,
		logger: zap.L().Named("sheet.mirror"),
	}
}

func (m *Mirror) Path() string {
	return m.path
}

// AppendClockEvent adds one row to the TimeCard sheet. A row whose EventID
// is already present is left as it is.
func (m *Mirror) AppendClockEvent(ctx context.Context, row TimeCardRow) error {
	return m.edit(ctx, func(f *excelize.File) error {
		if err := ensureSheet(f, TimeCardSheet, timeCardHeader); err != nil {
			return err
		}
		rows, err := f.GetRows(TimeCardSheet)
		if err != nil {
			return err
		}
		if row.EventID != "" && findByID(rows, timeCardIDColumn, row.EventID) > 0 {
			m.logger.Debug("clock event already mirrored", zap.String("event_id", row.EventID))
			return errUnchanged
		}
		return setRow(f, TimeCardSheet, len(rows)+1, row.values(m.loc))
	})
}

// UpsertSlip replaces the row carrying row.ID or appends a new one.
func (m *Mirror) UpsertSlip(ctx context.Context, row SlipRow) error {
	return m.edit(ctx, func(f *excelize.File) error {
		if err := ensureSheet(f, SlipsSheet, slipsHeader); err != nil {
			return err
		}
		rows, err := f.GetRows(SlipsSheet)
		if err != nil {
			return err
		}
		target := len(rows) + 1
		if idx := findByID(rows, slipIDColumn, row.ID); idx > 0 {
			target = idx + 1
		}
		return setRow(f, SlipsSheet, target, row.values())
	})
}

// RemoveSlip deletes the row carrying id. A missing id is not an error.
func (m *Mirror) RemoveSlip(ctx context.Context, id string) error {
	return m.edit(ctx, func(f *excelize.File) error {
		if err := ensureSheet(f, SlipsSheet, slipsHeader); err != nil {
			return err
		}
		rows, err := f.GetRows(SlipsSheet)
		if err != nil {
			return err
		}
		idx := findByID(rows, slipIDColumn, id)
		if idx <= 0 {
			m.logger.Debug("slip not in mirror", zap.String("slip_id", id))
			return nil
		}
		return f.RemoveRow(SlipsSheet, idx+1)
	})
}

func (m *Mirror) edit(ctx context.Context, fn func(f *excelize.File) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	f, err := m.open()
	if err != nil {
		return fmt.Errorf("open workbook %s: %w", m.path, err)
	}
	defer func() { _ = f.Close() }()

	if err := fn(f); err != nil {
		if errors.Is(err, errUnchanged) {
			return nil
		}
		return err
	}

	if dir := filepath.Dir(m.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return f.SaveAs(m.path)
}

func (m *Mirror) open() (*excelize.File, error) {
	f, err := excelize.OpenFile(m.path)
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	f = excelize.NewFile()
	if err := ensureSheet(f, TimeCardSheet, timeCardHeader); err != nil {
		return nil, err
	}
	if err := ensureSheet(f, SlipsSheet, slipsHeader); err != nil {
		return nil, err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	return f, nil
}

// ensureSheet creates name with a header row when it does not exist yet.
func ensureSheet(f *excelize.File, name string, header []any) error {
	idx, err := f.GetSheetIndex(name)
	if err != nil {
		return err
	}
	if idx >= 0 {
		return nil
	}
	if _, err := f.NewSheet(name); err != nil {
		return err
	}
	return setRow(f, name, 1, header)
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

// findByID returns the zero-based index of the row whose col cell is id,
// skipping the header, or -1.
func findByID(rows [][]string, col int, id string) int {
	for i := 1; i < len(rows); i++ {
		if cellValue(rows[i], col) == id {
			return i
		}
	}
	return -1
}
