package storage

import (
	"context"
	"sync"
)

// Memory is an in-memory Store used by tests and local development.
// Semantics mirror Postgres: equality predicates, whole-row upserts
// keyed by the conflict columns.
type Memory struct {
	mu     sync.RWMutex
	tables map[string][]Row
}

func NewMemory() *Memory {
	return &Memory{tables: make(map[string][]Row)}
}

func (m *Memory) SelectWhere(_ context.Context, table string, pred Pred) ([]Row, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Row
	for _, row := range m.tables[table] {
		if matches(row, pred) {
			out = append(out, cloneRow(row))
		}
	}
	return out, nil
}

func (m *Memory) InsertMany(_ context.Context, table string, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, row := range rows {
		m.tables[table] = append(m.tables[table], cloneRow(row))
	}
	return nil
}

func (m *Memory) UpsertMany(_ context.Context, table string, rows []Row, conflictKeys []string) error {
	if len(rows) == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, row := range rows {
		replaced := false
		for i, existing := range m.tables[table] {
			if sameKey(existing, row, conflictKeys) {
				m.tables[table][i] = cloneRow(row)
				replaced = true
				break
			}
		}
		if !replaced {
			m.tables[table] = append(m.tables[table], cloneRow(row))
		}
	}
	return nil
}

func (m *Memory) DeleteWhere(_ context.Context, table string, pred Pred) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.tables[table][:0]
	for _, row := range m.tables[table] {
		if !matches(row, pred) {
			kept = append(kept, row)
		}
	}
	m.tables[table] = kept
	return nil
}

func matches(row Row, pred Pred) bool {
	for col, want := range pred {
		if row[col] != want {
			return false
		}
	}
	return true
}

func sameKey(a, b Row, keys []string) bool {
	for _, k := range keys {
		if a[k] != b[k] {
			return false
		}
	}
	return len(keys) > 0
}

func cloneRow(row Row) Row {
	out := make(Row, len(row))
	for col, v := range row {
		out[col] = v
	}
	return out
}
