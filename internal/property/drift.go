package property

import (
	"context"
	"errors"
	"log"
	"regexp"
	"strings"
)

// codeUndefinedColumn is the Postgres SQLSTATE for a missing column.
const codeUndefinedColumn = "42703"

// DriftGroup is a set of optional columns added by one migration. If the live
// schema lacks any of them, writes drop the whole group.
type DriftGroup struct {
	Name    string   `yaml:"name"`
	Columns []string `yaml:"columns"`
}

// DefaultDriftGroups covers the lot/block columns, which older deployments lack.
var DefaultDriftGroups = []DriftGroup{
	{Name: "lot_block", Columns: []string{"lot", "block"}},
}

type driftMatcher struct {
	group    DriftGroup
	patterns []*regexp.Regexp
}

// SchemaTolerantStore wraps a Store and absorbs writes that fail because an
// optional column does not exist yet: it strips the implicated group and retries
// exactly once. Any other failure, or a failed retry, returns the original error.
type SchemaTolerantStore struct {
	Store
	matchers []driftMatcher
}

// NewSchemaTolerantStore wraps inner. Nil groups means DefaultDriftGroups.
func NewSchemaTolerantStore(inner Store, groups []DriftGroup) *SchemaTolerantStore {
	if groups == nil {
		groups = DefaultDriftGroups
	}
	s := &SchemaTolerantStore{Store: inner}
	for _, g := range groups {
		m := driftMatcher{group: g}
		for _, c := range g.Columns {
			// Whole-word match so "lot" does not fire on lot_width.
			m.patterns = append(m.patterns, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(c)+`\b`))
		}
		s.matchers = append(s.matchers, m)
	}
	return s
}

func (s *SchemaTolerantStore) Insert(ctx context.Context, values Values) (*Property, error) {
	return s.write("insert", values, func(v Values) (*Property, error) {
		return s.Store.Insert(ctx, v)
	})
}

func (s *SchemaTolerantStore) Update(ctx context.Context, id string, values Values) (*Property, error) {
	return s.write("update "+id, values, func(v Values) (*Property, error) {
		return s.Store.Update(ctx, id, v)
	})
}

func (s *SchemaTolerantStore) write(op string, values Values, do func(Values) (*Property, error)) (*Property, error) {
	p, err := do(values)
	if err == nil {
		return p, nil
	}

	drift, ok := s.classify(err, values)
	if !ok {
		return nil, err
	}

	log.Printf("[property] %s: %v; retrying once without %s", op, drift, strings.Join(drift.Columns, ", "))
	p, retryErr := do(values.Without(drift.Columns...))
	if retryErr != nil {
		log.Printf("[property] %s: retry without %s failed: %v", op, strings.Join(drift.Columns, ", "), retryErr)
		return nil, err
	}

	for _, c := range drift.Columns {
		p.clearColumn(c)
	}
	return p, nil
}

// Ping forwards to the wrapped store.
func (s *SchemaTolerantStore) Ping(ctx context.Context) error {
	if p, ok := s.Store.(pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// classify decides whether err is a missing-column failure for one of the
// configured groups, and which payload columns it implicates.
func (s *SchemaTolerantStore) classify(err error, values Values) (*SchemaDriftError, bool) {
	var se *StoreError
	if !errors.As(err, &se) {
		return nil, false
	}
	msg := se.Message
	if se.Code != codeUndefinedColumn && !strings.Contains(strings.ToLower(msg), "column") {
		return nil, false
	}

	for _, m := range s.matchers {
		named := false
		for _, p := range m.patterns {
			if p.MatchString(msg) {
				named = true
				break
			}
		}
		if !named {
			continue
		}

		var present []string
		for _, c := range m.group.Columns {
			if values.Has(c) {
				present = append(present, c)
			}
		}
		if len(present) == 0 {
			continue
		}
		return &SchemaDriftError{Group: m.group.Name, Columns: present, Cause: se}, true
	}
	return nil, false
}
