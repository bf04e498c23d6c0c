// Package query は検索条件をストアに依存しない述語として表現します。
// 述語は存在する条件のみの論理積で、各ストアのアダプタがネイティブなクエリへ変換します。
package query

import (
	"strings"
	"time"
)

// Kind は条件の種類です。
type Kind int

const (
	// KindContains は大文字小文字を区別しない部分一致です。
	KindContains Kind = iota + 1
	// KindDateRange は両端を含む日付範囲です。片側のみの指定も可能です。
	KindDateRange
	// KindMonth は年を問わず暦月が一致することを表します。
	KindMonth
)

func (k Kind) String() string {
	switch k {
	case KindContains:
		return "contains"
	case KindDateRange:
		return "date_range"
	case KindMonth:
		return "month"
	default:
		return "unknown"
	}
}

// Condition は 1 フィールドに対する条件です。
type Condition struct {
	Field string
	Kind  Kind
	Text  string
	From  *time.Time
	To    *time.Time
	Month time.Month
}

// Predicate は条件の論理積です。空の述語はすべてに一致します。
type Predicate struct {
	conditions []Condition
}

// Conditions は条件の複製を返します。
func (p Predicate) Conditions() []Condition {
	out := make([]Condition, len(p.conditions))
	copy(out, p.conditions)
	return out
}

// Empty は条件が 1 つもない場合に true を返します。
func (p Predicate) Empty() bool {
	return len(p.conditions) == 0
}

// Builder は省略可能な入力から述語を組み立てます。
// nil や空文字の入力は条件を追加しません。
type Builder struct {
	conditions []Condition
}

// NewBuilder は Builder を生成します。
func NewBuilder() *Builder {
	return &Builder{}
}

// Contains は value が空でなければ部分一致条件を追加します。
func (b *Builder) Contains(field string, value *string) *Builder {
	if value == nil || *value == "" {
		return b
	}
	b.conditions = append(b.conditions, Condition{Field: field, Kind: KindContains, Text: *value})
	return b
}

// DateRange は from / to のいずれかがあれば範囲条件を追加します。
func (b *Builder) DateRange(field string, from, to *time.Time) *Builder {
	if from == nil && to == nil {
		return b
	}
	b.conditions = append(b.conditions, Condition{
		Field: field,
		Kind:  KindDateRange,
		From:  truncateDate(from),
		To:    truncateDate(to),
	})
	return b
}

// Month は暦月条件を追加します。
func (b *Builder) Month(field string, month time.Month) *Builder {
	b.conditions = append(b.conditions, Condition{Field: field, Kind: KindMonth, Month: month})
	return b
}

// Build は組み立てた述語を返します。
func (b *Builder) Build() Predicate {
	conds := make([]Condition, len(b.conditions))
	copy(conds, b.conditions)
	return Predicate{conditions: conds}
}

// Record はメモリ上での評価に使うフィールド値の集合です。値は string または time.Time です。
type Record map[string]any

// Match は述語を Record に対して評価します。
func (p Predicate) Match(r Record) bool {
	for _, c := range p.conditions {
		if !c.Match(r[c.Field]) {
			return false
		}
	}
	return true
}

// Match は条件を 1 つの値に対して評価します。
func (c Condition) Match(value any) bool {
	switch c.Kind {
	case KindContains:
		s, ok := value.(string)
		if !ok {
			return false
		}
		return strings.Contains(strings.ToLower(s), strings.ToLower(c.Text))
	case KindDateRange:
		t, ok := value.(time.Time)
		if !ok {
			return false
		}
		d := dateOf(t)
		if c.From != nil && d.Before(*c.From) {
			return false
		}
		if c.To != nil && d.After(*c.To) {
			return false
		}
		return true
	case KindMonth:
		t, ok := value.(time.Time)
		if !ok {
			return false
		}
		return t.Month() == c.Month
	default:
		return false
	}
}

func truncateDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := dateOf(*t)
	return &d
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
