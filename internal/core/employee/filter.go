package employee

import (
	"fmt"
	"time"

	"github.com/andervilo/timesheet-go/internal/core/pagination"
	"github.com/andervilo/timesheet-go/internal/core/query"
)

// ドキュメント上のフィールド名です。
const (
	FieldID        = "id"
	FieldName      = "name"
	FieldEmail     = "email"
	FieldBirthDate = "birthDate"
)

// SortFields は並び替え可能なフィールドです。
var SortFields = []string{FieldID, FieldName, FieldEmail, FieldBirthDate}

// Filter は社員検索の条件です。nil のフィールドは条件なしを表します。
type Filter struct {
	Page           pagination.Request
	Name           *string
	Email          *string
	BirthDateStart *time.Time
	BirthDateEnd   *time.Time
	// BirthMonth (1-12) が指定された場合、生年月日の範囲指定は無視されます。
	BirthMonth *int
}

// Predicate はフィルタから述語を組み立てます。Filter は変更しません。
func (f Filter) Predicate() (query.Predicate, error) {
	b := query.NewBuilder().
		Contains(FieldName, f.Name).
		Contains(FieldEmail, f.Email)

	if f.BirthMonth != nil {
		month := *f.BirthMonth
		if month < 1 || month > 12 {
			return query.Predicate{}, fmt.Errorf("birth month %d: %w", month, ErrInvalidBirthMonth)
		}
		b.Month(FieldBirthDate, time.Month(month))
	} else {
		b.DateRange(FieldBirthDate, f.BirthDateStart, f.BirthDateEnd)
	}

	return b.Build(), nil
}

// Record は述語のメモリ上での評価に使う値を返します。
func (e *Employee) Record() query.Record {
	r := query.Record{
		FieldID:    e.ID,
		FieldName:  e.Name,
		FieldEmail: e.Email,
	}
	if !e.BirthDate.IsZero() {
		r[FieldBirthDate] = e.BirthDate
	}
	return r
}
