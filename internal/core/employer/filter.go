package employer

import (
	"github.com/andervilo/timesheet-go/internal/core/pagination"
	"github.com/andervilo/timesheet-go/internal/core/query"
)

const (
	FieldID      = "id"
	FieldName    = "name"
	FieldCNPJ    = "cnpj"
	FieldAddress = "address"
	FieldPhone   = "phone"
	FieldEmail   = "email"
)

// SortFields は並び替え可能なフィールドです。
var SortFields = []string{FieldID, FieldName, FieldCNPJ, FieldAddress, FieldPhone, FieldEmail}

// Filter は雇用主検索の条件です。nil のフィールドは条件なしを表します。
type Filter struct {
	Page    pagination.Request
	Name    *string
	CNPJ    *string
	Address *string
	Phone   *string
	Email   *string
}

// Predicate はフィルタから述語を組み立てます。
func (f Filter) Predicate() query.Predicate {
	return query.NewBuilder().
		Contains(FieldName, f.Name).
		Contains(FieldCNPJ, f.CNPJ).
		Contains(FieldAddress, f.Address).
		Contains(FieldPhone, f.Phone).
		Contains(FieldEmail, f.Email).
		Build()
}

// Record は述語のメモリ上での評価に使う値を返します。
func (e *Employer) Record() query.Record {
	return query.Record{
		FieldID:      e.ID,
		FieldName:    e.Name,
		FieldCNPJ:    e.CNPJ,
		FieldAddress: e.Address,
		FieldPhone:   e.Phone,
		FieldEmail:   e.Email,
	}
}
