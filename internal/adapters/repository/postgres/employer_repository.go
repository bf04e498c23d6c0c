package postgres

import (
	"context"
	"fmt"

	"github.com/andervilo/timesheet-go/internal/core/employer"
	"github.com/andervilo/timesheet-go/internal/core/pagination"
	"github.com/andervilo/timesheet-go/internal/core/query"
	pgdb "github.com/andervilo/timesheet-go/internal/platform/db/postgres"
)

const employersTable = "employers"

type employerDocument struct {
	Name    string `json:"name"`
	CNPJ    string `json:"cnpj"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// EmployerRepository は PostgreSQL の jsonb ドキュメントで雇用主を永続化する実装です。
type EmployerRepository struct {
	docs *collection
}

// NewEmployerRepository は EmployerRepository を生成します。
func NewEmployerRepository(pool pgdb.Queryer) *EmployerRepository {
	return &EmployerRepository{
		docs: newCollection(pool, employersTable,
			[]string{employer.FieldName, employer.FieldCNPJ, employer.FieldAddress, employer.FieldPhone, employer.FieldEmail},
			nil,
		),
	}
}

// Save は雇用主を作成または全体置換します。
func (r *EmployerRepository) Save(ctx context.Context, e *employer.Employer) (*employer.Employer, error) {
	doc, err := encodeEmployer(e)
	if err != nil {
		return nil, err
	}

	saved, err := r.docs.save(ctx, e.ID, doc)
	if err != nil {
		return nil, err
	}
	return decodeEmployer(saved)
}

// Replace は既存の雇用主だけを置き換えます。存在しなければ (nil, false, nil) を返します。
func (r *EmployerRepository) Replace(ctx context.Context, e *employer.Employer) (*employer.Employer, bool, error) {
	doc, err := encodeEmployer(e)
	if err != nil {
		return nil, false, err
	}

	raw, found, err := r.docs.replace(ctx, e.ID, doc)
	if err != nil || !found {
		return nil, false, err
	}
	replaced, err := decodeEmployer(raw)
	if err != nil {
		return nil, false, err
	}
	return replaced, true, nil
}

// FindByID は ID で雇用主を取得します。
func (r *EmployerRepository) FindByID(ctx context.Context, id string) (*employer.Employer, bool, error) {
	raw, found, err := r.docs.findByID(ctx, id)
	if err != nil || !found {
		return nil, false, err
	}
	e, err := decodeEmployer(raw)
	if err != nil {
		return nil, false, err
	}
	return e, true, nil
}

// FindAll は全雇用主を取得します。
func (r *EmployerRepository) FindAll(ctx context.Context) ([]*employer.Employer, error) {
	raws, err := r.docs.findAll(ctx)
	if err != nil {
		return nil, err
	}
	return decodeEmployers(raws)
}

// DeleteByID は雇用主を削除します。
func (r *EmployerRepository) DeleteByID(ctx context.Context, id string) error {
	return r.docs.deleteByID(ctx, id)
}

// FindWithFilter は条件に一致する雇用主の 1 ページ分と総件数を返します。
func (r *EmployerRepository) FindWithFilter(ctx context.Context, pred query.Predicate, fetch pagination.Fetch) ([]*employer.Employer, int64, error) {
	raws, total, err := r.docs.findWithFilter(ctx, pred, fetch)
	if err != nil {
		return nil, 0, err
	}
	employers, err := decodeEmployers(raws)
	if err != nil {
		return nil, 0, err
	}
	return employers, total, nil
}

func encodeEmployer(e *employer.Employer) ([]byte, error) {
	doc, err := json.Marshal(employerDocument{
		Name:    e.Name,
		CNPJ:    e.CNPJ,
		Address: e.Address,
		Phone:   e.Phone,
		Email:   e.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: encode employer: %w", err)
	}
	return doc, nil
}

func decodeEmployer(raw rawDocument) (*employer.Employer, error) {
	var doc employerDocument
	if err := json.Unmarshal(raw.doc, &doc); err != nil {
		return nil, fmt.Errorf("postgres: decode employer %s: %w", raw.id, err)
	}
	return &employer.Employer{
		ID:      raw.id,
		Name:    doc.Name,
		CNPJ:    doc.CNPJ,
		Address: doc.Address,
		Phone:   doc.Phone,
		Email:   doc.Email,
	}, nil
}

func decodeEmployers(raws []rawDocument) ([]*employer.Employer, error) {
	out := make([]*employer.Employer, 0, len(raws))
	for _, raw := range raws {
		e, err := decodeEmployer(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
