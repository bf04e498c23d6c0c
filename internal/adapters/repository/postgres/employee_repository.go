package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/andervilo/timesheet-go/internal/core/employee"
	"github.com/andervilo/timesheet-go/internal/core/pagination"
	"github.com/andervilo/timesheet-go/internal/core/query"
	pgdb "github.com/andervilo/timesheet-go/internal/platform/db/postgres"
)

const employeesTable = "employees"

type employeeDocument struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	BirthDate string `json:"birthDate,omitempty"`
}

// EmployeeRepository は PostgreSQL の jsonb ドキュメントで社員を永続化する実装です。
type EmployeeRepository struct {
	docs *collection
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(pool pgdb.Queryer) *EmployeeRepository {
	return &EmployeeRepository{
		docs: newCollection(pool, employeesTable,
			[]string{employee.FieldName, employee.FieldEmail},
			[]string{employee.FieldBirthDate},
		),
	}
}

// Save は社員を作成または全体置換します。
func (r *EmployeeRepository) Save(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	doc, err := encodeEmployee(e)
	if err != nil {
		return nil, err
	}

	saved, err := r.docs.save(ctx, e.ID, doc)
	if err != nil {
		return nil, err
	}
	return decodeEmployee(saved)
}

// Replace は既存の社員だけを置き換えます。存在しなければ (nil, false, nil) を返します。
func (r *EmployeeRepository) Replace(ctx context.Context, e *employee.Employee) (*employee.Employee, bool, error) {
	doc, err := encodeEmployee(e)
	if err != nil {
		return nil, false, err
	}

	raw, found, err := r.docs.replace(ctx, e.ID, doc)
	if err != nil || !found {
		return nil, false, err
	}
	replaced, err := decodeEmployee(raw)
	if err != nil {
		return nil, false, err
	}
	return replaced, true, nil
}

// FindByID は ID で社員を取得します。
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, bool, error) {
	raw, found, err := r.docs.findByID(ctx, id)
	if err != nil || !found {
		return nil, false, err
	}
	e, err := decodeEmployee(raw)
	if err != nil {
		return nil, false, err
	}
	return e, true, nil
}

// FindAll は全社員を取得します。
func (r *EmployeeRepository) FindAll(ctx context.Context) ([]*employee.Employee, error) {
	raws, err := r.docs.findAll(ctx)
	if err != nil {
		return nil, err
	}
	return decodeEmployees(raws)
}

// DeleteByID は社員を削除します。
func (r *EmployeeRepository) DeleteByID(ctx context.Context, id string) error {
	return r.docs.deleteByID(ctx, id)
}

// FindWithFilter は条件に一致する社員の 1 ページ分と総件数を返します。
func (r *EmployeeRepository) FindWithFilter(ctx context.Context, pred query.Predicate, fetch pagination.Fetch) ([]*employee.Employee, int64, error) {
	raws, total, err := r.docs.findWithFilter(ctx, pred, fetch)
	if err != nil {
		return nil, 0, err
	}
	employees, err := decodeEmployees(raws)
	if err != nil {
		return nil, 0, err
	}
	return employees, total, nil
}

func encodeEmployee(e *employee.Employee) ([]byte, error) {
	doc := employeeDocument{Name: e.Name, Email: e.Email}
	if !e.BirthDate.IsZero() {
		doc.BirthDate = e.BirthDate.Format(dateLayout)
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("postgres: encode employee: %w", err)
	}
	return b, nil
}

func decodeEmployee(raw rawDocument) (*employee.Employee, error) {
	var doc employeeDocument
	if err := json.Unmarshal(raw.doc, &doc); err != nil {
		return nil, fmt.Errorf("postgres: decode employee %s: %w", raw.id, err)
	}

	e := &employee.Employee{ID: raw.id, Name: doc.Name, Email: doc.Email}
	if doc.BirthDate != "" {
		birth, err := time.ParseInLocation(dateLayout, doc.BirthDate, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("postgres: decode employee %s birthDate: %w", raw.id, err)
		}
		e.BirthDate = birth
	}
	return e, nil
}

func decodeEmployees(raws []rawDocument) ([]*employee.Employee, error) {
	out := make([]*employee.Employee, 0, len(raws))
	for _, raw := range raws {
		e, err := decodeEmployee(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
