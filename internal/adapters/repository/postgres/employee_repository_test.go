package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/andervilo/timesheet-go/internal/core/employee"
	"github.com/andervilo/timesheet-go/internal/core/pagination"
	"github.com/andervilo/timesheet-go/internal/core/query"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestEmployeeRepository_SaveNew(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewEmployeeRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO employees (doc) VALUES ($1) RETURNING id, doc`)).
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "doc"}).
			AddRow("emp-1", []byte(`{"name":"Ana","email":"ana@corp.com","birthDate":"1985-03-10"}`)))

	e := employee.New("Ana", "ana@corp.com", time.Date(1985, time.March, 10, 0, 0, 0, 0, time.UTC))
	saved, err := repo.Save(context.Background(), e)
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	if saved.ID != "emp-1" {
		t.Fatalf("expected store-assigned id, got %q", saved.ID)
	}
	if !saved.BirthDate.Equal(time.Date(1985, time.March, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected birth date %v", saved.BirthDate)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_SaveExistingUpserts(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewEmployeeRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(`ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc`)).
		WithArgs("emp-1", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "doc"}).
			AddRow("emp-1", []byte(`{"name":"Ana Maria","email":"ana@corp.com"}`)))

	saved, err := repo.Save(context.Background(), &employee.Employee{ID: "emp-1", Name: "Ana Maria", Email: "ana@corp.com"})
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	if saved.Name != "Ana Maria" || !saved.BirthDate.IsZero() {
		t.Fatalf("unexpected employee %+v", saved)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_FindByID_NotFound(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewEmployeeRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, doc FROM employees WHERE id = $1`)).
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{"id", "doc"}))

	e, found, err := repo.FindByID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if found || e != nil {
		t.Fatalf("expected absent employee, got %+v", e)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_FindByID_StoreError(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewEmployeeRepository(mock)

	storeErr := errors.New("connection refused")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, doc FROM employees`)).
		WithArgs("emp-1").
		WillReturnError(storeErr)

	if _, _, err := repo.FindByID(context.Background(), "emp-1"); !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestEmployeeRepository_FindAll(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewEmployeeRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, doc FROM employees`)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "doc"}).
			AddRow("emp-1", []byte(`{"name":"Ana","email":"ana@corp.com","birthDate":"1985-03-10"}`)).
			AddRow("emp-2", []byte(`{"name":"Bruno","email":"bruno@corp.com","birthDate":"1990-04-10"}`)))

	employees, err := repo.FindAll(context.Background())
	if err != nil {
		t.Fatalf("FindAll returned error: %v", err)
	}

	if len(employees) != 2 || employees[1].Name != "Bruno" {
		t.Fatalf("unexpected employees %+v", employees)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_FindAll_CorruptDocument(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewEmployeeRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, doc FROM employees`)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "doc"}).
			AddRow("emp-1", []byte(`{"name":"Ana","birthDate":"10/03/1985"}`)))

	if _, err := repo.FindAll(context.Background()); err == nil {
		t.Fatal("expected decode error for malformed birthDate")
	}
}

func TestEmployeeRepository_DeleteByID_AbsentIsNotAnError(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewEmployeeRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM employees WHERE id = $1`)).
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	if err := repo.DeleteByID(context.Background(), "missing"); err != nil {
		t.Fatalf("DeleteByID returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_FindWithFilter_CountThenPage(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewEmployeeRepository(mock)

	// goqu は整数のプレースホルダ引数を int64 で渡す
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM "employees" WHERE`)).
		WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(2)))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "id", "doc" FROM "employees" WHERE`)).
		WithArgs(int64(3), int64(10)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "doc"}).
			AddRow("emp-1", []byte(`{"name":"Ana","email":"ana@corp.com","birthDate":"1985-03-10"}`)).
			AddRow("emp-3", []byte(`{"name":"Carla","email":"carla@corp.com","birthDate":"2001-03-22"}`)))

	pred := query.NewBuilder().Month(employee.FieldBirthDate, time.March).Build()
	fetch := pagination.Fetch{Skip: 0, Limit: 10, Sort: &pagination.Sort{Field: employee.FieldName, Direction: pagination.Asc}}

	employees, total, err := repo.FindWithFilter(context.Background(), pred, fetch)
	if err != nil {
		t.Fatalf("FindWithFilter returned error: %v", err)
	}

	if total != 2 || len(employees) != 2 {
		t.Fatalf("unexpected result total=%d len=%d", total, len(employees))
	}
	if employees[1].BirthDate.Month() != time.March {
		t.Fatalf("unexpected month %v", employees[1].BirthDate.Month())
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_FindWithFilter_CountError(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewEmployeeRepository(mock)

	storeErr := errors.New("timeout")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM "employees"`)).WillReturnError(storeErr)

	_, _, err = repo.FindWithFilter(context.Background(), query.NewBuilder().Build(), pagination.Fetch{Limit: 10})
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_Replace(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewEmployeeRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE employees SET doc = $2 WHERE id = $1 RETURNING id, doc`)).
		WithArgs("emp-1", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "doc"}).
			AddRow("emp-1", []byte(`{"name":"Ana Maria","email":"ana@corp.com"}`)))

	replaced, found, err := repo.Replace(context.Background(), &employee.Employee{ID: "emp-1", Name: "Ana Maria", Email: "ana@corp.com"})
	if err != nil {
		t.Fatalf("Replace returned error: %v", err)
	}
	if !found || replaced.Name != "Ana Maria" {
		t.Fatalf("unexpected result found=%t employee=%+v", found, replaced)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_Replace_MissingRowIsNotCreated(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewEmployeeRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE employees SET doc = $2 WHERE id = $1`)).
		WithArgs("gone", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "doc"}))

	replaced, found, err := repo.Replace(context.Background(), &employee.Employee{ID: "gone", Name: "Ghost"})
	if err != nil {
		t.Fatalf("Replace returned error: %v", err)
	}
	if found || replaced != nil {
		t.Fatalf("expected absent employee, got %+v", replaced)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
