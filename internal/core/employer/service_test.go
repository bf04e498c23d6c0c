package employer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/andervilo/timesheet-go/internal/core/pagination"
	"github.com/andervilo/timesheet-go/internal/core/query"
)

type fakeEmployerRepo struct {
	employers map[string]*Employer
	sequence  int
	order     []string
	findErr   error
	// beforeReplace は読み取りと置換の間に割り込む書き込みを再現します。
	beforeReplace func()
}

func newFakeEmployerRepo() *fakeEmployerRepo {
	return &fakeEmployerRepo{employers: make(map[string]*Employer)}
}

func (r *fakeEmployerRepo) Save(_ context.Context, e *Employer) (*Employer, error) {
	clone := *e
	if clone.ID == "" {
		r.sequence++
		clone.ID = fmt.Sprintf("employer-%d", r.sequence)
	}
	if _, ok := r.employers[clone.ID]; !ok {
		r.order = append(r.order, clone.ID)
	}
	r.employers[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *fakeEmployerRepo) Replace(_ context.Context, e *Employer) (*Employer, bool, error) {
	if r.beforeReplace != nil {
		r.beforeReplace()
	}
	if _, ok := r.employers[e.ID]; !ok {
		return nil, false, nil
	}
	clone := *e
	r.employers[clone.ID] = &clone
	out := clone
	return &out, true, nil
}

func (r *fakeEmployerRepo) FindByID(_ context.Context, id string) (*Employer, bool, error) {
	if r.findErr != nil {
		return nil, false, r.findErr
	}
	found, ok := r.employers[id]
	if !ok {
		return nil, false, nil
	}
	clone := *found
	return &clone, true, nil
}

func (r *fakeEmployerRepo) FindAll(_ context.Context) ([]*Employer, error) {
	out := make([]*Employer, 0, len(r.order))
	for _, id := range r.order {
		clone := *r.employers[id]
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakeEmployerRepo) DeleteByID(_ context.Context, id string) error {
	delete(r.employers, id)
	for idx, existingID := range r.order {
		if existingID == id {
			r.order = append(r.order[:idx], r.order[idx+1:]...)
			break
		}
	}
	return nil
}

func (r *fakeEmployerRepo) FindWithFilter(_ context.Context, pred query.Predicate, fetch pagination.Fetch) ([]*Employer, int64, error) {
	var matched []*Employer
	for _, id := range r.order {
		e := r.employers[id]
		if pred.Match(e.Record()) {
			clone := *e
			matched = append(matched, &clone)
		}
	}

	if fetch.Sort != nil {
		field := fetch.Sort.Field
		desc := fetch.Sort.Direction == pagination.Desc
		sort.SliceStable(matched, func(i, j int) bool {
			a := strings.ToLower(matched[i].Record()[field].(string))
			b := strings.ToLower(matched[j].Record()[field].(string))
			if desc {
				return a > b
			}
			return a < b
		})
	}

	total := int64(len(matched))
	if fetch.Skip >= len(matched) {
		return []*Employer{}, total, nil
	}
	end := fetch.Skip + fetch.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[fetch.Skip:end], total, nil
}

func strPtr(v string) *string {
	return &v
}

func TestService_CreateAndFind(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeEmployerRepo(), nil, 0)

	created, err := svc.Create(context.Background(), CreateCommand{
		Name:    "Acme Ltda",
		CNPJ:    "12.345.678/0001-90",
		Address: "Av. Paulista, 1000",
		Phone:   "+55 11 5555-0000",
		Email:   "contato@acme.com",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected store assigned id")
	}

	found, err := svc.FindByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if found != created {
		t.Fatalf("expected %+v, got %+v", created, found)
	}
}

func TestService_FindByID_NotFound(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeEmployerRepo(), nil, 0)

	if _, err := svc.FindByID(context.Background(), "nope"); !errors.Is(err, ErrEmployerNotFound) {
		t.Fatalf("expected ErrEmployerNotFound, got %v", err)
	}
}

func TestService_Update(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployerRepo()
	svc := NewService(repo, nil, 0)

	created, err := svc.Create(context.Background(), CreateCommand{Name: "Acme", CNPJ: "1"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	updated, err := svc.Update(context.Background(), created.ID, UpdateCommand{
		Name:    "Acme Global",
		CNPJ:    "2",
		Address: "Rua A",
		Phone:   "123",
		Email:   "a@acme.com",
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	want := DTO{ID: created.ID, Name: "Acme Global", CNPJ: "2", Address: "Rua A", Phone: "123", Email: "a@acme.com"}
	if updated != want {
		t.Fatalf("expected %+v, got %+v", want, updated)
	}
	if len(repo.employers) != 1 {
		t.Fatalf("expected a single record after update, got %d", len(repo.employers))
	}
}

func TestService_Update_NotFoundNeverCreates(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployerRepo()
	svc := NewService(repo, nil, 0)

	if _, err := svc.Update(context.Background(), "ghost", UpdateCommand{Name: "Ghost"}); !errors.Is(err, ErrEmployerNotFound) {
		t.Fatalf("expected ErrEmployerNotFound, got %v", err)
	}
	if len(repo.employers) != 0 {
		t.Fatalf("expected no records, got %d", len(repo.employers))
	}
}

func TestService_Update_ConcurrentDeleteIsNotResurrected(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployerRepo()
	svc := NewService(repo, nil, 0)

	created, err := svc.Create(context.Background(), CreateCommand{Name: "Acme"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	repo.beforeReplace = func() {
		_ = repo.DeleteByID(context.Background(), created.ID)
	}

	if _, err := svc.Update(context.Background(), created.ID, UpdateCommand{Name: "Acme Global"}); !errors.Is(err, ErrEmployerNotFound) {
		t.Fatalf("expected ErrEmployerNotFound, got %v", err)
	}
	if len(repo.employers) != 0 {
		t.Fatalf("deleted employer must stay deleted, got %d records", len(repo.employers))
	}
}

func TestService_Reads_UseReadOnlyTransaction(t *testing.T) {
	t.Parallel()

	tx := &readOnlyCounter{}
	svc := NewService(newFakeEmployerRepo(), tx, 0)

	if _, err := svc.FindByID(context.Background(), "nope"); !errors.Is(err, ErrEmployerNotFound) {
		t.Fatalf("expected ErrEmployerNotFound, got %v", err)
	}
	if _, err := svc.FindAll(context.Background()); err != nil {
		t.Fatalf("FindAll returned error: %v", err)
	}
	if tx.readOnly != 2 {
		t.Fatalf("expected 2 read-only transactions, got %d", tx.readOnly)
	}
}

type readOnlyCounter struct {
	readOnly int
}

func (c *readOnlyCounter) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	c.readOnly++
	return fn(ctx)
}

func (c *readOnlyCounter) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func TestService_Update_PropagatesStoreError(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployerRepo()
	storeErr := errors.New("timeout")
	repo.findErr = storeErr
	svc := NewService(repo, nil, 0)

	if _, err := svc.Update(context.Background(), "x", UpdateCommand{}); !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestService_Delete_IsIdempotent(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeEmployerRepo(), nil, 0)

	created, err := svc.Create(context.Background(), CreateCommand{Name: "Acme"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := svc.Delete(context.Background(), created.ID); err != nil {
			t.Fatalf("Delete #%d returned error: %v", i+1, err)
		}
	}

	all, err := svc.FindAll(context.Background())
	if err != nil {
		t.Fatalf("FindAll returned error: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected no employers, got %d", len(all))
	}
}

func TestService_FindWithFilters_NameCaseInsensitiveSorted(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeEmployerRepo(), nil, 0)

	for _, name := range []string{"Beta Acme", "Gamma", "ACME Alpha"} {
		if _, err := svc.Create(context.Background(), CreateCommand{Name: name}); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	asc, err := svc.FindWithFilters(context.Background(), Filter{
		Page: pagination.Request{Size: 10, SortBy: FieldName, Direction: pagination.Asc},
		Name: strPtr("acme"),
	})
	if err != nil {
		t.Fatalf("FindWithFilters returned error: %v", err)
	}
	if asc.TotalElements != 2 || len(asc.Content) != 2 {
		t.Fatalf("expected 2 acme employers, got %+v", asc)
	}
	if asc.Content[0].Name != "ACME Alpha" || asc.Content[1].Name != "Beta Acme" {
		t.Fatalf("unexpected ascending order: %+v", asc.Content)
	}

	desc, err := svc.FindWithFilters(context.Background(), Filter{
		Page: pagination.Request{Size: 10, SortBy: FieldName, Direction: pagination.Desc},
		Name: strPtr("acme"),
	})
	if err != nil {
		t.Fatalf("FindWithFilters returned error: %v", err)
	}
	if desc.Content[0].Name != "Beta Acme" || desc.Content[1].Name != "ACME Alpha" {
		t.Fatalf("unexpected descending order: %+v", desc.Content)
	}
}

func TestService_FindWithFilters_AllFieldsConstrain(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeEmployerRepo(), nil, 0)

	if _, err := svc.Create(context.Background(), CreateCommand{Name: "Acme", CNPJ: "11.111", Address: "Rua das Flores", Phone: "9999", Email: "a@acme.com"}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if _, err := svc.Create(context.Background(), CreateCommand{Name: "Acme", CNPJ: "22.222", Address: "Av. Brasil", Phone: "8888", Email: "b@acme.com"}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	tests := []struct {
		name   string
		filter Filter
		want   int64
	}{
		{name: "no constraint", filter: Filter{}, want: 2},
		{name: "cnpj", filter: Filter{CNPJ: strPtr("22.")}, want: 1},
		{name: "address", filter: Filter{Address: strPtr("FLORES")}, want: 1},
		{name: "phone", filter: Filter{Phone: strPtr("88")}, want: 1},
		{name: "email", filter: Filter{Email: strPtr("@acme")}, want: 2},
		{name: "conjunction", filter: Filter{Email: strPtr("a@"), Phone: strPtr("88")}, want: 0},
	}

	for _, tt := range tests {
		tt.filter.Page = pagination.DefaultRequest()
		page, err := svc.FindWithFilters(context.Background(), tt.filter)
		if err != nil {
			t.Fatalf("%s: FindWithFilters returned error: %v", tt.name, err)
		}
		if page.TotalElements != tt.want {
			t.Fatalf("%s: expected %d, got %d", tt.name, tt.want, page.TotalElements)
		}
	}
}

func TestService_FindWithFilters_InvalidPage(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeEmployerRepo(), nil, 0)

	_, err := svc.FindWithFilters(context.Background(), Filter{Page: pagination.Request{Page: 0, Size: -5}})
	if !errors.Is(err, pagination.ErrInvalidPageSize) {
		t.Fatalf("expected ErrInvalidPageSize, got %v", err)
	}
}
