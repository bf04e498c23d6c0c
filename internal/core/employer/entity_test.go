package employer

import "testing"

func TestNewAndUpdate(t *testing.T) {
	t.Parallel()

	e := New("Acme", "0001", "Rua A", "1199", "c@acme.com")
	if e.Persisted() {
		t.Fatalf("new employer must not have an id")
	}

	e.ID = "er-1"
	e.Update("Acme Corp", "0002", "Rua B", "1188", "x@acme.com")

	if !e.Persisted() || e.ID != "er-1" {
		t.Fatalf("identity changed: %+v", e)
	}
	if e.Name != "Acme Corp" || e.CNPJ != "0002" || e.Address != "Rua B" || e.Phone != "1188" || e.Email != "x@acme.com" {
		t.Fatalf("fields not replaced: %+v", e)
	}
}
