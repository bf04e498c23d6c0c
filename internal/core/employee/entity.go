package employee

import "time"

// DateLayout は生年月日の文字列表現です。
const DateLayout = "2006-01-02"

// Employee は社員エンティティです。ID はストアが採番し、保存前は空です。
type Employee struct {
	ID        string
	Name      string
	Email     string
	BirthDate time.Time
}

// New は未保存の社員を生成します。
func New(name, email string, birthDate time.Time) *Employee {
	return &Employee{
		Name:      name,
		Email:     email,
		BirthDate: normalizeDate(birthDate),
	}
}

// Update は ID 以外の全項目を置き換えます。
func (e *Employee) Update(name, email string, birthDate time.Time) {
	e.Name = name
	e.Email = email
	e.BirthDate = normalizeDate(birthDate)
}

// Persisted は一度でも保存されていれば true を返します。
func (e *Employee) Persisted() bool {
	return e.ID != ""
}

func normalizeDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
