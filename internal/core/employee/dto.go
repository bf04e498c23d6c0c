package employee

import "time"

// CreateCommand は社員作成の入力です。
type CreateCommand struct {
	Name      string
	Email     string
	BirthDate time.Time
}

// UpdateCommand は社員更新の入力です。ID はパスから与えられます。
type UpdateCommand struct {
	Name      string
	Email     string
	BirthDate time.Time
}

// DTO は社員の外部表現です。
type DTO struct {
	ID        string `json:"id" example:"6f1c2d3e-0000-4000-8000-000000000001"`
	Name      string `json:"name" example:"Ana"`
	Email     string `json:"email" example:"ana@x.com"`
	BirthDate string `json:"birthDate" example:"1990-05-02"`
}

// ToDTO は社員を DTO に変換します。
func ToDTO(e *Employee) DTO {
	if e == nil {
		return DTO{}
	}
	dto := DTO{ID: e.ID, Name: e.Name, Email: e.Email}
	if !e.BirthDate.IsZero() {
		dto.BirthDate = e.BirthDate.Format(DateLayout)
	}
	return dto
}
