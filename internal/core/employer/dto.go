package employer

// CreateCommand は雇用主作成の入力です。
type CreateCommand struct {
	Name    string
	CNPJ    string
	Address string
	Phone   string
	Email   string
}

// UpdateCommand は雇用主更新の入力です。
type UpdateCommand struct {
	Name    string
	CNPJ    string
	Address string
	Phone   string
	Email   string
}

// DTO は雇用主の外部表現です。
type DTO struct {
	ID      string `json:"id" example:"6f1c2d3e-0000-4000-8000-000000000002"`
	Name    string `json:"name" example:"Acme Ltda"`
	CNPJ    string `json:"cnpj" example:"12.345.678/0001-90"`
	Address string `json:"address" example:"Av. Paulista, 1000"`
	Phone   string `json:"phone" example:"+55 11 5555-0000"`
	Email   string `json:"email" example:"contato@acme.com"`
}

// ToDTO は雇用主を DTO に変換します。
func ToDTO(e *Employer) DTO {
	if e == nil {
		return DTO{}
	}
	return DTO{
		ID:      e.ID,
		Name:    e.Name,
		CNPJ:    e.CNPJ,
		Address: e.Address,
		Phone:   e.Phone,
		Email:   e.Email,
	}
}
