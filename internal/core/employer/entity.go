package employer

// Employer は雇用主エンティティです。ID はストアが採番し、保存前は空です。
type Employer struct {
	ID      string
	Name    string
	CNPJ    string
	Address string
	Phone   string
	Email   string
}

// New は未保存の雇用主を生成します。
func New(name, cnpj, address, phone, email string) *Employer {
	return &Employer{
		Name:    name,
		CNPJ:    cnpj,
		Address: address,
		Phone:   phone,
		Email:   email,
	}
}

// Update は ID 以外の全項目を置き換えます。
func (e *Employer) Update(name, cnpj, address, phone, email string) {
	e.Name = name
	e.CNPJ = cnpj
	e.Address = address
	e.Phone = phone
	e.Email = email
}

// Persisted は一度でも保存されていれば true を返します。
func (e *Employer) Persisted() bool {
	return e.ID != ""
}
