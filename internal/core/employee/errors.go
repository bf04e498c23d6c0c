package employee

import "errors"

var (
	// ErrEmployeeNotFound は社員が存在しない場合に返却されます。
	ErrEmployeeNotFound  = errors.New("employee: not found")
	ErrInvalidBirthMonth = errors.New("employee: invalid birth month")
)
