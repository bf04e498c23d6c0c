package employer

import "errors"

var (
	// ErrEmployerNotFound は雇用主が存在しない場合に返却されます。
	ErrEmployerNotFound = errors.New("employer: not found")
)
