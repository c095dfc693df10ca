package options

import "errors"

var (
	// ErrInvalidInput 입력 검증 실패 (request-rejected 계열)
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoConvergence implied vol 솔버가 Newton과 bisection 모두 실패 (computation-failed 계열)
	ErrNoConvergence = errors.New("solver did not converge")
)
