package termination

import (
	"fmt"

	"github.com/sable-lang/sable/internal/diag"
)

// ImpossibleError reports an internal invariant violation. It cannot
// occur on well-typed input and is never caught inside the checker;
// the host surfaces it as a fatal diagnostic under its stable code.
type ImpossibleError struct {
	Code    diag.Code
	Message string
}

func (e *ImpossibleError) Error() string {
	return fmt.Sprintf("internal invariant violated [%s]: %s", e.Code, e.Message)
}

func impossiblef(code diag.Code, format string, args ...any) error {
	return &ImpossibleError{Code: code, Message: fmt.Sprintf(format, args...)}
}
