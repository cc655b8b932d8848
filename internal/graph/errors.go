package graph

import "fmt"

// CodeQueryError tags any failed graph mutation or query.
const CodeQueryError = "n4j-query-error"

// QueryError carries a stable machine-readable code alongside the
// underlying driver error, which is kept as opaque detail for logging.
// Graph failures are fatal for the request that hit them but never
// corrupt the file store; the graph simply lags until the next
// successful sync of that document.
type QueryError struct {
	Code string
	Err  error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

func queryError(err error) error {
	if err == nil {
		return nil
	}
	return &QueryError{Code: CodeQueryError, Err: err}
}
