// Package storage defines the error contract shared by the catalog and
// favorites repositories.
package storage

// DataAccessError wraps any failure coming out of the datastore. Engines
// propagate it unmodified; retry and backoff are the caller's concern.
type DataAccessError struct {
	Op  string
	Err error
}

func (e *DataAccessError) Error() string {
	return "storage: " + e.Op + ": " + e.Err.Error()
}

func (e *DataAccessError) Unwrap() error {
	return e.Err
}

// Wrap annotates err with the failing operation, passing nil through.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}

	return &DataAccessError{Op: op, Err: err}
}
