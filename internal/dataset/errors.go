package dataset

import "fmt"

// DataError identifies the exact row that made the input unusable.
// Ingestion stops at the first one; constraint building never sees a
// dataset that failed here.
type DataError struct {
	Table string
	Line  int
	Key   string
	Msg   string
}

func (e *DataError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s:%d: %s (%s)", e.Table, e.Line, e.Msg, e.Key)
	}
	return fmt.Sprintf("%s:%d: %s", e.Table, e.Line, e.Msg)
}
