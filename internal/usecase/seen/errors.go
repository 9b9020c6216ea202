package seen

import (
	"errors"
	"fmt"
)

// ErrDocumentNotFound is returned by a Backend when no seen-set document has
// been written yet. The Store treats it as a cold start.
var ErrDocumentNotFound = errors.New("seen-set document not found")

// PersistenceError reports that the seen-set could not be written.
// Notifications already sent in the run are not undone; the next run starts
// from the previous document and may announce the same items again.
type PersistenceError struct {
	Backend string
	Err     error
}

// Error implements the error interface.
func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist seen-set to %s: %v", e.Backend, e.Err)
}

// Unwrap returns the underlying backend error.
func (e *PersistenceError) Unwrap() error {
	return e.Err
}
