package collect

import (
	"errors"
	"fmt"

	"github.com/matsen/xcite/internal/work"
)

// ErrFetchFailed marks a build that stopped before the source was exhausted.
var ErrFetchFailed = errors.New("fetching works failed")

// FetchError reports a build aborted by the item source. Whatever was
// accumulated before the failure is still returned alongside it.
type FetchError struct {
	Subject work.AuthorID
	Pages   int // pages fetched successfully before the failure
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching works for %s (after %d pages): %v", e.Subject.ShortID(), e.Pages, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrFetchFailed) true for every FetchError.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetchFailed
}

// IsFetchFailure reports whether err is a FetchError.
func IsFetchFailure(err error) bool {
	return errors.Is(err, ErrFetchFailed)
}
