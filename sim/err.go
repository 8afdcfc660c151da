package sim

import (
	"errors"

	"github.com/ezrec/koala/translate"
)

var f = translate.From

var (
	ErrSnapshotSize = errors.New(f("snapshot does not match program grid"))
)

// ErrCell indicates the rule instance an access failed on.
type ErrCell struct {
	Rule    string
	Ordinal int
	Err     error
}

func (err *ErrCell) Error() string {
	return f("%v(%d) %v", err.Rule, err.Ordinal, err.Err)
}

func (err *ErrCell) Unwrap() error {
	return err.Err
}
