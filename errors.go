package reactive

import "errors"

// ErrReadOnly is returned by a ReadOnlyView's Set method: a view never has
// a working mutator, it always fails this way instead of compiling one out.
var ErrReadOnly = errors.New("reactive: cannot write through a read-only view")

// ErrBundleMutation is the cause wrapped by the panic Set/Delete raise when
// called with a reserved accessor key ("_" or "__") instead of an ordinary
// member name.
var ErrBundleMutation = errors.New("reactive: bundle internals are not directly assignable")
