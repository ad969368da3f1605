package reactive

import "github.com/mesgjs/reactive/internal"

// ReadOnlyView is a frozen projection of a Cell: it exposes the value and
// getter but no mutator. It shares its source cell's lifetime and is
// cached, so repeated calls to Cell.ReadOnlyView return the same instance.
type ReadOnlyView[T any] struct {
	cell *Cell[T]
}

// Get delegates to the source cell's Get.
func (v *ReadOnlyView[T]) Get() T {
	return v.cell.Get()
}

// TryGet delegates to the source cell's TryGet.
func (v *ReadOnlyView[T]) TryGet() (T, error) {
	return v.cell.TryGet()
}

// Getter returns the same stable closure as the source cell's Getter.
func (v *ReadOnlyView[T]) Getter() func() T {
	return v.cell.Getter()
}

// Set always fails: a view never gained a working mutator.
func (v *ReadOnlyView[T]) Set(T) error {
	return ErrReadOnly
}

// ReadOnly reports true, unconditionally.
func (v *ReadOnlyView[T]) ReadOnly() bool { return true }

// Error delegates to the source cell's Error.
func (v *ReadOnlyView[T]) Error() error {
	return v.cell.Error()
}

// ReactiveKind reports the same $reactive tag as a plain Cell; a view is
// still a cell as far as FV/TypeOf are concerned.
func (v *ReadOnlyView[T]) ReactiveKind() int { return KindCell }

// String renders the current value.
func (v *ReadOnlyView[T]) String() string {
	return toString(v.Get())
}

func (v *ReadOnlyView[T]) readAny() (any, error) {
	return v.cell.readAny()
}

func (v *ReadOnlyView[T]) internalCell() *internal.Cell {
	return v.cell.internalCell()
}
