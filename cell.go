package reactive

import "github.com/mesgjs/reactive/internal"

// Kind distinguishes the two $reactive-tagged families exposed by this
// package: a scalar Cell and a structural Bundle. TypeOf reports it to
// tell them apart without a type switch on every concrete wrapper.
const (
	KindCell   = 1
	KindBundle = 2
)

func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}
	return v.(T)
}

// Cell is a reactive node holding either a value or a definition computed
// from other cells. The zero value is not usable; construct one with New.
type Cell[T any] struct {
	cell *internal.Cell

	getter func() T
	setter func(T)
	ro     *ReadOnlyView[T]
}

// options collects the recognised construction options for New.
type options[T any] struct {
	hasValue bool
	value    T

	def func(prev T) (T, error)

	eager bool

	compareFn    func(old, new T) bool
	compareConst *bool
}

// Opt configures a Cell at construction time.
type Opt[T any] func(*options[T])

// WithValue seeds the cell with an initial stored value.
func WithValue[T any](v T) Opt[T] {
	return func(o *options[T]) {
		o.hasValue = true
		o.value = v
	}
}

// WithDef installs a definition: a pure function computing the cell's value
// from its previous value. The definition runs lazily on first read (or
// immediately if the cell is eager).
func WithDef[T any](fn func(prev T) (T, error)) Opt[T] {
	return func(o *options[T]) { o.def = fn }
}

// WithDefCell adopts another cell's getter as this cell's definition, so
// this cell simply tracks src.
func WithDefCell[T any](src *Cell[T]) Opt[T] {
	return func(o *options[T]) {
		o.def = func(T) (T, error) { return src.Get(), src.Error() }
	}
}

// WithEager enables eager scheduling: a stale eager cell is queued for
// background recomputation even without a reader.
func WithEager[T any]() Opt[T] {
	return func(o *options[T]) { o.eager = true }
}

// WithCompare installs a custom change predicate. The default is strict
// inequality.
func WithCompare[T any](fn func(old, new T) bool) Opt[T] {
	return func(o *options[T]) { o.compareFn = fn }
}

// WithCompareConst forces every future notification decision to a constant:
// true always notifies consumers, false never does.
func WithCompareConst[T any](v bool) Opt[T] {
	return func(o *options[T]) {
		c := v
		o.compareConst = &c
	}
}

// New constructs a Cell from the given options.
func New[T any](opts ...Opt[T]) *Cell[T] {
	var o options[T]
	for _, apply := range opts {
		apply(&o)
	}

	rt := internal.GetRuntime()
	ic := rt.NewCell()
	c := &Cell[T]{cell: ic}

	if o.compareFn != nil {
		ic.SetCompareFunc(func(old, new any) bool {
			return o.compareFn(as[T](old), as[T](new))
		})
	}
	if o.compareConst != nil {
		ic.SetCompareConst(*o.compareConst)
	}

	if o.def != nil {
		ic.SetDef(func(prev any) (any, error) { return o.def(as[T](prev)) })
	} else if o.hasValue {
		ic.Write(o.value)
	}

	if o.eager {
		ic.SetEager(true)
	}

	return c
}

// Get reads the cell's current value, evaluating its definition if stale
// and tracking the dependency edge if called from within another cell's
// evaluation. Panics with the cached definition/self-reference error if
// the cell is currently errored, mirroring the "the cell's error is its
// value" propagation rule.
func (c *Cell[T]) Get() T {
	v, err := c.cell.Read()
	if err != nil {
		panic(err)
	}
	return as[T](v)
}

// TryGet is Get without the panic: it returns the cached error instead of
// raising it, for callers that want to inspect a definition failure.
func (c *Cell[T]) TryGet() (T, error) {
	v, err := c.cell.Read()
	return as[T](v), err
}

// Set assigns a concrete value, clearing any definition and detaching all
// providers, then notifying consumers if the new value compares changed.
func (c *Cell[T]) Set(v T) *Cell[T] {
	c.cell.Write(v)
	return c
}

// SetDef installs a new definition (or, with fn == nil, clears it and
// reverts to a plain value cell holding the zero value).
func (c *Cell[T]) SetDef(fn func(prev T) (T, error)) *Cell[T] {
	if fn == nil {
		c.cell.SetDef(nil)
		return c
	}
	c.cell.SetDef(func(prev any) (any, error) { return fn(as[T](prev)) })
	return c
}

// SetEager toggles eager scheduling.
func (c *Cell[T]) SetEager(eager bool) *Cell[T] {
	c.cell.SetEager(eager)
	return c
}

// SetCompare installs a custom change predicate.
func (c *Cell[T]) SetCompare(fn func(old, new T) bool) *Cell[T] {
	c.cell.SetCompareFunc(func(old, new any) bool {
		return fn(as[T](old), as[T](new))
	})
	return c
}

// SetCompareConst forces every future notification decision to v.
func (c *Cell[T]) SetCompareConst(v bool) *Cell[T] {
	c.cell.SetCompareConst(v)
	return c
}

// Unready forces a cell with a definition back to stale and schedules it.
// A plain value cell (no definition) is left alone.
func (c *Cell[T]) Unready() *Cell[T] {
	c.cell.Unready()
	return c
}

// Error returns the cached definition-failure error, if any, without
// panicking.
func (c *Cell[T]) Error() error {
	return c.cell.Error()
}

// Getter returns a stable closure reading this cell; repeated calls return
// the same func value's behavior (identity of the returned closure itself
// is cached, matching the "cachedGetter" identity guarantee).
func (c *Cell[T]) Getter() func() T {
	if c.getter == nil {
		c.getter = c.Get
	}
	return c.getter
}

// Setter returns a stable closure writing this cell.
func (c *Cell[T]) Setter() func(T) {
	if c.setter == nil {
		c.setter = func(v T) { c.Set(v) }
	}
	return c.setter
}

// ReadOnlyView returns a cached frozen projection of this cell.
func (c *Cell[T]) ReadOnlyView() *ReadOnlyView[T] {
	if c.ro == nil {
		c.ro = &ReadOnlyView[T]{cell: c}
	}
	return c.ro
}

// ReactiveKind reports the $reactive type tag for this cell.
func (c *Cell[T]) ReactiveKind() int { return KindCell }

// String renders the current value via fmt's default formatting of Get().
func (c *Cell[T]) String() string {
	return toString(c.Get())
}

// readAny is FV's unwrap hook: read the cell without the caller needing to
// know T.
func (c *Cell[T]) readAny() (any, error) {
	return c.cell.Read()
}

// internalCell exposes the engine-level cell so a Bundle can wire it as
// another member's definition (the "assigning a Cell wires it as a
// definition" rule), regardless of T.
func (c *Cell[T]) internalCell() *internal.Cell {
	return c.cell
}
