package reactive

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mesgjs/reactive/internal"
)

// cellBacked is implemented by anything wrapping an internal.Cell
// (Cell[T], ReadOnlyView[T]) for any T. Bundle.Set uses it to detect "the
// assigned value is itself a reactive cell" and wires that cell's getter
// as the member's definition instead of storing it as a plain value.
type cellBacked interface {
	internalCell() *internal.Cell
}

type bundleOptions struct {
	shallow bool
}

// BundleOpt configures a Bundle at construction time.
type BundleOpt func(*bundleOptions)

// WithShallow disables automatic promotion of nested map[string]any/[]any
// values into nested Bundles; they are stored as plain values instead.
func WithShallow() BundleOpt {
	return func(o *bundleOptions) { o.shallow = true }
}

// Bundle is a reactive wrapper over a nested object (map[string]any) or
// array ([]any): every member is backed by its own Cell[any], so reading a
// member tracks it and writing one ripples only its own consumers, while
// the bundle's aggregate cell ripples on any structural change (member
// added, removed, or array length changed).
type Bundle struct {
	isArray bool
	shallow bool

	objMembers map[string]*Cell[any]
	objOrder   []string

	items []*Cell[any]

	agg        *Cell[int]
	aggVersion int
}

// NewBundle wraps initial (a map[string]any for an object bundle, or a
// []any for an array bundle) as a reactive Bundle. Nested map[string]any
// and []any member values are promoted into nested Bundles unless
// WithShallow is given.
func NewBundle(initial any, opts ...BundleOpt) *Bundle {
	var o bundleOptions
	for _, apply := range opts {
		apply(&o)
	}

	b := &Bundle{shallow: o.shallow, agg: New[int](WithValue(0), WithCompareConst[int](true))}

	switch v := initial.(type) {
	case []any:
		b.isArray = true
		b.items = make([]*Cell[any], 0, len(v))
		for _, elem := range v {
			b.items = append(b.items, b.wrap(elem))
		}
	case map[string]any:
		b.objMembers = make(map[string]*Cell[any], len(v))
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.objMembers[k] = b.wrap(v[k])
			b.objOrder = append(b.objOrder, k)
		}
	default:
		panic(fmt.Sprintf("reactive: bundle initial value must be map[string]any or []any, got %T", initial))
	}

	return b
}

// wrap builds a member cell for v: a reactive value is wired as a
// definition (so the member tracks it); a nested object/array is promoted
// into a nested Bundle unless shallow; anything else is stored as-is.
func (b *Bundle) wrap(v any) *Cell[any] {
	c := New[any]()

	if cb, ok := v.(cellBacked); ok {
		src := cb.internalCell()
		c.SetDef(func(any) (any, error) { return src.Read() })
		return c
	}

	if !b.shallow {
		switch nested := v.(type) {
		case map[string]any:
			c.Set(NewBundle(nested))
			return c
		case []any:
			c.Set(NewBundle(nested))
			return c
		}
	}

	c.Set(v)
	return c
}

func (b *Bundle) bumpAggregate() {
	b.aggVersion++
	b.agg.Set(b.aggVersion)
}

// ReactiveKind reports the $reactive tag distinguishing bundles from cells.
func (b *Bundle) ReactiveKind() int { return KindBundle }

// IsArray reports whether this bundle wraps an array (vs. an object).
func (b *Bundle) IsArray() bool { return b.isArray }

// Aggregate returns the bundle's own structural cell (the `__` accessor):
// consumers reading it become stale whenever a member is added, removed,
// or (for arrays) the length changes.
func (b *Bundle) Aggregate() *Cell[int] { return b.agg }

// Cells returns a copy of the map of member cells (the `_` accessor) for
// an object bundle. The cells are shared with the bundle, but adding or
// removing entries in the returned map does not change the bundle; use
// Set/Delete.
func (b *Bundle) Cells() map[string]*Cell[any] {
	b.requireObject("Cells")
	out := make(map[string]*Cell[any], len(b.objMembers))
	for k, v := range b.objMembers {
		out[k] = v
	}
	return out
}

// ItemCells returns a copy of the slice of member cells (the `_` accessor)
// for an array bundle, indexed the same as the array itself. The cells are
// shared with the bundle, but reordering or resizing the returned slice
// does not change the bundle; use the array operations below.
func (b *Bundle) ItemCells() []*Cell[any] {
	b.requireArray("ItemCells")
	out := make([]*Cell[any], len(b.items))
	copy(out, b.items)
	return out
}

// Keys returns the object bundle's member keys in insertion order.
func (b *Bundle) Keys() []string {
	b.requireObject("Keys")
	out := make([]string, len(b.objOrder))
	copy(out, b.objOrder)
	return out
}

// Get returns an object member's current value.
func (b *Bundle) Get(key string) any {
	b.requireObject("Get")
	m, ok := b.objMembers[key]
	if !ok {
		return nil
	}
	return m.Get()
}

// Has reports whether key is a current member of an object bundle.
func (b *Bundle) Has(key string) bool {
	b.requireObject("Has")
	_, ok := b.objMembers[key]
	return ok
}

// reservedMemberKey reports whether key names one of the bundle's own
// accessors (`_`, the member-cell map; `__`, the aggregate cell) rather than
// an ordinary member: assigning or deleting through either is refused.
func reservedMemberKey(key string) bool {
	return key == "_" || key == "__"
}

// Set assigns into the member cell for key, creating it (and rippling the
// aggregate) if it did not already exist. Panics wrapping ErrBundleMutation
// if key is a reserved accessor name ("_" or "__").
func (b *Bundle) Set(key string, v any) *Bundle {
	b.requireObject("Set")
	if reservedMemberKey(key) {
		panic(fmt.Errorf("%w: %q is reserved for the member-cell and aggregate accessors", ErrBundleMutation, key))
	}

	Batch(func() {
		m, existed := b.objMembers[key]
		if !existed {
			m = New[any]()
			b.objMembers[key] = m
			b.objOrder = append(b.objOrder, key)
		}

		if cb, ok := v.(cellBacked); ok {
			src := cb.internalCell()
			m.SetDef(func(any) (any, error) { return src.Read() })
		} else if !b.shallow {
			switch nested := v.(type) {
			case map[string]any:
				m.Set(NewBundle(nested))
			case []any:
				m.Set(NewBundle(nested))
			default:
				m.SetDef(nil)
				m.Set(v)
			}
		} else {
			m.SetDef(nil)
			m.Set(v)
		}

		if !existed {
			b.bumpAggregate()
		}
	})

	return b
}

// Delete removes a member, rippling the aggregate cell. Panics wrapping
// ErrBundleMutation if key is a reserved accessor name ("_" or "__").
func (b *Bundle) Delete(key string) *Bundle {
	b.requireObject("Delete")
	if reservedMemberKey(key) {
		panic(fmt.Errorf("%w: %q is reserved for the member-cell and aggregate accessors", ErrBundleMutation, key))
	}

	if _, ok := b.objMembers[key]; !ok {
		return b
	}

	Batch(func() {
		delete(b.objMembers, key)
		for i, k := range b.objOrder {
			if k == key {
				b.objOrder = append(b.objOrder[:i], b.objOrder[i+1:]...)
				break
			}
		}
		b.bumpAggregate()
	})

	return b
}

// Snapshot returns a deep, non-reactive plain-value copy of the bundle:
// map[string]any for an object, []any for an array. Nested bundles are
// snapshotted recursively.
func (b *Bundle) Snapshot() any {
	if b.isArray {
		out := make([]any, len(b.items))
		for i, c := range b.items {
			out[i] = snapshotValue(c.Get())
		}
		return out
	}

	out := make(map[string]any, len(b.objMembers))
	for _, k := range b.objOrder {
		out[k] = snapshotValue(b.objMembers[k].Get())
	}
	return out
}

func snapshotValue(v any) any {
	if nested, ok := v.(*Bundle); ok {
		return nested.Snapshot()
	}
	return v
}

// Update performs an in-place merge of src into this bundle within a
// single batch. For an object bundle, keys absent from src are deleted and
// keys present in src are assigned. For an array bundle, elements not
// present in src (by value equality on the current snapshot) are spliced
// out and elements in src not already present are pushed, giving
// set-semantics on the snapshotted values.
func (b *Bundle) Update(src any) *Bundle {
	Batch(func() {
		if b.isArray {
			wanted, ok := src.([]any)
			if !ok {
				panic(fmt.Sprintf("reactive: array bundle Update expects []any, got %T", src))
			}
			b.updateArray(wanted)
			return
		}

		wanted, ok := src.(map[string]any)
		if !ok {
			panic(fmt.Sprintf("reactive: object bundle Update expects map[string]any, got %T", src))
		}
		b.updateObject(wanted)
	})

	return b
}

func (b *Bundle) updateObject(src map[string]any) {
	for _, k := range b.Keys() {
		if _, ok := src[k]; !ok {
			b.Delete(k)
		}
	}
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.Set(k, src[k])
	}
}

func (b *Bundle) updateArray(src []any) {
	current := b.Snapshot().([]any)

	keep := make([]bool, len(current))
	for i, v := range current {
		for _, w := range src {
			if snapshotEqual(v, w) {
				keep[i] = true
				break
			}
		}
	}
	for i := len(keep) - 1; i >= 0; i-- {
		if !keep[i] {
			b.Splice(i, 1)
		}
	}

	current = b.Snapshot().([]any)
	for _, w := range src {
		found := false
		for _, v := range current {
			if snapshotEqual(v, w) {
				found = true
				break
			}
		}
		if !found {
			b.Push(w)
		}
	}
}

// snapshotEqual compares two snapshotted values, treating uncomparable
// dynamic types (slices, maps) as never equal rather than panicking.
func snapshotEqual(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}

func (b *Bundle) requireObject(op string) {
	if b.isArray {
		panic(fmt.Sprintf("reactive: Bundle.%s is only valid on an object bundle", op))
	}
}

func (b *Bundle) requireArray(op string) {
	if !b.isArray {
		panic(fmt.Sprintf("reactive: Bundle.%s is only valid on an array bundle", op))
	}
}

// --- array operations ---

// Len returns the array bundle's current length.
func (b *Bundle) Len() int {
	b.requireArray("Len")
	return len(b.items)
}

// At returns the value at index i, or nil if out of range.
func (b *Bundle) At(i int) any {
	b.requireArray("At")
	if i < 0 || i >= len(b.items) {
		return nil
	}
	return b.items[i].Get()
}

// SetAt assigns the value at index i.
func (b *Bundle) SetAt(i int, v any) *Bundle {
	b.requireArray("SetAt")
	if i < 0 || i >= len(b.items) {
		panic(fmt.Sprintf("reactive: SetAt index %d out of range [0,%d)", i, len(b.items)))
	}
	b.items[i].Set(v)
	return b
}

// Push appends elements, rippling the aggregate cell.
func (b *Bundle) Push(vs ...any) *Bundle {
	b.requireArray("Push")
	Batch(func() {
		for _, v := range vs {
			b.items = append(b.items, b.wrap(v))
		}
		if len(vs) > 0 {
			b.bumpAggregate()
		}
	})
	return b
}

// Pop removes and returns the last element.
func (b *Bundle) Pop() (any, bool) {
	b.requireArray("Pop")
	if len(b.items) == 0 {
		return nil, false
	}
	var v any
	Batch(func() {
		last := b.items[len(b.items)-1]
		v = last.Get()
		b.items = b.items[:len(b.items)-1]
		b.bumpAggregate()
	})
	return v, true
}

// Shift removes and returns the first element.
func (b *Bundle) Shift() (any, bool) {
	b.requireArray("Shift")
	if len(b.items) == 0 {
		return nil, false
	}
	var v any
	Batch(func() {
		first := b.items[0]
		v = first.Get()
		b.items = b.items[1:]
		b.bumpAggregate()
	})
	return v, true
}

// Unshift prepends elements.
func (b *Bundle) Unshift(vs ...any) *Bundle {
	b.requireArray("Unshift")
	Batch(func() {
		wrapped := make([]*Cell[any], len(vs))
		for i, v := range vs {
			wrapped[i] = b.wrap(v)
		}
		b.items = append(wrapped, b.items...)
		if len(vs) > 0 {
			b.bumpAggregate()
		}
	})
	return b
}

// Splice removes deleteCount elements starting at start and inserts items
// in their place, returning the removed values.
func (b *Bundle) Splice(start, deleteCount int, items ...any) []any {
	b.requireArray("Splice")

	if start < 0 {
		start = 0
	}
	if start > len(b.items) {
		start = len(b.items)
	}
	end := start + deleteCount
	if end > len(b.items) {
		end = len(b.items)
	}

	removed := make([]any, 0, end-start)
	Batch(func() {
		for _, c := range b.items[start:end] {
			removed = append(removed, c.Get())
		}

		wrapped := make([]*Cell[any], len(items))
		for i, v := range items {
			wrapped[i] = b.wrap(v)
		}

		tail := append([]*Cell[any]{}, b.items[end:]...)
		b.items = append(append(b.items[:start], wrapped...), tail...)

		if end-start > 0 || len(items) > 0 {
			b.bumpAggregate()
		}
	})
	return removed
}

// Sort sorts the array in place using less.
func (b *Bundle) Sort(less func(a, b any) bool) *Bundle {
	b.requireArray("Sort")
	Batch(func() {
		sort.SliceStable(b.items, func(i, j int) bool {
			return less(b.items[i].Get(), b.items[j].Get())
		})
		b.bumpAggregate()
	})
	return b
}

// Map returns a new bundle with fn applied to every element.
func (b *Bundle) Map(fn func(any) any) *Bundle {
	b.requireArray("Map")
	out := make([]any, len(b.items))
	for i, c := range b.items {
		out[i] = fn(c.Get())
	}
	return NewBundle(out)
}

// Filter returns a new bundle with only the elements fn accepts.
func (b *Bundle) Filter(fn func(any) bool) *Bundle {
	b.requireArray("Filter")
	out := make([]any, 0, len(b.items))
	for _, c := range b.items {
		v := c.Get()
		if fn(v) {
			out = append(out, v)
		}
	}
	return NewBundle(out)
}

// Concat returns a new bundle with this array's elements followed by
// others', in order.
func (b *Bundle) Concat(others ...*Bundle) *Bundle {
	b.requireArray("Concat")
	out := make([]any, 0, len(b.items))
	for _, c := range b.items {
		out = append(out, c.Get())
	}
	for _, o := range others {
		o.requireArray("Concat")
		for _, c := range o.items {
			out = append(out, c.Get())
		}
	}
	return NewBundle(out)
}

// Flat returns a new bundle with nested array-bundle elements flattened up
// to depth levels.
func (b *Bundle) Flat(depth int) *Bundle {
	b.requireArray("Flat")
	var flatten func(items []*Cell[any], depth int) []any
	flatten = func(items []*Cell[any], depth int) []any {
		out := make([]any, 0, len(items))
		for _, c := range items {
			v := c.Get()
			if nested, ok := v.(*Bundle); ok && nested.isArray && depth > 0 {
				out = append(out, flatten(nested.items, depth-1)...)
				continue
			}
			out = append(out, v)
		}
		return out
	}
	return NewBundle(flatten(b.items, depth))
}

// FlatMap applies fn to every element and flattens the results one level.
func (b *Bundle) FlatMap(fn func(any) []any) *Bundle {
	b.requireArray("FlatMap")
	out := make([]any, 0, len(b.items))
	for _, c := range b.items {
		out = append(out, fn(c.Get())...)
	}
	return NewBundle(out)
}

// Slice returns a new bundle over items[start:end], Python/JS-slice style
// (negative indices unsupported; out-of-range is clamped).
func (b *Bundle) Slice(start, end int) *Bundle {
	b.requireArray("Slice")
	if start < 0 {
		start = 0
	}
	if end > len(b.items) {
		end = len(b.items)
	}
	if start > end {
		start = end
	}
	out := make([]any, 0, end-start)
	for _, c := range b.items[start:end] {
		out = append(out, c.Get())
	}
	return NewBundle(out)
}

// Join renders the array's elements as strings separated by sep.
func (b *Bundle) Join(sep string) string {
	b.requireArray("Join")
	parts := make([]string, len(b.items))
	for i, c := range b.items {
		parts[i] = toString(c.Get())
	}
	return strings.Join(parts, sep)
}

// ToReversed returns a new bundle with the elements in reverse order,
// leaving this bundle untouched.
func (b *Bundle) ToReversed() *Bundle {
	b.requireArray("ToReversed")
	out := make([]any, len(b.items))
	for i, c := range b.items {
		out[len(b.items)-1-i] = c.Get()
	}
	return NewBundle(out)
}

// ToSorted returns a new sorted bundle, leaving this bundle untouched.
func (b *Bundle) ToSorted(less func(a, b any) bool) *Bundle {
	b.requireArray("ToSorted")
	out := make([]any, len(b.items))
	for i, c := range b.items {
		out[i] = c.Get()
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return NewBundle(out)
}

// ToSpliced returns a new bundle with the splice applied, leaving this
// bundle untouched.
func (b *Bundle) ToSpliced(start, deleteCount int, items ...any) *Bundle {
	b.requireArray("ToSpliced")
	current := make([]any, len(b.items))
	for i, c := range b.items {
		current[i] = c.Get()
	}

	if start < 0 {
		start = 0
	}
	if start > len(current) {
		start = len(current)
	}
	end := start + deleteCount
	if end > len(current) {
		end = len(current)
	}

	out := make([]any, 0, len(current)-(end-start)+len(items))
	out = append(out, current[:start]...)
	out = append(out, items...)
	out = append(out, current[end:]...)
	return NewBundle(out)
}
