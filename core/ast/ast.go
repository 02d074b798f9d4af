// Package ast defines the KEVS value tree: the tagged sum of String,
// Integer, Boolean, List, and Table values materialized by the tree
// builder, plus the typed accessors used to read it back.
//
// A Value is a struct, not an interface, so only one payload field is ever
// populated for a given Kind — invariant 3 in spec §3 ("exactly one active
// variant") holds by construction rather than by discipline.
package ast

import (
	"fmt"

	"github.com/kevs-lang/kevs/core/kerrors"
)

// Kind tags the active variant of a Value.
type Kind int

const (
	String Kind = iota
	Integer
	Boolean
	List
	Table
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Integer:
		return "integer"
	case Boolean:
		return "boolean"
	case List:
		return "list"
	case Table:
		return "table"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is one node of the tree: a string, an integer, a boolean, an
// ordered list of heterogeneous values, or a table.
type Value struct {
	kind    Kind
	str     string
	integer int64
	boolean bool
	list    []Value
	table   *TableValue
}

// NewString builds a String value. The decoder (escape or raw-copy) has
// already produced an owned string by this point.
func NewString(s string) Value { return Value{kind: String, str: s} }

// NewInteger builds an Integer value.
func NewInteger(n int64) Value { return Value{kind: Integer, integer: n} }

// NewBoolean builds a Boolean value.
func NewBoolean(b bool) Value { return Value{kind: Boolean, boolean: b} }

// NewList builds a List value from already-constructed elements.
func NewList(elems []Value) Value { return Value{kind: List, list: elems} }

// NewTable builds a Table value wrapping an already-constructed table.
func NewTable(t *TableValue) Value { return Value{kind: Table, table: t} }

// Kind returns the active variant tag.
func (v Value) Kind() Kind { return v.kind }

// AsString returns the payload if Kind() == String, else an error.
func (v Value) AsString() (string, error) {
	if v.kind != String {
		return "", kerrors.NewLookup("value is not %s", String)
	}
	return v.str, nil
}

// AsInteger returns the payload if Kind() == Integer, else an error.
func (v Value) AsInteger() (int64, error) {
	if v.kind != Integer {
		return 0, kerrors.NewLookup("value is not %s", Integer)
	}
	return v.integer, nil
}

// AsBoolean returns the payload if Kind() == Boolean, else an error.
func (v Value) AsBoolean() (bool, error) {
	if v.kind != Boolean {
		return false, kerrors.NewLookup("value is not %s", Boolean)
	}
	return v.boolean, nil
}

// AsList returns the payload if Kind() == List, else an error.
func (v Value) AsList() (*ListValue, error) {
	if v.kind != List {
		return nil, kerrors.NewLookup("value is not %s", List)
	}
	return &ListValue{elems: v.list}, nil
}

// AsTable returns the payload if Kind() == Table, else an error.
func (v Value) AsTable() (*TableValue, error) {
	if v.kind != Table {
		return nil, kerrors.NewLookup("value is not %s", Table)
	}
	return v.table, nil
}

// ListValue is the typed-accessor view over a List value's elements.
type ListValue struct {
	elems []Value
}

// Len returns the number of elements.
func (l *ListValue) Len() int { return len(l.elems) }

// At returns the element at index i, or an error if out of bounds.
func (l *ListValue) At(i int) (Value, error) {
	if i < 0 || i >= len(l.elems) {
		return Value{}, kerrors.NewLookup("index out of bounds")
	}
	return l.elems[i], nil
}

// GetString returns the string at index i, failing if out of bounds or
// not a string.
func (l *ListValue) GetString(i int) (string, error) {
	v, err := l.At(i)
	if err != nil {
		return "", err
	}
	return v.AsString()
}

// GetInt returns the integer at index i, failing if out of bounds or not
// an integer.
func (l *ListValue) GetInt(i int) (int64, error) {
	v, err := l.At(i)
	if err != nil {
		return 0, err
	}
	return v.AsInteger()
}

// GetBool returns the boolean at index i, failing if out of bounds or not
// a boolean.
func (l *ListValue) GetBool(i int) (bool, error) {
	v, err := l.At(i)
	if err != nil {
		return false, err
	}
	return v.AsBoolean()
}

// GetList returns the list at index i, failing if out of bounds or not a
// list.
func (l *ListValue) GetList(i int) (*ListValue, error) {
	v, err := l.At(i)
	if err != nil {
		return nil, err
	}
	return v.AsList()
}

// GetTable returns the table at index i, failing if out of bounds or not
// a table.
func (l *ListValue) GetTable(i int) (*TableValue, error) {
	v, err := l.At(i)
	if err != nil {
		return nil, err
	}
	return v.AsTable()
}

// entry is one key/value pair of a table, kept in insertion order.
type entry struct {
	key string
	val Value
}

// TableValue is an ordered set of unique-keyed entries (invariant 1 in
// spec §3). Lookup is linear over insertion order, matching spec §4.5.
type TableValue struct {
	entries []entry
}

// NewTableValue returns an empty table, ready for Append.
func NewTableValue() *TableValue {
	return &TableValue{}
}

// Has reports whether key is already present.
func (t *TableValue) Has(key string) bool {
	_, ok := t.find(key)
	return ok
}

// Append adds a key/value pair. The caller (the tree builder) is
// responsible for the duplicate-key check; Append itself does not
// enforce uniqueness so that it stays a pure data-structure operation.
func (t *TableValue) Append(key string, val Value) {
	t.entries = append(t.entries, entry{key: key, val: val})
}

// Len returns the number of entries.
func (t *TableValue) Len() int { return len(t.entries) }

// Keys returns the entry keys in source order.
func (t *TableValue) Keys() []string {
	keys := make([]string, len(t.entries))
	for i, e := range t.entries {
		keys[i] = e.key
	}
	return keys
}

func (t *TableValue) find(key string) (Value, bool) {
	for _, e := range t.entries {
		if e.key == key {
			return e.val, true
		}
	}
	return Value{}, false
}

// Get returns the raw Value for key, or an error if not found.
func (t *TableValue) Get(key string) (Value, error) {
	v, ok := t.find(key)
	if !ok {
		return Value{}, kerrors.NewLookup("key not found")
	}
	return v, nil
}

// GetString returns the string entry for key.
func (t *TableValue) GetString(key string) (string, error) {
	v, err := t.Get(key)
	if err != nil {
		return "", err
	}
	return v.AsString()
}

// GetInt returns the integer entry for key.
func (t *TableValue) GetInt(key string) (int64, error) {
	v, err := t.Get(key)
	if err != nil {
		return 0, err
	}
	return v.AsInteger()
}

// GetBool returns the boolean entry for key.
func (t *TableValue) GetBool(key string) (bool, error) {
	v, err := t.Get(key)
	if err != nil {
		return false, err
	}
	return v.AsBoolean()
}

// GetList returns the list entry for key.
func (t *TableValue) GetList(key string) (*ListValue, error) {
	v, err := t.Get(key)
	if err != nil {
		return nil, err
	}
	return v.AsList()
}

// GetTable returns the table entry for key.
func (t *TableValue) GetTable(key string) (*TableValue, error) {
	v, err := t.Get(key)
	if err != nil {
		return nil, err
	}
	return v.AsTable()
}
