package arch

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidUnit      = errors.New("arch: invalid unit in affinity row")
	ErrInvalidClass     = errors.New("arch: invalid class in affinity row")
	ErrRowTooWide       = errors.New("arch: affinity row exceeds slot limit")
	ErrEmptyRow         = errors.New("arch: affinity row accepts nothing")
	ErrKindClassCrossed = errors.New("arch: class kind does not match unit kind")
)

// Class tags an instruction with the execution unit(s) it is restricted to.
// A class may name one concrete unit, a pair cluster, or the cluster of all
// integer ALUs. ClassNone is the sentinel for unused affinity slots and never
// matches anything.
type Class int

const (
	ClassNone Class = iota
	ClassU0
	ClassU1
	ClassU0U1
	ClassL0
	ClassL1
	ClassL0L1
	ClassAnyALU
	ClassA0
	ClassA1
	ClassA0A1
	ClassFpMul
	ClassFpOther

	classCount = int(ClassFpOther) + 1
)

var classNames = [classCount]string{
	"none",
	"u0",
	"u1",
	"u0u1",
	"l0",
	"l1",
	"l0l1",
	"anyalu",
	"a0",
	"a1",
	"a0a1",
	"fpmul",
	"fpother",
}

func (c Class) String() string {
	if !c.Valid() {
		return "class.invalid"
	}
	return classNames[c]
}

func (c Class) Valid() bool {
	return c >= ClassNone && c <= ClassFpOther
}

// Class kind: which half of the core a request class belongs to.
func (c Class) Kind() UnitKind {
	if c == ClassFpMul || c == ClassFpOther {
		return KindFloating
	}
	return KindInteger
}

// MaxAffinitySlots bounds how many request classes one unit may service.
const MaxAffinitySlots = 3

// AffinityMatrix answers, in O(1), whether a concrete unit may service a
// request class. Rows are fixed at construction; the matrix is read-only
// afterward and safe for concurrent use without locking.
type AffinityMatrix struct {
	rows [UnitCount][MaxAffinitySlots]Class
}

// NewAffinityMatrix builds a matrix from explicit rows. Malformed rows are a
// configuration fault and fail construction; the dispatch loop never
// re-validates.
func NewAffinityMatrix(rows map[Unit][]Class) (*AffinityMatrix, error) {
	m := &AffinityMatrix{}
	for unit, classes := range rows {
		if !unit.Valid() {
			return nil, fmt.Errorf("%w: %d", ErrInvalidUnit, int(unit))
		}
		if len(classes) > MaxAffinitySlots {
			return nil, fmt.Errorf("%w: unit %s has %d classes", ErrRowTooWide, unit, len(classes))
		}
		accepts := 0
		for i, class := range classes {
			if !class.Valid() {
				return nil, fmt.Errorf("%w: unit %s slot %d", ErrInvalidClass, unit, i)
			}
			if class == ClassNone {
				continue
			}
			if class.Kind() != unit.Kind() {
				return nil, fmt.Errorf("%w: unit %s class %s", ErrKindClassCrossed, unit, class)
			}
			m.rows[unit][i] = class
			accepts++
		}
		if accepts == 0 {
			return nil, fmt.Errorf("%w: unit %s", ErrEmptyRow, unit)
		}
	}
	return m, nil
}

// NewReferenceMatrix wires the reference core: each ALU services its own
// class, its pair cluster, and the any-ALU cluster; address units service
// their own class and pair; floating units service only their own class.
func NewReferenceMatrix() *AffinityMatrix {
	m, err := NewAffinityMatrix(map[Unit][]Class{
		IntU0:   {ClassU0, ClassU0U1, ClassAnyALU},
		IntU1:   {ClassU1, ClassU0U1, ClassAnyALU},
		IntL0:   {ClassL0, ClassL0L1, ClassAnyALU},
		IntL1:   {ClassL1, ClassL0L1, ClassAnyALU},
		IntA0:   {ClassA0, ClassA0A1},
		IntA1:   {ClassA1, ClassA0A1},
		FpMul:   {ClassFpMul},
		FpOther: {ClassFpOther},
	})
	if err != nil {
		panic(err)
	}
	return m
}

// Accepts reports whether unit may service class. The sentinel ClassNone
// matches nothing, so unused row slots never accept.
func (m *AffinityMatrix) Accepts(unit Unit, class Class) bool {
	if !unit.Valid() || class == ClassNone {
		return false
	}
	row := &m.rows[unit]
	return row[0] == class || row[1] == class || row[2] == class
}
