package arch

import (
	"errors"
	"testing"
)

func TestReferenceMatrixAffinity(t *testing.T) {
	m := NewReferenceMatrix()

	cases := []struct {
		unit  Unit
		class Class
		want  bool
	}{
		{IntU0, ClassU0, true},
		{IntU0, ClassU0U1, true},
		{IntU0, ClassAnyALU, true},
		{IntU0, ClassU1, false},
		{IntU0, ClassL0L1, false},
		{IntU1, ClassU0U1, true},
		{IntL0, ClassL0, true},
		{IntL1, ClassAnyALU, true},
		{IntL1, ClassA0A1, false},
		{IntA0, ClassA0, true},
		{IntA0, ClassA0A1, true},
		{IntA0, ClassAnyALU, false},
		{IntA1, ClassA1, true},
		{FpMul, ClassFpMul, true},
		{FpMul, ClassFpOther, false},
		{FpOther, ClassFpOther, true},
		{FpOther, ClassAnyALU, false},
	}
	for _, tc := range cases {
		if got := m.Accepts(tc.unit, tc.class); got != tc.want {
			t.Errorf("Accepts(%s, %s) = %v, want %v", tc.unit, tc.class, got, tc.want)
		}
	}
}

func TestSentinelClassNeverMatches(t *testing.T) {
	m := NewReferenceMatrix()
	for _, unit := range Units() {
		if m.Accepts(unit, ClassNone) {
			t.Errorf("unit %s accepts the sentinel class", unit)
		}
	}
}

func TestNewAffinityMatrixRejectsMalformedRows(t *testing.T) {
	cases := []struct {
		name string
		rows map[Unit][]Class
		want error
	}{
		{
			"invalid unit",
			map[Unit][]Class{Unit(42): {ClassU0}},
			ErrInvalidUnit,
		},
		{
			"too many classes",
			map[Unit][]Class{IntU0: {ClassU0, ClassU0U1, ClassAnyALU, ClassL0}},
			ErrRowTooWide,
		},
		{
			"invalid class",
			map[Unit][]Class{IntU0: {Class(99)}},
			ErrInvalidClass,
		},
		{
			"empty row",
			map[Unit][]Class{IntU0: {ClassNone}},
			ErrEmptyRow,
		},
		{
			"kind mismatch",
			map[Unit][]Class{FpMul: {ClassU0}},
			ErrKindClassCrossed,
		},
	}
	for _, tc := range cases {
		if _, err := NewAffinityMatrix(tc.rows); !errors.Is(err, tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestUnitKinds(t *testing.T) {
	for _, unit := range Units() {
		want := KindInteger
		if unit == FpMul || unit == FpOther {
			want = KindFloating
		}
		if got := unit.Kind(); got != want {
			t.Errorf("%s kind = %s, want %s", unit, got, want)
		}
	}
	if len(Units()) != UnitCount {
		t.Fatalf("Units() returned %d identities, want %d", len(Units()), UnitCount)
	}
}

func TestStateAndClassStrings(t *testing.T) {
	if StateWaitingRetirement.String() != "waiting_retirement" {
		t.Fatalf("unexpected state name %q", StateWaitingRetirement.String())
	}
	if InstState(99).String() != "state.invalid" {
		t.Fatalf("out-of-range state should render invalid")
	}
	if ClassAnyALU.String() != "anyalu" {
		t.Fatalf("unexpected class name %q", ClassAnyALU.String())
	}
	if Unit(99).String() != "unit.invalid" {
		t.Fatalf("out-of-range unit should render invalid")
	}
}
