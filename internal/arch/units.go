package arch

// UnitKind separates the integer-style and floating-style halves of the core.
// Floating-style units are gated by the control-register enable bit; integer
// units execute unconditionally.
type UnitKind int

const (
	KindInteger UnitKind = iota
	KindFloating
)

func (k UnitKind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindFloating:
		return "floating"
	default:
		return "unknown"
	}
}

// Unit identifies one concrete execution unit. The reference core has six
// integer-style units (two upper ALUs, two lower ALUs, two address units) and
// two floating-style units (multiply and other).
type Unit int

const (
	IntU0 Unit = iota
	IntU1
	IntL0
	IntL1
	IntA0
	IntA1
	FpMul
	FpOther

	UnitCount = int(FpOther) + 1
)

var unitNames = [UnitCount]string{
	"int.u0",
	"int.u1",
	"int.l0",
	"int.l1",
	"int.a0",
	"int.a1",
	"fp.mul",
	"fp.other",
}

func (u Unit) String() string {
	if !u.Valid() {
		return "unit.invalid"
	}
	return unitNames[u]
}

func (u Unit) Valid() bool {
	return u >= IntU0 && u <= FpOther
}

// Unit kind lookup; floating-style units read the enable bit before dispatch.
func (u Unit) Kind() UnitKind {
	if u == FpMul || u == FpOther {
		return KindFloating
	}
	return KindInteger
}

// Units enumerates every concrete unit in identity order.
func Units() []Unit {
	out := make([]Unit, 0, UnitCount)
	for u := IntU0; u <= FpOther; u++ {
		out = append(out, u)
	}
	return out
}
