package values_test

import (
	"testing"

	"github.com/lsysgo/lsys/internal/values"
)

func TestKindAndAccessors(t *testing.T) {
	if !values.Undef.IsUndefined() {
		t.Fatal("Undef.IsUndefined() = false")
	}
	if _, ok := values.Undef.Int(); ok {
		t.Fatal("Undef.Int() ok = true")
	}

	i := values.NewInt(7)
	if got, ok := i.Int(); !ok || got != 7 {
		t.Fatalf("Int() = %d, %v; want 7, true", got, ok)
	}
	if got, ok := i.Float(); !ok || got != 7.0 {
		t.Fatalf("Float() = %v, %v; want 7.0, true", got, ok)
	}

	f := values.NewFloat(2.5)
	if _, ok := f.Int(); ok {
		t.Fatal("Float-kinded Int() ok = true")
	}
	if got, ok := f.Float(); !ok || got != 2.5 {
		t.Fatalf("Float() = %v, %v; want 2.5, true", got, ok)
	}
}

func TestNewBool(t *testing.T) {
	if got, _ := values.NewBool(true).Int(); got != 1 {
		t.Fatalf("NewBool(true) = %d; want 1", got)
	}
	if got, _ := values.NewBool(false).Int(); got != 0 {
		t.Fatalf("NewBool(false) = %d; want 0", got)
	}
}

func TestIsTruthy(t *testing.T) {
	cases := []struct {
		v    values.Value
		want bool
	}{
		{values.NewInt(0), false},
		{values.NewInt(1), true},
		{values.NewInt(-1), true},
		{values.NewFloat(1.0), false}, // IsTruthy requires int kind
		{values.Undef, false},
	}
	for _, c := range cases {
		if got := c.v.IsTruthy(); got != c.want {
			t.Errorf("IsTruthy(%v) = %v; want %v", c.v, got, c.want)
		}
	}
}

func TestArithmeticPromotion(t *testing.T) {
	i2, i3 := values.NewInt(2), values.NewInt(3)
	f2, f3 := values.NewFloat(2.0), values.NewFloat(3.0)

	if got, ok := i2.Add(i3).Int(); !ok || got != 5 {
		t.Fatalf("int+int = %d,%v; want 5,true", got, ok)
	}
	if sum := i2.Add(f3); sum.Kind() != values.Float {
		t.Fatalf("int+float kind = %v; want Float", sum.Kind())
	}
	if sum := f2.Add(i3); sum.Kind() != values.Float {
		t.Fatalf("float+int kind = %v; want Float", sum.Kind())
	}
	if sum := f2.Add(f3); sum.Kind() != values.Float {
		t.Fatalf("float+float kind = %v; want Float", sum.Kind())
	}
}

func TestDivAlwaysFloat(t *testing.T) {
	got := values.NewInt(6).Div(values.NewInt(3))
	if got.Kind() != values.Float {
		t.Fatalf("int/int kind = %v; want Float", got.Kind())
	}
	f, _ := got.Float()
	if f != 2.0 {
		t.Fatalf("6/3 = %v; want 2.0", f)
	}
}

func TestDivByZeroIsUndefined(t *testing.T) {
	if got := values.NewInt(1).Div(values.NewInt(0)); !got.IsUndefined() {
		t.Fatalf("1/0 = %v; want undefined", got)
	}
	if got := values.NewFloat(1).Div(values.NewFloat(0)); !got.IsUndefined() {
		t.Fatalf("1.0/0.0 = %v; want undefined", got)
	}
}

func TestModRequiresInts(t *testing.T) {
	if got, _ := values.NewInt(7).Mod(values.NewInt(3)).Int(); got != 1 {
		t.Fatalf("7%%3 = %d; want 1", got)
	}
	if got := values.NewFloat(7).Mod(values.NewInt(3)); !got.IsUndefined() {
		t.Fatalf("float %% int = %v; want undefined", got)
	}
	if got := values.NewInt(7).Mod(values.NewInt(0)); !got.IsUndefined() {
		t.Fatalf("7%%0 = %v; want undefined", got)
	}
}

func TestPow(t *testing.T) {
	got := values.NewInt(2).Pow(values.NewInt(10))
	f, _ := got.Float()
	if f != 1024.0 {
		t.Fatalf("2^10 = %v; want 1024", f)
	}
}

func TestComparisons(t *testing.T) {
	lt := values.NewInt(1).Lt(values.NewInt(2))
	if !lt.IsTruthy() {
		t.Fatal("1 < 2 should be truthy")
	}
	eq := values.NewFloat(1.5).Eq(values.NewFloat(1.5))
	if !eq.IsTruthy() {
		t.Fatal("1.5 == 1.5 should be truthy")
	}
	ne := values.NewInt(1).Ne(values.NewInt(2))
	if !ne.IsTruthy() {
		t.Fatal("1 != 2 should be truthy")
	}
}

func TestUnaryOps(t *testing.T) {
	if got, _ := values.NewInt(5).Neg().Int(); got != -5 {
		t.Fatalf("Neg(5) = %d; want -5", got)
	}
	if got, _ := values.NewInt(0).Not().Int(); got != -1 {
		t.Fatalf("Not(0) = %d; want -1", got)
	}
	if got, _ := values.NewInt(0).LogicalNot().Int(); got != 1 {
		t.Fatalf("LogicalNot(0) = %d; want 1", got)
	}
	if got, _ := values.NewInt(-5).Abs().Int(); got != 5 {
		t.Fatalf("Abs(-5) = %d; want 5", got)
	}
}

func TestUndefinedPropagates(t *testing.T) {
	u := values.Undef
	ops := []values.Value{
		u.Add(values.NewInt(1)),
		values.NewInt(1).Add(u),
		u.And(values.NewInt(1)),
		u.Lt(values.NewInt(1)),
	}
	for i, got := range ops {
		if !got.IsUndefined() {
			t.Errorf("op %d = %v; want undefined", i, got)
		}
	}
}

func TestString(t *testing.T) {
	if got := values.NewInt(42).String(); got != "42" {
		t.Fatalf("String() = %q; want 42", got)
	}
	if got := values.Undef.String(); got != "(undefined value)" {
		t.Fatalf("String() = %q", got)
	}
}
