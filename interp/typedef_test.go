package interp

import (
	"math/big"
	"testing"
)

func TestStdIntegerChecksNumber(t *testing.T) {
	number := NewBasePredicate("number", typeNumber)
	if !StdInteger().Check(number) {
		t.Fatal("std_integer should contain the number predicate (integer extends number)")
	}
}

func TestStdNumberDoesNotCheckInteger(t *testing.T) {
	integer := NewBasePredicate("integer", typeInteger)
	if StdNumber().Check(integer) {
		t.Fatal("std_number should not contain the integer predicate (number is the supertype)")
	}
}

func TestReadIntegerChecksNumber(t *testing.T) {
	number := NewBasePredicate("number", typeNumber)
	if !Read("integer").Check(number) {
		t.Fatal("read(\"integer\") should produce a type containing the number predicate")
	}
}

func TestReadUnknownFallsBackToAny(t *testing.T) {
	if !Read("nonsense").Equal(StdAny()) {
		t.Fatal("read() of an unrecognised descriptor should fall back to std_any")
	}
}

func TestInferDistinguishesIntegerFromNumber(t *testing.T) {
	whole := NewNumber(big.NewRat(3, 1))
	if !Infer(whole).Equal(StdInteger()) {
		t.Fatal("infer(3/1) should be std_integer")
	}
	fraction := NewNumber(big.NewRat(1, 2))
	if !Infer(fraction).Equal(StdNumber()) {
		t.Fatal("infer(1/2) should be std_number, not std_integer")
	}
	if Infer(fraction).Equal(StdInteger()) {
		t.Fatal("infer(1/2) should not equal std_integer")
	}
}

func TestFromSuperInheritsPrototypeWhenNoneGiven(t *testing.T) {
	derived := FromSuper(StdString(), []Predicate{NewBasePredicate("extra", typeString)}, nil)
	if derived.Prototype.Kind != KindString {
		t.Fatal("from_super without an explicit prototype should inherit the supertype's")
	}
}

func TestCriterionIsNonCommutative(t *testing.T) {
	a := StdInteger()
	b := StdNumber()
	critAB, okAB := a.Criterion(b)
	critBA, okBA := b.Criterion(a)
	if !okAB {
		t.Fatal("std_integer.criterion(std_number) should find a distinguishing predicate")
	}
	if okBA {
		t.Fatalf("std_number.criterion(std_integer) should find nothing, got %v", critBA)
	}
	if critAB.Name != "integer" {
		t.Fatalf("distinguishing predicate should be \"integer\", got %q", critAB.Name)
	}
}

func TestTypeDefEqualIgnoresPrototype(t *testing.T) {
	a := NewTypeDef([]Predicate{NewBasePredicate("x", typeAny)}, nil)
	proto := NewNumber(big.NewRat(1, 1))
	b := NewTypeDef([]Predicate{NewBasePredicate("x", typeAny)}, &proto)
	if !a.Equal(b) {
		t.Fatal("TypeDef.Equal should compare only predicate sequences, not prototypes")
	}
}
