package asparith

import "testing"

func TestAddOverflow(t *testing.T) {
	if _, s := Add(maxInt32, 1); s != Overflow {
		t.Fatalf("Add(MAX,1) status = %v, want Overflow", s)
	}
	if v, s := Add(1, 2); s != OK || v != 3 {
		t.Fatalf("Add(1,2) = (%d,%v), want (3,OK)", v, s)
	}
}

func TestNegateOverflow(t *testing.T) {
	if _, s := Negate(minInt32); s != Overflow {
		t.Fatalf("Negate(MIN) status = %v, want Overflow", s)
	}
	if v, s := Negate(5); s != OK || v != -5 {
		t.Fatalf("Negate(5) = (%d,%v), want (-5,OK)", v, s)
	}
}

func TestSubtractOverflow(t *testing.T) {
	if _, s := Subtract(minInt32, 1); s != Overflow {
		t.Fatalf("Subtract(MIN,1) status = %v, want Overflow", s)
	}
	if _, s := Subtract(maxInt32, -1); s != Overflow {
		t.Fatalf("Subtract(MAX,-1) status = %v, want Overflow", s)
	}
}

func TestMultiplyOverflow(t *testing.T) {
	if _, s := Multiply(minInt32, -1); s != Overflow {
		t.Fatalf("Multiply(MIN,-1) status = %v, want Overflow", s)
	}
	if v, s := Multiply(6, 7); s != OK || v != 42 {
		t.Fatalf("Multiply(6,7) = (%d,%v), want (42,OK)", v, s)
	}
}

func TestDivideFloorSemantics(t *testing.T) {
	if v, s := Divide(-7, 2); s != OK || v != -4 {
		t.Fatalf("Divide(-7,2) = (%d,%v), want (-4,OK)", v, s)
	}
	if v, s := Divide(7, -2); s != OK || v != -4 {
		t.Fatalf("Divide(7,-2) = (%d,%v), want (-4,OK)", v, s)
	}
	if v, s := Divide(7, 2); s != OK || v != 3 {
		t.Fatalf("Divide(7,2) = (%d,%v), want (3,OK)", v, s)
	}
}

func TestDivideByZero(t *testing.T) {
	if _, s := Divide(1, 0); s != DivideByZero {
		t.Fatalf("Divide(1,0) status = %v, want DivideByZero", s)
	}
}

func TestDivideOverflow(t *testing.T) {
	if _, s := Divide(minInt32, -1); s != Overflow {
		t.Fatalf("Divide(MIN,-1) status = %v, want Overflow", s)
	}
}

func TestModuloMatchesPython(t *testing.T) {
	if v, s := Modulo(-7, 2); s != OK || v != 1 {
		t.Fatalf("Modulo(-7,2) = (%d,%v), want (1,OK)", v, s)
	}
	if v, s := Modulo(7, -2); s != OK || v != -1 {
		t.Fatalf("Modulo(7,-2) = (%d,%v), want (-1,OK)", v, s)
	}
	if v, s := Modulo(7, 2); s != OK || v != 1 {
		t.Fatalf("Modulo(7,2) = (%d,%v), want (1,OK)", v, s)
	}
}

func TestModuloByZero(t *testing.T) {
	if _, s := Modulo(1, 0); s != DivideByZero {
		t.Fatalf("Modulo(1,0) status = %v, want DivideByZero", s)
	}
}

func TestBitwiseOps(t *testing.T) {
	if v, _ := Or(0x0F, 0xF0); v != 0xFF {
		t.Fatalf("Or = %x, want 0xFF", v)
	}
	if v, _ := Xor(0xFF, 0x0F); v != 0xF0 {
		t.Fatalf("Xor = %x, want 0xF0", v)
	}
	if v, _ := And(0xFF, 0x0F); v != 0x0F {
		t.Fatalf("And = %x, want 0x0F", v)
	}
}

func TestShr(t *testing.T) {
	if v, s := Shr(-1, 1); s != OK || v != -1 {
		t.Fatalf("Shr(-1,1) = (%d,%v), want (-1,OK)", v, s)
	}
	if v, s := Shr(-1, 40); s != OK || v != -1 {
		t.Fatalf("Shr(-1,40) = (%d,%v), want (-1,OK)", v, s)
	}
	if v, s := Shr(8, 40); s != OK || v != 0 {
		t.Fatalf("Shr(8,40) = (%d,%v), want (0,OK)", v, s)
	}
	if _, s := Shr(1, -1); s != ValueOutOfRange {
		t.Fatalf("Shr(1,-1) status = %v, want ValueOutOfRange", s)
	}
}

func TestShl(t *testing.T) {
	if v, s := Shl(1, 31); s != OK || v != minInt32 {
		t.Fatalf("Shl(1,31) = (%d,%v), want (MIN,OK)", v, s)
	}
	if v, s := Shl(1, 32); s != OK || v != 0 {
		t.Fatalf("Shl(1,32) = (%d,%v), want (0,OK)", v, s)
	}
	if _, s := Shl(1, -1); s != ValueOutOfRange {
		t.Fatalf("Shl(1,-1) status = %v, want ValueOutOfRange", s)
	}
}
