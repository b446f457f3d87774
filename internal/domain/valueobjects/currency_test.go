package valueobjects_test

import (
	"testing"

	"github.com/finbridge/walletcore/internal/domain/valueobjects"
)

// TestNewCurrency_Supported tests that the supported code is accepted in any case.
func TestNewCurrency_Supported(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{name: "Uppercase", code: "KES"},
		{name: "Lowercase", code: "kes"},
		{name: "Mixed case with spaces", code: "  Kes  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			curr, err := valueobjects.NewCurrency(tt.code)
			if err != nil {
				t.Fatalf("NewCurrency(%q) error = %v", tt.code, err)
			}
			if curr.Code() != "KES" {
				t.Errorf("Code() = %v, want KES", curr.Code())
			}
		})
	}
}

// TestNewCurrency_Unsupported tests the whitelist rejection.
func TestNewCurrency_Unsupported(t *testing.T) {
	unsupported := []string{"USD", "EUR", "BTC", "XXX", ""}

	for _, code := range unsupported {
		t.Run(code, func(t *testing.T) {
			_, err := valueobjects.NewCurrency(code)
			if err == nil {
				t.Errorf("Expected error for unsupported code %q, got nil", code)
			}
		})
	}
}

// TestMustNewCurrency_Panics tests the panic on invalid input.
func TestMustNewCurrency_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustNewCurrency should panic on invalid code")
		}
	}()
	valueobjects.MustNewCurrency("USD")
}

// TestIsSupported tests the validator helper.
func TestIsSupported(t *testing.T) {
	if !valueobjects.IsSupported("kes") {
		t.Error("kes should be supported")
	}
	if valueobjects.IsSupported("USD") {
		t.Error("USD should not be supported")
	}
}

// TestCurrency_Equals tests value comparison.
func TestCurrency_Equals(t *testing.T) {
	c1, _ := valueobjects.NewCurrency("KES")
	c2 := valueobjects.KES

	if !c1.Equals(c2) {
		t.Error("Currencies with the same code should be equal")
	}

	if c1.Equals(valueobjects.Currency{}) {
		t.Error("KES should not equal the zero currency")
	}
}

// TestCurrency_IsZero tests the uninitialized check.
func TestCurrency_IsZero(t *testing.T) {
	var zero valueobjects.Currency
	if !zero.IsZero() {
		t.Error("Zero-value currency should report IsZero")
	}
	if valueobjects.KES.IsZero() {
		t.Error("KES should not report IsZero")
	}
}

// TestCurrency_String tests fmt.Stringer.
func TestCurrency_String(t *testing.T) {
	if valueobjects.KES.String() != "KES" {
		t.Errorf("String() = %v, want KES", valueobjects.KES.String())
	}
}
