package tender

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		set      Set
		expected float64
		wantErr  error
	}{
		{
			name:     "single cash covers total",
			set:      Set{{Method: Cash, Amount: 500}},
			expected: 500,
		},
		{
			name:     "cash plus visa covers total",
			set:      Set{{Method: Cash, Amount: 300}, {Method: Visa, Amount: 200}},
			expected: 500,
		},
		{
			name:     "within epsilon",
			set:      Set{{Method: Cash, Amount: 499.995}},
			expected: 500,
		},
		{
			name:     "zero amount rejected",
			set:      Set{{Method: Cash, Amount: 0}, {Method: Visa, Amount: 500}},
			expected: 500,
			wantErr:  ErrInvalidAmount,
		},
		{
			name:     "negative amount rejected",
			set:      Set{{Method: Cash, Amount: -10}, {Method: Visa, Amount: 510}},
			expected: 500,
			wantErr:  ErrInvalidAmount,
		},
		{
			name:     "duplicate method rejected",
			set:      Set{{Method: Cash, Amount: 250}, {Method: Cash, Amount: 250}},
			expected: 500,
			wantErr:  ErrDuplicateMethod,
		},
		{
			name:     "sum below total rejected",
			set:      Set{{Method: Cash, Amount: 300}},
			expected: 500,
			wantErr:  &AmountMismatchError{},
		},
		{
			name:     "sum above total rejected",
			set:      Set{{Method: Cash, Amount: 300}, {Method: Wallet, Amount: 300}},
			expected: 500,
			wantErr:  &AmountMismatchError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.set, tt.expected)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate returned %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate returned nil, want error")
			}
			var mismatch *AmountMismatchError
			if errors.As(tt.wantErr, &mismatch) {
				if !errors.As(err, &mismatch) {
					t.Fatalf("Validate returned %v, want AmountMismatchError", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate returned %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateMismatchCarriesBothSums(t *testing.T) {
	err := Validate(Set{{Method: Cash, Amount: 300}}, 500)
	var mismatch *AmountMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected AmountMismatchError, got %v", err)
	}
	if mismatch.Tendered != 300 || mismatch.Expected != 500 {
		t.Fatalf("mismatch carries %v/%v, want 300/500", mismatch.Tendered, mismatch.Expected)
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	set := Set{
		{Method: Cash, Amount: 300},
		{Method: Points, Amount: 200, PointsUsed: 2000},
	}
	raw := Serialize(set)
	if !IsMulti(raw) {
		t.Fatalf("multi-tender set serialized to %q, want structured form", raw)
	}
	got := Deserialize(raw, 500)
	if !reflect.DeepEqual(got, set) {
		t.Fatalf("round-trip mismatch: got %+v, want %+v", got, set)
	}
}

func TestSerializeSingleCollapsesToLabel(t *testing.T) {
	raw := Serialize(Set{{Method: Visa, Amount: 750}})
	if raw != "visa" {
		t.Fatalf("single-tender set serialized to %q, want bare label", raw)
	}
}

func TestDeserializeLegacyLabel(t *testing.T) {
	got := Deserialize("cash", 1000)
	want := Set{{Method: Cash, Amount: 1000}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("legacy label deserialized to %+v, want %+v", got, want)
	}
}

func TestDeserializePermissiveFallback(t *testing.T) {
	for _, raw := range []string{"", "{not json", `{"foo":1}`} {
		got := Deserialize(raw, 250)
		if len(got) != 1 || got[0].Method != Cash || got[0].Amount != 250 {
			t.Fatalf("Deserialize(%q) = %+v, want single full-amount cash tender", raw, got)
		}
	}
}

func TestCashEquivalent(t *testing.T) {
	set := Set{{Method: Cash, Amount: 300}, {Method: Visa, Amount: 200}}
	if got := CashEquivalent(set, 500); got != 500 {
		t.Fatalf("CashEquivalent = %v, want 500", got)
	}

	withPoints := Set{
		{Method: Cash, Amount: 300},
		{Method: Points, Amount: 200, PointsUsed: 200},
	}
	if got := CashEquivalent(withPoints, 500); got != 300 {
		t.Fatalf("CashEquivalent with points = %v, want 300", got)
	}
}

func TestPointsUsed(t *testing.T) {
	set := Set{
		{Method: Cash, Amount: 300},
		{Method: Points, Amount: 200, PointsUsed: 200},
	}
	if got := PointsUsed(set); got != 200 {
		t.Fatalf("PointsUsed = %d, want 200", got)
	}
	if got := PointsUsed(Set{{Method: Cash, Amount: 500}}); got != 0 {
		t.Fatalf("PointsUsed without points tender = %d, want 0", got)
	}
}

func TestPointsRequired(t *testing.T) {
	if got := PointsRequired(100, 0.1); got != 1000 {
		t.Fatalf("PointsRequired(100, 0.1) = %d, want 1000", got)
	}
	// Rounds up so the member never underpays.
	if got := PointsRequired(100, 0.3); got != 334 {
		t.Fatalf("PointsRequired(100, 0.3) = %d, want 334", got)
	}
	if got := PointsRequired(100, 0); got != 0 {
		t.Fatalf("PointsRequired with zero point value = %d, want 0", got)
	}
}

func TestPointsValue(t *testing.T) {
	if got := PointsValue(200, 0.1); math.Abs(got-20) > 1e-9 {
		t.Fatalf("PointsValue(200, 0.1) = %v, want 20", got)
	}
}
