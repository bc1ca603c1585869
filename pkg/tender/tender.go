// Package tender models a payment split across multiple tender types and the
// serialized column format receipts store it in. Legacy rows store a bare
// method label ("cash"); multi-tender rows store {"methods":[...]} JSON. Both
// forms must stay readable forever.
package tender

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

// Method is a payment tender type.
type Method string

const (
	Cash     Method = "cash"
	Visa     Method = "visa"
	Instapay Method = "instapay"
	Wallet   Method = "wallet"
	Points   Method = "points"
)

// Epsilon is the tolerance used when comparing tendered sums to the expected
// total. Stored amounts are currency floats, so exact equality is meaningless.
const Epsilon = 0.01

// Tender is one (method, amount) pair of a payment.
type Tender struct {
	Method Method  `json:"method"`
	Amount float64 `json:"amount"`
	// PointsUsed is set only when Method == Points and carries the number of
	// loyalty points redeemed to cover Amount.
	PointsUsed int `json:"pointsUsed,omitempty"`
}

// Set is the full collection of tenders covering one payment.
type Set []Tender

// Validation errors.
var (
	ErrInvalidAmount   = errors.New("all tender amounts must be greater than zero")
	ErrDuplicateMethod = errors.New("a tender method may appear at most once")
)

// AmountMismatchError reports a tendered sum that does not cover the expected
// total. Both sums are carried for diagnostics.
type AmountMismatchError struct {
	Tendered float64
	Expected float64
}

func (e *AmountMismatchError) Error() string {
	return fmt.Sprintf("tendered total %.2f does not match expected total %.2f", e.Tendered, e.Expected)
}

// Validate checks a tender set against the amount actually due. Checks run in
// order: positive amounts, distinct methods, sum within Epsilon of the total.
func Validate(set Set, expectedTotal float64) error {
	for _, t := range set {
		if t.Amount <= 0 {
			return ErrInvalidAmount
		}
	}

	seen := make(map[Method]bool, len(set))
	for _, t := range set {
		if seen[t.Method] {
			return ErrDuplicateMethod
		}
		seen[t.Method] = true
	}

	sum := Total(set)
	if math.Abs(sum-expectedTotal) > Epsilon {
		return &AmountMismatchError{Tendered: sum, Expected: expectedTotal}
	}
	return nil
}

// Total returns the sum of all tender amounts.
func Total(set Set) float64 {
	var sum float64
	for _, t := range set {
		sum += t.Amount
	}
	return sum
}

// Has reports whether the set contains the given method.
func Has(set Set, m Method) bool {
	for _, t := range set {
		if t.Method == m {
			return true
		}
	}
	return false
}

// AmountFor returns the amount tendered via the given method, 0 if absent.
func AmountFor(set Set, m Method) float64 {
	for _, t := range set {
		if t.Method == m {
			return t.Amount
		}
	}
	return 0
}

// PointsUsed returns the number of loyalty points redeemed in the set,
// 0 when no points tender is present.
func PointsUsed(set Set) int {
	for _, t := range set {
		if t.Method == Points {
			return t.PointsUsed
		}
	}
	return 0
}

// CashEquivalent returns the portion of the total not covered by redeemed
// points. Loyalty rewards are computed on this value only, so points can never
// be laundered into more points.
func CashEquivalent(set Set, total float64) float64 {
	return total - AmountFor(set, Points)
}

// envelope is the serialized multi-tender shape.
type envelope struct {
	Methods Set `json:"methods"`
}

// Serialize encodes a set for storage. A single-entry set collapses to the
// bare method label for compatibility with legacy single-tender rows; larger
// sets encode as {"methods":[...]}.
func Serialize(set Set) string {
	if len(set) == 1 && set[0].PointsUsed == 0 {
		return string(set[0].Method)
	}
	raw, err := json.Marshal(envelope{Methods: set})
	if err != nil {
		// Set contains only plain values; Marshal cannot fail on it.
		return string(Cash)
	}
	return string(raw)
}

// Deserialize decodes a stored tender column. A {"methods":[...]} document
// round-trips; anything else (a bare label, an empty string, unparseable junk)
// is treated permissively as a single full-amount tender of that label.
func Deserialize(raw string, total float64) Set {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "{") {
		var env envelope
		if err := json.Unmarshal([]byte(trimmed), &env); err == nil && env.Methods != nil {
			return env.Methods
		}
	}
	method := Method(trimmed)
	if trimmed == "" || strings.HasPrefix(trimmed, "{") {
		method = Cash
	}
	return Set{{Method: method, Amount: total}}
}

// IsMulti reports whether a stored column holds the structured multi-tender
// form rather than a legacy bare label.
func IsMulti(raw string) bool {
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return false
	}
	return env.Methods != nil
}

// PointsRequired returns the number of points needed to cover amount at the
// given per-point value, rounding up so the member never underpays.
func PointsRequired(amount, pointValue float64) int {
	if pointValue <= 0 {
		return 0
	}
	return int(math.Ceil(amount / pointValue))
}

// PointsValue returns the currency value of a point count.
func PointsValue(points int, pointValue float64) float64 {
	return float64(points) * pointValue
}
