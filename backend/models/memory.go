// ABOUTME: Parsing and normalization of unit-tagged memory strings
// ABOUTME: Converts values like "3.5 GB" or "512 MB" into canonical gibibytes

package models

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Memory units recognized by the converter. Matching is case-insensitive.
const (
	UnitBytes = "BYTES"
	UnitKB    = "KB"
	UnitMB    = "MB"
	UnitGB    = "GB"
	UnitTB    = "TB"
)

// estimateMarker is appended by the calculation service when one of the
// sub-components of a figure was non-positive.
const estimateMarker = "*"

// memoryPattern is anchored at the first byte: leading whitespace or a sign
// means no match. The number group may hold stray dots ("1.2.3", "5.").
var memoryPattern = regexp.MustCompile(`^([\d.]+)\s*(\w+)`)

// decimalPrefix is the longest leading decimal literal of a number group.
var decimalPrefix = regexp.MustCompile(`^(?:\d+\.?\d*|\.\d+)`)

// unitFactors maps an upper-cased unit to its size in GB (binary multiples).
var unitFactors = map[string]float64{
	UnitTB:    1024,
	UnitGB:    1,
	UnitMB:    1.0 / 1024,
	UnitKB:    1.0 / (1024 * 1024),
	UnitBytes: 1.0 / (1024 * 1024 * 1024),
}

// MemoryQuantity is a magnitude paired with a unit token, as parsed from
// a formatted string such as "12.50 GB".
type MemoryQuantity struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
	Raw   string  `json:"raw"`
	// Parsed is false when the input did not match and the zero fallback was used.
	Parsed bool `json:"parsed"`
	// Estimated is true when the upstream string carried the "*" marker.
	Estimated bool `json:"estimated,omitempty"`
}

// ParseMemory splits raw into a magnitude and unit token.
// Input that does not start with "<number><unit>" yields 0 GB with Parsed unset.
func ParseMemory(raw string) MemoryQuantity {
	q := MemoryQuantity{
		Unit:      UnitGB,
		Raw:       raw,
		Estimated: strings.HasSuffix(strings.TrimSpace(raw), estimateMarker),
	}

	m := memoryPattern.FindStringSubmatch(raw)
	if m == nil {
		return q
	}
	value, ok := parseDecimalPrefix(m[1])
	if !ok {
		return q
	}

	q.Value = value
	q.Unit = m[2]
	q.Parsed = true
	return q
}

// parseDecimalPrefix reads the leading decimal literal of s and ignores the
// rest, so "5." is 5, ".5" is 0.5 and "1.2.3" is 1.2. A lone "." fails.
func parseDecimalPrefix(s string) (float64, bool) {
	lit := strings.TrimSuffix(decimalPrefix.FindString(s), ".")
	if lit == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// KnownUnit reports whether the unit token is one of TB, GB, MB, KB or BYTES.
func (q MemoryQuantity) KnownUnit() bool {
	_, ok := unitFactors[strings.ToUpper(q.Unit)]
	return ok
}

// ToGB converts the quantity to gibibytes. Unknown units are treated as GB.
func (q MemoryQuantity) ToGB() float64 {
	factor, ok := unitFactors[strings.ToUpper(q.Unit)]
	if !ok {
		return q.Value
	}
	return q.Value * factor
}

func (q MemoryQuantity) String() string {
	s := strconv.FormatFloat(q.Value, 'f', -1, 64) + " " + strings.ToUpper(q.Unit)
	if q.Estimated {
		s += " " + estimateMarker
	}
	return s
}

// ParseMemoryToGB parses raw and returns its size in GB, or 0 when unparseable.
func ParseMemoryToGB(raw string) float64 {
	return ParseMemory(raw).ToGB()
}

// FormatGB renders a GB figure the way the calculator front end shows it.
func FormatGB(gb float64) string {
	return fmt.Sprintf("%.2f GB", gb)
}
