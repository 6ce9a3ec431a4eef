// ABOUTME: GPU memory utilization severity tiers
// ABOUTME: Classifies required-vs-available ratios into Normal, Warning, Severe, Critical

package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// UtilizationTier is an ordered severity level: Normal < Warning < Severe < Critical.
type UtilizationTier int

const (
	TierNormal UtilizationTier = iota
	TierWarning
	TierSevere
	TierCritical
)

// Utilization thresholds in percent of available GPU memory.
const (
	WarningThresholdPercent = 70.0
	SevereThresholdPercent  = 90.0
	CriticalAbovePercent    = 100.0
)

var tierNames = [...]string{"normal", "warning", "severe", "critical"}

var tierLabels = [...]string{
	"Normal",
	"High usage",
	"Near capacity",
	"Exceeds capacity",
}

// ClassifyUtilization maps an unclamped utilization percentage to a tier.
// Callers must pass the raw ratio; a value clamped to 100 can never be Critical.
func ClassifyUtilization(rawPercent float64) UtilizationTier {
	switch {
	case rawPercent > CriticalAbovePercent:
		return TierCritical
	case rawPercent >= SevereThresholdPercent:
		return TierSevere
	case rawPercent >= WarningThresholdPercent:
		return TierWarning
	default:
		return TierNormal
	}
}

func (t UtilizationTier) valid() bool {
	return t >= TierNormal && t <= TierCritical
}

func (t UtilizationTier) String() string {
	if !t.valid() {
		return fmt.Sprintf("tier(%d)", int(t))
	}
	return tierNames[t]
}

// Label is the human-facing description of the tier.
func (t UtilizationTier) Label() string {
	if !t.valid() {
		return "Unknown"
	}
	return tierLabels[t]
}

// Level is the 1-based severity used by status indicators.
func (t UtilizationTier) Level() int {
	return int(t) + 1
}

// ParseUtilizationTier accepts a tier name in any case.
func ParseUtilizationTier(s string) (UtilizationTier, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range tierNames {
		if n == name {
			return UtilizationTier(i), nil
		}
	}
	return TierNormal, fmt.Errorf("unknown utilization tier %q", s)
}

func (t UtilizationTier) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *UtilizationTier) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseUtilizationTier(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
