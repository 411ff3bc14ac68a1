package domain

import (
	"fmt"
	"strings"
	"time"
)

// ProviderScope decides which existing bookings a candidate is compared against.
type ProviderScope string

const (
	// ScopeStrict compares two bookings only when neither has a provider or both
	// have the same one.
	ScopeStrict ProviderScope = "strict"
	// ScopeShared skips a booking only when both sides name different providers,
	// so bookings without a provider block every provider.
	ScopeShared ProviderScope = "shared"
)

func ParseProviderScope(s string) (ProviderScope, error) {
	switch ProviderScope(strings.ToLower(strings.TrimSpace(s))) {
	case "", ScopeStrict:
		return ScopeStrict, nil
	case ScopeShared:
		return ScopeShared, nil
	}
	return "", fmt.Errorf("unknown provider scope %q", s)
}

func (s ProviderScope) comparable(candidateProvider, existingProvider string) bool {
	if s == ScopeShared {
		return candidateProvider == "" || existingProvider == "" || candidateProvider == existingProvider
	}
	return candidateProvider == existingProvider
}

// HasConflict reports whether [start, end) overlaps a non-cancelled appointment in
// existing that shares the candidate's provider scope. The appointment whose id equals
// excludeID is ignored.
func HasConflict(start, end time.Time, providerID, excludeID string, existing []Appointment, scope ProviderScope) bool {
	for _, a := range existing {
		if a.Cancelled() {
			continue
		}
		if excludeID != "" && a.ID == excludeID {
			continue
		}
		if !scope.comparable(providerID, a.ProviderID) {
			continue
		}
		if start.Before(a.End) && end.After(a.Start) {
			return true
		}
	}
	return false
}

// BusyIntervals returns the spans of non-cancelled appointments that would conflict
// with a booking for providerID under scope.
func BusyIntervals(providerID string, existing []Appointment, scope ProviderScope) []Interval {
	var out []Interval
	for _, a := range existing {
		if a.Cancelled() || !scope.comparable(providerID, a.ProviderID) {
			continue
		}
		out = append(out, Interval{Start: a.Start, End: a.End})
	}
	return out
}
