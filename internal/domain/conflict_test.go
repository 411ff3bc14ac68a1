package domain

import (
	"testing"
	"time"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 2, hour, minute, 0, 0, time.UTC)
}

func TestHasConflict(t *testing.T) {
	existing := []Appointment{
		{ID: "a1", ProviderID: "p1", Start: at(9, 0), End: at(10, 0), Status: StatusConfirmed},
		{ID: "a2", Start: at(12, 0), End: at(13, 0), Status: StatusPending},
		{ID: "a3", ProviderID: "p1", Start: at(15, 0), End: at(16, 0), Status: StatusCancelled},
	}

	tests := []struct {
		name      string
		start     time.Time
		end       time.Time
		provider  string
		excludeID string
		scope     ProviderScope
		want      bool
	}{
		{name: "overlap same provider", start: at(9, 30), end: at(10, 30), provider: "p1", want: true},
		{name: "contained", start: at(9, 15), end: at(9, 45), provider: "p1", want: true},
		{name: "touching end", start: at(10, 0), end: at(11, 0), provider: "p1", want: false},
		{name: "touching start", start: at(8, 0), end: at(9, 0), provider: "p1", want: false},
		{name: "other provider", start: at(9, 30), end: at(10, 30), provider: "p2", want: false},
		{name: "self excluded", start: at(9, 0), end: at(10, 0), provider: "p1", excludeID: "a1", want: false},
		{name: "cancelled ignored", start: at(15, 0), end: at(16, 0), provider: "p1", want: false},
		{name: "both providerless", start: at(12, 30), end: at(13, 30), want: true},
		{name: "strict: providerless candidate vs provider booking", start: at(9, 30), end: at(10, 30), want: false},
		{name: "strict: provider candidate vs providerless booking", start: at(12, 30), end: at(13, 30), provider: "p1", want: false},
		{name: "shared: providerless candidate vs provider booking", start: at(9, 30), end: at(10, 30), scope: ScopeShared, want: true},
		{name: "shared: provider candidate vs providerless booking", start: at(12, 30), end: at(13, 30), provider: "p2", scope: ScopeShared, want: true},
		{name: "shared: different providers", start: at(9, 30), end: at(10, 30), provider: "p2", scope: ScopeShared, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scope := tt.scope
			if scope == "" {
				scope = ScopeStrict
			}
			got := HasConflict(tt.start, tt.end, tt.provider, tt.excludeID, existing, scope)
			if got != tt.want {
				t.Fatalf("HasConflict = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseProviderScope(t *testing.T) {
	for in, want := range map[string]ProviderScope{"": ScopeStrict, "strict": ScopeStrict, " Shared ": ScopeShared} {
		got, err := ParseProviderScope(in)
		if err != nil {
			t.Fatalf("ParseProviderScope(%q) error: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseProviderScope(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := ParseProviderScope("global"); err == nil {
		t.Fatalf("expected error for unknown scope")
	}
}

func TestBusyIntervals_FollowsScope(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	existing := []Appointment{
		{ID: "a", ProviderID: "p1", Start: base, End: base.Add(time.Hour), Status: StatusConfirmed},
		{ID: "b", ProviderID: "", Start: base.Add(2 * time.Hour), End: base.Add(3 * time.Hour), Status: StatusPending},
		{ID: "c", ProviderID: "p1", Start: base.Add(4 * time.Hour), End: base.Add(5 * time.Hour), Status: StatusCancelled},
		{ID: "d", ProviderID: "p2", Start: base, End: base.Add(time.Hour), Status: StatusConfirmed},
	}

	if got := BusyIntervals("p1", existing, ScopeStrict); len(got) != 1 || !got[0].Start.Equal(base) {
		t.Fatalf("strict busy = %+v, want only p1's active booking", got)
	}
	if got := BusyIntervals("p1", existing, ScopeShared); len(got) != 2 {
		t.Fatalf("shared busy = %+v, want p1 and providerless bookings", got)
	}
}
