package ledger

import (
	"testing"
	"time"
)

func TestFingerprint_UpstreamPreferred(t *testing.T) {
	rec := &Record{
		Fingerprint: "upstream-fp-123",
		AccountID:   "acc-1",
		Amount:      -5.0,
		Description: "coffee",
		Day:         time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
	}

	if got := Fingerprint(rec); got != "upstream-fp-123" {
		t.Errorf("Fingerprint() = %q, want upstream value", got)
	}
}

func TestFingerprint_WhitespaceOnlyUpstreamIgnored(t *testing.T) {
	rec := &Record{
		Fingerprint: "   ",
		AccountID:   "acc-1",
		Amount:      -5.0,
		Description: "coffee",
		Day:         time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
	}

	got := Fingerprint(rec)
	if got == "" || got == "   " {
		t.Errorf("Fingerprint() = %q, want derived hash", got)
	}
	if len(got) != 64 {
		t.Errorf("derived fingerprint length = %d, want 64 hex chars", len(got))
	}
}

func TestFingerprint_DerivedIsDeterministic(t *testing.T) {
	day := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

	a := &Record{AccountID: "acc-1", Amount: -6.17, Description: "Coffee Shop", Day: day}
	b := &Record{AccountID: "acc-1", Amount: -6.17, Description: "  COFFEE SHOP ", Day: day}

	if Fingerprint(a) != Fingerprint(b) {
		t.Error("fingerprints should be equal across casing and whitespace variants")
	}
}

func TestFingerprint_DistinguishesRecords(t *testing.T) {
	day := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	base := &Record{AccountID: "acc-1", Amount: -6.17, Description: "coffee", Day: day}

	variants := []*Record{
		{AccountID: "acc-2", Amount: -6.17, Description: "coffee", Day: day},
		{AccountID: "acc-1", Amount: -6.18, Description: "coffee", Day: day},
		{AccountID: "acc-1", Amount: -6.17, Description: "tea", Day: day},
		{AccountID: "acc-1", Amount: -6.17, Description: "coffee", Day: day.AddDate(0, 0, 1)},
	}

	baseFP := Fingerprint(base)
	for i, v := range variants {
		if Fingerprint(v) == baseFP {
			t.Errorf("variant %d should produce a different fingerprint", i)
		}
	}
}

func TestFingerprint_SubCentAmountsDistinguished(t *testing.T) {
	day := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

	a := &Record{AccountID: "acc-1", Amount: 10.004, Description: "fx fee", Day: day}
	b := &Record{AccountID: "acc-1", Amount: 10.0049, Description: "fx fee", Day: day}

	if Fingerprint(a) == Fingerprint(b) {
		t.Error("amounts differing below a cent must not collide")
	}
}
