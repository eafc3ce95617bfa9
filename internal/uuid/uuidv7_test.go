package uuid

import "testing"

func TestNew(t *testing.T) {
	a, b := New(), New()
	if a == b {
		t.Fatal("expected distinct ids")
	}
	if !IsValid(a) {
		t.Fatalf("generated id %q is not a valid uuid", a)
	}
	if a[14] != '7' {
		t.Errorf("expected version 7, got %q", a)
	}
	if a > b {
		t.Errorf("expected time-ordered ids, got %s then %s", a, b)
	}
}

func TestParse(t *testing.T) {
	got, err := Parse("0190A8C4-3F2B-7C1D-8E9F-0123456789AB")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "0190a8c4-3f2b-7c1d-8e9f-0123456789ab" {
		t.Errorf("expected canonical form, got %s", got)
	}
	if _, err := Parse("not-a-uuid"); err == nil {
		t.Error("expected error for invalid uuid")
	}
}
