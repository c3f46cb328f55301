package theme

import "testing"

func TestDefaultPaletteLoaded(t *testing.T) {
	pal := Default()
	if pal.Foreground == (pal.Background) {
		t.Fatalf("expected distinct default fg/bg")
	}
}

func TestLookupKnownAndUnknown(t *testing.T) {
	if _, ok := Lookup("tokyo-night"); !ok {
		t.Fatalf("expected tokyo-night theme to be registered")
	}
	if _, ok := Lookup("does-not-exist"); ok {
		t.Fatalf("expected unknown theme to be absent")
	}
}

func TestNamesNonEmpty(t *testing.T) {
	if len(Names()) == 0 {
		t.Fatalf("expected at least one built-in theme")
	}
}
