package config

import (
	"strings"
	"testing"
)

// FuzzSplitList feeds arbitrary comma lists and checks that every item is
// trimmed and non-empty and that nothing is invented.
func FuzzSplitList(f *testing.F) {
	f.Add("Spooler, BogusSvc")
	f.Add(" , ,, ")
	f.Add("App,\tContoso ,")
	f.Add("")

	f.Fuzz(func(t *testing.T, raw string) {
		got, err := SplitList(raw)
		if err != nil {
			t.Fatalf("string input must not fail: %v", err)
		}
		if len(got) > strings.Count(raw, ",")+1 {
			t.Fatalf("%d items from %q", len(got), raw)
		}
		for _, s := range got {
			if s == "" || s != strings.TrimSpace(s) {
				t.Fatalf("untrimmed or empty item %q from %q", s, raw)
			}
			if strings.Contains(s, ",") {
				t.Fatalf("item %q still contains a separator", s)
			}
		}
		// The []any form of the same items must give the same result.
		items := make([]any, len(got))
		for i, s := range got {
			items[i] = s
		}
		again, err := SplitList(items)
		if err != nil || strings.Join(again, ",") != strings.Join(got, ",") {
			t.Fatalf("array form mismatch: %q vs %q (%v)", again, got, err)
		}
	})
}
