package stations

import (
	"strings"
	"testing"
)

func TestByCategory(t *testing.T) {
	tests := []struct {
		name     string
		category Category
		wantName string
		rejected string
	}{
		{"time signals", CategoryTime, "wwv", "bbc"},
		{"broadcasters", CategoryBroadcast, "bbc", "wwv"},
		{"amateur bands", CategoryAmateur, "ssb", "bbc"},
		{"numbers and pirates", CategoryMystery, "uvb", "wwv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ByCategory(tt.category)
			if len(got) == 0 {
				t.Fatal("Expected at least one station")
			}

			foundWanted := false
			for _, s := range got {
				if strings.Contains(s.Name, tt.wantName) {
					foundWanted = true
				}
				if strings.Contains(s.Name, tt.rejected) {
					t.Errorf("Category %s should not include %q", tt.category, s.Name)
				}
			}
			if !foundWanted {
				t.Errorf("Category %s should include a %q station", tt.category, tt.wantName)
			}
		})
	}
}

func TestByCategoryAll(t *testing.T) {
	if got := ByCategory(CategoryAll); len(got) != len(All()) {
		t.Errorf("CategoryAll: expected %d stations, got %d", len(All()), len(got))
	}
	if got := ByCategory(Category("bogus")); len(got) != len(All()) {
		t.Errorf("Unknown category: expected full directory, got %d", len(got))
	}
}

func TestNearest(t *testing.T) {
	s, ok := Nearest(7055000)
	if !ok {
		t.Fatal("Expected a station near 7.055 MHz")
	}
	if s.Name != "40m ft8" {
		t.Errorf("Expected 40m ft8 nearest to 7.055 MHz, got %q at %v", s.Name, s.Freq)
	}

	if _, ok := Nearest(500000000); ok {
		t.Error("Expected no station within 1 MHz of 500 MHz")
	}
}

func TestFavorites(t *testing.T) {
	favs := Favorites()
	if len(favs) == 0 {
		t.Fatal("Expected favorites to be non-empty")
	}
	for _, f := range favs {
		if f.Freq <= 0 || f.Name == "" {
			t.Errorf("Malformed favorite: %+v", f)
		}
	}
}

func TestAllReturnsCopy(t *testing.T) {
	a := All()
	a[0].Name = "clobbered"
	if All()[0].Name == "clobbered" {
		t.Error("All must return a copy of the directory")
	}
}
