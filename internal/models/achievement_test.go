package models

import "testing"

func TestDefaultCatalogShape(t *testing.T) {
	catalog := DefaultCatalog()

	types := catalog.Types()
	if len(types) != 10 {
		t.Fatalf("catalog has %d families, want 10", len(types))
	}

	for _, typ := range types {
		def, ok := catalog.Def(typ)
		if !ok {
			t.Fatalf("Def(%q) missing", typ)
		}
		if len(def.Tiers) != 5 {
			t.Errorf("%s has %d tiers, want 5", typ, len(def.Tiers))
		}

		for i, tier := range def.Tiers {
			if tier.Level != i+1 {
				t.Errorf("%s tier %d has level %d", typ, i, tier.Level)
			}
			if tier.Title == "" {
				t.Errorf("%s level %d has no title", typ, tier.Level)
			}
			if tier.Points <= 0 {
				t.Errorf("%s level %d awards %d points", typ, tier.Level, tier.Points)
			}
		}

		switch def.Kind {
		case RequireCount:
			for i := 1; i < len(def.Tiers); i++ {
				if def.Tiers[i].Requirement <= def.Tiers[i-1].Requirement {
					t.Errorf("%s requirements not strictly ascending at level %d", typ, i+1)
				}
			}
		case RequireLevel:
			prev := -1
			for _, tier := range def.Tiers {
				ord := LevelOrdinal(tier.RequiredLevel)
				if ord < 0 {
					t.Errorf("%s level %d targets unknown level %q", typ, tier.Level, tier.RequiredLevel)
				}
				if ord <= prev {
					t.Errorf("%s level targets not ascending at level %d", typ, tier.Level)
				}
				prev = ord
			}
		}
	}
}

func TestCatalogTierLookup(t *testing.T) {
	catalog := DefaultCatalog()

	tier, ok := catalog.Tier(AchievementWordMaster, 1)
	if !ok || tier.Title != "Bookworm" || tier.Requirement != 5000 {
		t.Errorf("Tier(word_master, 1) = %+v, %v", tier, ok)
	}

	if _, ok := catalog.Tier(AchievementWordMaster, 0); ok {
		t.Error("level 0 lookup succeeded")
	}
	if _, ok := catalog.Tier(AchievementWordMaster, 6); ok {
		t.Error("level 6 lookup succeeded")
	}
	if _, ok := catalog.Tier("nonexistent", 1); ok {
		t.Error("unknown family lookup succeeded")
	}
}

func TestNewCatalogPreservesOrder(t *testing.T) {
	catalog := NewCatalog([]AchievementDef{
		{Type: AchievementEarlyBird},
		{Type: AchievementGoalGetter},
		{Type: AchievementDailyReader},
	})

	want := []AchievementType{AchievementEarlyBird, AchievementGoalGetter, AchievementDailyReader}
	got := catalog.Types()
	if len(got) != len(want) {
		t.Fatalf("Types() length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Types()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLevelOrdinal(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"beginner", 0},
		{"elementary", 1},
		{"intermediate", 2},
		{"advanced", 3},
		{"expert", 4},
		{"master", 5},
		{"unknown", -1},
		{"", -1},
	}

	for _, tt := range tests {
		if got := LevelOrdinal(tt.name); got != tt.want {
			t.Errorf("LevelOrdinal(%q) = %d, want %d", tt.name, got, tt.want)
		}
	}
}
