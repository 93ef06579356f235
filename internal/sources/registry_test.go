package sources

import (
	"testing"

	"github.com/selivandex/market-news/pkg/models"
)

func TestRegistryQueries(t *testing.T) {
	all := All()

	if len(all) != len(DefaultSources)+len(CryptoSources)+len(EconomicSources) {
		t.Fatalf("All() must combine every group, got %d sources", len(all))
	}

	seen := make(map[string]struct{}, len(all))
	for _, s := range all {
		if s.ID == "" || s.FeedURL == "" || s.Name == "" {
			t.Errorf("incomplete source: %+v", s)
		}
		if s.Reliability < 0 || s.Reliability > 1 {
			t.Errorf("reliability out of range for %s: %.2f", s.ID, s.Reliability)
		}
		if s.UpdateFrequencyMinute <= 0 {
			t.Errorf("non-positive update frequency for %s", s.ID)
		}
		if _, dup := seen[s.ID]; dup {
			t.Errorf("duplicate source id %s", s.ID)
		}
		seen[s.ID] = struct{}{}
	}

	for _, s := range Active(all) {
		if !s.Active {
			t.Errorf("Active() returned inactive source %s", s.ID)
		}
	}

	for _, s := range ByCategory(all, models.CategoryCryptocurrency) {
		if s.Category != models.CategoryCryptocurrency {
			t.Errorf("ByCategory returned %s with category %s", s.ID, s.Category)
		}
	}
	if len(ByCategory(all, models.CategoryCryptocurrency)) == 0 {
		t.Error("expected at least one crypto source")
	}

	for _, s := range ByMinReliability(all, 0.9) {
		if s.Reliability < 0.9 {
			t.Errorf("ByMinReliability returned %s with reliability %.2f", s.ID, s.Reliability)
		}
	}

	if _, ok := ByID(all, "coindesk"); !ok {
		t.Error("expected to find coindesk by id")
	}
	if _, ok := ByID(all, "no-such-source"); ok {
		t.Error("unexpected hit for unknown id")
	}
}
