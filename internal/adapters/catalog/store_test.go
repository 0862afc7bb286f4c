package catalog_test

import (
	"context"
	"testing"

	"github.com/randomtoy/lifeassist-go/internal/adapters/catalog"
)

func TestEmbeddedStore_GetCatalog(t *testing.T) {
	c, err := catalog.NewEmbeddedStore().GetCatalog(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(c.Scenarios) != 12 {
		t.Errorf("expected 12 scenarios, got %d", len(c.Scenarios))
	}
	if len(c.Moods) != 5 {
		t.Errorf("expected 5 moods, got %d", len(c.Moods))
	}
	if len(c.Zodiac) != 12 {
		t.Errorf("expected 12 zodiac signs, got %d", len(c.Zodiac))
	}
	if c.Scenarios[0] != "美食探店" {
		t.Errorf("unexpected first scenario: %s", c.Scenarios[0])
	}
}

func TestParse_RejectsEmptySelectors(t *testing.T) {
	docs := []string{
		"moods: [a]\nzodiac: [b]\n",
		"scenarios: [a]\nzodiac: [b]\n",
		"scenarios: [a]\nmoods: [b]\n",
		"scenarios: [a\n",
	}
	for _, doc := range docs {
		if _, err := catalog.Parse([]byte(doc)); err == nil {
			t.Errorf("expected error for %q", doc)
		}
	}
}
