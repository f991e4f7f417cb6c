package usecase

import (
	"context"
	"testing"

	"StratScan/internal/domain/models"
)

func TestListMarketsFallsBackToDefaults(t *testing.T) {
	tests := []struct {
		name string
		dir  fakeDirectory
	}{
		{"error", fakeDirectory{err: errUpstream}},
		{"empty", fakeDirectory{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewMarketsUseCase(tt.dir, nil, nil).ListMarkets(context.Background())
			if len(got) != len(models.DefaultMarkets) || got[0].Symbol != "BTC" {
				t.Fatalf("got %+v", got)
			}
		})
	}
}

func TestTrackedMarkets(t *testing.T) {
	dir := fakeDirectory{markets: []models.Market{
		{Symbol: "ETH", MarketIndex: 0, MarketID: 0},
		{Symbol: "BTC", MarketIndex: 1, MarketID: 1},
		{Symbol: "HYPE", MarketIndex: 2, MarketID: 24},
	}}

	got := NewMarketsUseCase(dir, []string{"hype", " btc", "NOPE"}, nil).Tracked(context.Background())
	if len(got) != 2 || got[0].MarketID != 24 || got[1].Symbol != "BTC" {
		t.Fatalf("tracked %+v", got)
	}

	all := NewMarketsUseCase(dir, nil, nil).Tracked(context.Background())
	if len(all) != len(models.DefaultMarkets) {
		t.Fatalf("expected default markets without configured symbols, got %d", len(all))
	}
}
