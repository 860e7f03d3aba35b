package acceptance

import (
	"net/http"
	"testing"
)

func TestHealth(t *testing.T) {
	ts := NewTestServer(t)

	w := ts.GET("/health")
	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestPrices_ReturnsOptionsPerMode(t *testing.T) {
	ts := NewTestServer(t)

	w := ts.POST(t, "/prices", map[string]string{"destination": "Sector 128"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	resp := decode[pricesResponse](t, w)
	if resp.Destination != "Sector 128" {
		t.Errorf("destination = %q", resp.Destination)
	}
	if len(resp.Options) != 3 {
		t.Fatalf("expected 3 options, got %d", len(resp.Options))
	}

	bike := resp.Options[0]
	if bike.Mode != "Bike" || bike.BestPrice != 50 || bike.PerSeatPrice != 50.00 {
		t.Errorf("unexpected bike option: %+v", bike)
	}
	if bike.ChatEnabled {
		t.Error("bike option should have chat disabled")
	}

	auto := resp.Options[1]
	if auto.Mode != "Auto" || auto.BestPrice != 90 || auto.SeatCount != 3 {
		t.Errorf("unexpected auto option: %+v", auto)
	}
	if auto.PerSeatPrice != 30.00 {
		t.Errorf("auto per seat = %v, want 30.00", auto.PerSeatPrice)
	}
}

func TestPrices_RequiresDestination(t *testing.T) {
	ts := NewTestServer(t)

	for _, dest := range []string{"", "   "} {
		w := ts.POST(t, "/prices", map[string]string{"destination": dest})
		if w.Code != http.StatusBadRequest {
			t.Errorf("destination %q: expected status %d, got %d", dest, http.StatusBadRequest, w.Code)
		}
	}
}
