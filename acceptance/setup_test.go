package acceptance

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/poolkaro/poolkaro-backend/api"
	"github.com/poolkaro/poolkaro-backend/internal/o11y"
	"github.com/poolkaro/poolkaro-backend/pricefeed"
	"github.com/poolkaro/poolkaro-backend/ride"
	"github.com/poolkaro/poolkaro-backend/room"
)

// rideResponse mirrors the join and ride lookup payloads.
type rideResponse struct {
	RideID       int64    `json:"rideId"`
	RoomKey      string   `json:"roomKey"`
	Destination  string   `json:"destination"`
	Mode         string   `json:"mode"`
	Username     string   `json:"username"`
	Participants []string `json:"participants"`
	MaxSeats     int      `json:"maxSeats"`
	Status       string   `json:"status"`
	ChatEnabled  bool     `json:"chatEnabled"`
}

type pricesResponse struct {
	Destination string `json:"destination"`
	Options     []struct {
		Mode         string  `json:"mode"`
		RapidoPrice  int     `json:"rapido"`
		UberPrice    int     `json:"uber"`
		BestPrice    int     `json:"best"`
		PerSeatPrice float64 `json:"perPerson"`
		SeatCount    int     `json:"seats"`
		ChatEnabled  bool    `json:"chat"`
	} `json:"options"`
}

type TestServer struct {
	Router *gin.Engine
}

// NewTestServer assembles the full router over in-memory state and a fixed
// price feed; no external services are needed.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	gin.SetMode(gin.TestMode)

	obs := o11y.ForTesting()
	dir := ride.NewDirectory(ride.NewMemoryStore())
	rooms := room.NewBroadcaster(obs.Logger)
	feed := pricefeed.Fixed{
		pricefeed.ProviderRapido: {"Bike": 50, "Auto": 90, "Cab": 110},
		pricefeed.ProviderUber:   {"Bike": 55, "Auto": 95, "Cab": 130},
	}

	a := api.New(dir, rooms, feed, obs, "", "")

	return &TestServer{Router: a.Router()}
}

func (ts *TestServer) GET(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	return w
}

func (ts *TestServer) POST(t *testing.T, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to unmarshal response %q: %v", w.Body.String(), err)
	}
	return v
}
