package ledger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"decarpool/internal/carpool-service/core/myerrors"
	"decarpool/internal/config"
	"decarpool/internal/mylogger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGateway(t *testing.T, handler http.Handler) (*httptest.Server, *LiveClient) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	if handler != nil {
		mux.Handle("/", handler)
	}

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	log, err := mylogger.New(mylogger.LevelError)
	require.NoError(t, err)

	client, err := NewLiveClient(context.Background(), &config.Ledgerconfig{
		NodeURL:         srv.URL,
		ContractAddress: "0xcontract",
		ConfirmTimeout:  2,
	}, log)
	require.NoError(t, err)

	return srv, client.(*LiveClient)
}

func TestLiveClientProbeFailure(t *testing.T) {
	log, err := mylogger.New(mylogger.LevelError)
	require.NoError(t, err)

	// nothing listens here
	_, err = NewLiveClient(context.Background(), &config.Ledgerconfig{
		NodeURL:         "http://127.0.0.1:1",
		ContractAddress: "0xcontract",
		ConfirmTimeout:  1,
	}, log)
	assert.Error(t, err, "a failed probe must surface so the caller can fall back")
}

func TestLiveClientCreateRide(t *testing.T) {
	var estimated bool
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/contracts/0xcontract/rides/estimate":
			estimated = true
			json.NewEncoder(w).Encode(map[string]int64{"gas": 21000})
		case "/contracts/0xcontract/rides":
			var call createRideCall
			require.NoError(t, json.NewDecoder(r.Body).Decode(&call))
			assert.Equal(t, "0xowner", call.Owner)
			assert.Equal(t, 3, call.Seats)
			json.NewEncoder(w).Encode(map[string]any{"ride_id": 42, "tx_hash": "0xabc123"})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	})
	_, client := newGateway(t, handler)

	created, err := client.CreateRide(context.Background(), "0xowner", "A", "B", 10, 3)
	require.NoError(t, err)

	assert.True(t, estimated, "cost estimation precedes submission")
	assert.Equal(t, int64(42), created.ExternalRideID)
	assert.Equal(t, "0xabc123", created.TxRef)
}

func TestLiveClientRejection(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "execution reverted: ride not available", http.StatusConflict)
	})
	_, client := newGateway(t, handler)

	_, err := client.BookRide(context.Background(), "0xbuyer", 42, 20)
	assert.ErrorIs(t, err, myerrors.ErrRemoteRejected)
	assert.NotErrorIs(t, err, myerrors.ErrLedgerUnavailable)
	assert.Contains(t, err.Error(), "reverted")
}

func TestLiveClientGatewayError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "node unavailable", http.StatusBadGateway)
	})
	_, client := newGateway(t, handler)

	_, err := client.CompleteRide(context.Background(), "0xowner", 42)
	assert.ErrorIs(t, err, myerrors.ErrLedgerUnavailable)
	assert.NotErrorIs(t, err, myerrors.ErrRemoteRejected)
}

func TestLiveClientConnectionLoss(t *testing.T) {
	srv, client := newGateway(t, nil)
	srv.Close()

	_, err := client.BookRide(context.Background(), "0xbuyer", 42, 20)
	assert.ErrorIs(t, err, myerrors.ErrLedgerUnavailable)
}

func TestLiveClientGetRide(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/contracts/0xcontract/rides/42" {
			json.NewEncoder(w).Encode(map[string]any{
				"driver":          "0xdriver",
				"start_location":  "A",
				"end_location":    "B",
				"price":           10.0,
				"available_seats": 2,
				"is_available":    true,
			})
			return
		}
		http.NotFound(w, r)
	})
	_, client := newGateway(t, handler)

	view, err := client.GetRide(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "0xdriver", view.Driver)
	assert.Equal(t, 2, view.AvailableSeats)

	_, err = client.GetRide(context.Background(), 404)
	assert.ErrorIs(t, err, myerrors.ErrRideNotFound)
}
