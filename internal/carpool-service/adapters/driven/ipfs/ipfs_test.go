package ipfs

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"decarpool/internal/carpool-service/core/myerrors"
	"decarpool/internal/config"
	"decarpool/internal/mylogger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLog(t *testing.T) mylogger.Logger {
	t.Helper()
	log, err := mylogger.New(mylogger.LevelError)
	require.NoError(t, err)
	return log
}

func TestSimulatedStoreRoundtrip(t *testing.T) {
	s := NewSimulatedStore(testLog(t))

	id, err := s.Put(context.Background(), []byte(`{"username":"dana"}`))
	require.NoError(t, err)
	assert.Contains(t, id, "dev-ipfs-")

	data, err := s.Get(context.Background(), id)
	require.NoError(t, err)
	assert.JSONEq(t, `{"username":"dana"}`, string(data))
}

func TestSimulatedStoreUnknownIDPlaceholder(t *testing.T) {
	s := NewSimulatedStore(testLog(t))

	// misses do not fail, they return a placeholder body
	data, err := s.Get(context.Background(), "dev-ipfs-nope")
	require.NoError(t, err)

	var body map[string]string
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, "dev-ipfs-nope", body["content_id"])
}

func TestLiveStoreRoundtrip(t *testing.T) {
	var stored []byte
	mux := http.NewServeMux()
	mux.HandleFunc("POST /version", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("POST /add", func(w http.ResponseWriter, r *http.Request) {
		file, _, err := r.FormFile("file")
		require.NoError(t, err)
		stored, err = io.ReadAll(file)
		require.NoError(t, err)
		json.NewEncoder(w).Encode(map[string]string{"Hash": "QmTest123"})
	})
	mux.HandleFunc("GET /gw/QmTest123", func(w http.ResponseWriter, r *http.Request) {
		w.Write(stored)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	store, err := NewLiveStore(context.Background(), &config.IPFSconfig{
		APIURL:     srv.URL,
		GatewayURL: srv.URL + "/gw/",
	}, testLog(t))
	require.NoError(t, err)

	id, err := store.Put(context.Background(), []byte(`{"username":"dana"}`))
	require.NoError(t, err)
	assert.Equal(t, "QmTest123", id)

	data, err := store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.JSONEq(t, `{"username":"dana"}`, string(data))
}

func TestLiveStoreGetNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /version", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	store, err := NewLiveStore(context.Background(), &config.IPFSconfig{
		APIURL:     srv.URL,
		GatewayURL: srv.URL + "/gw/",
	}, testLog(t))
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "QmMissing")
	assert.ErrorIs(t, err, myerrors.ErrContentNotFound)
}

func TestLiveStoreProbeFailure(t *testing.T) {
	_, err := NewLiveStore(context.Background(), &config.IPFSconfig{
		APIURL:     "http://127.0.0.1:1",
		GatewayURL: "http://127.0.0.1:1/gw/",
	}, testLog(t))
	assert.Error(t, err)
}
