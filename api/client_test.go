package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

func TestClient(t *testing.T) {
	var admitted []Entry

	r := mux.NewRouter()
	r.HandleFunc("/v1/admit", func(rw http.ResponseWriter, req *http.Request) {
		var e Entry
		require.NoError(t, json.NewDecoder(req.Body).Decode(&e))
		admitted = append(admitted, e)
		json.NewEncoder(rw).Encode(AdmitResponse{Existed: len(admitted) > 1})
	}).Methods(http.MethodPost)
	r.HandleFunc("/v1/checkpoint", func(rw http.ResponseWriter, req *http.Request) {
		json.NewEncoder(rw).Encode(CheckpointResponse{Root: []byte{1}, Marker: []byte{2}, LogSize: uint64(len(admitted))})
	}).Methods(http.MethodGet)
	r.HandleFunc("/v1/publish", func(rw http.ResponseWriter, req *http.Request) {
		rw.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(rw).Encode(ErrorResponse{Error: "disk full"})
	}).Methods(http.MethodPost)

	srv := httptest.NewServer(r)
	defer srv.Close()
	client := NewClient(srv.URL + "/")
	ctx := context.Background()

	e := &Entry{Identity: []byte{0xab}, Attribute: 5}
	existed, err := client.Admit(ctx, e)
	require.NoError(t, err)
	require.False(t, existed)
	existed, err = client.Admit(ctx, e)
	require.NoError(t, err)
	require.True(t, existed)
	require.Equal(t, []Entry{*e, *e}, admitted)

	cp, err := client.Checkpoint(ctx)
	require.NoError(t, err)
	require.Equal(t, &CheckpointResponse{Root: []byte{1}, Marker: []byte{2}, LogSize: 2}, cp)

	_, err = client.Publish(ctx)
	require.ErrorContains(t, err, "disk full")

	_, err = client.Meta(ctx)
	require.ErrorContains(t, err, "404")
}
