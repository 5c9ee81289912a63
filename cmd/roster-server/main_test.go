package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Bren2010/roster/crypto/suites"
	"github.com/Bren2010/roster/db"
	"github.com/Bren2010/roster/db/memory"
	"github.com/Bren2010/roster/tree/accumulator"
	"github.com/Bren2010/roster/tree/log"
)

func TestRunFailureCommitsAndCloses(t *testing.T) {
	cs := suites.RosterSha256P256{}
	file := filepath.Join(t.TempDir(), "roster.db")

	// Admit an entry without committing it.
	store, err := db.NewLDBAccumulatorStore(file)
	require.NoError(t, err)
	acc, err := accumulator.New(cs, store)
	require.NoError(t, err)

	_, pub, err := cs.GenerateIdentity()
	require.NoError(t, err)
	e := &accumulator.Entry{Identity: pub, Attribute: 1}
	tree := log.NewTree(cs, memory.NewLogStore())
	root, err := tree.Append(0, e.LeafHash(cs))
	require.NoError(t, err)
	w, err := tree.Witness(0, 1)
	require.NoError(t, err)
	e.Witness = *w

	_, err = acc.Admit(e, accumulator.Bounds{Min: 0, Max: 10})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// The API server can't listen on this address, so run fails.
	config := &Config{
		ServerAddr:   "localhost:-1",
		MetricsAddr:  "localhost:0",
		DatabaseFile: file,
		APIConfig: &APIConfig{
			HomeRedirect:   "https://example.com/",
			suite:          cs,
			commitInterval: time.Hour,
			bounds:         accumulator.Bounds{Min: 0, Max: 10},
		},
	}
	require.Error(t, run(context.Background(), config))

	// The database was closed, and the pending admission was committed.
	store, err = db.NewLDBAccumulatorStore(file)
	require.NoError(t, err)
	defer store.Close()
	acc, err = accumulator.New(cs, store)
	require.NoError(t, err)
	require.Equal(t, root, acc.Checkpoint().Value)
	require.True(t, acc.IsMember(e))
}
