package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Bren2010/roster/api"
	"github.com/Bren2010/roster/crypto/suites"
	"github.com/Bren2010/roster/tree/log"
)

func execute(t *testing.T, args ...string) string {
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return buf.String()
}

func TestTreeCommands(t *testing.T) {
	cs := suites.RosterSha256P256{}
	file := filepath.Join(t.TempDir(), "tree.db")

	var entries []*api.Entry
	for i := 0; i < 5; i++ {
		_, pub, err := cs.GenerateIdentity()
		require.NoError(t, err)

		out := execute(t, "tree", "append", "--suite", cs.Name(), "--db", file,
			"--identity", hex.EncodeToString(pub), "--attribute", "7")
		var e api.Entry
		require.NoError(t, json.Unmarshal([]byte(out), &e))
		require.Equal(t, pub, e.Identity)
		require.EqualValues(t, 7, e.Attribute)
		require.EqualValues(t, i, e.Witness.Position)
		require.EqualValues(t, i+1, e.Witness.Size)
		entries = append(entries, &e)
	}

	out := execute(t, "tree", "root", "--suite", cs.Name(), "--db", file)
	root, err := hex.DecodeString(strings.TrimSpace(out))
	require.NoError(t, err)

	for i, e := range entries {
		out := execute(t, "tree", "witness", "--suite", cs.Name(), "--db", file,
			"--position", fmt.Sprint(i))
		var w log.Witness
		require.NoError(t, json.Unmarshal([]byte(out), &w))
		require.EqualValues(t, 5, w.Size)

		leaf := e.ToEntry().LeafHash(cs)
		require.NoError(t, log.VerifyWitness(cs, leaf, &w, root))
	}
}

func TestTreeAppendRejectsInvalidIdentities(t *testing.T) {
	cs := suites.RosterSha256Ed25519{}
	file := filepath.Join(t.TempDir(), "tree.db")

	// y = p is a non-canonical encoding of the point with y = 0.
	nonCanonical := make([]byte, 32)
	nonCanonical[0] = 0xed
	for i := 1; i < 31; i++ {
		nonCanonical[i] = 0xff
	}
	nonCanonical[31] = 0x7f
	_, err := cs.ParseIdentity(nonCanonical)
	require.NoError(t, err)

	for _, identity := range [][]byte{nonCanonical, cs.EmptyIdentity(), {1, 2, 3}} {
		rootCmd.SetOut(&bytes.Buffer{})
		rootCmd.SetArgs([]string{"tree", "append", "--suite", cs.Name(), "--db", file,
			"--identity", hex.EncodeToString(identity), "--attribute", "7"})
		require.Error(t, rootCmd.Execute())
	}

	// Nothing was added to the tree.
	out := execute(t, "tree", "root", "--suite", cs.Name(), "--db", file)
	require.Equal(t, fmt.Sprintf("%x\n", make([]byte, 32)), out)
}
