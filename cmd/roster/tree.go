package main

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Bren2010/roster/api"
	"github.com/Bren2010/roster/crypto/suites"
	"github.com/Bren2010/roster/db"
	"github.com/Bren2010/roster/tree/accumulator"
	"github.com/Bren2010/roster/tree/log"
)

var (
	treeFile      string
	treeIdentity  string
	treeAttribute uint64
	treePosition  uint64
	treeSize      uint64

	treeCmd = &cobra.Command{
		Use:   "tree",
		Short: "Maintain a local witness tree",
	}
	treeAppendCmd = &cobra.Command{
		Use:   "append",
		Short: "Append a member to the witness tree and print its entry",
		RunE:  runTreeAppend,
	}
	treeWitnessCmd = &cobra.Command{
		Use:   "witness",
		Short: "Print the witness for a position in the witness tree",
		RunE:  runTreeWitness,
	}
	treeRootCmd = &cobra.Command{
		Use:   "root",
		Short: "Print the root of the witness tree",
		RunE:  runTreeRoot,
	}
)

func init() {
	for _, cmd := range []*cobra.Command{treeAppendCmd, treeWitnessCmd, treeRootCmd} {
		cmd.Flags().StringVar(&treeFile, "db", "roster-tree.db", "Location of the witness tree database.")
	}
	treeAppendCmd.Flags().StringVar(&treeIdentity, "identity", "", "Hex-encoded identity of the member.")
	treeAppendCmd.Flags().Uint64Var(&treeAttribute, "attribute", 0, "Attribute of the member.")
	treeAppendCmd.MarkFlagRequired("identity")

	treeWitnessCmd.Flags().Uint64Var(&treePosition, "position", 0, "Position of the leaf.")
	treeWitnessCmd.Flags().Uint64Var(&treeSize, "size", 0, "Size of the tree to prove against. Defaults to the current size.")
	treeRootCmd.Flags().Uint64Var(&treeSize, "size", 0, "Size of the tree. Defaults to the current size.")
}

// openTree opens the local witness tree and returns it along with its size.
func openTree() (suites.CipherSuite, db.AccumulatorStore, *log.Tree, uint64, error) {
	cs, err := suites.FromName(suiteName)
	if err != nil {
		return nil, nil, nil, 0, err
	}
	store, err := db.NewLDBAccumulatorStore(treeFile)
	if err != nil {
		return nil, nil, nil, 0, err
	}
	n, err := store.GetTreeSize()
	if err != nil {
		store.Close()
		return nil, nil, nil, 0, err
	}
	return cs, store, log.NewTree(cs, store.LogStore()), n, nil
}

// sizeOrCurrent returns the value of the --size flag, or n if it wasn't set.
func sizeOrCurrent(n uint64) (uint64, error) {
	if treeSize == 0 {
		return n, nil
	} else if treeSize > n {
		return 0, fmt.Errorf("tree only has %v leaves", n)
	}
	return treeSize, nil
}

func runTreeAppend(cmd *cobra.Command, args []string) error {
	cs, store, tree, n, err := openTree()
	if err != nil {
		return err
	}
	defer store.Close()

	identity, err := hex.DecodeString(treeIdentity)
	if err != nil {
		return fmt.Errorf("failed to decode identity: %w", err)
	}
	canonical, err := cs.ParseIdentity(identity)
	if err != nil {
		return err
	} else if !bytes.Equal(canonical, identity) {
		return errors.New("identity is not canonically encoded")
	} else if bytes.Equal(canonical, cs.EmptyIdentity()) {
		return errors.New("identity is the empty identity")
	}
	e := &accumulator.Entry{Identity: identity, Attribute: treeAttribute}

	if _, err := tree.Append(n, e.LeafHash(cs)); err != nil {
		return err
	} else if err := store.SetTreeSize(n + 1); err != nil {
		return err
	} else if err := store.Commit(); err != nil {
		return err
	}

	w, err := tree.Witness(n, n+1)
	if err != nil {
		return err
	}
	e.Witness = *w
	return printJSON(cmd.OutOrStdout(), api.FromEntry(e))
}

func runTreeWitness(cmd *cobra.Command, args []string) error {
	_, store, tree, n, err := openTree()
	if err != nil {
		return err
	}
	defer store.Close()

	size, err := sizeOrCurrent(n)
	if err != nil {
		return err
	} else if treePosition >= size {
		return errors.New("position is past the end of the tree")
	}
	w, err := tree.Witness(treePosition, size)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), w)
}

func runTreeRoot(cmd *cobra.Command, args []string) error {
	cs, store, tree, n, err := openTree()
	if err != nil {
		return err
	}
	defer store.Close()

	size, err := sizeOrCurrent(n)
	if err != nil {
		return err
	} else if size == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%x\n", accumulator.EmptyRoot(cs))
		return nil
	}
	root, err := tree.Root(size)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%x\n", root)
	return nil
}
