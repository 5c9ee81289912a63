// Command roster is a client for roster-server. It also maintains a local
// witness tree, for producing the witnesses that accompany admissions.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var (
	serverAddr string
	suiteName  string

	rootCmd = &cobra.Command{
		Use:          "roster",
		Short:        "A client for the roster membership accumulator",
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&serverAddr, "server", "http://localhost:8080", "Base URL of the roster server.")
	rootCmd.PersistentFlags().StringVar(&suiteName, "suite", "roster-sha256-ed25519", "Name of the cipher suite.")

	treeCmd.AddCommand(treeAppendCmd, treeWitnessCmd, treeRootCmd)
	rootCmd.AddCommand(identityCmd, treeCmd, metaCmd, admitCmd, publishCmd, checkpointCmd, memberCmd)
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile | log.LUTC)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatal(err)
	}
}
