package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Bren2010/roster/api"
	"github.com/Bren2010/roster/crypto/suites"
)

var (
	entryFile string

	identityCmd = &cobra.Command{
		Use:   "identity",
		Short: "Generate a new member identity",
		RunE:  runIdentity,
	}
	metaCmd = &cobra.Command{
		Use:   "meta",
		Short: "Print the server's parameters",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := api.NewClient(serverAddr).Meta(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	admitCmd = &cobra.Command{
		Use:   "admit",
		Short: "Ask the server to admit an entry",
		RunE:  runAdmit,
	}
	publishCmd = &cobra.Command{
		Use:   "publish",
		Short: "Ask the server to commit all pending admissions",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := api.NewClient(serverAddr).Publish(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	checkpointCmd = &cobra.Command{
		Use:   "checkpoint",
		Short: "Print the server's committed checkpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := api.NewClient(serverAddr).Checkpoint(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	memberCmd = &cobra.Command{
		Use:   "member",
		Short: "Check whether an entry is a committed member",
		RunE:  runMember,
	}
)

func init() {
	for _, cmd := range []*cobra.Command{admitCmd, memberCmd} {
		cmd.Flags().StringVar(&entryFile, "entry", "-", "File containing the JSON-encoded entry, or - for stdin.")
	}
}

func runIdentity(cmd *cobra.Command, args []string) error {
	cs, err := suites.FromName(suiteName)
	if err != nil {
		return err
	}
	priv, pub, err := cs.GenerateIdentity()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Private Key: %x\n", priv)
	fmt.Fprintf(cmd.OutOrStdout(), "Identity:    %x\n", pub)
	return nil
}

func runAdmit(cmd *cobra.Command, args []string) error {
	e, err := readEntry(entryFile)
	if err != nil {
		return err
	}
	existed, err := api.NewClient(serverAddr).Admit(cmd.Context(), e)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), api.AdmitResponse{Existed: existed})
}

func runMember(cmd *cobra.Command, args []string) error {
	e, err := readEntry(entryFile)
	if err != nil {
		return err
	}
	res, err := api.NewClient(serverAddr).IsMember(cmd.Context(), e)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), res)
}
