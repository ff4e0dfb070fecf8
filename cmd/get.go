package cmd

import (
	"fmt"
	"strconv"

	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"
)

var jsonOpts = &ojg.Options{Sort: true, Indent: 2}

var getCmd = &cobra.Command{
	Use:   "get [file] [category] [id]",
	Short: "Print one record as JSON",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid id %q: %w", args[2], err)
		}
		env, err := newEnv(cmd)
		if err != nil {
			return err
		}
		store, err := env.load(args[0])
		if err != nil {
			return err
		}
		rec, err := store.Get(args[1], id)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), oj.JSON(rec.Generic(), jsonOpts))
		return err
	},
}

var nameCmd = &cobra.Command{
	Use:   "name [file] [category] [id]",
	Short: "Print the display name of a record",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid id %q: %w", args[2], err)
		}
		env, err := newEnv(cmd)
		if err != nil {
			return err
		}
		store, err := env.load(args[0])
		if err != nil {
			return err
		}
		name, err := store.DisplayName(id, args[1])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), name)
		return err
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(nameCmd)
}
