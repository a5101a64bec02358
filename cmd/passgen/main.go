// Command passgen prints a random 10-character password: 2 symbols, 2 digits,
// 2 uppercase and 4 lowercase letters, in random order.
package main

import (
	"fmt"
	"os"

	"github.com/S0L1ST8/PasswordGeneratorComposite/internal/generator"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "passgen",
		Short:         "Print a random password",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := generator.NewDefault().Generate()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), password)
			return err
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "passgen:", err)
		os.Exit(1)
	}
}
