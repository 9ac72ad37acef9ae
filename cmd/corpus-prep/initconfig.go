package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	corpus "github.com/jamesainslie/go-corpus"
)

func newInitConfigCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init-config [PATH]",
		Short: "Write the default configuration as YAML to PATH or stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return corpus.WriteConfig(cmd.OutOrStdout(), corpus.DefaultConfig())
			}

			flag := os.O_CREATE | os.O_WRONLY | os.O_EXCL
			if force {
				flag = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
			}
			f, err := os.OpenFile(args[0], flag, 0o644)
			if errors.Is(err, fs.ErrExist) {
				return fmt.Errorf("%s exists, use --force to overwrite", args[0])
			}
			if err != nil {
				return err
			}
			if err := corpus.WriteConfig(f, corpus.DefaultConfig()); err != nil {
				_ = f.Close()
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}
