package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/go-corpus/tokenizer"
)

func newTokenizeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "tokenize SOURCE TARGET MODEL",
		Short:   "Rewrite prepared split files as SentencePiece pieces",
		Example: `  corpus-prep tokenize data data-sp sp.model`,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, err := tokenizer.New(args[2])
			if err != nil {
				return err
			}
			defer func() { _ = tok.Close() }()

			n, err := tok.TokenizeDir(cmd.Context(), args[0], args[1], a.logger)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "tokenized %d files into %s\n", n, args[1])
			return err
		},
	}
}
