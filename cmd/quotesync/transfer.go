package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the collection as a JSON document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := newApplication(ctx, opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close(ctx)

			doc, err := a.service.ExportNow(ctx)
			if err != nil {
				return fmt.Errorf("exporting: %w", err)
			}

			if out == "" {
				_, err = cmd.OutOrStdout().Write(append(doc, '\n'))
				return err
			}

			if err := os.WriteFile(out, doc, 0o600); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "exported %d quotes to %s\n", len(a.service.ListQuotes("")), out)

			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "file to write (default stdout)")

	return cmd
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE...",
		Short: "Append the quotes of one or more JSON documents",
		Long: `Append the quotes of one or more exported documents to the collection.

Every file must be valid before anything is added: a document that is not
a JSON array, or that holds no entry with both a text and a category,
rejects the whole import.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs := make([][]byte, 0, len(args))

			for _, path := range args {
				doc, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("reading %s: %w", path, err)
				}

				docs = append(docs, doc)
			}

			ctx := cmd.Context()

			a, err := newApplication(ctx, opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close(ctx)

			added, err := a.service.ImportDocuments(ctx, docs)
			if err != nil {
				return fmt.Errorf("importing: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported %d quotes\n", added)

			return nil
		},
	}
}
