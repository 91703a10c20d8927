package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pkt.systems/ctxdesk/schema"
)

func newFilesCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "files",
		Short: "List the context files the editor can open",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context(), cfgPath)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			files, err := app.KnownFiles(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, file := range files {
				_, _ = fmt.Fprintf(out, "%-9s %-8s %s\n", file.Tool, schema.KindForPath(file.Path), file.Path)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	return cmd
}
