package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"pkt.systems/ctxdesk/core"
	"pkt.systems/ctxdesk/internal/eventbus"
	"pkt.systems/ctxdesk/internal/format"
	"pkt.systems/ctxdesk/schema"
	"pkt.systems/pslog"
)

func newSessionCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect and edit the stored editor session",
	}
	cmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file")

	cmd.AddCommand(newSessionShowCmd(&cfgPath))
	cmd.AddCommand(newSessionOpenCmd(&cfgPath))
	cmd.AddCommand(newSessionResetCmd(&cfgPath))

	return cmd
}

func newSessionShowCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Restore the stored session and print its layout",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context(), *cfgPath)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			if _, err := app.Start(cmd.Context()); err != nil {
				return err
			}
			app.Session().Wait()
			renderSession(cmd.OutOrStdout(), app.Session().Snapshot())
			return nil
		},
	}
}

func newSessionOpenCmd(cfgPath *string) *cobra.Command {
	var paneIndex int
	var split string
	var showEvents bool
	cmd := &cobra.Command{
		Use:   "open PATH...",
		Short: "Open files into the stored session",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := pslog.Ctx(ctx)
			direction, ok := schema.ParseSplitDirection(split)
			if !ok {
				return fmt.Errorf("unknown split direction %q", split)
			}
			app, err := openApp(ctx, *cfgPath)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			if _, err := app.Start(ctx); err != nil {
				return err
			}
			known, err := app.KnownFiles(ctx)
			if err != nil {
				return err
			}
			resolver := core.NewFileResolver(known)
			session := app.Session()
			var events <-chan eventbus.Event
			if showEvents {
				ch, cancel := app.Events().Subscribe()
				defer cancel()
				events = ch
			}

			if direction != schema.SplitNone && !session.SplitPane(direction) {
				logger.Warn("session already split", "direction", direction)
			}
			target := session.ActivePane()
			if paneIndex > 0 {
				ids := session.PaneIDs()
				if paneIndex > len(ids) {
					return fmt.Errorf("pane %d does not exist (have %d)", paneIndex, len(ids))
				}
				target = ids[paneIndex-1]
			}
			for _, arg := range args {
				path, err := filepath.Abs(arg)
				if err != nil {
					return err
				}
				file, found := resolver.Resolve(path)
				if !found {
					logger.Warn("file is outside the catalog and will not survive a restart", "path", path)
					file = schema.FileRef{Path: path}
				}
				if _, err := session.OpenFile(ctx, file, target); err != nil {
					return err
				}
			}
			if err := app.Flush(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if events != nil {
				renderEvents(out, events)
			}
			renderSession(out, session.Snapshot())
			return nil
		},
	}
	cmd.Flags().IntVarP(&paneIndex, "pane", "p", 0, "1-based pane to open into (default: active pane)")
	cmd.Flags().StringVar(&split, "split", "", "split the layout first (side-by-side|stacked)")
	cmd.Flags().BoolVar(&showEvents, "events", false, "print the session events the command produced")
	return cmd
}

func newSessionResetCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context(), *cfgPath)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			return app.Reset()
		},
	}
}

func renderSession(w io.Writer, snap schema.SessionSnapshot) {
	for _, line := range format.NewPlainRenderer().FormatSession(snap) {
		_, _ = fmt.Fprintln(w, line)
	}
}

// renderEvents drains the events buffered so far without blocking.
func renderEvents(w io.Writer, events <-chan eventbus.Event) {
	renderer := format.NewPlainRenderer()
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			for _, line := range renderer.FormatEvent(event) {
				_, _ = fmt.Fprintln(w, line)
			}
		default:
			return
		}
	}
}
