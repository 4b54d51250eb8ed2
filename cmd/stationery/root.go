package main

import (
	"context"

	"github.com/spf13/cobra"

	"stationery/internal/app"
	appctx "stationery/internal/core/context"
	"stationery/internal/domain/views"
)

type opener func(ctx context.Context) (*app.App, error)

type cli struct {
	open opener
	app  *app.App
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "stationery",
		Short:         "Operate the stationery report and stock tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
		// Each invocation gets its own trace id in the logs.
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(appctx.WithTrace(cmd.Context(), appctx.NewTraceContext("", "")))
		},
	}

	root.AddCommand(
		c.stockCmd(),
		c.reportsCmd(),
		c.exportCmd(),
		c.importCmd(),
		c.migrateCmd(),
	)
	return root
}

// close releases the application if a command opened it.
func (c *cli) close() error {
	if c.app == nil {
		return nil
	}
	err := c.app.Close()
	c.app = nil
	return err
}

// tracker opens the application on first use.
func (c *cli) tracker(cmd *cobra.Command) (*app.App, error) {
	if c.app != nil {
		return c.app, nil
	}
	a, err := c.open(cmd.Context())
	if err != nil {
		return nil, err
	}
	c.app = a
	return a, nil
}

func bindFilter(cmd *cobra.Command, f *views.Filter) {
	flags := cmd.Flags()
	flags.StringVar(&f.Campus, "campus", "", "only reports for this campus")
	flags.StringVar(&f.Month, "month", "", "only reports imported in this month (YYYY-MM)")
	flags.StringVar(&f.Week, "week", "", "only reports imported in the week containing this date (YYYY-MM-DD)")
	flags.StringVar(&f.Search, "search", "", "only reports whose item summary contains this text")
	flags.StringVar(&f.Expression, "expr", "", "CEL expression every report must satisfy")
}
