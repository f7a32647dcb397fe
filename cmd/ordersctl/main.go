package main

import (
	"context"
	"os"
	"os/signal"
	"strings"

	"orderdesk/internal/app"
	"orderdesk/internal/config"
	"orderdesk/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	a, err := app.New(cfg)
	if err != nil {
		logger.L().Error("failed to start", zap.Error(err))
		return 1
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(a).ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}

// newRootCmd builds one cobra command per binding; the words of a trigger
// become nested commands ("orders pay" is `ordersctl orders pay`).
func newRootCmd(a *app.App) *cobra.Command {
	root := &cobra.Command{
		Use:          "ordersctl",
		Short:        "Manage customers, products and orders",
		SilenceUsage: true,
	}

	groups := map[string]*cobra.Command{}
	for _, b := range a.Bindings() {
		path := b.Path()

		parent := root
		for i, word := range path[:len(path)-1] {
			key := strings.Join(path[:i+1], " ")
			group, ok := groups[key]
			if !ok {
				group = &cobra.Command{Use: word, Short: "Commands for " + word}
				groups[key] = group
				parent.AddCommand(group)
			}
			parent = group
		}

		parent.AddCommand(leafCmd(a, b))
	}
	return root
}

func leafCmd(a *app.App, b app.Binding) *cobra.Command {
	path := b.Path()
	use := path[len(path)-1]
	if b.Usage != "" {
		use += " " + b.Usage
	}

	values := make(map[string]*string, len(b.Flags))
	cmd := &cobra.Command{
		Use:   use,
		Short: b.Summary,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := make(map[string]string, len(values))
			for name, v := range values {
				flags[name] = *v
			}
			return a.Dispatch(cmd.Context(), b.Trigger, app.Request{
				Args:  args,
				Flags: flags,
				In:    cmd.InOrStdin(),
				Out:   cmd.OutOrStdout(),
			})
		},
	}
	for _, f := range b.Flags {
		values[f.Name] = cmd.Flags().String(f.Name, f.Default, f.Usage)
	}
	return cmd
}
