package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/spfmt/internal"
	"github.com/gnolang/spfmt/internal/fixer"
	"github.com/gnolang/spfmt/pipeline"
)

var watchWrite bool

var watchCmd = &cobra.Command{
	Use:   "watch [dirs...]",
	Short: "Reprocess templates whenever they change",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			args = []string{"."}
		}

		config, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		config.Format = true

		engine, err := pipeline.New(config, logger)
		if err != nil {
			return err
		}

		fix := fixer.New(!watchWrite, cmd.OutOrStdout())
		w, err := internal.NewWatcher(engine, logger, config.Extensions, func(res internal.Result) {
			printIssues(cmd.ErrOrStderr(), []internal.Result{res})
			if res.Failed() {
				return
			}
			if _, err := fix.Fix(res.Filename, res.Original, res.Output); err != nil {
				logger.Error("error writing result", zap.String("file", res.Filename), zap.Error(err))
			}
		})
		if err != nil {
			return err
		}

		if err := w.Start(args); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Watching %v, press Ctrl+C to stop\n", args)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		<-ctx.Done()

		return w.Stop()
	},
}

func init() {
	watchCmd.Flags().BoolVarP(&watchWrite, "write", "w", false, "Write results back instead of printing diffs")
}
