package cmd

import (
	"github.com/drone/signal"
	"github.com/fox-one/pkg/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "run the oracle keeper and registry workers",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := signal.WithContext(cmd.Context())
		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		app := provideApplication(ctx)
		defer app.Close()

		if app.db == nil {
			log.Warnln("no database configured, workers see an empty in-memory ledger")
		}

		g, ctx := errgroup.WithContext(ctx)
		for _, w := range provideWorkers(app) {
			w := w
			g.Go(func() error { return w.Run(ctx) })
		}

		if err := g.Wait(); err != nil {
			logrus.WithError(err).Fatal("worker aborted")
		}
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
