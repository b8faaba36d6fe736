package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"twapvault/handler"

	"github.com/drone/signal"
	"github.com/fox-one/pkg/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "run the twapvault api server",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		ctx = logger.WithContext(ctx, logger.FromContext(ctx))

		app := provideApplication(ctx)
		defer app.Close()

		port, _ := cmd.Flags().GetInt("port")
		addr := fmt.Sprintf(":%d", port)

		server := &http.Server{
			Addr:    addr,
			Handler: handler.New(app.system, app.ledger, app.oracle).Handler(),
		}

		ctx, quit := context.WithCancel(ctx)
		done := make(chan struct{}, 1)
		signal.WithContextFunc(ctx, func() {
			quit()

			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				logrus.WithError(err).Error("graceful shutdown server failed")
			}

			close(done)
		})

		g, gctx := errgroup.WithContext(ctx)

		// an in-memory ledger is only reachable from this process
		if withWorkers, _ := cmd.Flags().GetBool("workers"); withWorkers || app.db == nil {
			for _, w := range provideWorkers(app) {
				w := w
				g.Go(func() error { return w.Run(gctx) })
			}
		}

		logrus.Infoln("serve at", addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("server aborted")
		}

		<-done
		if err := g.Wait(); err != nil {
			logrus.WithError(err).Errorln("workers")
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().IntP("port", "p", 9000, "server port")
	serverCmd.Flags().Bool("workers", false, "run the keeper, monitor and sweeper in this process")
}
