package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/abhisek/timu/internal/bank"
	"github.com/abhisek/timu/internal/bankserver"
	"github.com/abhisek/timu/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve question bank files over HTTP",
	Long: "Serve bank documents so another timu can load them with\n" +
		"--banks http://<addr>/banks/. Serves the built-in banks unless --dir is given.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log, closeLog, err := logger.New(logger.Options{
			Level:   cfg.Log.Level,
			File:    cfg.Log.File,
			Console: os.Stderr,
		})
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer closeLog()

		addr, _ := cmd.Flags().GetString("addr")
		dir, _ := cmd.Flags().GetString("dir")

		var fsys fs.FS = bank.EmbeddedFS()
		if dir != "" {
			fsys = os.DirFS(dir)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		gin.SetMode(gin.ReleaseMode)
		fmt.Fprintf(cmd.OutOrStdout(), "Serving banks on http://%s/banks/\n", addr)
		return bankserver.Serve(ctx, addr, bankserver.NewRouter(fsys, log), log)
	},
}

func init() {
	serveCmd.Flags().String("addr", "127.0.0.1:8080", "Listen address")
	serveCmd.Flags().String("dir", "", "Directory of bank files (default: built-in banks)")
}
