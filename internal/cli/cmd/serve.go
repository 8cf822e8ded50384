package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bnema/tabsaver/internal/app/messaging"
	"github.com/bnema/tabsaver/internal/application/usecase"
	"github.com/bnema/tabsaver/internal/config"
	"github.com/bnema/tabsaver/internal/infrastructure/browser"
	"github.com/bnema/tabsaver/internal/infrastructure/nativemsg"
	"github.com/bnema/tabsaver/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the native messaging host on stdin/stdout",
	Long: `Run the native messaging session. The browser launches this command
itself via the native messaging manifest; running it from a terminal is
only useful for debugging with a scripted frame stream.

Logs go to stderr. stdout carries the messaging channel and must stay
clean.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	app := GetApp()
	cfg := app.Config

	ctx, stop := signal.NotifyContext(app.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log := logging.FromContext(ctx)

	codec := nativemsg.NewCodec(os.Stdin, os.Stdout)
	bridge := browser.NewBridge(codec, cfg.Bridge.CallTimeout)

	locator := usecase.NewLocateArchiveRootUseCase(bridge, cfg.Bookmarks.RootTitles)
	savings := usecase.NewRecordSavingsUseCase(app.Savings, nil)
	thaw := usecase.NewThawTabUseCase(bridge, bridge, bridge, app.States,
		cfg.Freeze.SettleDelay, cfg.Freeze.LoadTimeout)

	handler := messaging.NewHandler(bridge, messaging.UseCases{
		Archive: usecase.NewArchiveTabsUseCase(bridge, locator, nil),
		Dedupe:  usecase.NewDedupeArchivesUseCase(bridge, locator),
		Freeze: usecase.NewFreezeTabsUseCase(bridge, bridge, bridge, app.States,
			savings, cfg.Freeze.PlaceholderURL, nil),
		Thaw:           thaw,
		ThawMany:       usecase.NewThawTabsUseCase(app.States, thaw),
		ListFrozen:     usecase.NewListFrozenTabsUseCase(app.States),
		Savings:        savings,
		RecentArchives: usecase.NewListRecentArchivesUseCase(bridge, locator),
		Restore:        usecase.NewRestoreArchiveUseCase(bridge, bridge),
	}, nativemsg.NewEmitter(codec), nil)
	handler.SetDefaultFolderLabel(cfg.Bookmarks.DefaultFolderLabel)

	onStorageReset := func(ctx context.Context) error {
		return app.States.Clear(ctx)
	}
	host := nativemsg.NewHost(codec, handler, bridge, bridge, onStorageReset)

	// Config edits mid-session only take effect on the next session; the
	// watch just makes that visible in the logs.
	app.Manager.OnConfigChange(func(_ *config.Config) {
		log.Info().Msg("config file changed; restart the session to apply")
	})
	if err := app.Manager.Watch(); err != nil {
		log.Warn().Err(err).Msg("config watch unavailable")
	}

	log.Info().Str("version", app.BuildInfo.Version).Msg("native messaging session started")
	return host.Run(ctx)
}
