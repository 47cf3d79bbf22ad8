package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/tatianab/wikigen/internal/engine"
	"github.com/tatianab/wikigen/internal/logger"
	"github.com/tatianab/wikigen/internal/models"
)

func newRenderCmd(a *app) *cobra.Command {
	var fieldsPath, outPath string
	var offline bool

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the page once",
		Long: `Renders the page from the field store, or from a YAML snapshot given with
--fields, and writes it to stdout or to --out.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var store models.Store
			if fieldsPath != "" {
				fields, err := models.LoadFieldsFile(fieldsPath)
				if err != nil {
					return fmt.Errorf("load fields: %w", err)
				}
				store = models.NewMemoryStore(fields)
			} else {
				s, err := a.cfg.OpenStore()
				if err != nil {
					return fmt.Errorf("open store: %w", err)
				}
				store = s
			}
			defer store.Close()

			var sink engine.Sink = engine.WriterSink{W: cmd.OutOrStdout()}
			if outPath != "" {
				sink = engine.FileSink{Path: outPath}
			}

			pass, err := engine.NewPipeline(a.newEngine(offline), store, sink).Run(cmd.Context())
			if err != nil {
				return err
			}
			logger.Info("page rendered", "pass", pass.ID, "bytes", len(pass.Output), "out", outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&fieldsPath, "fields", "", "render from this YAML snapshot instead of the store")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the page to this file instead of stdout")
	cmd.Flags().BoolVar(&offline, "offline", false, "skip type lookups")
	return cmd
}

func newWatchCmd(a *app) *cobra.Command {
	var fieldsPath, outPath string
	var offline bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-render the page whenever a field snapshot changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store := models.NewMemoryStore(nil)
			p := engine.NewPipeline(a.newEngine(offline), store, engine.FileSink{Path: outPath})

			return watchFile(ctx, fieldsPath, 200*time.Millisecond, func() {
				fields, err := models.LoadFieldsFile(fieldsPath)
				if err != nil {
					logger.Warning("cannot read fields snapshot", "path", fieldsPath, "err", err)
					return
				}
				if err := replaceFields(store, fields); err != nil {
					logger.Error("cannot load fields", "err", err)
					return
				}
				pass, err := p.Run(ctx)
				if err != nil {
					logger.Error("render failed", "pass", pass.ID, "err", err)
					return
				}
				logger.Info("page rendered", "pass", pass.ID, "out", outPath)
			})
		},
	}

	cmd.Flags().StringVar(&fieldsPath, "fields", "", "YAML snapshot to watch")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "file the page is written to")
	cmd.Flags().BoolVar(&offline, "offline", false, "skip type lookups")
	_ = cmd.MarkFlagRequired("fields")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

// replaceFields makes store hold exactly fields.
func replaceFields(store models.Store, fields models.Fields) error {
	if err := store.Clear(); err != nil {
		return err
	}
	for k, v := range fields {
		if err := store.Write(k, v); err != nil {
			return err
		}
	}
	return nil
}

// watchFile calls onChange once the watch is set up and again after every
// burst of writes to path, until ctx is done. The parent directory is watched
// so editors that replace the file by renaming are still followed.
func watchFile(ctx context.Context, path string, debounce time.Duration, onChange func()) error {
	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}
	logger.Info("watching fields", "path", target)
	onChange()

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				pending = time.After(debounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				pending = time.After(debounce)
			}
			logger.Warning("watch error", "err", err)
		case <-pending:
			pending = nil
			onChange()
		}
	}
}
