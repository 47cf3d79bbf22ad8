package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tatianab/wikigen/internal/logger"
	"github.com/tatianab/wikigen/internal/models"
)

func newSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <field-id> <value|->",
		Short: "Save one field",
		Long: `Saves one raw field value to the store. A value of "-" reads it from stdin.

Field ids: ` + strings.Join(models.FieldIDs(), ", "),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, value := args[0], args[1]
			if err := models.ValidateField(id); err != nil {
				return err
			}
			if value == "-" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				value = strings.TrimSuffix(string(data), "\n")
			}

			store, err := a.cfg.OpenStore()
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer store.Close()

			if err := store.Write(id, value); err != nil {
				return err
			}
			logger.Info("field saved", "field", id, "bytes", len(value))
			return nil
		},
	}
}

func newClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Reset every field to empty",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.cfg.OpenStore()
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer store.Close()

			if err := store.Clear(); err != nil {
				return err
			}
			logger.Info("fields cleared", "store", a.cfg.Store.Path)
			return nil
		},
	}
}
