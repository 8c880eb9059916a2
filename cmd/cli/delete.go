package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/axellelanca/creatorverse/cmd"
	"github.com/axellelanca/creatorverse/internal/forms"
)

var deleteYes bool

// DeleteCmd représente la commande 'delete'
var DeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Supprime un créateur après confirmation.",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		id := args[0]

		backend, err := openStore(c.Context())
		if err != nil {
			return err
		}
		defer backend.Close()

		out := c.OutOrStdout()
		confirmer := promptConfirmer(c.InOrStdin(), out)
		if deleteYes {
			confirmer = alwaysConfirm
		}

		form := forms.NewEditForm(id, forms.Deps{
			Store:     backend,
			Navigator: pageNavigator(out, cmd.Cfg.Server.BaseURL),
			Confirmer: confirmer,
			Logger:    cmd.Logger,
		})
		if err := form.Load(c.Context()); err != nil {
			return fmt.Errorf("creator '%s' could not be loaded: %w", id, err)
		}

		deleted, err := form.Delete(c.Context())
		if err != nil {
			return err
		}
		if !deleted {
			fmt.Fprintln(out, "Suppression annulée.")
			return nil
		}
		fmt.Fprintf(out, "Créateur %s supprimé.\n", id)
		return nil
	},
}

func init() {
	DeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Delete without asking for confirmation")
	cmd.RootCmd.AddCommand(DeleteCmd)
}
