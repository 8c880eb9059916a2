package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/axellelanca/creatorverse/cmd"
	"github.com/axellelanca/creatorverse/internal/forms"
)

var addFields forms.Fields

// AddCmd représente la commande 'add'
var AddCmd = &cobra.Command{
	Use:   "add",
	Short: "Ajoute un créateur au catalogue.",
	Long: `Cette commande remplit le formulaire de création et l'envoie au record store.

Exemple:
  creatorverse add --name="Ada" --url="https://ada.dev" --description="Writes about engines"`,
	RunE: func(c *cobra.Command, args []string) error {
		backend, err := openStore(c.Context())
		if err != nil {
			return err
		}
		defer backend.Close()

		out := c.OutOrStdout()
		form := forms.NewCreationForm(forms.Deps{
			Store:     backend,
			Navigator: pageNavigator(out, cmd.Cfg.Server.BaseURL),
			Logger:    cmd.Logger,
		})

		id, err := form.Submit(c.Context(), addFields)
		if err != nil {
			printFieldErrors(c.ErrOrStderr(), form.FieldErrors())
			return err
		}

		fmt.Fprintf(out, "Créateur ajouté avec succès:\n")
		fmt.Fprintf(out, "ID: %s\n", id)
		return nil
	},
}

func init() {
	AddCmd.Flags().StringVar(&addFields.Name, "name", "", "Name of the creator")
	AddCmd.Flags().StringVar(&addFields.URL, "url", "", "Profile URL of the creator")
	AddCmd.Flags().StringVar(&addFields.Description, "description", "", "Short description")
	AddCmd.Flags().StringVar(&addFields.ImageURL, "image-url", "", "Optional image URL")

	AddCmd.MarkFlagRequired("name")
	AddCmd.MarkFlagRequired("url")
	AddCmd.MarkFlagRequired("description")

	cmd.RootCmd.AddCommand(AddCmd)
}
