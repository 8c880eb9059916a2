package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/axellelanca/creatorverse/cmd"
	customerrors "github.com/axellelanca/creatorverse/internal/errors"
	"github.com/axellelanca/creatorverse/internal/forms"
)

var (
	editFields  forms.Fields
	editRetries int
)

// EditCmd représente la commande 'edit'
var EditCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Modifie un créateur existant.",
	Long: `Cette commande charge le créateur, remplace les champs passés en flags et
enregistre le formulaire. L'URL ne doit pas être utilisée par un autre créateur.

Exemple:
  creatorverse edit 5b1c... --description="Now streaming on Fridays"`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	EditCmd.Flags().StringVar(&editFields.Name, "name", "", "New name")
	EditCmd.Flags().StringVar(&editFields.URL, "url", "", "New profile URL")
	EditCmd.Flags().StringVar(&editFields.Description, "description", "", "New description")
	EditCmd.Flags().StringVar(&editFields.ImageURL, "image-url", "", "New image URL (empty to clear)")
	EditCmd.Flags().IntVar(&editRetries, "retries", 0, "Number of times to retry loading the creator")

	cmd.RootCmd.AddCommand(EditCmd)
}

// runEdit exécute la logique pour la commande edit
func runEdit(c *cobra.Command, args []string) error {
	id := args[0]

	backend, err := openStore(c.Context())
	if err != nil {
		return err
	}
	defer backend.Close()

	out := c.OutOrStdout()
	form := forms.NewEditForm(id, forms.Deps{
		Store:     backend,
		Navigator: pageNavigator(out, cmd.Cfg.Server.BaseURL),
		Logger:    cmd.Logger,
	})

	err = form.Load(c.Context())
	for attempt := 0; err != nil && attempt < editRetries; attempt++ {
		cmd.Logger.Warn().Err(err).Int("attempt", attempt+1).Msg("retrying creator load")
		err = form.Retry(c.Context())
	}
	if err != nil {
		return fmt.Errorf("creator '%s' could not be loaded: %w", id, err)
	}

	// Only the flags given on the command line replace the loaded values.
	fields := form.Fields()
	flags := c.Flags()
	if flags.Changed("name") {
		fields.Name = editFields.Name
	}
	if flags.Changed("url") {
		fields.URL = editFields.URL
	}
	if flags.Changed("description") {
		fields.Description = editFields.Description
	}
	if flags.Changed("image-url") {
		fields.ImageURL = editFields.ImageURL
	}

	if err := form.Submit(c.Context(), fields); err != nil {
		var duplicate *customerrors.DuplicateURLError
		if errors.As(err, &duplicate) {
			fmt.Fprintln(c.ErrOrStderr(), form.ErrorMessage())
		}
		printFieldErrors(c.ErrOrStderr(), form.FieldErrors())
		return err
	}

	fmt.Fprintf(out, "Créateur %s mis à jour.\n", id)
	return nil
}
