package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/axellelanca/creatorverse/cmd"
	customerrors "github.com/axellelanca/creatorverse/internal/errors"
	"github.com/axellelanca/creatorverse/internal/forms"
	"github.com/axellelanca/creatorverse/internal/repository"
	"github.com/axellelanca/creatorverse/internal/services"
)

// ShowCmd représente la commande 'show'
var ShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Affiche un créateur",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	cmd.RootCmd.AddCommand(ShowCmd)
}

// runShow exécute la logique pour la commande show
func runShow(c *cobra.Command, args []string) error {
	id := args[0]

	backend, err := openStore(c.Context())
	if err != nil {
		return err
	}
	defer backend.Close()

	creatorService := services.NewCreatorService(repository.NewCreatorRepository(backend))

	creator, err := creatorService.GetCreator(c.Context(), id)
	if err != nil {
		if errors.Is(err, customerrors.ErrCreatorNotFound) {
			return fmt.Errorf("creator '%s' not found", id)
		}
		return fmt.Errorf("error retrieving creator: %w", err)
	}

	out := c.OutOrStdout()
	fmt.Fprintf(out, "Nom: %s\n", creator.Name)
	fmt.Fprintf(out, "URL: %s\n", creator.URL)
	fmt.Fprintf(out, "Description: %s\n", creator.Description)
	if creator.ImageURL != "" {
		fmt.Fprintf(out, "Image: %s\n", creator.ImageURL)
	}
	fmt.Fprintf(out, "Page: %s%s\n", cmd.Cfg.Server.BaseURL, forms.DetailRoute(creator.ID))
	return nil
}
