package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/axellelanca/creatorverse/cmd"
	"github.com/axellelanca/creatorverse/internal/repository"
	"github.com/axellelanca/creatorverse/internal/services"
)

// ListCmd représente la commande 'list'
var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Liste les créateurs du catalogue, triés par nom.",
	Args:  cobra.NoArgs,
	RunE: func(c *cobra.Command, args []string) error {
		backend, err := openStore(c.Context())
		if err != nil {
			return err
		}
		defer backend.Close()

		creators, err := services.NewCreatorService(repository.NewCreatorRepository(backend)).ListCreators(c.Context())
		if err != nil {
			return err
		}
		if len(creators) == 0 {
			fmt.Fprintln(c.OutOrStdout(), "Aucun créateur.")
			return nil
		}

		w := tabwriter.NewWriter(c.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tURL")
		for _, creator := range creators {
			fmt.Fprintf(w, "%s\t%s\t%s\n", creator.ID, creator.Name, creator.URL)
		}
		return w.Flush()
	},
}

func init() {
	cmd.RootCmd.AddCommand(ListCmd)
}
