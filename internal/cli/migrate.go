package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"pranchashop/internal/pkg/database"
)

func newMigrateCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "migrate [up|down|status|version|redo|reset]",
		Short: "Aplica as migrações SQL com goose",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := conectar()
			if err != nil {
				return err
			}
			defer db.Close()

			command := "up"
			if len(args) > 0 {
				command = args[0]
			}
			if err := database.Migrate(db, dir, command, args[min(len(args), 1):]...); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "goose %s concluído\n", command)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "./sql", "diretório com os arquivos de migração")
	return cmd
}
