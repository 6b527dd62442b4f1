package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"pranchashop/internal/service/authservice"
)

func newHashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash <senha>",
		Short: "Gera o hash bcrypt de uma senha para inserir direto em usuarios.senha",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := authservice.HashSenha(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return err
		},
	}
}
