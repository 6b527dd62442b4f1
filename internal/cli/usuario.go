package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"pranchashop/internal/domain"
	"pranchashop/internal/pkg/logger"
	"pranchashop/internal/pkg/token"
	"pranchashop/internal/repository/usuariorepo"
	"pranchashop/internal/service/authservice"
)

func newUsuarioCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "usuario",
		Short: "Gerencia usuários da API",
	}
	cmd.AddCommand(newUsuarioCriarCmd())
	return cmd
}

func newUsuarioCriarCmd() *cobra.Command {
	var (
		login  string
		senha  string
		perfil string
	)

	cmd := &cobra.Command{
		Use:   "criar",
		Short: "Cadastra um usuário (use --perfil ADM para o primeiro administrador)",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := domain.ParsePerfil(perfil)
			if err != nil {
				return err
			}

			cfg, db, err := conectar()
			if err != nil {
				return err
			}
			defer db.Close()

			log := logger.NewLogger(cfg.LogLevel)
			svc := authservice.NewService(
				usuariorepo.NewUsuarioRepository(db, cfg.DBTimeout, log),
				token.NewService(cfg.JWTSecretKey, cfg.JWTIssuer, cfg.TokenExpiry),
				log,
			)

			u, err := svc.CreateUsuario(cmd.Context(), domain.UsuarioRequest{Login: login, Senha: senha, IDPerfil: int(p)})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Usuário %q criado com id %d (perfil %s)\n", u.Login, u.ID, u.Perfil)
			return nil
		},
	}

	cmd.Flags().StringVar(&login, "login", "", "login do usuário")
	cmd.Flags().StringVar(&senha, "senha", "", "senha (mínimo 6 caracteres)")
	cmd.Flags().StringVar(&perfil, "perfil", "USER", "ADM ou USER")
	_ = cmd.MarkFlagRequired("login")
	_ = cmd.MarkFlagRequired("senha")
	return cmd
}
