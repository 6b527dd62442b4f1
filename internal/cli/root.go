// Package cli reúne os comandos administrativos do pranchactl.
package cli

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"pranchashop/config"
	"pranchashop/internal/pkg/database"
)

var rootCmd = &cobra.Command{
	Use:   "pranchactl",
	Short: "Ferramenta administrativa da PranchaShop",
	Long: `pranchactl aplica as migrações do banco, cadastra usuários da API
e gera hashes de senha sem precisar subir o servidor.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// .env opcional, como no servidor.
		_ = godotenv.Load()
	},
}

func init() {
	rootCmd.AddCommand(newMigrateCmd(), newUsuarioCmd(), newHashCmd())
}

// Execute roda o comando raiz.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Erro: %v\n", err)
		os.Exit(1)
	}
}

// conectar carrega a configuração e abre o banco; só os comandos que usam o DB chamam.
func conectar() (*config.Config, *sql.DB, error) {
	cfg := config.LoadConfig()
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}
