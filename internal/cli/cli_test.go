package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashCmd(t *testing.T) {
	cmd := newHashCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"segredo123"})

	require.NoError(t, cmd.Execute())

	hash := strings.TrimSpace(out.String())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("segredo123")))
}

func TestHashCmd_SemSenha(t *testing.T) {
	cmd := newHashCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	assert.Error(t, cmd.Execute())
}

func TestUsuarioCriar_PerfilInvalidoNaoAbreOBanco(t *testing.T) {
	cmd := newUsuarioCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"criar", "--login", "admin", "--senha", "segredo123", "--perfil", "ROOT"})

	err := cmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "perfil inválido")
}

func TestUsuarioCriar_FlagsObrigatorias(t *testing.T) {
	cmd := newUsuarioCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"criar", "--login", "admin"})

	err := cmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "senha")
}
