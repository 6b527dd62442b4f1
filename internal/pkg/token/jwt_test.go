package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewService("segredo", "pranchashop-jwt", time.Hour)

	tokenString, err := svc.GenerateToken("maria", "USER")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "maria", claims.Login)
	assert.Equal(t, "USER", claims.Perfil)
	assert.Equal(t, "maria", claims.Subject)
}

func TestValidateToken_Expirado(t *testing.T) {
	svc := NewService("segredo", "pranchashop-jwt", time.Minute)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	tokenString, err := svc.GenerateToken("maria", "USER")
	require.NoError(t, err)

	_, err = svc.ValidateToken(tokenString)
	assert.Error(t, err)
}

func TestValidateToken_ChaveOuEmissorDiferente(t *testing.T) {
	tokenString, err := NewService("outra-chave", "pranchashop-jwt", time.Hour).GenerateToken("joao", "ADM")
	require.NoError(t, err)

	_, err = NewService("segredo", "pranchashop-jwt", time.Hour).ValidateToken(tokenString)
	assert.Error(t, err)

	tokenString, err = NewService("segredo", "outro-emissor", time.Hour).GenerateToken("joao", "ADM")
	require.NoError(t, err)

	_, err = NewService("segredo", "pranchashop-jwt", time.Hour).ValidateToken(tokenString)
	assert.Error(t, err)
}
