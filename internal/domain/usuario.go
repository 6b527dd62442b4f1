package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Perfil controla o acesso aos endpoints.
type Perfil int

const (
	PerfilADM  Perfil = 1
	PerfilUSER Perfil = 2
)

// String devolve o nome usado no token e nas rotas ("ADM", "USER").
func (p Perfil) String() string {
	switch p {
	case PerfilADM:
		return "ADM"
	case PerfilUSER:
		return "USER"
	}
	return ""
}

// Label devolve o nome de exibição.
func (p Perfil) Label() string {
	switch p {
	case PerfilADM:
		return "Administrador"
	case PerfilUSER:
		return "Usuário"
	}
	return ""
}

// ParsePerfil aceita "ADM", "USER" ou os IDs 1 e 2.
func ParsePerfil(s string) (Perfil, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ADM", "1":
		return PerfilADM, nil
	case "USER", "2":
		return PerfilUSER, nil
	}
	return 0, fmt.Errorf("perfil inválido: %q", s)
}

func (p Perfil) MarshalJSON() ([]byte, error) {
	if p.String() == "" {
		return []byte("null"), nil
	}
	return json.Marshal(p.String())
}

// Usuario representa quem faz login na API.
type Usuario struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	SenhaHash string `json:"-"` // Oculta o hash da senha no JSON de resposta
	Perfil    Perfil `json:"perfil"`
}

// AuthRequest é o payload do login.
type AuthRequest struct {
	Login string `json:"login"`
	Senha string `json:"senha"`
}

// UsuarioRequest é o payload de cadastro de usuário.
type UsuarioRequest struct {
	Login    string `json:"login"`
	Senha    string `json:"senha"`
	IDPerfil int    `json:"idPerfil"`
}
