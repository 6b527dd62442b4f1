package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Marca representa o fabricante de pranchas.
type Marca struct {
	ID         int64  `json:"id"`
	Nome       string `json:"nome"`
	PaisOrigem string `json:"paisOrigem"`
}

// Modelo pertence a uma Marca.
type Modelo struct {
	ID      int64  `json:"id"`
	Nome    string `json:"nome"`
	IDMarca int64  `json:"idMarca"`
}

// TipoQuilha classifica as quilhas (ex.: Single Fin, Thruster).
type TipoQuilha struct {
	ID   int64  `json:"id"`
	Nome string `json:"nome"`
}

// Quilha é a peça instalada na prancha.
type Quilha struct {
	ID              int64  `json:"id"`
	DescricaoQuilha string `json:"descricaoQuilha"`
	IDTipoQuilha    int64  `json:"idTipoQuilha"`
}

// Prancha é o produto vendido. Estoque nunca fica negativo.
type Prancha struct {
	ID          int64       `json:"id"`
	Tamanho     float64     `json:"tamanho"`
	Valor       float64     `json:"valor"`
	Estoque     int         `json:"estoque"`
	TipoPrancha TipoPrancha `json:"tipoPrancha"`
	Habilidade  Habilidade  `json:"habilidade"`
	IDMarca     int64       `json:"idMarca"`
	IDModelo    int64       `json:"idModelo"`
	IDQuilha    int64       `json:"idQuilha"`
}

// --- Enumerações (persistidas pelo ID, serializadas pelo nome) ---

// TipoPrancha é o formato da prancha.
type TipoPrancha int

const (
	Shortboard TipoPrancha = iota + 1
	Longboard
	Funboard
	Fish
	Gun
)

var tiposPrancha = []struct {
	tipo  TipoPrancha
	nome  string
	label string
}{
	{Shortboard, "SHORTBOARD", "Shortboard"},
	{Longboard, "LONGBOARD", "Longboard"},
	{Funboard, "FUNBOARD", "Funboard"},
	{Fish, "FISH", "Fish"},
	{Gun, "GUN", "Gun"},
}

// String devolve o nome da constante (ex.: "SHORTBOARD").
func (t TipoPrancha) String() string {
	for _, tp := range tiposPrancha {
		if tp.tipo == t {
			return tp.nome
		}
	}
	return fmt.Sprintf("TipoPrancha(%d)", int(t))
}

// Label devolve o nome de exibição.
func (t TipoPrancha) Label() string {
	for _, tp := range tiposPrancha {
		if tp.tipo == t {
			return tp.label
		}
	}
	return ""
}

// Valido indica se o ID pertence à enumeração.
func (t TipoPrancha) Valido() bool { return t.Label() != "" }

// ParseTipoPrancha aceita o nome (sem diferenciar maiúsculas) ou o ID numérico.
func ParseTipoPrancha(s string) (TipoPrancha, error) {
	s = strings.TrimSpace(s)
	for _, tp := range tiposPrancha {
		if strings.EqualFold(tp.nome, s) || fmt.Sprint(int(tp.tipo)) == s {
			return tp.tipo, nil
		}
	}
	return 0, fmt.Errorf("tipo de prancha inválido: %q", s)
}

func (t TipoPrancha) MarshalJSON() ([]byte, error) {
	if !t.Valido() {
		return []byte("null"), nil
	}
	return json.Marshal(t.String())
}

func (t *TipoPrancha) UnmarshalJSON(b []byte) error {
	parsed, err := parseEnumJSON(b, ParseTipoPrancha)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Habilidade é o nível do surfista indicado para a prancha.
type Habilidade int

const (
	Iniciante Habilidade = iota + 1
	Intermediario
	Avancado
)

var habilidades = []struct {
	habilidade Habilidade
	nome       string
	label      string
}{
	{Iniciante, "INICIANTE", "Iniciante"},
	{Intermediario, "INTERMEDIARIO", "Intermediário"},
	{Avancado, "AVANCADO", "Avançado"},
}

func (h Habilidade) String() string {
	for _, hb := range habilidades {
		if hb.habilidade == h {
			return hb.nome
		}
	}
	return fmt.Sprintf("Habilidade(%d)", int(h))
}

func (h Habilidade) Label() string {
	for _, hb := range habilidades {
		if hb.habilidade == h {
			return hb.label
		}
	}
	return ""
}

func (h Habilidade) Valido() bool { return h.Label() != "" }

// ParseHabilidade aceita o nome (sem diferenciar maiúsculas) ou o ID numérico.
func ParseHabilidade(s string) (Habilidade, error) {
	s = strings.TrimSpace(s)
	for _, hb := range habilidades {
		if strings.EqualFold(hb.nome, s) || fmt.Sprint(int(hb.habilidade)) == s {
			return hb.habilidade, nil
		}
	}
	return 0, fmt.Errorf("habilidade inválida: %q", s)
}

func (h Habilidade) MarshalJSON() ([]byte, error) {
	if !h.Valido() {
		return []byte("null"), nil
	}
	return json.Marshal(h.String())
}

func (h *Habilidade) UnmarshalJSON(b []byte) error {
	parsed, err := parseEnumJSON(b, ParseHabilidade)
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// parseEnumJSON aceita "NOME", número ou null (valor zero, rejeitado depois pela validação).
func parseEnumJSON[E ~int](b []byte, parse func(string) (E, error)) (E, error) {
	if string(b) == "null" {
		return 0, nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		var n int
		if errNum := json.Unmarshal(b, &n); errNum != nil {
			return 0, err
		}
		s = fmt.Sprint(n)
	}
	return parse(s)
}
