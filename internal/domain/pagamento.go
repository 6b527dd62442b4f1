package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// StatusPagamento é o estado comum a todas as formas de pagamento.
type StatusPagamento string

const (
	StatusPendente StatusPagamento = "PENDENTE"
	StatusPago     StatusPagamento = "PAGO"
)

// ParseStatusPagamento aceita o nome sem diferenciar maiúsculas.
func ParseStatusPagamento(s string) (StatusPagamento, bool) {
	switch StatusPagamento(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusPendente:
		return StatusPendente, true
	case StatusPago:
		return StatusPago, true
	}
	return "", false
}

// FormaPagamento é o discriminador gravado junto ao pagamento.
type FormaPagamento string

const (
	FormaPix    FormaPagamento = "PIX"
	FormaBoleto FormaPagamento = "BOLETO"
	FormaCartao FormaPagamento = "CARTAO"
)

// Nome devolve o nome da forma como exibido na resposta do pedido ("Pix", "Boleto", "Cartao").
func (f FormaPagamento) Nome() string {
	switch f {
	case FormaPix:
		return "Pix"
	case FormaBoleto:
		return "Boleto"
	case FormaCartao:
		return "Cartao"
	}
	return ""
}

// MetodoPagamento é a parte variável do Pagamento. Só Pix, Boleto e Cartao a implementam.
type MetodoPagamento interface {
	Forma() FormaPagamento
	metodoPagamento()
}

type Pix struct {
	Chave string `json:"chave"`
}

type Boleto struct {
	CodigoBarras   string `json:"codigoBarras"`
	DataVencimento Data   `json:"dataVencimento"`
}

type Cartao struct {
	NumeroCartao   string `json:"numeroCartao"`
	NomeTitular    string `json:"nomeTitular"`
	DataVencimento Data   `json:"dataVencimento"`
}

func (Pix) Forma() FormaPagamento    { return FormaPix }
func (Boleto) Forma() FormaPagamento { return FormaBoleto }
func (Cartao) Forma() FormaPagamento { return FormaCartao }

func (Pix) metodoPagamento()    {}
func (Boleto) metodoPagamento() {}
func (Cartao) metodoPagamento() {}

// Pagamento guarda o par status/data comum e exatamente uma forma concreta.
type Pagamento struct {
	ID            int64
	Status        StatusPagamento
	DataPagamento *time.Time
	Metodo        MetodoPagamento
}

// NovoPagamento cria um pagamento pendente, ainda sem data.
func NovoPagamento(metodo MetodoPagamento) Pagamento {
	return Pagamento{Status: StatusPendente, Metodo: metodo}
}

// Forma devolve o discriminador da forma concreta, ou "" se não houver.
func (p Pagamento) Forma() FormaPagamento {
	if p.Metodo == nil {
		return ""
	}
	return p.Metodo.Forma()
}

// MarcarPago define o status PAGO com a data informada.
func (p *Pagamento) MarcarPago(em time.Time) {
	p.Status = StatusPago
	p.DataPagamento = &em
}

// AlterarStatus aplica o novo status; PAGO registra a data, PENDENTE a limpa.
func (p *Pagamento) AlterarStatus(status StatusPagamento, em time.Time) {
	if status == StatusPago {
		p.MarcarPago(em)
		return
	}
	p.Status = status
	p.DataPagamento = nil
}

// MarshalJSON achata a forma concreta junto dos campos comuns.
func (p Pagamento) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{}
	if p.Metodo != nil {
		raw, err := json.Marshal(p.Metodo)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, err
		}
	}
	out["id"] = p.ID
	out["formaPagamento"] = p.Forma().Nome()
	out["statusPagamento"] = p.Status
	out["dataPagamento"] = p.DataPagamento
	return json.Marshal(out)
}

// Data é uma data sem horário, serializada como "2006-01-02".
type Data struct {
	time.Time
}

const layoutData = "2006-01-02"

// NovaData monta uma Data a partir de ano, mês e dia.
func NovaData(ano int, mes time.Month, dia int) Data {
	return Data{time.Date(ano, mes, dia, 0, 0, 0, 0, time.UTC)}
}

func (d Data) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(layoutData))
}

func (d *Data) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		d.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(layoutData, s)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, s); err != nil {
			return fmt.Errorf("data inválida %q, use AAAA-MM-DD", s)
		}
	}
	d.Time = t
	return nil
}
