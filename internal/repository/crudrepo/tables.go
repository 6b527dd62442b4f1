package crudrepo

import (
	"database/sql"
	"fmt"
	"time"

	"pranchashop/internal/domain"
)

var TelefoneTable = Table[domain.Telefone]{
	Name:    "telefones",
	Columns: []string{"ddd", "numero"},
	Values:  func(t domain.Telefone) []interface{} { return []interface{}{t.Ddd, t.Numero} },
	Scan: func(s Scanner) (domain.Telefone, error) {
		var t domain.Telefone
		err := s.Scan(&t.ID, &t.Ddd, &t.Numero)
		return t, err
	},
	SetID: func(t *domain.Telefone, id int64) { t.ID = id },
}

var EnderecoTable = Table[domain.Endereco]{
	Name:    "enderecos",
	Columns: []string{"cidade", "estado", "cep"},
	Values:  func(e domain.Endereco) []interface{} { return []interface{}{e.Cidade, e.Estado, e.Cep} },
	Scan: func(s Scanner) (domain.Endereco, error) {
		var e domain.Endereco
		err := s.Scan(&e.ID, &e.Cidade, &e.Estado, &e.Cep)
		return e, err
	},
	SetID: func(e *domain.Endereco, id int64) { e.ID = id },
}

var MarcaTable = Table[domain.Marca]{
	Name:    "marcas",
	Columns: []string{"nome", "pais_origem"},
	OrderBy: "nome",
	Values:  func(m domain.Marca) []interface{} { return []interface{}{m.Nome, m.PaisOrigem} },
	Scan: func(s Scanner) (domain.Marca, error) {
		var m domain.Marca
		err := s.Scan(&m.ID, &m.Nome, &m.PaisOrigem)
		return m, err
	},
	SetID: func(m *domain.Marca, id int64) { m.ID = id },
}

var ModeloTable = Table[domain.Modelo]{
	Name:    "modelos",
	Columns: []string{"nome", "id_marca"},
	OrderBy: "nome",
	Values:  func(m domain.Modelo) []interface{} { return []interface{}{m.Nome, m.IDMarca} },
	Scan: func(s Scanner) (domain.Modelo, error) {
		var m domain.Modelo
		err := s.Scan(&m.ID, &m.Nome, &m.IDMarca)
		return m, err
	},
	SetID: func(m *domain.Modelo, id int64) { m.ID = id },
}

var TipoQuilhaTable = Table[domain.TipoQuilha]{
	Name:    "tipos_quilha",
	Columns: []string{"nome"},
	OrderBy: "nome",
	Values:  func(t domain.TipoQuilha) []interface{} { return []interface{}{t.Nome} },
	Scan: func(s Scanner) (domain.TipoQuilha, error) {
		var t domain.TipoQuilha
		err := s.Scan(&t.ID, &t.Nome)
		return t, err
	},
	SetID: func(t *domain.TipoQuilha, id int64) { t.ID = id },
}

var QuilhaTable = Table[domain.Quilha]{
	Name:    "quilhas",
	Columns: []string{"descricao_quilha", "id_tipo_quilha"},
	Values:  func(q domain.Quilha) []interface{} { return []interface{}{q.DescricaoQuilha, q.IDTipoQuilha} },
	Scan: func(s Scanner) (domain.Quilha, error) {
		var q domain.Quilha
		err := s.Scan(&q.ID, &q.DescricaoQuilha, &q.IDTipoQuilha)
		return q, err
	},
	SetID: func(q *domain.Quilha, id int64) { q.ID = id },
}

var PranchaTable = Table[domain.Prancha]{
	Name:    "pranchas",
	Columns: []string{"tamanho", "valor", "estoque", "tipo_prancha", "habilidade", "id_marca", "id_modelo", "id_quilha"},
	Values: func(p domain.Prancha) []interface{} {
		return []interface{}{p.Tamanho, p.Valor, p.Estoque, int(p.TipoPrancha), int(p.Habilidade), p.IDMarca, p.IDModelo, p.IDQuilha}
	},
	Scan: func(s Scanner) (domain.Prancha, error) {
		var p domain.Prancha
		var tipo, habilidade int
		err := s.Scan(&p.ID, &p.Tamanho, &p.Valor, &p.Estoque, &tipo, &habilidade, &p.IDMarca, &p.IDModelo, &p.IDQuilha)
		p.TipoPrancha = domain.TipoPrancha(tipo)
		p.Habilidade = domain.Habilidade(habilidade)
		return p, err
	},
	SetID: func(p *domain.Prancha, id int64) { p.ID = id },
}

// Telefone de Cliente, Fornecedor e Administrador fica nas colunas ddd/numero do próprio dono.

var ClienteTable = Table[domain.Cliente]{
	Name:    "clientes",
	Columns: []string{"nome", "cpf", "ddd", "numero"},
	OrderBy: "nome",
	Values: func(c domain.Cliente) []interface{} {
		return []interface{}{c.Nome, c.Cpf, c.Telefone.Ddd, c.Telefone.Numero}
	},
	Scan: func(s Scanner) (domain.Cliente, error) {
		var c domain.Cliente
		err := s.Scan(&c.ID, &c.Nome, &c.Cpf, &c.Telefone.Ddd, &c.Telefone.Numero)
		return c, err
	},
	SetID: func(c *domain.Cliente, id int64) { c.ID = id },
}

var FornecedorTable = Table[domain.Fornecedor]{
	Name:    "fornecedores",
	Columns: []string{"nome", "cnpj", "ddd", "numero"},
	OrderBy: "nome",
	Values: func(f domain.Fornecedor) []interface{} {
		return []interface{}{f.Nome, f.Cnpj, f.Telefone.Ddd, f.Telefone.Numero}
	},
	Scan: func(s Scanner) (domain.Fornecedor, error) {
		var f domain.Fornecedor
		err := s.Scan(&f.ID, &f.Nome, &f.Cnpj, &f.Telefone.Ddd, &f.Telefone.Numero)
		return f, err
	},
	SetID: func(f *domain.Fornecedor, id int64) { f.ID = id },
}

var AdministradorTable = Table[domain.Administrador]{
	Name:    "administradores",
	Columns: []string{"nome", "cargo", "status_adm", "ddd", "numero"},
	OrderBy: "nome",
	Values: func(a domain.Administrador) []interface{} {
		return []interface{}{a.Nome, a.Cargo, a.StatusAdm, a.Telefone.Ddd, a.Telefone.Numero}
	},
	Scan: func(s Scanner) (domain.Administrador, error) {
		var a domain.Administrador
		err := s.Scan(&a.ID, &a.Nome, &a.Cargo, &a.StatusAdm, &a.Telefone.Ddd, &a.Telefone.Numero)
		return a, err
	},
	SetID: func(a *domain.Administrador, id int64) { a.ID = id },
}

// --- Pagamentos: uma tabela só, discriminada pela coluna forma ---

// PagamentoColumns são as colunas graváveis de pagamentos, na ordem de PagamentoValues.
var PagamentoColumns = []string{
	"forma", "status", "data_pagamento", "chave", "codigo_barras", "numero_cartao", "nome_titular", "data_vencimento",
}

// PagamentoValues achata o pagamento nas colunas de PagamentoColumns; colunas de outras formas ficam NULL.
func PagamentoValues(p domain.Pagamento) []interface{} {
	var chave, codigo, numero, titular sql.NullString
	var vencimento sql.NullTime

	switch m := p.Metodo.(type) {
	case domain.Pix:
		chave = sql.NullString{String: m.Chave, Valid: true}
	case domain.Boleto:
		codigo = sql.NullString{String: m.CodigoBarras, Valid: true}
		vencimento = nullData(m.DataVencimento)
	case domain.Cartao:
		numero = sql.NullString{String: m.NumeroCartao, Valid: true}
		titular = sql.NullString{String: m.NomeTitular, Valid: true}
		vencimento = nullData(m.DataVencimento)
	}

	var dataPagamento sql.NullTime
	if p.DataPagamento != nil {
		dataPagamento = sql.NullTime{Time: *p.DataPagamento, Valid: true}
	}

	return []interface{}{string(p.Forma()), string(p.Status), dataPagamento, chave, codigo, numero, titular, vencimento}
}

func nullData(d domain.Data) sql.NullTime {
	if d.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: d.Time, Valid: true}
}

// PagamentoRow recebe as colunas lidas de pagamentos e remonta o pagamento.
type PagamentoRow struct {
	ID             int64
	Forma          string
	Status         string
	DataPagamento  sql.NullTime
	Chave          sql.NullString
	CodigoBarras   sql.NullString
	NumeroCartao   sql.NullString
	NomeTitular    sql.NullString
	DataVencimento sql.NullTime
}

// Dest devolve os destinos de Scan na ordem id + PagamentoColumns.
func (r *PagamentoRow) Dest() []interface{} {
	return []interface{}{
		&r.ID, &r.Forma, &r.Status, &r.DataPagamento, &r.Chave, &r.CodigoBarras, &r.NumeroCartao, &r.NomeTitular, &r.DataVencimento,
	}
}

// Pagamento converte a linha na forma concreta gravada.
func (r *PagamentoRow) Pagamento() (domain.Pagamento, error) {
	p := domain.Pagamento{ID: r.ID, Status: domain.StatusPagamento(r.Status)}
	if r.DataPagamento.Valid {
		t := r.DataPagamento.Time
		p.DataPagamento = &t
	}

	var vencimento domain.Data
	if r.DataVencimento.Valid {
		vencimento = domain.Data{Time: r.DataVencimento.Time.UTC().Truncate(24 * time.Hour)}
	}

	switch domain.FormaPagamento(r.Forma) {
	case domain.FormaPix:
		p.Metodo = domain.Pix{Chave: r.Chave.String}
	case domain.FormaBoleto:
		p.Metodo = domain.Boleto{CodigoBarras: r.CodigoBarras.String, DataVencimento: vencimento}
	case domain.FormaCartao:
		p.Metodo = domain.Cartao{NumeroCartao: r.NumeroCartao.String, NomeTitular: r.NomeTitular.String, DataVencimento: vencimento}
	default:
		return domain.Pagamento{}, fmt.Errorf("forma de pagamento desconhecida no banco: %q", r.Forma)
	}
	return p, nil
}

// PagamentoTable mapeia pagamentos; forma vazia lê todas as formas.
func PagamentoTable(forma domain.FormaPagamento) Table[domain.Pagamento] {
	t := Table[domain.Pagamento]{
		Name:    "pagamentos",
		Columns: PagamentoColumns,
		Values:  PagamentoValues,
		Scan: func(s Scanner) (domain.Pagamento, error) {
			var row PagamentoRow
			if err := s.Scan(row.Dest()...); err != nil {
				return domain.Pagamento{}, err
			}
			return row.Pagamento()
		},
		SetID: func(p *domain.Pagamento, id int64) { p.ID = id },
	}
	if forma != "" {
		t.Filter = fmt.Sprintf("forma = '%s'", forma)
	}
	return t
}
