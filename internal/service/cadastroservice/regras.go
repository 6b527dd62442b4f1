package cadastroservice

import (
	"errors"
	"strconv"
	"strings"

	"pranchashop/internal/domain"
	apperror "pranchashop/internal/errors"
)

func obrigatorio(campo, valor, msg string) error {
	if strings.TrimSpace(valor) == "" {
		return apperror.NewValidationError(campo, msg)
	}
	return nil
}

// primeira devolve a primeira falha da lista.
func primeira(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func validarTelefone(t domain.Telefone) error {
	return primeira(
		obrigatorio("ddd", t.Ddd, "DDD é obrigatório"),
		obrigatorio("numero", t.Numero, "Número é obrigatório"),
	)
}

func RegrasTelefone() Rules[domain.Telefone] {
	return Rules[domain.Telefone]{
		Entidade: "Telefone",
		Lista:    "listaTelefones",
		Validar:  validarTelefone,
		Finders:  map[string]Finder{"numero": {Coluna: "numero"}},
	}
}

func RegrasEndereco() Rules[domain.Endereco] {
	return Rules[domain.Endereco]{
		Entidade: "Endereço",
		Lista:    "listaEnderecos",
		Validar: func(e domain.Endereco) error {
			return primeira(
				obrigatorio("cidade", e.Cidade, "A cidade é obrigatória"),
				obrigatorio("estado", e.Estado, "O estado é obrigatório"),
				obrigatorio("cep", e.Cep, "O CEP é obrigatório"),
			)
		},
		Finders: map[string]Finder{"cep": {Coluna: "cep"}},
	}
}

func RegrasMarca() Rules[domain.Marca] {
	return Rules[domain.Marca]{
		Entidade: "Marca",
		Feminino: true,
		Lista:    "listaMarcas",
		Validar: func(m domain.Marca) error {
			return primeira(
				obrigatorio("nome", m.Nome, "Nome é obrigatório"),
				obrigatorio("paisOrigem", m.PaisOrigem, "País de origem é obrigatório"),
			)
		},
		Finders: map[string]Finder{"nome": {Coluna: "nome", Parcial: true}},
	}
}

func RegrasModelo(marcas Checker) Rules[domain.Modelo] {
	return Rules[domain.Modelo]{
		Entidade: "Modelo",
		Lista:    "listaModelos",
		Validar: func(m domain.Modelo) error {
			return obrigatorio("nome", m.Nome, "Nome é obrigatório")
		},
		Referencias: []Referencia[domain.Modelo]{
			{Campo: "idMarca", Msg: "Marca não encontrada", ID: func(m domain.Modelo) int64 { return m.IDMarca }, Checker: marcas},
		},
		Finders: map[string]Finder{"nome": {Coluna: "nome", Parcial: true}},
	}
}

func RegrasTipoQuilha() Rules[domain.TipoQuilha] {
	return Rules[domain.TipoQuilha]{
		Entidade: "Tipo de quilha",
		Lista:    "listaTiposQuilha",
		Validar: func(t domain.TipoQuilha) error {
			return obrigatorio("nome", t.Nome, "Nome é obrigatório")
		},
		Finders: map[string]Finder{"nome": {Coluna: "nome", Parcial: true}},
	}
}

func RegrasQuilha(tipos Checker) Rules[domain.Quilha] {
	return Rules[domain.Quilha]{
		Entidade: "Quilha",
		Feminino: true,
		Lista:    "listaQuilhas",
		Validar: func(q domain.Quilha) error {
			return obrigatorio("descricaoQuilha", q.DescricaoQuilha, "Descrição da quilha é obrigatória")
		},
		Referencias: []Referencia[domain.Quilha]{
			{Campo: "idTipoQuilha", Msg: "Tipo de quilha não encontrado", ID: func(q domain.Quilha) int64 { return q.IDTipoQuilha }, Checker: tipos},
		},
		Finders: map[string]Finder{
			"tipoQuilha": {Coluna: "id_tipo_quilha", Converter: func(s string) (interface{}, error) {
				id, err := strconv.ParseInt(s, 10, 64)
				if err != nil || id <= 0 {
					return nil, errors.New("id do tipo de quilha inválido")
				}
				return id, nil
			}},
		},
	}
}

func RegrasFornecedor() Rules[domain.Fornecedor] {
	return Rules[domain.Fornecedor]{
		Entidade: "Fornecedor",
		Lista:    "listaFornecedores",
		Validar: func(f domain.Fornecedor) error {
			return primeira(
				obrigatorio("nome", f.Nome, "Nome é obrigatório"),
				obrigatorio("cnpj", f.Cnpj, "CNPJ é obrigatório"),
				validarTelefone(f.Telefone),
			)
		},
		Finders: map[string]Finder{"cnpj": {Coluna: "cnpj"}},
	}
}

func RegrasCliente() Rules[domain.Cliente] {
	return Rules[domain.Cliente]{
		Entidade: "Cliente",
		Lista:    "listaClientes",
		Validar: func(c domain.Cliente) error {
			return primeira(
				obrigatorio("nome", c.Nome, "Nome é obrigatório"),
				obrigatorio("cpf", c.Cpf, "CPF é obrigatório"),
				validarTelefone(c.Telefone),
			)
		},
		Finders: map[string]Finder{"cpf": {Coluna: "cpf"}},
	}
}

func RegrasAdministrador() Rules[domain.Administrador] {
	return Rules[domain.Administrador]{
		Entidade: "Administrador",
		Lista:    "listaAdministradores",
		Validar: func(a domain.Administrador) error {
			return primeira(
				obrigatorio("nome", a.Nome, "Nome é obrigatório"),
				obrigatorio("cargo", a.Cargo, "Cargo é obrigatório"),
				obrigatorio("statusAdm", a.StatusAdm, "Status adm é obrigatório"),
				validarTelefone(a.Telefone),
			)
		},
		Finders: map[string]Finder{"nome": {Coluna: "nome", Parcial: true}},
	}
}

func RegrasPrancha(marcas, modelos, quilhas Checker) Rules[domain.Prancha] {
	return Rules[domain.Prancha]{
		Entidade: "Prancha",
		Feminino: true,
		Lista:    "listaPranchas",
		Validar: func(p domain.Prancha) error {
			switch {
			case p.Tamanho <= 0:
				return apperror.NewValidationError("tamanho", "O tamanho deve ser maior que zero")
			case p.Valor <= 0:
				return apperror.NewValidationError("valor", "O valor deve ser maior que zero")
			case p.Estoque < 0:
				return apperror.NewValidationError("estoque", "O estoque não pode ser negativo")
			case !p.TipoPrancha.Valido():
				return apperror.NewValidationError("tipoPrancha", "Tipo de prancha inválido")
			case !p.Habilidade.Valido():
				return apperror.NewValidationError("habilidade", "Habilidade inválida")
			}
			return nil
		},
		Referencias: []Referencia[domain.Prancha]{
			{Campo: "idMarca", Msg: "Marca não encontrada", ID: func(p domain.Prancha) int64 { return p.IDMarca }, Checker: marcas},
			{Campo: "idModelo", Msg: "Modelo não encontrado", ID: func(p domain.Prancha) int64 { return p.IDModelo }, Checker: modelos},
			{Campo: "idQuilha", Msg: "Quilha não encontrada", ID: func(p domain.Prancha) int64 { return p.IDQuilha }, Checker: quilhas},
		},
		Finders: map[string]Finder{
			"tipo": {Coluna: "tipo_prancha", Converter: func(s string) (interface{}, error) {
				tipo, err := domain.ParseTipoPrancha(s)
				if err != nil {
					return nil, err
				}
				return int(tipo), nil
			}},
		},
	}
}

// --- Formas de pagamento: o cadastro avulso só troca os dados da forma ---

// mesclarPagamento preserva status e data do registro atual.
func mesclarPagamento(atual, novo domain.Pagamento) domain.Pagamento {
	novo.ID = atual.ID
	novo.Status = atual.Status
	novo.DataPagamento = atual.DataPagamento
	return novo
}

func RegrasPix() Rules[domain.Pagamento] {
	return Rules[domain.Pagamento]{
		Entidade: "Pix",
		Lista:    "listaPix",
		Validar: func(p domain.Pagamento) error {
			pix, ok := p.Metodo.(domain.Pix)
			if !ok {
				return apperror.NewValidationError("dto", "Dados do pix são obrigatórios")
			}
			return obrigatorio("chave", pix.Chave, "A chave é obrigatória")
		},
		Finders: map[string]Finder{"chave": {Coluna: "chave"}},
		Mesclar: mesclarPagamento,
	}
}

func RegrasBoleto() Rules[domain.Pagamento] {
	return Rules[domain.Pagamento]{
		Entidade: "Boleto",
		Lista:    "listaBoletos",
		Validar: func(p domain.Pagamento) error {
			boleto, ok := p.Metodo.(domain.Boleto)
			if !ok {
				return apperror.NewValidationError("dto", "Dados do boleto são obrigatórios")
			}
			if boleto.DataVencimento.IsZero() {
				return apperror.NewValidationError("dataVencimento", "Data de vencimento é obrigatória")
			}
			return obrigatorio("codigoBarras", boleto.CodigoBarras, "Código de barras é obrigatório")
		},
		Finders: map[string]Finder{"codigoBarras": {Coluna: "codigo_barras"}},
		Mesclar: mesclarPagamento,
	}
}

func RegrasCartao() Rules[domain.Pagamento] {
	return Rules[domain.Pagamento]{
		Entidade: "Cartão",
		Lista:    "listaCartoes",
		Validar: func(p domain.Pagamento) error {
			cartao, ok := p.Metodo.(domain.Cartao)
			if !ok {
				return apperror.NewValidationError("dto", "Dados do cartão são obrigatórios")
			}
			if cartao.DataVencimento.IsZero() {
				return apperror.NewValidationError("dataVencimento", "Data de vencimento é obrigatória")
			}
			return primeira(
				obrigatorio("numeroCartao", cartao.NumeroCartao, "Número do cartão é obrigatório"),
				obrigatorio("nomeTitular", cartao.NomeTitular, "Nome do titular é obrigatório"),
			)
		},
		Finders: map[string]Finder{"numeroCartao": {Coluna: "numero_cartao"}},
		Mesclar: mesclarPagamento,
	}
}
