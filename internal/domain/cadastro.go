package domain

// Telefone é cadastrado de forma independente ou embutido no dono (Cliente, Fornecedor, Administrador).
type Telefone struct {
	ID     int64  `json:"id,omitempty"`
	Ddd    string `json:"ddd"`
	Numero string `json:"numero"`
}

// Endereco é cadastrado de forma independente ou copiado para dentro do Pedido.
type Endereco struct {
	ID     int64  `json:"id,omitempty"`
	Cidade string `json:"cidade"`
	Estado string `json:"estado"`
	Cep    string `json:"cep"`
}

type Cliente struct {
	ID       int64    `json:"id"`
	Nome     string   `json:"nome"`
	Cpf      string   `json:"cpf"`
	Telefone Telefone `json:"telefone"`
}

type Fornecedor struct {
	ID       int64    `json:"id"`
	Nome     string   `json:"nome"`
	Cnpj     string   `json:"cnpj"`
	Telefone Telefone `json:"telefone"`
}

type Administrador struct {
	ID        int64    `json:"id"`
	Nome      string   `json:"nome"`
	Cargo     string   `json:"cargo"`
	StatusAdm string   `json:"statusAdm"`
	Telefone  Telefone `json:"telefone"`
}
