package domain

import "time"

// Pedido é o agregado de compra: cliente, endereço de entrega, pagamento e itens.
// ValorTotal é sempre a soma dos subtotais dos itens.
type Pedido struct {
	ID         int64        `json:"id"`
	DataPedido time.Time    `json:"dataPedido"`
	ValorTotal float64      `json:"valorTotal"`
	Cliente    Cliente      `json:"cliente"`
	Endereco   Endereco     `json:"endereco"`
	Pagamento  Pagamento    `json:"pagamento"`
	Itens      []ItemPedido `json:"itens"`
}

// ItemPedido é uma linha do pedido. PrecoUnit é copiado da prancha, não acompanha o preço atual.
type ItemPedido struct {
	ID         int64   `json:"id"`
	IDPedido   int64   `json:"idPedido"`
	IDPrancha  int64   `json:"idPrancha"`
	Quantidade int     `json:"quantidade"`
	PrecoUnit  float64 `json:"precoUnit"`
	SubTotal   float64 `json:"subTotal"`
}

// CalcularSubTotal recalcula o subtotal a partir de preço e quantidade.
func (i *ItemPedido) CalcularSubTotal() {
	i.SubTotal = i.PrecoUnit * float64(i.Quantidade)
}

// SomarItens devolve a soma dos subtotais.
func SomarItens(itens []ItemPedido) float64 {
	var total float64
	for _, item := range itens {
		total += item.SubTotal
	}
	return total
}

// --- Payloads de entrada ---

// PedidoRequest é o payload de criação e de alteração do pedido.
// Na alteração, IDCliente e Itens são ignorados.
type PedidoRequest struct {
	IDCliente      int64           `json:"idCliente"`
	Endereco       *Endereco       `json:"endereco"`
	FormaPagamento string          `json:"formaPagamento" example:"PIX"`
	Pix            *Pix            `json:"pix,omitempty"`
	Boleto         *Boleto         `json:"boleto,omitempty"`
	Cartao         *Cartao         `json:"cartao,omitempty"`
	Itens          []ItemPedidoDTO `json:"itens"`
}

// ItemPedidoDTO é a linha como entra e sai da API (sem subtotal).
type ItemPedidoDTO struct {
	IDPrancha  int64   `json:"idPrancha"`
	Quantidade int     `json:"quantidade"`
	PrecoUnit  float64 `json:"precoUnit"`
}

// StatusRequest é o payload de alteração de status de pagamento.
type StatusRequest struct {
	Status string `json:"status" example:"PAGO"`
}

// --- Respostas ---

// PedidoResponse achata o agregado para a API. Exatamente um entre Pix, Boleto e Cartao vem preenchido.
type PedidoResponse struct {
	ID              int64           `json:"id"`
	DataPedido      time.Time       `json:"dataPedido"`
	ValorTotal      float64         `json:"valorTotal"`
	Cliente         ClienteResumo   `json:"cliente"`
	Endereco        EnderecoResumo  `json:"endereco"`
	FormaPagamento  string          `json:"formaPagamento" example:"Pix"`
	StatusPagamento StatusPagamento `json:"statusPagamento" example:"PENDENTE"`
	DataPagamento   *time.Time      `json:"dataPagamento"`
	Pix             *PixResponse    `json:"pix"`
	Boleto          *BoletoResponse `json:"boleto"`
	Cartao          *CartaoResponse `json:"cartao"`
	Itens           []ItemPedidoDTO `json:"itens"`
}

type ClienteResumo struct {
	Nome   string `json:"nome"`
	Ddd    string `json:"ddd"`
	Numero string `json:"numero"`
	Cpf    string `json:"cpf"`
}

type EnderecoResumo struct {
	Cidade string `json:"cidade"`
	Estado string `json:"estado"`
	Cep    string `json:"cep"`
}

type PixResponse struct {
	ID    int64  `json:"id"`
	Chave string `json:"chave"`
}

type BoletoResponse struct {
	ID             int64  `json:"id"`
	CodigoBarras   string `json:"codigoBarras"`
	DataVencimento Data   `json:"dataVencimento"`
}

type CartaoResponse struct {
	ID             int64  `json:"id"`
	NumeroCartao   string `json:"numeroCartao"`
	NomeTitular    string `json:"nomeTitular"`
	DataVencimento Data   `json:"dataVencimento"`
}
