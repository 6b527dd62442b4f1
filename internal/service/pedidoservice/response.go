package pedidoservice

import "pranchashop/internal/domain"

// ToResponse achata o pedido para a API. Só a forma de pagamento gravada é preenchida.
func ToResponse(p domain.Pedido) domain.PedidoResponse {
	resp := domain.PedidoResponse{
		ID:         p.ID,
		DataPedido: p.DataPedido,
		ValorTotal: p.ValorTotal,
		Cliente: domain.ClienteResumo{
			Nome:   p.Cliente.Nome,
			Ddd:    p.Cliente.Telefone.Ddd,
			Numero: p.Cliente.Telefone.Numero,
			Cpf:    p.Cliente.Cpf,
		},
		Endereco: domain.EnderecoResumo{
			Cidade: p.Endereco.Cidade,
			Estado: p.Endereco.Estado,
			Cep:    p.Endereco.Cep,
		},
		FormaPagamento:  p.Pagamento.Forma().Nome(),
		StatusPagamento: p.Pagamento.Status,
		DataPagamento:   p.Pagamento.DataPagamento,
		Itens:           make([]domain.ItemPedidoDTO, 0, len(p.Itens)),
	}

	switch m := p.Pagamento.Metodo.(type) {
	case domain.Pix:
		resp.Pix = &domain.PixResponse{ID: p.Pagamento.ID, Chave: m.Chave}
	case domain.Boleto:
		resp.Boleto = &domain.BoletoResponse{ID: p.Pagamento.ID, CodigoBarras: m.CodigoBarras, DataVencimento: m.DataVencimento}
	case domain.Cartao:
		resp.Cartao = &domain.CartaoResponse{ID: p.Pagamento.ID, NumeroCartao: m.NumeroCartao, NomeTitular: m.NomeTitular, DataVencimento: m.DataVencimento}
	}

	for _, item := range p.Itens {
		resp.Itens = append(resp.Itens, domain.ItemPedidoDTO{
			IDPrancha:  item.IDPrancha,
			Quantidade: item.Quantidade,
			PrecoUnit:  item.PrecoUnit,
		})
	}
	return resp
}

func toResponses(pedidos []domain.Pedido) []domain.PedidoResponse {
	out := make([]domain.PedidoResponse, 0, len(pedidos))
	for _, p := range pedidos {
		out = append(out, ToResponse(p))
	}
	return out
}
