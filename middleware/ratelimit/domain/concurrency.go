package domain

import "context"

// SlotPool limita quantas submissões de contato são processadas ao mesmo tempo
// (cada uma pode segurar até duas chamadas de notificação em voo).
//
// Acquire bloqueia até conseguir uma vaga ou até o ctx encerrar; o release
// retornado deve ser chamado ao fim do processamento.
type SlotPool interface {
	Acquire(ctx context.Context) (release func(), ok bool)
}
