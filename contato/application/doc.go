// Package application implementa o pipeline de submissão do formulário de
// contato: limite por cliente, heurísticas anti-robô, validação e o
// disparo das notificações em melhor esforço.
//
// Não conhece net/http; o adapter HTTP fica no pacote contato.
package application
