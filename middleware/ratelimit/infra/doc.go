// Package infra contém implementações concretas para os contratos do pacote domain.
//
//   - Store: token bucket por chave (golang.org/x/time/rate), proteção geral do site
//   - MemoryWindowStore / RedisWindowStore: janela fixa por cliente (formulário de contato)
//   - MemoryStatsStore / RedisStatsStore: contadores de decisões e eventos anti-bot
//   - ChanPool: semáforo para limite de concorrência
package infra
