// Package domain define contratos e tipos de domínio para rate limit
// (token bucket geral e janela fixa por cliente) e concorrência.
//
// Este pacote não depende de net/http nem de implementações concretas.
package domain
