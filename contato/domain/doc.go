// Package domain define o lead do formulário de contato, a validação dos
// campos e a máscara de telefone.
//
// Funções puras: nada aqui faz I/O.
package domain
