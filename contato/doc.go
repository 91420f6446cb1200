// Package contato expõe POST /api/contato: recebe o formulário "Porquê",
// passa pelo pipeline anti-bot e de validação e notifica a equipe.
//
// Respostas:
//
//	200 {"success":true}                      aceito (ou descartado em silêncio)
//	200 {"success":true,"warnings":[...]}     aceito, algum canal falhou
//	400 {"error":"...","fields":{...}}        validação
//	429 {"error":"..."} + Retry-After         limite por cliente
package contato
