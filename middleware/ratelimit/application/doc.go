// Package application contém os casos de uso de rate limit e concorrência.
//
// Depende apenas do pacote domain e não conhece net/http.
// Ex.: WindowService.Decide(ctx, key) retorna uma Decision (allow/deny + retry-after).
package application
