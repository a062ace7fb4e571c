package middleware

import (
	"fmt"
	"net/http"

	"github.com/terryberlin/carbonmenu/api/responses"
	pkgerrors "github.com/terryberlin/carbonmenu/pkg/errors"
	"github.com/terryberlin/carbonmenu/pkg/logger"
)

// Recoverer converts handler panics into a 500 envelope. Resolution is pure
// computation over the catalog index, so a panic here means a catalog or
// engine bug worth a stack trace.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				err := fmt.Errorf("panic: %v", rec)
				ctx := r.Context()
				if logg != nil {
					logg.Error(logg.WithField(ctx, "panic", rec), "panic.recovered", err)
				}
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "panic"))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
