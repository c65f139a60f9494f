package middleware

import (
	"net/http"
	"strings"

	"github.com/aziznur-dev/bozorplace-backend/api/responses"
	pkgerrors "github.com/aziznur-dev/bozorplace-backend/pkg/errors"
	"github.com/aziznur-dev/bozorplace-backend/pkg/logger"
)

const deviceIDHeader = "Device-ID"

// RequireDeviceID rejects requests without a Device-ID header and injects the
// value into the context. Auth endpoints bind issued tokens to this value.
func RequireDeviceID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			deviceID := strings.TrimSpace(r.Header.Get(deviceIDHeader))
			if deviceID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Device-ID header is required"))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithDeviceID(r.Context(), deviceID)))
		})
	}
}
