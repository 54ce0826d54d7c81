package middleware

import (
	"net/http"

	"pet-tracker/internal/domain/interstitial"
	"pet-tracker/internal/observability"
	"pet-tracker/internal/platform/logger"
	"pet-tracker/internal/ports/capabilities"
)

const InterstitialHeader = "X-Show-Interstitial"

// Interstitial cuenta cada escritura exitosa (POST/PUT/PATCH/DELETE con 2xx)
// en la sesión del usuario y, cuando el contador dispara, agrega
// X-Show-Interstitial: true a la respuesta.
// resolver puede ser nil: entonces nadie es ad-free.
func Interstitial(sessions *interstitial.Sessions, resolver capabilities.CapabilitiesResolver, log logger.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.NewNop()
	}
	return func(next http.Handler) http.Handler {
		if sessions == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid := UserID(r.Context())
			if uid == "" || !isMutation(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			iw := &interstitialWriter{ResponseWriter: w}
			iw.onSuccess = func() {
				if !sessions.Record(uid) {
					return
				}
				if adFree(r, resolver, uid, log) {
					return
				}
				observability.RecordInterstitial()
				w.Header().Set(InterstitialHeader, "true")
			}
			next.ServeHTTP(iw, r)
		})
	}
}

func adFree(r *http.Request, resolver capabilities.CapabilitiesResolver, uid string, log logger.Logger) bool {
	if resolver == nil {
		return false
	}
	ok, err := resolver.HasFeature(r.Context(), capabilities.CapabilityCheck{
		UserID:  uid,
		Feature: capabilities.FeatureAdFree,
	})
	if err != nil {
		log.Warn("capability check failed", map[string]any{"error": err, "user_id": uid})
		return false
	}
	return ok
}

func isMutation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// interstitialWriter llama onSuccess justo antes de escribir headers con status 2xx.
type interstitialWriter struct {
	http.ResponseWriter
	onSuccess   func()
	wroteHeader bool
}

func (w *interstitialWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.wroteHeader = true
		if status >= 200 && status < 300 {
			w.onSuccess()
		}
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *interstitialWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func (w *interstitialWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
