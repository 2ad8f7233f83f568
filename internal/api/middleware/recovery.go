package middleware

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
)

type Logger interface {
	Error(format string, v ...interface{})
}

// Recovery перехватывает панику в обработчике и отвечает 500
func Recovery(logger Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					requestID, _ := GetRequestID(r.Context())
					logger.Error("Panic recovered: %s %s, request_id=%s, panic=%v", r.Method, r.URL.Path, requestID, rec)

					span := trace.SpanFromContext(r.Context())
					if span.IsRecording() {
						span.RecordError(fmt.Errorf("panic: %v", rec))
						span.SetStatus(codes.Error, "panic recovered")
					}

					handlers.RespondInternalError(w)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
