package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/anshulm/webpage"
)

// HeaderRequestID is the request correlation header. An incoming value is
// kept, otherwise a fresh UUID is generated; either way the id is echoed on
// the response and stored in the request context.
const HeaderRequestID = "X-Request-ID"

// RequestID attaches a correlation id to every request.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), id)))
	})
}

// RequestLogger attaches a request-scoped logger to the context and logs
// request completion with the elapsed time.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := base.With(
				"method", r.Method,
				"path", r.URL.Path,
			)
			if id, ok := RequestIDFromContext(r.Context()); ok {
				logger = logger.With("request_id", id)
			}

			ctx := WithLogger(r.Context(), logger)
			start := time.Now()
			next.ServeHTTP(w, r.WithContext(ctx))
			logger.InfoContext(ctx, "request completed", "duration", time.Since(start))
		})
	}
}

// ProxyScheme corrects the HTTP/HTTPS scheme mismatch behind a reverse
// proxy. When X-Forwarded-Proto is set it records the external scheme in
// the request context (consumed by RequestScheme and urlFor) and rewrites
// the scheme of any absolute Location response header that disagrees, so
// redirects issued behind a TLS-terminating proxy do not downgrade to http.
func ProxyScheme(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		proto := forwardedProto(r)
		if proto == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := WithScheme(r.Context(), proto)
		sw := &schemeRewriter{ResponseWriter: w, scheme: proto}
		next.ServeHTTP(sw, r.WithContext(ctx))
	})
}

// schemeRewriter rewrites the Location header scheme just before headers
// are flushed.
type schemeRewriter struct {
	http.ResponseWriter
	scheme string
	wrote  bool
}

func (sw *schemeRewriter) WriteHeader(status int) {
	if !sw.wrote {
		sw.wrote = true
		if loc := sw.Header().Get("Location"); loc != "" {
			if u, err := url.Parse(loc); err == nil && u.IsAbs() && u.Scheme != sw.scheme {
				u.Scheme = sw.scheme
				sw.Header().Set("Location", u.String())
			}
		}
	}
	sw.ResponseWriter.WriteHeader(status)
}

func (sw *schemeRewriter) Write(b []byte) (int, error) {
	if !sw.wrote {
		sw.WriteHeader(http.StatusOK)
	}
	return sw.ResponseWriter.Write(b)
}

// Recoverer converts panics into 500 responses through the responder so
// JSON clients still get the {"detail": ...} envelope.
func Recoverer(responder *ErrorResponder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					LoggerFromContext(r.Context()).Error("panic recovered", "panic", rec)
					responder.Respond(w, r, webpage.NewHTTPError(http.StatusInternalServerError, nil))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
