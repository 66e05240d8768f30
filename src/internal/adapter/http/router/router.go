package router

import "net/http"

type RouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler)
}

// New wires customer controllers behind customerAuth and operator
// controllers behind operatorAuth.
func New(
	customer []RouteRegistrar,
	operator []RouteRegistrar,
	customerAuth func(http.Handler) http.Handler,
	operatorAuth func(http.Handler) http.Handler,
) *http.ServeMux {
	mux := http.NewServeMux()
	registerSwaggerRoutes(mux)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, registrar := range customer {
		if registrar != nil {
			registrar.RegisterRoutes(mux, customerAuth)
		}
	}
	for _, registrar := range operator {
		if registrar != nil {
			registrar.RegisterRoutes(mux, operatorAuth)
		}
	}

	return mux
}
