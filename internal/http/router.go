package httpapi

import (
	"net/http"

	httpopenapi "github.com/cocoguard/cart-session-service/internal/http/openapi"
)

// NewRouter registers HTTP routes and returns the handler with middleware.
func NewRouter(app *App) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", app.healthHandler)

	mux.HandleFunc("GET /carts/{scope}", app.getCartHandler)
	mux.HandleFunc("POST /carts/{scope}/items", app.addItemHandler)
	mux.HandleFunc("PUT /carts/{scope}/items/{id}", app.updateItemHandler)
	mux.HandleFunc("DELETE /carts/{scope}/items/{id}", app.removeItemHandler)
	mux.HandleFunc("DELETE /carts/{scope}", app.clearCartHandler)
	mux.HandleFunc("POST /carts/{scope}/checkout", app.checkoutHandler)

	mux.HandleFunc("POST /markets/{scope}/prices", app.postPriceHandler)
	mux.HandleFunc("GET /markets/{scope}/price-series", app.priceSeriesHandler)

	mux.Handle("GET /metrics", app.Metrics.Handler())
	mux.HandleFunc("GET /openapi.yaml", app.openapiHandler)
	mux.HandleFunc("GET /docs", app.docsHandler)

	return WithRequestID(WithLogging(WithMetrics(app.Metrics, mux, mux)))
}

func (a *App) openapiHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(httpopenapi.YAML)
}

func (a *App) docsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	html := `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui'
      });
    </script>
  </body>
</html>`
	_, _ = w.Write([]byte(html))
}
