package http

import (
	"github.com/go-chi/chi/v5"
	_ "github.com/partsline/storefront/docs" // Импорт сгенерированных файлов
	"github.com/partsline/storefront/internal/usecase"
	"github.com/partsline/storefront/pkg/logger"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(prUC usecase.ProductUC, catalogUC usecase.CatalogUC, cartUC usecase.CartUC, checkoutUC usecase.CheckoutUC) {
	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"), // ссылка на JSON
	))

	prHandler := NewProductHandler(prUC, r.logger)
	catalogHandler := NewCatalogHandler(catalogUC, r.logger)
	cartHandler := NewCartHandler(cartUC, r.logger)
	checkoutHandler := NewCheckoutHandler(checkoutUC, r.logger)

	r.router.Route("/api/v1", func(v1 chi.Router) {
		v1.Route("/products", func(pr chi.Router) {
			pr.Post("/", prHandler.registerNewProduct)
			pr.Get("/", catalogHandler.listProducts)
			pr.Get("/info", prHandler.getProductsInfo)
		})

		v1.Route("/categories", func(cat chi.Router) {
			cat.Get("/", catalogHandler.listCategories)
			cat.Get("/{name}/products", catalogHandler.productsByCategory)
		})

		v1.Route("/cart", func(cart chi.Router) {
			cart.Get("/", cartHandler.viewCart)
			cart.Delete("/", cartHandler.clearCart)
			cart.Route("/items", func(items chi.Router) {
				items.Post("/", cartHandler.addToCart)
				items.Patch("/{productID}", cartHandler.updateQuantity)
				items.Delete("/{productID}", cartHandler.removeFromCart)
			})
		})

		v1.Post("/checkout", checkoutHandler.placeOrder)
	})
}
