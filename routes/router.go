package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/shopfront/ecommerce-api/controllers"
	"github.com/shopfront/ecommerce-api/initializers"
	"github.com/shopfront/ecommerce-api/middlewares"
	"github.com/shopfront/ecommerce-api/services"
	"github.com/shopfront/ecommerce-api/store"
	"github.com/shopfront/ecommerce-api/utils"
	"go.uber.org/zap"
)

// Dependencies are the collaborators the HTTP layer is built from. Images,
// Payments and Notifier are optional and may be left nil.
type Dependencies struct {
	Config   *initializers.Config
	Store    store.Store
	Log      *zap.Logger
	Tokens   *utils.TokenManager
	Revoker  utils.TokenRevoker
	Images   services.ImageUploader
	Payments services.PaymentVerifier
	Notifier services.OrderNotifier
}

type guards struct {
	auth  gin.HandlerFunc
	admin gin.HandlerFunc
}

func NewRouter(deps Dependencies) *gin.Engine {
	server := gin.New()
	server.Use(
		middlewares.RequestID(),
		middlewares.RequestLogger(deps.Log.Named("http")),
		middlewares.Recovery(deps.Log.Named("http"), deps.Config.IsDevelopment()),
	)
	server.Use(cors.New(cors.Config{
		AllowOrigins:     deps.Config.CORS,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Requested-With", middlewares.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middlewares.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	st := deps.Store
	g := guards{
		auth:  middlewares.RequireAuth(deps.Tokens, deps.Revoker, deps.Log.Named("auth")),
		admin: middlewares.RequireAdmin(st),
	}

	authService := services.NewAuthService(st, deps.Tokens, deps.Revoker, deps.Config.AdminPIN, deps.Log)
	catalog := services.NewCatalogService(st, deps.Images, utils.ObjectKey, deps.Log)
	cart := services.NewCartService(st, st, deps.Log)
	orders := services.NewOrderService(st, st, st, st, deps.Payments, deps.Notifier, deps.Log)
	profile := services.NewProfileService(st, deps.Log)
	wishlist := services.NewWishlistService(st, st, deps.Log)

	DefaultRoutes(server, st)

	api := server.Group("/api")
	AuthRoutes(api, controllers.NewAuthController(authService), g)
	ProfileRoutes(api, controllers.NewProfileController(profile), g)
	WishlistRoutes(api, controllers.NewWishlistController(wishlist), g)
	ProductRoutes(api, controllers.NewProductController(catalog), g)
	CartRoutes(api, controllers.NewCartController(cart), g)
	orderController := controllers.NewOrderController(orders)
	OrderRoutes(api, orderController, g)
	AdminRoutes(api, controllers.NewAdminController(catalog, orders), orderController, g)

	return server
}
