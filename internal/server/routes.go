package server

import (
	"dreamdrape/internal/config"
	"dreamdrape/internal/handler"
	"dreamdrape/internal/repository"

	"github.com/labstack/echo/v4"
)

// Handlers はルート登録に必要なhandler一式。
type Handlers struct {
	Auth        *handler.AuthHandler
	Product     *handler.ProductHandler
	Cart        *handler.CartHandler
	Order       *handler.OrderHandler
	Review      *handler.ReviewHandler
	Wishlist    *handler.WishlistHandler
	AdminProd   *handler.AdminProductHandler
	AdminOrder  *handler.AdminOrderHandler
	AdminUser   *handler.AdminUserHandler
	AdminReview *handler.AdminReviewHandler
	AdminAudit  *handler.AdminAuditHandler
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository, h Handlers) {
	h.Auth.RegisterRoutes(e, cfg, userRepo)
	h.Product.RegisterRoutes(e)
	h.Cart.RegisterRoutes(e, cfg, userRepo)
	h.Order.RegisterRoutes(e, cfg, userRepo)
	h.Review.RegisterRoutes(e, cfg, userRepo)
	h.Wishlist.RegisterRoutes(e, cfg, userRepo)
	h.AdminProd.RegisterRoutes(e, cfg, userRepo)
	h.AdminOrder.RegisterRoutes(e, cfg, userRepo)
	h.AdminUser.RegisterRoutes(e, cfg, userRepo)
	h.AdminReview.RegisterRoutes(e, cfg, userRepo)
	h.AdminAudit.RegisterRoutes(e, cfg, userRepo)
}
