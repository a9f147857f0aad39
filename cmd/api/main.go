package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"dreamdrape/internal/config"
	"dreamdrape/internal/events"
	"dreamdrape/internal/handler"
	"dreamdrape/internal/infra/db"
	infraRepo "dreamdrape/internal/infra/repository"
	"dreamdrape/internal/payment"
	"dreamdrape/internal/server"
	"dreamdrape/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	rtRepo := infraRepo.NewRefreshTokenGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	cartRepo := infraRepo.NewCartItemGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	inventoryRepo := infraRepo.NewInventoryGormRepository(gormDB)
	reviewRepo := infraRepo.NewReviewGormRepository(gormDB)
	wishlistRepo := infraRepo.NewWishlistGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//決済ゲートウェイ。CODはゲートウェイを通らないので登録しない。
	gateways := payment.Gateways{}
	if cfg.StripeSecretKey != "" {
		gateways[payment.MethodStripe] = payment.NewStripeGateway(cfg.StripeSecretKey)
	}
	if cfg.RazorpayKeyID != "" {
		gateways[payment.MethodRazorpay] = payment.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	}

	//イベント発行。RabbitMQ未設定ならNop。
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.AmqpURL != "" {
		amqpPub, err := events.NewAMQPPublisher(cfg.AmqpURL)
		if err != nil {
			log.Fatalf("rabbitmq: %v", err)
		}
		defer amqpPub.Close()
		publisher = amqpPub
	}

	//Usecase生成
	audit := usecase.NewAuditRecorder(auditRepo)
	authUC := usecase.NewAuthUsecase(cfg, userRepo, rtRepo, audit)
	productUC := usecase.NewProductUsecase(productRepo, reviewRepo, inventoryRepo, audit)
	categoryUC := usecase.NewCategoryUsecase(categoryRepo)
	cartUC := usecase.NewCartUsecase(cartRepo, productRepo)
	checkoutUC := usecase.NewCheckoutUsecase(txManager, userRepo, gateways, publisher, audit)
	orderUC := usecase.NewOrderUsecase(txManager, orderRepo, orderItemRepo, cartRepo, productRepo, publisher, audit)
	reviewUC := usecase.NewReviewUsecase(reviewRepo, productRepo, audit)
	wishlistUC := usecase.NewWishlistUsecase(wishlistRepo, productRepo)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager, orderRepo, orderItemRepo, audit)
	adminUserUC := usecase.NewAdminUserUsecase(userRepo, rtRepo, audit)
	dashboardUC := usecase.NewDashboardUsecase(orderRepo)
	auditUC := usecase.NewAuditUsecase(auditRepo)

	//Handler生成・ルート登録
	e := server.New()
	server.RegisterRoutes(e, cfg, userRepo, server.Handlers{
		Auth:        handler.NewAuthHandler(authUC),
		Product:     handler.NewProductHandler(productUC, categoryUC),
		Cart:        handler.NewCartHandler(cartUC),
		Order:       handler.NewOrderHandler(checkoutUC, orderUC),
		Review:      handler.NewReviewHandler(reviewUC),
		Wishlist:    handler.NewWishlistHandler(wishlistUC),
		AdminProd:   handler.NewAdminProductHandler(productUC, categoryUC),
		AdminOrder:  handler.NewAdminOrderHandler(adminOrderUC, dashboardUC),
		AdminUser:   handler.NewAdminUserHandler(adminUserUC),
		AdminReview: handler.NewAdminReviewHandler(reviewUC),
		AdminAudit:  handler.NewAdminAuditHandler(auditUC),
	})

	//SIGINT/SIGTERMでgraceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		if err := server.Shutdown(e); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	if err := server.Start(e, addr); err != nil {
		log.Printf("server stopped: %v", err)
	}
}
