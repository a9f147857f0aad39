package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"dreamdrape/internal/config"
	"dreamdrape/internal/domain/model"
	"dreamdrape/internal/infra/db"
	infraRepo "dreamdrape/internal/infra/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// 運用CLI。
//
//	admin create-admin -username ... -email ... -password ...
//	admin cleanup-audit -days 90
//	admin reset-lockouts
//	admin seed
func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	ctx := context.Background()

	switch os.Args[1] {
	case "create-admin":
		createAdmin(ctx, gormDB, os.Args[2:])
	case "cleanup-audit":
		cleanupAudit(ctx, gormDB, os.Args[2:])
	case "reset-lockouts":
		resetLockouts(ctx, gormDB)
	case "seed":
		seed(ctx, gormDB)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: admin <create-admin|cleanup-audit|reset-lockouts|seed> [flags]")
}

func createAdmin(ctx context.Context, gormDB *gorm.DB, args []string) {
	fs := flag.NewFlagSet("create-admin", flag.ExitOnError)
	username := fs.String("username", "", "admin username")
	email := fs.String("email", "", "admin email")
	password := fs.String("password", "", "admin password")
	_ = fs.Parse(args)

	if *username == "" || *email == "" || *password == "" {
		log.Fatal("create-admin: -username, -email, -password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("bcrypt: %v", err)
	}

	userRepo := infraRepo.NewUserGormRepository(gormDB)
	user := &model.User{
		Username:     *username,
		Email:        *email,
		PasswordHash: string(hash),
		FirstName:    "Admin",
		LastName:     "User",
		Role:         model.RoleAdmin,
		IsActive:     true,
	}
	if err := userRepo.Create(ctx, user); err != nil {
		log.Fatalf("create admin: %v", err)
	}
	fmt.Printf("admin user created: id=%d email=%s\n", user.ID, user.Email)
}

func cleanupAudit(ctx context.Context, gormDB *gorm.DB, args []string) {
	fs := flag.NewFlagSet("cleanup-audit", flag.ExitOnError)
	days := fs.Int("days", 90, "delete audit logs older than this many days")
	_ = fs.Parse(args)

	if *days <= 0 {
		log.Fatal("cleanup-audit: -days must be positive")
	}

	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	cutoff := time.Now().AddDate(0, 0, -*days)
	deleted, err := auditRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		log.Fatalf("cleanup audit: %v", err)
	}
	fmt.Printf("deleted %d audit log rows older than %s\n", deleted, cutoff.Format(time.RFC3339))
}

func resetLockouts(ctx context.Context, gormDB *gorm.DB) {
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	n, err := userRepo.ResetLockouts(ctx)
	if err != nil {
		log.Fatalf("reset lockouts: %v", err)
	}
	fmt.Printf("unlocked %d accounts\n", n)
}

// 開発用の初期データ。
func seed(ctx context.Context, gormDB *gorm.DB) {
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)

	sarees, err := categoryRepo.Create(ctx, model.Category{
		Name:        "Sarees",
		Description: "Traditional and designer sarees",
		IsActive:    true,
	})
	if err != nil {
		log.Fatalf("seed category: %v", err)
	}
	kurtis, err := categoryRepo.Create(ctx, model.Category{
		Name:        "Kurtis",
		Description: "Casual and festive kurtis",
		IsActive:    true,
	})
	if err != nil {
		log.Fatalf("seed category: %v", err)
	}

	original := int64(129900)
	products := []model.Product{
		{
			Name:        "Banarasi Silk Saree",
			Description: "Handwoven Banarasi silk saree with zari border",
			Price:       99900, OriginalPrice: &original,
			SKU: "DD-SAR-001", Stock: 25,
			Sizes: "Free Size", Colors: "Red,Gold",
			Material: "Silk", IsFeatured: true, IsOnSale: true, IsActive: true,
		},
		{
			Name:        "Cotton Anarkali Kurti",
			Description: "Block-printed cotton kurti",
			Price:       89900, SKU: "DD-KUR-001", Stock: 40,
			Sizes: "S,M,L,XL", Colors: "Blue,White",
			Material: "Cotton", IsNewArrival: true, IsActive: true,
		},
	}
	categoryFor := []int64{sarees.ID, kurtis.ID}
	for i, p := range products {
		created, err := productRepo.Create(ctx, p)
		if err != nil {
			log.Fatalf("seed product: %v", err)
		}
		if err := productRepo.ReplaceCategories(ctx, created.ID, []int64{categoryFor[i]}); err != nil {
			log.Fatalf("seed product category: %v", err)
		}
	}

	fmt.Println("seed data created")
}
