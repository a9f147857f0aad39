package usecase

import (
	"context"
	"errors"
	"net/http"
	"slices"

	"dreamdrape/internal/domain/model"
	repo "dreamdrape/internal/repository"
)

type CartUsecase struct {
	cartItems repo.CartItemRepository
	products  repo.ProductRepository
}

func NewCartUsecase(cartItems repo.CartItemRepository, products repo.ProductRepository) *CartUsecase {
	return &CartUsecase{cartItems: cartItems, products: products}
}

type CartLineOutput struct {
	ID          int64  `json:"id"`
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	UnitPrice   int64  `json:"unit_price"`
	Quantity    int64  `json:"quantity"`
	Size        string `json:"size"`
	Color       string `json:"color"`
	Stock       int64  `json:"stock"`
	LineTotal   int64  `json:"line_total"`
}

type CartOutput struct {
	Items     []CartLineOutput `json:"items"`
	ItemCount int64            `json:"item_count"`
	Total     int64            `json:"total"`
}

// カートは常に現在価格で評価する。非公開・削除済み商品の行は表示から除く。
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartOutput, error) {
	if userID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	items, err := u.cartItems.ListByUserID(ctx, userID)
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := CartOutput{Items: []CartLineOutput{}}
	for _, item := range items {
		p, err := u.products.FindByID(ctx, item.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			continue
		}
		if err != nil {
			return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !p.IsActive {
			continue
		}

		line := CartLineOutput{
			ID:          item.ID,
			ProductID:   p.ID,
			ProductName: p.Name,
			UnitPrice:   p.Price,
			Quantity:    item.Quantity,
			Size:        item.Size,
			Color:       item.Color,
			Stock:       p.Stock,
			LineTotal:   p.Price * item.Quantity,
		}
		out.Items = append(out.Items, line)
		out.ItemCount += item.Quantity
		out.Total += line.LineTotal
	}
	return out, nil
}

type AddToCartInput struct {
	ProductID int64
	Quantity  int64
	Size      string
	Color     string
}

func (u *CartUsecase) AddToCart(ctx context.Context, userID int64, in AddToCartInput) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.Quantity <= 0 {
		return NewHTTPError(http.StatusBadRequest, "quantity must be positive")
	}

	p, err := u.products.FindByID(ctx, in.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsActive {
		return NewHTTPError(http.StatusNotFound, "product not found")
	}
	if p.Stock < in.Quantity {
		return NewHTTPError(http.StatusBadRequest, "insufficient stock")
	}

	//定義済みバリアントのみ受け付ける
	if in.Size != "" && !slices.Contains(p.SizeList(), in.Size) {
		return NewHTTPError(http.StatusBadRequest, "invalid size")
	}
	if in.Color != "" && !slices.Contains(p.ColorList(), in.Color) {
		return NewHTTPError(http.StatusBadRequest, "invalid color")
	}

	//同一バリアントは加算されるので、既存行と合算して在庫を判定する
	lines, err := u.cartItems.ListByUserID(ctx, userID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	var existing int64
	for _, l := range lines {
		if l.ProductID == in.ProductID && l.Size == in.Size && l.Color == in.Color {
			existing = l.Quantity
			break
		}
	}
	if p.Stock < existing+in.Quantity {
		return NewHTTPError(http.StatusBadRequest, "insufficient stock")
	}

	err = u.cartItems.UpsertVariant(ctx, model.CartItem{
		UserID:    userID,
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		Size:      in.Size,
		Color:     in.Color,
	})
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *CartUsecase) UpdateCartItem(ctx context.Context, userID, cartItemID, quantity int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	owned, err := u.cartItems.IsOwnedByUser(ctx, cartItemID, userID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !owned {
		//他人の行は存在を明かさない
		return NewHTTPError(http.StatusNotFound, "cart item not found")
	}

	//数量0は削除と同義
	if quantity <= 0 {
		if err := u.cartItems.DeleteByID(ctx, cartItemID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	}

	item, err := u.cartItems.FindByID(ctx, cartItemID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	p, err := u.products.FindByID(ctx, item.ProductID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if p.Stock < quantity {
		return NewHTTPError(http.StatusBadRequest, "insufficient stock")
	}

	if err := u.cartItems.UpdateQuantity(ctx, cartItemID, quantity); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *CartUsecase) DeleteCartItem(ctx context.Context, userID, cartItemID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	owned, err := u.cartItems.IsOwnedByUser(ctx, cartItemID, userID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !owned {
		return NewHTTPError(http.StatusNotFound, "cart item not found")
	}

	if err := u.cartItems.DeleteByID(ctx, cartItemID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *CartUsecase) ClearCart(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := u.cartItems.DeleteByUserID(ctx, userID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
