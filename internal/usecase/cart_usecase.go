package usecase

import (
	"context"
	"errors"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// CartUsecase は /carts の業務ロジックです。
// カートは匿名で、UUIDトークンを知っていることだけが権限になる。
type CartUsecase struct {
	cartRepo     repo.CartRepository
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
	idGen        IDGenerator
}

func NewCartUsecase(
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
	idGen IDGenerator,
) *CartUsecase {
	return &CartUsecase{
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
		idGen:        idGen,
	}
}

type CartItemResponse struct {
	ID         int64        `json:"id"`
	Product    ProductBrief `json:"product"`
	Quantity   int64        `json:"quantity"`
	TotalPrice int64        `json:"total_price"`
}

type CartResponse struct {
	ID         string             `json:"id"`
	Items      []CartItemResponse `json:"items"`
	TotalPrice int64              `json:"total_price"`
}

type AddCartItemInput struct {
	ProductID int64
	Quantity  int64
}

type UpdateCartItemInput struct {
	Quantity int64
}

// CreateCart は空の匿名カートを作ってトークンを返す。
func (u *CartUsecase) CreateCart(ctx context.Context) (CartResponse, error) {
	cart, err := u.cartRepo.Create(ctx, model.Cart{ID: u.idGen.NewID()})
	if err != nil {
		return CartResponse{}, NewInternal("db error")
	}

	return CartResponse{ID: cart.ID, Items: []CartItemResponse{}, TotalPrice: 0}, nil
}

// GetCart はトークンでカートを取得する。
func (u *CartUsecase) GetCart(ctx context.Context, token string) (CartResponse, error) {
	if strings.TrimSpace(token) == "" {
		return CartResponse{}, NewValidation("cart id required")
	}

	cart, err := u.cartRepo.FindByToken(ctx, token)
	if errors.Is(err, repo.ErrNotFound) {
		return CartResponse{}, NewNotFound("cart")
	}
	if err != nil {
		return CartResponse{}, NewInternal("db error")
	}

	return u.buildCartResponse(ctx, cart.ID)
}

// DeleteCart はカートと明細をまとめて消す。
func (u *CartUsecase) DeleteCart(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return NewValidation("cart id required")
	}

	err := u.cartRepo.Delete(ctx, token)
	if errors.Is(err, repo.ErrNotFound) {
		return NewNotFound("cart")
	}
	if err != nil {
		return NewInternal("db error")
	}
	return nil
}

// AddItem はカートに追加（同一商品は数量加算）。
func (u *CartUsecase) AddItem(ctx context.Context, token string, in AddCartItemInput) (CartItemResponse, error) {
	if strings.TrimSpace(token) == "" {
		return CartItemResponse{}, NewValidation("cart id required")
	}
	if in.ProductID <= 0 {
		return CartItemResponse{}, NewValidation("invalid product_id")
	}
	if in.Quantity < 1 {
		return CartItemResponse{}, NewValidation("invalid quantity")
	}

	//カート存在チェック
	if _, err := u.cartRepo.FindByToken(ctx, token); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return CartItemResponse{}, NewNotFound("cart")
		}
		return CartItemResponse{}, NewInternal("db error")
	}

	//商品存在チェック
	p, err := u.productRepo.FindByID(ctx, in.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartItemResponse{}, NewNotFound("product")
	}
	if err != nil {
		return CartItemResponse{}, NewInternal("db error")
	}

	// Upsert（同一商品は加算）
	item, err := u.cartItemRepo.UpsertByCartAndProduct(ctx, token, in.ProductID, in.Quantity)
	if err != nil {
		return CartItemResponse{}, NewInternal("db error")
	}

	return toCartItemResponse(item, p), nil
}

// UpdateItem は明細の数量を置き換える。
func (u *CartUsecase) UpdateItem(ctx context.Context, token string, cartItemID int64, in UpdateCartItemInput) (CartItemResponse, error) {
	if strings.TrimSpace(token) == "" {
		return CartItemResponse{}, NewValidation("cart id required")
	}
	if cartItemID <= 0 {
		return CartItemResponse{}, NewValidation("invalid id")
	}
	if in.Quantity < 1 {
		return CartItemResponse{}, NewValidation("invalid quantity")
	}

	item, err := u.cartItemRepo.FindByID(ctx, cartItemID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartItemResponse{}, NewNotFound("cart item")
	}
	if err != nil {
		return CartItemResponse{}, NewInternal("db error")
	}

	//トークンの違うカートの明細は「存在しない扱い」にする
	if item.CartID != token {
		return CartItemResponse{}, NewNotFound("cart item")
	}

	if err := u.cartItemRepo.UpdateQuantity(ctx, cartItemID, in.Quantity); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return CartItemResponse{}, NewNotFound("cart item")
		}
		return CartItemResponse{}, NewInternal("db error")
	}

	//カート投入後に商品が消されていることもある
	p, err := u.productRepo.FindByID(ctx, item.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartItemResponse{}, NewNotFound("product")
	}
	if err != nil {
		return CartItemResponse{}, NewInternal("db error")
	}

	item.Quantity = in.Quantity
	return toCartItemResponse(item, p), nil
}

// DeleteItem は明細を削除する。
func (u *CartUsecase) DeleteItem(ctx context.Context, token string, cartItemID int64) error {
	if strings.TrimSpace(token) == "" {
		return NewValidation("cart id required")
	}
	if cartItemID <= 0 {
		return NewValidation("invalid id")
	}

	item, err := u.cartItemRepo.FindByID(ctx, cartItemID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewNotFound("cart item")
	}
	if err != nil {
		return NewInternal("db error")
	}
	if item.CartID != token {
		return NewNotFound("cart item")
	}

	if err := u.cartItemRepo.DeleteByID(ctx, cartItemID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFound("cart item")
		}
		return NewInternal("db error")
	}
	return nil
}

// カートの明細をまとめてCartResponseを作る。価格は現在の商品価格
func (u *CartUsecase) buildCartResponse(ctx context.Context, token string) (CartResponse, error) {
	items, err := u.cartItemRepo.ListByCartToken(ctx, token)
	if err != nil {
		return CartResponse{}, NewInternal("db error")
	}

	respItems := make([]CartItemResponse, 0, len(items))
	var total int64 = 0

	for _, it := range items {
		respItems = append(respItems, toCartItemResponse(it, it.Product))
		total += it.Product.Price * it.Quantity
	}

	return CartResponse{ID: token, Items: respItems, TotalPrice: total}, nil
}

func toCartItemResponse(item model.CartItem, p model.Product) CartItemResponse {
	return CartItemResponse{
		ID: item.ID,
		Product: ProductBrief{
			ID:    p.ID,
			Title: p.Title,
			Price: p.Price,
		},
		Quantity:   item.Quantity,
		TotalPrice: p.Price * item.Quantity,
	}
}
