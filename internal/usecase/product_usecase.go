package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// 画像は50KBまで（URL先のバイト数を申告してもらう）
const maxImageSizeBytes = 50 * 1024

type ProductUsecase struct {
	productRepo   repo.ProductRepository
	orderItemRepo repo.OrderItemRepository
	imageRepo     repo.ProductImageRepository
	inventoryRepo repo.InventoryRepository
	auditRepo     repo.AuditLogRepository
	clock         Clock
}

// DI
func NewProductUsecase(
	productRepo repo.ProductRepository,
	orderItemRepo repo.OrderItemRepository,
	imageRepo repo.ProductImageRepository,
	inventoryRepo repo.InventoryRepository,
	auditRepo repo.AuditLogRepository,
	clock Clock,
) *ProductUsecase {
	return &ProductUsecase{
		productRepo:   productRepo,
		orderItemRepo: orderItemRepo,
		imageRepo:     imageRepo,
		inventoryRepo: inventoryRepo,
		auditRepo:     auditRepo,
		clock:         clock,
	}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Page         int
	Limit        int
	Q            string
	CollectionID *int64
	MinPrice     *int64
	MaxPrice     *int64
	Sort         string
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// 詳細は税込価格も返す（price × 1.1）
type ProductDetailOutput struct {
	model.Product
	PriceWithTax int64                `json:"price_with_tax"`
	Images       []model.ProductImage `json:"images"`
}

func (u *ProductUsecase) ListPublicProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if in.Page < 1 {
		return ProductListOutput{}, NewValidation("invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ProductListOutput{}, NewValidation("invalid limit")
	}
	if len(in.Q) > 100 {
		return ProductListOutput{}, NewValidation("q too long")
	}
	if in.MinPrice != nil && *in.MinPrice < 0 {
		return ProductListOutput{}, NewValidation("min_price must be >= 0")
	}
	if in.MaxPrice != nil && *in.MaxPrice < 0 {
		return ProductListOutput{}, NewValidation("max_price must be >= 0")
	}
	if in.MinPrice != nil && in.MaxPrice != nil && *in.MinPrice > *in.MaxPrice {
		return ProductListOutput{}, NewValidation("min_price must be <= max_price")
	}
	switch in.Sort {
	case "", "price_asc", "price_desc", "last_update":
	default:
		return ProductListOutput{}, NewValidation("invalid sort")
	}

	items, total, err := u.productRepo.ListPublic(ctx, repo.ProductListQuery{
		Page:         in.Page,
		Limit:        in.Limit,
		Q:            strings.TrimSpace(in.Q),
		CollectionID: in.CollectionID,
		MinPrice:     in.MinPrice,
		MaxPrice:     in.MaxPrice,
		Sort:         in.Sort,
	})
	if err != nil {
		return ProductListOutput{}, NewInternal("db error")
	}

	return ProductListOutput{
		Items: items,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

func (u *ProductUsecase) GetProductDetail(ctx context.Context, productID int64) (ProductDetailOutput, error) {
	if productID <= 0 {
		return ProductDetailOutput{}, NewValidation("invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return ProductDetailOutput{}, NewNotFound("product")
	}
	if err != nil {
		return ProductDetailOutput{}, NewInternal("db error")
	}

	images, err := u.imageRepo.ListByProductID(ctx, productID)
	if err != nil {
		return ProductDetailOutput{}, NewInternal("db error")
	}

	return ProductDetailOutput{
		Product:      p,
		PriceWithTax: p.Price * 11 / 10,
		Images:       images,
	}, nil
}

type AdminProductInput struct {
	Title        string
	Slug         string
	Description  string
	Price        int64
	Inventory    int64
	CollectionID int64
}

func (u *ProductUsecase) AdminCreateProduct(ctx context.Context, adminUserID int64, in AdminProductInput) (int64, error) {
	if adminUserID <= 0 {
		return 0, NewUnauthorized()
	}
	if strings.TrimSpace(in.Title) == "" {
		return 0, NewValidation("title required")
	}
	if in.Price < 0 {
		return 0, NewValidation("price must be >= 0")
	}
	if in.Inventory < 0 {
		return 0, NewValidation("inventory must be >= 0")
	}
	if in.CollectionID <= 0 {
		return 0, NewValidation("invalid collection_id")
	}

	p, err := u.productRepo.Create(ctx, model.Product{
		Title:        strings.TrimSpace(in.Title),
		Slug:         strings.TrimSpace(in.Slug),
		Description:  in.Description,
		Price:        in.Price,
		Inventory:    in.Inventory,
		CollectionID: in.CollectionID,
	})
	if err != nil {
		return 0, NewInternal("db error")
	}

	u.writeAudit(ctx, adminUserID, model.AuditActionCreateProduct, model.AuditResourceProduct, p.ID, nil, p)
	return p.ID, nil
}

func (u *ProductUsecase) AdminUpdateProduct(ctx context.Context, adminUserID int64, productID int64, in AdminProductInput) error {
	if adminUserID <= 0 {
		return NewUnauthorized()
	}
	if productID <= 0 {
		return NewValidation("invalid product id")
	}
	if strings.TrimSpace(in.Title) == "" {
		return NewValidation("title required")
	}
	if in.Price < 0 {
		return NewValidation("price must be >= 0")
	}
	if in.Inventory < 0 {
		return NewValidation("inventory must be >= 0")
	}

	//変更前を監査用に取っておく
	before, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewNotFound("product")
	}
	if err != nil {
		return NewInternal("db error")
	}

	after := model.Product{
		ID:           productID,
		Title:        strings.TrimSpace(in.Title),
		Slug:         strings.TrimSpace(in.Slug),
		Description:  in.Description,
		Price:        in.Price,
		Inventory:    in.Inventory,
		CollectionID: in.CollectionID,
		UpdatedAt:    u.clock.Now(),
	}

	err = u.productRepo.Update(ctx, after)
	if errors.Is(err, repo.ErrNotFound) {
		return NewNotFound("product")
	}
	if err != nil {
		return NewInternal("db error")
	}

	u.writeAudit(ctx, adminUserID, model.AuditActionUpdateProduct, model.AuditResourceProduct, productID, before, after)
	return nil
}

// 注文明細から参照されている商品は消せない
func (u *ProductUsecase) AdminDeleteProduct(ctx context.Context, adminUserID int64, productID int64) error {
	if adminUserID <= 0 {
		return NewUnauthorized()
	}
	if productID <= 0 {
		return NewValidation("invalid product id")
	}

	refs, err := u.orderItemRepo.CountByProductID(ctx, productID)
	if err != nil {
		return NewInternal("db error")
	}
	if refs > 0 {
		return NewInvalidState("product is referenced by order items")
	}

	err = u.productRepo.SoftDelete(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewNotFound("product")
	}
	if err != nil {
		return NewInternal("db error")
	}

	u.writeAudit(ctx, adminUserID, model.AuditActionDeleteProduct, model.AuditResourceProduct, productID, nil, nil)
	return nil
}

func (u *ProductUsecase) AdminSetInventory(ctx context.Context, adminUserID int64, productID int64, newStock int64, reason string) error {
	if adminUserID <= 0 {
		return NewUnauthorized()
	}
	if productID <= 0 {
		return NewValidation("invalid product id")
	}
	if newStock < 0 {
		return NewValidation("inventory must be >= 0")
	}
	if strings.TrimSpace(reason) == "" {
		return NewValidation("reason required")
	}

	//変更前の在庫（before）
	before, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewNotFound("product")
	}
	if err != nil {
		return NewInternal("db error")
	}

	err = u.inventoryRepo.SetStockWithAdjustment(ctx, adminUserID, productID, newStock, strings.TrimSpace(reason))
	if errors.Is(err, repo.ErrNotFound) {
		return NewNotFound("product")
	}
	if err != nil {
		return NewInternal("db error")
	}

	u.writeAudit(ctx, adminUserID, model.AuditActionUpdateStock, model.AuditResourceProduct, productID,
		map[string]int64{"inventory": before.Inventory},
		map[string]int64{"inventory": newStock})
	return nil
}

type AddProductImageInput struct {
	URL       string
	SizeBytes int64
}

func (u *ProductUsecase) ListProductImages(ctx context.Context, productID int64) ([]model.ProductImage, error) {
	if productID <= 0 {
		return nil, NewValidation("invalid product id")
	}

	if _, err := u.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewNotFound("product")
		}
		return nil, NewInternal("db error")
	}

	images, err := u.imageRepo.ListByProductID(ctx, productID)
	if err != nil {
		return nil, NewInternal("db error")
	}
	return images, nil
}

func (u *ProductUsecase) AdminAddProductImage(ctx context.Context, adminUserID int64, productID int64, in AddProductImageInput) (model.ProductImage, error) {
	if adminUserID <= 0 {
		return model.ProductImage{}, NewUnauthorized()
	}
	if productID <= 0 {
		return model.ProductImage{}, NewValidation("invalid product id")
	}
	if strings.TrimSpace(in.URL) == "" {
		return model.ProductImage{}, NewValidation("image url required")
	}
	if in.SizeBytes <= 0 {
		return model.ProductImage{}, NewValidation("invalid size")
	}
	if in.SizeBytes > maxImageSizeBytes {
		return model.ProductImage{}, NewValidation("file can not be larger than 50 kb")
	}

	if _, err := u.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.ProductImage{}, NewNotFound("product")
		}
		return model.ProductImage{}, NewInternal("db error")
	}

	image, err := u.imageRepo.Create(ctx, model.ProductImage{
		ProductID: productID,
		URL:       strings.TrimSpace(in.URL),
		SizeBytes: in.SizeBytes,
	})
	if err != nil {
		return model.ProductImage{}, NewInternal("db error")
	}
	return image, nil
}

func (u *ProductUsecase) AdminDeleteProductImage(ctx context.Context, adminUserID int64, imageID int64) error {
	if adminUserID <= 0 {
		return NewUnauthorized()
	}
	if imageID <= 0 {
		return NewValidation("invalid id")
	}

	err := u.imageRepo.Delete(ctx, imageID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewNotFound("image")
	}
	if err != nil {
		return NewInternal("db error")
	}
	return nil
}

// 監査ログは本処理を失敗させない
func (u *ProductUsecase) writeAudit(ctx context.Context, actorUserID int64, action model.AuditAction, resourceType model.AuditResourceType, resourceID int64, before any, after any) {
	log := model.AuditLog{
		ActorUserID:  actorUserID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		CreatedAt:    u.clock.Now(),
	}
	if before != nil {
		if b, err := json.Marshal(before); err == nil {
			log.BeforeJSON = string(b)
		}
	}
	if after != nil {
		if a, err := json.Marshal(after); err == nil {
			log.AfterJSON = string(a)
		}
	}

	_ = u.auditRepo.Create(ctx, log)
}
