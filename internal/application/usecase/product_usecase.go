package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// ProductUseCase administración de productos (colaborador administrativo).
type ProductUseCase struct {
	productRepo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(productRepo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{productRepo: productRepo}
}

// Create registra un producto con su costo vigente y precios de referencia.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*entity.Product, error) {
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Cost.LessThan(decimal.Zero) || in.RetailPrice.LessThan(decimal.Zero) || in.WholesalePrice.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.productRepo.GetBySKU(ctx, in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	product := &entity.Product{
		ID:             uuid.New().String(),
		SKU:            in.SKU,
		Name:           in.Name,
		Cost:           in.Cost,
		RetailPrice:    in.RetailPrice,
		WholesalePrice: in.WholesalePrice,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetByID obtiene un producto.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return uc.productRepo.List(ctx, limit, offset)
}

// SetCost revisa el costo vigente del producto en una sola operación. El
// costo nuevo rige solo para transacciones futuras: las ventas registradas
// conservan su cost_basis intacto.
func (uc *ProductUseCase) SetCost(ctx context.Context, id string, cost decimal.Decimal) (*entity.Product, error) {
	if cost.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.productRepo.UpdateCost(ctx, id, cost); err != nil {
		return nil, err
	}
	product.Cost = cost
	product.UpdatedAt = time.Now()
	return product, nil
}

// Update actualiza nombre, costo vigente y precios. El costo nuevo rige
// solo para transacciones futuras: el cost_basis de ventas pasadas no se
// recalcula nunca.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*entity.Product, error) {
	product, err := uc.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		product.Name = in.Name
	}
	if in.Cost != nil {
		if in.Cost.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product.Cost = *in.Cost
	}
	if in.RetailPrice != nil {
		if in.RetailPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product.RetailPrice = *in.RetailPrice
	}
	if in.WholesalePrice != nil {
		if in.WholesalePrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product.WholesalePrice = *in.WholesalePrice
	}
	product.UpdatedAt = time.Now()
	if err := uc.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}
