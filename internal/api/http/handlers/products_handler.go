package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/fusion-kit/auth-service/internal/api/dto"
	"github.com/fusion-kit/auth-service/internal/auth"
	"github.com/fusion-kit/auth-service/internal/domain"
	"github.com/fusion-kit/auth-service/internal/service"
	apperrors "github.com/fusion-kit/auth-service/pkg/util"
)

// ProductsHandler exposes catalog CRUD over the document store.
type ProductsHandler struct {
	products *service.ProductService
}

// NewProductsHandler constructs the handler.
func NewProductsHandler(productService *service.ProductService) *ProductsHandler {
	return &ProductsHandler{products: productService}
}

func productResponse(p domain.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		IsActive:    p.IsActive,
		CreatedBy:   p.CreatedBy,
	}
}

// Create handles POST /products.
func (h *ProductsHandler) Create(c *fiber.Ctx) error {
	caller, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	var req dto.ProductCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	product := &domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
	}
	created, err := h.products.Create(c.UserContext(), product, caller.Principal.ID)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": productResponse(*created)})
}

// List handles GET /products.
func (h *ProductsHandler) List(c *fiber.Ctx) error {
	products, err := h.products.List(c.UserContext())
	if err != nil {
		return err
	}

	responses := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		responses = append(responses, productResponse(p))
	}
	return c.JSON(fiber.Map{"data": responses})
}

// Get handles GET /products/:id.
func (h *ProductsHandler) Get(c *fiber.Ctx) error {
	product, err := h.products.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": productResponse(*product)})
}

// Update handles PUT /products/:id.
func (h *ProductsHandler) Update(c *fiber.Ctx) error {
	var req dto.ProductUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	product, err := h.products.Update(c.UserContext(), c.Params("id"), req.Fields())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": productResponse(*product)})
}

// Delete handles DELETE /products/:id.
func (h *ProductsHandler) Delete(c *fiber.Ctx) error {
	caller, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	if err := h.products.Delete(c.UserContext(), c.Params("id"), caller.Principal.ID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}
