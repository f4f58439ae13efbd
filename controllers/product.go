package controllers

import (
	"context"
	"net/http"
	"time"

	"go-storefront/apperr"
	"go-storefront/models"
	"go-storefront/seed"
	"go-storefront/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductController handles product-related requests
type ProductController struct {
	Products store.ProductStore
}

// NewProductController creates a new ProductController
func NewProductController(products store.ProductStore) *ProductController {
	return &ProductController{Products: products}
}

// GetProducts retrieves all products
func (pc *ProductController) GetProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	products, err := pc.Products.List(ctx)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// SeedProducts inserts the starter catalogue into an empty store
func (pc *ProductController) SeedProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	count, err := pc.Products.Count(ctx)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	if count > 0 {
		apperr.Write(w, apperr.Conflict("Products already seeded"))
		return
	}

	data, err := seed.Load()
	if err != nil {
		apperr.Write(w, err)
		return
	}
	created, err := pc.Products.InsertMany(ctx, data.Products)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"createdProducts": created})
}

// GetProductByID retrieves a single product
func (pc *ProductController) GetProductByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "Product")
	if err != nil {
		apperr.Write(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	product, err := pc.Products.FindByID(ctx, id)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func validateProduct(p *models.Product) error {
	switch {
	case p.Name == "":
		return apperr.Validation("Product name is required")
	case p.Price < 0:
		return apperr.Validation("Price must not be negative")
	case p.CountInStock < 0:
		return apperr.Validation("Count in stock must not be negative")
	}
	return nil
}

// CreateProduct handles adding a new product (Admin only)
func (pc *ProductController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if err := decodeBody(r, &product); err != nil {
		apperr.Write(w, err)
		return
	}
	if err := validateProduct(&product); err != nil {
		apperr.Write(w, err)
		return
	}
	product.ID = primitive.NilObjectID

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := pc.Products.Create(ctx, &product); err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"message": "Product Created", "product": product})
}

// UpdateProduct replaces a product's fields (Admin only)
func (pc *ProductController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "Product")
	if err != nil {
		apperr.Write(w, err)
		return
	}
	var product models.Product
	if err := decodeBody(r, &product); err != nil {
		apperr.Write(w, err)
		return
	}
	if err := validateProduct(&product); err != nil {
		apperr.Write(w, err)
		return
	}
	product.ID = id

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := pc.Products.Update(ctx, &product); err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "Product Updated", "product": product})
}

// DeleteProduct removes a product (Admin only)
func (pc *ProductController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "Product")
	if err != nil {
		apperr.Write(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := pc.Products.Delete(ctx, id); err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Product Deleted"})
}
