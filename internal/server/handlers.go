// internal/server/handlers.go
package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/marigoldshop/catalog-admin/internal/models"
	"github.com/marigoldshop/catalog-admin/internal/storage"
)

type ProductHandler struct {
	db  *gorm.DB
	log *logrus.Entry
}

func NewProductHandler(db *gorm.DB) *ProductHandler {
	return &ProductHandler{
		db:  db,
		log: logrus.WithField("component", "product_handler"),
	}
}

type createProductRequest struct {
	Title             string          `json:"title" validate:"required"`
	Description       string          `json:"description"`
	Category          models.Category `json:"category" validate:"required"`
	Subcategory       string          `json:"subcategory"`
	Price             string          `json:"price"`
	OriginalPrice     string          `json:"originalPrice"`
	OfferPrice        string          `json:"offerPrice"`
	Badge             string          `json:"badge"`
	Image             string          `json:"image"`
	ImageURL          string          `json:"imageUrl"`
	AvailableQuantity *int            `json:"availableQuantity" validate:"omitempty,min=0"`
}

type updateProductRequest struct {
	Title             string          `json:"title"`
	Description       string          `json:"description"`
	Category          models.Category `json:"category"`
	Subcategory       string          `json:"subcategory"`
	Price             string          `json:"price"`
	OriginalPrice     string          `json:"originalPrice"`
	OfferPrice        string          `json:"offerPrice"`
	Badge             string          `json:"badge"`
	Image             string          `json:"image"`
	ImageURL          string          `json:"imageUrl"`
	AvailableQuantity *int            `json:"availableQuantity" validate:"omitempty,min=0"`
}

// GET /products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	var products []models.Product
	if err := h.db.Order("created_at ASC").Find(&products).Error; err != nil {
		h.log.WithError(err).Error("failed to list products")
		respondError(c, http.StatusInternalServerError, "failed to load products")
		return
	}

	catalog := models.Catalog{
		Accessories: make([]models.Product, 0),
		Gifts:       make([]models.Product, 0),
	}
	for _, p := range products {
		switch p.Category {
		case models.CategoryAccessories:
			catalog.Accessories = append(catalog.Accessories, p)
		case models.CategoryGifts:
			catalog.Gifts = append(catalog.Gifts, p)
		}
	}

	c.JSON(http.StatusOK, catalog)
}

// POST /products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := validateStruct(&req); err != nil {
		respondError(c, http.StatusBadRequest, validationMessage(err))
		return
	}
	if !req.Category.Valid() {
		respondError(c, http.StatusBadRequest, "invalid category")
		return
	}
	if req.Subcategory != "" && !models.ValidSubcategory(req.Category, req.Subcategory) {
		respondError(c, http.StatusBadRequest, "invalid subcategory for category")
		return
	}
	// A product must have a resolvable image at creation.
	if req.ImageURL == "" && req.Image == "" {
		respondError(c, http.StatusBadRequest, "an image is required")
		return
	}

	product := models.Product{
		Title:             req.Title,
		Description:       req.Description,
		Category:          req.Category,
		Subcategory:       req.Subcategory,
		Price:             req.Price,
		OriginalPrice:     req.OriginalPrice,
		OfferPrice:        req.OfferPrice,
		Badge:             req.Badge,
		Image:             req.Image,
		ImageURL:          req.ImageURL,
		AvailableQuantity: req.AvailableQuantity,
	}

	if err := h.db.Create(&product).Error; err != nil {
		h.log.WithError(err).Error("failed to create product")
		respondError(c, http.StatusInternalServerError, "failed to add product")
		return
	}

	c.JSON(http.StatusCreated, product)
}

// PUT /products/:id?category=
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	product, ok := h.findProduct(c)
	if !ok {
		return
	}

	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateStruct(&req); err != nil {
		respondError(c, http.StatusBadRequest, validationMessage(err))
		return
	}

	// Absent fields never clobber stored values; only supplied, non-empty
	// fields are applied.
	updates := map[string]interface{}{}

	targetCategory := product.Category
	if req.Category != "" {
		if !req.Category.Valid() {
			respondError(c, http.StatusBadRequest, "invalid category")
			return
		}
		targetCategory = req.Category
		if req.Category != product.Category {
			updates["category"] = req.Category
			// The old subcategory belongs to the old vocabulary.
			if req.Subcategory == "" {
				updates["subcategory"] = ""
			}
		}
	}
	if req.Subcategory != "" {
		if !models.ValidSubcategory(targetCategory, req.Subcategory) {
			respondError(c, http.StatusBadRequest, "invalid subcategory for category")
			return
		}
		updates["subcategory"] = req.Subcategory
	}
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Price != "" {
		updates["price"] = req.Price
	}
	if req.OriginalPrice != "" {
		updates["original_price"] = req.OriginalPrice
	}
	if req.OfferPrice != "" {
		updates["offer_price"] = req.OfferPrice
	}
	if req.Badge != "" {
		updates["badge"] = req.Badge
	}
	if req.Image != "" {
		updates["image"] = req.Image
	}
	if req.ImageURL != "" {
		updates["image_url"] = req.ImageURL
	}
	if req.AvailableQuantity != nil {
		updates["available_quantity"] = *req.AvailableQuantity
	}

	if len(updates) > 0 {
		if err := h.db.Model(product).Updates(updates).Error; err != nil {
			h.log.WithError(err).Error("failed to update product")
			respondError(c, http.StatusInternalServerError, "failed to update product")
			return
		}
	}

	if err := h.db.First(product, "id = ?", product.ID).Error; err != nil {
		h.log.WithError(err).Error("failed to reload product")
		respondError(c, http.StatusInternalServerError, "failed to update product")
		return
	}

	c.JSON(http.StatusOK, product)
}

// DELETE /products/:id[?category=]
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	product, ok := h.findProduct(c)
	if !ok {
		return
	}

	if err := h.db.Delete(product).Error; err != nil {
		h.log.WithError(err).Error("failed to delete product")
		respondError(c, http.StatusInternalServerError, "failed to delete product")
		return
	}

	// The deleted representation is the response body.
	c.JSON(http.StatusOK, product)
}

// findProduct looks up the :id product, filtered by the optional category
// query when the caller supplied one.
func (h *ProductHandler) findProduct(c *gin.Context) (*models.Product, bool) {
	id := c.Param("id")

	query := h.db
	if category := c.Query("category"); category != "" {
		if !models.Category(category).Valid() {
			respondError(c, http.StatusBadRequest, "invalid category")
			return nil, false
		}
		query = query.Where("category = ?", category)
	}

	var product models.Product
	if err := query.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "product not found")
			return nil, false
		}
		h.log.WithError(err).Error("failed to look up product")
		respondError(c, http.StatusInternalServerError, "failed to load product")
		return nil, false
	}

	return &product, true
}

type UploadHandler struct {
	uploader *storage.Uploader
	log      *logrus.Entry
}

func NewUploadHandler(uploader *storage.Uploader) *UploadHandler {
	return &UploadHandler{
		uploader: uploader,
		log:      logrus.WithField("component", "upload_handler"),
	}
}

// POST /upload (multipart form field "image")
func (h *UploadHandler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "no image file provided")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "failed to read image file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(c, http.StatusBadRequest, "failed to read image file")
		return
	}

	url, err := h.uploader.UploadImage(data, fileHeader.Filename, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		h.log.WithError(err).Warn("image upload rejected")
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
