// internal/reconciler/reconciler.go
package reconciler

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/marigoldshop/catalog-admin/internal/models"
)

// Validation failures. All fail fast: no transport call is issued when one
// of these is returned.
var (
	ErrTitleRequired      = errors.New("title is required")
	ErrCategoryRequired   = errors.New("category is required")
	ErrImageRequired      = errors.New("an image file or image URL is required")
	ErrSubcategoryInvalid = errors.New("subcategory does not belong to the selected category")
	ErrQuantityInvalid    = errors.New("available quantity must be a non-negative integer")
)

// CatalogAPI is the slice of the catalog client a Reconciler needs.
type CatalogAPI interface {
	Create(ctx context.Context, payload models.Payload) (*models.Product, error)
	Update(ctx context.Context, id string, category models.Category, payload models.Payload) (*models.Product, error)
	UploadImage(ctx context.Context, filename string, data []byte) (string, error)
}

// Draft is the single in-progress edit state for one product: a mutable
// superset of Product's editable fields plus a transient file selection.
// It exists only while the operator is composing a create or edit.
type Draft struct {
	Title         string
	Description   string
	Category      models.Category
	Subcategory   string
	Price         string
	OriginalPrice string
	OfferPrice    string
	Badge         string
	ImageURL      string // manually pasted URL
	Quantity      string // raw entry, parsed at submit

	productID     string // non-empty while editing an existing product
	existingImage string // prior image reference retained across an edit
	fileName      string
	fileData      []byte
}

// SetCategory switches the category and clears the selected subcategory;
// vocabularies differ per category so a stale value would be meaningless.
func (d *Draft) SetCategory(c models.Category) {
	if c != d.Category {
		d.Subcategory = ""
	}
	d.Category = c
}

// SelectFile records a file selection and clears any manually pasted URL.
// The two image inputs are mutually exclusive.
func (d *Draft) SelectFile(name string, data []byte) {
	d.fileName = name
	d.fileData = data
	d.ImageURL = ""
}

// SetImageURL records a pasted URL and clears any selected file.
func (d *Draft) SetImageURL(url string) {
	d.ImageURL = url
	d.fileName = ""
	d.fileData = nil
}

func (d *Draft) HasFile() bool {
	return len(d.fileData) > 0
}

// Editing reports whether the Draft was opened via BeginEdit.
func (d *Draft) Editing() bool {
	return d.productID != ""
}

func (d *Draft) ProductID() string {
	return d.productID
}

// Reconciler owns the one active Draft and converts it into a valid
// outbound payload: exactly one create or update call per submit.
type Reconciler struct {
	api   CatalogAPI
	draft Draft
	log   *logrus.Entry
}

func New(api CatalogAPI) *Reconciler {
	return &Reconciler{
		api: api,
		log: logrus.WithField("component", "reconciler"),
	}
}

// Draft exposes the active draft for field edits.
func (r *Reconciler) Draft() *Draft {
	return &r.draft
}

// BeginEdit seeds the Draft from an existing product. Subsequent submits
// issue an update scoped to that product's identifier and category.
func (r *Reconciler) BeginEdit(p models.Product) {
	qty := ""
	if p.AvailableQuantity != nil {
		qty = strconv.Itoa(*p.AvailableQuantity)
	}
	r.draft = Draft{
		Title:         p.Title,
		Description:   p.Description,
		Category:      p.Category,
		Subcategory:   p.Subcategory,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		OfferPrice:    p.OfferPrice,
		Badge:         p.Badge,
		Quantity:      qty,
		productID:     p.ID,
		existingImage: p.ImageRef(),
	}
}

// Reset discards the Draft, including any selected file.
func (r *Reconciler) Reset() {
	r.draft = Draft{}
}

// Submit validates the Draft, resolves the image source, builds the pruned
// payload and issues the create or update request. On success the Draft is
// reset to empty.
func (r *Reconciler) Submit(ctx context.Context) (*models.Product, error) {
	d := &r.draft

	if d.Title == "" {
		return nil, ErrTitleRequired
	}
	if !d.Category.Valid() {
		return nil, ErrCategoryRequired
	}
	if d.Subcategory != "" && !models.ValidSubcategory(d.Category, d.Subcategory) {
		return nil, ErrSubcategoryInvalid
	}

	quantity, err := d.parseQuantity()
	if err != nil {
		return nil, err
	}

	image, err := r.resolveImage(ctx, d)
	if err != nil {
		return nil, err
	}

	payload := buildPayload(d, image, quantity)

	var product *models.Product
	if d.Editing() {
		product, err = r.api.Update(ctx, d.productID, d.Category, payload)
	} else {
		product, err = r.api.Create(ctx, payload)
	}
	if err != nil {
		return nil, err
	}

	r.log.WithFields(logrus.Fields{
		"id":       product.ID,
		"category": product.Category,
		"editing":  d.Editing(),
	}).Info("draft submitted")

	r.Reset()
	return product, nil
}

// parseQuantity interprets the quantity entry only for accessories; gifts
// never carry a quantity even if one was typed under a prior category.
func (d *Draft) parseQuantity() (*int, error) {
	if d.Category != models.CategoryAccessories || d.Quantity == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(d.Quantity)
	if err != nil || n < 0 {
		return nil, ErrQuantityInvalid
	}
	return &n, nil
}

// resolveImage applies the fixed precedence: a newly selected file is
// uploaded and wins, then a pasted URL, then the image the product already
// had when editing. Creating with no source at all is a validation error.
func (r *Reconciler) resolveImage(ctx context.Context, d *Draft) (string, error) {
	if d.HasFile() {
		url, err := r.api.UploadImage(ctx, d.fileName, d.fileData)
		if err != nil {
			return "", fmt.Errorf("image upload failed: %w", err)
		}
		return url, nil
	}
	if d.ImageURL != "" {
		return d.ImageURL, nil
	}
	if d.Editing() && d.existingImage != "" {
		return d.existingImage, nil
	}
	return "", ErrImageRequired
}

func buildPayload(d *Draft, image string, quantity *int) models.Payload {
	// Back-fill the legacy price field from originalPrice so consumers
	// reading only the old field keep working.
	price := d.Price
	if price == "" {
		price = d.OriginalPrice
	}

	b := models.NewPayloadBuilder().
		Set("title", d.Title).
		Set("description", d.Description).
		Set("category", string(d.Category)).
		Set("subcategory", d.Subcategory).
		Set("badge", d.Badge).
		Set("price", price).
		Set("originalPrice", d.OriginalPrice).
		Set("offerPrice", d.OfferPrice).
		Set("imageUrl", image)

	if quantity != nil {
		b.SetInt("availableQuantity", *quantity)
	}

	return b.Build()
}
