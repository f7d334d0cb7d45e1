// internal/reconciler/reconciler_test.go
package reconciler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/marigoldshop/catalog-admin/internal/models"
)

type mockCatalogAPI struct {
	mock.Mock
}

func (m *mockCatalogAPI) Create(ctx context.Context, payload models.Payload) (*models.Product, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *mockCatalogAPI) Update(ctx context.Context, id string, category models.Category, payload models.Payload) (*models.Product, error) {
	args := m.Called(ctx, id, category, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *mockCatalogAPI) UploadImage(ctx context.Context, filename string, data []byte) (string, error) {
	args := m.Called(ctx, filename, data)
	return args.String(0), args.Error(1)
}

func setupReconciler() (*Reconciler, *mockCatalogAPI) {
	api := new(mockCatalogAPI)
	return New(api), api
}

func TestSubmitCreateRingScenario(t *testing.T) {
	r, api := setupReconciler()

	d := r.Draft()
	d.Title = "Ring"
	d.SetCategory(models.CategoryAccessories)
	d.OriginalPrice = "500"
	d.SetImageURL("https://cdn.example.com/ring.jpg")

	var sent models.Payload
	api.On("Create", mock.Anything, mock.MatchedBy(func(p models.Payload) bool {
		sent = p
		return true
	})).Return(&models.Product{ID: "p1", Title: "Ring", Category: models.CategoryAccessories}, nil)

	product, err := r.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "p1", product.ID)

	api.AssertNumberOfCalls(t, "Create", 1)
	api.AssertNumberOfCalls(t, "Update", 0)
	api.AssertNumberOfCalls(t, "UploadImage", 0)

	assert.Equal(t, "Ring", sent["title"])
	assert.Equal(t, "accessories", sent["category"])
	assert.Equal(t, "500", sent["originalPrice"])
	assert.Equal(t, "https://cdn.example.com/ring.jpg", sent["imageUrl"])
	// legacy price back-filled from originalPrice
	assert.Equal(t, "500", sent["price"])
	// empty fields are dropped, never sent as blanks
	for _, key := range []string{"offerPrice", "badge", "subcategory", "availableQuantity", "description"} {
		_, present := sent[key]
		assert.Falsef(t, present, "payload should omit %s", key)
	}

	// draft resets to empty on success
	assert.Equal(t, Draft{}, *r.Draft())
}

func TestSubmitValidationFailuresMakeNoCalls(t *testing.T) {
	tests := []struct {
		name  string
		setup func(d *Draft)
		want  error
	}{
		{
			name: "missing title",
			setup: func(d *Draft) {
				d.SetCategory(models.CategoryGifts)
				d.SetImageURL("https://x/1.jpg")
			},
			want: ErrTitleRequired,
		},
		{
			name: "missing category",
			setup: func(d *Draft) {
				d.Title = "Candle"
				d.SetImageURL("https://x/1.jpg")
			},
			want: ErrCategoryRequired,
		},
		{
			name: "create without any image source",
			setup: func(d *Draft) {
				d.Title = "Candle"
				d.SetCategory(models.CategoryGifts)
			},
			want: ErrImageRequired,
		},
		{
			name: "subcategory from the wrong vocabulary",
			setup: func(d *Draft) {
				d.Title = "Candle"
				d.SetCategory(models.CategoryGifts)
				d.Subcategory = "earrings"
				d.SetImageURL("https://x/1.jpg")
			},
			want: ErrSubcategoryInvalid,
		},
		{
			name: "quantity not a number",
			setup: func(d *Draft) {
				d.Title = "Ring"
				d.SetCategory(models.CategoryAccessories)
				d.Quantity = "lots"
				d.SetImageURL("https://x/1.jpg")
			},
			want: ErrQuantityInvalid,
		},
		{
			name: "negative quantity",
			setup: func(d *Draft) {
				d.Title = "Ring"
				d.SetCategory(models.CategoryAccessories)
				d.Quantity = "-3"
				d.SetImageURL("https://x/1.jpg")
			},
			want: ErrQuantityInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, api := setupReconciler()
			tt.setup(r.Draft())

			_, err := r.Submit(context.Background())
			assert.ErrorIs(t, err, tt.want)

			api.AssertNumberOfCalls(t, "Create", 0)
			api.AssertNumberOfCalls(t, "Update", 0)
			api.AssertNumberOfCalls(t, "UploadImage", 0)
		})
	}
}

func TestImagePrecedenceFileBeatsURL(t *testing.T) {
	r, api := setupReconciler()

	d := r.Draft()
	d.Title = "Bracelet"
	d.SetCategory(models.CategoryAccessories)

	// typing a URL then selecting a file clears the URL
	d.SetImageURL("https://typed.example.com/b.jpg")
	d.SelectFile("b.png", []byte{0x89, 0x50, 0x4E, 0x47})
	assert.Empty(t, d.ImageURL)

	api.On("UploadImage", mock.Anything, "b.png", mock.Anything).
		Return("https://cdn.example.com/hosted.png", nil)
	api.On("Create", mock.Anything, mock.MatchedBy(func(p models.Payload) bool {
		return p["imageUrl"] == "https://cdn.example.com/hosted.png"
	})).Return(&models.Product{ID: "p2"}, nil)

	_, err := r.Submit(context.Background())
	require.NoError(t, err)
	api.AssertExpectations(t)
}

func TestImageInputsAreMutuallyExclusive(t *testing.T) {
	d := &Draft{}

	d.SelectFile("a.png", []byte{1})
	assert.True(t, d.HasFile())

	// typing a URL clears the file
	d.SetImageURL("https://x/a.jpg")
	assert.False(t, d.HasFile())
	assert.Equal(t, "https://x/a.jpg", d.ImageURL)
}

func TestEditRetainsExistingImage(t *testing.T) {
	r, api := setupReconciler()

	r.BeginEdit(models.Product{
		ID:       "p1",
		Title:    "Photo Frame",
		Category: models.CategoryGifts,
		Image:    "legacy-frame.jpg",
	})
	r.Draft().Description = "Hand-carved walnut frame"

	var sent models.Payload
	api.On("Update", mock.Anything, "p1", models.CategoryGifts, mock.MatchedBy(func(p models.Payload) bool {
		sent = p
		return true
	})).Return(&models.Product{ID: "p1"}, nil)

	_, err := r.Submit(context.Background())
	require.NoError(t, err)

	api.AssertNumberOfCalls(t, "Create", 0)
	api.AssertNumberOfCalls(t, "UploadImage", 0)
	assert.Equal(t, "legacy-frame.jpg", sent["imageUrl"])
	assert.Equal(t, "Hand-carved walnut frame", sent["description"])
}

func TestCategorySwitchClearsSubcategoryAndQuantity(t *testing.T) {
	r, api := setupReconciler()

	d := r.Draft()
	d.Title = "Surprise Box"
	d.SetCategory(models.CategoryAccessories)
	d.Subcategory = "earrings"
	d.Quantity = "7"
	d.SetImageURL("https://x/box.jpg")

	d.SetCategory(models.CategoryGifts)
	assert.Empty(t, d.Subcategory)

	var sent models.Payload
	api.On("Create", mock.Anything, mock.MatchedBy(func(p models.Payload) bool {
		sent = p
		return true
	})).Return(&models.Product{ID: "p3"}, nil)

	_, err := r.Submit(context.Background())
	require.NoError(t, err)

	// gifts never carry a quantity even though one was typed earlier
	_, present := sent["availableQuantity"]
	assert.False(t, present)
	_, present = sent["subcategory"]
	assert.False(t, present)
}

func TestAccessoriesQuantityIsSentAsInteger(t *testing.T) {
	r, api := setupReconciler()

	d := r.Draft()
	d.Title = "Hair Clip"
	d.SetCategory(models.CategoryAccessories)
	d.Quantity = "12"
	d.SetImageURL("https://x/clip.jpg")

	api.On("Create", mock.Anything, mock.MatchedBy(func(p models.Payload) bool {
		return p["availableQuantity"] == 12
	})).Return(&models.Product{ID: "p4"}, nil)

	_, err := r.Submit(context.Background())
	require.NoError(t, err)
	api.AssertExpectations(t)
}

func TestUploadFailureAbortsSubmit(t *testing.T) {
	r, api := setupReconciler()

	d := r.Draft()
	d.Title = "Necklace"
	d.SetCategory(models.CategoryAccessories)
	d.SelectFile("n.jpg", []byte{0xFF, 0xD8, 0xFF})

	api.On("UploadImage", mock.Anything, "n.jpg", mock.Anything).
		Return("", errors.New("connection reset"))

	_, err := r.Submit(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "image upload failed")
	assert.Contains(t, err.Error(), "connection reset")

	api.AssertNumberOfCalls(t, "Create", 0)
	api.AssertNumberOfCalls(t, "Update", 0)

	// the draft survives a failed submit so the operator can retry
	assert.Equal(t, "Necklace", r.Draft().Title)
	assert.True(t, r.Draft().HasFile())
}

func TestTransportFailureLeavesDraftIntact(t *testing.T) {
	r, api := setupReconciler()

	d := r.Draft()
	d.Title = "Candle"
	d.SetCategory(models.CategoryGifts)
	d.SetImageURL("https://x/c.jpg")

	api.On("Create", mock.Anything, mock.Anything).
		Return(nil, errors.New("failed to add product: unexpected status 502"))

	_, err := r.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Candle", r.Draft().Title)
}

func TestBeginEditSeedsDraft(t *testing.T) {
	r, _ := setupReconciler()

	qty := 3
	r.BeginEdit(models.Product{
		ID:                "p9",
		Title:             "Pearl Ring",
		Category:          models.CategoryAccessories,
		Subcategory:       "rings",
		OriginalPrice:     "900",
		OfferPrice:        "750",
		ImageURL:          "https://cdn/pearl.jpg",
		AvailableQuantity: &qty,
	})

	d := r.Draft()
	assert.True(t, d.Editing())
	assert.Equal(t, "p9", d.ProductID())
	assert.Equal(t, "Pearl Ring", d.Title)
	assert.Equal(t, "rings", d.Subcategory)
	assert.Equal(t, "3", d.Quantity)

	r.Reset()
	assert.False(t, r.Draft().Editing())
	assert.Equal(t, Draft{}, *r.Draft())
}
