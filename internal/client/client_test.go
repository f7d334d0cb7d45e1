// internal/client/client_test.go
package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marigoldshop/catalog-admin/internal/models"
)

func TestList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/products", r.URL.Path)
		json.NewEncoder(w).Encode(models.Catalog{
			Accessories: []models.Product{{ID: "a1", Title: "Ring"}},
			Gifts:       []models.Product{{ID: "g1", Title: "Hamper"}},
		})
	}))
	defer srv.Close()

	catalog, err := New(srv.URL).List(context.Background())
	require.NoError(t, err)
	assert.Len(t, catalog.Accessories, 1)
	assert.Len(t, catalog.Gifts, 1)
	assert.Equal(t, "Ring", catalog.Accessories[0].Title)
}

func TestListTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL).List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load products")
}

func TestCreateSendsPrunedPayload(t *testing.T) {
	var received map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.Product{ID: "p1", Title: "Ring"})
	}))
	defer srv.Close()

	payload := models.Payload{"title": "Ring", "category": "accessories", "imageUrl": "https://x/r.jpg"}
	product, err := New(srv.URL).Create(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, "p1", product.ID)
	assert.Equal(t, "Ring", received["title"])
	_, present := received["badge"]
	assert.False(t, present)
}

func TestCreateSurfacesServerErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "title is required"})
	}))
	defer srv.Close()

	_, err := New(srv.URL).Create(context.Background(), models.Payload{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title is required")
}

func TestUpdateRoutesByIDAndCategory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/products/p1", r.URL.Path)
		assert.Equal(t, "gifts", r.URL.Query().Get("category"))
		json.NewEncoder(w).Encode(models.Product{ID: "p1"})
	}))
	defer srv.Close()

	_, err := New(srv.URL).Update(context.Background(), "p1", models.CategoryGifts, models.Payload{"description": "x"})
	require.NoError(t, err)
}

func TestDeleteCategoryIsOptional(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode(models.Product{ID: "p1", Title: "Ring"})
	}))
	defer srv.Close()

	c := New(srv.URL)

	product, err := c.Delete(context.Background(), "p1", "")
	require.NoError(t, err)
	assert.Equal(t, "Ring", product.Title)
	assert.Empty(t, gotQuery)

	_, err = c.Delete(context.Background(), "p1", models.CategoryAccessories)
	require.NoError(t, err)
	assert.Equal(t, "category=accessories", gotQuery)
}

func TestUploadImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "ring.png", header.Filename)
		json.NewEncoder(w).Encode(map[string]string{"url": "https://cdn.example.com/ring.png"})
	}))
	defer srv.Close()

	url, err := New(srv.URL).UploadImage(context.Background(), "ring.png", []byte{0x89, 0x50, 0x4E, 0x47})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/ring.png", url)
}

func TestUploadImageSurfacesErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "file is not a supported image format"})
	}))
	defer srv.Close()

	_, err := New(srv.URL).UploadImage(context.Background(), "doc.pdf", []byte("%PDF"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a supported image format")
}

func TestUploadImageTruncatedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// advertise more bytes than are sent so the body read fails
		w.Header().Set("Content-Length", "100")
		w.Write([]byte(`{"url": "https://cdn`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).UploadImage(context.Background(), "a.png", []byte{0x89, 0x50, 0x4E, 0x47})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read upload response")
}

func TestUploadImageGenericFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer srv.Close()

	_, err := New(srv.URL).UploadImage(context.Background(), "a.png", []byte{1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 500")
}
