// internal/server/router.go
package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/marigoldshop/catalog-admin/internal/storage"
)

func NewRouter(db *gorm.DB, uploader *storage.Uploader) *gin.Engine {
	productHandler := NewProductHandler(db)
	uploadHandler := NewUploadHandler(uploader)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger())
	r.Use(cors.Default())
	r.Use(GeneralRateLimit())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	r.GET("/products", productHandler.ListProducts)
	r.POST("/products", productHandler.CreateProduct)
	r.PUT("/products/:id", productHandler.UpdateProduct)
	r.DELETE("/products/:id", productHandler.DeleteProduct)

	r.POST("/upload", UploadRateLimit(), uploadHandler.UploadImage)

	return r
}
