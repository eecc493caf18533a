package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary      List Products
// @Description  List active catalog products
// @Tags         catalog
// @Produce      json
// @Success      200  {array}  catalogdomain.Product
// @Router       /products [get]
func (s *Server) ListProducts(c *gin.Context) {
	products, err := s.catalogSvc.ListActive(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": products})
}

// @Summary      Get Product
// @Description  Get a catalog product by package code
// @Tags         catalog
// @Produce      json
// @Param        packageCode path string true "Package Code"
// @Success      200  {object}  catalogdomain.Product
// @Router       /products/{packageCode} [get]
func (s *Server) GetProduct(c *gin.Context) {
	product, err := s.catalogSvc.GetByCode(c.Request.Context(), c.Param("packageCode"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": product})
}
