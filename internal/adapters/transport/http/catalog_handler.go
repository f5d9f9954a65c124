package http

import (
	nethttp "net/http"

	"github.com/Miraines/MoonyAndStarry/shop-service/internal/adapters/transport/http/dto"
	catalogModel "github.com/Miraines/MoonyAndStarry/shop-service/internal/domain/catalog/model"
	"github.com/gin-gonic/gin"
)

func (h *Handler) AddCategory(c *gin.Context) {
	var in dto.CategoryDTO
	if err := c.ShouldBind(&in); err != nil {
		badRequest(c, err)
		return
	}
	avatar, err := h.saveUpload(c, "avatar")
	if err != nil {
		handleError(c, err)
		return
	}
	defer removeFiles(avatar)
	in.AvatarPath = avatar

	cat, err := h.catalog.AddCategory(c.Request.Context(), in)
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, nethttp.StatusCreated, dto.NewCategoryResponse(cat), "category added")
}

func (h *Handler) ListCategories(c *gin.Context) {
	list, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, nethttp.StatusOK, dto.NewCategoryListResponse(list), "")
}

func (h *Handler) GetCategory(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		handleError(c, err)
		return
	}
	cat, err := h.catalog.GetCategory(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, nethttp.StatusOK, dto.NewCategoryResponse(cat), "")
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		handleError(c, err)
		return
	}
	var in dto.UpdateCategoryDTO
	if err := c.ShouldBind(&in); err != nil {
		badRequest(c, err)
		return
	}
	avatar, err := h.saveUpload(c, "avatar")
	if err != nil {
		handleError(c, err)
		return
	}
	defer removeFiles(avatar)
	in.AvatarPath = avatar

	cat, err := h.catalog.UpdateCategory(c.Request.Context(), id, in)
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, nethttp.StatusOK, dto.NewCategoryResponse(cat), "category updated")
}

func (h *Handler) DeleteCategory(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		handleError(c, err)
		return
	}
	if err := h.catalog.DeleteCategory(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	respond(c, nethttp.StatusOK, nil, "category deleted")
}

func (h *Handler) AddProduct(c *gin.Context) {
	var in dto.ProductDTO
	if err := c.ShouldBind(&in); err != nil {
		badRequest(c, err)
		return
	}
	images, err := h.saveUploads(c, "images", catalogModel.MaxProductImages)
	if err != nil {
		handleError(c, err)
		return
	}
	defer removeFiles(images...)
	in.ImagePaths = images

	prod, err := h.catalog.AddProduct(c.Request.Context(), in)
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, nethttp.StatusCreated, dto.NewProductResponse(prod), "product added")
}

func (h *Handler) ListProducts(c *gin.Context) {
	list, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, nethttp.StatusOK, dto.NewProductListResponse(list), "")
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		handleError(c, err)
		return
	}
	prod, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, nethttp.StatusOK, dto.NewProductResponse(prod), "")
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		handleError(c, err)
		return
	}
	var in dto.UpdateProductDTO
	if err := c.ShouldBind(&in); err != nil {
		badRequest(c, err)
		return
	}
	images, err := h.saveUploads(c, "images", catalogModel.MaxProductImages)
	if err != nil {
		handleError(c, err)
		return
	}
	defer removeFiles(images...)
	in.ImagePaths = images

	prod, err := h.catalog.UpdateProduct(c.Request.Context(), id, in)
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, nethttp.StatusOK, dto.NewProductResponse(prod), "product updated")
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		handleError(c, err)
		return
	}
	if err := h.catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	respond(c, nethttp.StatusOK, nil, "product deleted")
}
