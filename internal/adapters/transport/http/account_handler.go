package http

import (
	nethttp "net/http"

	"github.com/Miraines/MoonyAndStarry/shop-service/internal/adapters/transport/http/dto"
	"github.com/gin-gonic/gin"
)

func (h *Handler) AddAddress(c *gin.Context) {
	uid, err := currentUser(c)
	if err != nil {
		handleError(c, err)
		return
	}
	var in dto.AddressDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	addr, err := h.account.AddAddress(c.Request.Context(), uid, in)
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, nethttp.StatusCreated, dto.NewAddressResponse(addr), "address added")
}

func (h *Handler) ListAddresses(c *gin.Context) {
	uid, err := currentUser(c)
	if err != nil {
		handleError(c, err)
		return
	}
	list, err := h.account.ListAddresses(c.Request.Context(), uid)
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, nethttp.StatusOK, dto.NewAddressListResponse(list), "")
}

func (h *Handler) GetAddress(c *gin.Context) {
	uid, err := currentUser(c)
	if err != nil {
		handleError(c, err)
		return
	}
	id, err := pathID(c)
	if err != nil {
		handleError(c, err)
		return
	}
	addr, err := h.account.GetAddress(c.Request.Context(), uid, id)
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, nethttp.StatusOK, dto.NewAddressResponse(addr), "")
}

func (h *Handler) UpdateAddress(c *gin.Context) {
	uid, err := currentUser(c)
	if err != nil {
		handleError(c, err)
		return
	}
	id, err := pathID(c)
	if err != nil {
		handleError(c, err)
		return
	}
	var in dto.UpdateAddressDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	addr, err := h.account.UpdateAddress(c.Request.Context(), uid, id, in)
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, nethttp.StatusOK, dto.NewAddressResponse(addr), "address updated")
}

func (h *Handler) DeleteAddress(c *gin.Context) {
	uid, err := currentUser(c)
	if err != nil {
		handleError(c, err)
		return
	}
	id, err := pathID(c)
	if err != nil {
		handleError(c, err)
		return
	}
	if err := h.account.DeleteAddress(c.Request.Context(), uid, id); err != nil {
		handleError(c, err)
		return
	}
	respond(c, nethttp.StatusOK, nil, "address deleted")
}
