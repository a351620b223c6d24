package httpapi

import (
	"net/http"

	"github.com/MarkoPoloResearchLab/innkeeper/pkg/hotel"
	"github.com/gin-gonic/gin"
)

func (handler *httpHandler) handleListRooms(ctx *gin.Context) {
	rooms, err := handler.service.ListRooms(ctx.Request.Context())
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"rooms": roomResponses(rooms)})
}

func (handler *httpHandler) handleCreateRoom(ctx *gin.Context) {
	var request roomRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		respondInvalidPayload(ctx, "expected room JSON body")
		return
	}
	room, err := request.toRoom()
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	created, err := handler.service.CreateRoom(ctx.Request.Context(), room)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"room": newRoomResponse(created)})
}

func (handler *httpHandler) handleGetRoom(ctx *gin.Context) {
	roomID, err := hotel.ParseRoomID(ctx.Param("id"))
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	room, err := handler.service.GetRoom(ctx.Request.Context(), roomID)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"room": newRoomResponse(room)})
}

func (handler *httpHandler) handleUpdateRoom(ctx *gin.Context) {
	roomID, err := hotel.ParseRoomID(ctx.Param("id"))
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	var request roomRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		respondInvalidPayload(ctx, "expected room JSON body")
		return
	}
	room, err := request.toRoom()
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	room.ID = roomID
	updated, err := handler.service.UpdateRoom(ctx.Request.Context(), room)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"room": newRoomResponse(updated)})
}

func (handler *httpHandler) handleDeleteRoom(ctx *gin.Context) {
	roomID, err := hotel.ParseRoomID(ctx.Param("id"))
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	if err := handler.service.DeleteRoom(ctx.Request.Context(), roomID); err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (handler *httpHandler) handleAvailableRooms(ctx *gin.Context) {
	stay, err := stayPayload{
		CheckInDate:  ctx.Query("check_in_date"),
		CheckOutDate: ctx.Query("check_out_date"),
		CheckInTime:  ctx.Query("check_in_time"),
		CheckOutTime: ctx.Query("check_out_time"),
	}.toStay()
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	priceType, err := hotel.ParsePriceType(ctx.DefaultQuery("price_type", hotel.PriceTypeNormal.String()))
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	rooms, err := handler.service.ListAvailableRooms(ctx.Request.Context(), stay, priceType)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"rooms": roomResponses(rooms)})
}

func (handler *httpHandler) handleListGuests(ctx *gin.Context) {
	guests, err := handler.service.ListGuests(ctx.Request.Context())
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	payload := make([]guestResponse, 0, len(guests))
	for _, guest := range guests {
		payload = append(payload, newGuestResponse(guest))
	}
	ctx.JSON(http.StatusOK, gin.H{"guests": payload})
}

func (handler *httpHandler) handleCreateGuest(ctx *gin.Context) {
	var request guestRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		respondInvalidPayload(ctx, "expected guest JSON body")
		return
	}
	created, err := handler.service.CreateGuest(ctx.Request.Context(), hotel.Guest{
		Name:    request.Name,
		Contact: request.Contact,
		Email:   request.Email,
	})
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"guest": newGuestResponse(created)})
}

func (handler *httpHandler) handleGetGuest(ctx *gin.Context) {
	guestID, err := hotel.ParseGuestID(ctx.Param("id"))
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	guest, err := handler.service.GetGuest(ctx.Request.Context(), guestID)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"guest": newGuestResponse(guest)})
}

func (handler *httpHandler) handleUpdateGuest(ctx *gin.Context) {
	guestID, err := hotel.ParseGuestID(ctx.Param("id"))
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	var request guestRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		respondInvalidPayload(ctx, "expected guest JSON body")
		return
	}
	updated, err := handler.service.UpdateGuest(ctx.Request.Context(), hotel.Guest{
		ID:      guestID,
		Name:    request.Name,
		Contact: request.Contact,
		Email:   request.Email,
	})
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"guest": newGuestResponse(updated)})
}

func (handler *httpHandler) handleDeleteGuest(ctx *gin.Context) {
	guestID, err := hotel.ParseGuestID(ctx.Param("id"))
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	if err := handler.service.DeleteGuest(ctx.Request.Context(), guestID); err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (handler *httpHandler) handleGuestHistory(ctx *gin.Context) {
	guestID, err := hotel.ParseGuestID(ctx.Param("id"))
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	entries, err := handler.service.GuestHistory(ctx.Request.Context(), guestID)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	payload := make([]historyResponse, 0, len(entries))
	for _, entry := range entries {
		payload = append(payload, newHistoryResponse(entry))
	}
	ctx.JSON(http.StatusOK, gin.H{"history": payload})
}

func roomResponses(rooms []hotel.Room) []roomResponse {
	payload := make([]roomResponse, 0, len(rooms))
	for _, room := range rooms {
		payload = append(payload, newRoomResponse(room))
	}
	return payload
}
