package hotel

import (
	"context"
	"strings"
)

// CreateRoom adds a room to the catalog. New rooms start Available unless a status is given.
func (service *Service) CreateRoom(ctx context.Context, room Room) (Room, error) {
	room.Number = strings.TrimSpace(room.Number)
	if room.Status == "" {
		room.Status = RoomStatusAvailable
	}
	operationError := room.Validate()
	if operationError == nil {
		var roomID RoomID
		roomID, operationError = service.store.CreateRoom(ctx, room)
		room.ID = roomID
	}
	service.logOperation(ctx, OperationLog{
		Operation: operationCreateRoom,
		RoomID:    optionalRoomID(room.ID),
		Amount:    room.BasePrice,
		Error:     operationError,
	})
	if operationError != nil {
		return Room{}, operationError
	}
	return room, nil
}

// UpdateRoom replaces the catalog fields of an existing room.
func (service *Service) UpdateRoom(ctx context.Context, room Room) (Room, error) {
	room.Number = strings.TrimSpace(room.Number)
	operationError := room.Validate()
	if operationError == nil && room.ID.IsZero() {
		operationError = ErrInvalidRoomID
	}
	if operationError == nil {
		operationError = service.store.WithTx(ctx, func(ctx context.Context, transactionStore Store) error {
			current, err := transactionStore.GetRoom(ctx, room.ID)
			if err != nil {
				return err
			}
			if room.Status == "" {
				room.Status = current.Status
			}
			return transactionStore.UpdateRoom(ctx, room)
		})
	}
	service.logOperation(ctx, OperationLog{
		Operation: operationUpdateRoom,
		RoomID:    optionalRoomID(room.ID),
		Amount:    room.BasePrice,
		Error:     operationError,
	})
	if operationError != nil {
		return Room{}, operationError
	}
	return room, nil
}

// DeleteRoom removes a room that no active booking references.
func (service *Service) DeleteRoom(ctx context.Context, roomID RoomID) error {
	operationError := service.store.WithTx(ctx, func(ctx context.Context, transactionStore Store) error {
		if _, err := transactionStore.GetRoom(ctx, roomID); err != nil {
			return err
		}
		count, err := transactionStore.CountBookings(ctx, BookingCountFilter{RoomID: &roomID, ActiveOnly: true})
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrRoomHasBookings
		}
		return transactionStore.DeleteRoom(ctx, roomID)
	})
	service.logOperation(ctx, OperationLog{
		Operation: operationDeleteRoom,
		RoomID:    &roomID,
		Error:     operationError,
	})
	return operationError
}

// GetRoom returns one room.
func (service *Service) GetRoom(ctx context.Context, roomID RoomID) (Room, error) {
	return service.store.GetRoom(ctx, roomID)
}

// ListRooms returns the catalog ordered by room number.
func (service *Service) ListRooms(ctx context.Context) ([]Room, error) {
	return service.store.ListRooms(ctx)
}

// CreateGuest registers a guest.
func (service *Service) CreateGuest(ctx context.Context, guest Guest) (Guest, error) {
	guest = trimGuest(guest)
	operationError := guest.Validate()
	if operationError == nil {
		var guestID GuestID
		guestID, operationError = service.store.CreateGuest(ctx, guest)
		guest.ID = guestID
	}
	service.logOperation(ctx, OperationLog{
		Operation: operationCreateGuest,
		GuestID:   optionalGuestID(guest.ID),
		Error:     operationError,
	})
	if operationError != nil {
		return Guest{}, operationError
	}
	return guest, nil
}

// UpdateGuest replaces the fields of an existing guest.
func (service *Service) UpdateGuest(ctx context.Context, guest Guest) (Guest, error) {
	guest = trimGuest(guest)
	operationError := guest.Validate()
	if operationError == nil && guest.ID.IsZero() {
		operationError = ErrInvalidGuestID
	}
	if operationError == nil {
		operationError = service.store.WithTx(ctx, func(ctx context.Context, transactionStore Store) error {
			if _, err := transactionStore.GetGuest(ctx, guest.ID); err != nil {
				return err
			}
			return transactionStore.UpdateGuest(ctx, guest)
		})
	}
	service.logOperation(ctx, OperationLog{
		Operation: operationUpdateGuest,
		GuestID:   optionalGuestID(guest.ID),
		Error:     operationError,
	})
	if operationError != nil {
		return Guest{}, operationError
	}
	return guest, nil
}

// DeleteGuest removes a guest that no booking references, cancelled or not.
func (service *Service) DeleteGuest(ctx context.Context, guestID GuestID) error {
	operationError := service.store.WithTx(ctx, func(ctx context.Context, transactionStore Store) error {
		if _, err := transactionStore.GetGuest(ctx, guestID); err != nil {
			return err
		}
		count, err := transactionStore.CountBookings(ctx, BookingCountFilter{GuestID: &guestID})
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrGuestHasBookings
		}
		return transactionStore.DeleteGuest(ctx, guestID)
	})
	service.logOperation(ctx, OperationLog{
		Operation: operationDeleteGuest,
		GuestID:   &guestID,
		Error:     operationError,
	})
	return operationError
}

// GetGuest returns one guest.
func (service *Service) GetGuest(ctx context.Context, guestID GuestID) (Guest, error) {
	return service.store.GetGuest(ctx, guestID)
}

// ListGuests returns all guests ordered by name.
func (service *Service) ListGuests(ctx context.Context) ([]Guest, error) {
	return service.store.ListGuests(ctx)
}

// GuestHistory returns the check-in audit trail of a guest, newest first.
func (service *Service) GuestHistory(ctx context.Context, guestID GuestID) ([]GuestHistoryEntry, error) {
	if _, err := service.store.GetGuest(ctx, guestID); err != nil {
		return nil, err
	}
	return service.store.ListGuestHistory(ctx, guestID)
}

func trimGuest(guest Guest) Guest {
	guest.Name = strings.TrimSpace(guest.Name)
	guest.Contact = strings.TrimSpace(guest.Contact)
	guest.Email = strings.TrimSpace(guest.Email)
	return guest
}

func optionalRoomID(roomID RoomID) *RoomID {
	if roomID.IsZero() {
		return nil
	}
	return &roomID
}

func optionalGuestID(guestID GuestID) *GuestID {
	if guestID.IsZero() {
		return nil
	}
	return &guestID
}
