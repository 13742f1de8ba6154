package game

import "errors"

var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrRoomNotLoaded     = errors.New("room not loaded")
	ErrItemNotFound      = errors.New("item not found")
	ErrUnknownItemType   = errors.New("unknown item type")
	ErrOwnerAndLocation  = errors.New("item cannot have both an owner and a location")
	ErrPlayerNotFound    = errors.New("player not found")
	ErrPlayerExists      = errors.New("player already exists")
	ErrIDCollision       = errors.New("account id already in use")
	ErrDuplicateName     = errors.New("an account with that name already exists")
	ErrNameMismatch      = errors.New("stored account name does not match session")
	ErrBadCredentials    = errors.New("unknown name or wrong password")
	ErrAlreadyOnline     = errors.New("account is already online")
	ErrNotPersisted      = errors.New("session is not a persisted account")
	ErrAlreadyRegistered = errors.New("session already has an account")
)
