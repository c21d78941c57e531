package blend

import "errors"

var (
	// ErrUnknownEmote is returned when an emote name is not registered
	ErrUnknownEmote = errors.New("unknown emote")

	// ErrEmoteActive is returned when an emote is requested while another is pending or playing
	ErrEmoteActive = errors.New("emote already active")

	// ErrDisposed is returned by operations on a disposed controller
	ErrDisposed = errors.New("controller disposed")
)
