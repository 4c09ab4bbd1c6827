package bot

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/sglre6355/shaken/internal/color"
	"github.com/sglre6355/shaken/internal/irc"
	"github.com/sglre6355/shaken/internal/user"
)

// ErrMalformedIdentity is returned when a message that should identify its
// sender lacks the display-name, color or user-id tags.
var ErrMalformedIdentity = errors.New("malformed identity tags")

// BotColor is recorded for the bot's own user, whose GLOBALUSERSTATE
// carries no usable color.
var BotColor = color.MustParse("#fc0fc0")

// identify extracts the user a message speaks for. It returns nil for
// message types that carry no identity.
func identify(msg *irc.Message) (*user.User, error) {
	sender, ok := msg.Sender()
	if !ok {
		return nil, nil
	}

	if sender.DisplayName == "" {
		return nil, fmt.Errorf("%w: missing display-name", ErrMalformedIdentity)
	}
	id, err := strconv.ParseInt(sender.ID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad user-id %q", ErrMalformedIdentity, sender.ID)
	}

	// this is our own user
	if msg.Command == "GLOBALUSERSTATE" {
		return &user.User{ID: id, Display: sender.DisplayName, Color: BotColor}, nil
	}

	// the parser folds a missing tag into "", which Twitch sends for users
	// that never picked a color
	if _, ok := msg.Tags.Get("color"); !ok {
		return nil, fmt.Errorf("%w: missing color", ErrMalformedIdentity)
	}
	c := color.White
	if sender.Color != "" {
		if c, err = color.Parse(sender.Color); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedIdentity, err)
		}
	}
	return &user.User{ID: id, Display: sender.DisplayName, Color: c}, nil
}
