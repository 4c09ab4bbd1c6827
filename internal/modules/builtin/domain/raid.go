package domain

import (
	"fmt"
	"strconv"
)

// Raid is an incoming raid announced through USERNOTICE.
type Raid struct {
	Raider  string
	Viewers int
}

// ParseRaid reads a raid from USERNOTICE tags. It reports false for any other
// notice kind.
func ParseRaid(get func(key string) (string, bool)) (Raid, bool) {
	if id, _ := get("msg-id"); id != "raid" {
		return Raid{}, false
	}

	raider, ok := get("msg-param-displayName")
	if !ok || raider == "" {
		raider, _ = get("msg-param-login")
	}
	if raider == "" {
		return Raid{}, false
	}

	var viewers int
	if raw, ok := get("msg-param-viewerCount"); ok {
		viewers, _ = strconv.Atoi(raw)
	}
	return Raid{Raider: raider, Viewers: viewers}, true
}

// Greeting returns the line the bot says to welcome the raid.
func (r Raid) Greeting() string {
	switch {
	case r.Viewers == 1:
		return fmt.Sprintf("Welcome %s and their 1 raider!", r.Raider)
	case r.Viewers > 1:
		return fmt.Sprintf("Welcome %s and their %d raiders!", r.Raider, r.Viewers)
	default:
		return fmt.Sprintf("Welcome %s!", r.Raider)
	}
}
