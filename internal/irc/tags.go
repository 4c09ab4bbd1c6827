package irc

// Tags holds IRCv3 message tags with escaped values already decoded.
type Tags map[string]string

// Get returns the value for key.
func (t Tags) Get(key string) (string, bool) {
	v, ok := t[key]
	return v, ok
}

// Display returns the display-name tag. Empty names are treated as absent.
func (t Tags) Display() (string, bool) {
	v, ok := t["display-name"]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
