// Package settings models the per-group behavior flags.
//
// Storage keeps settings as strings ("yes"/"no" for the canonical
// booleans, anything else passes through untouched); this package is
// where they become strict booleans.
package settings

// Canonical setting names.
const (
	KeyDirect  = "direct"
	KeyAmbient = "ambient"
	KeyVerbose = "verbose"
)

// Value is the tagged storage representation of a setting: either a
// boolean or an escape-hatch raw string for anything that is not one
// of the two canonical tokens.
type Value struct {
	isBool bool
	b      bool
	raw    string
}

// Bool returns a boolean-variant Value.
func Bool(b bool) Value {
	return Value{isBool: true, b: b}
}

// String returns a raw string-variant Value.
func String(s string) Value {
	return Value{raw: s}
}

// Decode maps a stored token to a Value. Only "yes" and "no" become
// booleans; any other string is preserved as-is.
func Decode(s string) Value {
	switch s {
	case "yes":
		return Bool(true)
	case "no":
		return Bool(false)
	default:
		return String(s)
	}
}

// Encode returns the storage token for v.
func (v Value) Encode() string {
	if v.isBool {
		if v.b {
			return "yes"
		}
		return "no"
	}
	return v.raw
}

// IsBool reports whether v carries a canonical boolean.
func (v Value) IsBool() bool { return v.isBool }

// Raw returns the escape-hatch string (empty for boolean variants).
func (v Value) Raw() string { return v.raw }

// AsBool collapses v to the logic-layer boolean. A string variant is
// treated as true when non-empty, matching how a non-canonical token
// behaved in the original bot.
func (v Value) AsBool() bool {
	if v.isBool {
		return v.b
	}
	return v.raw != ""
}

// Settings are the three behavior flags read by the dispatcher.
type Settings struct {
	// Direct requires direct messages or @-mentions for interactions.
	Direct bool
	// Ambient learns factoids from room chatter without addressing.
	Ambient bool
	// Verbose makes the bot chattier with confirmations and greetings.
	Verbose bool
}

// Defaults returns the documented default flags.
func Defaults() Settings {
	return Settings{Direct: false, Ambient: true, Verbose: false}
}

// FromMap overlays stored values onto the defaults. Unknown keys are
// ignored so future string-valued settings do not break loading.
func FromMap(m map[string]Value) Settings {
	s := Defaults()
	for key, v := range m {
		switch key {
		case KeyDirect:
			s.Direct = v.AsBool()
		case KeyAmbient:
			s.Ambient = v.AsBool()
		case KeyVerbose:
			s.Verbose = v.AsBool()
		}
	}
	return s
}
