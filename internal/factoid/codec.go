// Package factoid implements the micro-grammar embedded in stored
// factoid values.
//
// A value has the surface form "<verb> <body>" where the verb is "is"
// or "are". The body may hold pipe-separated alternatives (one picked
// at random on recall), a leading <reply> or <action> directive, and
// $who placeholders that expand to the asking sender's name.
package factoid

import (
	"errors"
	"math/rand"
	"regexp"
	"strings"
)

// ErrMalformed is returned when a stored value does not begin with a
// verb token. Malformed values are surfaced, never auto-repaired.
var ErrMalformed = errors.New("factoid value does not start with is/are")

var (
	verbPattern   = regexp.MustCompile(`(?is)^(is|are)\s+(.*)$`)
	replyPattern  = regexp.MustCompile(`(?i)^<reply>\s*`)
	actionPattern = regexp.MustCompile(`(?i)^<action>\s*`)
	whoPattern    = regexp.MustCompile(`(?i)\$who`)
)

// pipeEntity stands in for escaped pipes while splitting alternatives.
// The original bot used the HTML entity for "|" as the placeholder.
const pipeEntity = "&#124;"

// Split separates the leading verb from the body of a stored value.
func Split(raw string) (verb, body string, err error) {
	m := verbPattern.FindStringSubmatch(raw)
	if m == nil {
		return "", "", ErrMalformed
	}
	return strings.ToLower(m[1]), m[2], nil
}

// StripVerb returns the body of a stored value, or the value unchanged
// when it does not parse. Used for "already known" comparisons.
func StripVerb(raw string) string {
	if _, body, err := Split(raw); err == nil {
		return body
	}
	return raw
}

// Kind tells the caller how a decoded value wants to be rendered.
type Kind int

const (
	// KindSay renders as "key verb body" in the channel.
	KindSay Kind = iota
	// KindReply suppresses the key and verb; the body stands alone.
	KindReply
	// KindEmote renders as a platform emote ("/me") message.
	KindEmote
)

// Decoded is the result of running a stored value through the grammar.
type Decoded struct {
	Verb string
	Kind Kind
	Text string
}

// Rendered is a display-ready line plus its delivery kind.
type Rendered struct {
	Kind Kind
	Text string
}

// Picker selects an index in [0, n). Injected so tests can pin which
// alternative gets chosen; this is the only randomness in the codec.
type Picker func(n int) int

// Codec decodes stored values for display.
type Codec struct {
	pick Picker
}

// NewCodec returns a codec using the given picker, or math/rand when
// pick is nil.
func NewCodec(pick Picker) *Codec {
	if pick == nil {
		pick = rand.Intn
	}
	return &Codec{pick: pick}
}

// Decode applies the full grammar: verb extraction, alternative
// selection, directive stripping, and sender substitution.
func (c *Codec) Decode(raw, sender string) (Decoded, error) {
	verb, body, err := Split(raw)
	if err != nil {
		return Decoded{}, err
	}

	// Split on |, but not on \|. Escaped pipes hide behind a
	// placeholder during the split and are restored afterwards.
	body = strings.ReplaceAll(body, `\|`, `\`+pipeEntity)
	alts := strings.Split(body, "|")
	value := strings.TrimSpace(alts[c.pick(len(alts))])
	value = strings.ReplaceAll(value, pipeEntity, "|")

	kind := KindSay
	if replyPattern.MatchString(value) {
		kind = KindReply
		value = replyPattern.ReplaceAllString(value, "")
	} else if actionPattern.MatchString(value) {
		kind = KindEmote
		value = actionPattern.ReplaceAllString(value, "")
	}

	value = whoPattern.ReplaceAllString(value, sender)

	return Decoded{Verb: verb, Kind: kind, Text: value}, nil
}

// Render decodes raw and formats the final outbound line for key.
func (c *Codec) Render(key, raw, sender string) (Rendered, error) {
	d, err := c.Decode(raw, sender)
	if err != nil {
		return Rendered{}, err
	}
	if d.Kind == KindSay {
		return Rendered{Kind: KindSay, Text: key + " " + d.Verb + " " + d.Text}, nil
	}
	return Rendered{Kind: d.Kind, Text: d.Text}, nil
}
