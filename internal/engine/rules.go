package engine

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/felixgeelhaar/recall/internal/factoid"
	"github.com/felixgeelhaar/recall/internal/settings"
)

var (
	statusPattern     = regexp.MustCompile(`(?i)^(?:status|settings)\??$`)
	helpPattern       = regexp.MustCompile(`(?i)^help\??$`)
	togglePattern     = regexp.MustCompile(`(?i)^(enable|disable)\s+setting\s+(\S+)$`)
	greetingPattern   = regexp.MustCompile(`(?i)^(?:hey|hi|hello|waves)$`)
	literalPattern    = regexp.MustCompile(`(?i)^literal\s+(.+)$`)
	whatIsPattern     = regexp.MustCompile(`(?i)^wh?at\s+(?:is|are)\s+(.+)$`)
	forgetPattern     = regexp.MustCompile(`(?i)^forget\s+(.+)$`)
	tellPattern       = regexp.MustCompile(`(?i)^tell\s+(\S+)\s+about\s+(.+)$`)
	karmaPattern      = regexp.MustCompile(`(?i)^karma\s+(?:for\s+)?(.+)$`)
	incrementPattern  = regexp.MustCompile(`\+\+(\s#.+)?$`)
	decrementPattern  = regexp.MustCompile(`--(\s#.+)?$`)
	teachPattern      = regexp.MustCompile(`(?is)^(.+?)\s+(is|are)\s+(.*)$`)
	mentionPattern    = regexp.MustCompile(`^<@(\w+)>$`)
	correctionMarker  = regexp.MustCompile(`(?i)^no,?\s+`)
	appendMarker      = regexp.MustCompile(`(?i)^also,?\s+`)
	butMarker         = regexp.MustCompile(`(?i)^but,?\s+`)
	trailingQuestions = regexp.MustCompile(`\?+$`)
	atGroupPattern    = regexp.MustCompile(`(?i)<!(\w+)\|@\w+>`)
)

const karmaRefusal = "You cannot secretly change the karma for something!"

// rule is one predicate/handler pair. run returns handled=true when
// the rule consumed the message, whether or not it replied.
type rule struct {
	name string
	run  func(ctx context.Context, e *Engine, r *request) (bool, error)
}

// rules is the entire classification order. First match wins, and the
// order is load-bearing: literal before the generic interrogative,
// karma before teach, teach before the bare-? fallback.
var rules = []rule{
	{"status", ruleStatus},
	{"help", ruleHelp},
	{"toggle-setting", ruleToggleSetting},
	{"greeting", ruleGreeting},
	{"acknowledge", ruleAcknowledge},
	{"literal", ruleLiteral},
	{"interrogative", ruleInterrogative},
	{"forget", ruleForget},
	{"tell-about", ruleTellAbout},
	{"karma-query", ruleKarmaQuery},
	{"karma-increment", ruleKarmaIncrement},
	{"karma-decrement", ruleKarmaDecrement},
	{"teach", ruleTeach},
	{"bare-query", ruleBareQuery},
	{"last-chance", ruleLastChance},
}

func ruleStatus(ctx context.Context, e *Engine, r *request) (bool, error) {
	if !r.msg.IsDirect || !statusPattern.MatchString(r.text) {
		return false, nil
	}

	count, err := e.store.CountFactoids(ctx, r.sess.Group)
	if err != nil {
		return true, err
	}

	mark := func(on bool) string {
		if on {
			return ":ballot_box_with_check:"
		}
		return ":white_medium_square:"
	}
	s := r.sess.Settings
	text := fmt.Sprintf("*Status*\n"+
		"I am recall v%s - https://github.com/felixgeelhaar/recall\n"+
		"I am currently remembering %d factoids.\n"+
		"*Settings*\n"+
		"%s `direct` - Interactions require direct messages or @-mentions\n"+
		"%s `ambient` - Learn factoids from ambient room chatter\n"+
		"%s `verbose` - Make the bot more chatty with confirmations, greetings, etc.\n"+
		"Tell me \"enable setting <name>\" or \"disable setting <name>\" to change the above settings.",
		Version, count, mark(s.Direct), mark(s.Ambient), mark(s.Verbose))
	return true, r.reply(ctx, text)
}

func ruleHelp(ctx context.Context, e *Engine, r *request) (bool, error) {
	if !r.msg.IsDirect || !helpPattern.MatchString(r.text) {
		return false, nil
	}
	text := fmt.Sprintf("Hi %s, I'm %s. I remember things and then recall them later when asked. "+
		"Teach me with \"<thing> is <fact>\", ask me with \"what is <thing>\", and say \"status\" to see my settings.",
		r.msg.Sender, r.sess.Adapter.Identity().Name)
	return true, r.reply(ctx, text)
}

func ruleToggleSetting(ctx context.Context, e *Engine, r *request) (bool, error) {
	if !r.msg.IsDirect {
		return false, nil
	}
	m := togglePattern.FindStringSubmatch(r.text)
	if m == nil {
		return false, nil
	}
	enable := strings.EqualFold(m[1], "enable")
	name := strings.ToLower(m[2])

	var result string
	switch name {
	case settings.KeyDirect:
		if enable {
			result = "interactions with me now require direct messages or @-mentions"
		} else {
			result = "interactions with me no longer require direct messages or @-mentions"
		}
	case settings.KeyAmbient:
		if enable {
			result = "I will now learn factoids without being told explicitly"
		} else {
			result = "I will no longer learn factoids without being told explicitly"
		}
	case settings.KeyVerbose:
		if enable {
			result = "I will now be extra chatty"
		} else {
			result = "I will no longer be extra chatty"
		}
	default:
		return true, r.reply(ctx, fmt.Sprintf("I don't know the setting %q. Valid settings are direct, ambient, and verbose.", name))
	}

	if err := e.store.SetSetting(ctx, r.sess.Group, name, settings.Bool(enable)); err != nil {
		return true, err
	}

	// Re-read so later rules (and later messages in this session) see
	// the change immediately.
	all, err := e.store.AllSettings(ctx, r.sess.Group)
	if err != nil {
		return true, err
	}
	r.sess.Settings = settings.FromMap(all)
	r.shouldLearn = r.msg.IsDirect || r.sess.Settings.Ambient
	r.shouldReply = r.msg.IsDirect || !r.sess.Settings.Direct

	e.bus.Publish(Event{Type: EventSettingChanged, Group: r.sess.Group, Key: name,
		Data: map[string]any{"enabled": enable}})
	return true, r.reply(ctx, "OK, "+result+".")
}

func ruleGreeting(ctx context.Context, e *Engine, r *request) (bool, error) {
	if !greetingPattern.MatchString(r.text) {
		return false, nil
	}
	if r.shouldReply || r.sess.Settings.Verbose {
		greeting := strings.ReplaceAll(e.oneOf(greetingPhrases), "$who", r.msg.Sender)
		return true, r.reply(ctx, greeting)
	}
	return true, nil
}

func ruleAcknowledge(ctx context.Context, e *Engine, r *request) (bool, error) {
	name := r.sess.Adapter.Identity().Name
	if name == "" || !strings.EqualFold(r.text, name+"?") {
		return false, nil
	}
	return true, r.reply(ctx, e.oneOf(ackPhrases))
}

func ruleLiteral(ctx context.Context, e *Engine, r *request) (bool, error) {
	if !r.shouldReply {
		return false, nil
	}
	m := literalPattern.FindStringSubmatch(r.text)
	if m == nil {
		return false, nil
	}
	key := m[1]
	value, ok, err := e.store.Factoid(ctx, r.sess.Group, key)
	if err != nil {
		return true, err
	}
	if !ok {
		return true, r.reply(ctx, e.oneOf(dontKnowPhrases))
	}
	// Raw stored value, no grammar decoding.
	return true, r.reply(ctx, key+" "+value)
}

func ruleInterrogative(ctx context.Context, e *Engine, r *request) (bool, error) {
	if !r.shouldReply {
		return false, nil
	}
	m := whatIsPattern.FindStringSubmatch(r.text)
	if m == nil {
		return false, nil
	}
	key := trailingQuestions.ReplaceAllString(m[1], "")
	if ignoredKeys[strings.ToLower(key)] {
		return true, nil
	}
	value, ok, err := e.store.Factoid(ctx, r.sess.Group, key)
	if err != nil {
		return true, err
	}
	if !ok {
		return true, r.reply(ctx, e.oneOf(dontKnowPhrases))
	}
	return true, e.sendRendered(ctx, r, key, value)
}

func ruleForget(ctx context.Context, e *Engine, r *request) (bool, error) {
	if !r.msg.IsDirect {
		return false, nil
	}
	m := forgetPattern.FindStringSubmatch(r.text)
	if m == nil {
		return false, nil
	}
	key := m[1]
	if err := e.store.DeleteFactoid(ctx, r.sess.Group, key); err != nil {
		return true, err
	}
	e.bus.Publish(Event{Type: EventFactoidForgotten, Group: r.sess.Group, Key: key})
	return true, r.reply(ctx, "OK, I forgot about "+key)
}

func ruleTellAbout(ctx context.Context, e *Engine, r *request) (bool, error) {
	m := tellPattern.FindStringSubmatch(r.text)
	if m == nil {
		return false, nil
	}
	target, key := m[1], m[2]

	targetID := ""
	if mm := mentionPattern.FindStringSubmatch(target); mm != nil {
		targetID = mm[1]
	} else if r.sess.Names != nil {
		if id, ok := r.sess.Names.IDForName(target); ok {
			targetID = id
		}
	}
	if targetID == "" {
		users, err := r.sess.Adapter.ListUsers(ctx)
		if err != nil {
			e.obs.Log().Error().Str("group", r.sess.Group).Err(err).Msg("user directory unavailable")
			return true, r.reply(ctx, "There was an error while downloading the list of users. Please try again.")
		}
		for _, u := range users {
			if r.sess.Names != nil {
				r.sess.Names.Put(u.ID, u.Name)
			}
			if u.Name == target {
				targetID = u.ID
			}
		}
	}

	if targetID == "" {
		return true, r.reply(ctx, "I don't know who "+target+" is.")
	}

	value, ok, err := e.store.Factoid(ctx, r.sess.Group, key)
	if err != nil {
		return true, err
	}
	if !ok {
		return true, r.reply(ctx, e.oneOf(dontKnowPhrases))
	}

	decoded, err := e.codec.Decode(value, r.msg.Sender)
	if err != nil {
		return true, err
	}

	if r.sess.Settings.Verbose {
		if err := r.reply(ctx, "OK, I told "+target+" about "+key); err != nil {
			return true, err
		}
	}

	text := r.msg.Sender + " wants you to know: " + key + " is " + decoded.Text
	if err := r.sess.Adapter.SendDirect(ctx, targetID, text); err != nil {
		e.obs.Log().Error().Str("group", r.sess.Group).Err(err).Msg("failed to open direct message")
		return true, r.reply(ctx, "I could not start an IM session with "+target+". Please try again.")
	}
	return true, nil
}

func ruleKarmaQuery(ctx context.Context, e *Engine, r *request) (bool, error) {
	m := karmaPattern.FindStringSubmatch(r.text)
	if m == nil {
		return false, nil
	}
	key := trailingQuestions.ReplaceAllString(m[1], "")
	value, _, err := e.store.Karma(ctx, r.sess.Group, key)
	if err != nil {
		return true, err
	}
	return true, r.reply(ctx, fmt.Sprintf("%s has %d karma", key, value))
}

func ruleKarmaIncrement(ctx context.Context, e *Engine, r *request) (bool, error) {
	return karmaAdjust(ctx, e, r, incrementPattern, "++", 1)
}

func ruleKarmaDecrement(ctx context.Context, e *Engine, r *request) (bool, error) {
	return karmaAdjust(ctx, e, r, decrementPattern, "--", -1)
}

func karmaAdjust(ctx context.Context, e *Engine, r *request, pattern *regexp.Regexp, sep string, delta int) (bool, error) {
	if !pattern.MatchString(r.text) {
		return false, nil
	}
	if r.msg.IsDirect {
		e.bus.Publish(Event{Type: EventRefused, Group: r.sess.Group})
		return true, r.reply(ctx, karmaRefusal)
	}
	key := strings.TrimSpace(strings.SplitN(r.text, sep, 2)[0])
	if key == "" {
		return true, nil
	}
	current, _, err := e.store.Karma(ctx, r.sess.Group, key)
	if err != nil {
		return true, err
	}
	if err := e.store.SetKarma(ctx, r.sess.Group, key, current+delta); err != nil {
		return true, err
	}
	e.bus.Publish(Event{Type: EventKarmaChanged, Group: r.sess.Group, Key: key,
		Data: map[string]any{"value": current + delta}})
	return true, nil
}

func ruleTeach(ctx context.Context, e *Engine, r *request) (bool, error) {
	if !r.shouldLearn {
		return false, nil
	}
	m := teachPattern.FindStringSubmatch(r.text)
	if m == nil {
		return false, nil
	}
	key := strings.ToLower(m[1])
	verb := strings.ToLower(m[2])
	value := m[3]

	if ignoredKeys[key] {
		return true, nil
	}

	correcting := correctionMarker.MatchString(key)
	if correcting {
		key = correctionMarker.ReplaceAllString(key, "")
	}

	appending := appendMarker.MatchString(key)
	if appending {
		key = appendMarker.ReplaceAllString(key, "")
	}
	if !appending && appendMarker.MatchString(value) {
		appending = true
	}
	if appending {
		value = appendMarker.ReplaceAllString(value, "")
	}

	key = butMarker.ReplaceAllString(key, "")

	current, exists, err := e.store.Factoid(ctx, r.sess.Group, key)
	if err != nil {
		return true, err
	}

	switch {
	case exists && factoid.StripVerb(current) == value:
		return true, r.reply(ctx, e.oneOf(alreadyKnowPhrases))
	case exists && correcting:
		return true, e.setFactoid(ctx, r, key, verb+" "+value)
	case exists && appending:
		if strings.HasPrefix(value, "|") {
			value = current + value
		} else {
			value = current + " or " + value
		}
		return true, e.setFactoid(ctx, r, key, value)
	case exists:
		return true, r.reply(ctx, "But "+key+" "+verb+" already "+factoid.StripVerb(current))
	default:
		return true, e.setFactoid(ctx, r, key, verb+" "+value)
	}
}

func ruleBareQuery(ctx context.Context, e *Engine, r *request) (bool, error) {
	if !r.shouldReply || !trailingQuestions.MatchString(r.text) {
		return false, nil
	}
	key := trailingQuestions.ReplaceAllString(r.text, "")
	if ignoredKeys[strings.ToLower(key)] {
		return true, nil
	}
	value, ok, err := e.store.Factoid(ctx, r.sess.Group, key)
	if err != nil {
		return true, err
	}
	if ok {
		return true, e.sendRendered(ctx, r, key, value)
	}
	// Unlike the explicit query forms, the bare fallback stays silent
	// on a miss.
	return true, nil
}

func ruleLastChance(ctx context.Context, e *Engine, r *request) (bool, error) {
	if r.text == "" || ignoredKeys[strings.ToLower(r.text)] {
		return true, nil
	}
	value, ok, err := e.store.Factoid(ctx, r.sess.Group, r.text)
	if err != nil {
		return true, err
	}
	if ok {
		return true, e.sendRendered(ctx, r, r.text, value)
	}
	return true, nil
}

// escapeAtGroups protects platform @-group expansions. When a user
// types "@here" the platform delivers "<!here|@here>"; storing that
// verbatim would re-ping the group on every recall.
func escapeAtGroups(value string) string {
	return atGroupPattern.ReplaceAllString(value, "`@$1`")
}
