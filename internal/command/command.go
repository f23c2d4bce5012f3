package command

import (
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
)

// Surface identifies which adapter produced an invocation. Both surfaces
// carry the same command set; behavior never depends on the surface beyond
// response mechanics.
type Surface int

const (
	SurfaceSlash Surface = iota
	SurfaceText
)

// Invocation is the canonical record both adapters parse into before a
// command runs. Handlers never touch raw interactions or messages.
type Invocation struct {
	Command   string
	Arg       string
	GuildID   string
	ChannelID string
	UserID    string
	Username  string
	Surface   Surface
	Session   *discordgo.Session
	Respond   Responder
}

// Responder abstracts replying on the originating surface.
type Responder interface {
	// Ack defers the reply; a no-op on the text surface.
	Ack(ephemeral bool) error
	Reply(content string) error
	// Ephemeral is caller-only-visible on slash; plain message on text.
	Ephemeral(content string) error
	// Edit updates the deferred/previous reply, or sends one if none exists.
	Edit(content string) error
	Delete() error
}

// Command is one logical bot command, reachable from both surfaces.
type Command interface {
	Name() string
	Description() string
	// Aliases are extra text-surface keywords, including localized forms.
	Aliases() []string
	Options() []*discordgo.ApplicationCommandOption
	Run(inv *Invocation) error
}

// ParsePrefixed splits a text message into a command invocation: prefix
// token, keyword, trailing free text. The keyword match is case-insensitive.
// ok is false when the message is not addressed to the bot at all.
func ParsePrefixed(prefix, content string) (name, arg string, ok bool) {
	fields := strings.Fields(content)
	if len(fields) < 2 || !strings.EqualFold(fields[0], prefix) {
		return "", "", false
	}
	name = strings.ToLower(fields[1])
	arg = strings.TrimSpace(strings.Join(fields[2:], " "))
	return name, arg, true
}

// Truncate caps user-facing error detail to at most n bytes, backing off to
// a rune boundary so multi-byte text is never cut mid-character.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
