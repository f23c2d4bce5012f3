package command

import (
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// Middleware wraps a command (logging, guild gating, …).
type Middleware func(Command) Command

// Wrapped runs a custom func in place of the inner command's Run while
// delegating identity and registration metadata.
type Wrapped struct {
	Command
	RunFunc func(inv *Invocation) error
}

func (w *Wrapped) Run(inv *Invocation) error {
	if w.RunFunc != nil {
		return w.RunFunc(inv)
	}
	return w.Command.Run(inv)
}

func Wrap(c Command, run func(inv *Invocation) error) Command {
	return &Wrapped{Command: c, RunFunc: run}
}

// Apply applies middlewares in order; the first is outermost.
func Apply(c Command, mws ...Middleware) Command {
	for _, mw := range mws {
		c = mw(c)
	}
	return c
}

// WithGuildOnly drops invocations that arrive outside a guild.
func WithGuildOnly() Middleware {
	return func(c Command) Command {
		return Wrap(c, func(inv *Invocation) error {
			if inv.GuildID == "" {
				return inv.Respond.Ephemeral("Command cannot be used in DMs.")
			}
			return c.Run(inv)
		})
	}
}

// WithCommandLogger logs every execution with its duration.
func WithCommandLogger() Middleware {
	return func(c Command) Command {
		return Wrap(c, func(inv *Invocation) error {
			start := time.Now()
			err := c.Run(inv)
			log.Info().
				Str("command", c.Name()).
				Str("guild", inv.GuildID).
				Str("user", inv.UserID).
				Dur("took", time.Since(start)).
				Err(err).
				Msg("command handled")
			return err
		})
	}
}

// stringOption is a shorthand for the common single-string slash option.
func stringOption(name, description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        name,
		Description: description,
		Required:    required,
	}
}
