package command

import (
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

const errDetailLimit = 1900

// Registry is the single command table both surfaces dispatch through.
// It is passed by reference to the adapters; there is no global table.
type Registry struct {
	commands map[string]Command
	byAlias  map[string]Command
}

func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Command),
		byAlias:  make(map[string]Command),
	}
}

// Register adds a command, wrapped by the given middlewares.
func (r *Registry) Register(cmd Command, mws ...Middleware) {
	cmd = Apply(cmd, mws...)
	r.commands[strings.ToLower(cmd.Name())] = cmd
	for _, a := range cmd.Aliases() {
		r.byAlias[strings.ToLower(a)] = cmd
	}
}

// Get resolves a command by name or alias, case-insensitively.
func (r *Registry) Get(name string) (Command, bool) {
	name = strings.ToLower(name)
	if cmd, ok := r.commands[name]; ok {
		return cmd, true
	}
	cmd, ok := r.byAlias[name]
	return cmd, ok
}

// All returns the registered commands sorted by name.
func (r *Registry) All() []Command {
	list := make([]Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		list = append(list, cmd)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}

// Dispatch runs the invocation's command and absorbs failures at this
// boundary: handler errors become one truncated user-facing message and a
// log line, never a crash. Unknown keywords on the text surface are ignored
// so the bot doesn't react to unrelated chatter.
func (r *Registry) Dispatch(inv *Invocation) {
	cmd, ok := r.Get(inv.Command)
	if !ok {
		if inv.Surface == SurfaceSlash {
			log.Warn().Str("command", inv.Command).Msg("unknown slash command")
		}
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Str("command", cmd.Name()).Msg("command panicked")
		}
	}()

	if err := cmd.Run(inv); err != nil {
		log.Error().Err(err).Str("command", cmd.Name()).Str("guild", inv.GuildID).Msg("command failed")
		if e := inv.Respond.Ephemeral("Error: " + Truncate(err.Error(), errDetailLimit)); e != nil {
			log.Debug().Err(e).Msg("error reply dropped")
		}
	}
}
