package command

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

const purgeScanLimit = 100

// purgeDeleteInterval paces the per-message fallback under the API rate
// limit; tests shorten it.
var purgeDeleteInterval = 300 * time.Millisecond

// messagePurger is the slice of discordgo.Session the purge needs.
type messagePurger interface {
	ChannelMessagesBulkDelete(channelID string, messages []string, options ...discordgo.RequestOption) error
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
}

// DeleteChatCommand removes the bot's own recent messages from the channel.
type DeleteChatCommand struct{}

func (c *DeleteChatCommand) Name() string        { return "deletechat" }
func (c *DeleteChatCommand) Description() string { return "Delete the bot's recent messages here" }
func (c *DeleteChatCommand) Aliases() []string   { return []string{"dc", "ลบแชท"} }

func (c *DeleteChatCommand) Options() []*discordgo.ApplicationCommandOption { return nil }

func (c *DeleteChatCommand) Run(inv *Invocation) error {
	if err := inv.Respond.Ack(true); err != nil {
		return nil
	}

	if inv.Session == nil || inv.Session.State == nil || inv.Session.State.User == nil {
		return inv.Respond.Edit("No messages to delete.")
	}
	selfID := inv.Session.State.User.ID

	msgs, err := inv.Session.ChannelMessages(inv.ChannelID, purgeScanLimit, "", "", "")
	if err != nil {
		return err
	}

	var ids []string
	for _, m := range msgs {
		if m.Author != nil && m.Author.ID == selfID {
			ids = append(ids, m.ID)
		}
	}
	if len(ids) == 0 {
		return inv.Respond.Edit("No messages to delete.")
	}

	deleted := purgeMessages(inv.Session, inv.ChannelID, ids)
	return inv.Respond.Edit(fmt.Sprintf("Deleted %d messages.", deleted))
}

// purgeMessages bulk-deletes first and reports how many messages actually
// went away. Bulk delete rejects messages older than two weeks; the fallback
// deletes one by one with a pause and counts only its successes.
func purgeMessages(p messagePurger, channelID string, ids []string) int {
	err := p.ChannelMessagesBulkDelete(channelID, ids)
	if err == nil {
		return len(ids)
	}
	log.Debug().Err(err).Msg("bulk delete failed, deleting individually")

	deleted := 0
	for _, id := range ids {
		if err := p.ChannelMessageDelete(channelID, id); err != nil {
			log.Debug().Err(err).Str("message", id).Msg("message delete failed")
		} else {
			deleted++
		}
		time.Sleep(purgeDeleteInterval)
	}
	return deleted
}
