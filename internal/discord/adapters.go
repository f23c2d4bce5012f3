package discord

import (
	"github.com/bwmarrin/discordgo"
)

// interactionResponder answers on the slash surface. Discord requires one
// initial response per interaction; after that, edits and followups. The
// acked flag tracks which side of that line we are on.
type interactionResponder struct {
	s     *discordgo.Session
	i     *discordgo.Interaction
	acked bool
}

func (r *interactionResponder) Ack(ephemeral bool) error {
	var flags discordgo.MessageFlags
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}
	err := r.s.InteractionRespond(r.i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: flags},
	})
	if err == nil {
		r.acked = true
	}
	return err
}

func (r *interactionResponder) Reply(content string) error {
	return r.send(content, 0)
}

func (r *interactionResponder) Ephemeral(content string) error {
	return r.send(content, discordgo.MessageFlagsEphemeral)
}

func (r *interactionResponder) send(content string, flags discordgo.MessageFlags) error {
	if r.acked {
		_, err := r.s.FollowupMessageCreate(r.i, true, &discordgo.WebhookParams{
			Content: content,
			Flags:   flags,
		})
		return err
	}
	err := r.s.InteractionRespond(r.i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content, Flags: flags},
	})
	if err == nil {
		r.acked = true
	}
	return err
}

func (r *interactionResponder) Edit(content string) error {
	if !r.acked {
		return r.Reply(content)
	}
	_, err := r.s.InteractionResponseEdit(r.i, &discordgo.WebhookEdit{Content: &content})
	return err
}

func (r *interactionResponder) Delete() error {
	return r.s.InteractionResponseDelete(r.i)
}

// messageResponder answers on the text surface with plain channel messages.
// Ack is a no-op, Edit rewrites the last message we sent, and Ephemeral
// degrades to a normal message since text channels have no hidden replies.
type messageResponder struct {
	s         *discordgo.Session
	channelID string
	lastID    string
}

func (r *messageResponder) Ack(ephemeral bool) error { return nil }

func (r *messageResponder) Reply(content string) error {
	msg, err := r.s.ChannelMessageSend(r.channelID, content)
	if err != nil {
		return err
	}
	r.lastID = msg.ID
	return nil
}

func (r *messageResponder) Ephemeral(content string) error {
	return r.Reply(content)
}

func (r *messageResponder) Edit(content string) error {
	if r.lastID == "" {
		return r.Reply(content)
	}
	_, err := r.s.ChannelMessageEdit(r.channelID, r.lastID, content)
	return err
}

func (r *messageResponder) Delete() error {
	if r.lastID == "" {
		return nil
	}
	err := r.s.ChannelMessageDelete(r.channelID, r.lastID)
	if err == nil {
		r.lastID = ""
	}
	return err
}
