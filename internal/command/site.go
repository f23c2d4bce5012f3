package command

import (
	"github.com/bwmarrin/discordgo"

	"github.com/Freyapa/BT-NESTLE/internal/web"
)

type SiteCommand struct {
	Issuer  *web.Issuer
	BaseURL string
}

func (c *SiteCommand) Name() string        { return "site" }
func (c *SiteCommand) Description() string { return "Get a personal link to manage your playlist" }
func (c *SiteCommand) Aliases() []string   { return []string{"เว็บ"} }

func (c *SiteCommand) Options() []*discordgo.ApplicationCommandOption { return nil }

func (c *SiteCommand) Run(inv *Invocation) error {
	token, err := c.Issuer.Issue(inv.UserID)
	if err != nil {
		return err
	}
	return inv.Respond.Ephemeral("**Playlist Management**\n" + c.BaseURL + "/?token=" + token)
}
