package bot

import (
	"context"
	"errors"
	"fmt"

	"cbbi-status-bot/internal/domain"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Surfaces reported to the publish error recorder.
const (
	SurfaceDiscordNickname = "discord_nickname"
	SurfaceDiscordPresence = "discord_presence"
)

var ErrMissingToken = errors.New("discord bot token not set")

type discordAPI interface {
	GuildMemberNickname(guildID, userID, nickname string, options ...discordgo.RequestOption) error
	UpdateStatusComplex(usd discordgo.UpdateStatusData) error
}

type PublishErrorRecorder interface {
	RecordPublishError(surface string)
}

// OpenDiscordSession logs the bot in. The returned channel is closed once the
// gateway has delivered the first Ready event.
func OpenDiscordSession(token string, logger *zap.Logger) (*discordgo.Session, <-chan struct{}, error) {
	if token == "" {
		return nil, nil, ErrMissingToken
	}
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, nil, fmt.Errorf("create discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds

	ready := make(chan struct{})
	s.AddHandlerOnce(func(s *discordgo.Session, r *discordgo.Ready) {
		logger.Info("discord bot logged in",
			zap.String("user", r.User.Username),
			zap.Int("guilds", len(r.Guilds)),
		)
		close(ready)
	})

	if err := s.Open(); err != nil {
		return nil, nil, fmt.Errorf("open discord gateway: %w", err)
	}
	return s, ready, nil
}

// DiscordPublisher shows a DisplayStatus as the bot's nickname in every guild
// and as its "Watching" activity.
type DiscordPublisher struct {
	api      discordAPI
	guildIDs func() []string
	logger   *zap.Logger
	recorder PublishErrorRecorder
}

func NewDiscordPublisher(s *discordgo.Session, logger *zap.Logger, recorder PublishErrorRecorder) *DiscordPublisher {
	return &DiscordPublisher{
		api:      s,
		guildIDs: func() []string { return stateGuildIDs(s.State) },
		logger:   logger,
		recorder: recorder,
	}
}

// Publish is best-effort: a failed rename in one guild does not stop the
// others or the presence update.
func (p *DiscordPublisher) Publish(ctx context.Context, status domain.DisplayStatus) {
	for _, guildID := range p.guildIDs() {
		if err := p.api.GuildMemberNickname(guildID, "@me", status.Nickname, discordgo.WithContext(ctx)); err != nil {
			p.logger.Warn("failed to set nickname", zap.String("guild_id", guildID), zap.Error(err))
			p.recordError(SurfaceDiscordNickname)
		}
	}

	err := p.api.UpdateStatusComplex(discordgo.UpdateStatusData{
		Status: string(discordgo.StatusOnline),
		Activities: []*discordgo.Activity{{
			Name: status.ActivityText,
			Type: discordgo.ActivityTypeWatching,
		}},
	})
	if err != nil {
		p.logger.Warn("failed to update presence", zap.Error(err))
		p.recordError(SurfaceDiscordPresence)
	}
}

func (p *DiscordPublisher) recordError(surface string) {
	if p.recorder != nil {
		p.recorder.RecordPublishError(surface)
	}
}

func stateGuildIDs(state *discordgo.State) []string {
	if state == nil {
		return nil
	}
	state.RLock()
	defer state.RUnlock()

	ids := make([]string, 0, len(state.Guilds))
	for _, g := range state.Guilds {
		ids = append(ids, g.ID)
	}
	return ids
}
