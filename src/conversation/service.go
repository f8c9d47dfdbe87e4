package conversation

import (
	"context"

	"github.com/rs/zerolog"

	"eino_grocery_bot/pkg"
	"eino_grocery_bot/src/logger"
)

// LogSink writes every turn as a structured log line
type LogSink struct {
	log *zerolog.Logger
}

// NewLogSink logs through l, or through the turn logger of the context
// when l is nil
func NewLogSink(l *zerolog.Logger) *LogSink {
	return &LogSink{log: l}
}

func (s *LogSink) Record(ctx context.Context, entry pkg.TranscriptEntry) error {
	l := s.log
	if l == nil {
		l = logger.FromContext(ctx)
	}
	l.Info().
		Time("turn_at", entry.Timestamp).
		Str("session_id", entry.SessionID).
		Str("user_message", entry.UserMessage).
		Str("bot_message", entry.BotMessage).
		Str("resolved_by", entry.ResolvedBy).
		Msg("transcript")
	return nil
}

// Service fans a turn out to every configured sink. A failing sink never
// blocks the others and never reaches the user.
type Service struct {
	sinks []Sink
}

func NewService(sinks ...Sink) *Service {
	return &Service{sinks: sinks}
}

// Record implements Sink
func (s *Service) Record(ctx context.Context, entry pkg.TranscriptEntry) error {
	for _, sink := range s.sinks {
		if err := sink.Record(ctx, entry); err != nil {
			logger.Warn().Err(err).Str("session_id", entry.SessionID).Msg("Transcript sink failed")
		}
	}
	return nil
}
