package adapters

import (
	"github.com/rs/zerolog"

	"izpack/internal/ports"
	"izpack/internal/types"
)

// LogListener reports packager progress through zerolog.
type LogListener struct {
	logger zerolog.Logger
}

func NewLogListener(logger zerolog.Logger) LogListener {
	return LogListener{logger: logger.With().Str("component", "packager").Logger()}
}

func (l LogListener) PackagerStart() {
	l.logger.Info().Msg("packager started")
}

func (l LogListener) PackagerMsg(msg string, priority types.MsgPriority) {
	var event *zerolog.Event
	switch priority {
	case types.MsgErr:
		event = l.logger.Error()
	case types.MsgWarn:
		event = l.logger.Warn()
	case types.MsgInfo:
		event = l.logger.Info()
	default:
		event = l.logger.Debug()
	}
	event.Str("priority", priority.String()).Msg(msg)
}

func (l LogListener) PackagerStop() {
	l.logger.Info().Msg("packager finished")
}

var _ ports.PackagerListener = LogListener{}
