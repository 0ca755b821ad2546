package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/solarcrm/pipeline-crm/internal/usecase"
)

// Log writes every notification to the service log.
type Log struct {
	log *zap.Logger
}

func NewLog(log *zap.Logger) *Log {
	return &Log{log: log}
}

func (l *Log) Notify(_ context.Context, n usecase.Notification) error {
	fields := []zap.Field{
		zap.String("title", n.Title),
		zap.String("description", n.Description),
	}
	if n.Variant == usecase.VariantDestructive {
		l.log.Warn("notification", fields...)
		return nil
	}
	l.log.Info("notification", fields...)
	return nil
}
