package executor

import (
	"context"

	"github.com/harrison/qbc/internal/models"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock.go

// Converter converts single documents. *converter.Invoker is the production
// implementation.
type Converter interface {
	Convert(ctx context.Context, task models.FileTask) models.FileResult
	CheckInstalled() (string, error)
}
