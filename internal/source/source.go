package source

import (
	"context"

	"github.com/exebyp-rgb/celebgo/internal/model"
)

// Source produces normalized events from one origin system.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]model.Event, error)
}
