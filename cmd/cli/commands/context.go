package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/calvertross/rosterd/internal/config"
	"github.com/calvertross/rosterd/pkg/core/services"
	"github.com/calvertross/rosterd/pkg/db"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg      *config.Config
	Database db.Database
	Locks    *services.ScheduleLocks
	Logger   *zap.Logger
	Ctx      context.Context
}
