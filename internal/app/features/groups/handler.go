// internal/app/features/groups/handler.go
package groups

import (
	"github.com/dalemusser/circle360/internal/app/store/dataservice"
	"github.com/dalemusser/circle360/internal/app/workflow/groupflow"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the groups feature. The
// workflow engine runs the multi-step mutations; the store client serves
// the read-only view endpoints directly.
type Handler struct {
	Flow  *groupflow.Engine
	Store *dataservice.Client
	Log   *zap.Logger
}

// NewHandler constructs a groups Handler. Called from bootstrap
// BuildHandler.
func NewHandler(flow *groupflow.Engine, store *dataservice.Client, logger *zap.Logger) *Handler {
	return &Handler{
		Flow:  flow,
		Store: store,
		Log:   logger,
	}
}
