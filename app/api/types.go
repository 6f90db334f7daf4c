package api

import (
	"github.com/lysyi3m/newsintel/app/agent"
	"github.com/lysyi3m/newsintel/app/feed"
)

type UpdaterInterface interface {
	TriggerRun() error
}

var _ UpdaterInterface = (*agent.Updater)(nil)

type Handler struct {
	store       *agent.Store
	sourceCache *feed.SourceCache
	updater     UpdaterInterface
}
