package app

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/teamcal/teamcal/internal/config"
	"github.com/teamcal/teamcal/internal/event_bus"
	"github.com/teamcal/teamcal/internal/utils"
	"github.com/teamcal/teamcal/pkg/cell"
	"github.com/teamcal/teamcal/pkg/conflict"
	"github.com/teamcal/teamcal/pkg/event"
	"github.com/teamcal/teamcal/pkg/google"
	"github.com/teamcal/teamcal/pkg/grid"
	"github.com/teamcal/teamcal/pkg/hover_slot"
	"github.com/teamcal/teamcal/pkg/ics"
	"github.com/teamcal/teamcal/pkg/person"
	"github.com/teamcal/teamcal/pkg/seed"
	"github.com/teamcal/teamcal/pkg/viewport"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Clock    utils.Clock
	EventBus *event_bus.EventBus

	PersonRepo    person.Repository
	PersonService *person.ServiceImpl
	PersonHandler *person.Handler

	EventRepo    event.Repository
	EventService *event.ServiceImpl
	EventHandler *event.Handler

	GridService *grid.ServiceImpl
	GridHandler *grid.Handler

	ViewportSessions *viewport.SessionStore
	ViewportHandler  *viewport.Handler

	ConflictService *conflict.ServiceImpl
	ConflictHandler *conflict.Handler

	CellService      *cell.Service
	CellHandler      *cell.Handler
	HoverSlotHandler *hover_slot.Handler

	IcsRepo    ics.Repository
	IcsService *ics.Service
	IcsHandler *ics.Handler

	GoogleAuth    *google.Auth
	GoogleService *google.ServiceImpl
	GoogleSyncer  *google.Syncer
	GoogleHandler *google.Handler

	Populator *seed.Populator
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *pgxpool.Pool, cfg config.Application) *Dependencies {
	deps := &Dependencies{}
	location := cfg.Calendar.Location()

	deps.Clock = utils.SystemClock{Location: location}
	deps.EventBus = event_bus.NewEventBus()

	deps.PersonRepo = person.NewRepo(db)
	deps.PersonService = person.NewService(deps.PersonRepo)
	deps.PersonHandler = person.NewHandler(deps.PersonService)

	deps.EventRepo = event.NewRepo(db)
	deps.EventService = event.NewService(deps.EventRepo, deps.PersonService, deps.EventBus, deps.Clock, location)
	deps.EventHandler = event.NewHandler(deps.EventService)

	deps.GridService = grid.NewService(deps.EventService, deps.Clock, cfg.Calendar)
	deps.GridHandler = grid.NewHandler(deps.GridService)

	deps.ViewportSessions = viewport.NewSessionStore(deps.GridService, cfg.Viewport, deps.Clock)
	deps.ViewportSessions.Subscribe(deps.EventBus)
	deps.ViewportHandler = viewport.NewHandler(deps.ViewportSessions)

	deps.ConflictService = conflict.NewService(deps.EventService, location)
	deps.ConflictHandler = conflict.NewHandler(deps.ConflictService)

	deps.CellService = cell.NewService(deps.GridService, cell.Metrics{
		RowHeight:  cfg.Cell.RowHeight,
		Gap:        cfg.Cell.Gap,
		MoreHeight: cfg.Cell.MoreHeight,
	})
	deps.CellHandler = cell.NewHandler(deps.CellService)
	deps.HoverSlotHandler = hover_slot.NewHandler(deps.CellService, cfg.Cell.HoverPad)

	deps.IcsRepo = ics.NewRepo(db)
	deps.IcsService = ics.NewService(deps.EventService, deps.IcsRepo, ics.NewFetcher(cfg.Ics.Timeout), deps.Clock, location)
	deps.IcsHandler = ics.NewHandler(deps.IcsService)

	deps.GoogleAuth = google.NewAuth(cfg)
	deps.GoogleService = google.NewService(deps.GoogleAuth, location)
	deps.GoogleSyncer = google.NewSyncer(
		google.CalendarSource(deps.GoogleService, cfg.Google.CalendarId),
		deps.EventService,
		deps.Clock,
		cfg.Calendar,
	)
	deps.GoogleHandler = google.NewHandler(deps.GoogleService, deps.GoogleSyncer)

	deps.Populator = seed.NewPopulator(deps.EventService, deps.PersonService, deps.Clock, cfg.Calendar.WeekStartDay(), nil)

	return deps
}
