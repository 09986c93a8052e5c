package di

import (
	"go.uber.org/zap"

	"github.com/Labib591/zyra/application/commands/bus"
	cmdhandlers "github.com/Labib591/zyra/application/commands/handlers"
	"github.com/Labib591/zyra/application/ports"
	querybus "github.com/Labib591/zyra/application/queries/bus"
	queryhandlers "github.com/Labib591/zyra/application/queries/handlers"
	"github.com/Labib591/zyra/application/services"
	"github.com/Labib591/zyra/infrastructure/observability"
)

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(
	repos *Repositories,
	guard *services.OwnershipGuard,
	store ports.ObjectStore,
	extractor ports.TextExtractor,
	publisher ports.EventPublisher,
	metrics ports.Metrics,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus(
		observability.CommandSpans(),
		bus.LoggingMiddleware(logger),
		bus.MetricsMiddleware(metrics),
	)

	register := cmdhandlers.NewRegisterUserHandler(repos.Users, publisher, logger)
	createCanvas := cmdhandlers.NewCreateCanvasHandler(repos.Canvases, publisher, logger)
	updateCanvas := cmdhandlers.NewUpdateCanvasHandler(guard, repos.Canvases, publisher, logger)
	deleteCanvas := cmdhandlers.NewDeleteCanvasHandler(guard, repos.Canvases, repos.Notes, repos.Messages, repos.PDFs, store, publisher, logger)
	notes := cmdhandlers.NewNoteHandler(guard, repos.Notes, publisher, logger)
	messages := cmdhandlers.NewMessageHandler(guard, repos.Messages, publisher, logger)
	pdfs := cmdhandlers.NewPDFHandler(guard, repos.PDFs, store, extractor, publisher, logger)

	registrations := []error{
		bus.Handle(commandBus, register.Handle),
		bus.Handle(commandBus, createCanvas.Handle),
		bus.Handle(commandBus, updateCanvas.Handle),
		bus.Handle(commandBus, deleteCanvas.Handle),
		bus.Handle(commandBus, notes.HandleCreate),
		bus.Handle(commandBus, notes.HandleUpdate),
		bus.HandleErr(commandBus, notes.HandleDelete),
		bus.Handle(commandBus, messages.HandleCreate),
		bus.Handle(commandBus, messages.HandleDelete),
		bus.Handle(commandBus, pdfs.HandleUpload),
		bus.HandleErr(commandBus, pdfs.HandleDelete),
	}
	for _, err := range registrations {
		if err != nil {
			return nil, err
		}
	}
	return commandBus, nil
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(
	repos *Repositories,
	guard *services.OwnershipGuard,
	metrics ports.Metrics,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus(querybus.MetricsMiddleware(metrics))

	canvases := queryhandlers.NewCanvasQueryHandler(guard, repos.Canvases, repos.Notes, repos.Messages, repos.PDFs, logger)
	notes := queryhandlers.NewNoteQueryHandler(guard, repos.Notes)
	messages := queryhandlers.NewMessageQueryHandler(guard, repos.Messages)

	registrations := []error{
		querybus.Handle(queryBus, canvases.HandleGet),
		querybus.Handle(queryBus, canvases.HandleList),
		querybus.Handle(queryBus, notes.Handle),
		querybus.Handle(queryBus, messages.Handle),
	}
	for _, err := range registrations {
		if err != nil {
			return nil, err
		}
	}
	return queryBus, nil
}
