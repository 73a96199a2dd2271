package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rehabdesk/rehabdesk-api/internal/api"
	"github.com/rehabdesk/rehabdesk-api/internal/config"
	"github.com/rehabdesk/rehabdesk-api/internal/domain/phrase"
	"github.com/rehabdesk/rehabdesk-api/internal/domain/schedule"
	"github.com/rehabdesk/rehabdesk-api/internal/events"
	"github.com/rehabdesk/rehabdesk-api/internal/generation"
	"github.com/rehabdesk/rehabdesk-api/internal/knowledge"
	"github.com/rehabdesk/rehabdesk-api/internal/platform/metrics"
	"github.com/rehabdesk/rehabdesk-api/internal/platform/openai"
	"github.com/rehabdesk/rehabdesk-api/internal/platform/postgres"
	"github.com/rehabdesk/rehabdesk-api/internal/service"
	"github.com/rehabdesk/rehabdesk-api/internal/store"
	"github.com/rehabdesk/rehabdesk-api/internal/task"
)

// metricsNamespace prefixes every exported Prometheus series.
const metricsNamespace = "rehabdesk"

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	patientStore   store.PatientStore
	noteStore      store.NoteStore
	reminderStore  store.ReminderStore
	templateStore  store.TemplateStore
	rehabPlanStore store.RehabPlanStore
	knowledgeStore store.KnowledgeDocumentStore
	taskStore      task.TaskStore

	recorder  *metrics.Recorder
	roster    schedule.Roster
	generator *generation.Generator
	// knowledgeBase is nil when no embedding key is configured.
	knowledgeBase *knowledge.Base

	patientService   service.PatientService
	reminderService  service.ReminderService
	noteService      service.NoteService
	templateService  service.TemplateService
	rehabPlanService service.RehabPlanService
	aiService        service.AIService
	knowledgeService service.KnowledgeService
	scheduleService  service.ScheduleService

	eventEmitter *events.InMemoryEventEmitter
	taskRunner   *task.TaskRunner
}

// newApplication creates a new application instance with all dependencies initialized.
// The database connection must already be established.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	app.patientStore = postgres.NewPostgresPatientStore(db, logger)
	app.noteStore = postgres.NewPostgresNoteStore(db, logger)
	app.reminderStore = postgres.NewPostgresReminderStore(db, logger)
	app.templateStore = postgres.NewPostgresTemplateStore(db, logger)
	app.rehabPlanStore = postgres.NewPostgresRehabPlanStore(db, logger)
	app.knowledgeStore = postgres.NewPostgresKnowledgeStore(db, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)

	var err error
	if cfg.Metrics.Enabled {
		app.recorder, err = metrics.NewRecorder(metricsNamespace)
		if err != nil {
			return nil, fmt.Errorf("failed to create metrics recorder: %w", err)
		}
	}

	app.roster, err = schedule.LoadRosterFile(cfg.Schedule.RosterFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load doctor roster: %w", err)
	}

	completer, err := newCompleter(ctx, cfg, logger.With(slog.String("component", "llm_completer")))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM completer: %w", err)
	}
	app.generator, err = generation.NewGenerator(completer, app.recorder, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize generator: %w", err)
	}

	app.taskRunner = task.NewTaskRunner(app.taskStore, task.TaskRunnerConfig{
		WorkerCount:  cfg.Task.WorkerCount,
		QueueSize:    cfg.Task.QueueSize,
		StuckTaskAge: cfg.Task.StuckTaskAge,
	}, logger)

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.eventEmitter.RegisterHandler(task.NewTaskFactoryEventHandler(app.taskRunner, logger))

	if err := app.setupKnowledge(ctx); err != nil {
		return nil, err
	}

	if err := app.setupServices(); err != nil {
		return nil, err
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// setupKnowledge builds the vector index and registers the ingestion task.
// Without an embedding key the knowledge base stays nil and its routes
// report it as unconfigured.
func (app *application) setupKnowledge(ctx context.Context) error {
	cfg := app.config
	if !cfg.KnowledgeEnabled() {
		app.logger.Warn("Embedding API key not set; knowledge base is disabled")
		return nil
	}

	embedder, err := openai.NewEmbedder(app.logger, cfg.Embedding)
	if err != nil {
		return fmt.Errorf("failed to initialize embedder: %w", err)
	}
	cached, err := knowledge.NewCachedEmbedder(embedder, cfg.Embedding.CacheSize)
	if err != nil {
		return fmt.Errorf("failed to initialize embedding cache: %w", err)
	}

	app.knowledgeBase, err = knowledge.NewBase(knowledge.BaseConfig{
		PersistPath: cfg.Knowledge.PersistPath,
		Collection:  cfg.Knowledge.Collection,
		Concurrency: cfg.Knowledge.Concurrency,
	}, cached, app.logger)
	if err != nil {
		return fmt.Errorf("failed to open knowledge base: %w", err)
	}

	ingester, err := knowledge.NewIngester(
		app.knowledgeStore,
		app.knowledgeBase,
		knowledge.NewChunker(cfg.Knowledge.ChunkSize, cfg.Knowledge.ChunkOverlap),
		app.recorder,
		app.logger,
	)
	if err != nil {
		return fmt.Errorf("failed to create knowledge ingester: %w", err)
	}
	app.taskRunner.RegisterFactory(task.TaskTypeKnowledgeIngest, task.KnowledgeIngestFactory(ingester))

	app.logger.InfoContext(ctx, "Knowledge base initialized",
		slog.String("collection", cfg.Knowledge.Collection),
		slog.Int("chunks", app.knowledgeBase.Count()))
	return nil
}

func (app *application) setupServices() error {
	cfg := app.config
	logger := app.logger

	// Interface values stay untyped nil while the knowledge base is off.
	var index service.KnowledgeIndex
	var searcher service.KnowledgeSearcher
	if app.knowledgeBase != nil {
		index = app.knowledgeBase
		searcher = app.knowledgeBase
	}

	cadence, err := schedule.ParseCadence(cfg.Schedule.Cadence)
	if err != nil {
		return fmt.Errorf("invalid schedule cadence: %w", err)
	}
	scheduler := schedule.NewServiceWithParams(schedule.NewParams(schedule.ParamsConfig{Cadence: cadence}))
	app.scheduleService = service.NewScheduleService(schedule.ParamsConfig{Cadence: cadence})

	app.patientService, err = service.NewPatientService(
		app.db, app.patientStore, app.reminderStore, scheduler, app.recorder, logger)
	if err != nil {
		return fmt.Errorf("failed to create patient service: %w", err)
	}

	app.reminderService, err = service.NewReminderService(
		app.db, app.patientStore, app.reminderStore, app.recorder, logger)
	if err != nil {
		return fmt.Errorf("failed to create reminder service: %w", err)
	}

	app.noteService, err = service.NewNoteService(app.patientStore, app.noteStore, logger)
	if err != nil {
		return fmt.Errorf("failed to create note service: %w", err)
	}

	app.templateService, err = service.NewTemplateService(
		app.db,
		app.templateStore,
		app.generator,
		app.recorder,
		service.TemplateServiceConfig{
			Pipeline: phrase.Options{
				MaxPhrases:       cfg.Extraction.MaxPhrases,
				MaxContentLength: cfg.Extraction.MaxContentLength,
			},
			MaxCorpusRunes: cfg.Extraction.MaxCorpusRunes,
		},
		logger,
	)
	if err != nil {
		return fmt.Errorf("failed to create template service: %w", err)
	}

	app.rehabPlanService, err = service.NewRehabPlanService(app.patientStore, app.rehabPlanStore, logger)
	if err != nil {
		return fmt.Errorf("failed to create rehab plan service: %w", err)
	}

	app.aiService, err = service.NewAIService(
		app.patientStore,
		app.noteStore,
		app.rehabPlanStore,
		app.generator,
		searcher,
		service.AIServiceConfig{Roster: app.roster},
		logger,
	)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}

	app.knowledgeService, err = service.NewKnowledgeService(
		app.knowledgeStore, index, app.eventEmitter, cfg.Knowledge.TopK, logger)
	if err != nil {
		return fmt.Errorf("failed to create knowledge service: %w", err)
	}

	return nil
}

// Run starts the background workers and the HTTP server and blocks until
// shutdown.
func (app *application) Run(ctx context.Context) error {
	if err := app.taskRunner.Start(ctx); err != nil {
		app.cleanup()
		return fmt.Errorf("failed to start task runner: %w", err)
	}
	if err := app.taskRunner.Recover(ctx); err != nil {
		app.logger.Error("Failed to recover pending tasks", slog.Any("error", err))
	}

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// setupRouter builds the API handler from the initialized services.
func (app *application) setupRouter() http.Handler {
	cfg := api.RouterConfig{
		Patients:       app.patientService,
		Reminders:      app.reminderService,
		Notes:          app.noteService,
		Templates:      app.templateService,
		RehabPlans:     app.rehabPlanService,
		AI:             app.aiService,
		Knowledge:      app.knowledgeService,
		Schedules:      app.scheduleService,
		Roster:         app.roster,
		MaxUploadBytes: app.config.Server.MaxUploadBytes,
		Now:            time.Now,
		Logger:         app.logger,
	}
	if app.recorder != nil {
		cfg.MetricsHandler = app.recorder.Handler()
		cfg.MetricsPath = app.config.Metrics.Path
		cfg.RequestObserver = app.recorder
	}
	return api.NewRouter(cfg)
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", slog.Any("error", err))
		}
	}

	app.logger.Info("Application shutdown completed")
}
