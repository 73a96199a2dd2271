package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rehabdesk/rehabdesk-api/internal/api/middleware"
	"github.com/rehabdesk/rehabdesk-api/internal/api/shared"
	"github.com/rehabdesk/rehabdesk-api/internal/domain/schedule"
	"github.com/rehabdesk/rehabdesk-api/internal/service"
)

// RouterConfig holds the services and settings behind the HTTP API.
type RouterConfig struct {
	Patients   service.PatientService
	Reminders  service.ReminderService
	Notes      service.NoteService
	Templates  service.TemplateService
	RehabPlans service.RehabPlanService
	AI         service.AIService
	Knowledge  service.KnowledgeService
	Schedules  service.ScheduleService

	// Roster signs rendered records that name no doctors.
	Roster         schedule.Roster
	MaxUploadBytes int64

	// MetricsHandler is mounted at MetricsPath when both are set.
	MetricsHandler http.Handler
	MetricsPath    string
	// RequestObserver, when set, records every request.
	RequestObserver middleware.RequestObserver

	Now    func() time.Time
	Logger *slog.Logger
}

// NewRouter builds the HTTP handler for the API.
func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	patientHandler := NewPatientHandler(cfg.Patients, cfg.Now, log)
	reminderHandler := NewReminderHandler(cfg.Reminders, log)
	noteHandler := NewNoteHandler(cfg.Notes, log)
	templateHandler := NewTemplateHandler(cfg.Templates, cfg.MaxUploadBytes, log)
	planHandler := NewRehabPlanHandler(cfg.RehabPlans, log)
	aiHandler := NewAIHandler(cfg.AI, log)
	knowledgeHandler := NewKnowledgeHandler(cfg.Knowledge, cfg.MaxUploadBytes, log)
	scheduleHandler := NewScheduleHandler(cfg.Schedules, cfg.Roster, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestContext(log))
	r.Use(chimw.RealIP)
	r.Use(middleware.AccessLog)
	r.Use(middleware.Metrics(cfg.RequestObserver))
	r.Use(chimw.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Route("/patients", func(r chi.Router) {
			r.Get("/", patientHandler.ListPatients)
			r.Post("/", patientHandler.CreatePatient)
			r.Get("/{hn}", patientHandler.GetPatient)
			r.Put("/{hn}", patientHandler.UpdatePatient)
			r.Delete("/{hn}", patientHandler.DeletePatient)
		})

		r.Route("/reminders", func(r chi.Router) {
			r.Get("/today", reminderHandler.TodayReminders)
			r.Put("/{id}/complete", reminderHandler.CompleteReminder)
			r.Get("/patient/{hn}", reminderHandler.PatientReminders)
			r.Post("/patient/{hn}/initialize", reminderHandler.InitializeReminders)
		})

		r.Route("/notes", func(r chi.Router) {
			r.Post("/", noteHandler.CreateNote)
			r.Get("/patient/{hn}", noteHandler.ListNotes)
			r.Get("/{id}", noteHandler.GetNote)
			r.Put("/{id}", noteHandler.UpdateNote)
		})

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", templateHandler.ListTemplates)
			r.Post("/", templateHandler.CreateTemplate)
			r.Post("/extract-phrases", templateHandler.ExtractPhrases)
			r.Post("/batch", templateHandler.BatchCreate)
			r.Put("/{id}", templateHandler.UpdateTemplate)
			r.Delete("/{id}", templateHandler.DeleteTemplate)
			r.Post("/{id}/use", templateHandler.UseTemplate)
		})

		r.Route("/rehab-plans", func(r chi.Router) {
			r.Get("/patient/{hn}", planHandler.GetPlan)
			r.Post("/patient/{hn}", planHandler.SavePlan)
			r.Get("/{hn}/progress", planHandler.ListProgress)
			r.Post("/{hn}/progress", planHandler.AddProgress)
		})

		r.Route("/ai", func(r chi.Router) {
			r.Post("/extract-patient-info", aiHandler.ExtractPatientInfo)
			r.Post("/generate-note", aiHandler.GenerateNote)
			r.Post("/generate-rehab-plan", aiHandler.GenerateRehabPlan)
		})

		r.Route("/knowledge", func(r chi.Router) {
			r.Get("/files", knowledgeHandler.ListFiles)
			r.Post("/upload", knowledgeHandler.Upload)
			r.Delete("/files/{id}", knowledgeHandler.DeleteFile)
			r.Post("/search", knowledgeHandler.Search)
		})

		r.Get("/schedule", scheduleHandler.Preview)
		r.Post("/schedule/records", scheduleHandler.Records)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: "ok", Time: time.Now().UTC()})
	})

	if cfg.MetricsHandler != nil && cfg.MetricsPath != "" {
		r.Method(http.MethodGet, cfg.MetricsPath, cfg.MetricsHandler)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}
