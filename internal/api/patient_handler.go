package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/rehabdesk/rehabdesk-api/internal/api/shared"
	"github.com/rehabdesk/rehabdesk-api/internal/domain"
	"github.com/rehabdesk/rehabdesk-api/internal/platform/logger"
	"github.com/rehabdesk/rehabdesk-api/internal/service"
	"github.com/rehabdesk/rehabdesk-api/internal/store"
)

// DefaultPatientListLimit caps GET /patients when no limit is given.
const DefaultPatientListLimit = 100

// PatientHandler handles patient HTTP requests.
type PatientHandler struct {
	patients service.PatientService
	now      func() time.Time
	logger   *slog.Logger
}

// NewPatientHandler creates a PatientHandler. A nil now uses time.Now.
func NewPatientHandler(patients service.PatientService, now func() time.Time, logger *slog.Logger) *PatientHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for PatientHandler")
	}
	if now == nil {
		now = time.Now
	}
	return &PatientHandler{
		patients: patients,
		now:      now,
		logger:   logger.With(slog.String("component", "patient_handler")),
	}
}

func (h *PatientHandler) toResponse(p *domain.Patient) PatientResponse {
	return PatientResponse{Patient: p, DaysInHospital: p.DaysInHospital(h.now())}
}

// ListPatients handles GET /patients?include_discharged&search&limit&offset.
func (h *PatientHandler) ListPatients(w http.ResponseWriter, r *http.Request) {
	includeDischarged, err := queryBool(r, "include_discharged")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	limit, err := queryInt(r, "limit", DefaultPatientListLimit)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	patients, err := h.patients.ListPatients(r.Context(), store.PatientFilter{
		IncludeDischarged: includeDischarged,
		Search:            strings.TrimSpace(r.URL.Query().Get("search")),
		Limit:             limit,
		Offset:            offset,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list patients")
		return
	}

	resp := make([]PatientResponse, 0, len(patients))
	for _, p := range patients {
		resp = append(resp, h.toResponse(p))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// CreatePatient handles POST /patients. The stay's reminders are created with
// the patient.
func (h *PatientHandler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	var req CreatePatientRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	admission, err := parseDate("admission_date", req.AdmissionDate)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	discharge, err := parseOptionalDate("discharge_date", req.DischargeDate)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	patient, err := h.patients.CreatePatient(r.Context(), service.PatientInput{
		HospitalNumber: req.HospitalNumber,
		Name:           req.Name,
		Gender:         req.Gender,
		Age:            req.Age,
		AdmissionDate:  admission,
		DischargeDate:  discharge,
		ChiefComplaint: req.ChiefComplaint,
		Diagnosis:      req.Diagnosis,
		PastHistory:    req.PastHistory,
		AllergyHistory: req.AllergyHistory,
		SpecialistExam: req.SpecialistExam,
		InitialNote:    req.InitialNote,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create patient")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("patient created",
		slog.String("patient_id", patient.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, h.toResponse(patient))
}

// GetPatient handles GET /patients/{hn}.
func (h *PatientHandler) GetPatient(w http.ResponseWriter, r *http.Request) {
	hn, ok := hospitalNumber(w, r)
	if !ok {
		return
	}
	patient, err := h.patients.GetPatient(r.Context(), hn)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get patient")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, h.toResponse(patient))
}

// UpdatePatient handles PUT /patients/{hn}.
func (h *PatientHandler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	hn, ok := hospitalNumber(w, r)
	if !ok {
		return
	}
	var req UpdatePatientRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	admission, err := parseOptionalDate("admission_date", req.AdmissionDate)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	discharge, err := parseOptionalDate("discharge_date", req.DischargeDate)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	patient, err := h.patients.UpdatePatient(r.Context(), hn, service.PatientUpdate{
		Name:           req.Name,
		Gender:         req.Gender,
		Age:            req.Age,
		AdmissionDate:  admission,
		DischargeDate:  discharge,
		ChiefComplaint: req.ChiefComplaint,
		Diagnosis:      req.Diagnosis,
		PastHistory:    req.PastHistory,
		AllergyHistory: req.AllergyHistory,
		SpecialistExam: req.SpecialistExam,
		InitialNote:    req.InitialNote,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update patient")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, h.toResponse(patient))
}

// DeletePatient handles DELETE /patients/{hn}.
func (h *PatientHandler) DeletePatient(w http.ResponseWriter, r *http.Request) {
	hn, ok := hospitalNumber(w, r)
	if !ok {
		return
	}
	if err := h.patients.DeletePatient(r.Context(), hn); err != nil {
		HandleAPIError(w, r, err, "Failed to delete patient")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
