package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/arcslab/arcfield/internal/domain/catalog"
	"github.com/arcslab/arcfield/internal/domain/sherd"
	"github.com/arcslab/arcfield/internal/domain/universal"
	"github.com/arcslab/arcfield/internal/inference"
	"github.com/arcslab/arcfield/internal/repository"
)

// maxUploadBytes bounds analyze uploads; field photographs run a few MB.
const maxUploadBytes = 32 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

type createProjectRequest struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Password    string `json:"password"`
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, err)
		return
	}

	proj, err := s.services.Catalog.CreateProject(r.Context(), catalog.CreateProjectRequest{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		Password:    req.Password,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusCreated, proj)
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.services.Catalog.ListProjects(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusOK, orEmpty(projects))
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	proj, err := s.services.Catalog.GetProject(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusOK, proj)
}

type createStudyAreaRequest struct {
	Label string `json:"label"`
}

func (s *Server) handleCreateStudyArea(w http.ResponseWriter, r *http.Request) {
	var req createStudyAreaRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, err)
		return
	}

	area, err := s.services.Catalog.CreateStudyArea(r.Context(), chi.URLParam(r, "projectID"), req.Label)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusCreated, area)
}

func (s *Server) handleListStudyAreas(w http.ResponseWriter, r *http.Request) {
	areas, err := s.services.Catalog.ListStudyAreas(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusOK, orEmpty(areas))
}

type createStratUnitRequest struct {
	Typology string `json:"typology"`
	Label    string `json:"label"`
}

func (s *Server) handleCreateStratUnit(w http.ResponseWriter, r *http.Request) {
	var req createStratUnitRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, err)
		return
	}

	unit, err := s.services.Catalog.CreateStratUnit(r.Context(), catalog.CreateStratUnitRequest{
		ProjectID:   chi.URLParam(r, "projectID"),
		StudyAreaID: chi.URLParam(r, "studyAreaID"),
		Typology:    req.Typology,
		Label:       req.Label,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusCreated, unit)
}

func (s *Server) handleListStratUnits(w http.ResponseWriter, r *http.Request) {
	units, err := s.services.Catalog.ListStratUnits(r.Context(),
		chi.URLParam(r, "projectID"), chi.URLParam(r, "studyAreaID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusOK, orEmpty(units))
}

type createContainerRequest struct {
	ContainerType string `json:"containerType"`
	MaterialType  string `json:"materialType"`
}

func (s *Server) handleCreateContainer(w http.ResponseWriter, r *http.Request) {
	var req createContainerRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, err)
		return
	}

	c, err := s.services.Catalog.CreateContainer(r.Context(), catalog.CreateContainerRequest{
		ProjectID:     chi.URLParam(r, "projectID"),
		StudyAreaID:   chi.URLParam(r, "studyAreaID"),
		StratUnitID:   chi.URLParam(r, "stratUnitID"),
		ContainerType: catalog.ContainerType(req.ContainerType),
		MaterialType:  req.MaterialType,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusCreated, c)
}

func (s *Server) handleListContainers(w http.ResponseWriter, r *http.Request) {
	containers, err := s.services.Catalog.ListContainers(r.Context(),
		chi.URLParam(r, "projectID"), chi.URLParam(r, "studyAreaID"), chi.URLParam(r, "stratUnitID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusOK, orEmpty(containers))
}

type createMaterialGroupRequest struct {
	MaterialID   string `json:"materialId"`
	MaterialType string `json:"materialType"`
}

func (s *Server) handleCreateMaterialGroup(w http.ResponseWriter, r *http.Request) {
	var req createMaterialGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, err)
		return
	}

	g, err := s.services.Catalog.CreateMaterialGroup(r.Context(), catalog.CreateMaterialGroupRequest{
		ProjectID:    chi.URLParam(r, "projectID"),
		StudyAreaID:  chi.URLParam(r, "studyAreaID"),
		StratUnitID:  chi.URLParam(r, "stratUnitID"),
		MaterialID:   req.MaterialID,
		MaterialType: catalog.MaterialType(req.MaterialType),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusCreated, groupResponse(g))
}

func (s *Server) handleListMaterialGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.services.Catalog.ListMaterialGroups(r.Context(),
		chi.URLParam(r, "projectID"), chi.URLParam(r, "studyAreaID"), chi.URLParam(r, "stratUnitID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusOK, groupListResponse(groups))
}

func (s *Server) handleGetMaterialGroup(w http.ResponseWriter, r *http.Request) {
	g, err := s.services.Catalog.GetMaterialGroup(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusOK, groupResponse(g))
}

type renameMaterialGroupRequest struct {
	MaterialID string `json:"materialId"`
}

func (s *Server) handleRenameMaterialGroup(w http.ResponseWriter, r *http.Request) {
	var req renameMaterialGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, err)
		return
	}

	g, err := s.services.Catalog.RenameMaterialGroup(r.Context(), chi.URLParam(r, "groupID"), req.MaterialID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusOK, groupResponse(g))
}

// ingestRequest carries one sherd batch. Mode selects the write shape:
// "detections" persists individual records, "grouped" persists aggregate
// summary rows.
type ingestRequest struct {
	Mode           string              `json:"mode"`
	ContainerID    string              `json:"containerId"`
	MaterialID     string              `json:"materialId"`
	MaterialType   string              `json:"materialType"`
	Sherds         []sherd.Observation `json:"sherds"`
	Rows           []sherd.GroupedRow  `json:"rows"`
	AnnotatedImage string              `json:"annotatedImage"`
}

// handleIngest accepts a batch at either the strat unit level (the group is
// created during ingestion) or under an existing material group.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, err)
		return
	}

	ref := sherd.GroupRef{
		ProjectID:    chi.URLParam(r, "projectID"),
		StudyAreaID:  chi.URLParam(r, "studyAreaID"),
		StratUnitID:  chi.URLParam(r, "stratUnitID"),
		ContainerID:  req.ContainerID,
		GroupDocID:   chi.URLParam(r, "groupID"),
		MaterialID:   req.MaterialID,
		MaterialType: req.MaterialType,
	}

	var result *sherd.IngestResult
	var err error
	switch req.Mode {
	case "grouped":
		result, err = s.services.Sherds.IngestGrouped(r.Context(), ref, req.Rows)
	case "", "detections":
		result, err = s.services.Sherds.IngestDetections(r.Context(), ref, req.Sherds, req.AnnotatedImage)
	default:
		s.respondError(w, http.StatusBadRequest, errors.New("unknown ingestion mode: "+req.Mode))
		return
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusCreated, result)
}

// handleListSherds returns a group's records; shape=summary selects the
// grouped manual-entry rows instead of individual sherds.
func (s *Server) handleListSherds(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	if r.URL.Query().Get("shape") == "summary" {
		summaries, err := s.services.Sherds.ListSummaries(r.Context(), groupID)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.respond(w, http.StatusOK, orEmpty(summaries))
		return
	}

	sherds, err := s.services.Sherds.ListByGroup(r.Context(), groupID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusOK, orEmpty(sherds))
}

// handleAnalyze forwards a photograph and batch weight to the detection
// service and relays its predictions without persisting anything; the
// reviewed batch comes back through handleIngest.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, err)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, errors.New("missing image upload"))
		return
	}
	defer file.Close()

	weight, err := strconv.ParseFloat(r.FormValue("weight"), 64)
	if err != nil || weight < 0 {
		s.respondError(w, http.StatusBadRequest, errors.New("invalid weight"))
		return
	}

	result, err := s.services.Inference.Analyze(r.Context(), inference.AnalyzeRequest{
		ImageName:    header.Filename,
		Image:        file,
		TotalWeight:  weight,
		MaterialType: r.FormValue("material_type"),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusOK, result)
}

type universalResponse struct {
	Entries []universal.Entry `json:"entries"`
	Stats   universal.Stats   `json:"stats"`
}

func (s *Server) handleQueryUniversal(w http.ResponseWriter, r *http.Request) {
	filter := universal.Filter{ProjectID: r.URL.Query().Get("project")}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			s.respondError(w, http.StatusBadRequest, errors.New("invalid limit"))
			return
		}
		filter.Limit = limit
	}

	entries, err := s.services.Universal.Query(r.Context(), filter)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusOK, universalResponse{
		Entries: orEmpty(entries),
		Stats:   universal.Summarize(entries),
	})
}

// writeError maps domain errors onto HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var svcErr *inference.ServiceError

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, catalog.ErrInvalidInput),
		errors.Is(err, sherd.ErrInvalidInput),
		errors.Is(err, sherd.ErrEmptyBatch),
		errors.Is(err, sherd.ErrInvalidQualification),
		errors.Is(err, sherd.ErrInvalidDiagnostic),
		errors.Is(err, repository.ErrInvalidInput),
		errors.Is(err, inference.ErrUnsupportedMaterial):
		status = http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, catalog.ErrProjectNotFound),
		errors.Is(err, catalog.ErrGroupNotFound):
		status = http.StatusNotFound
	case errors.Is(err, catalog.ErrAllocationConflict),
		errors.Is(err, catalog.ErrMaterialIDTaken),
		errors.Is(err, catalog.ErrLettersExhausted):
		status = http.StatusConflict
	case errors.As(err, &svcErr):
		status = http.StatusBadGateway
	case errors.Is(err, inference.ErrTimeout):
		status = http.StatusGatewayTimeout
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	s.respondError(w, status, err)
}

func (s *Server) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, err error) {
	s.respond(w, status, map[string]string{"error": err.Error()})
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return errors.New("invalid request body: " + err.Error())
	}
	return nil
}

// orEmpty keeps list responses as [] instead of null.
func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
