package chi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/kailas-cloud/entdoc/internal/db"
	domentity "github.com/kailas-cloud/entdoc/internal/domain/entity"
	domquery "github.com/kailas-cloud/entdoc/internal/domain/query"
	"github.com/kailas-cloud/entdoc/internal/domain/schema"
	entityuc "github.com/kailas-cloud/entdoc/internal/usecase/entity"
	healthuc "github.com/kailas-cloud/entdoc/internal/usecase/health"
	queryuc "github.com/kailas-cloud/entdoc/internal/usecase/query"
)

// SchemaLookup resolves entity types defined by the process.
type SchemaLookup interface {
	Lookup(entityType string) (*schema.Schema, bool)
	EntityTypes() []string
}

// Server serves the admin HTTP API.
type Server struct {
	entities      *entityuc.Service
	queries       *queryuc.Service
	health        *healthuc.Service
	schemas       SchemaLookup
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	entities *entityuc.Service,
	queries *queryuc.Service,
	health *healthuc.Service,
	schemas SchemaLookup,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		entities:      entities,
		queries:       queries,
		health:        health,
		schemas:       schemas,
		logger:        logger,
		errorHandlers: defaultErrorHandlers(),
	}
}

// Routes mounts every endpoint on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/entities", func(r chi.Router) {
		r.Get("/", s.ListEntityTypes)
		r.Route("/{type}", func(r chi.Router) {
			r.Get("/", s.GetEntityType)
			r.Post("/", s.InsertEntity)
			r.Post("/find", s.FindEntities)
			r.Post("/find-one", s.FindOneEntity)
			r.Post("/count", s.CountEntities)
			r.Post("/distinct", s.DistinctEntities)
			r.Post("/update-all", s.UpdateAllEntities)
			r.Post("/remove-all", s.RemoveAllEntities)
			r.Get("/{id}", s.GetEntity)
			r.Put("/{id}", s.UpdateEntity)
			r.Delete("/{id}", s.RemoveEntity)
		})
	})

	r.Route("/collections/{collection}", func(r chi.Router) {
		r.Post("/", s.InsertDocument)
		r.Post("/find", s.FindDocuments)
		r.Post("/find-one", s.FindOneDocument)
		r.Post("/count", s.CountDocuments)
		r.Post("/distinct", s.DistinctDocuments)
		r.Post("/update", s.UpdateDocuments)
		r.Post("/remove", s.RemoveDocuments)
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status:      string(report.Status),
		Checks:      checks,
		EntityTypes: report.EntityTypes,
		Version:     report.Version,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// --- entity-bound endpoints ---

// ListEntityTypes handles GET /entities.
func (s *Server) ListEntityTypes(w http.ResponseWriter, _ *http.Request) {
	types := s.schemas.EntityTypes()
	out := make([]schemaResponse, 0, len(types))
	for _, name := range types {
		if sc, ok := s.schemas.Lookup(name); ok {
			out = append(out, schemaToResponse(sc))
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// GetEntityType handles GET /entities/{type}.
func (s *Server) GetEntityType(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.schemaFor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, schemaToResponse(sc))
}

// InsertEntity handles POST /entities/{type}.
func (s *Server) InsertEntity(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.schemaFor(w, r)
	if !ok {
		return
	}
	var data map[string]any
	if !decode(w, r, &data) {
		return
	}

	e := domentity.New(sc, data)
	if err := s.entities.Insert(r.Context(), e); err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entityToResponse(e))
}

// GetEntity handles GET /entities/{type}/{id}.
func (s *Server) GetEntity(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.schemaFor(w, r)
	if !ok {
		return
	}
	id, ok := objectIDParam(w, r)
	if !ok {
		return
	}

	e, err := s.entities.FindOneOrNotFound(r.Context(), sc,
		domquery.Where{schema.IDField: id}, domquery.FindOneOptions{})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entityToResponse(e))
}

// UpdateEntity handles PUT /entities/{type}/{id}. The body replaces every field.
func (s *Server) UpdateEntity(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.schemaFor(w, r)
	if !ok {
		return
	}
	id, ok := objectIDParam(w, r)
	if !ok {
		return
	}
	var data map[string]any
	if !decode(w, r, &data) {
		return
	}

	e := domentity.New(sc, data)
	e.SetID(id)
	if err := s.entities.Update(r.Context(), e); err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entityToResponse(e))
}

// RemoveEntity handles DELETE /entities/{type}/{id}.
func (s *Server) RemoveEntity(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.schemaFor(w, r)
	if !ok {
		return
	}
	id, ok := objectIDParam(w, r)
	if !ok {
		return
	}

	e := domentity.New(sc, nil)
	e.SetID(id)
	n, err := s.entities.Remove(r.Context(), e)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deletedResponse{Deleted: n})
}

// FindEntities handles POST /entities/{type}/find.
func (s *Server) FindEntities(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.schemaFor(w, r)
	if !ok {
		return
	}
	var req findRequest
	if !decode(w, r, &req) {
		return
	}
	opts, err := req.findOptions()
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	list, err := s.entities.Find(r.Context(), sc, whereFromRequest(req.Where), opts)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entitiesToResponse(list))
}

// FindOneEntity handles POST /entities/{type}/find-one. Absence is a 404.
func (s *Server) FindOneEntity(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.schemaFor(w, r)
	if !ok {
		return
	}
	var req findRequest
	if !decode(w, r, &req) {
		return
	}
	opts, err := req.findOneOptions()
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	e, err := s.entities.FindOneOrNotFound(r.Context(), sc, whereFromRequest(req.Where), opts)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entityToResponse(e))
}

// CountEntities handles POST /entities/{type}/count.
func (s *Server) CountEntities(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.schemaFor(w, r)
	if !ok {
		return
	}
	var req whereRequest
	if !decode(w, r, &req) {
		return
	}

	n, err := s.entities.Count(r.Context(), sc, whereFromRequest(req.Where))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, countResponse{Count: n})
}

// DistinctEntities handles POST /entities/{type}/distinct.
func (s *Server) DistinctEntities(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.schemaFor(w, r)
	if !ok {
		return
	}
	var req distinctRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Field == "" {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "field is required")
		return
	}

	vals, err := s.entities.Distinct(r.Context(), sc, req.Field, whereFromRequest(req.Where))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, distinctResponse{Values: vals})
}

// UpdateAllEntities handles POST /entities/{type}/update-all.
func (s *Server) UpdateAllEntities(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.schemaFor(w, r)
	if !ok {
		return
	}
	var req updateRequest
	if !decode(w, r, &req) {
		return
	}
	u, err := req.update()
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	n, err := s.entities.UpdateAll(r.Context(), sc, u, whereFromRequest(req.Where))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, matchedResponse{Matched: n})
}

// RemoveAllEntities handles POST /entities/{type}/remove-all.
func (s *Server) RemoveAllEntities(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.schemaFor(w, r)
	if !ok {
		return
	}
	var req removeRequest
	if !decode(w, r, &req) {
		return
	}

	n, err := s.entities.RemoveAll(r.Context(), sc, whereFromRequest(req.Where), req.Force)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deletedResponse{Deleted: n})
}

// --- free-form collection endpoints ---

// InsertDocument handles POST /collections/{collection}.
func (s *Server) InsertDocument(w http.ResponseWriter, r *http.Request) {
	var doc db.Document
	if !decode(w, r, &doc) {
		return
	}
	id, err := s.queries.Insert(r.Context(), chi.URLParam(r, "collection"), doc)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, insertedResponse{ID: id})
}

// FindDocuments handles POST /collections/{collection}/find.
func (s *Server) FindDocuments(w http.ResponseWriter, r *http.Request) {
	var req findRequest
	if !decode(w, r, &req) {
		return
	}
	opts, err := req.findOptions()
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	docs, err := s.queries.Find(r.Context(), chi.URLParam(r, "collection"), whereFromRequest(req.Where), opts)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if docs == nil {
		docs = []db.Document{}
	}
	writeJSON(w, http.StatusOK, docs)
}

// FindOneDocument handles POST /collections/{collection}/find-one. Absence is a 404.
func (s *Server) FindOneDocument(w http.ResponseWriter, r *http.Request) {
	var req findRequest
	if !decode(w, r, &req) {
		return
	}
	opts, err := req.findOneOptions()
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	doc, err := s.queries.FindOneOrNotFound(r.Context(), chi.URLParam(r, "collection"),
		whereFromRequest(req.Where), opts)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// CountDocuments handles POST /collections/{collection}/count.
func (s *Server) CountDocuments(w http.ResponseWriter, r *http.Request) {
	var req whereRequest
	if !decode(w, r, &req) {
		return
	}
	n, err := s.queries.Count(r.Context(), chi.URLParam(r, "collection"), whereFromRequest(req.Where))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, countResponse{Count: n})
}

// DistinctDocuments handles POST /collections/{collection}/distinct.
func (s *Server) DistinctDocuments(w http.ResponseWriter, r *http.Request) {
	var req distinctRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Field == "" {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "field is required")
		return
	}
	vals, err := s.queries.Distinct(r.Context(), chi.URLParam(r, "collection"), req.Field,
		whereFromRequest(req.Where))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, distinctResponse{Values: vals})
}

// UpdateDocuments handles POST /collections/{collection}/update.
func (s *Server) UpdateDocuments(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if !decode(w, r, &req) {
		return
	}
	u, err := req.update()
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	n, err := s.queries.Update(r.Context(), chi.URLParam(r, "collection"), u, whereFromRequest(req.Where))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, matchedResponse{Matched: n})
}

// RemoveDocuments handles POST /collections/{collection}/remove.
func (s *Server) RemoveDocuments(w http.ResponseWriter, r *http.Request) {
	var req removeRequest
	if !decode(w, r, &req) {
		return
	}
	n, err := s.queries.Remove(r.Context(), chi.URLParam(r, "collection"), whereFromRequest(req.Where), req.Force)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deletedResponse{Deleted: n})
}

// --- helpers ---

func (s *Server) schemaFor(w http.ResponseWriter, r *http.Request) (*schema.Schema, bool) {
	name := chi.URLParam(r, "type")
	sc, ok := s.schemas.Lookup(name)
	if !ok {
		writeError(w, http.StatusNotFound, CodeUnknownEntityType, "unknown entity type "+name)
		return nil, false
	}
	return sc, true
}

func objectIDParam(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "id must be a 24-character hex ObjectID")
		return primitive.ObjectID{}, false
	}
	return id, true
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}
