package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/ragdash-backend/internal/data/repos"
	types "github.com/yungbote/ragdash-backend/internal/domain"
	"github.com/yungbote/ragdash-backend/internal/observability"
	"github.com/yungbote/ragdash-backend/internal/platform/dbctx"
	"github.com/yungbote/ragdash-backend/internal/platform/events"
	"github.com/yungbote/ragdash-backend/internal/platform/logger"
	"github.com/yungbote/ragdash-backend/internal/platform/objectstore"
	"github.com/yungbote/ragdash-backend/internal/platform/ragserver"
)

const (
	MsgUnsupportedFileType   = "Unsupported file type. Only CSV and Excel files are supported."
	MsgProcessingUnavailable = "Processing service unavailable. Processing pending."
	MsgProcessingRejected    = "Failed to start processing"
)

// FileTypeForName maps an upload filename to its source file type.
func FileTypeForName(name string) (string, bool) {
	switch strings.ToLower(path.Ext(strings.TrimSpace(name))) {
	case ".csv":
		return types.FileTypeCSV, true
	case ".xlsx", ".xls":
		return types.FileTypeExcel, true
	default:
		return "", false
	}
}

type UploadInput struct {
	ServiceID uuid.UUID
	Filename  string
	Size      int64
	Body      io.Reader
}

// StatusUpdate is the ingestion service's report for one source.
type StatusUpdate struct {
	Status       string
	ErrorMessage *string
	Metadata     map[string]any
}

type IngestionService interface {
	// Upload stores the file, records a pending source and asks the
	// processing service to ingest it. The returned source is the row as
	// created; a failed ingestion request never fails the upload.
	Upload(dbc dbctx.Context, in UploadInput) (*types.Source, error)
	// Reprocess clears a pending or failed source and requests ingestion again.
	Reprocess(dbc dbctx.Context, serviceID, sourceID uuid.UUID) (*types.Source, error)
	// ApplyStatus records a status reported by the processing service.
	ApplyStatus(dbc dbctx.Context, sourceID uuid.UUID, in StatusUpdate) (*types.Source, error)
	// SyncStatus polls the processing service and applies what it reports.
	SyncStatus(dbc dbctx.Context, serviceID, sourceID uuid.UUID) (*types.Source, error)
}

type IngestionConfig struct {
	MaxUploadBytes int64
}

type ingestionService struct {
	db        *gorm.DB
	log       *logger.Logger
	cfg       IngestionConfig
	store     objectstore.Store
	rag       ragserver.Client
	publisher events.Publisher
	services  repos.ServiceRepo
	sources   repos.SourceRepo
	chunks    repos.ChunkRepo
}

type IngestionServiceDeps struct {
	DB        *gorm.DB
	Log       *logger.Logger
	Config    IngestionConfig
	Store     objectstore.Store
	RAG       ragserver.Client
	Publisher events.Publisher
	Services  repos.ServiceRepo
	Sources   repos.SourceRepo
	Chunks    repos.ChunkRepo
}

func NewIngestionService(deps IngestionServiceDeps) IngestionService {
	pub := deps.Publisher
	if pub == nil {
		pub = events.Noop()
	}
	return &ingestionService{
		db:        deps.DB,
		log:       deps.Log.With("service", "IngestionService"),
		cfg:       deps.Config,
		store:     deps.Store,
		rag:       deps.RAG,
		publisher: pub,
		services:  deps.Services,
		sources:   deps.Sources,
		chunks:    deps.Chunks,
	}
}

func (s *ingestionService) Upload(dbc dbctx.Context, in UploadInput) (*types.Source, error) {
	if in.Body == nil {
		return nil, invalid("file_required", "No file provided")
	}
	if in.ServiceID == uuid.Nil {
		return nil, invalid("service_id_required", "Service ID is required")
	}
	name := cleanFilename(in.Filename)
	if name == "" {
		return nil, invalid("file_required", "No file provided")
	}
	fileType, ok := FileTypeForName(name)
	if !ok {
		observability.Current().ObserveUpload("unsupported", "rejected")
		return nil, invalid("unsupported_file_type", MsgUnsupportedFileType)
	}
	if s.cfg.MaxUploadBytes > 0 && in.Size > s.cfg.MaxUploadBytes {
		observability.Current().ObserveUpload(fileType, "rejected")
		return nil, invalid("file_too_large", fmt.Sprintf("File exceeds the %d MB upload limit", s.cfg.MaxUploadBytes>>20))
	}

	svc, err := s.services.GetByID(dbc, in.ServiceID)
	if err != nil {
		return nil, fromRepo("get service", err, "service_not_found", msgServiceNotFound)
	}

	sourceID := uuid.New()
	key := fmt.Sprintf("%s/%s/%s", svc.ID, sourceID, name)
	if err := s.store.Put(dbc.Ctx, key, in.Body, in.Size, objectstore.ContentTypeForKey(name)); err != nil {
		observability.Current().ObserveUpload(fileType, "storage_failed")
		return nil, internal("upload source file", err)
	}

	meta, _ := json.Marshal(map[string]any{"file_size": in.Size})
	src := &types.Source{
		ID:        sourceID,
		ServiceID: svc.ID,
		Name:      name,
		FileType:  fileType,
		FilePath:  key,
		FileSize:  in.Size,
		Status:    types.SourceStatusPending,
		Metadata:  datatypes.JSON(meta),
	}
	if err := s.sources.Create(dbc, src); err != nil {
		if derr := s.store.Delete(dbc.Ctx, key); derr != nil {
			s.log.Error("orphaned blob cleanup failed", "service_id", svc.ID, "source_id", sourceID, "file_path", key, "error", derr)
		}
		observability.Current().ObserveUpload(fileType, "record_failed")
		return nil, internal("create source", err)
	}
	observability.Current().ObserveUpload(fileType, "stored")
	observability.Current().IncSourceStatus(types.SourceStatusPending)
	s.log.Info("source uploaded", "service_id", svc.ID, "source_id", sourceID, "file_type", fileType, "file_size", in.Size)
	publish(dbc.Ctx, s.log, s.publisher, events.Event{
		Type:      events.SourceCreated,
		ServiceID: svc.ID.String(),
		SourceID:  sourceID.String(),
		Status:    types.SourceStatusPending,
	})

	created := *src
	s.requestIngestion(dbc, svc, src)
	return &created, nil
}

func (s *ingestionService) Reprocess(dbc dbctx.Context, serviceID, sourceID uuid.UUID) (*types.Source, error) {
	svc, err := s.services.GetByID(dbc, serviceID)
	if err != nil {
		return nil, fromRepo("get service", err, "service_not_found", msgServiceNotFound)
	}
	src, err := s.sources.GetByID(dbc, serviceID, sourceID)
	if err != nil {
		return nil, fromRepo("get source", err, "source_not_found", msgSourceNotFound)
	}
	if src.Status != types.SourceStatusPending && src.Status != types.SourceStatusFailed {
		return nil, invalid("source_not_retryable", "Only pending or failed sources can be reprocessed")
	}

	err = inTx(s.db, dbc, func(inner dbctx.Context) error {
		if _, e := s.chunks.DeleteBySource(inner, sourceID); e != nil {
			return e
		}
		return s.sources.UpdateFields(inner, sourceID, map[string]interface{}{
			"status":        types.SourceStatusPending,
			"error_message": nil,
		})
	})
	if err != nil {
		return nil, fromRepo("reset source", err, "source_not_found", msgSourceNotFound)
	}
	src.Status = types.SourceStatusPending
	src.ErrorMessage = nil

	s.requestIngestion(dbc, svc, src)

	out, err := s.sources.GetByID(dbc, serviceID, sourceID)
	if err != nil {
		return nil, fromRepo("get source", err, "source_not_found", msgSourceNotFound)
	}
	return out, nil
}

// requestIngestion sends the process request and records a delivery
// failure on the source row. It never returns an error.
func (s *ingestionService) requestIngestion(dbc dbctx.Context, svc *types.Service, src *types.Source) {
	_, err := s.rag.Process(dbc.Ctx, ragserver.ProcessRequest{
		SourceID:     src.ID.String(),
		ServiceID:    src.ServiceID.String(),
		FilePath:     src.FilePath,
		FileType:     src.FileType,
		ChunkSize:    svc.ChunkSize,
		ChunkOverlap: svc.ChunkOverlap,
	})
	if err == nil {
		s.log.Info("ingestion requested", "service_id", src.ServiceID, "source_id", src.ID)
		return
	}

	status := types.SourceStatusFailed
	msg := MsgProcessingRejected
	if ragserver.IsUnavailable(err) {
		status = types.SourceStatusPending
		msg = MsgProcessingUnavailable
	} else if se, ok := ragserver.AsStatusError(err); ok {
		if d := strings.TrimSpace(se.Detail()); d != "" {
			msg = d
		}
	}
	s.log.Warn("ingestion request failed", "service_id", src.ServiceID, "source_id", src.ID, "status", status, "error", err)

	if uerr := s.sources.UpdateFields(dbc, src.ID, map[string]interface{}{
		"status":        status,
		"error_message": msg,
	}); uerr != nil {
		s.log.Error("recording ingestion failure failed", "source_id", src.ID, "error", uerr)
		return
	}
	src.Status = status
	src.ErrorMessage = &msg
	observability.Current().IncSourceStatus(status)
	publish(dbc.Ctx, s.log, s.publisher, events.Event{
		Type:      events.SourceIngestionFailed,
		ServiceID: src.ServiceID.String(),
		SourceID:  src.ID.String(),
		Status:    status,
		Message:   msg,
	})
}

func (s *ingestionService) ApplyStatus(dbc dbctx.Context, sourceID uuid.UUID, in StatusUpdate) (*types.Source, error) {
	status := strings.ToLower(strings.TrimSpace(in.Status))
	if !types.IsValidSourceStatus(status) {
		return nil, invalid("invalid_status", "status must be one of pending, processing, completed, failed")
	}
	src, err := s.sources.GetByIDAnyService(dbc, sourceID)
	if err != nil {
		return nil, fromRepo("get source", err, "source_not_found", msgSourceNotFound)
	}

	updates := map[string]interface{}{"status": status}
	switch {
	case in.ErrorMessage != nil:
		updates["error_message"] = nilIfEmpty(in.ErrorMessage)
	case status == types.SourceStatusCompleted || status == types.SourceStatusProcessing:
		updates["error_message"] = nil
	}
	if len(in.Metadata) > 0 {
		merged, err := mergeMetadata(src.Metadata, in.Metadata)
		if err != nil {
			return nil, invalid("invalid_metadata", "metadata must be a JSON object")
		}
		updates["metadata"] = merged
	}
	if err := s.sources.UpdateFields(dbc, sourceID, updates); err != nil {
		return nil, fromRepo("update source status", err, "source_not_found", msgSourceNotFound)
	}

	out, err := s.sources.GetByIDAnyService(dbc, sourceID)
	if err != nil {
		return nil, fromRepo("get source", err, "source_not_found", msgSourceNotFound)
	}
	if src.Status != out.Status {
		observability.Current().IncSourceStatus(out.Status)
		msg := ""
		if out.ErrorMessage != nil {
			msg = *out.ErrorMessage
		}
		publish(dbc.Ctx, s.log, s.publisher, events.Event{
			Type:      events.SourceStatusChanged,
			ServiceID: out.ServiceID.String(),
			SourceID:  out.ID.String(),
			Status:    out.Status,
			Message:   msg,
		})
	}
	s.log.Info("source status applied", "service_id", out.ServiceID, "source_id", out.ID, "from", src.Status, "to", out.Status)
	return out, nil
}

func (s *ingestionService) SyncStatus(dbc dbctx.Context, serviceID, sourceID uuid.UUID) (*types.Source, error) {
	src, err := s.sources.GetByID(dbc, serviceID, sourceID)
	if err != nil {
		return nil, fromRepo("get source", err, "source_not_found", msgSourceNotFound)
	}
	st, err := s.rag.ProcessStatus(dbc.Ctx, sourceID.String())
	if err != nil {
		if ragserver.IsUnavailable(err) {
			return nil, unavailable("processing_unavailable", "Processing service is not available",
				"Ensure the RAG server is running and reachable at the configured processing URL")
		}
		if se, ok := ragserver.AsStatusError(err); ok {
			if se.StatusCode == http.StatusNotFound {
				return src, nil
			}
			return nil, collaboratorFailed(se.StatusCode, "processing_status_failed", "Failed to get status from processing server")
		}
		return nil, collaboratorFailed(http.StatusBadGateway, "processing_status_failed", "Failed to get status from processing server")
	}

	status := strings.ToLower(strings.TrimSpace(st.Status))
	if !types.IsValidSourceStatus(status) {
		return src, nil
	}
	upd := StatusUpdate{Status: status, ErrorMessage: st.ErrorMessage}
	if st.ChunksCreated > 0 {
		upd.Metadata = map[string]any{"chunks_created": st.ChunksCreated}
	}
	return s.ApplyStatus(dbc, sourceID, upd)
}

func mergeMetadata(current datatypes.JSON, patch map[string]any) (datatypes.JSON, error) {
	base := map[string]any{}
	if len(current) > 0 {
		if err := json.Unmarshal(current, &base); err != nil {
			return nil, err
		}
	}
	if base == nil {
		base = map[string]any{}
	}
	for k, v := range patch {
		base[k] = v
	}
	raw, err := json.Marshal(base)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func cleanFilename(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if name == "." || name == ".." {
		return ""
	}
	return name
}
