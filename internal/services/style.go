package services

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/ragdash-backend/internal/data/repos"
	types "github.com/yungbote/ragdash-backend/internal/domain"
	"github.com/yungbote/ragdash-backend/internal/platform/dbctx"
	"github.com/yungbote/ragdash-backend/internal/platform/logger"
)

type CreateStyleInput struct {
	Name        string
	Description *string
	Tone        *string
	Guidelines  *string
	IsDefault   bool
}

// UpdateStyleInput holds the fields present in a PUT body. Nil means absent.
type UpdateStyleInput struct {
	ID          uuid.UUID
	Name        *string
	Description *string
	Tone        *string
	Guidelines  *string
	IsDefault   *bool
}

// StyleService keeps exactly one default style per service once any style
// exists. Every multi-step change runs in one transaction.
type StyleService interface {
	List(dbc dbctx.Context, serviceID uuid.UUID) ([]*types.WritingStyle, error)
	Create(dbc dbctx.Context, serviceID uuid.UUID, in CreateStyleInput) (*types.WritingStyle, error)
	Update(dbc dbctx.Context, serviceID uuid.UUID, in UpdateStyleInput) (*types.WritingStyle, error)
	Delete(dbc dbctx.Context, serviceID, styleID uuid.UUID) error
}

type styleService struct {
	db       *gorm.DB
	log      *logger.Logger
	services repos.ServiceRepo
	styles   repos.WritingStyleRepo
}

func NewStyleService(db *gorm.DB, baseLog *logger.Logger, services repos.ServiceRepo, styles repos.WritingStyleRepo) StyleService {
	return &styleService{
		db:       db,
		log:      baseLog.With("service", "StyleService"),
		services: services,
		styles:   styles,
	}
}

func (s *styleService) List(dbc dbctx.Context, serviceID uuid.UUID) ([]*types.WritingStyle, error) {
	rows, err := s.styles.ListByService(dbc, serviceID)
	if err != nil {
		return nil, internal("list writing styles", err)
	}
	return rows, nil
}

func (s *styleService) Create(dbc dbctx.Context, serviceID uuid.UUID, in CreateStyleInput) (*types.WritingStyle, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name_required", "Name is required")
	}
	ok, err := s.services.Exists(dbc, serviceID)
	if err != nil {
		return nil, internal("check service", err)
	}
	if !ok {
		return nil, notFound("service_not_found", msgServiceNotFound)
	}

	style := &types.WritingStyle{
		ServiceID:   serviceID,
		Name:        name,
		Description: nilIfEmpty(in.Description),
		Tone:        nilIfEmpty(in.Tone),
		Guidelines:  nilIfEmpty(in.Guidelines),
	}
	err = inTx(s.db, dbc, func(inner dbctx.Context) error {
		n, e := s.styles.CountByService(inner, serviceID)
		if e != nil {
			return e
		}
		style.IsDefault = n == 0 || in.IsDefault
		if e := s.styles.Create(inner, style); e != nil {
			return e
		}
		if style.IsDefault && n > 0 {
			return s.styles.UnsetDefaults(inner, serviceID, style.ID)
		}
		return nil
	})
	if err != nil {
		return nil, internal("create writing style", err)
	}
	s.log.Info("writing style created", "service_id", serviceID, "style_id", style.ID, "is_default", style.IsDefault)
	return style, nil
}

func (s *styleService) Update(dbc dbctx.Context, serviceID uuid.UUID, in UpdateStyleInput) (*types.WritingStyle, error) {
	if in.ID == uuid.Nil {
		return nil, invalid("style_id_required", "Style ID is required")
	}
	updates := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, invalid("name_required", "Name is required")
		}
		updates["name"] = name
	}
	if in.Description != nil {
		updates["description"] = nilIfEmpty(in.Description)
	}
	if in.Tone != nil {
		updates["tone"] = nilIfEmpty(in.Tone)
	}
	if in.Guidelines != nil {
		updates["guidelines"] = nilIfEmpty(in.Guidelines)
	}

	var out *types.WritingStyle
	err := inTx(s.db, dbc, func(inner dbctx.Context) error {
		current, e := s.styles.GetByID(inner, serviceID, in.ID)
		if e != nil {
			return e
		}
		if in.IsDefault != nil {
			switch {
			case *in.IsDefault && !current.IsDefault:
				if e := s.styles.UnsetDefaults(inner, serviceID, current.ID); e != nil {
					return e
				}
				updates["is_default"] = true
			case !*in.IsDefault && current.IsDefault:
				return invalid("default_required", "Cannot unset the default style. Set another style as default instead.")
			}
		}
		if e := s.styles.UpdateFields(inner, serviceID, current.ID, updates); e != nil {
			return e
		}
		out, e = s.styles.GetByID(inner, serviceID, current.ID)
		return e
	})
	if err != nil {
		return nil, fromRepo("update writing style", err, "style_not_found", msgStyleNotFound)
	}
	s.log.Info("writing style updated", "service_id", serviceID, "style_id", out.ID, "is_default", out.IsDefault)
	return out, nil
}

func (s *styleService) Delete(dbc dbctx.Context, serviceID, styleID uuid.UUID) error {
	if styleID == uuid.Nil {
		return invalid("style_id_required", "Style ID is required")
	}
	var promoted *types.WritingStyle
	err := inTx(s.db, dbc, func(inner dbctx.Context) error {
		current, e := s.styles.GetByID(inner, serviceID, styleID)
		if e != nil {
			return e
		}
		if e := s.styles.Delete(inner, serviceID, styleID); e != nil {
			return e
		}
		if !current.IsDefault {
			return nil
		}
		next, e := s.styles.Earliest(inner, serviceID)
		if e != nil || next == nil {
			return e
		}
		promoted = next
		return s.styles.UpdateFields(inner, serviceID, next.ID, map[string]interface{}{"is_default": true})
	})
	if err != nil {
		return fromRepo("delete writing style", err, "style_not_found", msgStyleNotFound)
	}
	if promoted != nil {
		s.log.Info("default writing style promoted", "service_id", serviceID, "deleted_style_id", styleID, "style_id", promoted.ID)
	}
	return nil
}
