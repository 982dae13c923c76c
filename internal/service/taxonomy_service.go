package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"dspt_pro_backend/internal/model"
	"dspt_pro_backend/internal/scoring"
	"dspt_pro_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	taxonomyCacheKey = "dspt:taxonomy:v1"
	taxonomyCacheTTL = 10 * time.Minute
)

// TaxonomyStore is the persistence surface the taxonomy service needs.
type TaxonomyStore interface {
	ListSections() ([]model.Section, error)
	FindQuestionByID(id uint) (*model.Question, error)
	UpsertSection(s *model.Section) error
	UpsertQuestion(q *model.Question) error
	DeleteQuestion(id uint) error
}

// TaxonomyService serves the DSPT question catalogue. Reads go through a
// short-lived Redis cache: the taxonomy is immutable during a running
// assessment, so staleness is bounded by admin edits, which invalidate.
type TaxonomyService struct {
	Store TaxonomyStore
	Redis *redis.Client
}

func NewTaxonomyService(store TaxonomyStore, rdb *redis.Client) *TaxonomyService {
	return &TaxonomyService{Store: store, Redis: rdb}
}

func (s *TaxonomyService) ListSections() ([]model.Section, error) {
	ctx := context.Background()

	if s.Redis != nil {
		cached, err := s.Redis.Get(ctx, taxonomyCacheKey).Bytes()
		if err == nil {
			var sections []model.Section
			if err := json.Unmarshal(cached, &sections); err == nil {
				return sections, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			logger.Log.Warn("taxonomy cache read failed", zap.Error(err))
		}
	}

	sections, err := s.Store.ListSections()
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if payload, err := json.Marshal(sections); err == nil {
			if err := s.Redis.Set(ctx, taxonomyCacheKey, payload, taxonomyCacheTTL).Err(); err != nil {
				logger.Log.Warn("taxonomy cache write failed", zap.Error(err))
			}
		}
	}

	return sections, nil
}

// ScoringTaxonomy converts the stored catalogue into the scoring
// engine's input shape.
func (s *TaxonomyService) ScoringTaxonomy() (scoring.Taxonomy, error) {
	sections, err := s.ListSections()
	if err != nil {
		return scoring.Taxonomy{}, err
	}

	tax := scoring.Taxonomy{Sections: make([]scoring.Section, 0, len(sections))}
	for _, sec := range sections {
		out := scoring.Section{ID: sec.ID, Title: sec.Title, Questions: make([]scoring.Question, 0, len(sec.Questions))}
		for _, q := range sec.Questions {
			out.Questions = append(out.Questions, scoring.Question{ID: q.ID, SectionID: q.SectionID, Weight: q.Weight})
		}
		tax.Sections = append(tax.Sections, out)
	}
	return tax, nil
}

type SectionRequest struct {
	Number      int    `json:"number" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

func (s *TaxonomyService) UpsertSection(req SectionRequest) (*model.Section, error) {
	sec := &model.Section{
		Number:      req.Number,
		Title:       req.Title,
		Description: req.Description,
	}
	if err := s.Store.UpsertSection(sec); err != nil {
		return nil, err
	}
	s.invalidate()
	return sec, nil
}

type QuestionRequest struct {
	SectionID uint   `json:"sectionId" binding:"required"`
	Code      string `json:"code" binding:"required"`
	Text      string `json:"text" binding:"required"`
	Guidance  string `json:"guidance"`
	Weight    int    `json:"weight"`
	Order     int    `json:"order"`
	Mandatory bool   `json:"mandatory"`
}

func (s *TaxonomyService) UpsertQuestion(req QuestionRequest) (*model.Question, error) {
	if req.Weight == 0 {
		req.Weight = 1
	}
	q := &model.Question{
		SectionID: req.SectionID,
		Code:      req.Code,
		Text:      req.Text,
		Guidance:  req.Guidance,
		Weight:    req.Weight,
		Order:     req.Order,
		Mandatory: req.Mandatory,
	}
	if err := s.Store.UpsertQuestion(q); err != nil {
		return nil, err
	}
	s.invalidate()
	return q, nil
}

func (s *TaxonomyService) DeleteQuestion(id uint) error {
	if err := s.Store.DeleteQuestion(id); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *TaxonomyService) invalidate() {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(context.Background(), taxonomyCacheKey).Err(); err != nil {
		logger.Log.Warn("taxonomy cache invalidation failed", zap.Error(err))
	}
}
