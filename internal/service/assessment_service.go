package service

import (
	"errors"
	"time"

	"dspt_pro_backend/internal/model"
	"dspt_pro_backend/internal/scoring"
	"dspt_pro_backend/internal/util"
	"dspt_pro_backend/pkg/logger"
	"dspt_pro_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AssessmentStore is the persistence surface the assessment service
// needs. Injected as an interface so the scoring paths are testable
// without a live database.
type AssessmentStore interface {
	Create(a *model.Assessment) error
	FindByID(id uint) (*model.Assessment, error)
	ListByPractice(practiceID uint, page, limit int) ([]model.Assessment, int64, error)
	UpdateStatus(id uint, status model.AssessmentStatus) error
	ListResponses(assessmentID uint) ([]model.Response, error)
	FindResponse(assessmentID, questionID uint) (*model.Response, error)
	UpsertResponse(resp *model.Response) error
	UpdateResponseEvidenceFile(assessmentID, questionID uint, objectKey string) error
	ListSectionScores(assessmentID uint) ([]model.SectionScore, error)
	CompleteWithSnapshot(assessmentID uint, from model.AssessmentStatus, completedAt time.Time, result *scoring.Result) error
}

// TaxonomyProvider supplies the scoring engine's reference data.
type TaxonomyProvider interface {
	ScoringTaxonomy() (scoring.Taxonomy, error)
}

// AssessmentService owns the assessment lifecycle:
// DRAFT -> IN_PROGRESS (first saved response) -> COMPLETED (explicit
// complete). Completed assessments are frozen; recalculation re-runs the
// identical snapshot path and is the only write permitted after that.
type AssessmentService struct {
	Store    AssessmentStore
	Taxonomy TaxonomyProvider
}

func NewAssessmentService(store AssessmentStore, taxonomy TaxonomyProvider) *AssessmentService {
	return &AssessmentService{Store: store, Taxonomy: taxonomy}
}

type StartAssessmentRequest struct {
	Title string `json:"title" binding:"required"`
}

func (s *AssessmentService) Start(userID, practiceID uint, req StartAssessmentRequest) (*model.Assessment, error) {
	a := &model.Assessment{
		PracticeID: practiceID,
		UserID:     userID,
		Title:      req.Title,
		Status:     model.AssessmentDraft,
	}
	if err := s.Store.Create(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AssessmentService) List(practiceID uint, page, limit int) ([]model.Assessment, int64, error) {
	return s.Store.ListByPractice(practiceID, page, limit)
}

// Get loads an assessment and enforces tenant scoping: a user only sees
// assessments of their own practice, admins see all.
func (s *AssessmentService) Get(id, practiceID uint, isAdmin bool) (*model.Assessment, error) {
	a, err := s.Store.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAssessmentNotFound
		}
		return nil, err
	}
	if !isAdmin && a.PracticeID != practiceID {
		return nil, util.ErrPermissionDenied
	}
	return a, nil
}

type SaveResponseRequest struct {
	QuestionID uint   `json:"questionId" binding:"required"`
	Answer     string `json:"answer" binding:"required"`
	Evidence   string `json:"evidence"`
}

// SaveResponse upserts one answer. Rejected once the assessment is
// COMPLETED (responses are frozen by the snapshot) and for questions
// outside the taxonomy. A DRAFT assessment moves to IN_PROGRESS on its
// first saved response.
func (s *AssessmentService) SaveResponse(assessmentID, practiceID uint, isAdmin bool, req SaveResponseRequest) (*model.Response, error) {
	a, err := s.Get(assessmentID, practiceID, isAdmin)
	if err != nil {
		return nil, err
	}
	if a.Status == model.AssessmentCompleted {
		return nil, util.ErrAssessmentCompleted
	}

	tax, err := s.Taxonomy.ScoringTaxonomy()
	if err != nil {
		return nil, err
	}
	if !questionInTaxonomy(tax, req.QuestionID) {
		return nil, util.ErrQuestionNotFound
	}

	resp := &model.Response{
		AssessmentID: a.ID,
		QuestionID:   req.QuestionID,
		Answer:       req.Answer,
		Evidence:     req.Evidence,
	}
	if err := s.Store.UpsertResponse(resp); err != nil {
		return nil, err
	}

	if a.Status == model.AssessmentDraft {
		if err := s.Store.UpdateStatus(a.ID, model.AssessmentInProgress); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// Complete freezes the assessment: computes the full scoring result and
// persists the snapshot plus section rows atomically. Only valid from
// IN_PROGRESS; an untouched DRAFT has nothing to freeze.
func (s *AssessmentService) Complete(assessmentID, practiceID uint, isAdmin bool) (*scoring.Result, error) {
	a, err := s.Get(assessmentID, practiceID, isAdmin)
	if err != nil {
		return nil, err
	}
	switch a.Status {
	case model.AssessmentDraft:
		return nil, util.ErrAssessmentNotStarted
	case model.AssessmentCompleted:
		return nil, util.ErrAssessmentCompleted
	}
	return s.snapshot(a, model.AssessmentInProgress)
}

// Recalculate re-runs the completion snapshot on an already-completed
// assessment through the same code path as Complete. Idempotent: with
// unchanged data it writes an identical snapshot and the section row
// set is replaced, not appended to.
func (s *AssessmentService) Recalculate(assessmentID, practiceID uint, isAdmin bool) (*scoring.Result, error) {
	a, err := s.Get(assessmentID, practiceID, isAdmin)
	if err != nil {
		return nil, err
	}
	if a.Status != model.AssessmentCompleted {
		return nil, util.ErrAssessmentNotCompleted
	}
	return s.snapshot(a, model.AssessmentCompleted)
}

// snapshot is the single scoring write path shared by Complete and
// Recalculate: compute fully first, then hand the whole result to the
// store's transactional writer. from is the status the caller observed;
// the store re-checks it under its row lock before writing.
func (s *AssessmentService) snapshot(a *model.Assessment, from model.AssessmentStatus) (*scoring.Result, error) {
	tax, err := s.Taxonomy.ScoringTaxonomy()
	if err != nil {
		return nil, err
	}

	rows, err := s.Store.ListResponses(a.ID)
	if err != nil {
		return nil, err
	}

	// Raw answers only: the stored compliance flag is a cache and is
	// never fed back into scoring.
	responses := make([]scoring.QuestionResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, scoring.QuestionResponse{
			QuestionID: row.QuestionID,
			Answer:     row.Answer,
			Evidence:   row.Evidence,
		})
	}

	result, err := scoring.ComputeScores(tax, responses)
	if err != nil {
		return nil, err
	}

	completedAt := time.Now()
	if a.CompletedAt != nil {
		completedAt = *a.CompletedAt
	}
	if err := s.Store.CompleteWithSnapshot(a.ID, from, completedAt, result); err != nil {
		return nil, err
	}

	monitoring.AssessmentCompletions.WithLabelValues(string(result.PassStatus)).Inc()
	logger.Log.Info("assessment snapshot written",
		zap.Uint("assessmentId", a.ID),
		zap.Float64("overallScore", result.OverallScore),
		zap.String("passStatus", string(result.PassStatus)))

	return result, nil
}

type AssessmentResults struct {
	Assessment *model.Assessment `json:"assessment"`
	Result     *scoring.Result   `json:"result"`
}

// Results returns the stored snapshot, display-rounded. Strictly a read:
// nothing is recomputed here.
func (s *AssessmentService) Results(assessmentID, practiceID uint, isAdmin bool) (*AssessmentResults, error) {
	a, err := s.Get(assessmentID, practiceID, isAdmin)
	if err != nil {
		return nil, err
	}
	if a.Status != model.AssessmentCompleted {
		return nil, util.ErrAssessmentNotCompleted
	}

	rows, err := s.Store.ListSectionScores(a.ID)
	if err != nil {
		return nil, err
	}

	result := &scoring.Result{
		TotalQuestions:    a.TotalQuestions,
		AnsweredQuestions: a.AnsweredQuestions,
		PassedQuestions:   a.PassedQuestions,
		OverallScore:      a.OverallScore,
		PassStatus:        scoring.PassStatus(a.PassStatus),
		SectionScores:     make([]scoring.SectionScore, 0, len(rows)),
	}
	for _, row := range rows {
		result.SectionScores = append(result.SectionScores, scoring.SectionScore{
			SectionID:         row.SectionID,
			SectionTitle:      row.SectionTitle,
			TotalQuestions:    row.TotalQuestions,
			AnsweredQuestions: row.AnsweredQuestions,
			PassedQuestions:   row.PassedQuestions,
			Score:             row.Score,
		})
	}

	return &AssessmentResults{Assessment: a, Result: result.Rounded()}, nil
}

func (s *AssessmentService) ListResponses(assessmentID, practiceID uint, isAdmin bool) ([]model.Response, error) {
	if _, err := s.Get(assessmentID, practiceID, isAdmin); err != nil {
		return nil, err
	}
	return s.Store.ListResponses(assessmentID)
}

// CanAttachEvidence checks that the caller may attach an evidence file
// to (assessment, question): tenant ownership, not frozen, and a saved
// response to hang the file on. Callers must pass this check before
// writing anything to storage, so a rejected upload leaves no orphaned
// object behind.
func (s *AssessmentService) CanAttachEvidence(assessmentID, questionID, practiceID uint, isAdmin bool) error {
	a, err := s.Get(assessmentID, practiceID, isAdmin)
	if err != nil {
		return err
	}
	if a.Status == model.AssessmentCompleted {
		return util.ErrAssessmentCompleted
	}
	if _, err := s.Store.FindResponse(assessmentID, questionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrResponseNotFound
		}
		return err
	}
	return nil
}

// SetEvidenceFile records the object key of an uploaded evidence file on
// an existing response. Frozen once the assessment is completed.
func (s *AssessmentService) SetEvidenceFile(assessmentID, questionID, practiceID uint, isAdmin bool, objectKey string) error {
	if err := s.CanAttachEvidence(assessmentID, questionID, practiceID, isAdmin); err != nil {
		return err
	}
	return s.Store.UpdateResponseEvidenceFile(assessmentID, questionID, objectKey)
}

func questionInTaxonomy(tax scoring.Taxonomy, questionID uint) bool {
	for _, sec := range tax.Sections {
		for _, q := range sec.Questions {
			if q.ID == questionID {
				return true
			}
		}
	}
	return false
}
