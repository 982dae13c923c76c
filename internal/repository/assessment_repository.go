package repository

import (
	"time"

	"dspt_pro_backend/internal/model"
	"dspt_pro_backend/internal/scoring"
	"dspt_pro_backend/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AssessmentRepository struct {
	DB *gorm.DB
}

func NewAssessmentRepository(db *gorm.DB) *AssessmentRepository {
	return &AssessmentRepository{DB: db}
}

func (r *AssessmentRepository) Create(a *model.Assessment) error {
	return r.DB.Create(a).Error
}

func (r *AssessmentRepository) FindByID(id uint) (*model.Assessment, error) {
	var a model.Assessment
	err := r.DB.First(&a, id).Error
	return &a, err
}

func (r *AssessmentRepository) ListByPractice(practiceID uint, page, limit int) ([]model.Assessment, int64, error) {
	var as []model.Assessment
	var total int64
	query := r.DB.Model(&model.Assessment{}).Where("practice_id = ?", practiceID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&as).Error
	return as, total, err
}

func (r *AssessmentRepository) UpdateStatus(id uint, status model.AssessmentStatus) error {
	return r.DB.Model(&model.Assessment{}).Where("id = ?", id).Update("status", status).Error
}

func (r *AssessmentRepository) ListResponses(assessmentID uint) ([]model.Response, error) {
	var rs []model.Response
	err := r.DB.Where("assessment_id = ?", assessmentID).Order("question_id asc").Find(&rs).Error
	return rs, err
}

func (r *AssessmentRepository) FindResponse(assessmentID, questionID uint) (*model.Response, error) {
	var resp model.Response
	err := r.DB.Where("assessment_id = ? AND question_id = ?", assessmentID, questionID).First(&resp).Error
	return &resp, err
}

// UpsertResponse writes one answer. The compliance flag is re-derived
// from the raw answer here, at the write site, so a stale stored flag
// can never survive a write.
func (r *AssessmentRepository) UpsertResponse(resp *model.Response) error {
	resp.IsCompliant = scoring.IsCompliant(resp.Answer)
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "assessment_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"answer", "is_compliant", "evidence", "updated_at"}),
	}).Create(resp).Error
}

func (r *AssessmentRepository) UpdateResponseEvidenceFile(assessmentID, questionID uint, objectKey string) error {
	return r.DB.Model(&model.Response{}).
		Where("assessment_id = ? AND question_id = ?", assessmentID, questionID).
		Update("evidence_file", objectKey).Error
}

func (r *AssessmentRepository) ListSectionScores(assessmentID uint) ([]model.SectionScore, error) {
	var ss []model.SectionScore
	err := r.DB.Where("assessment_id = ?", assessmentID).Order("section_id asc").Find(&ss).Error
	return ss, err
}

// CompleteWithSnapshot freezes a scoring result onto the assessment in
// one transaction: snapshot fields on the assessment row plus a full
// replacement of its SectionScore rows (delete all, then insert all,
// never merged or patched). The SELECT ... FOR UPDATE on the assessment
// row serializes concurrent complete/recalculate calls, and the status
// is re-checked under that lock so a caller holding a stale read cannot
// write a second snapshot over a fresh one.
func (r *AssessmentRepository) CompleteWithSnapshot(assessmentID uint, from model.AssessmentStatus, completedAt time.Time, result *scoring.Result) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var a model.Assessment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&a, assessmentID).Error; err != nil {
			return err
		}
		if a.Status != from {
			switch a.Status {
			case model.AssessmentCompleted:
				return util.ErrAssessmentCompleted
			case model.AssessmentDraft:
				return util.ErrAssessmentNotStarted
			default:
				return util.ErrAssessmentNotCompleted
			}
		}

		updates := map[string]interface{}{
			"status":             model.AssessmentCompleted,
			"total_questions":    result.TotalQuestions,
			"answered_questions": result.AnsweredQuestions,
			"passed_questions":   result.PassedQuestions,
			"overall_score":      result.OverallScore,
			"pass_status":        string(result.PassStatus),
			"completed_at":       completedAt,
		}
		if err := tx.Model(&model.Assessment{}).Where("id = ?", assessmentID).Updates(updates).Error; err != nil {
			return err
		}

		if err := tx.Unscoped().Where("assessment_id = ?", assessmentID).Delete(&model.SectionScore{}).Error; err != nil {
			return err
		}
		for _, ss := range result.SectionScores {
			row := model.SectionScore{
				AssessmentID:      assessmentID,
				SectionID:         ss.SectionID,
				SectionTitle:      ss.SectionTitle,
				TotalQuestions:    ss.TotalQuestions,
				AnsweredQuestions: ss.AnsweredQuestions,
				PassedQuestions:   ss.PassedQuestions,
				Score:             ss.Score,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
