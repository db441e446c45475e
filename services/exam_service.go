package services

import (
	"errors"

	"examportal/models"
	"examportal/parser"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

var (
	ErrExamNotFound = errors.New("exam not found")
	ErrNotExamOwner = errors.New("not authorized to manage this exam")
	ErrNotAssigned  = errors.New("you are not assigned to this exam")
)

type ExamService struct {
	db *gorm.DB
}

func NewExamService(db *gorm.DB) *ExamService {
	return &ExamService{db: db}
}

type CreateExamRequest struct {
	Title string `json:"title" binding:"required"`
	Skill string `json:"skill" binding:"required"`
}

type AddQuestionRequest struct {
	ExamID        uint     `json:"examId" binding:"required"`
	Question      string   `json:"question" binding:"required"`
	Options       []string `json:"options" binding:"required,len=4,dive,required"`
	CorrectAnswer *int     `json:"correctAnswer" binding:"required,min=0,max=3"`
}

type AssignExamRequest struct {
	ExamID  uint   `json:"examId" binding:"required"`
	UserIDs []uint `json:"userIds" binding:"required,min=1"`
}

// SafeQuestion is a question as shown to a candidate: the correct answer
// never leaves the server before evaluation.
type SafeQuestion struct {
	ID            uint     `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	QuestionIndex int      `json:"questionIndex"`
}

func (s *ExamService) CreateExam(adminID uint, req *CreateExamRequest) (*models.Exam, error) {
	exam := models.Exam{
		Title:     req.Title,
		Skill:     req.Skill,
		CreatedBy: adminID,
	}

	if err := s.db.Create(&exam).Error; err != nil {
		return nil, err
	}

	return &exam, nil
}

func (s *ExamService) GetAdminExams(adminID uint) ([]models.Exam, error) {
	var exams []models.Exam
	err := s.db.Where("created_by = ?", adminID).
		Preload("AssignedUsers").
		Order("created_at DESC").
		Find(&exams).Error
	return exams, err
}

// getOwnedExam loads an exam and distinguishes missing from not-owned.
func (s *ExamService) getOwnedExam(examID, adminID uint) (*models.Exam, error) {
	var exam models.Exam
	if err := s.db.First(&exam, examID).Error; err != nil {
		return nil, ErrExamNotFound
	}
	if exam.CreatedBy != adminID {
		return nil, ErrNotExamOwner
	}
	return &exam, nil
}

func (s *ExamService) GetExamDetail(examID, adminID uint) (*models.Exam, []models.Question, error) {
	exam, err := s.getOwnedExam(examID, adminID)
	if err != nil {
		return nil, nil, err
	}

	var questions []models.Question
	if err := s.db.Where("exam_id = ?", examID).
		Order("created_at ASC, id ASC").
		Find(&questions).Error; err != nil {
		return nil, nil, err
	}

	if err := s.db.Model(exam).Association("AssignedUsers").Find(&exam.AssignedUsers); err != nil {
		return nil, nil, err
	}

	return exam, questions, nil
}

// DeleteExam removes an exam together with its questions, responses and
// assignments in one transaction, so a partial failure leaves no orphans.
func (s *ExamService) DeleteExam(examID, adminID uint) error {
	exam, err := s.getOwnedExam(examID, adminID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("exam_id = ?", examID).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		if err := tx.Where("exam_id = ?", examID).Delete(&models.Response{}).Error; err != nil {
			return err
		}
		if err := tx.Model(exam).Association("AssignedUsers").Clear(); err != nil {
			return err
		}
		return tx.Delete(exam).Error
	})
}

func (s *ExamService) AddQuestion(adminID uint, req *AddQuestionRequest) (*models.Question, error) {
	if _, err := s.getOwnedExam(req.ExamID, adminID); err != nil {
		return nil, err
	}

	question := models.Question{
		ExamID:        req.ExamID,
		Text:          req.Question,
		Options:       pq.StringArray(req.Options),
		CorrectAnswer: *req.CorrectAnswer,
	}

	if err := s.db.Create(&question).Error; err != nil {
		return nil, err
	}

	return &question, nil
}

// AddParsedQuestions stores questions produced by the upload parser,
// preserving their order of appearance.
func (s *ExamService) AddParsedQuestions(examID, adminID uint, parsed []parser.ParsedQuestion) (int, error) {
	if _, err := s.getOwnedExam(examID, adminID); err != nil {
		return 0, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, p := range parsed {
			question := models.Question{
				ExamID:        examID,
				Text:          p.Text,
				Options:       pq.StringArray(p.Options),
				CorrectAnswer: p.CorrectAnswer,
			}
			if err := tx.Create(&question).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return len(parsed), nil
}

// AssignExam adds users to an exam's assignment set. The result is a
// de-duplicated union of the existing and requested user IDs.
func (s *ExamService) AssignExam(adminID uint, req *AssignExamRequest) (*models.Exam, error) {
	exam, err := s.getOwnedExam(req.ExamID, adminID)
	if err != nil {
		return nil, err
	}

	var users []models.User
	if err := s.db.Find(&users, req.UserIDs).Error; err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, errors.New("no matching users to assign")
	}

	// Association append skips users already assigned
	if err := s.db.Model(exam).Association("AssignedUsers").Append(&users); err != nil {
		return nil, err
	}

	if err := s.db.Model(exam).Association("AssignedUsers").Find(&exam.AssignedUsers); err != nil {
		return nil, err
	}

	return exam, nil
}

func (s *ExamService) GetAssignedExams(userID uint) ([]models.Exam, error) {
	var exams []models.Exam
	err := s.db.
		Joins("JOIN exam_assignments ON exam_assignments.exam_id = exams.id").
		Where("exam_assignments.user_id = ?", userID).
		Preload("Creator").
		Order("exams.created_at DESC").
		Find(&exams).Error
	return exams, err
}

func (s *ExamService) isAssigned(examID, userID uint) (bool, error) {
	var count int64
	err := s.db.Table("exam_assignments").
		Where("exam_id = ? AND user_id = ?", examID, userID).
		Count(&count).Error
	return count > 0, err
}

// GetExamForAttempt returns an exam and its questions for a candidate,
// stripped of the correct answers.
func (s *ExamService) GetExamForAttempt(examID, userID uint) (*models.Exam, []SafeQuestion, error) {
	var exam models.Exam
	if err := s.db.Preload("Creator").First(&exam, examID).Error; err != nil {
		return nil, nil, ErrExamNotFound
	}

	assigned, err := s.isAssigned(examID, userID)
	if err != nil {
		return nil, nil, err
	}
	if !assigned {
		return nil, nil, ErrNotAssigned
	}

	var questions []models.Question
	if err := s.db.Where("exam_id = ?", examID).
		Order("created_at ASC, id ASC").
		Find(&questions).Error; err != nil {
		return nil, nil, err
	}

	safe := make([]SafeQuestion, len(questions))
	for i, q := range questions {
		safe[i] = SafeQuestion{
			ID:            q.ID,
			Question:      q.Text,
			Options:       q.Options,
			QuestionIndex: i,
		}
	}

	return &exam, safe, nil
}
