package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"examportal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrAlreadySubmitted = errors.New("you have already submitted this exam")
	ErrResponseNotFound = errors.New("response not found")
	ErrNoSubmission     = errors.New("no submission found for this exam")
)

type ResponseService struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewResponseService(db *gorm.DB, redis *redis.Client) *ResponseService {
	return &ResponseService{
		db:    db,
		redis: redis,
	}
}

type SubmitRequest struct {
	ExamID  uint            `json:"examId" binding:"required"`
	Answers []models.Answer `json:"answers" binding:"required"`
}

type EvaluateRequest struct {
	ResponseID uint `json:"responseId" binding:"required"`
}

// MonitorState is the per-exam snapshot cached in Redis for the live
// submission monitor.
type MonitorState struct {
	ExamID         uint   `json:"exam_id"`
	Title          string `json:"title"`
	AssignedCount  int    `json:"assigned_count"`
	SubmittedCount int    `json:"submitted_count"`
	EvaluatedCount int    `json:"evaluated_count"`
}

// ScoreAnswers compares submitted answers against an exam's questions.
// Later entries for the same question index overwrite earlier ones; a
// question with no submitted answer counts as wrong. Total marks is the
// question count.
func ScoreAnswers(questions []models.Question, answers []models.Answer) (score, totalMarks int) {
	selected := make(map[int]int)
	for _, a := range answers {
		selected[a.QuestionIndex] = a.SelectedOption
	}

	totalMarks = len(questions)
	for i, q := range questions {
		if option, ok := selected[i]; ok && option == q.CorrectAnswer {
			score++
		}
	}
	return score, totalMarks
}

// Submit records a candidate's answers for an assigned exam. At most one
// response may exist per (user, exam) pair; the second attempt fails
// without touching the first.
func (s *ResponseService) Submit(userID uint, req *SubmitRequest) (*models.Response, error) {
	var exam models.Exam
	if err := s.db.First(&exam, req.ExamID).Error; err != nil {
		return nil, ErrExamNotFound
	}

	var count int64
	if err := s.db.Table("exam_assignments").
		Where("exam_id = ? AND user_id = ?", req.ExamID, userID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNotAssigned
	}

	var existing models.Response
	if err := s.db.Where("user_id = ? AND exam_id = ?", userID, req.ExamID).
		First(&existing).Error; err == nil {
		return nil, ErrAlreadySubmitted
	}

	answersJSON, err := json.Marshal(req.Answers)
	if err != nil {
		return nil, err
	}

	response := models.Response{
		UserID:  userID,
		ExamID:  req.ExamID,
		Answers: datatypes.JSON(answersJSON),
	}

	if err := s.db.Create(&response).Error; err != nil {
		// the unique index on (user_id, exam_id) is the real guard
		return nil, ErrAlreadySubmitted
	}

	s.refreshMonitorState(req.ExamID)
	return &response, nil
}

// ListResponses returns responses with user and exam joined, newest
// first, optionally filtered by exam.
func (s *ResponseService) ListResponses(examID uint) ([]models.Response, error) {
	query := s.db.Preload("User").Preload("Exam").Order("created_at DESC")
	if examID != 0 {
		query = query.Where("exam_id = ?", examID)
	}

	var responses []models.Response
	err := query.Find(&responses).Error
	return responses, err
}

// Evaluate computes and persists a response's score. Questions are read
// in insertion order, matching the indices the candidate answered
// against.
func (s *ResponseService) Evaluate(responseID uint) (*models.Response, error) {
	var response models.Response
	if err := s.db.Preload("User").Preload("Exam").First(&response, responseID).Error; err != nil {
		return nil, ErrResponseNotFound
	}

	var questions []models.Question
	if err := s.db.Where("exam_id = ?", response.ExamID).
		Order("created_at ASC, id ASC").
		Find(&questions).Error; err != nil {
		return nil, err
	}

	var answers []models.Answer
	if len(response.Answers) > 0 {
		if err := json.Unmarshal(response.Answers, &answers); err != nil {
			return nil, fmt.Errorf("failed to decode stored answers: %w", err)
		}
	}

	score, totalMarks := ScoreAnswers(questions, answers)
	now := time.Now()

	response.Score = &score
	response.TotalMarks = &totalMarks
	response.EvaluatedAt = &now

	if err := s.db.Model(&response).Updates(map[string]interface{}{
		"score":        score,
		"total_marks":  totalMarks,
		"evaluated_at": now,
	}).Error; err != nil {
		return nil, err
	}

	s.refreshMonitorState(response.ExamID)
	return &response, nil
}

// GetResult returns a candidate's own response for an exam. A response
// without a score is still pending evaluation; the handler shapes that.
func (s *ResponseService) GetResult(userID, examID uint) (*models.Response, error) {
	var response models.Response
	err := s.db.Where("user_id = ? AND exam_id = ?", userID, examID).
		Preload("Exam").
		Preload("User").
		First(&response).Error
	if err != nil {
		return nil, ErrNoSubmission
	}
	return &response, nil
}

// GetMonitorState returns the live monitor snapshot for an exam,
// preferring the Redis cache and rebuilding from the database when the
// cache is cold.
func (s *ResponseService) GetMonitorState(examID uint) (*MonitorState, error) {
	if state := s.getMonitorState(examID); state != nil {
		return state, nil
	}
	return s.rebuildMonitorState(examID)
}

func (s *ResponseService) rebuildMonitorState(examID uint) (*MonitorState, error) {
	var exam models.Exam
	if err := s.db.First(&exam, examID).Error; err != nil {
		return nil, ErrExamNotFound
	}

	var assigned int64
	s.db.Table("exam_assignments").Where("exam_id = ?", examID).Count(&assigned)

	var submitted, evaluated int64
	s.db.Model(&models.Response{}).Where("exam_id = ?", examID).Count(&submitted)
	s.db.Model(&models.Response{}).Where("exam_id = ? AND evaluated_at IS NOT NULL", examID).Count(&evaluated)

	state := &MonitorState{
		ExamID:         examID,
		Title:          exam.Title,
		AssignedCount:  int(assigned),
		SubmittedCount: int(submitted),
		EvaluatedCount: int(evaluated),
	}

	s.storeMonitorState(examID, state)
	return state, nil
}

func (s *ResponseService) refreshMonitorState(examID uint) {
	if _, err := s.rebuildMonitorState(examID); err != nil {
		log.Printf("Failed to refresh monitor state for exam %d: %v", examID, err)
	}
}

func (s *ResponseService) storeMonitorState(examID uint, state *MonitorState) {
	data, err := json.Marshal(state)
	if err != nil {
		log.Printf("Failed to marshal monitor state for exam %d: %v", examID, err)
		return
	}

	key := fmt.Sprintf("exam:monitor:%d", examID)
	if err := s.redis.Set(context.Background(), key, data, 2*time.Hour).Err(); err != nil {
		log.Printf("Failed to store monitor state in Redis: %v", err)
	}
}

func (s *ResponseService) getMonitorState(examID uint) *MonitorState {
	key := fmt.Sprintf("exam:monitor:%d", examID)

	data, err := s.redis.Get(context.Background(), key).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("Redis error getting monitor state for exam %d: %v", examID, err)
		}
		return nil
	}

	var state MonitorState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		log.Printf("Failed to unmarshal monitor state for exam %d: %v", examID, err)
		return nil
	}

	return &state
}
