package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"examportal/parser"
	"examportal/services"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	authService     *services.AuthService
	examService     *services.ExamService
	responseService *services.ResponseService
	hub             *services.Hub
}

func NewAdminHandler(
	authService *services.AuthService,
	examService *services.ExamService,
	responseService *services.ResponseService,
	hub *services.Hub,
) *AdminHandler {
	return &AdminHandler{
		authService:     authService,
		examService:     examService,
		responseService: responseService,
		hub:             hub,
	}
}

// examStatus maps exam service errors onto HTTP statuses, keeping
// not-found distinct from not-owner.
func examStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrExamNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrNotExamOwner):
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}

func (h *AdminHandler) GetExams(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	exams, err := h.examService.GetAdminExams(userID.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, exams)
}

func (h *AdminHandler) GetExamDetail(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	examID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid exam ID"})
		return
	}

	exam, questions, err := h.examService.GetExamDetail(uint(examID), userID.(uint))
	if err != nil {
		c.JSON(examStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"exam":      exam,
		"questions": questions,
	})
}

func (h *AdminHandler) GetUsers(c *gin.Context) {
	users, err := h.authService.ListUsers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, users)
}

func (h *AdminHandler) CreateExam(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req services.CreateExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and skill are required"})
		return
	}

	exam, err := h.examService.CreateExam(userID.(uint), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, exam)
}

func (h *AdminHandler) DeleteExam(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	examID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid exam ID"})
		return
	}

	if err := h.examService.DeleteExam(uint(examID), userID.(uint)); err != nil {
		c.JSON(examStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Exam deleted along with its questions and responses"})
}

func (h *AdminHandler) AddQuestion(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req services.AddQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "examId, question, options (array of 4), and correctAnswer (0-3) are required",
		})
		return
	}

	question, err := h.examService.AddQuestion(userID.(uint), &req)
	if err != nil {
		c.JSON(examStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, question)
}

// UploadQuestions accepts a multipart .txt/.docx upload, extracts its
// text, runs the question parser and stores whatever it finds. The
// upload is read once into memory and released on every exit path.
func (h *AdminHandler) UploadQuestions(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	examID, err := strconv.ParseUint(c.PostForm("examId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "examId is required"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A .txt or .docx file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}

	text, err := parser.ExtractText(fileHeader.Filename, data)
	if err != nil {
		if errors.Is(err, parser.ErrUnsupportedFormat) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to extract text from the uploaded file"})
		return
	}

	questions := parser.Parse(text)

	// Optional cap on how many parsed questions to keep, in order.
	// Ignored when absent, zero or non-numeric.
	if n, err := strconv.Atoi(c.PostForm("suggestedCount")); err == nil && n > 0 && n < len(questions) {
		questions = questions[:n]
	}

	if len(questions) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "No questions could be parsed. Use either 'Question | Opt1 | Opt2 | Opt3 | Opt4 | CorrectOption(1-4)' per line, or numbered questions with a)-d) options and an optional 'Answer:' line",
		})
		return
	}

	created, err := h.examService.AddParsedQuestions(uint(examID), userID.(uint), questions)
	if err != nil {
		c.JSON(examStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Questions uploaded successfully",
		"created": created,
	})
}

func (h *AdminHandler) AssignExam(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req services.AssignExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "examId and userIds array are required"})
		return
	}

	exam, err := h.examService.AssignExam(userID.(uint), &req)
	if err != nil {
		c.JSON(examStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, exam)
}

func (h *AdminHandler) GetResponses(c *gin.Context) {
	var examID uint
	if raw := c.Query("examId"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid examId filter"})
			return
		}
		examID = uint(parsed)
	}

	responses, err := h.responseService.ListResponses(examID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, responses)
}

func (h *AdminHandler) Evaluate(c *gin.Context) {
	var req services.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "responseId is required"})
		return
	}

	response, err := h.responseService.Evaluate(req.ResponseID)
	if err != nil {
		if errors.Is(err, services.ErrResponseNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Let any open monitors see the evaluation land
	if h.hub != nil {
		h.hub.BroadcastToExam(response.ExamID, "response_evaluated", gin.H{
			"response_id": response.ID,
			"user_id":     response.UserID,
			"score":       response.Score,
			"total_marks": response.TotalMarks,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Score calculated and saved",
		"response": response,
	})
}
