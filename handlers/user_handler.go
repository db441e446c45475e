package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"examportal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	examService     *services.ExamService
	responseService *services.ResponseService
	hub             *services.Hub
}

func NewUserHandler(
	examService *services.ExamService,
	responseService *services.ResponseService,
	hub *services.Hub,
) *UserHandler {
	return &UserHandler{
		examService:     examService,
		responseService: responseService,
		hub:             hub,
	}
}

func (h *UserHandler) GetMyExams(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	exams, err := h.examService.GetAssignedExams(userID.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, exams)
}

func (h *UserHandler) GetExam(c *gin.Context) {
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

	exam, questions, err := h.examService.GetExamForAttempt(uint(examID), userID.(uint))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrExamNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrNotAssigned):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"exam":      exam,
		"questions": questions,
	})
}

func (h *UserHandler) Submit(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req services.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "examId and answers array are required"})
		return
	}

	response, err := h.responseService.Submit(userID.(uint), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrExamNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrNotAssigned):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrAlreadySubmitted):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	// Notify any admin watching this exam's monitor
	if h.hub != nil {
		h.hub.BroadcastToExam(response.ExamID, "response_submitted", gin.H{
			"response_id": response.ID,
			"user_id":     response.UserID,
			"exam_id":     response.ExamID,
		})
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Exam submitted successfully",
		"response": response,
	})
}

func (h *UserHandler) GetResult(c *gin.Context) {
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

	response, err := h.responseService.GetResult(userID.(uint), uint(examID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	if response.Score == nil {
		c.JSON(http.StatusOK, gin.H{
			"message":  "Not yet evaluated",
			"response": response,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Result",
		"response": response,
	})
}
