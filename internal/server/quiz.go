package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	quizdomain "github.com/carbonctrl/carbonctrl/internal/quiz/domain"
)

type CreateQuizRequest struct {
	Code        string               `json:"code"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Icon        string               `json:"icon"`
	Difficulty  string               `json:"difficulty"`
	Questions   []quizdomain.Question `json:"questions"`
}

type GenerateQuizRequest struct {
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
}

type GradeQuizRequest struct {
	Answers []int `json:"answers"`
}

func (s *Server) ListQuizzes(c *gin.Context) {
	quizzes, err := s.quizSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quizzes": quizzes})
}

func (s *Server) GetQuiz(c *gin.Context) {
	found, err := s.quizSvc.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

func (s *Server) CreateQuiz(c *gin.Context) {
	user, ok := s.currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	created, err := s.quizSvc.Create(c.Request.Context(), quizdomain.CreateRequest{
		Code:        req.Code,
		Title:       req.Title,
		Description: req.Description,
		Icon:        req.Icon,
		Difficulty:  req.Difficulty,
		Questions:   req.Questions,
		CreatedBy:   user.ID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// GenerateQuiz asks the AI tutor for questions and stores the result as a
// playable quiz.
func (s *Server) GenerateQuiz(c *gin.Context) {
	user, ok := s.currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req GenerateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	profile, err := s.profileSvc.Resolve(c.Request.Context(), user)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	questions, err := s.assistantSvc.GenerateQuiz(c.Request.Context(), req.Topic, req.Difficulty, profile.Level)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	created, err := s.quizSvc.Create(c.Request.Context(), quizdomain.CreateRequest{
		Title:      req.Topic,
		Difficulty: req.Difficulty,
		Questions:  questions,
		Generated:  true,
		CreatedBy:  user.ID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (s *Server) GradeQuiz(c *gin.Context) {
	user, ok := s.currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req GradeQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.quizSvc.Grade(c.Request.Context(), user.ID, c.Param("code"), req.Answers)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) ListQuizAttempts(c *gin.Context) {
	user, ok := s.currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	attempts, err := s.quizSvc.Attempts(c.Request.Context(), user.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"attempts": attempts})
}
