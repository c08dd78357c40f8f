package web

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mihirvv/jobassist/internal/agent"
	"github.com/mihirvv/jobassist/internal/llm"
	"github.com/mihirvv/jobassist/internal/model"
	"github.com/mihirvv/jobassist/internal/scrape"
)

type profileRequest struct {
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	CVText string   `json:"cv_text"`
	Skills []string `json:"skills"`
}

type preferencesRequest struct {
	InterestLevel      int    `json:"interest_level"`
	Motivation         string `json:"motivation"`
	RelevantExperience string `json:"relevant_experience"`
	CareerGoals        string `json:"career_goals"`
	CompanyKnowledge   string `json:"company_knowledge"`
	Concerns           string `json:"concerns"`
	AdditionalInfo     string `json:"additional_info"`
}

type applyRequest struct {
	JobURL      string             `json:"job_url"`
	JobText     string             `json:"job_text"`
	Profile     profileRequest     `json:"profile"`
	Preferences preferencesRequest `json:"preferences"`
}

type interviewRequest struct {
	JobURL  string         `json:"job_url"`
	JobText string         `json:"job_text"`
	Profile profileRequest `json:"profile"`
}

type documentResponse struct {
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
}

type sessionResponse struct {
	ID        string             `json:"id"`
	JobTitle  string             `json:"job_title"`
	Company   string             `json:"company"`
	URL       string             `json:"url,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	Documents []documentResponse `json:"documents"`
}

func (s *Server) index(c *gin.Context) {
	status := s.engine.Status()
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Status": status,
	})
}

func (s *Server) status(c *gin.Context) {
	c.JSON(http.StatusOK, s.engine.Status())
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, s.engine.HealthCheck(c.Request.Context()))
}

func (s *Server) apply(c *gin.Context) {
	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	posting, ok := s.resolvePosting(c, req.JobURL, req.JobText)
	if !ok {
		return
	}

	completer, err := s.engine.Completer(c.Request.Context())
	if err != nil {
		s.modelUnavailable(c, err)
		return
	}

	app := agent.NewApplicationAgent(completer, s.logger)
	analysis, docs, err := app.ProcessApplication(c.Request.Context(),
		posting, toProfile(req.Profile), toPreferences(req.Preferences))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "generation failed: " + err.Error()})
		return
	}

	sessionID := s.persistSession(posting, docs)

	c.JSON(http.StatusOK, gin.H{
		"session_id": sessionID,
		"analysis":   analysis,
		"documents":  toDocumentResponses(docs),
	})
}

func (s *Server) interview(c *gin.Context) {
	var req interviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	posting, ok := s.resolvePosting(c, req.JobURL, req.JobText)
	if !ok {
		return
	}

	completer, err := s.engine.Completer(c.Request.Context())
	if err != nil {
		s.modelUnavailable(c, err)
		return
	}

	prep, err := agent.NewInterviewAgent(completer, s.logger).
		PrepareForInterview(c.Request.Context(), posting, toProfile(req.Profile))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "generation failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"job_title":            posting.Title,
		"company":              posting.Company,
		"confidence_checklist": prep.ConfidenceChecklist,
		"technical_questions":  prep.TechnicalQuestions,
		"behavioral_questions": prep.BehavioralQuestions,
		"questions_to_ask":     prep.QuestionsToAsk,
		"timeline":             prep.Timeline,
	})
}

func (s *Server) sessions(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusOK, gin.H{"sessions": []sessionResponse{}})
		return
	}
	sessions, err := s.store.RecentSessions(20)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "listing sessions: " + err.Error()})
		return
	}
	out := make([]sessionResponse, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, sessionResponse{
			ID:        sess.ID,
			JobTitle:  sess.Posting.Title,
			Company:   sess.Posting.Company,
			URL:       sess.Posting.URL,
			CreatedAt: sess.CreatedAt,
			Documents: toDocumentResponses(sess.Documents),
		})
	}
	c.JSON(http.StatusOK, gin.H{"sessions": out})
}

// resolvePosting turns the request's URL or pasted text into a posting. On
// failure it writes the error response and returns ok=false.
func (s *Server) resolvePosting(c *gin.Context, jobURL, jobText string) (model.JobPosting, bool) {
	switch {
	case strings.TrimSpace(jobURL) != "":
		if s.fetcher == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "URL scraping is disabled, paste the posting text instead"})
			return model.JobPosting{}, false
		}
		posting, err := s.fetcher.FetchPosting(c.Request.Context(), jobURL)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "fetching posting: " + err.Error()})
			return model.JobPosting{}, false
		}
		return posting, true
	case strings.TrimSpace(jobText) != "":
		return scrape.ExtractFromText(jobText), true
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "either job_url or job_text is required"})
		return model.JobPosting{}, false
	}
}

// modelUnavailable maps resolver errors onto a 503 carrying the remediation
// hint for the UI.
func (s *Server) modelUnavailable(c *gin.Context, err error) {
	resp := gin.H{"error": err.Error()}
	if hint := llm.Hint(err); hint != "" {
		resp["hint"] = hint
	}
	c.JSON(http.StatusServiceUnavailable, resp)
}

func (s *Server) persistSession(posting model.JobPosting, docs []model.Document) string {
	if s.store == nil {
		return ""
	}
	sess := model.Session{
		ID:        uuid.NewString(),
		Posting:   posting,
		Documents: docs,
		CreatedAt: time.Now(),
	}
	if err := s.store.SaveSession(sess); err != nil {
		s.logger.Warn("saving session failed", "session_id", sess.ID, "error", err)
		return ""
	}
	return sess.ID
}

func toProfile(p profileRequest) model.Profile {
	return model.Profile{
		Name:   p.Name,
		Email:  p.Email,
		CVText: p.CVText,
		Skills: p.Skills,
	}
}

func toPreferences(p preferencesRequest) model.Preferences {
	return model.Preferences{
		InterestLevel:      p.InterestLevel,
		Motivation:         p.Motivation,
		RelevantExperience: p.RelevantExperience,
		CareerGoals:        p.CareerGoals,
		CompanyKnowledge:   p.CompanyKnowledge,
		Concerns:           p.Concerns,
		AdditionalInfo:     p.AdditionalInfo,
	}
}

func toDocumentResponses(docs []model.Document) []documentResponse {
	out := make([]documentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, documentResponse{
			Type:      d.Type,
			Title:     d.Title,
			Content:   d.Content,
			Model:     d.Model,
			CreatedAt: d.CreatedAt,
		})
	}
	return out
}
