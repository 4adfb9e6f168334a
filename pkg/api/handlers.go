package api

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gss/competition-registration/pkg/middleware"
	"github.com/gss/competition-registration/pkg/models"
	"github.com/gss/competition-registration/pkg/session"
	"github.com/gss/competition-registration/pkg/validation"
	"github.com/gss/competition-registration/pkg/workflow"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// pagePath is where the registration page is mounted
const pagePath = "/"

// Templates parses the embedded page templates
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(template.FuncMap{
		"rank": func(i int) int { return i + 1 },
	}).ParseFS(templateFS, "templates/*.tmpl"))
}

// Handlers contains all HTTP handlers for the registration page
type Handlers struct {
	publicURL string
	logger    *zap.Logger
}

// NewHandlers creates a new Handlers instance. An empty publicURL derives
// the page URL from each request.
func NewHandlers(publicURL string, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		publicURL: publicURL,
		logger:    logger,
	}
}

type pageData struct {
	Form        *workflow.FormView
	Result      *workflow.ResultView
	Leaderboard *workflow.LeaderboardView
	Error       string
	Busy        bool
	CopiedLink  string
	Query       string
}

// HealthCheck handler for monitoring
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// ShowPage renders the active view. The page URL, including any
// referralCode parameter, is fed to the workflow first.
func (h *Handlers) ShowPage(c *gin.Context) {
	sess := middleware.CurrentSession(c)

	if err := sess.Workflow.Navigate(h.pageURL(c, c.Request.URL.Path)); err != nil {
		h.logger.Warn("could not read page url", zap.Error(err))
	}

	snap := sess.Workflow.State()
	data := pageData{
		Error: snap.Error,
		Busy:  snap.Busy,
		Query: referralQuery(snap.ReferralCode),
	}
	switch view := snap.View.(type) {
	case workflow.FormView:
		data.Form = &view
	case workflow.ResultView:
		data.Result = &view
	case workflow.LeaderboardView:
		data.Leaderboard = &view
	}
	if sess.Clipboard != nil {
		data.CopiedLink, _ = sess.Clipboard.Take()
	}

	c.HTML(http.StatusOK, "page.tmpl", data)
}

// Register handles the registration form
func (h *Handlers) Register(c *gin.Context) {
	sess := h.pageSession(c)

	var input models.RegistrationInput
	if err := c.ShouldBind(&input); err != nil {
		h.logger.Debug("could not bind registration form", zap.Error(err))
	}

	var fieldErrs validation.FieldErrors
	if err := sess.Workflow.Submit(detach(c), input); err != nil && !errors.As(err, &fieldErrs) {
		h.logAction("register", err)
	}
	h.backToPage(c)
}

// FinishCompetition loads the leaderboard
func (h *Handlers) FinishCompetition(c *gin.Context) {
	sess := h.pageSession(c)

	if err := sess.Workflow.FinishCompetition(detach(c)); err != nil {
		h.logAction("finish", err)
	}
	h.backToPage(c)
}

// Reset goes back to an empty form
func (h *Handlers) Reset(c *gin.Context) {
	sess := h.pageSession(c)

	if err := sess.Workflow.Reset(); err != nil {
		h.logAction("reset", err)
	}
	h.backToPage(c)
}

// CopyLink copies the sharing link
func (h *Handlers) CopyLink(c *gin.Context) {
	sess := h.pageSession(c)

	if err := sess.Workflow.CopySharingLink(c.Request.Context()); err != nil {
		h.logAction("copy", err)
	}
	h.backToPage(c)
}

// pageSession returns the session of a page action. Actions are posted with
// the page query, so a session that expired or never got a cookie is seeded
// the same way the page was. A seeded session keeps its code when the action
// carries none.
func (h *Handlers) pageSession(c *gin.Context) *session.Session {
	sess := middleware.CurrentSession(c)
	if c.Query(workflow.ReferralParam) == "" && sess.Workflow.HasPage() {
		return sess
	}
	if err := sess.Workflow.Navigate(h.pageURL(c, pagePath)); err != nil {
		h.logger.Warn("could not read page url", zap.Error(err))
	}
	return sess
}

// backToPage redirects to the page, keeping the inbound referral code
func (h *Handlers) backToPage(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	c.Redirect(http.StatusSeeOther, pagePath+referralQuery(sess.Workflow.State().ReferralCode))
}

func referralQuery(code string) string {
	if code == "" {
		return ""
	}
	return "?" + url.Values{workflow.ReferralParam: {code}}.Encode()
}

// backend failures are already reported by the workflow
func (h *Handlers) logAction(action string, err error) {
	h.logger.Debug("action not completed", zap.String("action", action), zap.Error(err))
}

// pageURL is the URL the visitor is looking at, served at path
func (h *Handlers) pageURL(c *gin.Context, path string) string {
	base := h.publicURL
	if base == "" {
		scheme := "http"
		if c.Request.TLS != nil {
			scheme = "https"
		}
		if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
			scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
		}
		base = scheme + "://" + c.Request.Host + path
	}

	if q := c.Request.URL.RawQuery; q != "" {
		return base + "?" + q
	}
	return base
}

// detach keeps the backend call running if the browser goes away; the
// client timeout still bounds it
func detach(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}
