// Package portal wires the protected views: every handler fetches a fresh
// snapshot from the school API, folds it through the report package, and
// degrades to an empty rendering when the fetch fails. The only fetch error a
// user ever sees as text is a rejected login.
package portal

import (
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"studentportal/internal/audit"
	"studentportal/internal/auth"
	"studentportal/internal/config"
	"studentportal/internal/report"
	"studentportal/internal/session"
	"studentportal/internal/upstream"
)

// Handler serves the portal pages.
type Handler struct {
	cfg      config.App
	store    session.Store
	api      *upstream.Client
	recorder *audit.Recorder

	// Now is replaceable in tests; the dashboard widget depends on the weekday.
	Now func() time.Time
}

// New creates a handler. recorder may be nil when auditing is disabled.
func New(cfg config.App, store session.Store, api *upstream.Client, recorder *audit.Recorder) *Handler {
	return &Handler{
		cfg:      cfg,
		store:    store,
		api:      api,
		recorder: recorder,
		Now:      time.Now,
	}
}

// Register mounts the login route and the guarded views on the engine.
func (h *Handler) Register(r *gin.Engine) {
	r.POST("/login", h.Login)

	guarded := r.Group("/", auth.SessionAuth(h.store, h.cfg.SessionCookie, h.cfg.JWTSigningKey, h.cfg.JWTIssuer))
	guarded.POST("/logout", h.Logout)

	api := guarded.Group("/api")
	api.GET("/dashboard", h.Dashboard)
	api.GET("/schedule", h.Schedule)
	api.GET("/attendance", h.Attendance)
	api.GET("/grades", h.Grades)
	api.GET("/bills", h.Bills)
	api.GET("/library/loans", h.Loans)
	api.GET("/library/books", h.Books)
}

// Login authenticates against the school API and establishes a session.
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password required"})
		return
	}

	var result upstream.LoginResult
	var err error
	if h.cfg.UpstreamTransport == "graphql" {
		result, err = h.api.LoginGraphQL(c.Request.Context(), req.Username, req.Password)
	} else {
		result, err = h.api.Login(c.Request.Context(), req.Username, req.Password)
	}
	if err != nil {
		var authErr *upstream.AuthError
		if errors.As(err, &authErr) && authErr.Message != "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": authErr.Message})
			return
		}
		if errors.Is(err, upstream.ErrAuthenticationFailed) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Login failed. Check username/password."})
			return
		}
		log.Printf("login request failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Login failed. Check username/password."})
		return
	}

	sess := session.Session{Token: result.Token, User: toSummary(result.User)}
	sid := uuid.NewString()
	if err := h.store.Save(c.Request.Context(), sid, sess); err != nil {
		log.Printf("session save failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session could not be created"})
		return
	}

	cookie, err := auth.Issue(sid, h.cfg.JWTIssuer, h.cfg.JWTSigningKey, h.cfg.SessionTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session could not be created"})
		return
	}
	c.SetCookie(h.cfg.SessionCookie, cookie, int(h.cfg.SessionTTL.Seconds()), "/", "", false, true)

	h.recorder.Record(c.Request.Context(), audit.NewEvent(req.Username, audit.KindLogin))

	c.JSON(http.StatusCreated, gin.H{
		"user":     sess.User,
		"redirect": "/dashboard",
	})
}

// Logout destroys the session and returns to the login page.
func (h *Handler) Logout(c *gin.Context) {
	sid, sess := h.sessionFrom(c)
	if err := h.store.Delete(c.Request.Context(), sid); err != nil {
		log.Printf("session delete failed: %v", err)
	}
	auth.ClearCookie(c, h.cfg.SessionCookie)
	h.recorder.Record(c.Request.Context(), audit.NewEvent(usernameOf(sess), audit.KindLogout))
	c.Redirect(http.StatusSeeOther, auth.LoginPath)
}

// Dashboard renders the landing view: profile plus today's schedule. The two
// fetches are independent and update disjoint fields, so they run concurrently.
func (h *Handler) Dashboard(c *gin.Context) {
	sid, sess := h.sessionFrom(c)
	ctx := c.Request.Context()

	var (
		wg          sync.WaitGroup
		profile     upstream.Profile
		entries     []upstream.ScheduleEntry
		profileErr  error
		scheduleErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		profile, profileErr = h.api.Profile(ctx, sess.Token)
	}()
	go func() {
		defer wg.Done()
		entries, scheduleErr = h.api.Schedule(ctx, sess.Token)
	}()
	wg.Wait()

	if errors.Is(profileErr, upstream.ErrUnauthorized) || errors.Is(scheduleErr, upstream.ErrUnauthorized) {
		h.expireSession(c, sid, sess)
		return
	}
	if profileErr != nil {
		log.Printf("profile fetch failed: %v", profileErr)
	}
	if scheduleErr != nil {
		log.Printf("schedule fetch failed: %v", scheduleErr)
	}

	today := report.DayName(h.Now().Weekday())
	c.JSON(http.StatusOK, gin.H{
		"profile":       profile,
		"class":         profile.ClassLabel(),
		"today":         today,
		"todaySchedule": report.TodaySchedule(entries, today),
	})
}

// Schedule renders the weekly timetable grouped by day.
func (h *Handler) Schedule(c *gin.Context) {
	sid, sess := h.sessionFrom(c)
	entries, err := h.api.Schedule(c.Request.Context(), sess.Token)
	if h.fetchFailed(c, sid, sess, err, "schedule") {
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": report.WeekSchedule(entries)})
}

// Attendance renders the attendance history with its summary and per-subject
// breakdown.
func (h *Handler) Attendance(c *gin.Context) {
	sid, sess := h.sessionFrom(c)
	records, err := h.api.Attendance(c.Request.Context(), sess.Token)
	if h.fetchFailed(c, sid, sess, err, "attendance") {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"records":  report.SortAttendanceNewestFirst(records),
		"summary":  report.SummarizeAttendance(records),
		"subjects": report.GroupAttendanceBySubject(records),
	})
}

// Grades renders scores with the global average and per-subject breakdown.
func (h *Handler) Grades(c *gin.Context) {
	sid, sess := h.sessionFrom(c)
	grades, err := h.api.Grades(c.Request.Context(), sess.Token)
	if h.fetchFailed(c, sid, sess, err, "grades") {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"records":  grades,
		"average":  report.AverageScore(grades),
		"subjects": report.GroupGradesBySubject(grades),
	})
}

// Bills renders invoices with the outstanding total.
func (h *Handler) Bills(c *gin.Context) {
	sid, sess := h.sessionFrom(c)
	bills, err := h.api.Bills(c.Request.Context(), sess.Token)
	if h.fetchFailed(c, sid, sess, err, "bills") {
		return
	}
	if bills == nil {
		bills = []upstream.Bill{}
	}
	c.JSON(http.StatusOK, gin.H{
		"bills":       bills,
		"unpaidTotal": report.UnpaidTotal(bills),
	})
}

// Loans renders the student's borrowing history.
func (h *Handler) Loans(c *gin.Context) {
	sid, sess := h.sessionFrom(c)
	loans, err := h.api.Loans(c.Request.Context(), sess.Token)
	if h.fetchFailed(c, sid, sess, err, "loans") {
		return
	}
	if loans == nil {
		loans = []upstream.Loan{}
	}
	c.JSON(http.StatusOK, gin.H{"loans": loans})
}

// Books searches the library catalog.
func (h *Handler) Books(c *gin.Context) {
	sid, sess := h.sessionFrom(c)
	books, err := h.api.Books(c.Request.Context(), sess.Token, c.Query("search"))
	if h.fetchFailed(c, sid, sess, err, "books") {
		return
	}
	if books == nil {
		books = []upstream.Book{}
	}
	c.JSON(http.StatusOK, gin.H{"books": books})
}

// fetchFailed applies the shared error policy: an upstream 401 tears down the
// session and redirects, anything else is logged and the page renders empty.
// Returns true when the response has already been written.
func (h *Handler) fetchFailed(c *gin.Context, sid string, sess session.Session, err error, page string) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, upstream.ErrUnauthorized) {
		h.expireSession(c, sid, sess)
		return true
	}
	log.Printf("%s fetch failed: %v", page, err)
	return false
}

// expireSession handles reactive expiry: clear the session exactly once and
// issue one redirect to the login page.
func (h *Handler) expireSession(c *gin.Context, sid string, sess session.Session) {
	if err := h.store.Delete(c.Request.Context(), sid); err != nil {
		log.Printf("session delete failed: %v", err)
	}
	auth.ClearCookie(c, h.cfg.SessionCookie)
	h.recorder.Record(c.Request.Context(), audit.NewEvent(usernameOf(sess), audit.KindExpired))
	c.Redirect(http.StatusSeeOther, auth.LoginPath)
	c.Abort()
}

func (h *Handler) sessionFrom(c *gin.Context) (string, session.Session) {
	sid := c.GetString(auth.CtxSessionID)
	sess, _ := c.Get(auth.CtxSession)
	s, _ := sess.(session.Session)
	return sid, s
}

func toSummary(u *upstream.User) *session.UserSummary {
	if u == nil {
		return nil
	}
	return &session.UserSummary{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Role:     u.Role,
	}
}

func usernameOf(s session.Session) string {
	if s.User != nil {
		return s.User.Username
	}
	return "unknown"
}
