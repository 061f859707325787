// Package webui serves the password-gated roster viewer.
//
// The app reads the store the pipeline wrote and exposes exactly the two
// query shapes the store guarantees: distinct team names, and all columns
// for one team. Every data route sits behind a session check; the login
// route is the only way to mint a session.
package webui

import (
	"crypto/subtle"
	"database/sql"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	_ "modernc.org/sqlite"

	"github.com/kvachher/masti-reg-tracker/internal/roster"
)

//go:embed templates/*.html
var tmplFS embed.FS

const sessionCookie = "roster_session"

// Config controls server startup.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// DSN is the sqlite store the pipeline wrote.
	DSN string

	// Password gates the login route. An empty password disables login
	// entirely (every attempt fails); it never means "no gate".
	Password string

	// SessionTTL bounds how long a login lasts. Zero means 12h.
	SessionTTL time.Duration
}

// Server wraps the gin engine, the read-only store handle, and the session
// store.
type Server struct {
	cfg      Config
	db       *sql.DB
	engine   *gin.Engine
	sessions *sessionStore
}

// NewServer opens the store and builds the route table.
func NewServer(cfg Config) (*Server, error) {
	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("webui: open store: %w", err)
	}

	s := &Server{
		cfg:      cfg,
		db:       db,
		engine:   gin.New(),
		sessions: newSessionStore(cfg.SessionTTL),
	}
	s.engine.Use(gin.Logger(), gin.Recovery())
	s.engine.SetHTMLTemplate(template.Must(template.ParseFS(tmplFS, "templates/*.html")))
	s.routes()
	return s, nil
}

// Run starts the HTTP server and blocks.
func (s *Server) Run() error {
	return s.engine.Run(s.cfg.Addr)
}

// Close releases the store handle.
func (s *Server) Close() error { return s.db.Close() }

func (s *Server) routes() {
	s.engine.GET("/login", s.handleLoginForm)
	s.engine.POST("/login", s.handleLogin)
	s.engine.POST("/logout", s.handleLogout)

	gated := s.engine.Group("/", s.requireSession)
	gated.GET("/", s.handleIndex)
	gated.POST("/team_info", s.handleTeamInfo)
}

// requireSession redirects to the login form unless the request carries a
// live session cookie.
func (s *Server) requireSession(c *gin.Context) {
	token, _ := c.Cookie(sessionCookie)
	if !s.sessions.Valid(token) {
		c.Redirect(http.StatusSeeOther, "/login")
		c.Abort()
		return
	}
	c.Next()
}

func (s *Server) handleLoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

func (s *Server) handleLogin(c *gin.Context) {
	password := c.PostForm("password")
	if s.cfg.Password == "" ||
		subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.Password)) != 1 {
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{
			"Error": "Incorrect password.",
		})
		return
	}

	token := s.sessions.Create()
	c.SetCookie(sessionCookie, token, int(s.sessions.ttl.Seconds()), "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) handleLogout(c *gin.Context) {
	if token, err := c.Cookie(sessionCookie); err == nil {
		s.sessions.Delete(token)
	}
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/login")
}

func (s *Server) handleIndex(c *gin.Context) {
	teams, err := s.teamNames(c)
	if err != nil {
		c.String(http.StatusInternalServerError, "query teams: %v", err)
		return
	}
	c.HTML(http.StatusOK, "index.html", gin.H{"Teams": teams})
}

func (s *Server) handleTeamInfo(c *gin.Context) {
	team := c.PostForm("team_name")
	if team == "" {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	cols, rows, err := s.teamRows(c, team)
	if err != nil {
		c.String(http.StatusInternalServerError, "query team %s: %v", team, err)
		return
	}
	c.HTML(http.StatusOK, "team_info.html", gin.H{
		"Team":    team,
		"Columns": cols,
		"Rows":    rows,
	})
}

// teamNames runs the first of the two supported query shapes.
func (s *Server) teamNames(c *gin.Context) ([]string, error) {
	rows, err := s.db.QueryContext(c.Request.Context(),
		fmt.Sprintf("SELECT DISTINCT team FROM %s ORDER BY team", roster.Table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// teamRows runs the second supported query shape: all columns for one team,
// rendered verbatim.
func (s *Server) teamRows(c *gin.Context, team string) ([]string, [][]string, error) {
	rows, err := s.db.QueryContext(c.Request.Context(),
		fmt.Sprintf("SELECT * FROM %s WHERE team = ?", roster.Table), team)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		cells := make([]sql.NullString, len(cols))
		scan := make([]any, len(cols))
		for i := range cells {
			scan[i] = &cells[i]
		}
		if err := rows.Scan(scan...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, cell := range cells {
			row[i] = cell.String
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}
