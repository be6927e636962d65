package api

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
)

const sessionName = "notespot_session"

// NewSessionStore builds the cookie store gating the authenticated routes.
func NewSessionStore(secret string, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   60 * 60 * 12,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	}
	return store
}

// Auth owns login state. Password auth is deliberately minimal; identity is
// an external collaborator's concern.
type Auth struct {
	store    *sessions.CookieStore
	password string
}

func NewAuth(store *sessions.CookieStore, password string) *Auth {
	return &Auth{store: store, password: password}
}

func (a *Auth) authenticated(r *http.Request) bool {
	sess, err := a.store.Get(r, sessionName)
	if err != nil {
		return false
	}
	auth, ok := sess.Values["authenticated"].(bool)
	return ok && auth
}

// Require aborts unauthenticated requests with a redirect to the login form.
func (a *Auth) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.authenticated(c.Request) {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// LoginForm serves GET /login.
func (a *Auth) LoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.tmpl", gin.H{})
}

// Login serves POST /login.
func (a *Auth) Login(c *gin.Context) {
	pass := c.PostForm("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.password)) != 1 {
		c.HTML(http.StatusUnauthorized, "login.tmpl", gin.H{"Error": "Wrong password"})
		return
	}
	sess, err := a.store.Get(c.Request, sessionName)
	if err != nil {
		c.String(http.StatusInternalServerError, "session error")
		return
	}
	sess.Values["authenticated"] = true
	if err := sess.Save(c.Request, c.Writer); err != nil {
		c.String(http.StatusInternalServerError, "session error")
		return
	}
	c.Redirect(http.StatusSeeOther, "/items/new")
}

// Logout serves POST /logout.
func (a *Auth) Logout(c *gin.Context) {
	sess, err := a.store.Get(c.Request, sessionName)
	if err == nil {
		sess.Options.MaxAge = -1
		_ = sess.Save(c.Request, c.Writer)
	}
	c.Redirect(http.StatusSeeOther, "/items")
}
