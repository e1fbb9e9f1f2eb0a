package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	SessionCookieName = "sessionId"
	sessionIDKey      = "sid"
)

// NewSessionStore подписанное cookie-хранилище; в cookie лежит только идентификатор сессии
func NewSessionStore(secret string) *sessions.CookieStore {
	return sessions.NewCookieStore([]byte(secret))
}

// SessionID возвращает идентификатор сессии из подписанной cookie
func (am *AuthMiddleware) SessionID(r *http.Request) string {
	if am.Sessions == nil {
		return ""
	}
	session, err := am.Sessions.Get(r, SessionCookieName)
	if err != nil || session.IsNew {
		return ""
	}
	sid, _ := session.Values[sessionIDKey].(string)
	return sid
}

// StartSession создаёт серверную сессию и выставляет cookie
func (am *AuthMiddleware) StartSession(ctx context.Context, w http.ResponseWriter, r *http.Request, userID uint) error {
	ttl := am.Config.Auth.SessionTTL
	sid := uuid.New().String()
	if err := am.Tokens.WriteSession(ctx, sid, userID, ttl); err != nil {
		return err
	}

	// ошибка декодирования старой cookie не мешает выдать новую
	session, _ := am.Sessions.New(r, SessionCookieName)
	session.Values[sessionIDKey] = sid
	session.Options = am.cookieOptions(int(ttl.Seconds()))
	return session.Save(r, w)
}

// EndSession удаляет серверную сессию и просроченной cookie затирает клиентскую
func (am *AuthMiddleware) EndSession(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var err error
	if sid := am.SessionID(r); sid != "" {
		err = am.Tokens.DeleteSession(ctx, sid)
	}

	session, _ := am.Sessions.New(r, SessionCookieName)
	session.Options = am.cookieOptions(-1)
	if saveErr := session.Save(r, w); err == nil {
		err = saveErr
	}
	return err
}

func (am *AuthMiddleware) cookieOptions(maxAge int) *sessions.Options {
	return &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   am.Config.Auth.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
