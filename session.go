package portal

import (
	"net/url"

	"github.com/fatih/structs"

	"github.com/gyaan-apps/portal/sso"
	"github.com/gyaan-apps/portal/storage/model"
)

// View is the form currently shown to the user. Entering one form hides the
// others.
type View string

const (
	ViewAnonymous     View = "anonymous"
	ViewLogin         View = "login"
	ViewSignup        View = "signup"
	ViewForgot        View = "forgot"
	ViewAuthenticated View = "authenticated"
)

// Session is the per-request session context. It is reconstructed from the
// inbound query string on every request and carried outbound in the query
// string again; there is no server-side session store.
type Session struct {
	User  string     `structs:"user"`
	Token string     `structs:"token"`
	TS    string     `structs:"ts"`
	Role  model.Role `structs:"-"`
	View  View       `structs:"-"`
}

// LoggedIn reports whether the session carries an authenticated identity
func (s Session) LoggedIn() bool {
	return s.View == ViewAuthenticated
}

// QueryValues returns the url.Values representation of the session identity.
// Empty fields are omitted, an anonymous session yields no values.
func (s Session) QueryValues() url.Values {
	values := url.Values{}
	for key, value := range structs.Map(s) {
		if str, ok := value.(string); ok && str != "" {
			values.Set(key, str)
		}
	}
	return values
}

// SessionFromQuery reconstructs a session from inbound query parameters.
// The session only becomes authenticated when all three parameters are
// present and the token verifies for the username; anything else falls back
// to a fresh anonymous session.
func SessionFromQuery(user, token, ts string, authority *sso.Authority) Session {
	if user == "" || token == "" || ts == "" {
		return Session{View: ViewAnonymous}
	}
	if !authority.Verify(user, token) {
		return Session{View: ViewAnonymous}
	}
	return Session{
		User:  user,
		Token: token,
		TS:    ts,
		Role:  model.RoleUser,
		View:  ViewAuthenticated,
	}
}

// Event is a session state machine input
type Event interface {
	isSessionEvent()
}

// EventShowLogin switches to the login form
type EventShowLogin struct{}

// EventShowSignup switches to the signup form
type EventShowSignup struct{}

// EventShowForgot switches to the forgot-password form
type EventShowForgot struct{}

// EventCancel leaves the current form without logging in
type EventCancel struct{}

// EventLoggedIn carries the freshly issued identity after a successful
// authentication
type EventLoggedIn struct {
	User  string
	Token string
	TS    string
	Role  model.Role
}

// EventSignedUp fires after a successful account creation; the user still has
// to log in explicitly
type EventSignedUp struct{}

// EventPasswordReset fires after a successful password reset
type EventPasswordReset struct{}

// EventLoggedOut clears the session
type EventLoggedOut struct{}

func (EventShowLogin) isSessionEvent()     {}
func (EventShowSignup) isSessionEvent()    {}
func (EventShowForgot) isSessionEvent()    {}
func (EventCancel) isSessionEvent()        {}
func (EventLoggedIn) isSessionEvent()      {}
func (EventSignedUp) isSessionEvent()      {}
func (EventPasswordReset) isSessionEvent() {}
func (EventLoggedOut) isSessionEvent()     {}

// Reduce applies an event to a session and returns the next session. It never
// mutates its input; events that do not apply in the current view leave the
// session unchanged.
func Reduce(s Session, event Event) Session {
	switch e := event.(type) {
	case EventShowLogin:
		if !s.LoggedIn() {
			return Session{View: ViewLogin}
		}
	case EventShowSignup:
		if !s.LoggedIn() {
			return Session{View: ViewSignup}
		}
	case EventShowForgot:
		if !s.LoggedIn() {
			return Session{View: ViewForgot}
		}
	case EventCancel:
		if !s.LoggedIn() {
			return Session{View: ViewAnonymous}
		}
	case EventLoggedIn:
		return Session{
			User:  e.User,
			Token: e.Token,
			TS:    e.TS,
			Role:  e.Role,
			View:  ViewAuthenticated,
		}
	case EventSignedUp:
		if !s.LoggedIn() {
			return Session{View: ViewLogin}
		}
	case EventPasswordReset:
		if !s.LoggedIn() {
			return Session{View: ViewLogin}
		}
	case EventLoggedOut:
		return Session{View: ViewAnonymous}
	}
	return s
}
