package portal

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/gyaan-apps/portal/internal/cache"
	"github.com/gyaan-apps/portal/internal/geoip"
	"github.com/gyaan-apps/portal/storage"
	"github.com/gyaan-apps/portal/storage/model"
)

// Flash messages surfaced on the portal page via query parameters
const (
	msgLoginFailed     = "Invalid username or password"
	msgPasswordLength  = "Password must be at least 6 characters long"
	msgPasswordMatch   = "Passwords do not match"
	msgFieldsRequired  = "Please fill in all fields"
	msgAccountCreated  = "Account created successfully! Please login."
	msgPasswordChanged = "Password reset successful! Please login."
	msgNoSuchAccount   = "No account found with that username or email"
	msgLoginRequired   = "Please login first"
	msgTokenInvalid    = "Invalid or expired token"
)

func (p *Portal) registerPages() {
	p.server.Get("/", p.handleIndex)
	p.server.Post("/login", p.handleLogin)
	p.server.Post("/signup", p.handleSignup)
	p.server.Post("/forgot", p.handleForgot)
	p.server.Get("/reset", p.handleResetForm)
	p.server.Post("/reset", p.handleReset)
	p.server.Get("/logout", p.handleLogout)
	p.server.Get("/launch/:slug", p.handleLaunch)
}

// session reconstructs the request's session from the inbound query string
// and applies the requested view switch.
func (p *Portal) session(ctx *fiber.Ctx) Session {
	s := SessionFromQuery(
		ctx.Query("user"), ctx.Query("token"), ctx.Query("ts"), p.authority,
	)
	switch ctx.Query("view") {
	case "login":
		s = Reduce(s, EventShowLogin{})
	case "signup":
		s = Reduce(s, EventShowSignup{})
	case "forgot":
		s = Reduce(s, EventShowForgot{})
	}
	return s
}

// redirect sends the browser back to the portal page carrying the session
// identity plus optional view and flash parameters.
func redirect(ctx *fiber.Ctx, s Session, view, errMsg, msg string) error {
	values := s.QueryValues()
	if view != "" {
		values.Set("view", view)
	}
	if errMsg != "" {
		values.Set("err", errMsg)
	}
	if msg != "" {
		values.Set("msg", msg)
	}
	target := "/"
	if encoded := values.Encode(); encoded != "" {
		target += "?" + encoded
	}
	return ctx.Redirect(target, fiber.StatusSeeOther)
}

// content returns the FAQ/About content, cached for a short period so the
// page does not hit the store on every reload.
func (p *Portal) content() (*model.Content, error) {
	cacheKey := cache.Key(cache.KeyContent, "portal")
	var cached model.Content
	set, err := cache.Get(cacheKey, &cached)
	if err == nil && set {
		return &cached, nil
	}
	content, err := p.storages.Content.Get()
	if err != nil {
		return nil, err
	}
	if err = cache.Set(cacheKey, content, contentCachePeriod); err != nil {
		log.WithError(err).Warn("could not cache content")
	}
	return content, nil
}

type appCard struct {
	AppConf
	LaunchPath string
}

func (p *Portal) appCards(s Session) []appCard {
	cards := make([]appCard, 0, len(p.apps))
	for _, app := range p.apps {
		cards = append(
			cards, appCard{
				AppConf:    app,
				LaunchPath: "/launch/" + app.Slug + "?" + s.QueryValues().Encode(),
			},
		)
	}
	return cards
}

func (p *Portal) handleIndex(ctx *fiber.Ctx) error {
	s := p.session(ctx)
	content, err := p.content()
	if err != nil {
		return err
	}
	return ctx.Render(
		"templates/index", fiber.Map{
			"Session": s,
			"Apps":    p.appCards(s),
			"FAQs":    content.FAQs,
			"About":   content.About,
			"Error":   ctx.Query("err"),
			"Message": ctx.Query("msg"),
		},
	)
}

func (p *Portal) handleLogin(ctx *fiber.Ctx) error {
	username := strings.TrimSpace(ctx.FormValue("username"))
	password := ctx.FormValue("password")
	if username == "" || password == "" {
		return redirect(ctx, Session{}, "login", msgFieldsRequired, "")
	}
	user, err := p.storages.Users.Authenticate(username, password)
	if err != nil {
		log.WithFields(
			log.Fields{
				"username": username,
				"ip":       ctx.IP(),
				"country":  geoip.CountryCode(ctx.IP()),
			},
		).Info("failed login")
		return redirect(ctx, Session{}, "login", msgLoginFailed, "")
	}
	token, ts := p.authority.Generate(user.Username)
	s := Reduce(
		Session{}, EventLoggedIn{
			User:  user.Username,
			Token: token,
			TS:    ts,
			Role:  user.Role,
		},
	)
	log.WithFields(
		log.Fields{
			"username": user.Username,
			"ip":       ctx.IP(),
			"country":  geoip.CountryCode(ctx.IP()),
		},
	).Info("login")
	return redirect(ctx, s, "", "", "")
}

func (p *Portal) handleSignup(ctx *fiber.Ctx) error {
	username := strings.TrimSpace(ctx.FormValue("username"))
	email := strings.TrimSpace(ctx.FormValue("email"))
	password := ctx.FormValue("password")
	confirm := ctx.FormValue("confirm_password")
	if username == "" || email == "" || password == "" {
		return redirect(ctx, Session{}, "signup", msgFieldsRequired, "")
	}
	if len(password) < storage.MinPasswordLength {
		return redirect(ctx, Session{}, "signup", msgPasswordLength, "")
	}
	if password != confirm {
		return redirect(ctx, Session{}, "signup", msgPasswordMatch, "")
	}
	if _, err := p.storages.Users.Create(username, password, email); err != nil {
		if _, ok := err.(model.AlreadyExistsError); ok {
			return redirect(ctx, Session{}, "signup", err.Error(), "")
		}
		return err
	}
	s := Reduce(Session{View: ViewSignup}, EventSignedUp{})
	return redirect(ctx, s, "login", "", msgAccountCreated)
}

// handleForgot resets the password directly after the user identifies the
// account by username or email.
func (p *Portal) handleForgot(ctx *fiber.Ctx) error {
	ident := strings.TrimSpace(ctx.FormValue("identifier"))
	password := ctx.FormValue("new_password")
	confirm := ctx.FormValue("confirm_password")
	if ident == "" || password == "" {
		return redirect(ctx, Session{}, "forgot", msgFieldsRequired, "")
	}
	user, err := p.storages.Users.GetByUsernameOrEmail(ident)
	if err != nil {
		if _, ok := err.(model.NotFoundError); ok {
			return redirect(ctx, Session{}, "forgot", msgNoSuchAccount, "")
		}
		return err
	}
	if len(password) < storage.MinPasswordLength {
		return redirect(ctx, Session{}, "forgot", msgPasswordLength, "")
	}
	if password != confirm {
		return redirect(ctx, Session{}, "forgot", msgPasswordMatch, "")
	}
	if err = p.storages.Users.UpdatePassword(user.Username, password); err != nil {
		return err
	}
	s := Reduce(Session{View: ViewForgot}, EventPasswordReset{})
	return redirect(ctx, s, "login", "", msgPasswordChanged)
}

func (p *Portal) handleResetForm(ctx *fiber.Ctx) error {
	token := ctx.Query("token")
	username, err := p.storages.ResetTokens.Verify(token)
	if err != nil {
		return err
	}
	if username == "" {
		return redirect(ctx, Session{}, "forgot", msgTokenInvalid, "")
	}
	return ctx.Render(
		"templates/reset", fiber.Map{
			"Token":    token,
			"Username": username,
			"Error":    ctx.Query("err"),
		},
	)
}

// handleReset completes a token-mediated password reset. The token is
// consumed on success regardless of its remaining lifetime.
func (p *Portal) handleReset(ctx *fiber.Ctx) error {
	token := ctx.FormValue("token")
	password := ctx.FormValue("new_password")
	confirm := ctx.FormValue("confirm_password")
	username, err := p.storages.ResetTokens.Verify(token)
	if err != nil {
		return err
	}
	if username == "" {
		return redirect(ctx, Session{}, "forgot", msgTokenInvalid, "")
	}
	resetErr := ""
	if password == "" {
		resetErr = msgFieldsRequired
	} else if len(password) < storage.MinPasswordLength {
		resetErr = msgPasswordLength
	} else if password != confirm {
		resetErr = msgPasswordMatch
	}
	if resetErr != "" {
		return ctx.Redirect(
			"/reset?token="+url.QueryEscape(token)+"&err="+url.QueryEscape(resetErr),
			fiber.StatusSeeOther,
		)
	}
	if err = p.storages.Users.UpdatePassword(username, password); err != nil {
		return err
	}
	if err = p.storages.ResetTokens.Consume(token); err != nil {
		return err
	}
	log.WithField("username", username).Info("password reset via token")
	s := Reduce(Session{View: ViewForgot}, EventPasswordReset{})
	return redirect(ctx, s, "login", "", msgPasswordChanged)
}

func (p *Portal) handleLogout(ctx *fiber.Ctx) error {
	s := Reduce(p.session(ctx), EventLoggedOut{})
	return redirect(ctx, s, "", "", "")
}

// handleLaunch forwards an authenticated user to a sub-application with the
// identity parameters appended to the application URL.
func (p *Portal) handleLaunch(ctx *fiber.Ctx) error {
	s := p.session(ctx)
	if !s.LoggedIn() {
		return redirect(ctx, Session{}, "login", msgLoginRequired, "")
	}
	slug := ctx.Params("slug")
	cacheKey := cache.Key(cache.KeyLaunchURLs, slug, strings.ToLower(s.User))
	var target string
	set, err := cache.Get(cacheKey, &target)
	if err == nil && set {
		return ctx.Redirect(target, fiber.StatusSeeOther)
	}
	for _, app := range p.apps {
		if app.Slug == slug {
			target = LaunchURL(app.URL, s)
			if err = cache.Set(cacheKey, target, contentCachePeriod); err != nil {
				log.WithError(err).Warn("could not cache launch url")
			}
			return ctx.Redirect(target, fiber.StatusSeeOther)
		}
	}
	return fiber.ErrNotFound
}
