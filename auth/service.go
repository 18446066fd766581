package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/user/tareas-go/apperror"
	"github.com/user/tareas-go/forms"
	"github.com/user/tareas-go/users"
)

// Notices shown around the login flow.
const (
	InvalidCredentialsMessage = "Invalid credentials"
	LoginRequiredMessage      = "Please log in to access this page."
	LoggedInMessage           = "Logged in successfully."
	LoggedOutMessage          = "You have been logged out."
	UserCreatedMessage        = "User created successfully"
)

// PasswordVerifier checks a plaintext password against a stored hash.
type PasswordVerifier interface {
	Verify(plaintext, hash string) bool
	// CompareDummy spends the same effort as Verify without a real hash.
	CompareDummy(plaintext string)
}

// WelcomeNotifier is told about every new account. Implementations must not block.
type WelcomeNotifier interface {
	EnqueueWelcome(user *users.User) bool
}

// Session is the result of a successful login or registration.
type Session struct {
	Identity  *Identity
	Token     string
	ExpiresAt time.Time
}

// GatewayDeps are the collaborators of a Gateway.
type GatewayDeps struct {
	Users      *users.Service
	Verifier   PasswordVerifier
	Sessions   SessionStore
	Tokens     *TokenSigner
	Validator  *forms.Validator
	Welcome    WelcomeNotifier // optional
	SessionTTL time.Duration
	Logger     *slog.Logger
}

// Gateway owns the Anonymous <-> Authenticated transitions.
type Gateway struct {
	users     *users.Service
	verifier  PasswordVerifier
	sessions  SessionStore
	tokens    *TokenSigner
	validator *forms.Validator
	welcome   WelcomeNotifier
	ttl       time.Duration
	logger    *slog.Logger
}

// NewGateway creates a Gateway.
func NewGateway(d GatewayDeps) *Gateway {
	if d.SessionTTL <= 0 {
		d.SessionTTL = 24 * time.Hour
	}
	return &Gateway{
		users:     d.Users,
		verifier:  d.Verifier,
		sessions:  d.Sessions,
		tokens:    d.Tokens,
		validator: d.Validator,
		welcome:   d.Welcome,
		ttl:       d.SessionTTL,
		logger:    d.Logger,
	}
}

// Login verifies the credentials and opens a session.
// An unknown username and a wrong password produce the same AuthError.
func (g *Gateway) Login(ctx context.Context, username, password string) (*Session, error) {
	user, err := g.users.GetByUsername(ctx, username)
	if err != nil {
		if apperror.IsNotFound(err) {
			g.verifier.CompareDummy(password)
			return nil, apperror.NewAuthError(InvalidCredentialsMessage, nil)
		}
		return nil, err
	}

	if !g.verifier.Verify(password, user.PasswordHash) {
		g.logger.InfoContext(ctx, "login rejected", "user_id", user.ID)
		return nil, apperror.NewAuthError(InvalidCredentialsMessage, nil)
	}

	s, err := g.establish(ctx, user)
	if err != nil {
		return nil, err
	}
	g.logger.InfoContext(ctx, "user logged in", "user_id", user.ID)
	return s, nil
}

// Register validates the form, creates the account, queues the welcome mail and logs the user in.
// Field problems, including an already taken username or email, come back as one ValidationError.
func (g *Gateway) Register(ctx context.Context, form forms.RegisterForm) (*Session, error) {
	errs := g.validator.Validate(form)
	if errs == nil {
		errs = forms.Errors{}
	}

	// Availability is only worth asking about for values that are otherwise valid.
	if !errs.Has("username") {
		taken, err := g.users.UsernameTaken(ctx, form.Username)
		if err != nil {
			return nil, err
		}
		if taken {
			errs.Add("username", users.UsernameTakenMessage)
		}
	}
	if !errs.Has("email") {
		taken, err := g.users.EmailTaken(ctx, form.Email)
		if err != nil {
			return nil, err
		}
		if taken {
			errs.Add("email", users.EmailTakenMessage)
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	user, err := g.users.Create(ctx, form.Username, form.Password, form.Email)
	if err != nil {
		// Lost a race with a concurrent registration: report it like the check above would have.
		if appErr, ok := apperror.FromError(err); ok && appErr.Type == apperror.ConflictError {
			return nil, apperror.NewValidationError(forms.InvalidFormMessage, appErr.Fields)
		}
		return nil, err
	}

	if g.welcome != nil && !g.welcome.EnqueueWelcome(user) {
		g.logger.WarnContext(ctx, "welcome mail not queued", "user_id", user.ID)
	}

	return g.establish(ctx, user)
}

// Logout revokes the session of the identity. It is a no-op for anonymous requests.
func (g *Gateway) Logout(ctx context.Context, id *Identity) error {
	if id == nil || id.SessionID == "" {
		return nil
	}
	if err := g.sessions.Delete(ctx, id.SessionID); err != nil {
		return apperror.NewDatabaseError("failed to delete session", err)
	}
	g.logger.InfoContext(ctx, "user logged out", "user_id", id.UserID)
	return nil
}

// Load resolves a session token into an identity. Bad, expired or revoked tokens and deleted
// users all yield (nil, nil), i.e. an anonymous request. Only store failures are errors.
func (g *Gateway) Load(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, nil
	}

	claims, err := g.tokens.Parse(token)
	if err != nil {
		g.logger.DebugContext(ctx, "ignoring session token", "error", err)
		return nil, nil
	}

	userID, err := g.sessions.Load(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, nil
		}
		return nil, apperror.NewDatabaseError("failed to load session", err)
	}
	if userID != claims.UserID {
		return nil, nil
	}

	user, err := g.users.GetByID(ctx, userID)
	if err != nil {
		if apperror.IsNotFound(err) {
			_ = g.sessions.Delete(ctx, claims.SessionID)
			return nil, nil
		}
		return nil, err
	}

	return &Identity{UserID: user.ID, Username: user.Username, SessionID: claims.SessionID}, nil
}

func (g *Gateway) establish(ctx context.Context, user *users.User) (*Session, error) {
	sid, err := g.sessions.Create(ctx, user.ID, g.ttl)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to create session", err)
	}
	token, err := g.tokens.Sign(sid, user.ID, g.ttl)
	if err != nil {
		_ = g.sessions.Delete(ctx, sid)
		return nil, apperror.NewInternalError("failed to issue session token", err)
	}
	return &Session{
		Identity:  &Identity{UserID: user.ID, Username: user.Username, SessionID: sid},
		Token:     token,
		ExpiresAt: time.Now().Add(g.ttl),
	}, nil
}
