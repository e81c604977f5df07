package db

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	apperrors "carlot/internal/errors"
)

// ErrSessionUnavailable is returned when a checked-out connection cannot be configured.
var ErrSessionUnavailable = errors.New("db session unavailable")

type sessionKey struct{}

// SessionOptions are the per-connection settings applied on every checkout.
type SessionOptions struct {
	SQLMode  string
	TimeZone string
}

// Pool hands out one dedicated connection per unit of work.
type Pool struct {
	db   *gorm.DB
	opts SessionOptions
}

// NewPool wraps a GORM handle with session settings.
func NewPool(db *gorm.DB, opts SessionOptions) *Pool {
	return &Pool{db: db, opts: opts}
}

// DB returns the shared pool handle.
func (p *Pool) DB() *gorm.DB {
	return p.db
}

// WithSession checks out a single connection, configures it, binds it to the
// context passed to fn and returns it to the pool once fn is done, whatever
// the outcome.
func (p *Pool) WithSession(ctx context.Context, fn func(ctx context.Context) error) error {
	return p.db.WithContext(ctx).Connection(func(tx *gorm.DB) error {
		session := tx.Session(&gorm.Session{NewDB: true, Context: ctx})
		if err := p.configure(session); err != nil {
			return err
		}
		return fn(context.WithValue(ctx, sessionKey{}, session))
	})
}

func (p *Pool) configure(session *gorm.DB) error {
	if p.opts.SQLMode != "" {
		if err := session.Exec("SET SESSION sql_mode = ?", p.opts.SQLMode).Error; err != nil {
			return fmt.Errorf("%w: set sql_mode: %v", ErrSessionUnavailable, err)
		}
	}
	if p.opts.TimeZone != "" {
		if err := session.Exec("SET time_zone = ?", p.opts.TimeZone).Error; err != nil {
			return fmt.Errorf("%w: set time_zone: %v", ErrSessionUnavailable, err)
		}
	}
	return nil
}

// Middleware runs every request inside its own session. Failing to obtain
// or configure the session is reported as 503 before any handler runs.
func (p *Pool) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			entered := false
			err := p.WithSession(req.Context(), func(ctx context.Context) error {
				entered = true
				c.SetRequest(req.WithContext(ctx))
				return next(c)
			})
			if err != nil && !entered {
				c.Logger().Errorf("acquire db session: %v", err)
				return echo.NewHTTPError(http.StatusServiceUnavailable, apperrors.ErrorResponse{
					Error: "database unavailable",
					Code:  "DATABASE_UNAVAILABLE",
				})
			}
			return err
		}
	}
}

// Ping verifies the database is reachable.
func (p *Pool) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Conn returns the session bound to ctx, or fallback scoped to ctx when the
// caller runs outside a session.
func Conn(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if session, ok := ctx.Value(sessionKey{}).(*gorm.DB); ok {
		return session.WithContext(ctx)
	}
	return fallback.WithContext(ctx)
}

// HasSession reports whether ctx carries a checked-out session.
func HasSession(ctx context.Context) bool {
	_, ok := ctx.Value(sessionKey{}).(*gorm.DB)
	return ok
}
