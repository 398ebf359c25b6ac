package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Config struct {
	DSN            string
	MaxConns       int
	Timeout        time.Duration
	TimeZone       string
	ClientEncoding string
}

func (c Config) withDefaults() Config {
	if c.MaxConns <= 0 {
		c.MaxConns = 5
	}
	if c.Timeout <= 0 {
		c.Timeout = 5 * time.Second
	}
	return c
}

// Connect opens a *sql.DB and verifies connectivity with a ping
func Connect(cfg Config) (*sql.DB, error) {
	cfg = cfg.withDefaults()
	db, err := sql.Open("postgres", dsnWithSession(cfg))
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(cfg.MaxConns)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return db, nil
}

// Open connects and wraps the handle with sqlx for the repositories.
func Open(cfg Config) (*sqlx.DB, error) {
	db, err := Connect(cfg)
	if err != nil {
		return nil, err
	}
	return sqlx.NewDb(db, "postgres"), nil
}

// dsnWithSession adds the session settings as startup parameters so every
// pooled connection gets them, not just the one a SET would run on.
// Both URL and key=value DSNs are handled.
func dsnWithSession(cfg Config) string {
	params := [][2]string{}
	if cfg.TimeZone != "" {
		params = append(params, [2]string{"timezone", cfg.TimeZone})
	}
	if cfg.ClientEncoding != "" {
		params = append(params, [2]string{"client_encoding", cfg.ClientEncoding})
	}
	if len(params) == 0 {
		return cfg.DSN
	}

	if u, err := url.Parse(cfg.DSN); err == nil && (u.Scheme == "postgres" || u.Scheme == "postgresql") {
		q := u.Query()
		for _, p := range params {
			q.Set(p[0], p[1])
		}
		u.RawQuery = q.Encode()
		return u.String()
	}

	var b strings.Builder
	b.WriteString(strings.TrimSpace(cfg.DSN))
	for _, p := range params {
		b.WriteString(" ")
		b.WriteString(p[0])
		b.WriteString("=")
		b.WriteString(quoteLiteral(p[1]))
	}
	return strings.TrimSpace(b.String())
}

// quoteLiteral escapes backslashes and single quotes and wraps the value
// in single quotes, as libpq key=value strings expect.
func quoteLiteral(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}
