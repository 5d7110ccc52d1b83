// Package pgflow is the async, pipeline-mode PostgreSQL wire client: a
// handshake state machine, a duplex run-loop that lets writer and reader
// proceed concurrently, and a result-handler queue that keeps pipelined
// statement results paired with the right caller even when one of them
// is cancelled mid-flight.
package pgflow

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgpassfile"
	"github.com/jackc/pgservicefile"

	"github.com/ashtum/asiofied-libpq/pgtype"
)

// DialFunc opens the network connection a Config will speak the wire
// protocol over.
type DialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// Config holds the settings needed to establish and drive one
// connection. Build one with ParseConfig (or populate it directly) and
// pass it to Connect.
type Config struct {
	Host     string // host or path to a Unix domain socket directory
	Port     uint16
	Database string
	User     string
	Password string

	TLSConfig     *tls.Config // nil disables TLS
	DialFunc      DialFunc
	RuntimeParams map[string]string // session defaults, e.g. application_name

	ConnectTimeout time.Duration

	// TypeMap is the OID registry new connections share. If nil,
	// Connect creates a fresh pgtype.NewMap() per connection.
	TypeMap *pgtype.Map

	Tracer Tracer
}

func defaultSettings() map[string]string {
	return map[string]string{
		"host":             defaultHost(),
		"port":             "5432",
		"user":             defaultUser(),
		"connect_timeout":  "",
		"sslmode":          "prefer",
		"application_name": "",
	}
}

func defaultHost() string {
	return "localhost"
}

func defaultUser() string {
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return os.Getenv("USER")
}

var envKeys = map[string]string{
	"PGHOST":            "host",
	"PGPORT":             "port",
	"PGDATABASE":         "database",
	"PGUSER":             "user",
	"PGPASSWORD":         "password",
	"PGPASSFILE":         "passfile",
	"PGSERVICE":          "service",
	"PGSERVICEFILE":      "servicefile",
	"PGSSLMODE":          "sslmode",
	"PGAPPNAME":          "application_name",
	"PGCONNECT_TIMEOUT":  "connect_timeout",
}

func addEnvSettings(settings map[string]string) {
	for envname, key := range envKeys {
		if value, present := os.LookupEnv(envname); present {
			settings[key] = value
		}
	}
}

// ParseConfig builds a Config from connString, which may be a
// "postgres://" URL or a space-separated "key=value" DSN, falling back
// to PG* environment variables and ~/.pgpass / ~/.pg_service.conf for
// anything the string leaves unset.
func ParseConfig(connString string) (*Config, error) {
	settings := defaultSettings()
	addEnvSettings(settings)

	if service, ok := settings["service"]; ok && service != "" {
		if err := addServiceSettings(settings, service); err != nil {
			return nil, err
		}
	}

	if connString != "" {
		var err error
		if strings.HasPrefix(connString, "postgres://") || strings.HasPrefix(connString, "postgresql://") {
			err = addURLSettings(settings, connString)
		} else {
			err = addDSNSettings(settings, connString)
		}
		if err != nil {
			return nil, fmt.Errorf("pgflow: %w", err)
		}
	}

	port, err := strconv.ParseUint(settings["port"], 10, 16)
	if err != nil {
		return nil, fmt.Errorf("pgflow: invalid port %q: %w", settings["port"], err)
	}

	config := &Config{
		Host:          settings["host"],
		Port:          uint16(port),
		Database:      settings["database"],
		User:          settings["user"],
		Password:      settings["password"],
		RuntimeParams: map[string]string{},
	}

	if settings["application_name"] != "" {
		config.RuntimeParams["application_name"] = settings["application_name"]
	}

	if settings["sslmode"] != "" && settings["sslmode"] != "disable" {
		config.TLSConfig = &tls.Config{ServerName: config.Host}
	}

	if config.Password == "" {
		if pw, ok := lookupPassfile(settings); ok {
			config.Password = pw
		}
	}

	if ct := settings["connect_timeout"]; ct != "" {
		secs, err := strconv.Atoi(ct)
		if err == nil {
			config.ConnectTimeout = time.Duration(secs) * time.Second
		}
	}

	dialer := &net.Dialer{}
	if config.ConnectTimeout > 0 {
		dialer.Timeout = config.ConnectTimeout
	}
	config.DialFunc = dialer.DialContext

	return config, nil
}

func addServiceSettings(settings map[string]string, service string) error {
	servicefilePath := settings["servicefile"]
	if servicefilePath == "" {
		homedir, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		servicefilePath = filepath.Join(homedir, ".pg_service.conf")
	}

	sf, err := pgservicefile.ReadServicefile(servicefilePath)
	if err != nil {
		return nil // absence of a service file is not an error
	}

	svc, err := sf.GetService(service)
	if err != nil {
		return nil
	}

	for k, v := range svc.Settings {
		settings[k] = v
	}
	return nil
}

func lookupPassfile(settings map[string]string) (string, bool) {
	passfilePath := settings["passfile"]
	if passfilePath == "" {
		homedir, err := os.UserHomeDir()
		if err != nil {
			return "", false
		}
		passfilePath = filepath.Join(homedir, ".pgpass")
	}

	pf, err := pgpassfile.ReadPassfile(passfilePath)
	if err != nil {
		return "", false
	}

	return pf.FindPassword(settings["host"], settings["port"], settings["database"], settings["user"]), pf != nil
}

func addURLSettings(settings map[string]string, connString string) error {
	u, err := url.Parse(connString)
	if err != nil {
		return fmt.Errorf("invalid connection URL: %w", err)
	}

	if u.User != nil {
		settings["user"] = u.User.Username()
		if pw, ok := u.User.Password(); ok {
			settings["password"] = pw
		}
	}

	if host, port, err := net.SplitHostPort(u.Host); err == nil {
		settings["host"] = host
		settings["port"] = port
	} else if u.Host != "" {
		settings["host"] = u.Host
	}

	if db := strings.TrimPrefix(u.Path, "/"); db != "" {
		settings["database"] = db
	}

	for k, v := range u.Query() {
		if len(v) > 0 {
			settings[k] = v[0]
		}
	}

	return nil
}

func addDSNSettings(settings map[string]string, connString string) error {
	for len(connString) > 0 {
		connString = strings.TrimLeft(connString, " \t\r\n")
		if connString == "" {
			break
		}

		eqIdx := strings.IndexByte(connString, '=')
		if eqIdx < 0 {
			return fmt.Errorf("invalid dsn, missing '=' near %q", connString)
		}
		key := connString[:eqIdx]
		rest := connString[eqIdx+1:]

		var value string
		if strings.HasPrefix(rest, "'") {
			rest = rest[1:]
			end := strings.IndexByte(rest, '\'')
			if end < 0 {
				return fmt.Errorf("unterminated quoted value for key %q", key)
			}
			value = rest[:end]
			rest = rest[end+1:]
		} else {
			spIdx := strings.IndexAny(rest, " \t\r\n")
			if spIdx < 0 {
				value = rest
				rest = ""
			} else {
				value = rest[:spIdx]
				rest = rest[spIdx:]
			}
		}

		settings[strings.ToLower(strings.TrimSpace(key))] = value
		connString = rest
	}
	return nil
}
