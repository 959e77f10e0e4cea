package mongo

import (
	"strings"

	"github.com/kailas-cloud/entdoc/internal/db"
)

// Connection defaults applied when building from discrete parameters.
const (
	DefaultProtocol = "mongodb"
	DefaultHost     = "localhost"
	DefaultPort     = "27017"
)

// Params holds connection input: either URL, or discrete fields with DB set.
type Params struct {
	URL      string
	DB       string
	Host     string // comma-separated host list
	Port     string // comma-separated port list, one per host
	Protocol string // "mongodb" or "mongodb+srv"
	User     string
	Pass     string
	Options  string // raw query string without the leading "?"
}

// Resolved is the outcome of Params.Resolve: every field filled and URL built.
type Resolved struct {
	Protocol string
	User     string
	Pass     string
	Host     string
	Port     string
	DB       string
	Options  string
	URL      string
}

// Resolve parses URL when set, otherwise builds one from the discrete fields.
func (p Params) Resolve() (Resolved, error) {
	switch {
	case strings.TrimSpace(p.URL) != "":
		return parseURL(p.URL)
	case strings.TrimSpace(p.DB) != "":
		return p.build()
	default:
		return Resolved{}, &db.ConfigurationError{Reason: "connection parameters are missing"}
	}
}

// parseURL splits scheme://[user[:pass]@]host1[:port1][,hostN[:portN]]/db[?options].
func parseURL(raw string) (Resolved, error) {
	parts := strings.Split(raw, "://")
	if len(parts) != 2 || parts[0] == "" {
		return Resolved{}, &db.ConnectionStringError{Reason: "missing or repeated scheme separator"}
	}
	r := Resolved{Protocol: parts[0], URL: raw}

	rest := parts[1]
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		creds := rest[:at]
		rest = rest[at+1:]
		user, pass, hasPass := strings.Cut(creds, ":")
		r.User = user
		if hasPass {
			r.Pass = pass
		}
	}

	hostPart, path, hasPath := strings.Cut(rest, "/")
	if hostPart == "" {
		return Resolved{}, &db.ConnectionStringError{Reason: "missing host"}
	}
	hosts := strings.Split(hostPart, ",")
	names := make([]string, 0, len(hosts))
	ports := make([]string, 0, len(hosts))
	for _, h := range hosts {
		name, port, hasPort := strings.Cut(h, ":")
		if !hasPort || port == "" {
			port = DefaultPort
		}
		names = append(names, name)
		ports = append(ports, port)
	}
	r.Host = strings.Join(names, ",")
	r.Port = strings.Join(ports, ",")

	if !hasPath {
		return Resolved{}, &db.ConnectionStringError{Reason: "missing database segment"}
	}
	dbName, opts, _ := strings.Cut(path, "?")
	if dbName == "" {
		return Resolved{}, &db.ConnectionStringError{Reason: "missing database name"}
	}
	r.DB = dbName
	r.Options = opts
	return r, nil
}

func (p Params) build() (Resolved, error) {
	r := Resolved{
		Protocol: orDefault(p.Protocol, DefaultProtocol),
		Host:     orDefault(p.Host, DefaultHost),
		Port:     orDefault(p.Port, DefaultPort),
		DB:       p.DB,
		Options:  p.Options,
		User:     p.User,
		Pass:     p.Pass,
	}

	hosts := strings.Split(r.Host, ",")
	ports := strings.Split(r.Port, ",")
	if len(hosts) != len(ports) {
		return Resolved{}, &db.ConfigurationError{Reason: "number of hosts does not match number of ports"}
	}

	var b strings.Builder
	b.WriteString(r.Protocol)
	b.WriteString("://")
	if strings.TrimSpace(p.User) != "" && strings.TrimSpace(p.Pass) != "" {
		b.WriteString(p.User)
		b.WriteByte(':')
		b.WriteString(p.Pass)
		b.WriteByte('@')
	}
	for i := range hosts {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strings.TrimSpace(hosts[i]))
		b.WriteByte(':')
		b.WriteString(strings.TrimSpace(ports[i]))
	}
	b.WriteByte('/')
	b.WriteString(p.DB)
	if strings.TrimSpace(p.Options) != "" {
		b.WriteByte('?')
		b.WriteString(p.Options)
	}
	r.URL = b.String()
	return r, nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
