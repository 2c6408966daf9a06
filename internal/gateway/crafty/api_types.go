package crafty

import (
	"encoding/json"
	"time"

	"craftybot/internal/pkg/convert"
)

// Action is the verb segment of POST /servers/{id}/action/{action}.
type Action string

const (
	ActionStart  Action = "start_server"
	ActionStop   Action = "stop_server"
	ActionBackup Action = "backup_server"
)

// Text decodes a JSON string or scalar into a string. Crafty has sent ids and
// sizes as both numbers and strings across releases.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*t = Text(convert.ToString(raw))
	return nil
}

func (t Text) String() string { return string(t) }

// Int decodes numbers and numeric strings.
type Int int

func (i *Int) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*i = Int(convert.ToInt(raw))
	return nil
}

// Float decodes numbers and numeric strings ("12.5", "12.5%").
type Float float64

func (f *Float) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*f = Float(convert.ToFloat64(raw))
	return nil
}

// Bool decodes booleans, "true"/"false" strings and 0/1.
type Bool bool

func (v *Bool) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*v = Bool(convert.ToBool(raw))
	return nil
}

// ServerSummary is one entry of GET /servers.
type ServerSummary struct {
	ID   Text `json:"server_id"`
	Name Text `json:"server_name"`
	Type Text `json:"type"`
}

// ServerDetail is the payload of GET /servers/{id}.
type ServerDetail struct {
	ID             Text `json:"server_id"`
	UUID           Text `json:"server_uuid"`
	Name           Text `json:"server_name"`
	Type           Text `json:"type"`
	IP             Text `json:"server_ip"`
	Port           Int  `json:"server_port"`
	Created        Text `json:"created"`
	AutoStart      Bool `json:"auto_start"`
	CrashDetection Bool `json:"crash_detection"`
}

// ServerStats is the payload of GET /servers/{id}/stats.
type ServerStats struct {
	Running      Bool  `json:"running"`
	Crashed      Bool  `json:"crashed"`
	WaitingStart Bool  `json:"waiting_start"`
	Updating     Bool  `json:"updating"`
	Online       Int   `json:"online"`
	Max          Int   `json:"max"`
	CPU          Float `json:"cpu"`
	Mem          Text  `json:"mem"`
	MemPercent   Float `json:"mem_percent"`
	WorldSize    Text  `json:"world_size"`
	Version      Text  `json:"version"`
	Desc         Text  `json:"desc"`
	Started      Text  `json:"started"`
}

// Players is the current/maximum player count of a running server.
type Players struct {
	Current int
	Max     int
}

// StatusSnapshot is a point-in-time read of a server. It is a value: the With*
// helpers return modified copies and never touch the receiver.
type StatusSnapshot struct {
	Target    string
	Running   bool
	Players   *Players
	LogTail   []string
	LogsRead  bool
	FetchedAt time.Time
}

// SnapshotFromStats builds a snapshot without log data.
func SnapshotFromStats(target string, stats ServerStats, at time.Time) StatusSnapshot {
	snap := StatusSnapshot{
		Target:    target,
		Running:   bool(stats.Running),
		FetchedAt: at,
	}
	if snap.Running {
		snap.Players = &Players{Current: int(stats.Online), Max: int(stats.Max)}
	}
	return snap
}

// WithLogTail returns a copy carrying lines (most recent last).
func (s StatusSnapshot) WithLogTail(lines []string) StatusSnapshot {
	out := s
	out.LogTail = append([]string(nil), lines...)
	out.LogsRead = true
	if s.Players != nil {
		p := *s.Players
		out.Players = &p
	}
	return out
}
