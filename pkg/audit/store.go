package audit

import (
	"encoding/json"
	"os"
	"time"

	"github.com/jackc/pgtype"
	"gorm.io/gorm"

	"github.com/convoyrelief/convoyd/pkg/db"
)

// EnvDatabaseURL names the database audit messages are persisted to. Events
// are only written to the log when it is unset.
const EnvDatabaseURL = "CONVOYD_AUDIT_DATABASE_URL"

// Store persists audit events to the audit_messages table
type Store struct {
	db       *gorm.DB
	hostname string
	pid      int
}

// Message is one persisted audit event
type Message struct {
	ID        int64        `gorm:"column:id;primaryKey"`
	Facility  int          `gorm:"column:facility"`
	Severity  int          `gorm:"column:severity"`
	Timestamp time.Time    `gorm:"column:timestamp"`
	Hostname  string       `gorm:"column:hostname"`
	Appname   string       `gorm:"column:appname"`
	Procid    int          `gorm:"column:procid"`
	Msgid     string       `gorm:"column:msgid"`
	Sdata     pgtype.JSONB `gorm:"column:sdata;type:jsonb"`
	Message   string       `gorm:"column:message"`
}

func (Message) TableName() string {
	return "audit_messages"
}

// NewStore connects to CONVOYD_AUDIT_DATABASE_URL. It returns nil without
// error when the variable is unset.
func NewStore() (*Store, error) {
	dbURL := os.Getenv(EnvDatabaseURL)
	if dbURL == "" {
		return nil, nil
	}
	conn, err := db.Connect(db.Config{URL: dbURL})
	if err != nil {
		return nil, err
	}
	return NewStoreWithDB(conn), nil
}

// NewStoreWithDB creates a store on an open connection
func NewStoreWithDB(conn *gorm.DB) *Store {
	hostname, _ := os.Hostname()
	return &Store{db: conn, hostname: hostname, pid: os.Getpid()}
}

// Save persists an audit event
func (s *Store) Save(event Event) error {
	sdata, err := json.Marshal(event.StructuredData())
	if err != nil {
		return err
	}

	msg := Message{
		Facility:  event.Facility(),
		Severity:  int(event.Severity()),
		Timestamp: time.Now().UTC(),
		Hostname:  s.hostname,
		Appname:   defaultAppName,
		Procid:    s.pid,
		Msgid:     event.MessageID(),
		Sdata:     pgtype.JSONB{Bytes: sdata, Status: pgtype.Present},
		Message:   event.Message(),
	}
	return s.db.Exec(
		`INSERT INTO audit_messages (facility, severity, timestamp, hostname, appname, procid, msgid, sdata, message) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		msg.Facility, msg.Severity, msg.Timestamp, msg.Hostname, msg.Appname, msg.Procid, msg.Msgid, msg.Sdata, msg.Message,
	).Error
}

// Recent returns the latest persisted messages with the given message ID,
// newest first.
func (s *Store) Recent(msgid string, limit int) ([]Message, error) {
	messages := make([]Message, 0, limit)
	err := s.db.Raw(
		`SELECT id, facility, severity, timestamp, hostname, appname, procid, msgid, sdata, message
		 FROM audit_messages WHERE msgid = ? ORDER BY timestamp DESC, id DESC LIMIT ?`,
		msgid, limit,
	).Scan(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}
