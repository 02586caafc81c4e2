package settings

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"dicekeeper/models"

	"github.com/google/uuid"
)

// customIDPrefix namespaces all component custom ids owned by this feature
const customIDPrefix = "srvset"

// sessionTimeout is how long a menu stays interactive without activity
const sessionTimeout = 5 * time.Minute

// menuScreen identifies which screen of the settings menu is shown
type menuScreen int

const (
	screenRoot menuScreen = iota
	screenLookup
	screenInlineRolling
	screenRandchar
	screenMiscellaneous
)

// menuSession is the per-invocation state of one open settings menu.
// It is owned by a single user and scoped to a single guild.
type menuSession struct {
	mu sync.Mutex

	// docMu serializes mutation and persistence of the settings document,
	// and the reads a render performs while building a screen. Interaction
	// handlers run concurrently; without this a toggle clicked while a
	// freeform flow awaits input would race its apply step.
	docMu sync.Mutex

	id        string
	ownerID   string // Discord user id of the invoker
	guildID   string
	channelID string
	messageID string // the message carrying the menu

	screen     menuScreen
	settings   *models.ServerSettings
	disabled   map[string]bool // actions locked while awaiting freeform input
	lastActive time.Time
}

// customID builds the component custom id for an action on this session
func (m *menuSession) customID(action string) string {
	return fmt.Sprintf("%s_%s_%s", customIDPrefix, m.id, action)
}

// parseCustomID splits a component custom id into session id and action.
// Returns ok=false for ids this feature doesn't own.
func parseCustomID(customID string) (sessionID, action string, ok bool) {
	parts := strings.SplitN(customID, "_", 3)
	if len(parts) != 3 || parts[0] != customIDPrefix {
		return "", "", false
	}
	return parts[1], parts[2], true
}

func (m *menuSession) touch() {
	m.mu.Lock()
	m.lastActive = time.Now()
	m.mu.Unlock()
}

func (m *menuSession) setScreen(screen menuScreen) {
	m.mu.Lock()
	m.screen = screen
	m.mu.Unlock()
}

func (m *menuSession) currentScreen() menuScreen {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.screen
}

// location returns where the menu message lives
func (m *menuSession) location() (channelID, messageID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.channelID, m.messageID
}

func (m *menuSession) disable(action string) {
	m.mu.Lock()
	m.disabled[action] = true
	m.mu.Unlock()
}

func (m *menuSession) enable(action string) {
	m.mu.Lock()
	delete(m.disabled, action)
	m.mu.Unlock()
}

func (m *menuSession) isDisabled(action string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.disabled[action]
}

// sessionRegistry tracks open menu sessions by id
type sessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*menuSession
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{sessions: make(map[string]*menuSession)}
}

// create registers a new session for a freshly opened menu
func (r *sessionRegistry) create(ownerID, guildID, channelID string, settings *models.ServerSettings) *menuSession {
	sess := &menuSession{
		id:         uuid.New().String(),
		ownerID:    ownerID,
		guildID:    guildID,
		channelID:  channelID,
		screen:     screenRoot,
		settings:   settings,
		disabled:   make(map[string]bool),
		lastActive: time.Now(),
	}

	r.mu.Lock()
	r.sessions[sess.id] = sess
	r.mu.Unlock()
	return sess
}

// get returns the session, or nil if it is unknown or expired. Expired
// sessions stay registered so the cleanup loop can release their menu message.
func (r *sessionRegistry) get(sessionID string) *menuSession {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[sessionID]
	if !ok {
		return nil
	}

	sess.mu.Lock()
	expired := time.Since(sess.lastActive) > sessionTimeout
	sess.mu.Unlock()
	if expired {
		return nil
	}
	return sess
}

func (r *sessionRegistry) remove(sessionID string) {
	r.mu.Lock()
	delete(r.sessions, sessionID)
	r.mu.Unlock()
}

// takeExpired removes and returns sessions idle past the timeout
func (r *sessionRegistry) takeExpired() []*menuSession {
	r.mu.Lock()
	defer r.mu.Unlock()

	var expired []*menuSession
	for id, sess := range r.sessions {
		sess.mu.Lock()
		idle := time.Since(sess.lastActive) > sessionTimeout
		sess.mu.Unlock()
		if idle {
			delete(r.sessions, id)
			expired = append(expired, sess)
		}
	}
	return expired
}
