package profile

import (
	"time"

	"github.com/google/uuid"
)

// Transient success notices: shown after a save, dismissed automatically
// after the configured TTL. The dismissal timer carries the session id it
// was armed under, so a notice belonging to a closed or reopened session
// never clears (or survives into) a newer one.

// Notice returns the current success notice, empty once dismissed.
func (s *Session) Notice() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notice
}

// showNoticeLocked sets the notice and arms its dismissal. Callers hold s.mu.
func (s *Session) showNoticeLocked(msg string, sid uuid.UUID) {
	s.notice = msg
	if s.noticeTimer != nil {
		s.noticeTimer.Stop()
	}
	s.noticeTimer = time.AfterFunc(s.noticeTTL, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.id != sid {
			return
		}
		s.notice = ""
	})
}

// clearNoticeLocked drops the notice and cancels any pending dismissal.
// Callers hold s.mu.
func (s *Session) clearNoticeLocked() {
	s.notice = ""
	if s.noticeTimer != nil {
		s.noticeTimer.Stop()
		s.noticeTimer = nil
	}
}
