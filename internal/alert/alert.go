package alert

import (
	"io"
	"sync"

	"github.com/Joseda-hg/studentguide/internal/logger"
)

// Alerter signals the user that something finished or came due.
type Alerter interface {
	Alert(message string)
}

// Bell rings the terminal bell on w and logs the message.
type Bell struct {
	mu  sync.Mutex
	w   io.Writer
	log *logger.Logger
}

func NewBell(w io.Writer, log *logger.Logger) *Bell {
	return &Bell{w: w, log: log}
}

func (b *Bell) Alert(message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := io.WriteString(b.w, "\a"); err != nil {
		b.log.Warn("ring bell", "error", err)
	}
	b.log.Info("alert", "message", message)
}
