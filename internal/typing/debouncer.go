// Package typing ограничивает частоту сигнала «печатает»: не чаще одного раза за окно.
package typing

import (
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultWindow — окно, в течение которого повторный сигнал не отправляется.
const DefaultWindow = 3 * time.Second

type Debouncer struct {
	clock  clockwork.Clock
	window time.Duration

	mu      sync.Mutex
	last    time.Time
	emitted bool
}

func NewDebouncer(clock clockwork.Clock, window time.Duration) *Debouncer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Debouncer{clock: clock, window: window}
}

// Input вызывается на каждое изменение текста в поле ввода.
// Возвращает true, если нужно отправить сигнал: текст непустой и окно с прошлого сигнала истекло.
func (d *Debouncer) Input(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.clock.Now()
	if d.emitted && now.Sub(d.last) < d.window {
		return false
	}
	d.last = now
	d.emitted = true
	return true
}

// Reset открывает окно заново. Вызывается только при завершении сессии.
func (d *Debouncer) Reset() {
	d.mu.Lock()
	d.emitted = false
	d.mu.Unlock()
}
