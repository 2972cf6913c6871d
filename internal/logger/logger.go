// Package logger предоставляет логирование с префиксом сервиса и асинхронной записью,
// чтобы не блокировать основной цикл (TUI или HTTP). Поддерживается логирование времени выполнения функций.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"
)

const asyncBufferSize = 8192

var (
	prefix   string
	logLevel = levelInfo
	ch       chan string
	once     sync.Once
	out      = log.New(os.Stderr, "", log.LstdFlags)
	outMu    sync.Mutex
)

type level int

const (
	levelDebug level = iota
	levelInfo
)

// SetLevel задаёт уровень: "debug"/"trace" — всё, иначе info.
func SetLevel(l string) {
	switch l {
	case "debug", "trace":
		logLevel = levelDebug
	default:
		logLevel = levelInfo
	}
}

func initWorker() {
	SetLevel(os.Getenv("LOG_LEVEL"))
	ch = make(chan string, asyncBufferSize)
	go func() {
		for msg := range ch {
			outMu.Lock()
			out.Print(msg)
			outMu.Unlock()
		}
	}()
}

func enqueue(msg string) {
	once.Do(initWorker)
	select {
	case ch <- msg:
	default:
		// Буфер полон, не блокируем, теряем лог
	}
}

// SetPrefix задаёт префикс для всех последующих логов (например "client", "api").
func SetPrefix(p string) {
	prefix = p
}

// SetOutput перенаправляет вывод (TUI пишет лог в файл, а не в терминал).
func SetOutput(w io.Writer) {
	outMu.Lock()
	out.SetOutput(w)
	outMu.Unlock()
}

func tag() string {
	if prefix == "" {
		return ""
	}
	return "[" + prefix + "] "
}

// Info пишет в log с префиксом (асинхронно).
func Info(v ...any) {
	enqueue(tag() + fmt.Sprint(v...))
}

// Infof форматирует и пишет с префиксом (асинхронно).
func Infof(format string, v ...any) {
	enqueue(tag() + fmt.Sprintf(format, v...))
}

// Debugf пишет только при LOG_LEVEL=debug.
func Debugf(format string, v ...any) {
	once.Do(initWorker)
	if logLevel != levelDebug {
		return
	}
	enqueue(tag() + "DEBUG: " + fmt.Sprintf(format, v...))
}

// Error пишет ошибку с префиксом (асинхронно).
func Error(v ...any) {
	enqueue(tag() + "ERROR: " + fmt.Sprint(v...))
}

// Errorf форматирует ошибку с префиксом (асинхронно).
func Errorf(format string, v ...any) {
	enqueue(tag() + "ERROR: " + fmt.Sprintf(format, v...))
}

// LogDuration логирует имя функции и время выполнения в миллисекундах (асинхронно).
// При LOG_LEVEL=info логирует только вызовы дольше 100ms; при LOG_LEVEL=debug — все.
func LogDuration(fn string, start time.Time) {
	elapsed := time.Since(start)
	if logLevel == levelDebug || elapsed >= 100*time.Millisecond {
		enqueue(fmt.Sprintf("%sfn=%s duration_ms=%d", tag(), fn, elapsed.Milliseconds()))
	}
}

// DeferLogDuration возвращает функцию для вызова в defer: defer logger.DeferLogDuration("Store.Login", time.Now())().
func DeferLogDuration(fn string, start time.Time) func() {
	return func() { LogDuration(fn, start) }
}
