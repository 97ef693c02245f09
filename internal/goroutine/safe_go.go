package goroutine

import (
	"fmt"
	"runtime/debug"

	"github.com/kpcrm/backend/internal/logger"
)

// SafeGo запускает fn в отдельной горутине и перехватывает panic, чтобы
// фоновая задача не уронила процесс. Паника логируется вместе со стеком.
func SafeGo(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logPanic(r)
			}
		}()
		fn()
	}()
}

// logPanic пишет панику в общий логгер, либо в stdout до его инициализации.
func logPanic(r interface{}) {
	if logger.Log != nil {
		logger.Log.Errorf("goroutine: перехвачена паника: %v\nStack trace:\n%s", r, debug.Stack())
		return
	}
	fmt.Printf("[ERROR] goroutine: перехвачена паника: %v\nStack trace:\n%s\n", r, debug.Stack())
}
