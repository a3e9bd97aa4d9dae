package goroutine

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/ignatzorin/cleancity-backend/internal/logger"
)

func logPanic(r any) {
	if logger.Log != nil {
		logger.Log.Errorf("Panic in goroutine: %v\nStack trace:\n%s", r, debug.Stack())
		return
	}
	fmt.Printf("[ERROR] Panic in goroutine: %v\nStack trace:\n%s\n", r, debug.Stack())
}

// SafeGo запускает горутину с обработкой panic.
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

// SafeGoWithContext запускает горутину с контекстом и обработкой panic.
func SafeGoWithContext(ctx context.Context, fn func(context.Context)) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logPanic(r)
			}
		}()
		fn(ctx)
	}()
}
