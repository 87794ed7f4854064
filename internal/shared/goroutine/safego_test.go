package goroutine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/beneficlub/backoffice/internal/shared/logger"
)

type recordingLogger struct {
	logger.Interface
	mu     sync.Mutex
	errors []string
}

func (r *recordingLogger) Errorw(msg string, _ ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, msg)
}

func TestSafeGo(t *testing.T) {
	defer goleak.VerifyNone(t)

	var wg sync.WaitGroup
	wg.Add(1)
	ran := false
	SafeGo(logger.NewNopLogger(), "worker", func() {
		defer wg.Done()
		ran = true
	})
	wg.Wait()
	assert.True(t, ran)
}

func TestSafeGo_RecoversPanic(t *testing.T) {
	defer goleak.VerifyNone(t)

	log := &recordingLogger{Interface: logger.NewNopLogger()}
	done := make(chan struct{})
	SafeGo(log, "boom", func() {
		defer close(done)
		panic("kaboom")
	})
	<-done

	assert.Eventually(t, func() bool {
		log.mu.Lock()
		defer log.mu.Unlock()
		return len(log.errors) == 1
	}, time.Second, 5*time.Millisecond)
}
