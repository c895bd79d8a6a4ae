package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/gokatarajesh/learnhub/internal/catalog/remote"
)

func TestWarmerRefreshesUntilCancelled(t *testing.T) {
	rm := new(mockRemote)
	rm.On("List", mock.Anything).Return([]remote.Quiz{remoteQuiz("1", remote.StatusPublished)}, nil)
	cache := &memoryCache{}
	svc := NewService(rm, ServiceOptions{Cache: cache}, zerolog.Nop())
	w := NewWarmer(svc, 10*time.Millisecond, time.Second, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	err := w.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, len(rm.Calls), 2)
}

func TestWarmerDisabled(t *testing.T) {
	w := NewWarmer(nil, 0, 0, zerolog.Nop())
	assert.NoError(t, w.Run(context.Background()))
}
