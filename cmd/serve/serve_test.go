package serve

import (
	"context"
	"testing"
	"time"

	"fjacquet/statement-import/internal/api"
	"fjacquet/statement-import/internal/logging"

	"github.com/stretchr/testify/assert"
)

func TestServeCommand_Flags(t *testing.T) {
	assert.Equal(t, "serve", Cmd.Use)
	assert.Equal(t, "", Cmd.Flags().Lookup("addr").DefValue)
	assert.Equal(t, "10s", Cmd.Flags().Lookup("shutdown-timeout").DefValue)
}

func TestRun_ListenError(t *testing.T) {
	srv := api.NewServer(api.Config{Logger: logging.NewDiscardLogger()})

	done := make(chan error, 1)
	go func() {
		done <- run(context.Background(), srv, "127.0.0.1:-1", time.Second, logging.NewDiscardLogger())
	}()

	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after the listener failed")
	}
}
