package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/imunetrack/internal/dbx"
	"github.com/dmitrijs2005/imunetrack/internal/logging"
	"github.com/dmitrijs2005/imunetrack/internal/server/config"
	"github.com/dmitrijs2005/imunetrack/internal/server/notify"
)

func memoryConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.DatabaseDSN = config.MemoryDSN
	c.EndpointAddrHTTP = "127.0.0.1:0"
	c.EndpointAddrGRPC = "127.0.0.1:0"
	c.ShutdownTimeout = time.Second
	return c
}

func TestOpenStorage_Memory(t *testing.T) {
	conn, rm, err := OpenStorage(context.Background(), memoryConfig(), logging.Nop{})
	require.NoError(t, err)
	assert.Equal(t, dbx.NopConn{}, conn)
	assert.NotNil(t, rm)
}

func TestNewNotifier(t *testing.T) {
	c := memoryConfig()
	assert.IsType(t, notify.NopNotifier{}, newNotifier(c, logging.Nop{}))

	c.SMTPHost = "smtp.example.com"
	assert.IsType(t, &notify.SMTPNotifier{}, newNotifier(c, logging.Nop{}))
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	app, err := NewApp(context.Background(), memoryConfig(), logging.Nop{})
	require.NoError(t, err)
	require.NotNil(t, app.grpcServer)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("app did not stop after cancel")
	}
}

func TestApp_GRPCDisabled(t *testing.T) {
	c := memoryConfig()
	c.EndpointAddrGRPC = ""
	app, err := NewApp(context.Background(), c, logging.Nop{})
	require.NoError(t, err)
	assert.Nil(t, app.grpcServer)
}

func TestApp_RunReportsListenFailure(t *testing.T) {
	c := memoryConfig()
	c.EndpointAddrHTTP = "127.0.0.1:99999"
	c.EndpointAddrGRPC = ""
	app, err := NewApp(context.Background(), c, logging.Nop{})
	require.NoError(t, err)

	err = app.Run(context.Background())
	assert.ErrorContains(t, err, "http server")
}
