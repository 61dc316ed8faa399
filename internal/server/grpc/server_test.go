package grpc

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/client/client"
	"github.com/dmitrijs2005/gophbudget/internal/common"
	"github.com/dmitrijs2005/gophbudget/internal/models"
	"github.com/dmitrijs2005/gophbudget/internal/server/auth"
	"github.com/dmitrijs2005/gophbudget/internal/server/repositories/documents"
	"github.com/dmitrijs2005/gophbudget/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
)

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv := newTestServer("secret", &fakeDocuments{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err, "Run returned error on graceful stop")
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:99999", newTestServer("k", nil).logger, nil, "secret")
	require.Error(t, srv.Run(context.Background()))
}

// startBufconn serves a memory-backed server and returns a client dialed
// through the in-process listener.
func startBufconn(t *testing.T, token string) *client.GRPCClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := newTestServer("secret", services.NewDocumentService(documents.NewMemoryRepository()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, lis) }()

	c, err := client.NewDocumentsClient("passthrough:///bufnet", token,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = c.Close()
		cancel()
		<-done
	})
	return c
}

func TestEndToEnd_DocumentLifecycle(t *testing.T) {
	token, err := auth.GenerateToken("u1", []byte("secret"), time.Hour)
	require.NoError(t, err)
	c := startBufconn(t, token)
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))

	d := models.Document{
		Kind: models.KindCategory, ID: "c1", OwnerID: "u1",
		Payload:   json.RawMessage(`{"name":"Food","type":"expense"}`),
		CreatedAt: t0, UpdatedAt: t0,
	}
	require.NoError(t, c.Add(ctx, d))
	require.ErrorIs(t, c.Add(ctx, d), common.ErrAlreadyExists)

	d.Payload = json.RawMessage(`{"name":"Groceries","type":"expense"}`)
	d.UpdatedAt = t0.Add(time.Minute)
	require.NoError(t, c.Update(ctx, d))

	missing := d
	missing.ID = "c2"
	require.ErrorIs(t, c.Update(ctx, missing), common.ErrNotFound)

	require.NoError(t, c.SoftDelete(ctx, "u1", models.KindCategory, "c1", t0.Add(time.Hour)))

	docs, err := c.List(ctx, "u1", models.KindCategory)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Contains(t, string(docs[0].Payload), "Groceries")
	require.True(t, docs[0].IsTombstone())
	assert.True(t, t0.Add(time.Hour).Equal(*docs[0].DeletedAt))

	_, err = c.List(ctx, "u2", models.KindCategory)
	require.ErrorIs(t, err, common.ErrUnauthorized)

	bad := d
	bad.ID = "c3"
	bad.Payload = json.RawMessage(`{"name":"","type":"expense"}`)
	require.ErrorIs(t, c.Add(ctx, bad), common.ErrValidation)
}

func TestEndToEnd_NoTokenOnlyPings(t *testing.T) {
	c := startBufconn(t, "")
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))
	_, err := c.List(ctx, "u1", models.KindCategory)
	require.ErrorIs(t, err, common.ErrUnauthorized)
}
