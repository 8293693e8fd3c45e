package idgen

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func fixedClock() func() time.Time {
	return func() time.Time { return time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC) }
}

func TestGenerator_AdminIDs(t *testing.T) {
	g := NewInMemory(WithClock(fixedClock()))
	ctx := context.Background()
	created := time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)

	first, err := g.NewAdminID(ctx, created)
	require.NoError(t, err)
	require.Equal(t, "ADM202312010000", first)

	second, err := g.NewAdminID(ctx, time.Time{})
	require.NoError(t, err)
	require.Equal(t, "ADM202403090001", second)
}

func TestGenerator_StudentIDs(t *testing.T) {
	g := NewInMemory(WithClock(fixedClock()))
	ctx := context.Background()
	dob := time.Date(2005, 7, 14, 0, 0, 0, 0, time.UTC)

	first, err := g.NewStudentID(ctx, &dob)
	require.NoError(t, err)
	require.Equal(t, "200507140001", first)

	second, err := g.NewStudentID(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, "202403090002", second)
}

func TestGenerator_CounterGrowsPastFourDigits(t *testing.T) {
	g := New(NewAtomicSequence(10000), NewAtomicSequence(1), WithClock(fixedClock()))

	id, err := g.NewAdminID(context.Background(), time.Time{})
	require.NoError(t, err)
	require.Equal(t, "ADM2024030910000", id)
}

func TestGenerator_ConcurrentIDsAreDistinct(t *testing.T) {
	g := NewInMemory(WithClock(fixedClock()))
	const n = 200

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		ids = make(map[string]struct{}, 2*n)
	)
	for i := 0; i < n; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			id, err := g.NewAdminID(context.Background(), time.Time{})
			assert.NoError(t, err)
			mu.Lock()
			ids[id] = struct{}{}
			mu.Unlock()
		}()
		go func() {
			defer wg.Done()
			id, err := g.NewStudentID(context.Background(), nil)
			assert.NoError(t, err)
			mu.Lock()
			ids[id] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()
	require.Len(t, ids, 2*n)
}

type failingSequence struct{}

func (failingSequence) Next(context.Context) (int64, error) { return 0, errors.New("down") }

func TestGenerator_SequenceError(t *testing.T) {
	g := New(failingSequence{}, failingSequence{})

	_, err := g.NewAdminID(context.Background(), time.Now())
	require.ErrorContains(t, err, "admin sequence")

	_, err = g.NewStudentID(context.Background(), nil)
	require.ErrorContains(t, err, "student sequence")
}

func TestIsAdminID(t *testing.T) {
	require.True(t, IsAdminID("ADM202401010000"))
	require.True(t, IsAdminID("xxADMyy"))
	require.False(t, IsAdminID("200507140001"))
	require.False(t, IsAdminID(""))
}

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, _ := c.Host(ctx)
	port, _ := c.MappedPort(ctx, "6379/tcp")
	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestIntegration_RedisSequenceSharedAcrossGenerators(t *testing.T) {
	client := startRedis(t)
	ctx := context.Background()

	a := NewRedis(client, "test:seq:", WithClock(fixedClock()))
	b := NewRedis(client, "test:seq:", WithClock(fixedClock()))

	id1, err := a.NewStudentID(ctx, nil)
	require.NoError(t, err)
	id2, err := b.NewStudentID(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, "202403090001", id1)
	require.Equal(t, "202403090002", id2)

	adm, err := b.NewAdminID(ctx, time.Time{})
	require.NoError(t, err)
	require.Equal(t, "ADM202403090000", adm)
}
