package memory_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/imgbb/pkg/adapters/memory"
	"github.com/m-mizutani/imgbb/pkg/domain/interfaces"
)

func TestClient_PutGet(t *testing.T) {
	ctx := context.Background()
	client := memory.New()

	gt.NoError(t, client.Put(ctx, "receipts/a.json.gz", []byte("first")))
	gt.NoError(t, client.Put(ctx, "receipts/a.json.gz", []byte("second")))

	data, err := client.Get(ctx, "receipts/a.json.gz")
	gt.NoError(t, err)
	gt.Equal(t, data, []byte("second"))

	_, err = client.Get(ctx, "receipts/missing.json.gz")
	gt.True(t, errors.Is(err, interfaces.ErrStorageKeyNotFound))
}

func TestClient_CopiesData(t *testing.T) {
	ctx := context.Background()
	client := memory.New()

	in := []byte("receipt")
	gt.NoError(t, client.Put(ctx, "k", in))
	in[0] = 'X'

	out, err := client.Get(ctx, "k")
	gt.NoError(t, err)
	out[0] = 'Y'

	again, err := client.Get(ctx, "k")
	gt.NoError(t, err)
	gt.Equal(t, again, []byte("receipt"))
}

func TestClient_List(t *testing.T) {
	ctx := context.Background()
	client := memory.New()

	for _, key := range []string{"receipts/b.json.gz", "receipts/a.json.gz", "other/c"} {
		gt.NoError(t, client.Put(ctx, key, []byte("x")))
	}

	keys, err := client.List(ctx, "receipts/")
	gt.NoError(t, err)
	gt.Equal(t, keys, []string{"receipts/a.json.gz", "receipts/b.json.gz"})

	keys, err = client.List(ctx, "none/")
	gt.NoError(t, err)
	gt.A(t, keys).Length(0)
}

func TestClient_ConcurrentPut(t *testing.T) {
	ctx := context.Background()
	client := memory.New()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = client.Put(ctx, fmt.Sprintf("receipts/%02d", i), []byte("x"))
		}(i)
	}
	wg.Wait()

	keys, err := client.List(ctx, "receipts/")
	gt.NoError(t, err)
	gt.A(t, keys).Length(20)
}
