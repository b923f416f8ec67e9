package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/lijamez/tonbot-plugin-trivia/internal/domain"
	"github.com/lijamez/tonbot-plugin-trivia/internal/infra/memory"
)

func TestPackRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)

	loader := &countingLoader{
		PackLoader: memory.NewStaticPackLoader(map[string]domain.Pack{
			"capitals": samplePack(),
		}),
	}
	repo := NewPackRepository(client, loader, time.Minute)

	pack, err := repo.GetPack(context.Background(), "capitals")
	if err != nil {
		t.Fatalf("get pack: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if len(pack.Questions) != 1 || pack.Questions[0].Choices[0].Text != "Paris" {
		t.Fatalf("pack lost content through the cache: %+v", pack)
	}
	if !mr.Exists("trivia:pack:capitals") {
		t.Fatalf("expected pack cached in redis")
	}

	// Second call should hit the cache; loader not incremented.
	pack, err = repo.GetPack(context.Background(), "capitals")
	if err != nil {
		t.Fatalf("get pack 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if pack.Metadata.Name != "capitals" {
		t.Fatalf("cached pack lost metadata: %+v", pack.Metadata)
	}
}

func TestPackRepositoryMissPropagates(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	repo := NewPackRepository(newClient(mr), memory.NewStaticPackLoader(nil), time.Minute)

	_, err = repo.GetPack(context.Background(), "missing")
	if !errors.Is(err, domain.ErrPackNotFound) {
		t.Fatalf("expected ErrPackNotFound, got %v", err)
	}
}

type countingLoader struct {
	memory.PackLoader
	calls int
}

func (l *countingLoader) LoadPack(ctx context.Context, name string) (domain.Pack, error) {
	l.calls++
	return l.PackLoader.LoadPack(ctx, name)
}

func samplePack() domain.Pack {
	return domain.Pack{
		Metadata: domain.PackMetadata{Name: "capitals"},
		Questions: []domain.Question{
			{
				ID:            "q1",
				Kind:          domain.KindMultipleChoice,
				Text:          "Capital of France?",
				Points:        1,
				Difficulty:    domain.DifficultyMedium,
				Choices:       []domain.Choice{{Text: "Paris"}, {Text: "Lyon"}},
				CorrectChoice: 0,
			},
		},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
