package cache_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/expense-tracker/internal/cache"
)

type failingStore struct {
	getCalls    int
	setCalls    int
	deleteCalls int
	failError   error
}

func (s *failingStore) Get(context.Context, string) ([]byte, error) {
	s.getCalls++
	return nil, s.failError
}

func (s *failingStore) Set(context.Context, string, []byte, time.Duration) error {
	s.setCalls++
	return s.failError
}

func (s *failingStore) Delete(context.Context, ...string) error {
	s.deleteCalls++
	return s.failError
}

func (s *failingStore) DeletePrefix(context.Context, string) error {
	s.deleteCalls++
	return s.failError
}

func (s *failingStore) Ping(context.Context) error { return s.failError }
func (s *failingStore) Close() error               { return nil }

type monthly struct {
	TotalGlobal float64 `json:"totalGlobal"`
	ByCategory  []int   `json:"byCategory"`
}

var _ = Describe("Coordinator", func() {
	var (
		ctx    context.Context
		logger *slog.Logger
		store  *cache.MemoryStore
		coord  *cache.Coordinator
	)

	BeforeEach(func() {
		ctx = context.Background()
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		store = cache.NewMemoryStore(100, 4)
		coord = cache.NewCoordinator(store, 0, logger)
	})

	It("defaults the TTL to five minutes", func() {
		Expect(coord.TTL()).To(Equal(300 * time.Second))
	})

	Context("Get and Set", func() {
		It("returns what was set", func() {
			in := monthly{TotalGlobal: 19.5, ByCategory: []int{1, 2}}
			coord.Set(ctx, "summary:monthly:1:2025-7", in)

			var out monthly
			Expect(coord.Get(ctx, "summary:monthly:1:2025-7", &out)).To(BeTrue())
			Expect(out).To(Equal(in))
		})

		It("reports a miss for unknown keys", func() {
			var out monthly
			Expect(coord.Get(ctx, "nope", &out)).To(BeFalse())
		})

		It("treats a corrupt entry as a miss", func() {
			Expect(store.Set(ctx, "bad", []byte("{not json"), time.Minute)).To(Succeed())

			var out monthly
			Expect(coord.Get(ctx, "bad", &out)).To(BeFalse())
		})
	})

	Context("Invalidate", func() {
		It("is idempotent", func() {
			coord.Set(ctx, "categories:user:1", []string{"Food"})

			coord.Invalidate(ctx, "categories:user:1")
			coord.Invalidate(ctx, "categories:user:1")

			var out []string
			Expect(coord.Get(ctx, "categories:user:1", &out)).To(BeFalse())
		})

		It("drops every summary of a user and nothing else", func() {
			coord.Set(ctx, cache.MonthlySummaryKey(1, 2025, 7), monthly{})
			coord.Set(ctx, cache.CategorySummaryKey(1, "2025-07-01", "2025-07-31"), []int{})
			coord.Set(ctx, cache.CategoriesKey(1), []string{})
			coord.Set(ctx, cache.MonthlySummaryKey(2, 2025, 7), monthly{})

			coord.InvalidateSummaries(ctx, 1)

			var m monthly
			var l []int
			var c []string
			Expect(coord.Get(ctx, cache.MonthlySummaryKey(1, 2025, 7), &m)).To(BeFalse())
			Expect(coord.Get(ctx, cache.CategorySummaryKey(1, "2025-07-01", "2025-07-31"), &l)).To(BeFalse())
			Expect(coord.Get(ctx, cache.CategoriesKey(1), &c)).To(BeTrue())
			Expect(coord.Get(ctx, cache.MonthlySummaryKey(2, 2025, 7), &m)).To(BeTrue())
		})

		It("drops the categories entry too on InvalidateUser", func() {
			coord.Set(ctx, cache.CategoriesKey(1), []string{})
			coord.Set(ctx, cache.MonthlySummaryKey(1, 2025, 7), monthly{})

			coord.InvalidateUser(ctx, 1)

			var c []string
			var m monthly
			Expect(coord.Get(ctx, cache.CategoriesKey(1), &c)).To(BeFalse())
			Expect(coord.Get(ctx, cache.MonthlySummaryKey(1, 2025, 7), &m)).To(BeFalse())
		})
	})

	Context("Remember", func() {
		It("fetches once and serves the cached value afterwards", func() {
			calls := 0
			fetch := func(context.Context) (monthly, error) {
				calls++
				return monthly{TotalGlobal: 7}, nil
			}

			first, err := cache.Remember(ctx, coord, "k", fetch)
			Expect(err).NotTo(HaveOccurred())
			second, err := cache.Remember(ctx, coord, "k", fetch)
			Expect(err).NotTo(HaveOccurred())

			Expect(calls).To(Equal(1))
			Expect(second).To(Equal(first))
		})

		It("does not cache fetch errors", func() {
			boom := errors.New("db down")
			_, err := cache.Remember(ctx, coord, "k", func(context.Context) (monthly, error) {
				return monthly{}, boom
			})
			Expect(err).To(MatchError(boom))

			var out monthly
			Expect(coord.Get(ctx, "k", &out)).To(BeFalse())
		})
	})

	Context("when the store is unavailable", func() {
		var broken *failingStore

		BeforeEach(func() {
			broken = &failingStore{failError: errors.New("connection refused")}
			coord = cache.NewCoordinator(broken, time.Minute, logger)
		})

		It("fails open on reads", func() {
			calls := 0
			value, err := cache.Remember(ctx, coord, "k", func(context.Context) (monthly, error) {
				calls++
				return monthly{TotalGlobal: 3}, nil
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(value.TotalGlobal).To(Equal(3.0))
			Expect(calls).To(Equal(1))
			Expect(broken.getCalls).To(Equal(1))
			Expect(broken.setCalls).To(Equal(1))
		})

		It("swallows write and invalidate failures", func() {
			Expect(func() {
				coord.Set(ctx, "k", 1)
				coord.Invalidate(ctx, "k")
				coord.InvalidateUser(ctx, 1)
			}).NotTo(Panic())
			Expect(broken.deleteCalls).To(Equal(4))
		})

		It("surfaces the failure on Ping", func() {
			Expect(coord.Ping(ctx)).To(HaveOccurred())
		})
	})
})
